/*
Package htmldom is a matchpage.Document backed by a parsed HTML tree. Clicks
are simulated and media elements record what was asked of them instead of
producing sound.
*/
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"github.com/adampresley/anleague/pkg/matchpage"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Document struct {
	root     *html.Node
	elements map[*html.Node]*Element
	media    map[*html.Node]*MediaElement
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)

	if err != nil {
		return nil, fmt.Errorf("error parsing html document: %w", err)
	}

	return &Document{
		root:     root,
		elements: map[*html.Node]*Element{},
		media:    map[*html.Node]*MediaElement{},
	}, nil
}

func (d *Document) QuerySelectorAll(selector string) []matchpage.Element {
	result := []matchpage.Element{}

	for _, el := range d.Find(selector) {
		result = append(result, el)
	}

	return result
}

/*
Find returns the concrete elements matching "#id" or ".class", in document
order. Any other selector matches nothing.
*/
func (d *Document) Find(selector string) []*Element {
	var (
		match func(n *html.Node) bool
	)

	result := []*Element{}

	switch {
	case strings.HasPrefix(selector, "#") && len(selector) > 1:
		id := selector[1:]
		match = func(n *html.Node) bool { return attr(n, "id") == id }

	case strings.HasPrefix(selector, ".") && len(selector) > 1:
		class := selector[1:]
		match = func(n *html.Node) bool { return hasClass(n, class) }

	default:
		return result
	}

	walk(d.root, func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			result = append(result, d.element(n))
		}
	})

	return result
}

// First is a convenience for tests and tooling.
func (d *Document) First(selector string) (*Element, bool) {
	found := d.Find(selector)

	if len(found) == 0 {
		return nil, false
	}

	return found[0], true
}

/*
MediaByID finds an <audio> or <video> element with the given id.
*/
func (d *Document) MediaByID(id string) (matchpage.Media, bool) {
	m, ok := d.Media(id)

	if !ok {
		return nil, false
	}

	return m, true
}

func (d *Document) Media(id string) (*MediaElement, bool) {
	var (
		found *html.Node
	)

	walk(d.root, func(n *html.Node) {
		if found != nil || n.Type != html.ElementNode {
			return
		}

		if (n.DataAtom == atom.Audio || n.DataAtom == atom.Video) && attr(n, "id") == id {
			found = n
		}
	})

	if found == nil {
		return nil, false
	}

	if m, ok := d.media[found]; ok {
		return m, true
	}

	m := &MediaElement{node: found}
	d.media[found] = m
	return m, true
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) element(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}

	el := &Element{node: n}
	d.elements[n] = el
	return el
}

type Element struct {
	node     *html.Node
	handlers []func()
}

func (e *Element) OnClick(handler func()) {
	e.handlers = append(e.handlers, handler)
}

// Click runs the click handlers in registration order.
func (e *Element) Click() {
	for _, h := range e.handlers {
		h()
	}
}

func (e *Element) Data(key string) string {
	return attr(e.node, "data-"+key)
}

func (e *Element) Source() string {
	return attr(e.node, "src")
}

func (e *Element) SetSource(src string) {
	setAttr(e.node, "src", src)
}

func (e *Element) Attribute(name string) string {
	return attr(e.node, name)
}

func (e *Element) AddClass(name string) {
	if hasClass(e.node, name) {
		return
	}

	classes := strings.Fields(attr(e.node, "class"))
	classes = append(classes, name)
	setAttr(e.node, "class", strings.Join(classes, " "))
}

func (e *Element) RemoveClass(name string) {
	classes := []string{}

	for _, c := range strings.Fields(attr(e.node, "class")) {
		if c != name {
			classes = append(classes, c)
		}
	}

	setAttr(e.node, "class", strings.Join(classes, " "))
}

func (e *Element) HasClass(name string) bool {
	return hasClass(e.node, name)
}

/*
MediaElement records playback requests. Playing stays true once Play has
been called; there is no audio to finish.
*/
type MediaElement struct {
	node        *html.Node
	CurrentTime float64
	Playing     bool
	PlayCount   int
	Rewinds     int
}

func (m *MediaElement) SetCurrentTime(seconds float64) {
	m.CurrentTime = seconds

	if seconds == 0 {
		m.Rewinds++
	}
}

func (m *MediaElement) Play() {
	m.Playing = true
	m.PlayCount++
}

func (m *MediaElement) Source() string {
	if src := attr(m.node, "src"); src != "" {
		return src
	}

	for c := m.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Source {
			return attr(c, "src")
		}
	}

	return ""
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}

	return ""
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}

	return false
}

//go:build js && wasm

/*
Package jsdom adapts the browser document to matchpage.Document through
syscall/js.
*/
package jsdom

import (
	"syscall/js"

	"github.com/adampresley/anleague/pkg/matchpage"
)

type Document struct {
	doc js.Value
}

func NewDocument() Document {
	return Document{doc: js.Global().Get("document")}
}

func (d Document) ReadyState() string {
	return d.doc.Get("readyState").String()
}

// OnReady runs fn once the document has been parsed.
func (d Document) OnReady(fn func()) {
	if d.ReadyState() != "loading" {
		fn()
		return
	}

	var cb js.Func

	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		cb.Release()
		fn()
		return nil
	})

	d.doc.Call("addEventListener", "DOMContentLoaded", cb)
}

func (d Document) QuerySelectorAll(selector string) []matchpage.Element {
	result := []matchpage.Element{}
	nodes := d.doc.Call("querySelectorAll", selector)
	length := nodes.Length()

	for i := 0; i < length; i++ {
		result = append(result, Element{value: nodes.Index(i)})
	}

	return result
}

func (d Document) MediaByID(id string) (matchpage.Media, bool) {
	el := d.doc.Call("getElementById", id)

	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}

	if el.Get("play").Type() != js.TypeFunction {
		return nil, false
	}

	return Media{value: el}, true
}

/*
Element wraps a DOM element. Click listeners live as long as the page, so
their js.Func values are never released.
*/
type Element struct {
	value js.Value
}

func (e Element) OnClick(handler func()) {
	e.value.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		handler()
		return nil
	}))
}

func (e Element) Data(key string) string {
	v := e.value.Get("dataset").Get(key)

	if v.IsUndefined() || v.IsNull() {
		return ""
	}

	return v.String()
}

// Source reads the attribute; the src property resolves to an absolute URL.
func (e Element) Source() string {
	v := e.value.Call("getAttribute", "src")

	if v.IsNull() {
		return ""
	}

	return v.String()
}

func (e Element) SetSource(src string) {
	e.value.Set("src", src)
}

func (e Element) AddClass(name string) {
	e.value.Get("classList").Call("add", name)
}

func (e Element) RemoveClass(name string) {
	e.value.Get("classList").Call("remove", name)
}

func (e Element) HasClass(name string) bool {
	return e.value.Get("classList").Call("contains", name).Bool()
}

type Media struct {
	value js.Value
}

func (m Media) SetCurrentTime(seconds float64) {
	m.value.Set("currentTime", seconds)
}

/*
Play starts playback. play() returns a promise that rejects when autoplay
is blocked; the rejection is swallowed.
*/
func (m Media) Play() {
	promise := m.value.Call("play")

	if promise.IsUndefined() || promise.IsNull() {
		return
	}

	promise.Call("catch", swallow)
}

var swallow = js.FuncOf(func(this js.Value, args []js.Value) any {
	return nil
})

package htmldom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markup = `<html><body>
<div id="a" class="one two"></div>
<p class="two" data-full="x.gif"></p>
<audio id="goal-sfx"><source src="/goal.ogg"></audio>
<div id="goal-div"></div>
</body></html>`

func TestFind(t *testing.T) {
	doc, err := Parse(strings.NewReader(markup))
	require.NoError(t, err)

	assert.Len(t, doc.Find(".two"), 2)
	assert.Len(t, doc.Find("#a"), 1)
	assert.Empty(t, doc.Find("#missing"))
	assert.Empty(t, doc.Find("div"), "tag selectors are not supported")
	assert.Empty(t, doc.Find("#"))

	p, ok := doc.First(".two")
	require.True(t, ok)
	assert.True(t, p.HasClass("one"), "document order puts #a first")

	all := doc.QuerySelectorAll(".two")
	assert.Same(t, doc.Find(".two")[1], all[1], "elements are stable across queries")
}

func TestClassManipulation(t *testing.T) {
	doc, err := Parse(strings.NewReader(markup))
	require.NoError(t, err)

	el, _ := doc.First("#a")

	el.AddClass("hidden")
	el.AddClass("hidden")
	assert.Equal(t, "one two hidden", el.Attribute("class"))

	el.RemoveClass("one")
	assert.Equal(t, "two hidden", el.Attribute("class"))
	assert.False(t, el.HasClass("one"))
}

func TestDataAndSource(t *testing.T) {
	doc, err := Parse(strings.NewReader(markup))
	require.NoError(t, err)

	p := doc.Find(".two")[1]
	assert.Equal(t, "x.gif", p.Data("full"))
	assert.Equal(t, "", p.Data("missing"))

	p.SetSource("y.gif")
	assert.Equal(t, "y.gif", p.Source())

	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	assert.Contains(t, buf.String(), `src="y.gif"`)
}

func TestMediaByIDOnlyMatchesMediaElements(t *testing.T) {
	doc, err := Parse(strings.NewReader(markup))
	require.NoError(t, err)

	m, ok := doc.Media("goal-sfx")
	require.True(t, ok)
	assert.Equal(t, "/goal.ogg", m.Source())

	again, _ := doc.Media("goal-sfx")
	assert.Same(t, m, again)

	_, ok = doc.MediaByID("goal-div")
	assert.False(t, ok)

	m.CurrentTime = 2
	m.SetCurrentTime(0)
	m.Play()
	assert.Equal(t, 1, m.Rewinds)
	assert.Equal(t, 1, m.PlayCount)
	assert.True(t, m.Playing)
}

func TestClickRunsHandlersInOrder(t *testing.T) {
	doc, err := Parse(strings.NewReader(markup))
	require.NoError(t, err)

	el, _ := doc.First("#a")
	calls := []int{}

	el.OnClick(func() { calls = append(calls, 1) })
	el.OnClick(func() { calls = append(calls, 2) })
	el.Click()

	assert.Equal(t, []int{1, 2}, calls)
}

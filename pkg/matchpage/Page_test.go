package matchpage_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/adampresley/anleague/pkg/matchpage"
	"github.com/adampresley/anleague/pkg/matchpage/htmldom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullPage = `<!DOCTYPE html>
<html><body>
<audio id="goal-sfx" src="/static/assets/goal.ogg"></audio>
<audio id="crowd-sfx" src="/static/assets/crowd.ogg"></audio>
<button class="btn play-goal">GOAL!</button>
<img class="gif-thumb" src="thumb.jpg" data-full="big.gif">
<div id="gif-modal" class="modal hidden">
  <button id="gif-modal-close">x</button>
  <img id="gif-modal-img" src="">
</div>
</body></html>`

func setup(t *testing.T, markup string) (*htmldom.Document, *matchpage.Page, *matchpage.ManualScheduler) {
	t.Helper()

	doc, err := htmldom.Parse(strings.NewReader(markup))
	require.NoError(t, err)

	scheduler := matchpage.NewManualScheduler()

	page, err := matchpage.Initialize(doc, matchpage.PageConfig{Scheduler: scheduler})
	require.NoError(t, err)

	return doc, page, scheduler
}

func first(t *testing.T, doc *htmldom.Document, selector string) *htmldom.Element {
	t.Helper()

	el, ok := doc.First(selector)
	require.True(t, ok, "expected %s in document", selector)
	return el
}

func media(t *testing.T, doc *htmldom.Document, id string) *htmldom.MediaElement {
	t.Helper()

	m, ok := doc.Media(id)
	require.True(t, ok, "expected media %s in document", id)
	return m
}

func TestInitializeRequiresDocument(t *testing.T) {
	page, err := matchpage.Initialize(nil, matchpage.PageConfig{})

	assert.Nil(t, page)
	assert.Error(t, err)
}

func TestConcreteScenario(t *testing.T) {
	doc, page, scheduler := setup(t, fullPage)

	goal := media(t, doc, "goal-sfx")
	crowd := media(t, doc, "crowd-sfx")
	modal := first(t, doc, "#gif-modal")
	modalImg := first(t, doc, "#gif-modal-img")

	goal.CurrentTime = 3.5

	first(t, doc, ".play-goal").Click()

	assert.Equal(t, float64(0), goal.CurrentTime)
	assert.True(t, goal.Playing)
	assert.False(t, crowd.Playing, "crowd plays only after the delay")

	scheduler.Advance(199 * time.Millisecond)
	assert.False(t, crowd.Playing)

	scheduler.Advance(time.Millisecond)
	assert.Equal(t, float64(0), crowd.CurrentTime)
	assert.True(t, crowd.Playing)

	first(t, doc, ".gif-thumb").Click()
	assert.Equal(t, "big.gif", modalImg.Source())
	assert.False(t, modal.HasClass("hidden"))
	assert.True(t, modal.HasClass("modal"))

	first(t, doc, "#gif-modal-close").Click()
	assert.True(t, modal.HasClass("hidden"))
	assert.Equal(t, "", modalImg.Source())

	assert.Equal(t, matchpage.Bindings{
		GoalControls:  1,
		Thumbnails:    1,
		CloseControls: 1,
		GoalSound:     true,
		CrowdSound:    true,
		Lightbox:      true,
	}, page.Bindings())
}

func TestGoalControlsOfAnyCount(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		t.Run(fmt.Sprintf("%d controls", n), func(t *testing.T) {
			markup := `<audio id="goal-sfx"></audio><audio id="crowd-sfx"></audio>` +
				strings.Repeat(`<button class="play-goal">goal</button>`, n)

			doc, page, scheduler := setup(t, markup)
			goal := media(t, doc, "goal-sfx")
			crowd := media(t, doc, "crowd-sfx")

			assert.Equal(t, n, page.Bindings().GoalControls)

			for _, control := range doc.Find(".play-goal") {
				control.Click()
			}

			assert.Equal(t, n, goal.PlayCount)
			assert.Equal(t, 0, crowd.PlayCount)

			scheduler.Advance(matchpage.DefaultCrowdDelay)
			assert.Equal(t, n, crowd.PlayCount)
		})
	}
}

func TestMissingSoundsAreSkipped(t *testing.T) {
	tests := []struct {
		name      string
		markup    string
		wantGoal  bool
		wantCrowd bool
	}{
		{
			name:      "no sounds",
			markup:    `<button class="play-goal">goal</button>`,
			wantGoal:  false,
			wantCrowd: false,
		},
		{
			name:      "goal only",
			markup:    `<audio id="goal-sfx"></audio><button class="play-goal">goal</button>`,
			wantGoal:  true,
			wantCrowd: false,
		},
		{
			name:      "crowd only",
			markup:    `<audio id="crowd-sfx"></audio><button class="play-goal">goal</button>`,
			wantGoal:  false,
			wantCrowd: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, scheduler := setup(t, tt.markup)

			assert.NotPanics(t, func() {
				first(t, doc, ".play-goal").Click()
				scheduler.Advance(time.Second)
			})

			if goal, ok := doc.Media("goal-sfx"); ok {
				assert.Equal(t, tt.wantGoal, goal.Playing)
			}

			if crowd, ok := doc.Media("crowd-sfx"); ok {
				assert.Equal(t, tt.wantCrowd, crowd.Playing)
			}
		})
	}
}

func TestRapidClicksRestartGoalSoundEachTime(t *testing.T) {
	doc, _, scheduler := setup(t, fullPage)

	goal := media(t, doc, "goal-sfx")
	crowd := media(t, doc, "crowd-sfx")
	control := first(t, doc, ".play-goal")

	control.Click()
	scheduler.Advance(10 * time.Millisecond)
	control.Click()

	assert.Equal(t, 2, goal.Rewinds)
	assert.Equal(t, 2, goal.PlayCount)

	scheduler.Advance(190 * time.Millisecond)
	assert.Equal(t, 1, crowd.PlayCount, "first delayed play is due at 200ms")

	scheduler.Advance(10 * time.Millisecond)
	assert.Equal(t, 2, crowd.PlayCount, "second delayed play is not deduplicated")
	assert.Equal(t, 0, scheduler.Pending())
}

func TestThumbnailOpensItsOwnLocator(t *testing.T) {
	markup := `<img class="gif-thumb" data-full="one.gif"><img class="gif-thumb" data-full="two.webp">
<div id="gif-modal" class="hidden"><img id="gif-modal-img"></div><span id="gif-modal-close"></span>`

	doc, page, _ := setup(t, markup)
	thumbs := doc.Find(".gif-thumb")
	require.Len(t, thumbs, 2)

	for _, thumb := range thumbs {
		thumb.Click()

		visible, source, ok := page.LightboxState()
		require.True(t, ok)
		assert.True(t, visible)
		assert.Equal(t, thumb.Data("full"), source)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	doc, page, _ := setup(t, fullPage)

	modal := first(t, doc, "#gif-modal")
	closeControl := first(t, doc, "#gif-modal-close")

	closeControl.Click()
	closeControl.Click()

	visible, source, _ := page.LightboxState()
	assert.False(t, visible)
	assert.Equal(t, "", source)
	assert.Equal(t, "modal hidden", modal.Attribute("class"))
}

func TestVisibilityMatchesSourceAtEveryStep(t *testing.T) {
	doc, page, scheduler := setup(t, fullPage)

	thumb := first(t, doc, ".gif-thumb")
	closeControl := first(t, doc, "#gif-modal-close")
	goalControl := first(t, doc, ".play-goal")
	modal := first(t, doc, "#gif-modal")

	steps := []func(){
		thumb.Click,
		thumb.Click,
		closeControl.Click,
		goalControl.Click,
		func() { scheduler.Advance(time.Second) },
		closeControl.Click,
		thumb.Click,
		goalControl.Click,
		closeControl.Click,
	}

	check := func(step int) {
		visible, source, ok := page.LightboxState()
		require.True(t, ok)
		assert.Equal(t, visible, source != "", "step %d", step)
		assert.Equal(t, visible, !modal.HasClass("hidden"), "step %d", step)
	}

	check(-1)

	for i, step := range steps {
		step()
		check(i)
	}
}

func TestThumbnailWithoutLocatorKeepsOverlayHidden(t *testing.T) {
	markup := `<img class="gif-thumb"><div id="gif-modal" class="hidden"><img id="gif-modal-img"></div>`
	doc, page, _ := setup(t, markup)

	first(t, doc, ".gif-thumb").Click()

	visible, source, _ := page.LightboxState()
	assert.False(t, visible)
	assert.Equal(t, "", source)
}

func TestMissingCloseControlIsTolerated(t *testing.T) {
	markup := `<img class="gif-thumb" data-full="a.gif"><div id="gif-modal" class="hidden"><img id="gif-modal-img"></div>`
	doc, page, _ := setup(t, markup)

	assert.Equal(t, 0, page.Bindings().CloseControls)
	assert.Equal(t, 1, page.Bindings().Thumbnails)

	first(t, doc, ".gif-thumb").Click()
	visible, _, _ := page.LightboxState()
	assert.True(t, visible)
}

func TestMissingModalSkipsLightbox(t *testing.T) {
	markup := `<img class="gif-thumb" data-full="a.gif"><button id="gif-modal-close"></button>`
	doc, page, _ := setup(t, markup)

	assert.False(t, page.Bindings().Lightbox)
	assert.Equal(t, 0, page.Bindings().Thumbnails)

	assert.NotPanics(t, func() {
		first(t, doc, ".gif-thumb").Click()
		first(t, doc, "#gif-modal-close").Click()
	})

	_, _, ok := page.LightboxState()
	assert.False(t, ok)
}

func TestInconsistentInitialOverlayIsClosed(t *testing.T) {
	markup := `<div id="gif-modal"><img id="gif-modal-img"></div>`
	doc, page, _ := setup(t, markup)

	visible, source, _ := page.LightboxState()
	assert.False(t, visible)
	assert.Equal(t, "", source)
	assert.True(t, first(t, doc, "#gif-modal").HasClass("hidden"))
}

func TestCustomCrowdDelay(t *testing.T) {
	doc, err := htmldom.Parse(strings.NewReader(fullPage))
	require.NoError(t, err)

	scheduler := matchpage.NewManualScheduler()
	_, err = matchpage.Initialize(doc, matchpage.PageConfig{
		CrowdDelay: 50 * time.Millisecond,
		Scheduler:  scheduler,
	})
	require.NoError(t, err)

	first(t, doc, ".play-goal").Click()
	scheduler.Advance(50 * time.Millisecond)

	assert.True(t, media(t, doc, "crowd-sfx").Playing)
}

package matchpage

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type PageConfig struct {
	CrowdDelay time.Duration
	Logger     *slog.Logger
	Scheduler  Scheduler
}

/*
Page is a match page with its goal sound and lightbox behavior bound. All
click handlers and scheduled sounds of one page run under a single lock.
*/
type Page struct {
	mu sync.Mutex

	goal     *GoalSoundTrigger
	lightbox *Lightbox
	bindings Bindings
}

/*
Bindings summarizes what Initialize found in the document.
*/
type Bindings struct {
	GoalControls  int
	Thumbnails    int
	CloseControls int
	GoalSound     bool
	CrowdSound    bool
	Lightbox      bool
}

/*
Initialize binds the goal controls, thumbnails and close controls present in
root at the time of the call. It is meant to run once per document. Missing
sounds and an empty set of any control are tolerated. Thumbnails and close
controls are only bound when both the modal and its image slot exist.
*/
func Initialize(root Document, config PageConfig) (*Page, error) {
	if root == nil {
		return nil, fmt.Errorf("cannot initialize match page without a document")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	scheduler := config.Scheduler
	if scheduler == nil {
		scheduler = NewTimerScheduler()
	}

	p := &Page{}

	goalSound, hasGoal := root.MediaByID(GoalSoundID)
	crowdSound, hasCrowd := root.MediaByID(CrowdSoundID)

	p.goal = NewGoalSoundTrigger(GoalSoundTriggerConfig{
		Goal:       mediaOrNil(goalSound, hasGoal),
		Crowd:      mediaOrNil(crowdSound, hasCrowd),
		CrowdDelay: config.CrowdDelay,
		Scheduler:  lockedScheduler{inner: scheduler, lock: &p.mu},
	})

	p.bindings.GoalSound = hasGoal
	p.bindings.CrowdSound = hasCrowd

	for _, control := range root.QuerySelectorAll("." + GoalControlClass) {
		control.OnClick(p.guard(func() {
			p.goal.Trigger()
		}))

		p.bindings.GoalControls++
	}

	modal, hasModal := elementByID(root, ModalID)
	modalImage, hasImage := elementByID(root, ModalImageID)

	if !hasModal || !hasImage {
		logger.Warn("lightbox markup missing, thumbnails not bound", "modal", hasModal, "modalImage", hasImage)
		p.logBindings(logger)
		return p, nil
	}

	p.lightbox = NewLightbox(modal, modalImage)
	p.bindings.Lightbox = true

	for _, thumb := range root.QuerySelectorAll("." + ThumbnailClass) {
		thumb.OnClick(p.guard(func() {
			p.lightbox.Open(thumb.Data(FullDataKey))
		}))

		p.bindings.Thumbnails++
	}

	for _, closeControl := range root.QuerySelectorAll("#" + ModalCloseID) {
		closeControl.OnClick(p.guard(p.lightbox.Close))
		p.bindings.CloseControls++
	}

	p.logBindings(logger)
	return p, nil
}

func (p *Page) guard(fn func()) func() {
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		fn()
	}
}

func (p *Page) logBindings(logger *slog.Logger) {
	logger.Debug("match page initialized",
		slog.Int("goalControls", p.bindings.GoalControls),
		slog.Int("thumbnails", p.bindings.Thumbnails),
		slog.Int("closeControls", p.bindings.CloseControls),
		slog.Bool("goalSound", p.bindings.GoalSound),
		slog.Bool("crowdSound", p.bindings.CrowdSound),
		slog.Bool("lightbox", p.bindings.Lightbox),
	)
}

func (p *Page) Bindings() Bindings {
	return p.bindings
}

/*
LightboxState reports the overlay visibility and the image source as one
consistent snapshot. ok is false when the page has no lightbox.
*/
func (p *Page) LightboxState() (visible bool, source string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lightbox == nil {
		return false, "", false
	}

	return p.lightbox.IsOpen(), p.lightbox.Source(), true
}

func mediaOrNil(m Media, ok bool) Media {
	if !ok {
		return nil
	}

	return m
}

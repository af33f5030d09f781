package matchpage

/*
Element is the part of a page element the match page needs. Implementations
exist for the browser (syscall/js) and for parsed HTML documents.
*/
type Element interface {
	OnClick(handler func())
	Data(key string) string
	Source() string
	SetSource(src string)
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
}

/*
Media is an audio-playable element. Play is fire-and-forget.
*/
type Media interface {
	SetCurrentTime(seconds float64)
	Play()
}

/*
Document is the root the match page binds against. QuerySelectorAll only
needs to understand "#id" and ".class" selectors.
*/
type Document interface {
	QuerySelectorAll(selector string) []Element
	MediaByID(id string) (Media, bool)
}

const (
	GoalSoundID      = "goal-sfx"
	CrowdSoundID     = "crowd-sfx"
	GoalControlClass = "play-goal"
	ModalID          = "gif-modal"
	ModalImageID     = "gif-modal-img"
	ModalCloseID     = "gif-modal-close"
	ThumbnailClass   = "gif-thumb"
	FullDataKey      = "full"
	HiddenClass      = "hidden"
)

func elementByID(root Document, id string) (Element, bool) {
	matches := root.QuerySelectorAll("#" + id)

	if len(matches) == 0 {
		return nil, false
	}

	return matches[0], true
}

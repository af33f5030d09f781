package matchpage

/*
Overlay holds the shown/hidden state of the modal. The element's marker
class is only a rendering of that state.
*/
type Overlay struct {
	element Element
	visible bool
}

func NewOverlay(element Element) *Overlay {
	return &Overlay{
		element: element,
		visible: !element.HasClass(HiddenClass),
	}
}

func (o *Overlay) Visible() bool {
	return o.visible
}

func (o *Overlay) Show() {
	o.visible = true
	o.render()
}

func (o *Overlay) Hide() {
	o.visible = false
	o.render()
}

func (o *Overlay) render() {
	if o.visible {
		o.element.RemoveClass(HiddenClass)
		return
	}

	o.element.AddClass(HiddenClass)
}

/*
Lightbox shows a full-size image over the page. The image source is set on
every open and cleared on every close, so it is non-empty exactly when the
overlay is visible.
*/
type Lightbox struct {
	overlay *Overlay
	image   Element
}

func NewLightbox(modal, image Element) *Lightbox {
	l := &Lightbox{
		overlay: NewOverlay(modal),
		image:   image,
	}

	if l.overlay.Visible() != (image.Source() != "") {
		l.Close()
	}

	return l
}

/*
Open shows locator in the overlay without checking it. The one exception is
an empty locator: showing it would leave a visible overlay with no image and
break the rule that the overlay is visible exactly when the image slot has
a source, so it is ignored and false is returned.
*/
func (l *Lightbox) Open(locator string) bool {
	if locator == "" {
		return false
	}

	l.image.SetSource(locator)
	l.overlay.Show()
	return true
}

// Close is idempotent.
func (l *Lightbox) Close() {
	l.overlay.Hide()
	l.image.SetSource("")
}

func (l *Lightbox) IsOpen() bool {
	return l.overlay.Visible()
}

func (l *Lightbox) Source() string {
	return l.image.Source()
}

package render

// Drawable is an opaque backend payload. The queue never inspects or owns it.
type Drawable any

// Presenter draws one job. Jobs arrive in ascending depth order.
type Presenter interface {
	Present(d Drawable, depth int)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(d Drawable, depth int)

func (f PresenterFunc) Present(d Drawable, depth int) { f(d, depth) }

// FrameHooks is implemented by presenters that need to prepare and flush a
// frame around the drained jobs.
type FrameHooks interface {
	BeginFrame()
	EndFrame()
}

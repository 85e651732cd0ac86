package event

// InputAction is a named input binding that fired ("up", "jump", "quit").
// It is fanned out to every active entity through OnInputAction.
type InputAction struct {
	Action string
}

// Quit asks the host loop to stop after the current tick.
type Quit struct {
	Reason string
}

// Resize reports a new presenter surface size, in cells.
type Resize struct {
	Width  int
	Height int
}

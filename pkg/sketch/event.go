package sketch

// Event is an input a host forwards to Controller.Dispatch.
type Event interface {
	event()
}

// HoverEvent is the pointer entering the cell at Row, Col.
type HoverEvent struct {
	Row, Col int
}

// ModeEvent is a click on a mode control.
type ModeEvent struct {
	Mode Mode
}

// ClearEvent is a click on the clear control.
type ClearEvent struct{}

// ResizeEvent carries one answer to the size prompt.
type ResizeEvent struct {
	Input string
}

func (HoverEvent) event()  {}
func (ModeEvent) event()   {}
func (ClearEvent) event()  {}
func (ResizeEvent) event() {}

// Package sketch implements the etch-a-sketch grid controller.
//
// # Overview
//
// A [Controller] owns an N×N [Grid] of colored cells and a single active
// [Mode]. Filling a cell (what a pointer hover does) colors it according to
// the mode that is active at that moment:
//
//   - [ModeBlack] paints opaque black; repeated fills change nothing.
//   - [ModeGreyscale] dims the current color by [DimStep] on every channel,
//     floored at zero, so about ten passes reach black.
//   - [ModeRainbow] paints a uniformly random color on every fill.
//
// [Controller.Clear] whitens every cell, and [Controller.ChangeSize] asks a
// [Prompter] for a new size until the answer is valid or the user cancels,
// then rebuilds the lattice. Hosts that cannot block on a prompt use
// [Controller.Resize] with one answer at a time instead.
//
// # Dispatch
//
// Hosts translate their input into [Event] values and hand them to
// [Controller.Dispatch]:
//
//	c := sketch.New()
//	_ = c.Dispatch(sketch.ModeEvent{Mode: sketch.ModeGreyscale})
//	_ = c.Dispatch(sketch.HoverEvent{Row: 3, Col: 4})
//	_ = c.Dispatch(sketch.ResizeEvent{Input: "32"})
//
// # Concurrency
//
// A Controller is not safe for concurrent use. Every host drives it from a
// single goroutine (the bubbletea update loop, a session lock in the HTTP
// server, the script runner loop).
package sketch

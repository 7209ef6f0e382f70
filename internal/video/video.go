// Package video presents a rendered NES frame and reads back keyboard
// input. Trimmed from the teacher's multi-backend graphics package
// (headless/sdl2/terminal backends dropped, see DESIGN.md) down to the
// single production backend this core ships.
package video

// Backend is the host-shell seam between the core and a windowing
// toolkit. Present receives the PPU's raw palette-index framebuffer
// each frame; PollInput reports the live NES button bitmask for one
// controller, indexed the way internal/joypad expects (A, B, Select,
// Start, Up, Down, Left, Right).
type Backend interface {
	Present(frame *[256 * 240]uint8) error
	PollInput() [8]bool
	ShouldClose() bool
}

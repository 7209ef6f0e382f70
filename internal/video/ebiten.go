package video

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"nescore/internal/config"
	"nescore/internal/ppu"
)

// EbitenBackend renders a frame through ebiten's Image/RunGame loop
// and reads keyboard state through ebiten's own key-state API, the way
// the teacher's EbitengineBackend does, trimmed to one controller's
// worth of key mapping and no window-scaling math of its own (ebiten's
// Layout callback handles that).
type EbitenBackend struct {
	keys  config.KeyMapping
	img   *ebiten.Image
	pix   *image.RGBA
	close bool
}

// NewEbitenBackend builds a backend that reads player-one's key
// mapping from cfg and sizes its window to cfg's scale.
func NewEbitenBackend(cfg *config.Config) *EbitenBackend {
	w, h := cfg.WindowResolution()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetFullscreen(cfg.Window.Fullscreen)

	return &EbitenBackend{
		keys: cfg.Input.Player1,
		img:  ebiten.NewImage(256, 240),
		pix:  image.NewRGBA(image.Rect(0, 0, 256, 240)),
	}
}

// Present converts the PPU's palette-index framebuffer to RGBA and
// uploads it to the backing ebiten.Image for the next Draw call.
func (b *EbitenBackend) Present(frame *[256 * 240]uint8) error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		b.close = true
	}
	for i, idx := range frame {
		r, g, bl := ppu.RGB(idx)
		b.pix.SetRGBA(i%256, i/256, color.RGBA{R: r, G: g, B: bl, A: 255})
	}
	b.img.WritePixels(b.pix.Pix)
	return nil
}

// PollInput reads the live state of player one's mapped keys.
func (b *EbitenBackend) PollInput() [8]bool {
	var state [8]bool
	state[0] = keyHeld(b.keys.A)
	state[1] = keyHeld(b.keys.B)
	state[2] = keyHeld(b.keys.Select)
	state[3] = keyHeld(b.keys.Start)
	state[4] = keyHeld(b.keys.Up)
	state[5] = keyHeld(b.keys.Down)
	state[6] = keyHeld(b.keys.Left)
	state[7] = keyHeld(b.keys.Right)
	return state
}

// ShouldClose reports whether the player asked to quit.
func (b *EbitenBackend) ShouldClose() bool { return b.close }

// Image returns the ebiten.Image the cmd/nescore game loop draws to
// the screen each frame.
func (b *EbitenBackend) Image() *ebiten.Image { return b.img }

func keyHeld(name string) bool {
	key, ok := keyByName[name]
	if !ok {
		return false
	}
	return ebiten.IsKeyPressed(key)
}

var keyByName = map[string]ebiten.Key{
	"W": ebiten.KeyW, "A": ebiten.KeyA, "S": ebiten.KeyS, "D": ebiten.KeyD,
	"J": ebiten.KeyJ, "K": ebiten.KeyK, "N": ebiten.KeyN, "M": ebiten.KeyM,
	"Up": ebiten.KeyArrowUp, "Down": ebiten.KeyArrowDown,
	"Left": ebiten.KeyArrowLeft, "Right": ebiten.KeyArrowRight,
	"Enter": ebiten.KeyEnter, "Space": ebiten.KeySpace,
	"RightShift": ebiten.KeyShiftRight, "RightControl": ebiten.KeyControlRight,
}

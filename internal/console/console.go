// Package console wires the CPU, PPU, bus, cartridge, and joypads
// into a single owning scheduler (spec §4.7, §5). It is the only
// package that holds every component at once; all other packages see
// each other only through the narrow interfaces wired up in New.
package console

import (
	"nescore/internal/apu"
	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/joypad"
	"nescore/internal/ppu"
	"nescore/internal/vram"
)

// Console owns every core component for one running emulation. There
// are no back-pointers between components: the Console mediates all
// cross-component effects (NMI propagation, OAM DMA) itself, once per
// Step, exactly as spec §5/§9 prescribes for the tree-shaped
// ownership model.
type Console struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	bus  *bus.Bus
	cart *cartridge.Cartridge
	vram *vram.VRAM
	apu  *apu.APU
	pad1 *joypad.Joypad
	pad2 *joypad.Joypad
}

// New builds a Console around an already-loaded cartridge and resets
// the CPU from its reset vector.
func New(cart *cartridge.Cartridge) *Console {
	mirror := vram.MirrorMode(cart.Mirror)
	vr := vram.New(cart, mirror)
	p := ppu.New(vr)
	a := apu.New()
	pad1, pad2 := joypad.New(), joypad.New()
	b := bus.New(p, cart, a, pad1, pad2)
	c := cpu.New(b)
	c.Reset()

	return &Console{cpu: c, ppu: p, bus: b, cart: cart, vram: vr, apu: a, pad1: pad1, pad2: pad2}
}

// Step advances emulation by one scheduling quantum: it services any
// pending OAM DMA, then ticks whichever of CPU/PPU is behind in the
// fixed 3:1 PPU:CPU dot ratio (spec §4.7).
func (c *Console) Step() {
	if c.bus.DMAPending() {
		stall := c.bus.RunDMA(c.cpu.Cycles())
		c.cpu.Stall(stall)
	}

	if c.ppu.Cycles() < c.cpu.Cycles()*3 {
		c.ppu.Tick()
		c.cpu.SetNMILine(c.ppu.NMILine())
		return
	}
	c.cpu.Step()
	c.cpu.SetNMILine(c.ppu.NMILine())
}

// RunFrame advances emulation until one full field (341*262 PPU dots)
// has elapsed, returning the rendered framebuffer.
func (c *Console) RunFrame() *[256 * 240]uint8 {
	start := c.ppu.Cycles()
	for c.ppu.Cycles()-start < 341*262 {
		c.Step()
	}
	return c.ppu.Framebuffer()
}

// SetButtonState updates one controller's live button bitmask (spec
// §4.4, §6's "controller input to core").
func (c *Console) SetButtonState(controller int, mask uint8) {
	if controller == 0 {
		c.pad1.SetButtonState(mask)
	} else {
		c.pad2.SetButtonState(mask)
	}
}

// Framebuffer returns the PPU's current 256x240 palette-index frame.
func (c *Console) Framebuffer() *[256 * 240]uint8 { return c.ppu.Framebuffer() }

// Halted reports whether the CPU hit a fatal KIL/JAM opcode.
func (c *Console) Halted() bool { return c.cpu.Halted() }

// Package ppu implements the 2C02 Picture Processing Unit: the
// 341x262 dot/scanline grid, scrolling via the loopy v/t/x/w
// registers, background and sprite compositing, and VBlank/NMI
// timing (spec §4.2).
package ppu

import "github.com/golang/glog"

// VRAM is the 14-bit PPU address space the PPU renders through.
type VRAM interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
	ReadPalette(addr uint16) uint8
}

const (
	screenWidth  = 256
	screenHeight = 240
	dotsPerLine  = 341
	preRenderLine = -1
	postRenderVBlankLine = 241
	lastLine     = 260
)

// PPU is the NES 2C02, driven one dot at a time by the Console.
type PPU struct {
	vram VRAM

	// loopy scroll state
	v, t uint16
	x    uint8
	w    bool

	ctrlNMIEnable        bool
	ctrlSpriteSize16     bool
	ctrlBGPatternHigh    bool
	ctrlSpritePatternHigh bool
	ctrlIncrement32      bool

	maskShowBG        bool
	maskShowSprites   bool
	maskShowBGLeft8   bool
	maskShowSpriteLeft8 bool

	statusVBlank      bool
	spriteZeroHit     bool
	spriteOverflow    bool
	nmiLine           bool

	oamAddr    uint8
	oam        [256]uint8
	readBuffer uint8

	dot    int
	line   int
	cycles uint64

	frame       [screenWidth * screenHeight]uint8
	frameParity bool

	bgColorIdx  [screenWidth]uint8
	bgOpaque    [screenWidth]bool
	bgPaletteIx [screenWidth]uint8

	spColorIdx  [screenWidth]uint8
	spPaletteIx [screenWidth]uint8
	spIsZero    [screenWidth]bool
}

// New creates a PPU bound to its VRAM, starting at the pre-render line.
func New(vram VRAM) *PPU {
	return &PPU{vram: vram, line: preRenderLine, dot: 0}
}

// NMILine reports the PPU's NMI output to the CPU; the CPU
// edge-detects this itself (spec §4.1's interrupt dispatch).
func (p *PPU) NMILine() bool { return p.nmiLine }

// Framebuffer returns the current 256x240 palette-index frame.
func (p *PPU) Framebuffer() *[screenWidth * screenHeight]uint8 { return &p.frame }

// Dot and Line expose the current grid position, mainly for tests.
func (p *PPU) Dot() int  { return p.dot }
func (p *PPU) Line() int { return p.line }

func (p *PPU) renderingEnabled() bool { return p.maskShowBG || p.maskShowSprites }

// Cycles returns the total number of dots ticked since creation, for
// the Console scheduler's 3:1 comparison against the CPU (spec §4.7).
func (p *PPU) Cycles() uint64 { return p.cycles }

// Tick advances the PPU by exactly one dot.
func (p *PPU) Tick() {
	p.cycles++
	p.advanceDotLine()

	if p.line >= 0 && p.line < screenHeight && p.dot == 0 {
		if p.renderingEnabled() {
			p.renderBackgroundLine(p.line)
			p.evaluateSprites(p.line)
		} else {
			p.bgColorIdx = [screenWidth]uint8{}
			p.bgOpaque = [screenWidth]bool{}
			p.spColorIdx = [screenWidth]uint8{}
		}
	}
	if p.line >= 0 && p.line < screenHeight && p.dot < screenWidth {
		p.compositePixel(p.line, p.dot)
	}

	if p.renderingEnabled() {
		switch {
		case p.dot == 256 && (p.line == preRenderLine || p.line < screenHeight):
			p.incrementY()
		case p.dot == 257 && (p.line == preRenderLine || p.line < screenHeight):
			p.copyX()
		case p.line == preRenderLine && p.dot == 280:
			p.copyY()
		}
		inOAMHoldWindow := (p.line == preRenderLine || p.line < screenHeight) && p.dot >= 257 && p.dot <= 320
		if inOAMHoldWindow {
			p.oamAddr = 0
		}
	}

	switch {
	case p.line == postRenderVBlankLine && p.dot == 1:
		p.statusVBlank = true
		if p.ctrlNMIEnable {
			p.nmiLine = true
		}
	case p.line == lastLine && p.dot == 1:
		p.nmiLine = false
	case p.line == preRenderLine && p.dot == 1:
		p.statusVBlank = false
		p.spriteZeroHit = false
		p.spriteOverflow = false
		p.nmiLine = false
	}
}

func (p *PPU) advanceDotLine() {
	p.dot++
	if p.dot >= dotsPerLine {
		p.dot = 0
		p.line++
		if p.line > lastLine {
			p.line = preRenderLine
			p.frameParity = !p.frameParity
		}
	}
}

// ReadRegister implements the bus.PPU interface for indices 0-7
// (CPU addresses $2000-$2007 modulo 8).
func (p *PPU) ReadRegister(index uint8) uint8 {
	switch index {
	case 2:
		return p.readStatus()
	case 4:
		return p.oam[p.oamAddr]
	case 7:
		return p.readData()
	default:
		glog.V(1).Infof("ppu: read from write-only register %d, returning open bus 0", index)
		return 0
	}
}

// WriteRegister implements the bus.PPU interface.
func (p *PPU) WriteRegister(index uint8, value uint8) {
	switch index {
	case 0:
		p.writeCtrl(value)
	case 1:
		p.writeMask(value)
	case 2:
		glog.V(1).Infof("ppu: write to read-only PPUSTATUS ignored")
	case 3:
		p.oamAddr = value
	case 4:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5:
		p.writeScroll(value)
	case 6:
		p.writeAddr(value)
	case 7:
		p.writeData(value)
	}
}

func (p *PPU) writeCtrl(value uint8) {
	prevNMI := p.ctrlNMIEnable
	p.ctrlNMIEnable = value&0x80 != 0
	p.ctrlSpriteSize16 = value&0x20 != 0
	p.ctrlBGPatternHigh = value&0x10 != 0
	p.ctrlSpritePatternHigh = value&0x08 != 0
	p.ctrlIncrement32 = value&0x04 != 0
	p.t = (p.t &^ 0x0C00) | (uint16(value&0x03) << 10)
	if p.ctrlNMIEnable && !prevNMI && p.statusVBlank {
		p.nmiLine = true
	}
}

func (p *PPU) writeMask(value uint8) {
	p.maskShowBGLeft8 = value&0x02 != 0
	p.maskShowSpriteLeft8 = value&0x04 != 0
	p.maskShowBG = value&0x08 != 0
	p.maskShowSprites = value&0x10 != 0
}

func (p *PPU) readStatus() uint8 {
	var result uint8
	if p.statusVBlank {
		result |= 0x80
	}
	if p.spriteZeroHit {
		result |= 0x40
	}
	if p.spriteOverflow {
		result |= 0x20
	}
	p.statusVBlank = false
	p.w = false
	return result
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.x = value & 0x07
		p.t = (p.t &^ 0x001F) | uint16(value>>3)
	} else {
		p.t = (p.t &^ 0x73E0) | (uint16(value&0xF8) << 2) | (uint16(value&0x07) << 12)
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t &^ 0xFF00) | (uint16(value&0x3F) << 8)
	} else {
		p.t = (p.t &^ 0x00FF) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var result uint8
	if addr >= 0x3F00 {
		result = p.vram.ReadPalette(addr)
		p.readBuffer = p.vram.Read(addr - 0x1000)
	} else {
		result = p.readBuffer
		p.readBuffer = p.vram.Read(addr)
	}
	p.v += p.vramIncrement()
	return result
}

func (p *PPU) writeData(value uint8) {
	p.vram.Write(p.v&0x3FFF, value)
	p.v += p.vramIncrement()
}

func (p *PPU) vramIncrement() uint16 {
	if p.ctrlIncrement32 {
		return 32
	}
	return 1
}

func (p *PPU) bgPatternBase() uint16 {
	if p.ctrlBGPatternHigh {
		return 0x1000
	}
	return 0
}

func (p *PPU) spritePatternBase() uint16 {
	if p.ctrlSpritePatternHigh {
		return 0x1000
	}
	return 0
}

// incrementCoarseX advances v's coarse-X field, wrapping into the
// adjacent horizontal nametable (the loopy technique).
func incrementCoarseX(v uint16) uint16 {
	if v&0x001F == 31 {
		v &^= 0x001F
		v ^= 0x0400
	} else {
		v++
	}
	return v
}

func (p *PPU) incrementY() {
	v := p.v
	if v&0x7000 != 0x7000 {
		v += 0x1000
	} else {
		v &^= 0x7000
		y := (v & 0x03E0) >> 5
		switch y {
		case 29:
			y = 0
			v ^= 0x0800
		case 31:
			y = 0
		default:
			y++
		}
		v = (v &^ 0x03E0) | (y << 5)
	}
	p.v = v
}

func (p *PPU) copyX() { p.v = (p.v &^ 0x041F) | (p.t & 0x041F) }
func (p *PPU) copyY() { p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0) }

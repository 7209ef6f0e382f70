package ppu

import (
	"testing"

	"nescore/internal/vram"
)

type fakePattern struct {
	data [0x2000]uint8
}

func (f *fakePattern) ReadCHR(addr uint16) uint8        { return f.data[addr] }
func (f *fakePattern) WriteCHR(addr uint16, value uint8) { f.data[addr] = value }

func newTestPPU() (*PPU, *fakePattern) {
	pat := &fakePattern{}
	v := vram.New(pat, vram.MirrorHorizontal)
	return New(v), pat
}

func TestDotLineStayWithinGridBounds(t *testing.T) {
	p, _ := newTestPPU()
	for i := 0; i < 100000; i++ {
		p.Tick()
		if p.Dot() < 0 || p.Dot() >= dotsPerLine {
			t.Fatalf("dot %d out of [0,%d)", p.Dot(), dotsPerLine)
		}
		if p.Line() < preRenderLine || p.Line() > lastLine {
			t.Fatalf("line %d out of [%d,%d]", p.Line(), preRenderLine, lastLine)
		}
	}
}

func TestVBlankSetAndClearedOncePerFrame(t *testing.T) {
	p, _ := newTestPPU()
	// New starts at pre-render dot 0. Step onto dot 1 first so the
	// one-field window below ends on the next field's VBlank clear.
	p.Tick()
	sets, clears := 0, 0
	prevVBlank := p.statusVBlank
	for i := 0; i < dotsPerLine*262; i++ {
		p.Tick()
		if p.statusVBlank && !prevVBlank {
			sets++
		}
		if !p.statusVBlank && prevVBlank {
			clears++
		}
		prevVBlank = p.statusVBlank
	}
	if sets != 1 {
		t.Fatalf("VBlank set %d times in one field, want 1", sets)
	}
	if clears != 1 {
		t.Fatalf("VBlank cleared %d times in one field, want 1", clears)
	}
}

func TestWriteToggleSharedBetweenScrollAndAddr(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(5, 0x10) // PPUSCROLL first write
	if !p.w {
		t.Fatal("write toggle should be set after first PPUSCROLL write")
	}
	p.WriteRegister(6, 0x3F) // PPUADDR first write shares the same toggle
	if p.w {
		t.Fatal("PPUADDR write should have completed the pending toggle, clearing it")
	}
}

func TestPPUSTATUSReadClearsVBlankAndToggle(t *testing.T) {
	p, _ := newTestPPU()
	p.statusVBlank = true
	p.w = true
	status := p.ReadRegister(2)
	if status&0x80 == 0 {
		t.Fatal("expected VBlank bit set in the read value")
	}
	if p.statusVBlank {
		t.Fatal("reading PPUSTATUS should clear VBlank")
	}
	if p.w {
		t.Fatal("reading PPUSTATUS should clear the write toggle")
	}
}

func TestPPUDATAPaletteWriteAndReadBack(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(6, 0x3F) // PPUADDR high
	p.WriteRegister(6, 0x10) // PPUADDR low -> v = $3F10
	p.WriteRegister(7, 0x2A) // PPUDATA write

	if got := p.vram.ReadPalette(0x3F00); got != 0x2A {
		t.Fatalf("palette mirror $3F10->$3F00: got $%02X, want $2A", got)
	}
}

func TestPPUDATAReadIsBufferedForNonPaletteAddresses(t *testing.T) {
	p, _ := newTestPPU()
	p.vram.Write(0x2000, 0x11)
	p.vram.Write(0x2001, 0x22)

	p.WriteRegister(6, 0x20)
	p.WriteRegister(6, 0x00) // v = $2000

	first := p.ReadRegister(7)
	if first != 0 {
		t.Fatalf("first PPUDATA read = $%02X, want the stale $00 buffer", first)
	}
	second := p.ReadRegister(7)
	if second != 0x11 {
		t.Fatalf("second PPUDATA read = $%02X, want $11 (buffered from the first read's refill)", second)
	}
}

func TestOAMDATAWriteIncrementsAddress(t *testing.T) {
	p, _ := newTestPPU()
	p.WriteRegister(3, 0x05) // OAMADDR
	p.WriteRegister(4, 0x99) // OAMDATA
	if p.oamAddr != 0x06 {
		t.Fatalf("OAMADDR after write = $%02X, want $06", p.oamAddr)
	}
	if p.oam[5] != 0x99 {
		t.Fatal("OAMDATA write should land at the address before increment")
	}
}

func TestSpriteZeroHitSetsWithinFirstVisibleScanlines(t *testing.T) {
	p, _ := newTestPPU()

	// Nametable tiles 0 and 1 use tile 1, whose leftmost pixel is opaque
	// on every row: opaque background at x=0 and x=8 on lines 0-7.
	p.vram.Write(0x2000, 1)
	p.vram.Write(0x2001, 1)
	for fineY := uint16(0); fineY < 8; fineY++ {
		p.vram.Write(0x0010+fineY, 0x80)
	}

	// Sprite 0: OAM y=0 (visual row 1), tile 2, no flip, x=8.
	p.oam[0] = 0
	p.oam[1] = 2
	p.oam[2] = 0
	p.oam[3] = 8
	p.vram.Write(0x0020, 0x80) // sprite tile 2, row 0, opaque leftmost pixel

	p.WriteRegister(1, 0x18) // PPUMASK: show BG + sprites

	for i := 0; i < 2000; i++ {
		p.Tick()
	}

	if !p.spriteZeroHit {
		t.Fatal("expected sprite-zero hit to be set")
	}
}

func TestSpriteZeroHitClearsAtPreRenderLine(t *testing.T) {
	p, _ := newTestPPU()
	p.spriteZeroHit = true
	p.spriteOverflow = true
	p.statusVBlank = true

	p.line = preRenderLine
	p.dot = 0
	p.Tick() // advances to dot=1, triggering the clear

	if p.spriteZeroHit || p.spriteOverflow || p.statusVBlank {
		t.Fatal("pre-render line dot 1 should clear VBlank, sprite-zero, and overflow")
	}
}

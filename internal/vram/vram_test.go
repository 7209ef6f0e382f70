package vram

import "testing"

type fakePattern struct {
	data [0x2000]uint8
	rom  bool
}

func (f *fakePattern) ReadCHR(addr uint16) uint8 { return f.data[addr] }
func (f *fakePattern) WriteCHR(addr uint16, value uint8) {
	if !f.rom {
		f.data[addr] = value
	}
}

func TestHorizontalMirroring(t *testing.T) {
	v := New(&fakePattern{}, MirrorHorizontal)
	for k := uint16(0); k < 0x400; k++ {
		v.Write(0x2000+k, uint8(k))
		if got := v.Read(0x2400 + k); got != uint8(k) {
			t.Fatalf("horizontal mirror mismatch at offset %d: got %d", k, got)
		}
	}
	v.Write(0x2800, 0xAA)
	if v.Read(0x2C00) != 0xAA {
		t.Fatal("horizontal mirror: $2800 and $2C00 must share a table")
	}
	if v.Read(0x2000) == 0xAA {
		t.Fatal("horizontal mirror: table 0 must be distinct from table 1")
	}
}

func TestVerticalMirroring(t *testing.T) {
	v := New(&fakePattern{}, MirrorVertical)
	v.Write(0x2000, 0x11)
	if v.Read(0x2800) != 0x11 {
		t.Fatal("vertical mirror: $2000 and $2800 must share a table")
	}
	v.Write(0x2400, 0x22)
	if v.Read(0x2C00) != 0x22 {
		t.Fatal("vertical mirror: $2400 and $2C00 must share a table")
	}
	if v.Read(0x2000) == 0x22 {
		t.Fatal("vertical mirror: tables must be distinct")
	}
}

func TestNametableMirrorRegion(t *testing.T) {
	v := New(&fakePattern{}, MirrorHorizontal)
	v.Write(0x2123, 0x77)
	if v.Read(0x3123) != 0x77 {
		t.Fatal("$3000-$3EFF must mirror $2000-$2EFF")
	}
}

func TestPaletteBackgroundAlias(t *testing.T) {
	v := New(&fakePattern{}, MirrorHorizontal)
	pairs := [][2]uint16{{0x3F10, 0x3F00}, {0x3F14, 0x3F04}, {0x3F18, 0x3F08}, {0x3F1C, 0x3F0C}}
	for _, p := range pairs {
		v.Write(p[0], 0x2A)
		if got := v.Read(p[1]); got != 0x2A {
			t.Fatalf("palette alias $%04X<->$%04X broken: got $%02X", p[0], p[1], got)
		}
		if got := v.Read(p[0]); got != 0x2A {
			t.Fatalf("reading back $%04X after write failed: got $%02X", p[0], got)
		}
	}
}

func TestPaletteMirrorsEvery32Bytes(t *testing.T) {
	v := New(&fakePattern{}, MirrorHorizontal)
	v.Write(0x3F05, 0x3C)
	if got := v.Read(0x3F25); got != 0x3C {
		t.Fatalf("expected $3F20-$3FFF to mirror $3F00-$3F1F every 32 bytes, got $%02X", got)
	}
}

func TestPaletteMasksTo6Bits(t *testing.T) {
	v := New(&fakePattern{}, MirrorHorizontal)
	v.Write(0x3F01, 0xFF)
	if got := v.ReadPalette(0x3F01); got != 0x3F {
		t.Fatalf("expected palette entries masked to 6 bits, got $%02X", got)
	}
}

func TestCHRDelegatesToMapper(t *testing.T) {
	p := &fakePattern{}
	v := New(p, MirrorHorizontal)
	v.Write(0x0010, 0x9A)
	if p.data[0x0010] != 0x9A {
		t.Fatal("CHR writes must reach the pattern table")
	}
	if v.Read(0x0010) != 0x9A {
		t.Fatal("CHR reads must reach the pattern table")
	}
}

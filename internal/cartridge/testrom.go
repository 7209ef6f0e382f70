package cartridge

import "bytes"

// TestROMBuilder assembles a minimal in-memory iNES image so CPU, PPU,
// and bus tests can exercise real load→mapper→bus plumbing without a
// ROM file on disk. Grounded in the teacher's test_rom_generator.go,
// trimmed to the fields this repo's tests actually need.
type TestROMBuilder struct {
	prgSize     uint8
	chrSize     uint8
	mirror      MirrorMode
	prg         [16384]uint8
	resetVector uint16
	nmiVector   uint16
	irqVector   uint16
}

// NewTestROM starts a single-bank (16KB), CHR-RAM builder with the
// reset vector pointed at $8000.
func NewTestROM() *TestROMBuilder {
	return &TestROMBuilder{
		prgSize:     1,
		chrSize:     0,
		mirror:      MirrorHorizontal,
		resetVector: 0x8000,
		nmiVector:   0x8000,
		irqVector:   0x8000,
	}
}

func (b *TestROMBuilder) WithMirroring(m MirrorMode) *TestROMBuilder {
	b.mirror = m
	return b
}

func (b *TestROMBuilder) WithResetVector(addr uint16) *TestROMBuilder {
	b.resetVector = addr
	return b
}

func (b *TestROMBuilder) WithNMIVector(addr uint16) *TestROMBuilder {
	b.nmiVector = addr
	return b
}

// WithCode writes bytes starting at CPU address addr (must be within
// $8000-$BFFF, the first and only bank).
func (b *TestROMBuilder) WithCode(addr uint16, code ...uint8) *TestROMBuilder {
	offset := addr - 0x8000
	copy(b.prg[offset:], code)
	return b
}

// Build renders the iNES image bytes, ready for cartridge.LoadReader.
func (b *TestROMBuilder) Build() []byte {
	b.prg[0x3FFA] = uint8(b.nmiVector)
	b.prg[0x3FFB] = uint8(b.nmiVector >> 8)
	b.prg[0x3FFC] = uint8(b.resetVector)
	b.prg[0x3FFD] = uint8(b.resetVector >> 8)
	b.prg[0x3FFE] = uint8(b.irqVector)
	b.prg[0x3FFF] = uint8(b.irqVector >> 8)

	var flags6 uint8
	switch b.mirror {
	case MirrorVertical:
		flags6 |= 0x01
	case MirrorFourScreen:
		flags6 |= 0x08
	}

	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.WriteByte(b.prgSize)
	buf.WriteByte(b.chrSize)
	buf.WriteByte(flags6)
	buf.WriteByte(0) // flags7: mapper 0
	buf.Write(make([]byte, 8))
	buf.Write(b.prg[:])
	return buf.Bytes()
}

// Load parses the built image through the normal LoadReader path.
func (b *TestROMBuilder) Load() (*Cartridge, error) {
	return LoadReader(bytes.NewReader(b.Build()))
}

package cartridge

import (
	"bytes"
	"testing"
)

func TestLoadRejectsBadMagic(t *testing.T) {
	data := []byte("XES\x1A\x01\x01\x00\x00")
	data = append(data, make([]byte, 8)...)
	data = append(data, make([]byte, 16384)...)
	if _, err := LoadReader(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	data := []byte("NES\x1A\x01\x01\x10\x00")
	data = append(data, make([]byte, 8)...)
	data = append(data, make([]byte, 16384)...)
	if _, err := LoadReader(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for unsupported mapper")
	}
}

func TestSingleBankPRGMirrors(t *testing.T) {
	cart, err := NewTestROM().Load()
	if err != nil {
		t.Fatal(err)
	}
	cart.PRG[0] = 0x42
	if cart.ReadPRG(0x8000) != cart.ReadPRG(0xC000) {
		t.Fatal("single 16KB PRG bank must mirror at $C000")
	}
}

func TestInitialPCSingleBank(t *testing.T) {
	cart, err := NewTestROM().Load()
	if err != nil {
		t.Fatal(err)
	}
	if pc := cart.InitialPC(); pc != 0xC000 {
		t.Fatalf("expected InitialPC $C000 for single bank, got $%04X", pc)
	}
}

func TestPRGRAMReadWrite(t *testing.T) {
	cart, err := NewTestROM().Load()
	if err != nil {
		t.Fatal(err)
	}
	cart.WritePRG(0x6123, 0x42)
	if got := cart.ReadPRG(0x6123); got != 0x42 {
		t.Fatalf("PRG RAM round-trip failed: got $%02X", got)
	}
}

func TestCHRRAMWritable(t *testing.T) {
	cart, err := NewTestROM().Load()
	if err != nil {
		t.Fatal(err)
	}
	cart.WriteCHR(0x0010, 0xAB)
	if got := cart.ReadCHR(0x0010); got != 0xAB {
		t.Fatalf("CHR RAM round-trip failed: got $%02X", got)
	}
}

func TestMirroringFromHeader(t *testing.T) {
	cart, err := NewTestROM().WithMirroring(MirrorVertical).Load()
	if err != nil {
		t.Fatal(err)
	}
	if cart.Mirror != MirrorVertical {
		t.Fatalf("expected vertical mirroring, got %v", cart.Mirror)
	}
}

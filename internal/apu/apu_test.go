package apu

import "testing"

func TestWriteDoesNotPanicAcrossRegisterRange(t *testing.T) {
	a := New()
	for addr := uint16(0x4000); addr <= 0x4017; addr++ {
		a.Write(addr, 0xFF)
	}
}

func TestReadStatusAlwaysZero(t *testing.T) {
	a := New()
	a.Write(0x4015, 0xFF)
	if got := a.ReadStatus(); got != 0 {
		t.Fatalf("ReadStatus() = $%02X, want $00", got)
	}
}

func TestDrainReturnsRequestedSilentSampleCount(t *testing.T) {
	a := New()
	samples := a.Drain(64)
	if len(samples) != 64 {
		t.Fatalf("len(samples) = %d, want 64", len(samples))
	}
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("sample %d = %v, want 0 (silence)", i, s)
		}
	}
}

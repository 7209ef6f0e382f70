package joypad

import "testing"

func TestReadSequenceMatchesButtonOrder(t *testing.T) {
	j := New()
	j.SetButtonState(uint8(A | Start | Right))
	j.Write(1)
	j.Write(0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if got := j.Read(); got != w {
			t.Fatalf("bit %d: got %d want %d", i, got, w)
		}
	}
}

func TestCounterSaturatesAtSeven(t *testing.T) {
	j := New()
	j.SetButtonState(uint8(Right))
	j.Write(1)
	j.Write(0)
	for i := 0; i < 8; i++ {
		j.Read()
	}
	first := j.Read()
	second := j.Read()
	if first != second {
		t.Fatalf("reads past bit 7 should repeat the same bit, got %d then %d", first, second)
	}
}

func TestStrobeHighRelatchesEachRead(t *testing.T) {
	j := New()
	j.SetButtonState(uint8(A))
	j.Write(1)
	if got := j.Read(); got != 1 {
		t.Fatalf("expected A bit while strobing, got %d", got)
	}
	j.SetButtonState(0)
	if got := j.Read(); got != 0 {
		t.Fatalf("strobe high should re-latch live state, got %d", got)
	}
}

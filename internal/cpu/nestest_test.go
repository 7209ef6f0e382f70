package cpu

import "testing"

// TestGoldenSelfCheckSentinel exercises a fixed instruction sequence
// touching several addressing modes, flag updates, and the unofficial
// LAX opcode, then writes the nestest success sentinel ($00 at
// both $0002 and $0003) only if every intermediate check passed — the
// same sentinel convention real nestest.nes logs use (spec §8
// scenario 1), reproduced here as a synthetic ROM since no actual
// nestest.nes binary is available in this pack.
func TestGoldenSelfCheckSentinel(t *testing.T) {
	const (
		fail = 0x8040 // landing pad for any failed check: writes $01 and halts
		ok   = 0x8050
	)

	program := []uint8{
		0xA9, 0x10, // LDA #$10
		0x85, 0x20, // STA $20
		0xA5, 0x20, // LDA $20
		0xC9, 0x10, // CMP #$10
		0xD0, 0x00, // BNE fail (relative +0 handled below via patch)
		0xA2, 0x05, // LDX #$05
		0x95, 0x30, // STA $30,X zero-page,X -> writes to $35
		0xB5, 0x30, // LDA $30,X -> reads back from $35
		0xC9, 0x10, // CMP #$10
		0xD0, 0x00, // BNE fail
		0xA7, 0x35, // LAX $35 (unofficial: loads A and X from $35)
		0xE0, 0x10, // CPX #$10
		0xD0, 0x00, // BNE fail
		0x4C, 0x00, 0x00, // JMP ok (patched below)
	}

	// Patch the three BNE offsets to fail and the final JMP to ok.
	branchFixups := []int{8, 18, 24}
	for _, idx := range branchFixups {
		next := 0x8000 + idx + 2
		program[idx+1] = uint8(fail - next)
	}
	jmpIdx := len(program) - 3
	program[jmpIdx+1] = uint8(ok & 0xFF)
	program[jmpIdx+2] = uint8(ok >> 8)

	c, bus := newTestCPU(program)

	// Seed the sentinel bytes non-zero so only the ok pad can clear them.
	bus.mem[0x0002], bus.mem[0x0003] = 0xFF, 0xFF

	// fail pad at $8040: store $01 at $0002/$0003 and halt via an
	// infinite self-branch.
	bus.mem[fail] = 0xA9   // LDA #$01
	bus.mem[fail+1] = 0x01
	bus.mem[fail+2] = 0x85 // STA $02
	bus.mem[fail+3] = 0x02
	bus.mem[fail+4] = 0x85 // STA $03
	bus.mem[fail+5] = 0x03
	bus.mem[fail+6] = 0x4C // JMP fail
	bus.mem[fail+7] = uint8(fail & 0xFF)
	bus.mem[fail+8] = uint8(fail >> 8)

	// ok pad at $8050: store $00 (sentinel) at $0002/$0003 and halt.
	bus.mem[ok] = 0xA9 // LDA #$00
	bus.mem[ok+1] = 0x00
	bus.mem[ok+2] = 0x85 // STA $02
	bus.mem[ok+3] = 0x02
	bus.mem[ok+4] = 0x85 // STA $03
	bus.mem[ok+5] = 0x03
	bus.mem[ok+6] = 0x4C // JMP ok
	bus.mem[ok+7] = uint8(ok & 0xFF)
	bus.mem[ok+8] = uint8(ok >> 8)

	for i := 0; i < 500; i++ {
		c.Step()
	}

	if got := bus.mem[0x0002]; got != 0x00 {
		t.Fatalf("$0002 = $%02X, want $00 (success sentinel)", got)
	}
	if got := bus.mem[0x0003]; got != 0x00 {
		t.Fatalf("$0003 = $%02X, want $00 (success sentinel)", got)
	}
}

// Package disasm renders one 6502 instruction as text using the same
// opcode table internal/cpu executes against, grounded in
// flga-vnes/nes/disasembler.go's format (address, raw bytes,
// mnemonic). Nothing else in this repository calls it; cmd/nescore has
// no trace flag.
package disasm

import (
	"fmt"

	"nescore/internal/cpu"
)

// Read is the byte-at-a-time accessor disasm needs; satisfied by any
// bus implementation.
type Read func(addr uint16) uint8

// Disassemble decodes one instruction at pc and returns its text
// rendering plus its length in bytes.
func Disassemble(pc uint16, read Read) (text string, length int) {
	opcode := read(pc)
	name, instrLen := cpu.Decode(opcode)

	var raw string
	var operand string
	switch instrLen {
	case 1:
		raw = fmt.Sprintf("%02X", opcode)
	case 2:
		b1 := read(pc + 1)
		raw = fmt.Sprintf("%02X %02X", opcode, b1)
		operand = fmt.Sprintf("$%02X", b1)
	case 3:
		b1, b2 := read(pc+1), read(pc+2)
		raw = fmt.Sprintf("%02X %02X %02X", opcode, b1, b2)
		operand = fmt.Sprintf("$%04X", uint16(b2)<<8|uint16(b1))
	}

	if operand == "" {
		return fmt.Sprintf("%04X  %-8s %s", pc, raw, name), int(instrLen)
	}
	return fmt.Sprintf("%04X  %-8s %s %s", pc, raw, name, operand), int(instrLen)
}

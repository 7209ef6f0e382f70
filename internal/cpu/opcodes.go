package cpu

// opcodeTable is the 256-entry opcode decode table shared by every
// CPU instance: every documented opcode (151 official plus the
// commonly emulated unofficial subset) gets a name, addressing mode,
// and base cycle count. Unlisted entries decode as NOP, except the 12
// documented KIL/JAM opcodes which fatally halt the CPU. Built once at
// package init so internal/disasm can decode instructions through the
// same table the CPU executes against.
var opcodeTable = buildOpcodeTable()

// operandLength reports the number of operand bytes an addressing
// mode consumes after the opcode byte, for disassembly.
func operandLength(mode addrMode) uint8 {
	switch mode {
	case modeImplied, modeAccumulator:
		return 0
	case modeImmediate, modeZeroPage, modeZeroPageX, modeZeroPageY,
		modeRelative, modeIndexedIndirect, modeIndirectIndexed:
		return 1
	default:
		return 2
	}
}

// Decode returns the mnemonic and total instruction length (opcode
// byte plus operand bytes) for opcode, using the same table Step
// dispatches through.
func Decode(opcode uint8) (name string, length uint8) {
	inst := opcodeTable[opcode]
	return inst.name, 1 + operandLength(inst.mode)
}

func buildOpcodeTable() [256]instruction {
	var table [256]instruction
	for i := range table {
		table[i] = instruction{"NOP", modeImplied, 2}
	}

	type row struct {
		op     uint8
		name   string
		mode   addrMode
		cycles uint8
	}

	rows := []row{
		// load/store
		{0xA9, "LDA", modeImmediate, 2}, {0xA5, "LDA", modeZeroPage, 3}, {0xB5, "LDA", modeZeroPageX, 4},
		{0xAD, "LDA", modeAbsolute, 4}, {0xBD, "LDA", modeAbsoluteX, 4}, {0xB9, "LDA", modeAbsoluteY, 4},
		{0xA1, "LDA", modeIndexedIndirect, 6}, {0xB1, "LDA", modeIndirectIndexed, 5},

		{0xA2, "LDX", modeImmediate, 2}, {0xA6, "LDX", modeZeroPage, 3}, {0xB6, "LDX", modeZeroPageY, 4},
		{0xAE, "LDX", modeAbsolute, 4}, {0xBE, "LDX", modeAbsoluteY, 4},

		{0xA0, "LDY", modeImmediate, 2}, {0xA4, "LDY", modeZeroPage, 3}, {0xB4, "LDY", modeZeroPageX, 4},
		{0xAC, "LDY", modeAbsolute, 4}, {0xBC, "LDY", modeAbsoluteX, 4},

		{0x85, "STA", modeZeroPage, 3}, {0x95, "STA", modeZeroPageX, 4}, {0x8D, "STA", modeAbsolute, 4},
		{0x9D, "STA", modeAbsoluteX, 5}, {0x99, "STA", modeAbsoluteY, 5},
		{0x81, "STA", modeIndexedIndirect, 6}, {0x91, "STA", modeIndirectIndexed, 6},

		{0x86, "STX", modeZeroPage, 3}, {0x96, "STX", modeZeroPageY, 4}, {0x8E, "STX", modeAbsolute, 4},
		{0x84, "STY", modeZeroPage, 3}, {0x94, "STY", modeZeroPageX, 4}, {0x8C, "STY", modeAbsolute, 4},

		// transfers
		{0xAA, "TAX", modeImplied, 2}, {0xA8, "TAY", modeImplied, 2},
		{0xBA, "TSX", modeImplied, 2}, {0x8A, "TXA", modeImplied, 2},
		{0x9A, "TXS", modeImplied, 2}, {0x98, "TYA", modeImplied, 2},

		// stack
		{0x48, "PHA", modeImplied, 3}, {0x68, "PLA", modeImplied, 4},
		{0x08, "PHP", modeImplied, 3}, {0x28, "PLP", modeImplied, 4},

		// arithmetic
		{0x69, "ADC", modeImmediate, 2}, {0x65, "ADC", modeZeroPage, 3}, {0x75, "ADC", modeZeroPageX, 4},
		{0x6D, "ADC", modeAbsolute, 4}, {0x7D, "ADC", modeAbsoluteX, 4}, {0x79, "ADC", modeAbsoluteY, 4},
		{0x61, "ADC", modeIndexedIndirect, 6}, {0x71, "ADC", modeIndirectIndexed, 5},

		{0xE9, "SBC", modeImmediate, 2}, {0xE5, "SBC", modeZeroPage, 3}, {0xF5, "SBC", modeZeroPageX, 4},
		{0xED, "SBC", modeAbsolute, 4}, {0xFD, "SBC", modeAbsoluteX, 4}, {0xF9, "SBC", modeAbsoluteY, 4},
		{0xE1, "SBC", modeIndexedIndirect, 6}, {0xF1, "SBC", modeIndirectIndexed, 5},
		{0xEB, "SBC", modeImmediate, 2}, // unofficial duplicate of $E9

		// increments/decrements
		{0xE6, "INC", modeZeroPage, 5}, {0xF6, "INC", modeZeroPageX, 6},
		{0xEE, "INC", modeAbsolute, 6}, {0xFE, "INC", modeAbsoluteX, 7},
		{0xC6, "DEC", modeZeroPage, 5}, {0xD6, "DEC", modeZeroPageX, 6},
		{0xCE, "DEC", modeAbsolute, 6}, {0xDE, "DEC", modeAbsoluteX, 7},
		{0xE8, "INX", modeImplied, 2}, {0xCA, "DEX", modeImplied, 2},
		{0xC8, "INY", modeImplied, 2}, {0x88, "DEY", modeImplied, 2},

		// shifts/rotates
		{0x0A, "ASL", modeAccumulator, 2}, {0x06, "ASL", modeZeroPage, 5}, {0x16, "ASL", modeZeroPageX, 6},
		{0x0E, "ASL", modeAbsolute, 6}, {0x1E, "ASL", modeAbsoluteX, 7},
		{0x4A, "LSR", modeAccumulator, 2}, {0x46, "LSR", modeZeroPage, 5}, {0x56, "LSR", modeZeroPageX, 6},
		{0x4E, "LSR", modeAbsolute, 6}, {0x5E, "LSR", modeAbsoluteX, 7},
		{0x2A, "ROL", modeAccumulator, 2}, {0x26, "ROL", modeZeroPage, 5}, {0x36, "ROL", modeZeroPageX, 6},
		{0x2E, "ROL", modeAbsolute, 6}, {0x3E, "ROL", modeAbsoluteX, 7},
		{0x6A, "ROR", modeAccumulator, 2}, {0x66, "ROR", modeZeroPage, 5}, {0x76, "ROR", modeZeroPageX, 6},
		{0x6E, "ROR", modeAbsolute, 6}, {0x7E, "ROR", modeAbsoluteX, 7},

		// logic
		{0x29, "AND", modeImmediate, 2}, {0x25, "AND", modeZeroPage, 3}, {0x35, "AND", modeZeroPageX, 4},
		{0x2D, "AND", modeAbsolute, 4}, {0x3D, "AND", modeAbsoluteX, 4}, {0x39, "AND", modeAbsoluteY, 4},
		{0x21, "AND", modeIndexedIndirect, 6}, {0x31, "AND", modeIndirectIndexed, 5},

		{0x09, "ORA", modeImmediate, 2}, {0x05, "ORA", modeZeroPage, 3}, {0x15, "ORA", modeZeroPageX, 4},
		{0x0D, "ORA", modeAbsolute, 4}, {0x1D, "ORA", modeAbsoluteX, 4}, {0x19, "ORA", modeAbsoluteY, 4},
		{0x01, "ORA", modeIndexedIndirect, 6}, {0x11, "ORA", modeIndirectIndexed, 5},

		{0x49, "EOR", modeImmediate, 2}, {0x45, "EOR", modeZeroPage, 3}, {0x55, "EOR", modeZeroPageX, 4},
		{0x4D, "EOR", modeAbsolute, 4}, {0x5D, "EOR", modeAbsoluteX, 4}, {0x59, "EOR", modeAbsoluteY, 4},
		{0x41, "EOR", modeIndexedIndirect, 6}, {0x51, "EOR", modeIndirectIndexed, 5},

		{0x24, "BIT", modeZeroPage, 3}, {0x2C, "BIT", modeAbsolute, 4},

		// compares
		{0xC9, "CMP", modeImmediate, 2}, {0xC5, "CMP", modeZeroPage, 3}, {0xD5, "CMP", modeZeroPageX, 4},
		{0xCD, "CMP", modeAbsolute, 4}, {0xDD, "CMP", modeAbsoluteX, 4}, {0xD9, "CMP", modeAbsoluteY, 4},
		{0xC1, "CMP", modeIndexedIndirect, 6}, {0xD1, "CMP", modeIndirectIndexed, 5},
		{0xE0, "CPX", modeImmediate, 2}, {0xE4, "CPX", modeZeroPage, 3}, {0xEC, "CPX", modeAbsolute, 4},
		{0xC0, "CPY", modeImmediate, 2}, {0xC4, "CPY", modeZeroPage, 3}, {0xCC, "CPY", modeAbsolute, 4},

		// branches
		{0x90, "BCC", modeRelative, 2}, {0xB0, "BCS", modeRelative, 2},
		{0xF0, "BEQ", modeRelative, 2}, {0xD0, "BNE", modeRelative, 2},
		{0x10, "BPL", modeRelative, 2}, {0x30, "BMI", modeRelative, 2},
		{0x50, "BVC", modeRelative, 2}, {0x70, "BVS", modeRelative, 2},

		// jumps/calls
		{0x4C, "JMP", modeAbsolute, 3}, {0x6C, "JMP", modeIndirect, 5},
		{0x20, "JSR", modeAbsolute, 6}, {0x60, "RTS", modeImplied, 6},
		{0x00, "BRK", modeImplied, 7}, {0x40, "RTI", modeImplied, 6},

		// flags
		{0x18, "CLC", modeImplied, 2}, {0x38, "SEC", modeImplied, 2},
		{0x58, "CLI", modeImplied, 2}, {0x78, "SEI", modeImplied, 2},
		{0xB8, "CLV", modeImplied, 2}, {0xD8, "CLD", modeImplied, 2}, {0xF8, "SED", modeImplied, 2},

		{0xEA, "NOP", modeImplied, 2},

		// unofficial NOPs (documented subset actual games/test ROMs hit)
		{0x1A, "NOP", modeImplied, 2}, {0x3A, "NOP", modeImplied, 2}, {0x5A, "NOP", modeImplied, 2},
		{0x7A, "NOP", modeImplied, 2}, {0xDA, "NOP", modeImplied, 2}, {0xFA, "NOP", modeImplied, 2},
		{0x80, "NOP", modeImmediate, 2}, {0x82, "NOP", modeImmediate, 2}, {0x89, "NOP", modeImmediate, 2},
		{0xC2, "NOP", modeImmediate, 2}, {0xE2, "NOP", modeImmediate, 2},
		{0x04, "NOP", modeZeroPage, 3}, {0x44, "NOP", modeZeroPage, 3}, {0x64, "NOP", modeZeroPage, 3},
		{0x14, "NOP", modeZeroPageX, 4}, {0x34, "NOP", modeZeroPageX, 4}, {0x54, "NOP", modeZeroPageX, 4},
		{0x74, "NOP", modeZeroPageX, 4}, {0xD4, "NOP", modeZeroPageX, 4}, {0xF4, "NOP", modeZeroPageX, 4},
		{0x0C, "NOP", modeAbsolute, 4},
		{0x1C, "NOP", modeAbsoluteX, 4}, {0x3C, "NOP", modeAbsoluteX, 4}, {0x5C, "NOP", modeAbsoluteX, 4},
		{0x7C, "NOP", modeAbsoluteX, 4}, {0xDC, "NOP", modeAbsoluteX, 4}, {0xFC, "NOP", modeAbsoluteX, 4},

		// unofficial combined ops
		{0xA7, "LAX", modeZeroPage, 3}, {0xB7, "LAX", modeZeroPageY, 4}, {0xAF, "LAX", modeAbsolute, 4},
		{0xBF, "LAX", modeAbsoluteY, 4}, {0xA3, "LAX", modeIndexedIndirect, 6}, {0xB3, "LAX", modeIndirectIndexed, 5},

		{0x87, "SAX", modeZeroPage, 3}, {0x97, "SAX", modeZeroPageY, 4},
		{0x8F, "SAX", modeAbsolute, 4}, {0x83, "SAX", modeIndexedIndirect, 6},

		{0xC7, "DCP", modeZeroPage, 5}, {0xD7, "DCP", modeZeroPageX, 6}, {0xCF, "DCP", modeAbsolute, 6},
		{0xDF, "DCP", modeAbsoluteX, 7}, {0xDB, "DCP", modeAbsoluteY, 7},
		{0xC3, "DCP", modeIndexedIndirect, 8}, {0xD3, "DCP", modeIndirectIndexed, 8},

		{0xE7, "ISB", modeZeroPage, 5}, {0xF7, "ISB", modeZeroPageX, 6}, {0xEF, "ISB", modeAbsolute, 6},
		{0xFF, "ISB", modeAbsoluteX, 7}, {0xFB, "ISB", modeAbsoluteY, 7},
		{0xE3, "ISB", modeIndexedIndirect, 8}, {0xF3, "ISB", modeIndirectIndexed, 8},

		{0x07, "SLO", modeZeroPage, 5}, {0x17, "SLO", modeZeroPageX, 6}, {0x0F, "SLO", modeAbsolute, 6},
		{0x1F, "SLO", modeAbsoluteX, 7}, {0x1B, "SLO", modeAbsoluteY, 7},
		{0x03, "SLO", modeIndexedIndirect, 8}, {0x13, "SLO", modeIndirectIndexed, 8},

		{0x27, "RLA", modeZeroPage, 5}, {0x37, "RLA", modeZeroPageX, 6}, {0x2F, "RLA", modeAbsolute, 6},
		{0x3F, "RLA", modeAbsoluteX, 7}, {0x3B, "RLA", modeAbsoluteY, 7},
		{0x23, "RLA", modeIndexedIndirect, 8}, {0x33, "RLA", modeIndirectIndexed, 8},

		{0x47, "SRE", modeZeroPage, 5}, {0x57, "SRE", modeZeroPageX, 6}, {0x4F, "SRE", modeAbsolute, 6},
		{0x5F, "SRE", modeAbsoluteX, 7}, {0x5B, "SRE", modeAbsoluteY, 7},
		{0x43, "SRE", modeIndexedIndirect, 8}, {0x53, "SRE", modeIndirectIndexed, 8},

		{0x67, "RRA", modeZeroPage, 5}, {0x77, "RRA", modeZeroPageX, 6}, {0x6F, "RRA", modeAbsolute, 6},
		{0x7F, "RRA", modeAbsoluteX, 7}, {0x7B, "RRA", modeAbsoluteY, 7},
		{0x63, "RRA", modeIndexedIndirect, 8}, {0x73, "RRA", modeIndirectIndexed, 8},
	}

	for _, r := range rows {
		table[r.op] = instruction{r.name, r.mode, r.cycles}
	}

	// KIL/JAM: the documented opcodes that lock the bus on real
	// hardware. Every other unlisted opcode (the unstable combined
	// unofficial ops like ANC/ARR/SHA/LAS) decodes as NOP instead of
	// halting.
	for _, op := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		table[op] = instruction{"JAM", modeImplied, 2}
	}

	return table
}

// execute runs the instruction at opcode against the already-decoded
// operand address, returning any additional cycles beyond the table's
// base count (branch-taken extra cycles; RMW ops never add beyond the
// page-cross cost already handled by the caller).
func (c *CPU) execute(opcode uint8, addr uint16, mode addrMode, pageCrossed bool) uint8 {
	name := opcodeTable[opcode].name

	switch name {
	case "JAM":
		c.halted = true
		return 0

	case "LDA":
		c.A = c.bus.Read(addr)
		c.setZN(c.A)
	case "LDX":
		c.X = c.bus.Read(addr)
		c.setZN(c.X)
	case "LDY":
		c.Y = c.bus.Read(addr)
		c.setZN(c.Y)
	case "STA":
		c.bus.Write(addr, c.A)
	case "STX":
		c.bus.Write(addr, c.X)
	case "STY":
		c.bus.Write(addr, c.Y)

	case "TAX":
		c.X = c.A
		c.setZN(c.X)
	case "TAY":
		c.Y = c.A
		c.setZN(c.Y)
	case "TSX":
		c.X = c.SP
		c.setZN(c.X)
	case "TXA":
		c.A = c.X
		c.setZN(c.A)
	case "TXS":
		c.SP = c.X
	case "TYA":
		c.A = c.Y
		c.setZN(c.A)

	case "PHA":
		c.push(c.A)
	case "PLA":
		c.A = c.pop()
		c.setZN(c.A)
	case "PHP":
		c.push(c.pushStatus(true))
	case "PLP":
		c.SetStatusByte(c.pop())

	case "ADC":
		c.adc(c.bus.Read(addr))
	case "SBC":
		c.adc(^c.bus.Read(addr))

	case "INC":
		v := c.readModify(addr, mode) + 1
		c.writeModify(addr, mode, v)
		c.setZN(v)
	case "DEC":
		v := c.readModify(addr, mode) - 1
		c.writeModify(addr, mode, v)
		c.setZN(v)
	case "INX":
		c.X++
		c.setZN(c.X)
	case "DEX":
		c.X--
		c.setZN(c.X)
	case "INY":
		c.Y++
		c.setZN(c.Y)
	case "DEY":
		c.Y--
		c.setZN(c.Y)

	case "ASL":
		v := c.readModify(addr, mode)
		c.C = v&0x80 != 0
		v <<= 1
		c.writeModify(addr, mode, v)
		c.setZN(v)
	case "LSR":
		v := c.readModify(addr, mode)
		c.C = v&0x01 != 0
		v >>= 1
		c.writeModify(addr, mode, v)
		c.setZN(v)
	case "ROL":
		v := c.readModify(addr, mode)
		carryIn := uint8(0)
		if c.C {
			carryIn = 1
		}
		c.C = v&0x80 != 0
		v = v<<1 | carryIn
		c.writeModify(addr, mode, v)
		c.setZN(v)
	case "ROR":
		v := c.readModify(addr, mode)
		carryIn := uint8(0)
		if c.C {
			carryIn = 0x80
		}
		c.C = v&0x01 != 0
		v = v>>1 | carryIn
		c.writeModify(addr, mode, v)
		c.setZN(v)

	case "AND":
		c.A &= c.bus.Read(addr)
		c.setZN(c.A)
	case "ORA":
		c.A |= c.bus.Read(addr)
		c.setZN(c.A)
	case "EOR":
		c.A ^= c.bus.Read(addr)
		c.setZN(c.A)
	case "BIT":
		v := c.bus.Read(addr)
		c.Z = c.A&v == 0
		c.V = v&0x40 != 0
		c.N = v&0x80 != 0

	case "CMP":
		c.compare(c.A, c.bus.Read(addr))
	case "CPX":
		c.compare(c.X, c.bus.Read(addr))
	case "CPY":
		c.compare(c.Y, c.bus.Read(addr))

	case "BCC":
		return c.branch(!c.C, addr)
	case "BCS":
		return c.branch(c.C, addr)
	case "BEQ":
		return c.branch(c.Z, addr)
	case "BNE":
		return c.branch(!c.Z, addr)
	case "BPL":
		return c.branch(!c.N, addr)
	case "BMI":
		return c.branch(c.N, addr)
	case "BVC":
		return c.branch(!c.V, addr)
	case "BVS":
		return c.branch(c.V, addr)

	case "JMP":
		c.PC = addr
	case "JSR":
		c.pushWord(c.PC - 1)
		c.PC = addr
	case "RTS":
		c.PC = c.popWord() + 1
	case "BRK":
		c.pushWord(c.PC + 1) // BRK skips a padding byte before the return address
		c.push(c.pushStatus(true))
		c.I = true
		c.PC = c.readWord(vectorIRQ)
	case "RTI":
		c.SetStatusByte(c.pop())
		c.PC = c.popWord()

	case "CLC":
		c.C = false
	case "SEC":
		c.C = true
	case "CLI":
		c.I = false
	case "SEI":
		c.I = true
	case "CLV":
		c.V = false
	case "CLD":
		c.D = false
	case "SED":
		c.D = true

	case "NOP":
		if mode != modeImplied {
			c.bus.Read(addr) // unofficial NOPs still touch the bus
		}

	// unofficial read-modify-write combinations
	case "LAX":
		c.A = c.bus.Read(addr)
		c.X = c.A
		c.setZN(c.A)
	case "SAX":
		c.bus.Write(addr, c.A&c.X)
	case "DCP":
		v := c.bus.Read(addr) - 1
		c.bus.Write(addr, v)
		c.compare(c.A, v)
	case "ISB":
		v := c.bus.Read(addr) + 1
		c.bus.Write(addr, v)
		c.adc(^v)
	case "SLO":
		v := c.bus.Read(addr)
		c.C = v&0x80 != 0
		v <<= 1
		c.bus.Write(addr, v)
		c.A |= v
		c.setZN(c.A)
	case "RLA":
		v := c.bus.Read(addr)
		carryIn := uint8(0)
		if c.C {
			carryIn = 1
		}
		c.C = v&0x80 != 0
		v = v<<1 | carryIn
		c.bus.Write(addr, v)
		c.A &= v
		c.setZN(c.A)
	case "SRE":
		v := c.bus.Read(addr)
		c.C = v&0x01 != 0
		v >>= 1
		c.bus.Write(addr, v)
		c.A ^= v
		c.setZN(c.A)
	case "RRA":
		v := c.bus.Read(addr)
		carryIn := uint8(0)
		if c.C {
			carryIn = 0x80
		}
		c.C = v&0x01 != 0
		v = v>>1 | carryIn
		c.bus.Write(addr, v)
		c.adc(v)
	}

	return 0
}

// readModify and writeModify let the RMW instructions (ASL/LSR/ROL/
// ROR/INC/DEC) share one code path for both accumulator and memory
// operands.
func (c *CPU) readModify(addr uint16, mode addrMode) uint8 {
	if mode == modeAccumulator {
		return c.A
	}
	return c.bus.Read(addr)
}

func (c *CPU) writeModify(addr uint16, mode addrMode, v uint8) {
	if mode == modeAccumulator {
		c.A = v
		return
	}
	c.bus.Write(addr, v)
}

// adc implements both ADC and SBC (SBC passes the bitwise complement
// of the operand) with the standard binary overflow formula; BCD mode
// is never entered on the NES's 2A03, so the D flag affects no
// arithmetic here (spec §9).
func (c *CPU) adc(operand uint8) {
	carryIn := uint16(0)
	if c.C {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(operand) + carryIn
	result := uint8(sum)

	c.C = sum > 0xFF
	c.V = (c.A^result)&(operand^result)&0x80 != 0
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) compare(reg, value uint8) {
	c.C = reg >= value
	c.setZN(reg - value)
}

// branch applies a taken conditional branch, returning the extra
// cycle(s): 1 for a taken branch, plus 1 more if it crosses a page.
func (c *CPU) branch(taken bool, addr uint16) uint8 {
	if !taken {
		return 0
	}
	oldPC := c.PC
	c.PC = addr
	if oldPC&0xFF00 != addr&0xFF00 {
		return 2
	}
	return 1
}

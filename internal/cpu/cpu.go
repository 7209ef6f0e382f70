// Package cpu implements the Ricoh 2A03's 6502-derived instruction set:
// decode table, addressing modes, flags, stack discipline, and
// NMI/RESET/IRQ dispatch (spec §4.1).
package cpu

import "github.com/golang/glog"

// Bus is the memory interface the CPU reads and writes through.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

const (
	stackBase = 0x0100

	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7

	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// addrMode tags how an opcode's operand is fetched.
type addrMode uint8

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeRelative
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndexedIndirect // (zp,X)
	modeIndirectIndexed // (zp),Y
)

type instruction struct {
	name   string
	mode   addrMode
	cycles uint8
}

// CPU is the 6502 register file plus the decode table and bus it
// executes instructions through.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, V, N bool // B and U are not stored; see StatusByte.

	bus    Bus
	cycles uint64

	nmiPrevious bool
	nmiPending  bool
	irqLine     bool

	halted bool
}

// New creates a CPU wired to bus. Call Reset before stepping.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, SP: 0xFD}
}

// Reset loads PC from the reset vector and restores power-up flags,
// per spec §4.1's RESET dispatch.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true
	c.PC = c.readWord(vectorReset)
	c.nmiPending = false
	c.nmiPrevious = false
	c.irqLine = false
	c.cycles = 7
}

// Cycles returns the running CPU cycle count.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Stall advances the cycle counter without executing an instruction,
// modeling the CPU being held off the bus during OAM DMA (spec §4.6).
func (c *CPU) Stall(cycles uint64) { c.cycles += cycles }

// SetNMILine sets the PPU's NMI output line. NMI is edge-triggered: it
// latches only on a false→true transition (the PPU asserting the line),
// matching real hardware and spec §4.2 ("raises NMI on entry to
// VBlank... consumed on the CPU's next between-instruction check").
func (c *CPU) SetNMILine(asserted bool) {
	if !c.nmiPrevious && asserted {
		c.nmiPending = true
	}
	c.nmiPrevious = asserted
}

// SetIRQLine sets the level-triggered IRQ line (idle in this core: the
// APU is a stub and generates no IRQs, per spec §1).
func (c *CPU) SetIRQLine(asserted bool) { c.irqLine = asserted }

// StatusByte packs the flags into the classic 6502 status byte. U is
// always reported set; B depends on context and is NOT represented
// here — use pushStatus for the byte actually pushed to the stack.
func (c *CPU) StatusByte() uint8 {
	var s uint8 = flagU
	if c.N {
		s |= flagN
	}
	if c.V {
		s |= flagV
	}
	if c.D {
		s |= flagD
	}
	if c.I {
		s |= flagI
	}
	if c.Z {
		s |= flagZ
	}
	if c.C {
		s |= flagC
	}
	return s
}

// SetStatusByte unpacks a status byte into the flags (B and U are
// discarded, matching PLP/RTI semantics from spec §4.1).
func (c *CPU) SetStatusByte(s uint8) {
	c.N = s&flagN != 0
	c.V = s&flagV != 0
	c.D = s&flagD != 0
	c.I = s&flagI != 0
	c.Z = s&flagZ != 0
	c.C = s&flagC != 0
}

// Halted reports whether the CPU hit a KIL/JAM opcode and has stopped
// executing (spec §4.1's fatal-halt resolution for illegal opcodes).
func (c *CPU) Halted() bool { return c.halted }

// Step executes exactly one instruction, plus any pending interrupt
// dispatch queued from the previous step, and returns the cycles
// consumed (spec §4.1's tick() contract). Step is a no-op once Halted.
func (c *CPU) Step() uint64 {
	if c.halted {
		return 0
	}

	before := c.cycles
	pc := c.PC
	opcode := c.bus.Read(c.PC)
	inst := &opcodeTable[opcode]

	addr, pageCrossed := c.operandAddress(inst.mode)
	extra := c.execute(opcode, addr, inst.mode, pageCrossed)
	if pageCrossed && extraCyclePageCross(opcode) {
		extra++
	}
	c.cycles += uint64(inst.cycles) + uint64(extra)

	if c.halted {
		glog.Errorf("cpu: halted on KIL/JAM opcode $%02X at $%04X", opcode, pc)
		return c.cycles - before
	}

	c.dispatchInterrupts()
	return c.cycles - before
}

func (c *CPU) dispatchInterrupts() {
	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.pushWord(c.PC)
		c.push(c.pushStatus(false))
		c.I = true
		c.PC = c.readWord(vectorNMI)
		c.cycles += 7
	case c.irqLine && !c.I:
		c.pushWord(c.PC)
		c.push(c.pushStatus(false))
		c.I = true
		c.PC = c.readWord(vectorIRQ)
		c.cycles += 7
	}
}

// pushStatus returns the byte PHP/BRK (brk=true) or a hardware
// interrupt (brk=false) pushes: U is always 1, B tracks the caller.
func (c *CPU) pushStatus(brk bool) uint8 {
	s := c.StatusByte() &^ flagB
	if brk {
		s |= flagB
	}
	return s
}

func extraCyclePageCross(opcode uint8) bool {
	switch opcode {
	case 0x9D, 0x99, 0x91: // STA abs,X / abs,Y / (zp),Y always pay the cross; it is already in their base count
		return false
	case 0xBD, 0xB9, 0xB1, 0xBE, 0xBC, 0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31,
		0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51, 0xDD, 0xD9, 0xD1,
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
		0xBF, 0xB3, 0xD3, 0xD7, 0xDF, 0xF3, 0xF7, 0xFF, 0x13, 0x17, 0x1F,
		0x33, 0x37, 0x3F, 0x53, 0x57, 0x5F, 0x73, 0x77, 0x7F:
		return true
	default:
		return false
	}
}

func (c *CPU) readWord(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return hi<<8 | lo
}

func (c *CPU) push(v uint8) {
	c.bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.bus.Read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

// operandAddress decodes the addressing mode at PC, advances PC past
// the instruction, and returns the effective address (0 for modes with
// no memory operand) plus whether a page boundary was crossed.
func (c *CPU) operandAddress(mode addrMode) (uint16, bool) {
	switch mode {
	case modeImplied, modeAccumulator:
		c.PC++
		return 0, false

	case modeImmediate:
		addr := c.PC + 1
		c.PC += 2
		return addr, false

	case modeZeroPage:
		addr := uint16(c.bus.Read(c.PC + 1))
		c.PC += 2
		return addr, false

	case modeZeroPageX:
		base := c.bus.Read(c.PC + 1)
		c.PC += 2
		return uint16(base + c.X), false

	case modeZeroPageY:
		base := c.bus.Read(c.PC + 1)
		c.PC += 2
		return uint16(base + c.Y), false

	case modeRelative:
		offset := int8(c.bus.Read(c.PC + 1))
		old := c.PC + 2
		addr := uint16(int32(old) + int32(offset))
		c.PC = old
		return addr, old&0xFF00 != addr&0xFF00

	case modeAbsolute:
		addr := c.readWord(c.PC + 1)
		c.PC += 3
		return addr, false

	case modeAbsoluteX:
		base := c.readWord(c.PC + 1)
		addr := base + uint16(c.X)
		c.PC += 3
		return addr, base&0xFF00 != addr&0xFF00

	case modeAbsoluteY:
		base := c.readWord(c.PC + 1)
		addr := base + uint16(c.Y)
		c.PC += 3
		return addr, base&0xFF00 != addr&0xFF00

	case modeIndirect: // JMP only; reproduces the page-wrap bug
		ptr := c.readWord(c.PC + 1)
		c.PC += 3
		if ptr&0x00FF == 0x00FF {
			lo := uint16(c.bus.Read(ptr))
			hi := uint16(c.bus.Read(ptr & 0xFF00))
			return hi<<8 | lo, false
		}
		return c.readWord(ptr), false

	case modeIndexedIndirect:
		zp := c.bus.Read(c.PC+1) + c.X
		c.PC += 2
		lo := uint16(c.bus.Read(uint16(zp)))
		hi := uint16(c.bus.Read(uint16(zp + 1)))
		return hi<<8 | lo, false

	case modeIndirectIndexed:
		zp := uint16(c.bus.Read(c.PC + 1))
		c.PC += 2
		lo := uint16(c.bus.Read(zp))
		hi := uint16(c.bus.Read((zp + 1) & 0x00FF))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		return addr, base&0xFF00 != addr&0xFF00

	default:
		return 0, false
	}
}

// Package bus implements the CPU-visible address space (the "MBC" of
// spec §4.3): RAM mirroring, the PPU register window, controller
// ports, the APU stub, cartridge PRG, and OAM DMA scheduling.
package bus

import "github.com/golang/glog"

// PPU is the register-level interface the bus drives. WriteRegister
// at index 4 (OAMDATA) is reused by RunDMA, since on real hardware an
// OAM DMA transfer is just 256 back-to-back OAMDATA writes.
type PPU interface {
	ReadRegister(index uint8) uint8
	WriteRegister(index uint8, value uint8)
}

// Cartridge is the PRG-side interface the bus routes $6000-$FFFF
// through.
type Cartridge interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
}

// APU is the register-level interface the bus drives for $4000-$4015.
type APU interface {
	Write(addr uint16, value uint8)
	ReadStatus() uint8
}

// Joypad is the shift-register interface one controller port exposes.
type Joypad interface {
	Write(value uint8)
	Read() uint8
}

// Bus is the NES's 16-bit CPU address space (spec §4.3).
type Bus struct {
	ram [0x0800]uint8

	ppu   PPU
	cart  Cartridge
	apu   APU
	pad1  Joypad
	pad2  Joypad

	dmaPending bool
	dmaPage    uint8
}

// New creates a Bus wired to its collaborators. All references are
// borrowed for the Bus's lifetime; the Console owns them (spec §5).
func New(ppu PPU, cart Cartridge, apu APU, pad1, pad2 Joypad) *Bus {
	return &Bus{ppu: ppu, cart: cart, apu: apu, pad1: pad1, pad2: pad2}
}

// Read implements cpu.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr&0x07FF]
	case addr < 0x4000:
		return b.ppu.ReadRegister(uint8(addr & 0x0007))
	case addr == 0x4015:
		return b.apu.ReadStatus()
	case addr < 0x4014:
		return 0 // APU registers are write-only; open bus
	case addr == 0x4014:
		return 0 // OAMDMA is write-only
	case addr == 0x4016:
		return b.pad1.Read()
	case addr == 0x4017:
		return b.pad2.Read()
	case addr < 0x4020:
		return 0 // unused
	case addr < 0x6000:
		return 0 // cartridge expansion, unused by mapper 0
	default:
		return b.cart.ReadPRG(addr)
	}
}

// Write implements cpu.Bus.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(uint8(addr&0x0007), value)
	case addr == 0x4014:
		b.dmaPending = true
		b.dmaPage = value
	case addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		b.apu.Write(addr, value) // $4017 is the APU frame counter, not joypad 2's strobe
	case addr == 0x4016:
		b.pad1.Write(value)
		b.pad2.Write(value)
	case addr < 0x4020:
		// unused
	case addr < 0x6000:
		// cartridge expansion, unused by mapper 0
	default:
		b.cart.WritePRG(addr, value)
	}
}

// DMAPending reports whether a write to $4014 is waiting to be
// serviced. The Console must check this at the top of every CPU step
// and call RunDMA before letting the CPU execute further (spec §5:
// "OAM DMA must not be executed inside the $4014 write itself").
func (b *Bus) DMAPending() bool { return b.dmaPending }

// RunDMA performs the pending 256-byte OAM transfer and returns the
// number of CPU cycles it stalls: 514 if cpuCycle is odd, 513 if even
// (spec §4.2, Open Question 3).
func (b *Bus) RunDMA(cpuCycle uint64) uint64 {
	if !b.dmaPending {
		return 0
	}
	b.dmaPending = false

	base := uint16(b.dmaPage) << 8
	for i := 0; i < 256; i++ {
		v := b.Read(base + uint16(i))
		b.ppu.WriteRegister(4, v) // OAMDATA
	}

	glog.V(2).Infof("bus: OAM DMA from page $%02X00", b.dmaPage)

	if cpuCycle%2 == 1 {
		return 514
	}
	return 513
}

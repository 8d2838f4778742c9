package vm

// UARTDevice is the narrow contract the bus needs from the UART
// peripheral (spec.md §1, §6): byte-addressed reads and writes at
// offsets 0..3 from the UART base. The device owns its own
// concurrency; see the uart package for the host-side implementation.
type UARTDevice interface {
	ReadRegister(offset byte) byte
	WriteRegister(offset byte, value byte)
}

// Signedness selects whether a load's result is sign- or zero-extended
// to 32 bits.
type Signedness int

const (
	Unsigned Signedness = iota
	Signed
)

// Bus routes fetches, loads, and stores to RAM, boot ROM, the timer
// stub, or the UART device based on address range (spec.md §4.3). It is
// owned exclusively by the hart; nothing else touches RAM directly.
type Bus struct {
	ram  [RAMSize]byte
	UART UARTDevice
}

// NewBus creates a bus with zeroed RAM and the given UART device. A nil
// UART is legal for tests that never touch UART addresses.
func NewBus(uart UARTDevice) *Bus {
	return &Bus{UART: uart}
}

// LoadImage writes data into RAM starting at offset 0, as the program
// loader does at startup (spec.md §6). It is the loader's job to check
// bounds; Bus itself has no notion of "program load" beyond plain bytes.
func (b *Bus) LoadImage(data []byte) {
	copy(b.ram[:], data)
}

// Fetch performs a word-aligned instruction read at addr. Only RAM and
// boot ROM are fetch-capable; any other region is an access fault, and a
// misaligned address is an instruction-address-misaligned exception
// raised before any region is consulted (spec.md §4.3).
func (b *Bus) Fetch(addr uint32) (uint32, Exception) {
	if addr%4 != 0 {
		return 0, ExceptionInstructionAddressMisaligned
	}
	switch {
	case addr >= RAMBase && addr < RAMEnd:
		return b.readRAMWord(addr), ExceptionNone
	case addr >= BootROMBase && addr < BootROMEnd:
		index := (addr - BootROMBase) / 4
		return BootROM[index], ExceptionNone
	default:
		return 0, ExceptionAccessFault
	}
}

// Load reads width bytes (1, 2, or 4) from addr and extends the result
// to 32 bits per signedness. RAM accesses assemble bytes explicitly in
// little-endian order regardless of host endianness (spec.md §9,
// "Type-punned memory access"). UART reads are always byte-wide device
// reads, zero-extended. The timer region is a reserved stub: it returns
// zero with no exception (spec.md §4.3, open question in §9). Any other
// address is an access fault.
func (b *Bus) Load(addr uint32, width int, signedness Signedness) (uint32, Exception) {
	if uint32(width) > 1 && addr%uint32(width) != 0 {
		return 0, ExceptionAddressMisaligned
	}
	switch {
	case addr >= RAMBase && addr < RAMEnd && addr+uint32(width) <= RAMEnd:
		return b.loadRAM(addr, width, signedness), ExceptionNone
	case addr >= TimerBase && addr < TimerEnd:
		return 0, ExceptionNone
	case addr >= UARTBase && addr < UARTEnd:
		if b.UART == nil {
			return 0, ExceptionAccessFault
		}
		return uint32(b.UART.ReadRegister(byte(addr - UARTBase))), ExceptionNone
	default:
		return 0, ExceptionAccessFault
	}
}

// Store writes the low width bytes of value to addr, little-endian.
// UART addresses are byte-wide device writes; the timer region is a
// stub that silently discards the write. Unmapped addresses are an
// access fault (spec.md §4.3).
func (b *Bus) Store(addr uint32, width int, value uint32) Exception {
	if uint32(width) > 1 && addr%uint32(width) != 0 {
		return ExceptionAddressMisaligned
	}
	switch {
	case addr >= RAMBase && addr < RAMEnd && addr+uint32(width) <= RAMEnd:
		b.storeRAM(addr, width, value)
		return ExceptionNone
	case addr >= TimerBase && addr < TimerEnd:
		return ExceptionNone
	case addr >= UARTBase && addr < UARTEnd:
		if b.UART == nil {
			return ExceptionAccessFault
		}
		b.UART.WriteRegister(byte(addr-UARTBase), byte(value))
		return ExceptionNone
	default:
		return ExceptionAccessFault
	}
}

func (b *Bus) readRAMWord(addr uint32) uint32 {
	off := addr - RAMBase
	return uint32(b.ram[off]) |
		uint32(b.ram[off+1])<<8 |
		uint32(b.ram[off+2])<<16 |
		uint32(b.ram[off+3])<<24
}

func (b *Bus) loadRAM(addr uint32, width int, signedness Signedness) uint32 {
	off := addr - RAMBase
	switch width {
	case 1:
		v := b.ram[off]
		if signedness == Signed {
			return SignExtend(uint32(v), 8)
		}
		return uint32(v)
	case 2:
		v := uint32(b.ram[off]) | uint32(b.ram[off+1])<<8
		if signedness == Signed {
			return SignExtend(v, 16)
		}
		return v
	case 4:
		return uint32(b.ram[off]) |
			uint32(b.ram[off+1])<<8 |
			uint32(b.ram[off+2])<<16 |
			uint32(b.ram[off+3])<<24
	default:
		return 0
	}
}

func (b *Bus) storeRAM(addr uint32, width int, value uint32) {
	off := addr - RAMBase
	switch width {
	case 1:
		b.ram[off] = byte(value)
	case 2:
		b.ram[off] = byte(value)
		b.ram[off+1] = byte(value >> 8)
	case 4:
		b.ram[off] = byte(value)
		b.ram[off+1] = byte(value >> 8)
		b.ram[off+2] = byte(value >> 16)
		b.ram[off+3] = byte(value >> 24)
	}
}

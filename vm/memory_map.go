package vm

// Memory map: four non-overlapping address regions (spec.md §3). Regions
// are checked in decode order and the first match wins; anything else is
// an access fault.
const (
	RAMBase  = 0x00000000
	RAMSize  = 0x800
	RAMEnd   = RAMBase + RAMSize // exclusive

	TimerBase = 0x20000000
	TimerSize = 4
	TimerEnd  = TimerBase + TimerSize

	UARTBase = 0x30000000
	UARTSize = 4
	UARTEnd  = UARTBase + UARTSize

	BootROMBase = 0x10000000
	BootROMSize = 64
	BootROMEnd  = BootROMBase + BootROMSize
)

// BootROM holds the fixed 16-word boot routine (spec.md §6). It must be
// reproduced bit-for-bit: this constitutes the hart's initial control
// flow and the S1/S2 test scenarios depend on its exact contents.
var BootROM = [16]uint32{
	0x300005b7, 0x00000613, 0x028000ef, 0x00050293,
	0x020000ef, 0x00851513, 0x00a282b3, 0x014000ef,
	0x00a60023, 0x00160613, 0xfe561ae3, 0x00000067,
	0x0015c503, 0xfe050ee3, 0x0005c503, 0x00008067,
}

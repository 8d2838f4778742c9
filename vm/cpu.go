package vm

// RegisterFile holds the 32 architectural integer registers. x0 is
// hardwired to zero: reads of index 0 always return 0 and writes to
// index 0 are silently discarded (spec.md §3, §4.2).
type RegisterFile struct {
	x [32]uint32
}

// Read returns the value of register index. Index is assumed already
// masked to 5 bits by the decoder (spec.md §4.2 — the decoder is
// responsible, the file itself performs no bounds checking beyond the
// fixed-size array).
func (r *RegisterFile) Read(index uint32) uint32 {
	if index == 0 {
		return 0
	}
	return r.x[index]
}

// Write stores value into register index. A write to index 0 is a
// silent no-op.
func (r *RegisterFile) Write(index uint32, value uint32) {
	if index == 0 {
		return
	}
	r.x[index] = value
}

// Reset zeroes every register.
func (r *RegisterFile) Reset() {
	for i := range r.x {
		r.x[i] = 0
	}
}

// Hart is the single owner of the CPU's architectural state: the
// register file, the program counter, and the retired-instruction
// counter. It is mutated only by the execute unit and the hart loop
// (spec.md §9, "Global mutable hart state").
type Hart struct {
	Regs    RegisterFile
	PC      uint32
	Retired uint64
	Bus     *Bus
	Trace   *Trace

	halted    bool
	haltFault *Fault
}

// NewHart creates a hart wired to bus, reset to its initial state: PC at
// the boot ROM base, all registers zero, retired count zero (spec.md §3,
// §4.6).
func NewHart(bus *Bus) *Hart {
	h := &Hart{Bus: bus}
	h.Reset()
	return h
}

// Reset returns the hart to its power-on state.
func (h *Hart) Reset() {
	h.Regs.Reset()
	h.PC = BootROMBase
	h.Retired = 0
	h.halted = false
	h.haltFault = nil
}

// Halted reports whether the hart has stopped due to a fatal exception.
func (h *Hart) Halted() bool {
	return h.halted
}

// HaltFault returns the fault that halted the hart, or nil if it is
// still running or was never started.
func (h *Hart) HaltFault() *Fault {
	return h.haltFault
}

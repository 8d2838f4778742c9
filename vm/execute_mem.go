package vm

// funct3 values for LOAD (spec.md §4.5). 011, 110, 111 are undefined.
const (
	Funct3LB  = 0b000
	Funct3LH  = 0b001
	Funct3LW  = 0b010
	Funct3LBU = 0b100
	Funct3LHU = 0b101
)

// funct3 values for STORE. 011-111 are undefined.
const (
	Funct3SB = 0b000
	Funct3SH = 0b001
	Funct3SW = 0b010
)

// executeLoad implements LOAD: effective address = rs1 + signed
// I-immediate; bus load with width and signedness per funct3; rd <-
// result. A bus exception aborts before rd is written (spec.md §7).
func executeLoad(h *Hart, inst Instruction) Exception {
	addr := Add(h.Regs.Read(inst.RS1), inst.ImmI)

	var width int
	var signedness Signedness
	switch inst.Funct3 {
	case Funct3LB:
		width, signedness = 1, Signed
	case Funct3LH:
		width, signedness = 2, Signed
	case Funct3LW:
		width, signedness = 4, Signed
	case Funct3LBU:
		width, signedness = 1, Unsigned
	case Funct3LHU:
		width, signedness = 2, Unsigned
	default:
		return ExceptionIllegalInstruction
	}

	value, exc := h.Bus.Load(addr, width, signedness)
	if exc != ExceptionNone {
		return exc
	}
	h.Regs.Write(inst.RD, value)
	h.PC += 4
	return ExceptionNone
}

// executeStore implements STORE: effective address = rs1 + signed
// S-immediate; bus store of rs2's low bytes, width per funct3.
func executeStore(h *Hart, inst Instruction) Exception {
	addr := Add(h.Regs.Read(inst.RS1), inst.ImmS)

	var width int
	switch inst.Funct3 {
	case Funct3SB:
		width = 1
	case Funct3SH:
		width = 2
	case Funct3SW:
		width = 4
	default:
		return ExceptionIllegalInstruction
	}

	value := h.Regs.Read(inst.RS2)
	if exc := h.Bus.Store(addr, width, value); exc != ExceptionNone {
		return exc
	}
	h.PC += 4
	return ExceptionNone
}

// executeMiscMem implements MISC-MEM (FENCE, FENCE.I): a no-op in this
// single-hart, non-caching core.
func executeMiscMem(h *Hart, _ Instruction) Exception {
	h.PC += 4
	return ExceptionNone
}

// executeSystem implements SYSTEM (ECALL, EBREAK, CSR*): a no-op. A
// future revision may make ECALL halt or trap (spec.md §9, open
// question); this core has no privileged state to trap into yet.
func executeSystem(h *Hart, _ Instruction) Exception {
	h.PC += 4
	return ExceptionNone
}

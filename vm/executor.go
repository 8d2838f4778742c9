package vm

// Step executes a single fetch-decode-execute cycle. On any exception
// the hart halts and architectural state from before the faulting
// instruction's side effects is preserved: fetch exceptions never touch
// PC or the register file, and decode/execute exceptions are detected
// before the opcode handler mutates anything other than the fields it
// is defined to write (spec.md §4.6, §7, §8 property 8).
//
// Step returns false once the hart has halted; callers should stop
// calling it at that point (see Run).
func (h *Hart) Step() bool {
	if h.halted {
		return false
	}

	pc := h.PC
	word, exc := h.Bus.Fetch(pc)
	if exc != ExceptionNone {
		h.halt(&Fault{Exception: exc, PC: pc, Detail: pc})
		return false
	}

	inst := Decode(word)
	exc = dispatch(h, inst)
	if exc != ExceptionNone {
		h.halt(&Fault{Exception: exc, PC: pc, Detail: word})
		return false
	}

	h.Retired++
	if h.Trace != nil {
		h.Trace.Record(h.Retired, pc, word, inst)
	}
	return true
}

// Run repeatedly steps the hart until a fatal exception halts it. It
// imposes no timing of its own: the hart runs at the fastest rate the
// host sustains (spec.md §4.6). maxSteps caps the number of retired
// instructions for callers that want a bound (0 means unbounded); it is
// not part of the architectural model, only a host-side safety valve.
func (h *Hart) Run(maxSteps uint64) {
	for !h.halted {
		if maxSteps != 0 && h.Retired >= maxSteps {
			return
		}
		if !h.Step() {
			return
		}
	}
}

func (h *Hart) halt(f *Fault) {
	h.halted = true
	h.haltFault = f
	if h.Trace != nil {
		h.Trace.RecordFault(f)
	}
}

// dispatch routes a decoded instruction to its opcode handler.
func dispatch(h *Hart, inst Instruction) Exception {
	switch inst.Opcode {
	case OpOP:
		return executeOP(h, inst)
	case OpOPIMM:
		return executeOPIMM(h, inst)
	case OpLUI:
		return executeLUI(h, inst)
	case OpAUIPC:
		return executeAUIPC(h, inst)
	case OpJAL:
		return executeJAL(h, inst)
	case OpJALR:
		return executeJALR(h, inst)
	case OpBranch:
		return executeBranch(h, inst)
	case OpLoad:
		return executeLoad(h, inst)
	case OpStore:
		return executeStore(h, inst)
	case OpMiscMem:
		return executeMiscMem(h, inst)
	case OpSystem:
		return executeSystem(h, inst)
	default:
		return ExceptionIllegalInstruction
	}
}

package vm

import (
	"fmt"
	"io"
)

// Trace is the core's logging sink: one human-readable line per retired
// instruction with at least the retired count, fetch address, fetched
// word, decoded mnemonic class, and a result summary (spec.md §6).
// Shaped after the teacher's ExecutionTrace (an io.Writer, an enable
// flag, a max-entries cap) but cut down to what spec.md actually asks
// the core to emit; richer diagnostics (register/flag/stack traces)
// belong to the interactive debugger this core does not have.
type Trace struct {
	Writer     io.Writer
	Enabled    bool
	MaxEntries int

	count int
}

// NewTrace creates a trace sink writing to w. MaxEntries of 0 means
// unbounded.
func NewTrace(w io.Writer) *Trace {
	return &Trace{Writer: w, Enabled: true}
}

// Record emits one line describing a successfully executed instruction.
func (t *Trace) Record(retired uint64, pc uint32, word uint32, inst Instruction) {
	if !t.Enabled || t.Writer == nil {
		return
	}
	if t.MaxEntries > 0 && t.count >= t.MaxEntries {
		return
	}
	t.count++
	fmt.Fprintf(t.Writer, "#%-8d pc=0x%08x word=0x%08x class=%-8s %s\n",
		retired, pc, word, mnemonicClass(inst.Opcode), resultSummary(inst))
}

// RecordFault emits a line describing the exception that halted the
// hart, with the offending address or instruction word (spec.md §7).
func (t *Trace) RecordFault(f *Fault) {
	if !t.Enabled || t.Writer == nil {
		return
	}
	fmt.Fprintf(t.Writer, "FAULT pc=0x%08x detail=0x%08x exception=%s\n", f.PC, f.Detail, f.Exception)
}

// mnemonicClass names the instruction family by opcode, for the trace
// line's "decoded mnemonic class" field.
func mnemonicClass(opcode uint32) string {
	switch opcode {
	case OpOP:
		return "OP"
	case OpOPIMM:
		return "OP-IMM"
	case OpLUI:
		return "LUI"
	case OpAUIPC:
		return "AUIPC"
	case OpJAL:
		return "JAL"
	case OpJALR:
		return "JALR"
	case OpBranch:
		return "BRANCH"
	case OpLoad:
		return "LOAD"
	case OpStore:
		return "STORE"
	case OpMiscMem:
		return "MISC-MEM"
	case OpSystem:
		return "SYSTEM"
	default:
		return "ILLEGAL"
	}
}

// resultSummary gives a short rd/rs operand summary for the trace line.
func resultSummary(inst Instruction) string {
	switch inst.Opcode {
	case OpOP, OpOPIMM, OpLUI, OpAUIPC, OpLoad:
		return fmt.Sprintf("rd=x%d", inst.RD)
	case OpStore:
		return fmt.Sprintf("rs2=x%d", inst.RS2)
	case OpBranch:
		return fmt.Sprintf("rs1=x%d rs2=x%d", inst.RS1, inst.RS2)
	case OpJAL, OpJALR:
		return fmt.Sprintf("rd=x%d", inst.RD)
	default:
		return ""
	}
}

package vm

import "fmt"

// Exception is a tagged fault raised by fetch, decode, or execute. The
// hart loop treats every non-None exception as fatal: there is no trap
// handler in this core (spec.md §1, §7).
type Exception int

const (
	// ExceptionNone means the access or instruction completed normally.
	ExceptionNone Exception = iota
	// ExceptionInstructionAddressMisaligned means PC was not a multiple
	// of 4 at fetch time.
	ExceptionInstructionAddressMisaligned
	// ExceptionAddressMisaligned means a load/store address did not
	// satisfy addr mod width == 0.
	ExceptionAddressMisaligned
	// ExceptionAccessFault means the address maps to no region, or to a
	// region that does not support the attempted operation.
	ExceptionAccessFault
	// ExceptionIllegalInstruction means the opcode is unknown or the
	// funct3 within a known opcode is undefined.
	ExceptionIllegalInstruction
)

func (e Exception) String() string {
	switch e {
	case ExceptionNone:
		return "none"
	case ExceptionInstructionAddressMisaligned:
		return "instruction-address-misaligned"
	case ExceptionAddressMisaligned:
		return "address-misaligned"
	case ExceptionAccessFault:
		return "access-fault"
	case ExceptionIllegalInstruction:
		return "illegal-instruction"
	default:
		return fmt.Sprintf("exception(%d)", int(e))
	}
}

// Fault pairs an Exception with the address or instruction word that
// triggered it, for reporting to the trace sink (spec.md §7).
type Fault struct {
	Exception Exception
	PC        uint32
	Detail    uint32 // offending address or instruction word
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at pc=0x%08x (detail=0x%08x)", f.Exception, f.PC, f.Detail)
}

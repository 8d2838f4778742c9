// Package vm implements the RV32I hart: register file, program counter,
// memory bus, decoder, execute unit, and the fetch-decode-execute loop.
package vm

// Word is the machine's native 32-bit quantity. All arithmetic on it is
// modulo 2^32; signed and unsigned interpretations are chosen explicitly
// at each use site rather than carried with the value.
type Word = uint32

// SignExtend sign-extends the low `bits` bits of v to a full 32-bit Word.
func SignExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// Shamt masks a shift-amount operand to the low 5 bits, matching RV32I's
// SLL/SRL/SRA semantics: the shift amount is never taken modulo anything
// wider than the register width.
func Shamt(v uint32) uint32 {
	return v & 0x1F
}

// SignedLess reports whether a < b under two's-complement (signed) order.
func SignedLess(a, b uint32) bool {
	return int32(a) < int32(b)
}

// SignedGreaterEqual reports whether a >= b under two's-complement order.
func SignedGreaterEqual(a, b uint32) bool {
	return int32(a) >= int32(b)
}

// Add wraps a + b modulo 2^32. Go's uint32 addition already wraps; this
// wrapper exists so call sites read as deliberately-wrapping arithmetic
// rather than an overlooked overflow.
func Add(a, b uint32) uint32 {
	return a + b
}

// Sub wraps a - b modulo 2^32.
func Sub(a, b uint32) uint32 {
	return a - b
}

package vm_test

import (
	"testing"

	"github.com/rv32emu/baserv1e/vm"
)

// TestRunHaltsOnIllegalInstruction covers spec.md §8 property 5: an
// unrecognized opcode is fatal, and the hart reports the fault.
func TestRunHaltsOnIllegalInstruction(t *testing.T) {
	h := newHart()
	h.PC = 0
	// opcode 1111111 is not a valid RV32I opcode.
	h.Bus.LoadImage(padAt(0, 0b1111111))

	h.Run(0)

	if !h.Halted() {
		t.Fatal("hart should have halted")
	}
	if got := h.HaltFault().Exception; got != vm.ExceptionIllegalInstruction {
		t.Errorf("fault = %v, want illegal-instruction", got)
	}
}

// TestRunStopsAtMaxSteps covers the host-side safety valve: Run must
// not loop forever when the image never halts the hart on its own.
func TestRunStopsAtMaxSteps(t *testing.T) {
	h := newHart()
	h.PC = 0
	// jal x0, 0 — an infinite self-branch that never halts.
	h.Bus.LoadImage(padAt(0, encodeJ(0, 0)))

	h.Run(5)

	if h.Halted() {
		t.Fatal("hart should not be halted, only step-capped")
	}
	if h.Retired != 5 {
		t.Errorf("Retired = %d, want 5", h.Retired)
	}
}

// TestBootROMPollsUARTWithoutFault exercises the fixed boot ROM from
// reset: after setting up its UART base and RAM pointer it polls
// RX_READY, which the stub UART always reports as 0, so it spins in that
// poll loop. The test checks that 64 steps run without a fault.
func TestBootROMPollsUARTWithoutFault(t *testing.T) {
	dev := newStubUART()
	bus := vm.NewBus(dev)
	h := vm.NewHart(bus)

	h.Run(64)

	if h.Halted() {
		t.Fatalf("boot ROM faulted: %v", h.HaltFault())
	}
	if h.Retired == 0 {
		t.Error("expected at least one retired instruction from the boot ROM")
	}
}

func TestStepHaltsOnFetchMisalignment(t *testing.T) {
	h := newHart()
	h.PC = 2
	if h.Step() {
		t.Fatal("Step should halt on misaligned fetch")
	}
	if h.HaltFault().Exception != vm.ExceptionInstructionAddressMisaligned {
		t.Errorf("fault = %v, want instruction-address-misaligned", h.HaltFault().Exception)
	}
}

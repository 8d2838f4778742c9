package vm_test

import (
	"testing"

	"github.com/rv32emu/baserv1e/vm"
)

type stubUART struct {
	reads  map[byte]byte
	writes map[byte]byte
}

func newStubUART() *stubUART {
	return &stubUART{reads: map[byte]byte{}, writes: map[byte]byte{}}
}

func (s *stubUART) ReadRegister(offset byte) byte {
	return s.reads[offset]
}

func (s *stubUART) WriteRegister(offset byte, value byte) {
	s.writes[offset] = value
}

func TestBusFetchFromRAM(t *testing.T) {
	bus := vm.NewBus(nil)
	bus.LoadImage([]byte{0xEF, 0x00, 0x00, 0x00})

	word, exc := bus.Fetch(0)
	if exc != vm.ExceptionNone {
		t.Fatalf("Fetch exception = %v", exc)
	}
	if word != 0x000000EF {
		t.Errorf("Fetch(0) = 0x%08x, want 0x000000ef", word)
	}
}

func TestBusFetchFromBootROM(t *testing.T) {
	bus := vm.NewBus(nil)
	word, exc := bus.Fetch(vm.BootROMBase)
	if exc != vm.ExceptionNone {
		t.Fatalf("Fetch exception = %v", exc)
	}
	if word != vm.BootROM[0] {
		t.Errorf("Fetch(BootROMBase) = 0x%08x, want 0x%08x", word, vm.BootROM[0])
	}
}

func TestBusFetchMisalignedIsException(t *testing.T) {
	bus := vm.NewBus(nil)
	_, exc := bus.Fetch(2)
	if exc != vm.ExceptionInstructionAddressMisaligned {
		t.Errorf("Fetch(2) exception = %v, want instruction-address-misaligned", exc)
	}
}

func TestBusFetchOutsideRAMOrROMIsAccessFault(t *testing.T) {
	bus := vm.NewBus(nil)
	_, exc := bus.Fetch(vm.UARTBase)
	if exc != vm.ExceptionAccessFault {
		t.Errorf("Fetch(UARTBase) exception = %v, want access-fault", exc)
	}
}

func TestBusLoadSignExtendsByte(t *testing.T) {
	bus := vm.NewBus(nil)
	bus.LoadImage([]byte{0xFF})

	v, exc := bus.Load(0, 1, vm.Signed)
	if exc != vm.ExceptionNone {
		t.Fatalf("Load exception = %v", exc)
	}
	if v != 0xFFFFFFFF {
		t.Errorf("signed byte load of 0xff = 0x%08x, want 0xffffffff", v)
	}

	v, exc = bus.Load(0, 1, vm.Unsigned)
	if exc != vm.ExceptionNone {
		t.Fatalf("Load exception = %v", exc)
	}
	if v != 0x000000FF {
		t.Errorf("unsigned byte load of 0xff = 0x%08x, want 0x000000ff", v)
	}
}

func TestBusLoadStoreMisalignedHalfword(t *testing.T) {
	bus := vm.NewBus(nil)
	if _, exc := bus.Load(1, 2, vm.Unsigned); exc != vm.ExceptionAddressMisaligned {
		t.Errorf("Load(1, 2) exception = %v, want address-misaligned", exc)
	}
	if exc := bus.Store(1, 2, 0); exc != vm.ExceptionAddressMisaligned {
		t.Errorf("Store(1, 2) exception = %v, want address-misaligned", exc)
	}
}

func TestBusTimerReadsZeroNoException(t *testing.T) {
	bus := vm.NewBus(nil)
	v, exc := bus.Load(vm.TimerBase, 4, vm.Unsigned)
	if exc != vm.ExceptionNone {
		t.Fatalf("Load(TimerBase) exception = %v", exc)
	}
	if v != 0 {
		t.Errorf("Load(TimerBase) = %d, want 0", v)
	}
}

func TestBusUARTRoutesToDevice(t *testing.T) {
	dev := newStubUART()
	dev.reads[0] = 0x41
	bus := vm.NewBus(dev)

	v, exc := bus.Load(vm.UARTBase, 1, vm.Unsigned)
	if exc != vm.ExceptionNone {
		t.Fatalf("Load(UARTBase) exception = %v", exc)
	}
	if v != 0x41 {
		t.Errorf("Load(UARTBase) = 0x%x, want 0x41", v)
	}

	if exc := bus.Store(vm.UARTBase+2, 1, 0x5A); exc != vm.ExceptionNone {
		t.Fatalf("Store(UARTBase+2) exception = %v", exc)
	}
	if dev.writes[2] != 0x5A {
		t.Errorf("device write at offset 2 = 0x%x, want 0x5a", dev.writes[2])
	}
}

func TestBusUARTWithNilDeviceIsAccessFault(t *testing.T) {
	bus := vm.NewBus(nil)
	if _, exc := bus.Load(vm.UARTBase, 1, vm.Unsigned); exc != vm.ExceptionAccessFault {
		t.Errorf("Load(UARTBase) with nil device exception = %v, want access-fault", exc)
	}
}

func TestBusStoreThenLoadWordRoundTrips(t *testing.T) {
	bus := vm.NewBus(nil)
	if exc := bus.Store(4, 4, 0xDEADBEEF); exc != vm.ExceptionNone {
		t.Fatalf("Store exception = %v", exc)
	}
	v, exc := bus.Load(4, 4, vm.Unsigned)
	if exc != vm.ExceptionNone {
		t.Fatalf("Load exception = %v", exc)
	}
	if v != 0xDEADBEEF {
		t.Errorf("round trip = 0x%08x, want 0xdeadbeef", v)
	}
}

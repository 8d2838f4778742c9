// Package uart implements the host side of the memory-mapped UART
// peripheral (spec.md §6.3): a single-byte receive register and a
// single-byte transmit register, each behind its own mutex, driven by
// a background reader goroutine and a background writer goroutine so
// the hart never blocks on host I/O. Grounded on the original C
// reference's rv_InitUART/rv_UARTRead/rv_UARTWrite (two pthread_mutex_t
// guarding a packed register struct, a printing thread and an rx
// thread) and on the raw-terminal-mode handling bassosimone's
// SerialTTY delegates to the OS.
package uart

import (
	"bufio"
	"io"
	"sync"

	"golang.org/x/term"
)

// Register offsets from the UART base address (spec.md §6.3).
const (
	RegRXData  = 0x0
	RegRXReady = 0x1
	RegTXData  = 0x2
	RegTXBusy  = 0x3
)

// Device is the host-backed UART: reads come from in, writes go to
// out. It implements vm.UARTDevice.
type Device struct {
	rxMu    sync.Mutex
	rxData  byte
	rxReady bool

	txMu    sync.Mutex
	txData  byte
	txBusy  bool

	in        io.Reader
	out       io.Writer
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	restore   func() error
}

// New creates a UART device that reads bytes from in and writes
// transmitted bytes to out. It starts the background rx and tx
// goroutines immediately, mirroring rv_InitUART's printing_thread and
// rx_thread.
func New(in io.Reader, out io.Writer) *Device {
	d := &Device{in: in, out: out, done: make(chan struct{})}
	d.wg.Add(2)
	go d.rxLoop()
	go d.txLoop()
	return d
}

// NewTerminal is New, but first puts fd (typically os.Stdin's
// descriptor) into raw mode via golang.org/x/term so keystrokes reach
// the rx loop one at a time, unechoed — the Go equivalent of the
// original's tcgetattr/tcsetattr dance clearing ICANON and ECHO. The
// returned Device's Close restores the original terminal state.
func NewTerminal(fd int, in io.Reader, out io.Writer) (*Device, error) {
	prevState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	d := New(in, out)
	d.restore = func() error { return term.Restore(fd, prevState) }
	return d, nil
}

// rxLoop reads bytes one at a time from in and latches them into the
// rx register, setting rx_ready. It never blocks the caller of
// ReadRegister/WriteRegister; it only blocks itself on the next read.
func (d *Device) rxLoop() {
	defer d.wg.Done()
	r := bufio.NewReader(d.in)
	for {
		select {
		case <-d.done:
			return
		default:
		}
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		d.rxMu.Lock()
		d.rxData = b
		d.rxReady = true
		d.rxMu.Unlock()
	}
}

// txLoop drains whatever byte is pending in the tx register to out
// whenever tx_busy is set, then clears tx_busy — mirroring
// rv_PrintingThread's poll-and-print loop.
func (d *Device) txLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		default:
		}
		d.txMu.Lock()
		if d.txBusy {
			b := d.txData
			d.txMu.Unlock()
			if d.out != nil {
				d.out.Write([]byte{b})
			}
			d.txMu.Lock()
			d.txBusy = false
		}
		d.txMu.Unlock()
	}
}

// ReadRegister implements vm.UARTDevice. Reading RX_DATA clears
// rx_ready, matching the original's read-then-clear sequence.
func (d *Device) ReadRegister(offset byte) byte {
	switch offset {
	case RegRXData:
		d.rxMu.Lock()
		defer d.rxMu.Unlock()
		d.rxReady = false
		return d.rxData
	case RegRXReady:
		d.rxMu.Lock()
		defer d.rxMu.Unlock()
		if d.rxReady {
			return 1
		}
		return 0
	case RegTXBusy:
		d.txMu.Lock()
		defer d.txMu.Unlock()
		if d.txBusy {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// WriteRegister implements vm.UARTDevice. A write to TX_DATA only
// takes effect while tx_busy is clear, same as the original's
// addr==0b10 && !tx_busy guard; a write while busy is silently
// dropped rather than queued.
func (d *Device) WriteRegister(offset byte, value byte) {
	if offset != RegTXData {
		return
	}
	d.txMu.Lock()
	defer d.txMu.Unlock()
	if !d.txBusy {
		d.txData = value
		d.txBusy = true
	}
}

// Close stops the background goroutines and restores the terminal if
// NewTerminal put it into raw mode, mirroring rv_UninitUART's
// pthread_join pair. txLoop always observes done promptly; rxLoop is
// usually parked in ReadByte, so Close also closes in if it implements
// io.Closer to unblock that read before joining both goroutines via
// wg.Wait. If in is not an io.Closer (a plain bytes.Reader, say),
// rxLoop still exits on its own once in is exhausted. Close is
// idempotent and safe to call more than once.
func (d *Device) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.done)
		if closer, ok := d.in.(io.Closer); ok {
			_ = closer.Close()
		}
		d.wg.Wait()
		if d.restore != nil {
			err = d.restore()
		}
	})
	return err
}

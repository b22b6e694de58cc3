package fir4

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
)

var (
	// ErrNoAck is returned by the simulated bus when a transaction is
	// addressed to anything other than the peripheral.
	ErrNoAck = errors.New("fir4: no device acknowledged the address")

	errEmptyWrite = errors.New("fir4: transaction has no register pointer")
)

var _ i2c.BusCloser = (*Bus)(nil)

// Bus is an in-process I²C bus with a single filter peripheral attached. It
// lets the driver talk to the register model exactly like it would to a chip.
//
// The first written byte of a transaction is the register pointer. Further
// written bytes go to consecutive registers, then read bytes are taken from
// the registers following the last one written.
type Bus struct {
	mu    sync.Mutex
	addr  uint16
	speed physic.Frequency
	steps int
	rf    RegisterFile
}

// NewBus returns a bus with a freshly reset peripheral at addr. If addr is 0,
// the default address 0x39 is used.
func NewBus(addr uint16) *Bus {
	if addr == 0 {
		addr = Addr
	}
	return &Bus{
		addr:  addr,
		speed: 100 * physic.KiloHertz,
	}
}

func (b *Bus) String() string {
	return fmt.Sprintf("fir4-sim(%#x)", b.addr)
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if addr != b.addr {
		return fmt.Errorf("fir4: tx to %#x: %w", addr, ErrNoAck)
	}
	if len(w) == 0 {
		return errEmptyWrite
	}

	// validate the whole access before touching anything
	ptr := int(w[0])
	end := ptr + len(w) - 1 + len(r)
	if end > numRegs || (end == ptr && ptr >= numRegs) {
		return fmt.Errorf("%w: %#02x-%#02x", ErrInvalidAddress, ptr, end-1)
	}

	for _, v := range w[1:] {
		if err := b.rf.WriteReg(byte(ptr), v); err != nil {
			return err
		}
		ptr++
	}
	for i := range r {
		v, err := b.rf.ReadReg(byte(ptr))
		if err != nil {
			return err
		}
		r[i] = v
		ptr++
	}

	return nil
}

// SetSpeed implements i2c.Bus. The model has no timing, the speed is only
// recorded.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("fir4: invalid bus speed %s", f)
	}
	b.mu.Lock()
	b.speed = f
	b.mu.Unlock()
	return nil
}

// Speed returns the last speed set on the bus.
func (b *Bus) Speed() physic.Frequency {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.speed
}

// Reset pulls the peripheral reset line. All registers and the sample history
// are cleared before Reset returns.
func (b *Bus) Reset() {
	b.mu.Lock()
	b.rf.Reset()
	b.mu.Unlock()
}

// Advance lets n clock steps elapse. The peripheral has no autonomous
// behaviour, so this only moves the step counter.
func (b *Bus) Advance(n int) {
	if n <= 0 {
		return
	}
	b.mu.Lock()
	b.steps += n
	b.mu.Unlock()
}

// Steps returns the number of clock steps elapsed since the bus was created.
func (b *Bus) Steps() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.steps
}

// Registers returns a snapshot of the peripheral state. It is meant for tests
// and debugging, the device itself is only reachable through Tx.
func (b *Bus) Registers() RegisterFile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rf
}

// Close implements io.Closer.
func (b *Bus) Close() error {
	return nil
}

package fir4

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/mmr"
	"periph.io/x/periph/host"
)

// Device defines a 4-tap FIR filter peripheral on an I²C bus.
type Device struct {
	dev  *i2c.Dev
	regs mmr.Dev8
	bus  i2c.BusCloser // set only when the device opened the bus itself
}

// New returns a new device on bus. If addr is 0, the default address 0x39 is
// used. The registers are left untouched.
func New(bus i2c.Bus, addr uint16) (*Device, error) {
	if addr == 0 {
		addr = Addr
	}

	dev := &i2c.Dev{
		Addr: addr,
		Bus:  bus,
	}

	d := &Device{
		dev: dev,
		regs: mmr.Dev8{
			Conn:  dev,
			Order: binary.BigEndian,
		},
	}

	if _, err := d.Read(Control); err != nil {
		return nil, fmt.Errorf("fir4: could not probe device: %w", err)
	}

	return d, nil
}

// Open initializes the host drivers and returns a new device on a hardware bus.
//
// Argument "busName" can be used to specify the exact bus to use ("/dev/i2c-2", "I2C2", "2").
// If "busName" is an empty string "" the first available bus is used.
func Open(busName string, addr uint16) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("fir4: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("fir4: could not open I2C bus: %w", err)
	}

	d, err := New(bus, addr)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.bus = bus

	return d, nil
}

// Close disables the filter and, if the device opened the bus, closes it.
func (d *Device) Close() {
	d.Options(Enable(false))
	if d.bus != nil {
		d.bus.Close()
	}
}

func (d *Device) String() string {
	return fmt.Sprintf("fir4(%s)", d.dev)
}

// Read reads a single byte from a register.
func (d *Device) Read(reg byte) (byte, error) {
	v, err := d.regs.ReadUint8(reg)
	if err != nil {
		return 0, fmt.Errorf("fir4: could not read %#02x: %w", reg, err)
	}

	return v, nil
}

// ReadBytes reads n consecutive registers starting at reg.
func (d *Device) ReadBytes(reg byte, n int) ([]byte, error) {
	b := make([]byte, n)
	if err := d.dev.Tx([]byte{reg}, b); err != nil {
		return nil, fmt.Errorf("fir4: could not read %d bytes: %w", n, err)
	}

	return b, nil
}

// Write writes a byte to a register.
func (d *Device) Write(reg, data byte) error {
	if err := d.regs.WriteUint8(reg, data); err != nil {
		return fmt.Errorf("fir4: could not write %#02x: %w", reg, err)
	}

	return nil
}

// Push feeds one sample to the filter and returns the output computed from it.
func (d *Device) Push(x byte) (byte, error) {
	if err := d.Write(XIn, x); err != nil {
		return 0, err
	}

	return d.Read(YOut)
}

// PushBatch feeds samples in order and returns one output per sample.
func (d *Device) PushBatch(xs []byte) ([]byte, error) {
	ys := make([]byte, len(xs))
	for i, x := range xs {
		y, err := d.Push(x)
		if err != nil {
			return nil, fmt.Errorf("fir4: sample %d: %w", i, err)
		}
		ys[i] = y
	}

	return ys, nil
}

// Output returns the most recent filter output.
func (d *Device) Output() (byte, error) {
	return d.Read(YOut)
}

// Taps returns the raw coefficient registers H0 to H3.
func (d *Device) Taps() ([NumTaps]byte, error) {
	var t [NumTaps]byte
	b, err := d.ReadBytes(H0, NumTaps)
	if err != nil {
		return t, err
	}
	copy(t[:], b)

	return t, nil
}

// Enabled reports whether the filter processes new samples.
func (d *Device) Enabled() (bool, error) {
	ctrl, err := d.Read(Control)
	if err != nil {
		return false, err
	}

	return ctrl&CtrlEnable != 0, nil
}

// Signed reports whether the coefficients are read as two's complement.
func (d *Device) Signed() (bool, error) {
	ctrl, err := d.Read(Control)
	if err != nil {
		return false, err
	}

	return ctrl&CtrlSigned != 0, nil
}

// Flush clears the sample history. The register map has no clear command, so
// zeros are pushed through with the filter enabled. CONTROL is restored after.
func (d *Device) Flush() error {
	old, err := d.Options(Enable(true))
	if err != nil {
		return fmt.Errorf("fir4: could not flush: %w", err)
	}

	for i := 0; i < NumTaps; i++ {
		if err := d.Write(XIn, 0); err != nil {
			return fmt.Errorf("fir4: could not flush: %w", err)
		}
	}

	if _, err := d.Options(old); err != nil {
		return fmt.Errorf("fir4: could not flush: %w", err)
	}

	return nil
}

// Dump returns the content of every register, from CONTROL to YOUT.
func (d *Device) Dump() ([]byte, error) {
	return d.ReadBytes(Control, numRegs)
}

package fir4

import "fmt"

// Option defines a functional option for the device.
type Option func(d *Device) (Option, error)

// Options set different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) (Option, error) {
	var old Option
	var err error
	for _, opt := range options {
		old, err = opt(d)
		if err != nil {
			return nil, err
		}
	}

	return old, nil
}

// config keeps the bits of reg selected by mask, sets flag and returns the
// bits that were replaced.
func (d *Device) config(reg, mask, flag byte) (byte, error) {
	cfg, err := d.Read(reg)
	if err != nil {
		return 0, fmt.Errorf("could not get %#b from %#02x: %w", ^mask, reg, err)
	}
	old := cfg &^ mask
	cfg &= mask
	cfg |= flag
	if err := d.Write(reg, cfg); err != nil {
		return 0, fmt.Errorf("could not set %#b in %#02x: %w", flag, reg, err)
	}

	return old, nil
}

func flag(on bool, f byte) byte {
	if on {
		return f
	}
	return 0
}

// Enable turns sample processing on or off. While disabled, writes to XIN
// leave the history and the output untouched.
func Enable(on bool) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Control, ^CtrlEnable, flag(on, CtrlEnable))
		if err != nil {
			return nil, fmt.Errorf("fir4: could not configure enable: %w", err)
		}

		return Enable(old != 0), nil
	}
}

// Signed selects how the coefficient registers are read: two's complement
// (-0.5 to 127/256) when on, unsigned (0 to 255/256) when off.
func Signed(on bool) Option {
	return func(d *Device) (Option, error) {
		old, err := d.config(Control, ^CtrlSigned, flag(on, CtrlSigned))
		if err != nil {
			return nil, fmt.Errorf("fir4: could not configure coefficient mode: %w", err)
		}

		return Signed(old != 0), nil
	}
}

// Tap sets coefficient i, where 0 is applied to the most recent sample.
func Tap(i int, h byte) Option {
	return func(d *Device) (Option, error) {
		if i < 0 || i >= NumTaps {
			return nil, fmt.Errorf("fir4: tap %d out of range [0, %d]", i, NumTaps-1)
		}

		old, err := d.config(H0+byte(i), 0, h)
		if err != nil {
			return nil, fmt.Errorf("fir4: could not configure tap %d: %w", i, err)
		}

		return Tap(i, old), nil
	}
}

// Taps sets the four coefficients in a single bus transaction.
func Taps(h [NumTaps]byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.Taps()
		if err != nil {
			return nil, fmt.Errorf("fir4: could not configure taps: %w", err)
		}

		w := append([]byte{H0}, h[:]...)
		if err := d.dev.Tx(w, nil); err != nil {
			return nil, fmt.Errorf("fir4: could not configure taps: %w", err)
		}

		return Taps(old), nil
	}
}

package firperiph

import "periph.io/x/periph/conn/i2c"

// An Option configures a filter.
type Option func(f *Filter) Option

// OnBus can be used to specify an I²C bus name ("/dev/i2c-2", "I2C2", "2").
// By default, the bus name is "", which selects an in-process simulated
// peripheral instead of hardware.
func OnBus(name string) Option {
	return func(f *Filter) Option {
		old := f.busName
		f.busName = name
		return OnBus(old)
	}
}

// OnAddr can be used to specify an alternative I²C address.
// By default, the address is 0x39.
func OnAddr(addr uint16) Option {
	return func(f *Filter) Option {
		old := f.addr
		f.addr = addr
		return OnAddr(old)
	}
}

// WithBus uses an already opened bus. It takes precedence over OnBus and the
// filter closes the bus on Close.
func WithBus(bus i2c.BusCloser) Option {
	return func(f *Filter) Option {
		old := f.bus
		f.bus = bus
		return WithBus(old)
	}
}

package firperiph

import (
	"errors"
	"fmt"
	"math"

	"github.com/cgxeiji/firperiph/fir4"
	"periph.io/x/periph/conn/i2c"
)

var (
	// ErrOutOfRange is returned when a tap weight cannot be represented by a
	// Q0.8 coefficient register.
	ErrOutOfRange = errors.New("weight out of range")
	// ErrNotPowerOfTwo is returned by Response when the number of FFT points
	// is not a power of two.
	ErrNotPowerOfTwo = errors.New("size is not a power of two")
	// ErrTooShort is returned by Response when the number of FFT points is
	// smaller than the number of taps.
	ErrTooShort = errors.New("size is shorter than the filter")
	// ErrNotWAV is returned by ProcessWAV when the input cannot be decoded.
	ErrNotWAV = errors.New("not a valid WAV file")
)

// Filter is a 4-tap FIR filter peripheral, either simulated in-process or on a
// hardware I²C bus.
type Filter struct {
	device  *fir4.Device
	bus     i2c.BusCloser
	busName string
	addr    uint16

	taps    [numTaps]byte
	signed  bool
	enabled bool

	ref     reference
	outputs *tSeries
	level   movingAverage
	count   int
	clipped int
}

// Stats describes the outputs produced since the last Reset.
type Stats struct {
	// Count is the number of samples processed while enabled.
	Count int

	// Clipped is the number of outputs whose exact value fell outside
	// [0, 255] and were saturated.
	Clipped int

	// Last is the most recent output.
	Last byte

	// Min and Max are taken over the last 64 outputs.
	Min, Max byte

	// Mean is a smoothed output level.
	Mean float64
}

// New returns a new filter. Without options, a simulated peripheral at the
// default address is created.
func New(opts ...Option) (*Filter, error) {
	f := &Filter{
		outputs: newTSeries(statsWindow),
	}
	for _, opt := range opts {
		opt(f)
	}

	var err error
	switch {
	case f.bus != nil:
		f.device, err = fir4.New(f.bus, f.addr)
	case f.busName == "":
		f.bus = fir4.NewBus(f.addr)
		f.device, err = fir4.New(f.bus, f.addr)
	default:
		f.device, err = fir4.Open(f.busName, f.addr)
	}
	if err != nil {
		return nil, fmt.Errorf("firperiph: could not open device: %w", err)
	}

	if err := f.sync(); err != nil {
		return nil, err
	}

	return f, nil
}

// sync reads the device configuration into the filter.
func (f *Filter) sync() error {
	taps, err := f.device.Taps()
	if err != nil {
		return fmt.Errorf("firperiph: could not read taps: %w", err)
	}
	if f.signed, err = f.device.Signed(); err != nil {
		return fmt.Errorf("firperiph: could not read control: %w", err)
	}
	if f.enabled, err = f.device.Enabled(); err != nil {
		return fmt.Errorf("firperiph: could not read control: %w", err)
	}
	f.taps = taps
	f.ref.setWeights(Weights(taps, f.signed))

	return nil
}

// Close disables the filter and closes the bus.
func (f *Filter) Close() {
	f.device.Close()
	if f.bus != nil {
		f.bus.Close()
	}
}

// Device gives access to the register level driver.
func (f *Filter) Device() *fir4.Device {
	return f.device
}

// SetTaps writes raw Q0.8 coefficient registers, keeping the current
// coefficient mode.
func (f *Filter) SetTaps(taps [numTaps]byte) error {
	if _, err := f.device.Options(fir4.Taps(taps)); err != nil {
		return fmt.Errorf("firperiph: could not set taps: %w", err)
	}
	f.taps = taps
	f.ref.setWeights(Weights(taps, f.signed))

	return nil
}

// SetWeights quantizes real weights and loads them, selecting the signed
// coefficient mode when any weight is negative.
func (f *Filter) SetWeights(w [numTaps]float64) error {
	taps, signed, err := Quantize(w)
	if err != nil {
		return err
	}

	if _, err := f.device.Options(fir4.Signed(signed), fir4.Taps(taps)); err != nil {
		return fmt.Errorf("firperiph: could not set weights: %w", err)
	}
	f.taps = taps
	f.signed = signed
	f.ref.setWeights(w)

	return nil
}

// Taps returns the coefficient registers and whether they are signed.
func (f *Filter) Taps() ([numTaps]byte, bool) {
	return f.taps, f.signed
}

// Enable starts processing samples.
func (f *Filter) Enable() error {
	if _, err := f.device.Options(fir4.Enable(true)); err != nil {
		return fmt.Errorf("firperiph: could not enable: %w", err)
	}
	f.enabled = true
	return nil
}

// Disable freezes the filter: samples are ignored and the output holds.
func (f *Filter) Disable() error {
	if _, err := f.device.Options(fir4.Enable(false)); err != nil {
		return fmt.Errorf("firperiph: could not disable: %w", err)
	}
	f.enabled = false
	return nil
}

// Process pushes samples through the peripheral and returns its outputs.
func (f *Filter) Process(xs []byte) ([]byte, error) {
	ys, _, err := f.process(xs)
	return ys, err
}

// Compare processes samples and returns the largest difference, in output
// steps, between the peripheral and an exact floating point filter using the
// requested weights.
func (f *Filter) Compare(xs []byte) (float64, error) {
	_, maxErr, err := f.process(xs)
	return maxErr, err
}

func (f *Filter) process(xs []byte) ([]byte, float64, error) {
	ys := make([]byte, len(xs))
	maxErr := 0.0

	for i, x := range xs {
		y, err := f.device.Push(x)
		if err != nil {
			return nil, 0, fmt.Errorf("firperiph: could not process sample %d: %w", i, err)
		}
		ys[i] = y

		if !f.enabled {
			continue
		}

		exact := f.ref.push(float64(x))
		if exact < 0 || exact >= 256 {
			f.clipped++
		}
		if d := math.Abs(float64(y) - math.Max(0, math.Min(255, exact))); d > maxErr {
			maxErr = d
		}

		f.count++
		f.outputs.add(float64(y))
		f.level.add(float64(y))
	}

	return ys, maxErr, nil
}

// Stats returns output statistics since the last Reset.
func (f *Filter) Stats() Stats {
	s := Stats{
		Count:   f.count,
		Clipped: f.clipped,
		Mean:    f.level.mean,
	}
	if f.outputs.count() > 0 {
		s.Last = byte(f.outputs.last())
		s.Min = byte(f.outputs.min)
		s.Max = byte(f.outputs.max)
	}
	return s
}

// Reset clears the sample history of the peripheral and the statistics. The
// coefficients and the enable state are kept.
func (f *Filter) Reset() error {
	if err := f.device.Flush(); err != nil {
		return fmt.Errorf("firperiph: could not reset: %w", err)
	}
	f.ref.reset()
	f.outputs.reset()
	f.level.reset()
	f.count = 0
	f.clipped = 0

	return nil
}

package firperiph

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cgxeiji/firperiph/fir4"
)

func newTestFilter(t *testing.T, opts ...Option) (*Filter, *fir4.Bus) {
	t.Helper()
	bus := fir4.NewBus(0)
	f, err := New(append([]Option{WithBus(bus)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(f.Close)
	return f, bus
}

func TestFilterScenarios(t *testing.T) {
	tests := []struct {
		name string
		w    [numTaps]float64
		in   []byte
		want []byte
	}{
		{"moving average", [numTaps]float64{0.25, 0.25, 0.25, 0.25}, []byte{0, 0, 0, 255}, []byte{0, 0, 0, 63}},
		{"impulse", [numTaps]float64{0.5, 0.25, 0.125, 0.0625}, []byte{255, 0, 0, 0, 0}, []byte{127, 63, 31, 15, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFilter(t)
			if err := f.SetWeights(tt.w); err != nil {
				t.Fatal(err)
			}
			if err := f.Enable(); err != nil {
				t.Fatal(err)
			}

			got, err := f.Process(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterSignedWeights(t *testing.T) {
	f, bus := newTestFilter(t)
	if err := f.SetWeights([numTaps]float64{0.25, -0.25, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := f.Enable(); err != nil {
		t.Fatal(err)
	}

	if regs := bus.Registers(); regs.Control() != fir4.CtrlEnable|fir4.CtrlSigned {
		t.Fatalf("control: %#02x", regs.Control())
	}
	taps, signed := f.Taps()
	if !signed || taps != [numTaps]byte{64, 0xC0, 0, 0} {
		t.Fatalf("taps %v signed %v", taps, signed)
	}

	got, err := f.Process([]byte{10, 210, 210, 10})
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{2, 50, 0, 0}; !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterDisabled(t *testing.T) {
	f, bus := newTestFilter(t)
	if err := f.SetTaps([numTaps]byte{64, 64, 64, 64}); err != nil {
		t.Fatal(err)
	}
	if err := f.Enable(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Process([]byte{100, 100}); err != nil {
		t.Fatal(err)
	}

	if err := f.Disable(); err != nil {
		t.Fatal(err)
	}
	regs := bus.Registers()
	hist := regs.Core().History()

	got, err := f.Process([]byte{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{50, 50, 50, 50, 50}; !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	regs = bus.Registers()
	if regs.Core().History() != hist {
		t.Error("history changed while disabled")
	}
	if s := f.Stats(); s.Count != 2 {
		t.Errorf("stats count: got %d, want 2", s.Count)
	}
}

func TestFilterStatsAndReset(t *testing.T) {
	f, bus := newTestFilter(t)
	if err := f.SetTaps([numTaps]byte{255, 255, 255, 255}); err != nil {
		t.Fatal(err)
	}
	if err := f.Enable(); err != nil {
		t.Fatal(err)
	}

	got, err := f.Process([]byte{200, 200, 0, 0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{199, 255, 255, 255, 199, 0}; !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	s := f.Stats()
	if s.Count != 6 || s.Clipped != 3 || s.Last != 0 || s.Min != 0 || s.Max != 255 {
		t.Errorf("stats: %+v", s)
	}

	if err := f.Reset(); err != nil {
		t.Fatal(err)
	}
	if s := f.Stats(); s != (Stats{}) {
		t.Errorf("stats after reset: %+v", s)
	}
	regs := bus.Registers()
	if regs.Core().History() != ([numTaps]byte{}) {
		t.Errorf("history after reset: %v", regs.Core().History())
	}
	if regs.Taps() != [numTaps]byte{255, 255, 255, 255} || regs.Control() != fir4.CtrlEnable {
		t.Errorf("configuration lost: taps %v control %#02x", regs.Taps(), regs.Control())
	}
}

func TestFilterCompare(t *testing.T) {
	f, _ := newTestFilter(t)
	if err := f.SetWeights([numTaps]float64{0.1, 0.2, 0.3, 0.39}); err != nil {
		t.Fatal(err)
	}
	if err := f.Enable(); err != nil {
		t.Fatal(err)
	}

	in := make([]byte, 256)
	for i := range in {
		in[i] = byte(i * 37)
	}
	maxErr, err := f.Compare(in)
	if err != nil {
		t.Fatal(err)
	}
	// truncation costs up to one step, coefficient rounding up to 4*255*0.5/256
	if maxErr >= 3 {
		t.Errorf("max error %v too large", maxErr)
	}
}

func TestFilterSetWeightsOutOfRange(t *testing.T) {
	f, bus := newTestFilter(t)
	before := bus.Registers()

	err := f.SetWeights([numTaps]float64{1.5, 0, 0, 0})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("got %v, want ErrOutOfRange", err)
	}
	if bus.Registers() != before {
		t.Error("registers changed")
	}
}

func TestFilterOptions(t *testing.T) {
	f := &Filter{}
	restore := OnAddr(0x42)(f)
	if f.addr != 0x42 {
		t.Fatalf("addr: %#x", f.addr)
	}
	restore(f)
	if f.addr != 0 {
		t.Errorf("addr not restored: %#x", f.addr)
	}

	restore = OnBus("I2C1")(f)
	if f.busName != "I2C1" {
		t.Fatalf("bus: %q", f.busName)
	}
	restore(f)
	if f.busName != "" {
		t.Errorf("bus not restored: %q", f.busName)
	}
}

func TestFilterSimulatedDefault(t *testing.T) {
	f, err := New(OnAddr(0x44))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := f.SetTaps([numTaps]byte{128, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := f.Enable(); err != nil {
		t.Fatal(err)
	}
	got, err := f.Process([]byte{8})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 4 {
		t.Errorf("got %d, want 4", got[0])
	}
}

func TestFilterWrongAddress(t *testing.T) {
	_, err := New(WithBus(fir4.NewBus(0x10)), OnAddr(0x11))
	if !errors.Is(err, fir4.ErrNoAck) {
		t.Errorf("got %v, want ErrNoAck", err)
	}
}

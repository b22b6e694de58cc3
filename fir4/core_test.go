package fir4

import (
	"math/rand"
	"testing"
)

const on = CtrlEnable

func TestCorePush(t *testing.T) {
	tests := []struct {
		name string
		taps [NumTaps]byte
		ctrl byte
		in   []byte
		want []byte
	}{
		{
			name: "moving average",
			taps: [NumTaps]byte{64, 64, 64, 64},
			ctrl: on,
			in:   []byte{0, 0, 0, 255},
			want: []byte{0, 0, 0, 63},
		},
		{
			name: "impulse",
			taps: [NumTaps]byte{128, 64, 32, 16},
			ctrl: on,
			in:   []byte{255, 0, 0, 0, 0},
			want: []byte{127, 63, 31, 15, 0},
		},
		{
			name: "step",
			taps: [NumTaps]byte{64, 64, 64, 64},
			ctrl: on,
			in:   []byte{200, 200, 200, 200, 200},
			want: []byte{50, 100, 150, 200, 200},
		},
		{
			name: "saturate",
			taps: [NumTaps]byte{255, 255, 255, 255},
			ctrl: on,
			in:   []byte{255, 255, 255, 255},
			want: []byte{254, 255, 255, 255},
		},
		{
			name: "unsigned high coefficient",
			taps: [NumTaps]byte{200, 0, 0, 0},
			ctrl: on,
			in:   []byte{128},
			want: []byte{100},
		},
		{
			name: "signed negative clamps to zero",
			taps: [NumTaps]byte{0x80, 0, 0, 0}, // -0.5
			ctrl: on | CtrlSigned,
			in:   []byte{255, 0},
			want: []byte{0, 0},
		},
		{
			name: "signed differentiator",
			taps: [NumTaps]byte{127, 0x81, 0, 0}, // 127, -127
			ctrl: on | CtrlSigned,
			in:   []byte{0, 100, 100, 10},
			want: []byte{0, 49, 0, 0},
		},
		{
			name: "disabled",
			taps: [NumTaps]byte{64, 64, 64, 64},
			ctrl: 0,
			in:   []byte{255, 255, 255},
			want: []byte{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Core
			for i, x := range tt.in {
				if got := c.Push(x, tt.ctrl, tt.taps); got != tt.want[i] {
					t.Errorf("push %d (%d): got %d, want %d", i, x, got, tt.want[i])
				}
			}
		})
	}
}

func TestCoreClosedForm(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for n := 0; n < 500; n++ {
		var taps [NumTaps]byte
		for i := range taps {
			taps[i] = byte(rng.Intn(256))
		}
		ctrl := on
		if n%2 == 1 {
			ctrl |= CtrlSigned
		}

		var c Core
		var w [NumTaps]byte // most recent first
		var got byte
		for i := NumTaps - 1; i >= 0; i-- {
			w[i] = byte(rng.Intn(256))
		}
		for i := NumTaps - 1; i >= 0; i-- {
			got = c.Push(w[i], ctrl, taps)
		}

		var acc int32
		for i := range taps {
			acc += int32(w[i]) * coeff(taps[i], ctrl)
		}
		want := acc >> 8
		switch {
		case want > 255:
			want = 255
		case want < 0:
			want = 0
		}

		if int32(got) != want {
			t.Fatalf("taps %v, window %v, ctrl %#b: got %d, want %d", taps, w, ctrl, got, want)
		}
		if h := c.History(); h != w {
			t.Fatalf("history: got %v, want %v", h, w)
		}
	}
}

func TestCoreHistory(t *testing.T) {
	var c Core
	taps := [NumTaps]byte{}
	for _, x := range []byte{1, 2, 3, 4, 5, 6} {
		c.Push(x, on, taps)
	}

	want := [NumTaps]byte{6, 5, 4, 3}
	if got := c.History(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCoreDisabledFreeze(t *testing.T) {
	var c Core
	taps := [NumTaps]byte{128, 64, 32, 16}
	c.Push(255, on, taps)
	c.Push(10, on, taps)

	hist, out := c.History(), c.Output()
	for i := 0; i < 20; i++ {
		if got := c.Push(byte(i*13), 0, taps); got != out {
			t.Fatalf("push %d while disabled: got %d, want %d", i, got, out)
		}
	}

	if got := c.History(); got != hist {
		t.Errorf("history changed: got %v, want %v", got, hist)
	}
	if got := c.Output(); got != out {
		t.Errorf("output changed: got %d, want %d", got, out)
	}
}

func TestCoreReset(t *testing.T) {
	var c Core
	taps := [NumTaps]byte{64, 64, 64, 64}
	for _, x := range []byte{9, 8, 7, 6, 5} {
		c.Push(x, on, taps)
	}

	c.Reset()
	once := c
	c.Reset()

	if c != once {
		t.Errorf("second reset changed state: %+v != %+v", c, once)
	}
	if c != (Core{}) {
		t.Errorf("reset state is not zero: %+v", c)
	}
}

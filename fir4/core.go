package fir4

const histMask = NumTaps - 1

// Core is the filter engine: a 4 sample shift register and the last computed
// output. Coefficients are not stored here, they are passed in on each push
// by the register file that owns them.
type Core struct {
	hist [NumTaps]byte
	head int // index of the most recent sample in hist
	out  byte
}

// Push shifts x into the sample history and recomputes the output from taps.
// When control does not have CtrlEnable set, nothing changes and the previous
// output is returned.
func (c *Core) Push(x, control byte, taps [NumTaps]byte) byte {
	if control&CtrlEnable == 0 {
		return c.out
	}

	c.head = (c.head + 1) & histMask
	c.hist[c.head] = x

	var acc int32
	for i := 0; i < NumTaps; i++ {
		acc += int32(c.hist[(c.head-i)&histMask]) * coeff(taps[i], control)
	}

	c.out = saturate(acc >> scaleShift)
	return c.out
}

func coeff(h, control byte) int32 {
	if control&CtrlSigned != 0 {
		return int32(int8(h))
	}
	return int32(h)
}

func saturate(v int32) byte {
	if v > 0xFF {
		return 0xFF
	}
	if v < 0 {
		return 0
	}
	return byte(v)
}

// Output returns the last computed output.
func (c *Core) Output() byte {
	return c.out
}

// History returns the retained samples, most recent first.
func (c *Core) History() [NumTaps]byte {
	var h [NumTaps]byte
	for i := range h {
		h[i] = c.hist[(c.head-i)&histMask]
	}
	return h
}

// Reset clears the sample history and the output.
func (c *Core) Reset() {
	c.hist = [NumTaps]byte{}
	c.head = 0
	c.out = 0
}

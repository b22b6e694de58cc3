package firperiph

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Response returns the magnitude response of the loaded coefficients at n/2+1
// evenly spaced frequencies from DC to Nyquist. n must be a power of two and
// at least 4. The response is computed from the register values, so it
// includes coefficient quantization.
func (f *Filter) Response(n int) ([]float64, error) {
	return response(Weights(f.taps, f.signed), n)
}

func response(w [numTaps]float64, n int) ([]float64, error) {
	if n < numTaps {
		return nil, fmt.Errorf("firperiph: response of %d points: %w", n, ErrTooShort)
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("firperiph: response of %d points: %w", n, ErrNotPowerOfTwo)
	}

	in := make([]complex128, n)
	for i, v := range w {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("firperiph: could not plan FFT: %w", err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("firperiph: could not compute FFT: %w", err)
	}

	bins := n/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range re {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

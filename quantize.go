package firperiph

import (
	"fmt"
	"math"
)

// Quantize converts real tap weights to Q0.8 coefficient registers. If every
// weight is non-negative the unsigned format is used (0 to 255/256), otherwise
// the signed one (-0.5 to 127/256). Weights are rounded to the nearest step.
func Quantize(w [numTaps]float64) (taps [numTaps]byte, signed bool, err error) {
	for _, v := range w {
		if v < 0 {
			signed = true
		}
	}

	lo, hi := 0.0, maxUnsigned
	if signed {
		lo, hi = minSigned, maxSigned
	}

	for i, v := range w {
		if math.IsNaN(v) || v < lo || v > hi {
			return taps, signed, fmt.Errorf("firperiph: weight %d (%g) not in [%g, %g]: %w", i, v, lo, hi, ErrOutOfRange)
		}

		q := math.Round(v * qScale)
		if signed {
			taps[i] = byte(int8(q))
		} else {
			taps[i] = byte(q)
		}
	}

	return taps, signed, nil
}

// Weights returns the real weights held by coefficient registers.
func Weights(taps [numTaps]byte, signed bool) [numTaps]float64 {
	var w [numTaps]float64
	for i, h := range taps {
		if signed {
			w[i] = float64(int8(h)) / qScale
		} else {
			w[i] = float64(h) / qScale
		}
	}
	return w
}

package firperiph

import "github.com/cwbudde/algo-vecmath"

const refMask = numTaps - 1

// reference is an exact floating point 4-tap FIR, used to measure what the
// fixed point datapath loses to rounding and saturation.
type reference struct {
	// weights are stored oldest tap first to match the window layout.
	weights [numTaps]float64

	// every sample is written twice so that buffer[idx+1:idx+1+numTaps] is
	// always the window, oldest first, without copying.
	buffer [2 * numTaps]float64
	idx    int
}

func (r *reference) setWeights(w [numTaps]float64) {
	for i := range w {
		r.weights[numTaps-1-i] = w[i]
	}
}

// push adds x and returns the exact filter output for the new window.
func (r *reference) push(x float64) float64 {
	r.idx = (r.idx + 1) & refMask
	r.buffer[r.idx] = x
	r.buffer[r.idx+numTaps] = x

	return vecmath.DotProduct(r.weights[:], r.buffer[r.idx+1:r.idx+1+numTaps])
}

func (r *reference) reset() {
	r.buffer = [2 * numTaps]float64{}
	r.idx = 0
}

package firperiph

import "github.com/cgxeiji/firperiph/fir4"

const (
	// statsWindow is how many recent outputs Stats reports min and max over.
	statsWindow = 64

	// Q0.8 coefficient scale.
	qScale = 256

	maxUnsigned = 255.0 / qScale
	minSigned   = -128.0 / qScale
	maxSigned   = 127.0 / qScale
)

const numTaps = fir4.NumTaps

package fir4

// Register addresses
const (
	Control = 0x00
	H0      = 0x01
	H1      = 0x02
	H2      = 0x03
	H3      = 0x04
	XIn     = 0x05
	YOut    = 0x06

	numRegs = 7
)

// Control flags
const (
	CtrlEnable byte = (1 << 0)
	CtrlSigned byte = (1 << 1)
)

// Device constants
const (
	Addr    = 0x39
	NumTaps = 4

	// Coefficients are Q0.8: the true weight is the register value / 256.
	scaleShift = 8
)

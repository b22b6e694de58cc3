// Package fir4 models a 4-tap FIR filter peripheral and drives it through its
// byte register map.
//
// The peripheral keeps the last four input samples and four Q0.8
// coefficients. Writing a sample to XIN shifts it into the history and
// recomputes YOUT synchronously, so a read of YOUT right after the write
// already sees the new output:
//
//	y = clamp((h0*x[n] + h1*x[n-1] + h2*x[n-2] + h3*x[n-3]) >> 8, 0, 255)
//
// RegisterFile and Core are the register-level model. Bus puts that model
// behind a periph I²C bus so that Device, the driver, talks to it exactly as
// it would to hardware.
package fir4

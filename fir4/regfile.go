package fir4

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress is returned when an access falls outside the register map
// (0x00 to 0x06). The access has no effect.
var ErrInvalidAddress = errors.New("fir4: invalid register address")

// RegisterFile holds the byte registers of one filter instance and routes
// accesses to its Core. The zero value is a peripheral right after reset.
type RegisterFile struct {
	regs [numRegs]byte
	core Core
}

func checkAddr(addr byte) error {
	if addr >= numRegs {
		return fmt.Errorf("%w: %#02x", ErrInvalidAddress, addr)
	}
	return nil
}

// WriteReg writes value to the register at addr. A write to XIn pushes a new
// sample through the core, a write to YOut is ignored.
func (rf *RegisterFile) WriteReg(addr, value byte) error {
	if err := checkAddr(addr); err != nil {
		return err
	}

	switch addr {
	case YOut:
		return nil
	case XIn:
		rf.regs[XIn] = value
		rf.core.Push(value, rf.regs[Control], rf.Taps())
	default:
		rf.regs[addr] = value
	}

	return nil
}

// ReadReg reads the register at addr. XIn reads back the last sample written.
func (rf *RegisterFile) ReadReg(addr byte) (byte, error) {
	if err := checkAddr(addr); err != nil {
		return 0, err
	}

	if addr == YOut {
		return rf.core.Output(), nil
	}
	return rf.regs[addr], nil
}

// Reset clears every register and the core state.
func (rf *RegisterFile) Reset() {
	rf.regs = [numRegs]byte{}
	rf.core.Reset()
}

// Taps returns the raw coefficient registers H0 to H3.
func (rf *RegisterFile) Taps() [NumTaps]byte {
	var t [NumTaps]byte
	copy(t[:], rf.regs[H0:H3+1])
	return t
}

// Control returns the raw CONTROL register.
func (rf *RegisterFile) Control() byte {
	return rf.regs[Control]
}

// Core gives read access to the filter engine state.
func (rf *RegisterFile) Core() *Core {
	return &rf.core
}

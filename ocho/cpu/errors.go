package cpu

import "errors"

// Fault kinds. Every one is terminal for the current run: the faulting step
// leaves the machine state as it was before the step and the CPU reports
// StatusFaulted until the machine is reinitialized with a fresh image.
//
// ErrAddressOutOfRange lives in the memory package since that is where
// accesses are validated.
var (
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

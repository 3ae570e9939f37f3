package vm

import "errors"

var (
	// ErrImageTooLarge is returned by LoadProgram when the image does not fit
	// between ProgramStart and the end of memory.
	ErrImageTooLarge = errors.New("image too large")

	ErrInvalidMemoryAccess = errors.New("invalid memory access")
	ErrStackOverflow       = errors.New("stack overflow")
	ErrStackUnderflow      = errors.New("stack underflow")
	ErrUnknownOpcode       = errors.New("unknown opcode")
)

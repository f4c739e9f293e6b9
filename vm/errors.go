package vm

import "github.com/pkg/errors"

// Sentinel errors forming the closed taxonomy: callers recover one of these
// with errors.Cause after a wrapped error bubbles out of Run.
var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrInvalidOpcode  = errors.New("invalid opcode")
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidAddress = errors.New("invalid address")
	ErrHostIO         = errors.New("host I/O error")
	// ErrHalt is not a failure: a HostIO.Dispatch implementation returns it
	// from the SysExit capability to stop Run the same way reaching a HALT
	// instruction does, and Run reports it as a clean exit rather than
	// wrapping it as ErrHostIO.
	ErrHalt = errors.New("halt")
)

package vm

import "github.com/pkg/errors"

// HostIO is the abstract capability a SYS instruction dispatches into: the
// VM core knows only that id identifies some host-provided behavior, never
// what display, keyboard or mouse backs it.
//
// Dispatch handles a single SYS <id> instruction. Implementations that need
// to block (read_char with no key available yet) signal it by returning
// ErrWouldBlock; Run then re-executes the same instruction on its next
// iteration after draining PollEvents, exactly like the reference machine's
// waiting-for-input latch. The exit capability (SysExit) signals a clean
// halt by returning ErrHalt, the same as reaching a HALT instruction.
//
// PollEvents gives the host a chance to pump its event queue (keyboard,
// mouse, window) once per fetch-decode-execute cycle, before the next
// instruction is fetched. It returns shutdown true if the host wants the VM
// to stop running (e.g. the window was closed).
type HostIO interface {
	Dispatch(i *Instance, id byte) error
	PollEvents() (shutdown bool)
}

// ErrWouldBlock is returned by HostIO.Dispatch to signal that the current
// SYS instruction has no data available yet and must be retried; Run leaves
// PC on the SYS instruction and retries it after the next PollEvents.
var ErrWouldBlock = errors.New("would block")

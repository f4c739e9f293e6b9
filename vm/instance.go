package vm

import "github.com/pkg/errors"

// MemSize is the fixed size of the VM's address space.
const MemSize = 1 << 16

// StackTop is the initial value of SP: the byte stack grows down from here,
// so the stack starts empty with SP pointing one past its highest address.
const StackTop = 0xFFFF

// Instance is one VM: its memory, registers and the host capability its SYS
// instructions dispatch into. Like the machine it is descended from, state
// is kept as plain exported/unexported fields rather than behind getters,
// since the execute loop needs to touch it every cycle.
type Instance struct {
	Mem [MemSize]byte

	PC uint16
	SP uint16
	BP uint16

	Host HostIO

	insCount uint64

	// waitingForInput latches while a blocking SYS (read_char) instruction
	// is retried; PC is left on the SYS instruction on the cycle it is set
	// and it is re-dispatched on every following cycle until Dispatch stops
	// returning ErrWouldBlock.
	waitingForInput bool

	// pcOverflowed latches when an instruction's fall-through advance would
	// carry PC past 0xFFFF. The instruction that caused it still completes
	// (e.g. a byte fetched at 0xFFFF executes normally); the fault surfaces
	// on the next fetch attempt, matching the boundary behaviour spelled out
	// for JMP to the top of memory.
	pcOverflowed bool
}

// Option configures an Instance at construction time, mirroring the
// functional-options shape the reference machine uses for its own VM
// construction.
type Option func(*Instance) error

// WithHost sets the HostIO implementation SYS instructions dispatch into.
// A VM constructed without a host can still run programs that never
// execute SYS.
func WithHost(h HostIO) Option {
	return func(i *Instance) error {
		i.Host = h
		return nil
	}
}

// WithImage copies img into memory starting at address 0. It is an error
// for img to be longer than MemSize.
func WithImage(img []byte) Option {
	return func(i *Instance) error {
		if len(img) > MemSize {
			return errors.Errorf("image too large: %d bytes, memory is %d bytes", len(img), MemSize)
		}
		copy(i.Mem[:], img)
		return nil
	}
}

// New builds an Instance with BP and SP initialized to StackTop and applies
// opts in order. BP is never written again after construction: this core
// has no stack-frame support, so BP only marks "no frames below here" for
// future extension.
func New(opts ...Option) (*Instance, error) {
	i := &Instance{
		PC: 0,
		SP: StackTop,
		BP: StackTop,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, errors.Wrap(err, "vm.New")
		}
	}
	return i, nil
}

// InstructionCount returns the number of instructions executed so far by
// Run, for diagnostics (cmd/vm's -stats flag).
func (i *Instance) InstructionCount() uint64 {
	return i.insCount
}

// push writes v to the byte immediately below SP and decrements SP. It
// panics with ErrStackOverflow if the stack has reached address 0, the
// bottom of memory; Run recovers panics from the execute loop, so opcode
// bodies call push/pop without individually checking and propagating errors.
func (i *Instance) push(v byte) {
	if i.SP == 0 {
		panic(ErrStackOverflow)
	}
	i.SP--
	i.Mem[i.SP] = v
}

// pop reads the byte at SP and increments SP. It panics with
// ErrStackUnderflow if the stack is empty.
func (i *Instance) pop() byte {
	if i.SP >= StackTop {
		panic(ErrStackUnderflow)
	}
	v := i.Mem[i.SP]
	i.SP++
	return v
}

// pushWord pushes the low byte, then the high byte, of v: CALL's return
// address uses this exact ordering, and because the stack is LIFO, a
// matching popWord naturally reconstructs it hi-then-lo, which is also the
// ordering LOAD_IND/STORE_IND expect for an address built by two prior
// pushes.
func (i *Instance) pushWord(v uint16) {
	i.push(byte(v))
	i.push(byte(v >> 8))
}

// popWord pops the high byte then the low byte and reassembles them,
// matching RET's and LOAD_IND/STORE_IND's documented pop ordering.
func (i *Instance) popWord() uint16 {
	hi := i.pop()
	lo := i.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// Push places v on top of the data stack. It is exported for HostIO
// implementations that need to return values to a SYS caller.
func (i *Instance) Push(v byte) { i.push(v) }

// Pop removes and returns the top of the data stack, for HostIO
// implementations that need a SYS call's arguments.
func (i *Instance) Pop() byte { return i.pop() }

// Peek returns the top of the data stack without removing it.
func (i *Instance) Peek() byte { return i.peek() }

// readByte reads a byte from memory. It makes no bounds check: every uint16
// addr lies inside the 64 KiB array, so it never fails.
func (i *Instance) readByte(addr uint16) byte {
	return i.Mem[addr]
}

func (i *Instance) writeByte(addr uint16, v byte) {
	i.Mem[addr] = v
}

// readWord16 reads the little-endian 16-bit operand that follows the opcode
// at pc, for decoding instruction operands (not stack values). It takes the
// opcode's own address rather than a pre-computed operand address so it can
// detect the operand spilling past the top of the address space even when
// pc is 0xFFFF, where a uint16 pc+1 would otherwise wrap silently back to 0
// instead of surfacing the out-of-range fetch.
func (i *Instance) readWord16(pc uint16) uint16 {
	if uint32(pc)+2 > 0xFFFF {
		panic(ErrInvalidAddress)
	}
	return uint16(i.Mem[pc+1]) | uint16(i.Mem[pc+2])<<8
}

// operandByte reads the single immediate byte that follows the opcode at
// pc (PUSH's literal, SYS's id), panicking with ErrInvalidAddress if pc is
// the top of the address space: the operand would have to live at 0x10000,
// one past the end of memory, the same out-of-range fetch readWord16
// rejects for 16-bit operands.
func (i *Instance) operandByte(pc uint16) byte {
	if pc == 0xFFFF {
		panic(ErrInvalidAddress)
	}
	return i.Mem[pc+1]
}

// advancePC moves PC forward by n after a fall-through instruction. If PC
// would carry past the top of the address space it instead latches
// pcOverflowed, which Run checks before the next fetch: the instruction
// that triggered the advance still completed normally.
func (i *Instance) advancePC(n uint16) {
	next := uint32(i.PC) + uint32(n)
	if next > 0xFFFF {
		i.pcOverflowed = true
		return
	}
	i.PC = uint16(next)
}

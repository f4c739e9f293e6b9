package vm

import (
	"github.com/ked1108/kxn/isa"
	"github.com/pkg/errors"
)

// peek returns the top of the data stack without removing it, panicking
// with ErrStackUnderflow if the stack is empty.
func (i *Instance) peek() byte {
	if i.SP >= StackTop {
		panic(ErrStackUnderflow)
	}
	return i.Mem[i.SP]
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Run executes instructions starting at the current PC until a HALT
// instruction, a SYS whose Dispatch returns ErrHalt, a fatal error, or the
// host requests shutdown through PollEvents.
//
// If the VM halts cleanly, Run returns nil. Any other termination returns a
// wrapped error; errors.Cause recovers one of the sentinels in errors.go.
func (i *Instance) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case error:
				err = errors.Wrapf(e, "pc=0x%04x sp=0x%04x", i.PC, i.SP)
			default:
				panic(e)
			}
		}
	}()

	for {
		if i.Host != nil {
			if shutdown := i.Host.PollEvents(); shutdown {
				return nil
			}
		}

		if i.pcOverflowed {
			return errors.Wrapf(ErrInvalidAddress, "pc overflow at pc=0x%04x", i.PC)
		}

		op := i.Mem[i.PC]
		def := isa.ByOpcode[op]
		if def == nil {
			return errors.Wrapf(ErrInvalidOpcode, "opcode 0x%02x at pc=0x%04x", op, i.PC)
		}

		switch def.Opcode {
		case isa.OpNop:
			i.advancePC(1)
		case isa.OpHalt:
			return nil
		case isa.OpPush:
			i.push(i.operandByte(i.PC))
			i.advancePC(2)
		case isa.OpPop:
			i.pop()
			i.advancePC(1)
		case isa.OpDup:
			i.push(i.peek())
			i.advancePC(1)
		case isa.OpSwap:
			a, b := i.pop(), i.pop()
			i.push(a)
			i.push(b)
			i.advancePC(1)
		case isa.OpAdd:
			b, a := i.pop(), i.pop()
			i.push(a + b)
			i.advancePC(1)
		case isa.OpSub:
			b, a := i.pop(), i.pop()
			i.push(a - b)
			i.advancePC(1)
		case isa.OpMul:
			b, a := i.pop(), i.pop()
			i.push(a * b)
			i.advancePC(1)
		case isa.OpDiv:
			b, a := i.pop(), i.pop()
			if b == 0 {
				panic(ErrDivisionByZero)
			}
			i.push(a / b)
			i.advancePC(1)
		case isa.OpMod:
			b, a := i.pop(), i.pop()
			if b == 0 {
				panic(ErrDivisionByZero)
			}
			i.push(a % b)
			i.advancePC(1)
		case isa.OpNeg:
			a := i.pop()
			i.push(byte(-int8(a)))
			i.advancePC(1)
		case isa.OpAnd:
			b, a := i.pop(), i.pop()
			i.push(a & b)
			i.advancePC(1)
		case isa.OpOr:
			b, a := i.pop(), i.pop()
			i.push(a | b)
			i.advancePC(1)
		case isa.OpXor:
			b, a := i.pop(), i.pop()
			i.push(a ^ b)
			i.advancePC(1)
		case isa.OpNot:
			a := i.pop()
			i.push(^a)
			i.advancePC(1)
		case isa.OpShl:
			b, a := i.pop(), i.pop()
			i.push(a << (b & 7))
			i.advancePC(1)
		case isa.OpShr:
			b, a := i.pop(), i.pop()
			i.push(a >> (b & 7))
			i.advancePC(1)
		case isa.OpEq:
			b, a := i.pop(), i.pop()
			i.push(boolByte(a == b))
			i.advancePC(1)
		case isa.OpNeq:
			b, a := i.pop(), i.pop()
			i.push(boolByte(a != b))
			i.advancePC(1)
		case isa.OpGt:
			b, a := i.pop(), i.pop()
			i.push(boolByte(a > b))
			i.advancePC(1)
		case isa.OpLt:
			b, a := i.pop(), i.pop()
			i.push(boolByte(a < b))
			i.advancePC(1)
		case isa.OpGte:
			b, a := i.pop(), i.pop()
			i.push(boolByte(a >= b))
			i.advancePC(1)
		case isa.OpLte:
			b, a := i.pop(), i.pop()
			i.push(boolByte(a <= b))
			i.advancePC(1)
		case isa.OpLoad:
			addr := i.readWord16(i.PC)
			i.push(i.readByte(addr))
			i.advancePC(3)
		case isa.OpStore:
			addr := i.readWord16(i.PC)
			i.writeByte(addr, i.pop())
			i.advancePC(3)
		case isa.OpLoadInd:
			addr := i.popWord()
			i.push(i.readByte(addr))
			i.advancePC(1)
		case isa.OpStoreInd:
			addr := i.popWord()
			i.writeByte(addr, i.pop())
			i.advancePC(1)
		case isa.OpJmp:
			i.PC = i.readWord16(i.PC)
		case isa.OpJz:
			addr := i.readWord16(i.PC)
			if i.pop() == 0 {
				i.PC = addr
			} else {
				i.advancePC(3)
			}
		case isa.OpJnz:
			addr := i.readWord16(i.PC)
			if i.pop() != 0 {
				i.PC = addr
			} else {
				i.advancePC(3)
			}
		case isa.OpCall:
			addr := i.readWord16(i.PC)
			i.pushWord(i.PC + 3)
			i.PC = addr
		case isa.OpRet:
			i.PC = i.popWord()
		case isa.OpSys:
			id := i.operandByte(i.PC)
			if i.Host == nil {
				i.advancePC(2)
				break
			}
			derr := i.Host.Dispatch(i, id)
			if derr == nil {
				i.waitingForInput = false
				i.advancePC(2)
				break
			}
			if errors.Cause(derr) == ErrWouldBlock {
				// re-execute this SYS on the next cycle once input is
				// available; PollEvents runs again before we get back here.
				i.waitingForInput = true
				break
			}
			if errors.Cause(derr) == ErrHalt {
				return nil
			}
			return errors.Wrapf(ErrHostIO, "sys 0x%02x: %v", id, derr)
		default:
			return errors.Wrapf(ErrInvalidOpcode, "opcode 0x%02x at pc=0x%04x", op, i.PC)
		}

		i.insCount++
	}
}

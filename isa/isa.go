// Package isa centralises the instruction set shared by the assembler and
// the VM: one table maps mnemonics to opcodes, operand shapes and, for the
// SYS instruction, the host capability identifiers a compiler's built-in
// calls lower to. Keeping this in one place means the assembler's encoder
// and the VM's decoder can never drift apart.
package isa

// Kind describes the operand an instruction expects immediately after its
// opcode byte in an image.
type Kind int

const (
	// KindNone instructions take no operand; the next byte is the following
	// instruction's opcode.
	KindNone Kind = iota
	// KindImm8 instructions take a single literal byte operand (PUSH
	// literal, SYS id).
	KindImm8
	// KindAddr16 instructions take a 16-bit little-endian address operand
	// (LOAD, STORE, JMP, JZ, JNZ, CALL).
	KindAddr16
)

// Def is one row of the instruction set: a mnemonic, its encoded opcode and
// the shape of the operand that follows it in an image.
type Def struct {
	Mnemonic string
	Opcode   byte
	Kind     Kind
}

// Opcodes, in the order the reference machine defines them: NOP is 0x00,
// HALT is 0x01, and the rest follow in vm.h's declared sequence. This
// ordering is load-bearing, not cosmetic: iota assigns the byte value, and
// that byte value is what the assembler encodes and the VM decodes.
const (
	OpNop byte = iota
	OpHalt
	OpPush
	OpPop
	OpDup
	OpSwap
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpAnd
	OpOr
	OpXor
	OpNot
	OpShl
	OpShr
	OpEq
	OpNeq
	OpGt
	OpLt
	OpGte
	OpLte
	OpLoad
	OpStore
	OpLoadInd
	OpStoreInd
	OpJmp
	OpJz
	OpJnz
	OpCall
	OpRet
	OpSys
)

// Defs is the canonical, ordered instruction table. The assembler looks
// mnemonics up in it and the VM rejects any opcode byte missing from it
// before its execute switch over the Op constants below.
var Defs = [...]Def{
	{"NOP", OpNop, KindNone},
	{"HALT", OpHalt, KindNone},
	{"PUSH", OpPush, KindImm8},
	{"POP", OpPop, KindNone},
	{"DUP", OpDup, KindNone},
	{"SWAP", OpSwap, KindNone},
	{"ADD", OpAdd, KindNone},
	{"SUB", OpSub, KindNone},
	{"MUL", OpMul, KindNone},
	{"DIV", OpDiv, KindNone},
	{"MOD", OpMod, KindNone},
	{"NEG", OpNeg, KindNone},
	{"AND", OpAnd, KindNone},
	{"OR", OpOr, KindNone},
	{"XOR", OpXor, KindNone},
	{"NOT", OpNot, KindNone},
	{"SHL", OpShl, KindNone},
	{"SHR", OpShr, KindNone},
	{"EQ", OpEq, KindNone},
	{"NEQ", OpNeq, KindNone},
	{"GT", OpGt, KindNone},
	{"LT", OpLt, KindNone},
	{"GTE", OpGte, KindNone},
	{"LTE", OpLte, KindNone},
	{"LOAD", OpLoad, KindAddr16},
	{"STORE", OpStore, KindAddr16},
	{"LOAD_IND", OpLoadInd, KindNone},
	{"STORE_IND", OpStoreInd, KindNone},
	{"JMP", OpJmp, KindAddr16},
	{"JZ", OpJz, KindAddr16},
	{"JNZ", OpJnz, KindAddr16},
	{"CALL", OpCall, KindAddr16},
	{"RET", OpRet, KindNone},
	{"SYS", OpSys, KindImm8},
}

// ByMnemonic indexes Defs by upper-case mnemonic text, built once at package
// init from the Defs array.
var ByMnemonic = make(map[string]Def, len(Defs))

// ByOpcode indexes Defs by encoded opcode byte; nil entries are invalid
// opcodes.
var ByOpcode [256]*Def

func init() {
	for idx := range Defs {
		d := Defs[idx]
		ByMnemonic[d.Mnemonic] = d
		ByOpcode[d.Opcode] = &Defs[idx]
	}
}

// SysID identifies a host I/O capability dispatched by the SYS instruction.
type SysID byte

// Host I/O capability identifiers, grouped the way the reference machine
// groups them: process control, console, display, input.
const (
	SysExit      SysID = 0x00
	SysPrintChar SysID = 0x01
	SysReadChar  SysID = 0x02

	SysDrawPixel SysID = 0x10
	SysDrawLine  SysID = 0x11
	SysFillRect  SysID = 0x12
	SysRefresh   SysID = 0x13

	SysPollKey    SysID = 0x20
	SysGetKey     SysID = 0x21
	SysPollMouse  SysID = 0x22
	SysGetMouseX  SysID = 0x23
	SysGetMouseY  SysID = 0x24
	SysGetMouseB  SysID = 0x25
)

// Builtins maps built-in function names to the host capability they lower
// to. The compiler does not look names up here: it keeps its own narrower
// table (compiler/builtin.go) built from the same SysID constants.
var Builtins = map[string]SysID{
	"draw_pixel": SysDrawPixel,
	"draw_line":  SysDrawLine,
	"fill_rect":  SysFillRect,
	"refresh":    SysRefresh,
	"print_char": SysPrintChar,
	"read_char":  SysReadChar,
	"poll_key":   SysPollKey,
	"get_key":    SysGetKey,
	"poll_mouse": SysPollMouse,
	"get_mouse_x": SysGetMouseX,
	"get_mouse_y": SysGetMouseY,
	"get_mouse_b": SysGetMouseB,
	"halt":       SysExit,
}

// Display geometry for the framebuffer SYS calls operate on.
const (
	DisplayWidth  = 320
	DisplayHeight = 240
)

package vm

import (
	"fmt"
	"io"

	"github.com/ked1108/kxn/isa"
)

// Disassemble writes a textual listing of img to w, one instruction per
// line, and returns the address one past the last decoded instruction. It
// stops (without error) at the first byte that does not decode to a known
// opcode, since a trailing partial instruction or embedded data table is not
// a malformed image, just not code.
func Disassemble(img []byte, w io.Writer) (next int) {
	pc := 0
	for pc < len(img) {
		op := img[pc]
		def := isa.ByOpcode[op]
		if def == nil {
			return pc
		}
		switch def.Kind {
		case isa.KindNone:
			fmt.Fprintf(w, "%04X: %s\n", pc, def.Mnemonic)
			pc++
		case isa.KindImm8:
			if pc+1 >= len(img) {
				return pc
			}
			fmt.Fprintf(w, "%04X: %s 0x%02X\n", pc, def.Mnemonic, img[pc+1])
			pc += 2
		case isa.KindAddr16:
			if pc+2 >= len(img) {
				return pc
			}
			addr := uint16(img[pc+1]) | uint16(img[pc+2])<<8
			fmt.Fprintf(w, "%04X: %s 0x%04X\n", pc, def.Mnemonic, addr)
			pc += 3
		}
	}
	return pc
}

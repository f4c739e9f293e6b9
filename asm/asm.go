package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ked1108/kxn/isa"
)

// Assemble reads assembly source from r and returns the assembled image.
// name is not used; diagnostics carry only line numbers. If any line fails
// to assemble, Assemble
// returns an ErrList rather than stopping at the first bad line, so a
// caller can report everything wrong with a source file in one pass.
func Assemble(name string, r io.Reader) ([]byte, error) {
	p := newParser()

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p.parseLine(line, lineNo)
	}
	if err := sc.Err(); err != nil {
		p.errorf(lineNo, "read error: %v", err)
	}

	p.patch()

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.out, nil
}

// stripComment removes everything from the first ';' to the end of the
// line; quotes are not treated specially.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// Disassemble writes a textual listing of img to w, one instruction per
// line, and returns the address one past the last decoded instruction. It
// stops at the first byte that doesn't decode to a known opcode, kept local
// to this package (rather than shared with vm.Disassemble) so the
// assembler's own round-trip tests don't need to import the vm package just
// to print a listing.
func Disassemble(img []byte, w io.Writer) int {
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

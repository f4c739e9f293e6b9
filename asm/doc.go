// Package asm implements the two-pass assembler: a line-oriented textual
// format assembles to the flat byte image the vm package executes directly.
//
// Syntax, one statement per line:
//
//	; a full-line comment
//	label:            ; defines a label at the current address
//	  PUSH 10         ; mnemonic with an 8-bit immediate operand
//	  JZ  end         ; mnemonic with a forward label reference
//	  LOAD 0x0100     ; mnemonic with a hex address operand
//	end:
//	  HALT
//
// A label and an instruction may share a line ("loop: JMP loop"). Numeric
// operands are decimal or, with a 0x prefix, hexadecimal. Unknown mnemonics
// and undefined labels are collected and reported together in an ErrList
// rather than aborting at the first one (the compiler package returns the
// same list shape but stops at its first error).
package asm

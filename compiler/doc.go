// Package compiler implements the front end of the toolchain: a lexer, a
// recursive-descent parser and a single-pass code generator for a small
// imperative language, lowering directly to the textual assembly the asm
// package consumes.
//
// The grammar:
//
//	program    := statement*
//	statement  := "var" IDENT ("=" expression)? ";"
//	            | IDENT "=" expression ";"
//	            | "if" "(" expression ")" statement ("else" statement)?
//	            | "while" "(" expression ")" statement
//	            | "{" statement* "}"
//	            | expression ";"
//	expression := comparison
//	comparison := term (("=="|"!="|">"|"<"|">="|"<=") term)*
//	term       := factor (("+"|"-") factor)*
//	factor     := unary (("*"|"/"|"%") unary)*
//	unary      := NUMBER | IDENT ("(" args ")")? | "(" expression ")"
//
// Comparisons are left-associative and may chain (a < b < c); the language
// does not define what a chained comparison means beyond "evaluate
// left-to-right", so the parser accepts it without any special-casing,
// simply by never excluding comparison from being an operand of itself.
//
// Variables are allocated single bytes in a flat symbol table starting at
// address 0x0100; there is no block scoping, matching the flat address
// space the VM exposes. Built-in function calls (draw_pixel, print_char,
// read_char, ...) lower to SYS instructions using the identifiers in
// package isa; halt additionally emits the HALT opcode directly after its
// SYS, so the program also stops when run with no host (the VM then skips
// SYS instructions entirely).
//
// Compilation stops at the first error: this mirrors the "fatal on first
// occurrence" rule the language originally shipped with, rather than
// attempting error recovery that the grammar was never designed to survive.
package compiler

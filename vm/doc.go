// Package vm implements the virtual machine at the bottom of the toolchain:
// a flat 64 KiB byte-addressable memory, a byte-valued data stack growing
// down from the top of that memory, and a fetch-decode-execute loop driven
// by the shared instruction table in package isa.
//
// The VM itself knows nothing about displays, keyboards or mice: every SYS
// instruction is dispatched to a HostIO implementation supplied at
// construction time, the same way the reference machine this package is
// descended from kept its port handlers pluggable. Package vm/hostio
// supplies a fake for tests and a console-based implementation for real use.
//
// If you venture into the execute loop itself, be aware that for the same
// reason as in most small stack-machine interpreters, the PC is not
// incremented in one place: each opcode advances it by whatever its own
// encoding requires. This should be of no concern to callers, even ones
// supplying custom HostIO implementations.
package vm

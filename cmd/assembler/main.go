// Command assembler lowers the toolchain's textual assembly to a flat
// binary image the vm package executes directly.
//
// Usage:
//
//	assembler <input.asm> <output.bin>
//
// Diagnostics go to stderr prefixed with the offending source line; the
// process exits 0 on success and 1 on any error.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ked1108/kxn/asm"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: assembler <input.asm> <output.bin>\n")
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	f, err := os.Open(inPath)
	if err != nil {
		atExit(err)
	}
	defer f.Close()

	img, err := asm.Assemble(inPath, f)
	if err != nil {
		atExit(err)
	}

	if err := os.WriteFile(outPath, img, 0o644); err != nil {
		atExit(err)
	}
}

func atExit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

// Command compiler lowers the toolchain's C-like surface language to
// textual assembly for the asm package.
//
// Usage:
//
//	compiler <input.tc> <output.asm>
//
// Diagnostics go to stderr prefixed with the offending source line; the
// process exits 0 on success and 1 on any error.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ked1108/kxn/compiler"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: compiler <input.tc> <output.asm>\n")
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	inPath, outPath := flag.Arg(0), flag.Arg(1)

	src, err := os.ReadFile(inPath)
	if err != nil {
		atExit(err)
	}

	asmText, err := compiler.Compile(inPath, string(src))
	if err != nil {
		atExit(err)
	}

	if err := os.WriteFile(outPath, []byte(asmText), 0o644); err != nil {
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

// Command vm runs a binary image produced by the assembler against a
// console-backed host: print_char/read_char go to the controlling
// terminal, and draw/refresh calls write into an in-memory framebuffer with
// nowhere further to go, since a real window is outside this toolchain's
// scope.
//
// Usage:
//
//	vm [-disasm] [-stats] <image.bin>
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ked1108/kxn/vm"
	"github.com/ked1108/kxn/vm/hostio"
)

func main() {
	disasm := flag.Bool("disasm", false, "disassemble the image to stdout instead of running it")
	execStats := flag.Bool("stats", false, "print executed instruction count and MHz on exit")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: vm [-disasm] [-stats] <image.bin>\n")
		os.Exit(1)
	}

	img, err := vm.LoadImage(flag.Arg(0))
	if err != nil {
		atExit(err)
	}

	if *disasm {
		vm.Disassemble(img, os.Stdout)
		return
	}

	host, err := hostio.NewConsoleHost(os.Stdin, os.Stdout)
	if err != nil {
		atExit(err)
	}
	defer host.Close()

	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	if err != nil {
		atExit(err)
	}

	start := time.Now()
	err = i.Run()
	if *execStats {
		delta := time.Since(start)
		fmt.Fprintf(os.Stderr, "Executed %d instructions in %v (%.3f MHz).\n",
			i.InstructionCount(), delta,
			float64(i.InstructionCount())/float64(delta)*float64(time.Second)/1e6)
	}
	atExit(err)
}

func atExit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}

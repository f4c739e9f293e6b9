package compiler_test

import (
	"strings"
	"testing"

	"github.com/ked1108/kxn/asm"
	"github.com/ked1108/kxn/compiler"
	"github.com/ked1108/kxn/vm"
	"github.com/ked1108/kxn/vm/hostio"
	"github.com/stretchr/testify/require"
)

// buildAndRun compiles src, assembles the result, and runs it against a
// FakeHost, returning the finished Instance and host for assertions. It
// exercises the whole compiler -> assembler -> VM pipeline end to end.
func buildAndRun(t *testing.T, src string) (*vm.Instance, *hostio.FakeHost) {
	t.Helper()
	asmText, err := compiler.Compile("test.tc", src)
	require.NoError(t, err)

	img, err := asm.Assemble("test.tc", strings.NewReader(asmText))
	require.NoError(t, err, "assembling generated source:\n%s", asmText)

	host := &hostio.FakeHost{}
	i, err := vm.New(vm.WithImage(img), vm.WithHost(host))
	require.NoError(t, err)
	require.NoError(t, i.Run(), "running image compiled from:\n%s\nassembly:\n%s", src, asmText)
	return i, host
}

func TestCompileArithmetic(t *testing.T) {
	i, _ := buildAndRun(t, "var a = 2 + 3 * 4; halt();")
	require.Equal(t, byte(14), i.Mem[0x0100])
}

func TestCompileBranch(t *testing.T) {
	_, host := buildAndRun(t, `
		var x = 5;
		if (x == 5) {
			print_char(65);
		} else {
			print_char(66);
		}
		halt();
	`)
	require.Equal(t, "A", host.Console.String())
}

func TestCompileBranchElse(t *testing.T) {
	_, host := buildAndRun(t, `
		var x = 9;
		if (x == 5) {
			print_char(65);
		} else {
			print_char(66);
		}
		halt();
	`)
	require.Equal(t, "B", host.Console.String())
}

func TestCompileLoop(t *testing.T) {
	_, host := buildAndRun(t, `
		var i = 0;
		while (i < 3) {
			print_char(48 + i);
			i = i + 1;
		}
		halt();
	`)
	require.Equal(t, "012", host.Console.String())
}

func TestCompileTrailingHalt(t *testing.T) {
	asmText, err := compiler.Compile("test.tc", "var x = 1;")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(strings.TrimSpace(asmText), "HALT"))
}

func TestCompileUndefinedIdentifier(t *testing.T) {
	_, err := compiler.Compile("test.tc", "x = 1;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined identifier")
}

func TestCompileDuplicateDeclaration(t *testing.T) {
	_, err := compiler.Compile("test.tc", "var x = 1; var x = 2;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already declared")
}

func TestCompileUnknownBuiltin(t *testing.T) {
	_, err := compiler.Compile("test.tc", "frobnicate();")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown built-in")
}

func TestCompileIntegerLiteralOverflow(t *testing.T) {
	_, err := compiler.Compile("test.tc", "var x = 256;")
	require.Error(t, err)
	require.Contains(t, err.Error(), "overflow")
}

func TestCompileWrongArgumentCount(t *testing.T) {
	_, err := compiler.Compile("test.tc", "print_char(1, 2);")
	require.Error(t, err)
	require.Contains(t, err.Error(), "argument")
}

func TestCompileChainedComparison(t *testing.T) {
	// The language leaves the result of a chained comparison undefined;
	// the parser only needs to accept the chain rather than reject it.
	_, err := compiler.Compile("test.tc", "var a = 1; var b = 2; var c = 3; if (a < b < c) { halt(); } halt();")
	require.NoError(t, err)
}

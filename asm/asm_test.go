package asm_test

import (
	"strings"
	"testing"

	"github.com/ked1108/kxn/asm"
	"github.com/ked1108/kxn/isa"
)

func assemble(t *testing.T, src string) []byte {
	t.Helper()
	img, err := asm.Assemble("test.asm", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return img
}

func TestAssembleBasic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []byte
	}{
		{"nop", "NOP", []byte{isa.OpNop}},
		{"push", "PUSH 10", []byte{isa.OpPush, 10}},
		{"push-hex", "PUSH 0x0A", []byte{isa.OpPush, 10}},
		{"halt", "HALT", []byte{isa.OpHalt}},
		{"store-addr", "STORE 0x0100", []byte{isa.OpStore, 0x00, 0x01}},
		{"lower-case", "push 5", []byte{isa.OpPush, 5}},
		{"comment", "NOP ; a comment\n", []byte{isa.OpNop}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := assemble(t, tc.src)
			if string(got) != string(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAssembleLabels(t *testing.T) {
	src := "" +
		"loop:\n" +
		"  PUSH 1\n" +
		"  JMP loop\n"
	img := assemble(t, src)
	want := []byte{
		isa.OpPush, 1,
		isa.OpJmp, 0x00, 0x00, // back-reference to address 0
	}
	if string(img) != string(want) {
		t.Errorf("got %v, want %v", img, want)
	}
}

func TestAssembleForwardLabel(t *testing.T) {
	src := "" +
		"  JZ end\n" +
		"  NOP\n" +
		"end:\n" +
		"  HALT\n"
	img := assemble(t, src)
	want := []byte{
		isa.OpJz, 0x04, 0x00, // forward reference resolves to address 4
		isa.OpNop,
		isa.OpHalt,
	}
	if string(img) != string(want) {
		t.Errorf("got %v, want %v", img, want)
	}
}

// TestOpcodeBytesMatchFixedEncoding pins the assembled opcode bytes to the
// spec's fixed ISA encoding using hex literals, not isa.OpXxx symbols: the
// assembler and VM both resolve through the same isa.Defs table, so a test
// that only compares against isa.OpJmp would still pass even if the whole
// table's byte values drifted away from the spec's mandated encoding.
func TestOpcodeBytesMatchFixedEncoding(t *testing.T) {
	src := "" +
		"  JMP later\n" +
		"later:\n" +
		"  HALT\n"
	img := assemble(t, src)
	want := []byte{0x1C, 0x03, 0x00, 0x01}
	if string(img) != string(want) {
		t.Errorf("got % x, want % x", img, want)
	}
}

func TestAssembleLabelAndInstructionSameLine(t *testing.T) {
	src := "top: NOP\n" + "  JMP top\n"
	img := assemble(t, src)
	want := []byte{
		isa.OpNop,
		isa.OpJmp, 0x00, 0x00,
	}
	if string(img) != string(want) {
		t.Errorf("got %v, want %v", img, want)
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := asm.Assemble("test.asm", strings.NewReader("JMP nowhere\n"))
	if err == nil {
		t.Fatal("expected an error for an undefined label")
	}
	errs, ok := err.(asm.ErrList)
	if !ok {
		t.Fatalf("expected asm.ErrList, got %T", err)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	_, err := asm.Assemble("test.asm", strings.NewReader("FROB\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestAssembleDisassembleRoundTrip(t *testing.T) {
	src := "PUSH 3\nPUSH 4\nADD\nHALT\n"
	img := assemble(t, src)
	var sb strings.Builder
	next := asm.Disassemble(img, &sb)
	if next != len(img) {
		t.Errorf("disassembled %d of %d bytes", next, len(img))
	}
	out := sb.String()
	for _, want := range []string{"PUSH 0x03", "PUSH 0x04", "ADD", "HALT"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly %q missing %q", out, want)
		}
	}
}

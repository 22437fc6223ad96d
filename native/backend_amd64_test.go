package native

import (
	"testing"

	"github.com/dyncompile/emitbc/opcode"
)

func TestSupported(t *testing.T) {
	cases := []struct {
		op   opcode.Op
		want bool
	}{
		{opcode.LoadConstSmallInt, true},
		{opcode.UnaryOpMulti + opcode.Op(opcode.UnaryNegative), true},
		{opcode.BinaryOpMulti + opcode.Op(opcode.BinaryAdd), true},
		{opcode.BinaryOpMulti + opcode.Op(opcode.BinaryMultiply), false},
		{opcode.LoadFast, false},
	}
	for _, c := range cases {
		if got := Supported(c.op); got != c.want {
			t.Errorf("Supported(%s) = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestBuildProducesNonEmptyCode(t *testing.T) {
	var b Backend
	code, err := b.Build([]Instruction{
		{Op: opcode.LoadConstSmallInt, Operand: 2},
		{Op: opcode.LoadConstSmallInt, Operand: 3},
		{Op: opcode.BinaryOpMulti + opcode.Op(opcode.BinaryAdd)},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("expected non-empty machine code")
	}
}

func TestBuildRejectsUnsupportedOpcode(t *testing.T) {
	var b Backend
	_, err := b.Build([]Instruction{{Op: opcode.LoadFast}})
	if err == nil {
		t.Fatal("expected an error for an unsupported opcode")
	}
}

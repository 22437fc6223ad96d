package decode_test

import (
	"testing"

	"github.com/dyncompile/emitbc/decode"
	"github.com/dyncompile/emitbc/emitter"
	"github.com/dyncompile/emitbc/opcode"
	"github.com/dyncompile/emitbc/scope"
)

func build(t *testing.T, sc *scope.Scope, emit func(*emitter.State)) []byte {
	t.Helper()
	s := emitter.New(emitter.Config{EnableSourceLine: true}, 1)
	for _, pass := range []emitter.Pass{emitter.Scope, emitter.CodeSize, emitter.Emit} {
		s.StartPass(pass, sc)
		emit(s)
		if err := s.EndPass(); err != nil {
			t.Fatalf("EndPass(%s): %v", pass, err)
		}
	}
	return s.CodeObject()
}

func TestDecodePreludeRoundTrip(t *testing.T) {
	sc := &scope.Scope{SimpleName: 7, SourceFile: 9}
	code := build(t, sc, func(s *emitter.State) {
		s.LoadConstTok(emitter.ConstNone)
		s.ReturnValue()
	})

	p, _, err := decode.DecodePrelude(code)
	if err != nil {
		t.Fatalf("DecodePrelude: %v", err)
	}
	if p.SimpleName != 7 || p.SourceFile != 9 {
		t.Errorf("prelude = %+v, want SimpleName=7 SourceFile=9", p)
	}
	if p.CodeInfoSize <= 0 {
		t.Errorf("CodeInfoSize = %d, want > 0", p.CodeInfoSize)
	}
}

func TestDecodeInstructionStream(t *testing.T) {
	sc := &scope.Scope{}
	code := build(t, sc, func(s *emitter.State) {
		s.LoadConstSmallInt(42)
		s.PopTop()
		s.LoadConstTok(emitter.ConstNone)
		s.ReturnValue()
	})

	p, off, err := decode.DecodePrelude(code)
	if err != nil {
		t.Fatalf("DecodePrelude: %v", err)
	}
	_, off, err = decode.DecodeArgNames(code, off, 0)
	if err != nil {
		t.Fatalf("DecodeArgNames: %v", err)
	}
	_, _, _, lineTableOff, err := decode.DecodeRest(code, off)
	if err != nil {
		t.Fatalf("DecodeRest: %v", err)
	}

	bytecode := code[p.CodeInfoSize:]
	_ = lineTableOff
	instrs, err := decode.Decode(bytecode, decode.Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(instrs) != 4 {
		t.Fatalf("got %d instructions, want 4", len(instrs))
	}
	wantOp := opcode.LoadConstSmallIntMulti + opcode.Op(42-opcode.SmallIntLow)
	if instrs[0].Op != wantOp {
		t.Errorf("instrs[0].Op = %s, want %s", instrs[0].Op, wantOp)
	}
	if instrs[1].Op != opcode.PopTop {
		t.Errorf("instrs[1].Op = %s, want POP_TOP", instrs[1].Op)
	}
	if instrs[3].Op != opcode.ReturnValue {
		t.Errorf("instrs[3].Op = %s, want RETURN_VALUE", instrs[3].Op)
	}
}

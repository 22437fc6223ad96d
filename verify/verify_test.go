package verify_test

import (
	"testing"

	"github.com/dyncompile/emitbc/decode"
	"github.com/dyncompile/emitbc/emitter"
	"github.com/dyncompile/emitbc/opcode"
	"github.com/dyncompile/emitbc/scope"
	"github.com/dyncompile/emitbc/verify"
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

func bytecodeOf(t *testing.T, code []byte) []byte {
	t.Helper()
	p, _, err := decode.DecodePrelude(code)
	if err != nil {
		t.Fatalf("DecodePrelude: %v", err)
	}
	return code[p.CodeInfoSize:]
}

func TestWalkBalancedFunction(t *testing.T) {
	sc := &scope.Scope{}
	code := build(t, sc, func(s *emitter.State) {
		s.LoadConstSmallInt(42)
		s.PopTop()
		s.LoadConstTok(emitter.ConstNone)
		s.ReturnValue()
	})
	instrs, err := decode.Decode(bytecodeOf(t, code), decode.Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	res, err := verify.Walk(instrs, len(bytecodeOf(t, code)))
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if res.EndDepth != 0 {
		t.Errorf("EndDepth = %d, want 0", res.EndDepth)
	}
	if res.MaxDepth != 1 {
		t.Errorf("MaxDepth = %d, want 1", res.MaxDepth)
	}
}

func TestWalkDetectsBackwardJumpInRange(t *testing.T) {
	sc := &scope.Scope{}
	code := build(t, sc, func(s *emitter.State) {
		s.LabelAssign(0)
		for i := 0; i < 5; i++ {
			s.RotTwo()
		}
		s.Jump(0)
	})
	bc := bytecodeOf(t, code)
	instrs, err := decode.Decode(bc, decode.Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := verify.Walk(instrs, len(bc)); err != nil {
		t.Errorf("Walk: unexpected error %v", err)
	}
}

func TestWalkDetectsUnderflow(t *testing.T) {
	instrs := []decode.Instr{{Offset: 0, Op: opcode.PopTop}}
	if _, err := verify.Walk(instrs, 1); err == nil {
		t.Fatal("expected a stack-underflow error")
	}
}

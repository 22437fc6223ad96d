package emitter

import (
	"github.com/dyncompile/emitbc/opcode"
	"github.com/dyncompile/emitbc/scope"
)

// ReturnValue pops the top of stack and returns it to the caller. It
// is the only operation that sets the sticky last-emit-was-
// return-value flag queryable via LastEmitWasReturnValue; every other
// op clears it in bcPre. The emitter itself never reads the flag —
// it exists so the external tree walker driving emission can decide
// whether a fall-through RETURN_VALUE NONE needs to be synthesized at
// the end of a function body, the same role
// mp_emit_bc_last_emit_was_return_value plays in the method table
// this Ops interface mirrors.
func (s *State) ReturnValue() {
	s.bcPre(-1)
	s.writeOp(opcode.ReturnValue)
	s.lastEmitWasReturn = true
}

// LastEmitWasReturnValue reports whether the most recently emitted
// operation was ReturnValue, with no intervening op (spec.md §3
// "last_emit_was_return_value"). During SCOPE, bcPre does no
// bookkeeping, so later ops in that pass do not clear the flag.
func (s *State) LastEmitWasReturnValue() bool { return s.lastEmitWasReturn }

// RaiseVarargs raises an exception. nArgs follows Python's raise
// statement arity: 0 (re-raise), 1 (raise exc), or 2 (raise exc from
// cause); anything else is a caller contract violation.
func (s *State) RaiseVarargs(nArgs int) {
	if nArgs < 0 || nArgs > 2 {
		fail("RaiseVarargs: nArgs must be 0, 1, or 2, got %d", nArgs)
	}
	s.bcPre(-nArgs)
	s.writeOp(opcode.RaiseVarargs)
	s.bytecode.WriteByte(byte(nArgs))
}

// YieldValue pops a value, suspends the generator and hands the value
// to its consumer; on resume the send() argument (or None) is pushed
// back, so the net stack effect is zero. Emitting it at all marks the
// enclosing scope as a generator.
func (s *State) YieldValue() {
	s.bcPre(0)
	s.writeOp(opcode.YieldValue)
	s.markGenerator()
}

// YieldFrom delegates iteration to a sub-iterator already on the
// stack, popping it once exhausted and pushing its StopIteration
// value. Like YieldValue, it marks the enclosing scope as a
// generator.
func (s *State) YieldFrom() {
	s.bcPre(-1)
	s.writeOp(opcode.YieldFrom)
	s.markGenerator()
}

func (s *State) markGenerator() {
	if s.pass == Scope {
		return
	}
	s.scope.ScopeFlags |= scope.IsGenerator
}

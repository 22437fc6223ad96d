package emitter

import "github.com/dyncompile/emitbc/opcode"

// UnaryOp applies one of the opcode.Unary* operators in place on the
// top of stack (Δstack = 0). UnaryNot is not a primitive instruction:
// it is expanded into two emissions, coerce-to-bool (UnaryBool)
// followed by the actual NOT, matching spec.md §4.6's description of
// how logical NOT is lowered.
func (s *State) UnaryOp(op int) {
	if op == opcode.UnaryNot {
		s.unaryOpRaw(opcode.UnaryBool)
		s.unaryOpRaw(opcode.UnaryNot)
		return
	}
	s.unaryOpRaw(op)
}

func (s *State) unaryOpRaw(op int) {
	s.bcPre(0)
	s.writeOp(opcode.UnaryOpMulti + opcode.Op(op))
}

// BinaryOp applies one of the opcode.Binary* operators to the top two
// stack entries, replacing both with the result (Δstack = -1). "not
// in" and "is not" are not primitive instructions: call BinaryNotIn /
// BinaryIsNot instead, which expand to the positive form followed by
// a NOT (spec.md §4.6).
func (s *State) BinaryOp(op int) {
	s.bcPre(-1)
	s.writeOp(opcode.BinaryOpMulti + opcode.Op(op))
}

// BinaryNotIn is "not in", lowered to BinaryIn followed by UnaryNot.
func (s *State) BinaryNotIn() {
	s.BinaryOp(opcode.BinaryIn)
	s.UnaryOp(opcode.UnaryNot)
}

// BinaryIsNot is "is not", lowered to BinaryIs followed by UnaryNot.
func (s *State) BinaryIsNot() {
	s.BinaryOp(opcode.BinaryIs)
	s.UnaryOp(opcode.UnaryNot)
}

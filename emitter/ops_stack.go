package emitter

import "github.com/dyncompile/emitbc/opcode"

// DupTop duplicates the top of stack.
func (s *State) DupTop() {
	s.bcPre(+1)
	s.writeOp(opcode.DupTop)
}

// DupTopTwo duplicates the top two stack entries, preserving order.
func (s *State) DupTopTwo() {
	s.bcPre(+2)
	s.writeOp(opcode.DupTopTwo)
}

// PopTop discards the top of stack.
func (s *State) PopTop() {
	s.bcPre(-1)
	s.writeOp(opcode.PopTop)
}

// RotTwo swaps the top two stack entries.
func (s *State) RotTwo() {
	s.bcPre(0)
	s.writeOp(opcode.RotTwo)
}

// RotThree rotates the top three stack entries so that TOS moves to
// third-from-top and the other two shift up.
func (s *State) RotThree() {
	s.bcPre(0)
	s.writeOp(opcode.RotThree)
}

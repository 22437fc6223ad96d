package emitter

import "github.com/dyncompile/emitbc/opcode"

// BuildTuple pops nArgs values and pushes a tuple built from them.
func (s *State) BuildTuple(nArgs int) {
	s.bcPre(1 - nArgs)
	s.writeOp(opcode.BuildTuple)
	s.bytecode.WriteUvarint(uint64(nArgs))
}

// BuildList pops nArgs values and pushes a list built from them.
func (s *State) BuildList(nArgs int) {
	s.bcPre(1 - nArgs)
	s.writeOp(opcode.BuildList)
	s.bytecode.WriteUvarint(uint64(nArgs))
}

// BuildSet pops nArgs values and pushes a set built from them.
func (s *State) BuildSet(nArgs int) {
	s.bcPre(1 - nArgs)
	s.writeOp(opcode.BuildSet)
	s.bytecode.WriteUvarint(uint64(nArgs))
}

// BuildMap pushes an empty map pre-sized to hold nArgs entries. Unlike
// the sequence builders this does not consume any stack values: the
// key/value pairs are added afterwards with StoreMap (spec.md §4.6).
func (s *State) BuildMap(nArgs int) {
	s.bcPre(+1)
	s.writeOp(opcode.BuildMap)
	s.bytecode.WriteUvarint(uint64(nArgs))
}

// BuildSlice pops nArgs values (2 or 3, start/stop[/step]) and pushes
// a slice object built from them.
func (s *State) BuildSlice(nArgs int) {
	s.bcPre(1 - nArgs)
	s.writeOp(opcode.BuildSlice)
	s.bytecode.WriteUvarint(uint64(nArgs))
}

// ListAppend pops a value and appends it to the list found one slot
// below the new top of stack.
func (s *State) ListAppend() {
	s.bcPre(-1)
	s.writeOp(opcode.ListAppend)
}

// SetAdd pops a value and adds it to the set found one slot below the
// new top of stack.
func (s *State) SetAdd() {
	s.bcPre(-1)
	s.writeOp(opcode.SetAdd)
}

// MapAdd pops a key and a value and inserts them into the map found
// below the new top of stack.
func (s *State) MapAdd() {
	s.bcPre(-2)
	s.writeOp(opcode.MapAdd)
}

// StoreMap pops a key and a value and inserts them into the map that
// remains on the stack, used while building a BUILD_MAP literal.
func (s *State) StoreMap() {
	s.bcPre(-2)
	s.writeOp(opcode.StoreMap)
}

// UnpackSequence pops a sequence and pushes its nArgs elements in
// reverse order (so the first element ends up on top of stack).
func (s *State) UnpackSequence(nArgs int) {
	s.bcPre(nArgs - 1)
	s.writeOp(opcode.UnpackSequence)
	s.bytecode.WriteUvarint(uint64(nArgs))
}

// UnpackEx pops a sequence and pushes nLeft leading elements, a list
// collecting the remainder, and nRight trailing elements — the
// a, b, *rest, c, d = seq form. The two counts are packed into a
// single 16-bit operand, low byte first (spec.md §4.6, scenario S6).
func (s *State) UnpackEx(nLeft, nRight int) {
	s.bcPre(nLeft + nRight)
	s.writeOp(opcode.UnpackEx)
	s.bytecode.WriteByte(byte(nLeft))
	s.bytecode.WriteByte(byte(nRight))
}

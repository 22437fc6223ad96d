package emitter

import "github.com/dyncompile/emitbc/opcode"

// LoadAttr pops an object and pushes one of its attributes, looked up
// by interned name handle.
func (s *State) LoadAttr(handle int) {
	s.bcPre(0)
	s.writeOp(opcode.LoadAttr)
	s.bytecode.WriteUvarint(uint64(handle))
	s.maybeCacheByte()
}

// LoadMethod pops an object and pushes a (possibly bound) method
// followed by its self argument, so that a subsequent CALL_METHOD
// sees a uniform [meth, self, args...] layout whether or not the
// lookup actually produced a bound method.
func (s *State) LoadMethod(handle int) {
	s.bcPre(+1)
	s.writeOp(opcode.LoadMethod)
	s.bytecode.WriteUvarint(uint64(handle))
}

// LoadSubscr pops a container and an index and pushes container[index].
func (s *State) LoadSubscr() {
	s.bcPre(-1)
	s.writeOp(opcode.LoadSubscr)
}

// StoreAttr pops a value and an object and assigns object.attr = value.
func (s *State) StoreAttr(handle int) {
	s.bcPre(-2)
	s.writeOp(opcode.StoreAttr)
	s.bytecode.WriteUvarint(uint64(handle))
	s.maybeCacheByte()
}

// StoreSubscr pops a value, an object, and an index and assigns
// object[index] = value.
func (s *State) StoreSubscr() {
	s.bcPre(-3)
	s.writeOp(opcode.StoreSubscr)
}

// DeleteAttr removes attribute handle from an object already on the
// stack. It is desugared to load-null, rotate, store rather than
// given its own opcode (spec.md §4.6).
func (s *State) DeleteAttr(handle int) {
	s.LoadNull()
	s.RotTwo()
	s.StoreAttr(handle)
}

// DeleteSubscr removes object[index] for an object and index already
// on the stack, desugared the same way as DeleteAttr.
func (s *State) DeleteSubscr() {
	s.LoadNull()
	s.RotThree()
	s.StoreSubscr()
}

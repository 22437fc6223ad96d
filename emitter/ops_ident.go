package emitter

import (
	"github.com/dyncompile/emitbc/opcode"
)

// LoadFast pushes local slot n. Slots 0..15 fold into a dedicated
// multi-opcode family; everything else falls back to the generic
// opcode with a varint operand (spec.md §4.6 "Identifier ops").
func (s *State) LoadFast(n int) {
	s.bcPre(+1)
	s.emitFastSlot(opcode.LoadFastMulti, opcode.LoadFast, n)
}

// StoreFast pops the top of stack into local slot n.
func (s *State) StoreFast(n int) {
	s.bcPre(-1)
	s.emitFastSlot(opcode.StoreFastMulti, opcode.StoreFast, n)
}

// DeleteFast clears local slot n.
//
// Unlike every other operation, this does not call bcPre: spec.md §9
// records this as an open question inherited from the emitter this
// module is modeled on (it is unclear whether delete_fast truly has
// zero stack effect in all cases, or whether the omission is an
// oversight in the original). We preserve the observed behavior
// rather than silently "fixing" it.
func (s *State) DeleteFast(n int) {
	if s.pass == Scope {
		return
	}
	s.emitFastSlot(opcode.Op(0), opcode.DeleteFast, n)
}

func (s *State) emitFastSlot(multiBase, generic opcode.Op, n int) {
	if generic == opcode.DeleteFast {
		s.writeOp(generic)
		s.bytecode.WriteUvarint(uint64(n))
		return
	}
	if n >= 0 && n < opcode.FastMultiSlots {
		s.writeOp(multiBase + opcode.Op(n))
		return
	}
	s.writeOp(generic)
	s.bytecode.WriteUvarint(uint64(n))
}

// LoadDeref pushes the value held in closure cell n.
func (s *State) LoadDeref(n int) {
	s.bcPre(+1)
	s.writeOp(opcode.LoadDeref)
	s.bytecode.WriteUvarint(uint64(n))
}

// StoreDeref pops the top of stack into closure cell n.
func (s *State) StoreDeref(n int) {
	s.bcPre(-1)
	s.writeOp(opcode.StoreDeref)
	s.bytecode.WriteUvarint(uint64(n))
}

// DeleteDeref clears closure cell n. Per the same open question as
// DeleteFast, no bcPre call is made.
func (s *State) DeleteDeref(n int) {
	if s.pass == Scope {
		return
	}
	s.writeOp(opcode.DeleteDeref)
	s.bytecode.WriteUvarint(uint64(n))
}

// LoadName looks a name up through the locals/enclosing/globals/
// builtins chain and pushes the result.
func (s *State) LoadName(handle int) {
	s.bcPre(+1)
	s.writeOp(opcode.LoadName)
	s.bytecode.WriteUvarint(uint64(handle))
	s.maybeCacheByte()
}

// StoreName pops the top of stack into name handle in the locals
// scope.
func (s *State) StoreName(handle int) {
	s.bcPre(-1)
	s.writeOp(opcode.StoreName)
	s.bytecode.WriteUvarint(uint64(handle))
}

// DeleteName removes name handle from the locals scope.
func (s *State) DeleteName(handle int) {
	s.bcPre(0)
	s.writeOp(opcode.DeleteName)
	s.bytecode.WriteUvarint(uint64(handle))
}

// LoadGlobal looks a name up through the globals/builtins chain.
func (s *State) LoadGlobal(handle int) {
	s.bcPre(+1)
	s.writeOp(opcode.LoadGlobal)
	s.bytecode.WriteUvarint(uint64(handle))
	s.maybeCacheByte()
}

// StoreGlobal pops the top of stack into the module's global
// namespace under name handle.
func (s *State) StoreGlobal(handle int) {
	s.bcPre(-1)
	s.writeOp(opcode.StoreGlobal)
	s.bytecode.WriteUvarint(uint64(handle))
}

// DeleteGlobal removes name handle from the module's global
// namespace.
func (s *State) DeleteGlobal(handle int) {
	s.bcPre(0)
	s.writeOp(opcode.DeleteGlobal)
	s.bytecode.WriteUvarint(uint64(handle))
}

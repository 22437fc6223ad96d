package emitter

import (
	"github.com/dyncompile/emitbc/opcode"
)

// ConstToken identifies one of the handful of singleton constants
// that get a dedicated one-byte opcode instead of going through the
// general constant-pool path (spec.md §4.6 "Load constants").
type ConstToken int

const (
	ConstFalse ConstToken = iota
	ConstNone
	ConstTrue
	ConstEllipsis
)

// LoadConstTok pushes one of the singleton token constants. Ellipsis
// is the one case that needs an aligned pointer operand rather than a
// bare opcode, since (unlike False/None/True) it is a real heap
// object reference a scanning collector must see.
func (s *State) LoadConstTok(tok ConstToken) {
	s.bcPre(+1)
	switch tok {
	case ConstFalse:
		s.writeOp(opcode.LoadConstFalse)
	case ConstNone:
		s.writeOp(opcode.LoadConstNone)
	case ConstTrue:
		s.writeOp(opcode.LoadConstTrue)
	case ConstEllipsis:
		s.writeOp(opcode.LoadConstEllipsis)
		s.bytecode.AlignWord()
		s.bytecode.WritePointer(uint64(ellipsisHandle))
	default:
		fail("emitter: unknown const token %d", tok)
	}
}

// ellipsisHandle is the well-known interned-object handle for the
// Ellipsis singleton. Real handle assignment is owned by the external
// interning layer (spec.md §1 "string interning... out of scope");
// this module only needs a stable placeholder to exercise the
// pointer-aligned wire shape.
const ellipsisHandle = 0

// LoadConstSmallInt pushes a small integer literal. Values in
// [-16, 47] fold into a dedicated multi-opcode family
// (LOAD_CONST_SMALL_INT_MULTI + 16 + n); everything else falls back
// to the generic opcode with a signed varint operand (spec.md §4.6,
// scenario S2).
func (s *State) LoadConstSmallInt(n int64) {
	s.bcPre(+1)
	if n >= opcode.SmallIntLow && n < opcode.SmallIntHigh {
		s.writeOp(opcode.LoadConstSmallIntMulti + opcode.Op(n-opcode.SmallIntLow))
		return
	}
	s.writeOp(opcode.LoadConstSmallInt)
	s.bytecode.WriteVarint(n)
}

// LoadConstStr pushes a string literal identified by its interned
// handle.
func (s *State) LoadConstStr(handle int) {
	s.bcPre(+1)
	s.writeOp(opcode.LoadConstString)
	s.bytecode.WriteUvarint(uint64(handle))
}

// LoadConstObj pushes an arbitrary constant object by its interned,
// word-aligned pointer-sized handle (e.g. a compiled regex, a tuple
// of constants, a frozen bytes literal).
func (s *State) LoadConstObj(handle int) {
	s.bcPre(+1)
	s.writeOp(opcode.LoadConstObj)
	s.bytecode.AlignWord()
	s.bytecode.WritePointer(uint64(handle))
}

// LoadNull pushes the VM's null sentinel, used internally to fill
// unused call-argument slots (spec.md §4.6 "Calls").
func (s *State) LoadNull() {
	s.bcPre(+1)
	s.writeOp(opcode.LoadNull)
}

package emitter

import "github.com/dyncompile/emitbc/opcode"

// callOperand packs the positional and keyword argument counts into a
// single varint, keyword count in the high byte (spec.md §4.6,
// scenario S4).
func callOperand(nPositional, nKeyword int) uint64 {
	return uint64(nKeyword)<<8 | uint64(nPositional)
}

// CallFunction pops the callable and its nPositional positional plus
// nKeyword (name, value) keyword argument pairs, and pushes the
// result.
func (s *State) CallFunction(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword)
	s.writeOp(opcode.CallFunction)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

// CallFunctionVar is CallFunction plus a trailing *args tuple already
// on the stack. The wire format has a single variant opcode for "at
// least one of *args/**kwargs is present" (spec.md §4.6, scenario
// S4), so this writes the same opcode as CallFunctionVarKw; the VM's
// calling convention always reserves two extra stack slots for the
// star-args pair, so the caller must LoadNull() in place of the
// absent **kwargs before emitting this.
func (s *State) CallFunctionVar(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword - 2)
	s.writeOp(opcode.CallFunctionVarKw)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

// CallFunctionKw is CallFunction plus a trailing **kwargs dict already
// on the stack; the caller must LoadNull() in place of the absent
// *args, for the same reason as CallFunctionVar. It writes the same
// CallFunctionVarKw opcode: the wire format does not distinguish
// args-only from kwargs-only from both.
func (s *State) CallFunctionKw(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword - 2)
	s.writeOp(opcode.CallFunctionVarKw)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

// CallFunctionVarKw is CallFunction plus both a trailing *args tuple
// and **kwargs dict already on the stack.
func (s *State) CallFunctionVarKw(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword - 2)
	s.writeOp(opcode.CallFunctionVarKw)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

// CallMethod is CallFunction for a [method, self, args...] stack
// layout as produced by LoadMethod: it additionally consumes the self
// argument LoadMethod pushed.
func (s *State) CallMethod(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword - 1)
	s.writeOp(opcode.CallMethod)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

// CallMethodVar is CallMethod plus a trailing *args tuple; the caller
// must LoadNull() in place of the absent **kwargs. Like
// CallFunctionVar, it writes the single "star-args present" variant
// opcode, CallMethodVarKw.
func (s *State) CallMethodVar(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword - 3)
	s.writeOp(opcode.CallMethodVarKw)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

// CallMethodKw is CallMethod plus a trailing **kwargs dict; the caller
// must LoadNull() in place of the absent *args. It also writes
// CallMethodVarKw, for the same reason as CallMethodVar.
func (s *State) CallMethodKw(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword - 3)
	s.writeOp(opcode.CallMethodVarKw)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

// CallMethodVarKw is CallMethod plus both a trailing *args tuple and
// **kwargs dict.
func (s *State) CallMethodVarKw(nPositional, nKeyword int) {
	s.bcPre(-nPositional - 2*nKeyword - 3)
	s.writeOp(opcode.CallMethodVarKw)
	s.bytecode.WriteUvarint(callOperand(nPositional, nKeyword))
}

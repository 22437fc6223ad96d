package emitter

import "github.com/dyncompile/emitbc/opcode"

// MakeFunction pops nothing and pushes a function object built from
// rawCode, a pointer to the finalized code object of the function
// being defined (word-aligned, spec.md §5).
func (s *State) MakeFunction(rawCode uint64) {
	s.bcPre(+1)
	s.writeOp(opcode.MakeFunction)
	s.codeInfoOrBytecodePointer(rawCode)
}

// MakeFunctionDefArgs is MakeFunction for a function with default
// argument values: it additionally pops the tuple of positional
// defaults and the dict of keyword-only defaults already assembled on
// the stack.
func (s *State) MakeFunctionDefArgs(rawCode uint64) {
	s.bcPre(-1)
	s.writeOp(opcode.MakeFunctionDefArgs)
	s.codeInfoOrBytecodePointer(rawCode)
}

// MakeClosure is MakeFunction for a function that closes over nCells
// variables from an enclosing scope: it pops the nCells cell objects
// the VM pushed (in closure-cell order) and pushes the resulting
// closure.
func (s *State) MakeClosure(rawCode uint64, nCells int) {
	s.bcPre(1 - nCells)
	s.writeOp(opcode.MakeClosure)
	s.codeInfoOrBytecodePointer(rawCode)
	s.bytecode.WriteByte(byte(nCells))
}

// MakeClosureDefArgs combines MakeClosure and MakeFunctionDefArgs: it
// additionally pops the default-argument tuple and dict.
func (s *State) MakeClosureDefArgs(rawCode uint64, nCells int) {
	s.bcPre(-1 - nCells)
	s.writeOp(opcode.MakeClosureDefArgs)
	s.codeInfoOrBytecodePointer(rawCode)
	s.bytecode.WriteByte(byte(nCells))
}

func (s *State) codeInfoOrBytecodePointer(rawCode uint64) {
	s.bytecode.AlignWord()
	s.bytecode.WritePointer(rawCode)
}

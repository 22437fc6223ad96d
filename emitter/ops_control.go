package emitter

import "github.com/dyncompile/emitbc/opcode"

// Jump unconditionally transfers control to label. It uses the
// signed, 0x8000-biased displacement form so the target may lie
// before or after the jump instruction (spec.md §4.4, scenario S3).
func (s *State) Jump(label int) {
	s.bcPre(0)
	s.emitSignedJump(opcode.Jump, label)
}

// PopJumpIfTrue pops the top of stack and jumps to label if it is
// truthy.
func (s *State) PopJumpIfTrue(label int) {
	s.bcPre(-1)
	s.emitSignedJump(opcode.PopJumpIfTrue, label)
}

// PopJumpIfFalse pops the top of stack and jumps to label if it is
// falsy.
func (s *State) PopJumpIfFalse(label int) {
	s.bcPre(-1)
	s.emitSignedJump(opcode.PopJumpIfFalse, label)
}

// JumpIfTrueOrPop jumps to label if the top of stack is truthy,
// otherwise pops it. The static stack-depth accounting always uses
// -1 (the "pop" outcome): the non-popping branch leaves a value that
// is balanced by instructions emitted along that other control-flow
// edge, not by this one (spec.md §4.6).
func (s *State) JumpIfTrueOrPop(label int) {
	s.bcPre(-1)
	s.emitSignedJump(opcode.JumpIfTrueOrPop, label)
}

// JumpIfFalseOrPop is JumpIfTrueOrPop's falsy-tested counterpart.
func (s *State) JumpIfFalseOrPop(label int) {
	s.bcPre(-1)
	s.emitSignedJump(opcode.JumpIfFalseOrPop, label)
}

// UnwindJump transfers control to label while unwinding excDepth
// exception-handler blocks; breakFromFor additionally pops the
// current for-loop's iterator on the way out (spec.md §4.4).
func (s *State) UnwindJump(label int, excDepth int, breakFromFor bool) {
	s.bcPre(0)
	s.emitUnwindJump(label, excDepth, breakFromFor)
}

// SetupWith pushes the four with-statement bookkeeping values (the
// context manager, its __exit__ method, and two VM-internal markers)
// and records label as the forward target to jump to if the block
// exits via an exception.
func (s *State) SetupWith(label int) {
	s.bcPre(+4)
	s.emitUnsignedJump(opcode.SetupWith, label)
}

// WithCleanup pops the four values SetupWith pushed once the
// with-block's cleanup has run.
func (s *State) WithCleanup() {
	s.bcPre(-4)
	s.writeOp(opcode.WithCleanup)
}

// SetupExcept pushes a forward-only jump target used if the
// subsequent block raises.
func (s *State) SetupExcept(label int) {
	s.bcPre(0)
	s.emitUnsignedJump(opcode.SetupExcept, label)
}

// SetupFinally pushes a forward-only jump target for the finally
// block.
func (s *State) SetupFinally(label int) {
	s.bcPre(0)
	s.emitUnsignedJump(opcode.SetupFinally, label)
}

// EndFinally pops the single value the VM pushed to signal why
// control reached the finally block (normal completion, exception, or
// a pending jump/return).
func (s *State) EndFinally() {
	s.bcPre(-1)
	s.writeOp(opcode.EndFinally)
}

// ForIter pushes the iterator's next value, or jumps forward to label
// and leaves the stack unchanged if the iterator is exhausted.
func (s *State) ForIter(label int) {
	s.bcPre(+1)
	s.emitUnsignedJump(opcode.ForIter, label)
}

// ForIterEnd pops the exhausted iterator once control reaches a
// FOR_ITER's forward jump target.
func (s *State) ForIterEnd() {
	s.bcPre(-1)
	s.writeOp(opcode.ForIterEnd)
}

// PopBlock discards the innermost block-bookkeeping entry (loop,
// with, or exception block) without unwinding any stack values.
func (s *State) PopBlock() {
	s.bcPre(0)
	s.writeOp(opcode.PopBlock)
}

// PopExcept discards the innermost exception-handler bookkeeping
// entry.
func (s *State) PopExcept() {
	s.bcPre(0)
	s.writeOp(opcode.PopExcept)
}

// StartExceptHandler pushes the six values the VM uses to represent
// an in-flight exception (type, value, traceback, and three
// bookkeeping slots) when entering an except block.
func (s *State) StartExceptHandler() {
	s.bcPre(+6)
	s.writeOp(opcode.StartExceptHandler)
}

// EndExceptHandler pops the five remaining exception-state values
// once an except block has run (the sixth was already consumed by
// the type match test).
func (s *State) EndExceptHandler() {
	s.bcPre(-5)
	s.writeOp(opcode.EndExceptHandler)
}

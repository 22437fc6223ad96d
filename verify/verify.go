// Package verify independently re-derives the operand-stack high-
// water mark and end-of-function balance from a finalized code
// object's decoded instruction stream, without trusting the value the
// emitter recorded in the prelude. This is the same cross-check role
// the teacher's validate package plays for WebAssembly: a second,
// independent stack walk over the already-produced bytecode, built
// from the same per-opcode rules the emitter's own bcPre bookkeeping
// uses, so a bug in one doesn't silently validate itself.
package verify

import (
	"github.com/dyncompile/emitbc/decode"
	"github.com/dyncompile/emitbc/opcode"
)

// Result is the outcome of walking one function's instruction stream.
type Result struct {
	MaxDepth  int
	EndDepth  int
	NumInstrs int
}

// Walk replays instrs, a decoded instruction stream from package
// decode, accumulating the operand stack depth the same way the
// emitter's stack tracker does, and checks every jump's displacement
// resolves inside the stream.
func Walk(instrs []decode.Instr, bytecodeLen int) (Result, error) {
	var r Result
	depth := 0
	for _, in := range instrs {
		delta, err := stackDelta(in)
		if err != nil {
			return r, Error{Offset: in.Offset, Err: err}
		}
		if depth+delta < 0 {
			return r, Error{Offset: in.Offset, Err: ErrStackUnderflow}
		}
		depth += delta
		if depth > r.MaxDepth {
			r.MaxDepth = depth
		}

		if err := checkJumpRange(in, bytecodeLen); err != nil {
			return r, Error{Offset: in.Offset, Err: err}
		}
		r.NumInstrs++
	}
	r.EndDepth = depth
	return r, nil
}

func checkJumpRange(in decode.Instr, bytecodeLen int) error {
	instrEnd := in.Offset + 3 // opcode byte + 2-byte displacement
	switch {
	case isSignedJump(in.Op):
		target := instrEnd + int(int32(uint32(in.Operands[0])-0x8000))
		if target < 0 || target > bytecodeLen {
			return ErrJumpOutOfRange
		}
	case isUnsignedJump(in.Op):
		target := instrEnd + int(in.Operands[0])
		if target < 0 || target > bytecodeLen {
			return ErrJumpOutOfRange
		}
	}
	return nil
}

func isSignedJump(op opcode.Op) bool {
	switch op {
	case opcode.Jump, opcode.PopJumpIfTrue, opcode.PopJumpIfFalse,
		opcode.JumpIfTrueOrPop, opcode.JumpIfFalseOrPop, opcode.UnwindJump:
		return true
	default:
		return false
	}
}

func isUnsignedJump(op opcode.Op) bool {
	switch op {
	case opcode.SetupWith, opcode.SetupExcept, opcode.SetupFinally, opcode.ForIter:
		return true
	default:
		return false
	}
}

// stackDelta returns the net operand-stack effect of in, mirroring
// the bcPre argument the emitter passed when it originally wrote this
// instruction (spec.md §4.6).
func stackDelta(in decode.Instr) (int, error) {
	op := in.Op

	switch {
	case inRange(op, opcode.LoadFastMulti, opcode.FastMultiSlots):
		return +1, nil
	case inRange(op, opcode.StoreFastMulti, opcode.FastMultiSlots):
		return -1, nil
	case inRange(op, opcode.LoadConstSmallIntMulti, opcode.SmallIntHigh-opcode.SmallIntLow):
		return +1, nil
	case inRange(op, opcode.UnaryOpMulti, opcode.NumUnaryOps):
		return 0, nil
	case inRange(op, opcode.BinaryOpMulti, opcode.NumBinaryOps):
		return -1, nil
	}

	switch op {
	case opcode.LoadConstFalse, opcode.LoadConstNone, opcode.LoadConstTrue, opcode.LoadConstEllipsis,
		opcode.LoadConstSmallInt, opcode.LoadConstString, opcode.LoadConstObj, opcode.LoadNull,
		opcode.LoadFast, opcode.LoadDeref, opcode.LoadName, opcode.LoadGlobal, opcode.LoadMethod,
		opcode.DupTop, opcode.ForIter:
		return +1, nil

	case opcode.StoreFast, opcode.StoreDeref, opcode.StoreName, opcode.StoreGlobal,
		opcode.LoadSubscr, opcode.PopTop, opcode.EndFinally, opcode.ForIterEnd,
		opcode.ListAppend, opcode.SetAdd, opcode.ReturnValue, opcode.YieldFrom:
		return -1, nil

	case opcode.DeleteFast, opcode.DeleteDeref:
		return 0, nil // spec.md §9 open question: no bcPre call by design

	case opcode.DeleteName, opcode.DeleteGlobal, opcode.RotTwo, opcode.RotThree,
		opcode.PopBlock, opcode.PopExcept, opcode.YieldValue:
		return 0, nil

	case opcode.WithCleanup:
		return -4, nil

	case opcode.LoadAttr:
		return 0, nil
	case opcode.StoreAttr:
		return -2, nil
	case opcode.StoreSubscr:
		return -3, nil

	case opcode.DupTopTwo:
		return +2, nil

	case opcode.MapAdd, opcode.StoreMap:
		return -2, nil

	case opcode.BuildTuple, opcode.BuildList, opcode.BuildSet, opcode.BuildSlice:
		return int(1 - in.Operands[0]), nil
	case opcode.BuildMap:
		return +1, nil
	case opcode.UnpackSequence:
		return int(in.Operands[0] - 1), nil
	case opcode.UnpackEx:
		return int(in.Operands[0] + in.Operands[1]), nil

	case opcode.MakeFunction:
		return +1, nil
	case opcode.MakeFunctionDefArgs:
		return -1, nil
	case opcode.MakeClosure:
		return int(1 - in.Operands[1]), nil
	case opcode.MakeClosureDefArgs:
		return int(-1 - in.Operands[1]), nil

	case opcode.CallFunction:
		return callDelta(in.Operands[0], 0), nil
	case opcode.CallFunctionVarKw:
		return callDelta(in.Operands[0], 2), nil
	case opcode.CallMethod:
		return callDelta(in.Operands[0], 1), nil
	case opcode.CallMethodVarKw:
		return callDelta(in.Operands[0], 3), nil

	case opcode.RaiseVarargs:
		return int(-in.Operands[0]), nil

	case opcode.Jump, opcode.PopJumpIfTrue, opcode.PopJumpIfFalse,
		opcode.JumpIfTrueOrPop, opcode.JumpIfFalseOrPop, opcode.UnwindJump:
		return jumpDelta(op), nil

	case opcode.SetupWith:
		return +4, nil
	case opcode.SetupExcept, opcode.SetupFinally:
		return 0, nil
	case opcode.StartExceptHandler:
		return +6, nil
	case opcode.EndExceptHandler:
		return -5, nil

	default:
		return 0, nil
	}
}

// jumpDelta gives the static stack effect of the conditional/
// unconditional jump opcodes that don't carry an argument-count
// operand to derive it from.
func jumpDelta(op opcode.Op) int {
	switch op {
	case opcode.Jump, opcode.UnwindJump:
		return 0
	case opcode.PopJumpIfTrue, opcode.PopJumpIfFalse,
		opcode.JumpIfTrueOrPop, opcode.JumpIfFalseOrPop:
		return -1
	default:
		return 0
	}
}

// callDelta packs the operand as (nKeyword<<8)|nPositional, per
// callOperand in package emitter, and applies the fixed number of
// extra star-arg/self slots the given call family always consumes.
func callDelta(packed int64, extra int) int {
	nPositional := int(packed & 0xff)
	nKeyword := int(packed >> 8)
	return -nPositional - 2*nKeyword - extra
}

func inRange(op, base opcode.Op, n int) bool {
	return op >= base && int(op) < int(base)+n
}

// Package decode reads a finalized code object back into a sequence
// of structured instructions, for debugging and for the
// cmd/emitbc-dump tool. It is the read-back counterpart of package
// emitter, grounded on the teacher's disasm package: both walk a flat
// instruction stream byte by byte, decoding each operator's
// immediates according to a fixed per-opcode shape. Decoding does not
// track the operand-stack depth; package verify does that over the
// decoded instructions.
package decode

import (
	"bytes"
	"fmt"

	"github.com/dyncompile/emitbc/codeobj"
	"github.com/dyncompile/emitbc/opcode"
	"github.com/dyncompile/emitbc/varint"
)

// Instr is one decoded bytecode instruction.
type Instr struct {
	Offset   int // byte offset within the bytecode stream, not the whole code object
	Op       opcode.Op
	Operands []int64 // decoded immediates, in the order they appear in the instruction
}

// Prelude is the decoded fixed-shape header described by spec.md §4.1.
type Prelude struct {
	CodeInfoSize int
	SimpleName   int
	SourceFile   int
	ArgNames     []int
	NState       int
	ExcStackSize int
	CellLocals   []int
}

// Options mirrors the subset of emitter.Config that changes how bytes
// are laid out, since a decoder must agree with the encoder on that
// shape to read anything back correctly.
type Options struct {
	CacheMapLookupInBytecode bool
}

// DecodePrelude reads the code-info size, simple name and source file
// from the start of a code object and returns the word-aligned byte
// offset that follows them (the start of the argument-name table).
// Only CodeInfoSize, SimpleName and SourceFile are filled in; the
// rest of the prelude is read with DecodeArgNames and DecodeRest.
func DecodePrelude(code []byte) (Prelude, int, error) {
	var p Prelude

	// The code-info-size field is always written at its reserved
	// worst-case width (varint.FixedUvarint, varint.MaxUvarintLen64
	// bytes): the leading padding bytes are themselves valid
	// continuation-set, zero-payload varint groups, so an ordinary
	// decode consumes exactly that many bytes.
	ciSize, n, err := varint.DecodeUvarint(code)
	if err != nil {
		return p, 0, fmt.Errorf("decode: code-info size: %w", err)
	}
	p.CodeInfoSize = int(ciSize)
	off := n

	name, n, err := varint.DecodeUvarint(code[off:])
	if err != nil {
		return p, 0, fmt.Errorf("decode: simple_name: %w", err)
	}
	p.SimpleName = int(name)
	off += n

	file, n, err := varint.DecodeUvarint(code[off:])
	if err != nil {
		return p, 0, fmt.Errorf("decode: source_file: %w", err)
	}
	p.SourceFile = int(file)
	off += n

	pad := (codeobj.WordSize - off%codeobj.WordSize) % codeobj.WordSize
	off += pad

	// The argument-name table's width isn't recorded anywhere in the
	// prelude itself: a real caller already knows NumArgs() from the
	// same scope the emitter consumed. DecodePrelude therefore takes
	// it as understood context and stops before the table; callers
	// that need the names should use DecodeArgNames with NumArgs.
	p.ArgNames = nil

	return p, off, nil
}

// DecodeArgNames reads numArgs word-sized pointer slots starting at
// byte offset off (as returned, pre-table, by DecodePrelude) and
// returns the following offset alongside the decoded handles.
func DecodeArgNames(code []byte, off, numArgs int) ([]int, int, error) {
	names := make([]int, numArgs)
	for i := 0; i < numArgs; i++ {
		if off+codeobj.WordSize > len(code) {
			return nil, 0, fmt.Errorf("decode: arg name table truncated at slot %d", i)
		}
		var v uint64
		for b := 0; b < codeobj.WordSize; b++ {
			v |= uint64(code[off+b]) << (8 * uint(b))
		}
		names[i] = int(int32(v))
		off += codeobj.WordSize
	}
	return names, off, nil
}

// DecodeRest reads NState, ExcStackSize, and the cell-local-number
// list following the argument-name table, returning the offset of the
// line-number table that follows.
func DecodeRest(code []byte, off int) (nstate, excStackSize int, cells []int, next int, err error) {
	r := bytes.NewReader(code[off:])

	n, err := readUvarint(r)
	if err != nil {
		return 0, 0, nil, 0, fmt.Errorf("decode: nstate: %w", err)
	}
	exc, err := readUvarint(r)
	if err != nil {
		return 0, 0, nil, 0, fmt.Errorf("decode: exc_stack_size: %w", err)
	}

	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, nil, 0, fmt.Errorf("decode: cell locals: %w", err)
		}
		if b == opcode.CellSentinel {
			break
		}
		cells = append(cells, int(b))
	}

	return int(n), int(exc), cells, off + (len(code[off:]) - r.Len()), nil
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	v, err := varint.ReadUvarint(r)
	return v, err
}

// Decode walks the bytecode region starting at offset 0 (relative to
// the bytecode stream, i.e. immediately after the code-info block)
// and returns every instruction in order.
func Decode(bytecode []byte, opts Options) ([]Instr, error) {
	var (
		instrs []Instr
		off    int
	)
	for off < len(bytecode) {
		start := off
		op := opcode.Op(bytecode[off])
		off++

		operands, consumed, err := decodeOperand(op, bytecode[off:], off, opts)
		if err != nil {
			return nil, fmt.Errorf("decode: offset %d (%s): %w", start, op, err)
		}
		off += consumed

		instrs = append(instrs, Instr{Offset: start, Op: op, Operands: operands})
	}
	return instrs, nil
}

// decodeOperand returns the decoded immediates for op and how many
// bytes were consumed from buf (which begins right after the opcode
// byte, at absolute position absOff within the bytecode stream).
func decodeOperand(op opcode.Op, buf []byte, absOff int, opts Options) ([]int64, int, error) {
	switch {
	case isInRange(op, opcode.LoadFastMulti, opcode.FastMultiSlots),
		isInRange(op, opcode.StoreFastMulti, opcode.FastMultiSlots),
		isInRange(op, opcode.LoadConstSmallIntMulti, opcode.SmallIntHigh-opcode.SmallIntLow),
		isInRange(op, opcode.UnaryOpMulti, opcode.NumUnaryOps),
		isInRange(op, opcode.BinaryOpMulti, opcode.NumBinaryOps):
		return nil, 0, nil
	}

	switch op {
	case opcode.LoadConstFalse, opcode.LoadConstNone, opcode.LoadConstTrue, opcode.LoadNull,
		opcode.LoadSubscr, opcode.StoreSubscr, opcode.DupTop, opcode.DupTopTwo, opcode.PopTop,
		opcode.RotTwo, opcode.RotThree, opcode.WithCleanup, opcode.EndFinally, opcode.ForIterEnd,
		opcode.PopBlock, opcode.PopExcept, opcode.StartExceptHandler, opcode.EndExceptHandler,
		opcode.ListAppend, opcode.SetAdd, opcode.MapAdd, opcode.StoreMap,
		opcode.ReturnValue, opcode.YieldValue, opcode.YieldFrom:
		return nil, 0, nil

	case opcode.LoadConstEllipsis, opcode.LoadConstObj:
		n, v, err := decodeAlignedPointer(buf, absOff)
		return []int64{int64(v)}, n, err

	case opcode.LoadConstSmallInt:
		v, n, err := varint.DecodeVarint(buf)
		return []int64{v}, n, err

	case opcode.LoadConstString, opcode.LoadFast, opcode.StoreFast, opcode.DeleteFast,
		opcode.LoadDeref, opcode.StoreDeref, opcode.DeleteDeref,
		opcode.LoadName, opcode.StoreName, opcode.DeleteName,
		opcode.LoadGlobal, opcode.StoreGlobal, opcode.DeleteGlobal,
		opcode.LoadMethod, opcode.BuildTuple, opcode.BuildList, opcode.BuildSet,
		opcode.BuildMap, opcode.BuildSlice, opcode.UnpackSequence,
		opcode.CallFunction, opcode.CallFunctionVarKw,
		opcode.CallMethod, opcode.CallMethodVarKw:
		v, n, err := varint.DecodeUvarint(buf)
		if err != nil {
			return nil, 0, err
		}
		if needsCacheByte(op, opts) {
			n++
		}
		return []int64{int64(v)}, n, nil

	case opcode.LoadAttr, opcode.StoreAttr:
		v, n, err := varint.DecodeUvarint(buf)
		if err != nil {
			return nil, 0, err
		}
		if opts.CacheMapLookupInBytecode {
			n++
		}
		return []int64{int64(v)}, n, nil

	case opcode.Jump, opcode.PopJumpIfTrue, opcode.PopJumpIfFalse,
		opcode.JumpIfTrueOrPop, opcode.JumpIfFalseOrPop:
		return decode2ByteDisplacement(buf)

	case opcode.UnwindJump:
		ops, n, err := decode2ByteDisplacement(buf)
		if err != nil {
			return nil, 0, err
		}
		if len(buf) < n+1 {
			return nil, 0, fmt.Errorf("truncated UNWIND_JUMP descriptor byte")
		}
		desc := buf[n]
		ops = append(ops, int64(desc&0x7f), int64(desc>>7))
		return ops, n + 1, nil

	case opcode.SetupWith, opcode.SetupExcept, opcode.SetupFinally, opcode.ForIter:
		return decode2ByteDisplacement(buf)

	case opcode.UnpackEx:
		if len(buf) < 2 {
			return nil, 0, fmt.Errorf("truncated UNPACK_EX operand")
		}
		return []int64{int64(buf[0]), int64(buf[1])}, 2, nil

	case opcode.MakeFunction, opcode.MakeFunctionDefArgs:
		n, v, err := decodeAlignedPointer(buf, absOff)
		return []int64{int64(v)}, n, err

	case opcode.MakeClosure, opcode.MakeClosureDefArgs:
		n, v, err := decodeAlignedPointer(buf, absOff)
		if err != nil {
			return nil, 0, err
		}
		if len(buf) < n+1 {
			return nil, 0, fmt.Errorf("truncated closure cell count")
		}
		return []int64{int64(v), int64(buf[n])}, n + 1, nil

	case opcode.RaiseVarargs:
		if len(buf) < 1 {
			return nil, 0, fmt.Errorf("truncated RAISE_VARARGS operand")
		}
		return []int64{int64(buf[0])}, 1, nil

	default:
		return nil, 0, fmt.Errorf("unknown opcode byte %#x", byte(op))
	}
}

func needsCacheByte(op opcode.Op, opts Options) bool {
	if !opts.CacheMapLookupInBytecode {
		return false
	}
	return op == opcode.LoadName || op == opcode.LoadGlobal
}

func decode2ByteDisplacement(buf []byte) ([]int64, int, error) {
	if len(buf) < 2 {
		return nil, 0, fmt.Errorf("truncated jump displacement")
	}
	disp := uint16(buf[0]) | uint16(buf[1])<<8
	return []int64{int64(disp)}, 2, nil
}

// decodeAlignedPointer accounts for the zero padding AlignWord would
// have inserted before a word-aligned pointer field, given that the
// pointer's own opcode byte has already been consumed (so buf starts
// one byte after absOff-1, i.e. at absOff).
func decodeAlignedPointer(buf []byte, absOff int) (int, uint64, error) {
	pad := (codeobj.WordSize - absOff%codeobj.WordSize) % codeobj.WordSize
	if len(buf) < pad+codeobj.WordSize {
		return 0, 0, fmt.Errorf("truncated pointer field")
	}
	var v uint64
	for i := 0; i < codeobj.WordSize; i++ {
		v |= uint64(buf[pad+i]) << (8 * uint(i))
	}
	return pad + codeobj.WordSize, v, nil
}

func isInRange(op, base opcode.Op, n int) bool {
	return op >= base && int(op) < int(base)+n
}

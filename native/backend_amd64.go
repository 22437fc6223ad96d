// Package native demonstrates the "native code pointer" escape hatch
// spec.md §6.1 leaves for a pluggable alternative to the bytecode
// writer: anywhere a caller would otherwise drive emitter.Ops to
// produce bytecode for a hot function, it may instead hand a short,
// already-resolved instruction sequence to Backend and get back
// directly executable AMD64 machine code. This mirrors the teacher's
// optional native compiler tier (exec/internal/compile), which
// likewise recognizes a small, fixed subset of operations it knows
// how to turn into machine code and leaves everything else to the
// portable interpreter.
package native

import (
	"fmt"

	asm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/dyncompile/emitbc/opcode"
)

// Instruction is one already-resolved (no labels, no handle lookups)
// unit of work this backend can translate, paired with its immediate
// operand where one applies.
type Instruction struct {
	Op      opcode.Op
	Operand int64
}

// Supported reports whether op is one of the handful of instructions
// this backend knows how to compile; everything else must go through
// the portable bytecode path instead.
func Supported(op opcode.Op) bool {
	switch op {
	case opcode.LoadConstSmallInt,
		opcode.UnaryOpMulti + opcode.Op(opcode.UnaryNegative),
		opcode.BinaryOpMulti + opcode.Op(opcode.BinaryAdd),
		opcode.BinaryOpMulti + opcode.Op(opcode.BinarySubtract):
		return true
	default:
		return false
	}
}

// Backend is the native compiler for x86-64, translating a short run
// of integer arithmetic into machine code operating on a caller-
// supplied operand stack.
//
// Details of the calling convention, following backend_amd64.go's:
//   - R10 holds a pointer to the stack's slice header ({ptr, len, cap}).
//   - R13 holds the current stack size in slots (cached from the slice
//     header's length word and written back on every push/pop).
//   - AX/R9 are scratch registers used to stage operands for ALU ops.
type Backend struct{}

// Build assembles instrs into a single function body, returning the
// raw machine code. The result still needs to be copied into
// executable memory (see Executable) before it can be called.
func (b Backend) Build(instrs []Instruction) ([]byte, error) {
	builder, err := asm.NewBuilder("amd64", len(instrs)*8+1)
	if err != nil {
		return nil, fmt.Errorf("native: new builder: %w", err)
	}

	for i, inst := range instrs {
		switch inst.Op {
		case opcode.LoadConstSmallInt:
			b.emitPushConst(builder, inst.Operand)
		case opcode.UnaryOpMulti + opcode.Op(opcode.UnaryNegative):
			if err := b.emitUnaryNegate(builder); err != nil {
				return nil, fmt.Errorf("native: instr[%d]: %w", i, err)
			}
		case opcode.BinaryOpMulti + opcode.Op(opcode.BinaryAdd),
			opcode.BinaryOpMulti + opcode.Op(opcode.BinarySubtract):
			if err := b.emitBinary(builder, inst.Op); err != nil {
				return nil, fmt.Errorf("native: instr[%d]: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("native: amd64 backend cannot handle opcode %s", inst.Op)
		}
	}
	b.emitReturn(builder)

	return builder.Assemble(), nil
}

func (b Backend) emitStackLoad(builder *asm.Builder, reg int16) {
	// r13 = stack.len; r13--; stack.len = r13
	// r12 = stack.ptr; r12 = &r12[r13]; reg = *r12
	prog := builder.NewProg()
	prog.As = x86.AMOVQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R13
	prog.From.Type, prog.From.Reg, prog.From.Offset = obj.TYPE_MEM, x86.REG_R10, 8
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.ADECQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R13
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.AMOVQ
	prog.From.Type, prog.From.Reg = obj.TYPE_REG, x86.REG_R13
	prog.To.Type, prog.To.Reg, prog.To.Offset = obj.TYPE_MEM, x86.REG_R10, 8
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.AMOVQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R12
	prog.From.Type, prog.From.Reg = obj.TYPE_MEM, x86.REG_R10
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.ALEAQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R12
	prog.From.Type, prog.From.Reg, prog.From.Scale, prog.From.Index = obj.TYPE_MEM, x86.REG_R12, 8, x86.REG_R13
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.AMOVQ
	prog.From.Type, prog.From.Reg = obj.TYPE_MEM, x86.REG_R12
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, reg
	builder.AddInstruction(prog)
}

func (b Backend) emitStackPush(builder *asm.Builder, reg int16) {
	prog := builder.NewProg()
	prog.As = x86.AMOVQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R12
	prog.From.Type, prog.From.Reg = obj.TYPE_MEM, x86.REG_R10
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.AMOVQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R13
	prog.From.Type, prog.From.Reg, prog.From.Offset = obj.TYPE_MEM, x86.REG_R10, 8
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.ALEAQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R12
	prog.From.Type, prog.From.Reg, prog.From.Scale, prog.From.Index = obj.TYPE_MEM, x86.REG_R12, 8, x86.REG_R13
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.AMOVQ
	prog.To.Type, prog.To.Reg = obj.TYPE_MEM, x86.REG_R12
	prog.From.Type, prog.From.Reg = obj.TYPE_REG, reg
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.AINCQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_R13
	builder.AddInstruction(prog)

	prog = builder.NewProg()
	prog.As = x86.AMOVQ
	prog.From.Type, prog.From.Reg = obj.TYPE_REG, x86.REG_R13
	prog.To.Type, prog.To.Reg, prog.To.Offset = obj.TYPE_MEM, x86.REG_R10, 8
	builder.AddInstruction(prog)
}

func (b Backend) emitPushConst(builder *asm.Builder, c int64) {
	prog := builder.NewProg()
	prog.As = x86.AMOVQ
	prog.From.Type, prog.From.Offset = obj.TYPE_CONST, c
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_AX
	builder.AddInstruction(prog)
	b.emitStackPush(builder, x86.REG_AX)
}

func (b Backend) emitUnaryNegate(builder *asm.Builder) error {
	b.emitStackLoad(builder, x86.REG_AX)
	prog := builder.NewProg()
	prog.As = x86.ANEGQ
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_AX
	builder.AddInstruction(prog)
	b.emitStackPush(builder, x86.REG_AX)
	return nil
}

func (b Backend) emitBinary(builder *asm.Builder, op opcode.Op) error {
	b.emitStackLoad(builder, x86.REG_R9)
	b.emitStackLoad(builder, x86.REG_AX)

	prog := builder.NewProg()
	prog.From.Type, prog.From.Reg = obj.TYPE_REG, x86.REG_R9
	prog.To.Type, prog.To.Reg = obj.TYPE_REG, x86.REG_AX
	switch op {
	case opcode.BinaryOpMulti + opcode.Op(opcode.BinaryAdd):
		prog.As = x86.AADDQ
	case opcode.BinaryOpMulti + opcode.Op(opcode.BinarySubtract):
		prog.As = x86.ASUBQ
	default:
		return fmt.Errorf("cannot handle binary op %s", op)
	}
	builder.AddInstruction(prog)

	b.emitStackPush(builder, x86.REG_AX)
	return nil
}

func (b Backend) emitReturn(builder *asm.Builder) {
	ret := builder.NewProg()
	ret.As = obj.ARET
	builder.AddInstruction(ret)
}

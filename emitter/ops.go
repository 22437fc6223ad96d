package emitter

// Ops is the full set of operations a caller drives the emitter
// through across all three passes. *State implements it directly;
// the interface exists so that alternative back ends can be driven
// through the same call sequence (spec.md §6.1). native.Backend does
// not implement it; it compiles a resolved []native.Instruction.
type Ops interface {
	// Constants.
	LoadConstTok(tok ConstToken)
	LoadConstSmallInt(n int64)
	LoadConstStr(handle int)
	LoadConstObj(handle int)
	LoadNull()

	// Identifiers.
	LoadFast(n int)
	StoreFast(n int)
	DeleteFast(n int)
	LoadDeref(n int)
	StoreDeref(n int)
	DeleteDeref(n int)
	LoadName(handle int)
	StoreName(handle int)
	DeleteName(handle int)
	LoadGlobal(handle int)
	StoreGlobal(handle int)
	DeleteGlobal(handle int)

	// Attributes and subscripts.
	LoadAttr(handle int)
	LoadMethod(handle int)
	LoadSubscr()
	StoreAttr(handle int)
	StoreSubscr()
	DeleteAttr(handle int)
	DeleteSubscr()

	// Stack shuffling.
	DupTop()
	DupTopTwo()
	PopTop()
	RotTwo()
	RotThree()

	// Control flow.
	Jump(label int)
	PopJumpIfTrue(label int)
	PopJumpIfFalse(label int)
	JumpIfTrueOrPop(label int)
	JumpIfFalseOrPop(label int)
	UnwindJump(label int, excDepth int, breakFromFor bool)
	SetupWith(label int)
	WithCleanup()
	SetupExcept(label int)
	SetupFinally(label int)
	EndFinally()
	ForIter(label int)
	ForIterEnd()
	PopBlock()
	PopExcept()
	StartExceptHandler()
	EndExceptHandler()

	// Operators.
	UnaryOp(op int)
	BinaryOp(op int)
	BinaryNotIn()
	BinaryIsNot()

	// Builders.
	BuildTuple(nArgs int)
	BuildList(nArgs int)
	BuildSet(nArgs int)
	BuildMap(nArgs int)
	BuildSlice(nArgs int)
	ListAppend()
	SetAdd()
	MapAdd()
	StoreMap()
	UnpackSequence(nArgs int)
	UnpackEx(nLeft, nRight int)

	// Functions and closures.
	MakeFunction(rawCode uint64)
	MakeFunctionDefArgs(rawCode uint64)
	MakeClosure(rawCode uint64, nCells int)
	MakeClosureDefArgs(rawCode uint64, nCells int)

	// Calls.
	CallFunction(nPositional, nKeyword int)
	CallFunctionVar(nPositional, nKeyword int)
	CallFunctionKw(nPositional, nKeyword int)
	CallFunctionVarKw(nPositional, nKeyword int)
	CallMethod(nPositional, nKeyword int)
	CallMethodVar(nPositional, nKeyword int)
	CallMethodKw(nPositional, nKeyword int)
	CallMethodVarKw(nPositional, nKeyword int)

	// Flow control.
	ReturnValue()
	RaiseVarargs(nArgs int)
	YieldValue()
	YieldFrom()
	LastEmitWasReturnValue() bool

	// Bookkeeping shared by every pass.
	LabelAssign(l int)
	SetSourceLine(line int)
}

var _ Ops = (*State)(nil)

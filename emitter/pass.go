// Package emitter implements the multi-pass bytecode emitter
// described by spec.md: given a scope produced by an external
// analyzer and a stream of emit calls made by an external tree
// walker, it produces a single contiguous code object (prelude +
// code-info + bytecode).
//
// The package is organized the way the teacher's exec.VM is: a single
// stateful type (State, playing the role exec.VM plays for execution)
// with a handful of files grouping related concerns (pass.go is the
// analogue of exec.VM's lifecycle methods, stack.go/labels.go/
// source_line.go are analogues of disasm's and validate's bookkeeping,
// and the ops_*.go files are the analogue of wasm/operators' per-
// instruction table, one file per related group of opcodes).
package emitter

import (
	"fmt"
	"log"
	"os"

	"github.com/dyncompile/emitbc/codeobj"
	"github.com/dyncompile/emitbc/lntab"
	"github.com/dyncompile/emitbc/scope"
)

// logger is the package-wide debug logger, in the same style as
// disasm/validate/wasm's package-level loggers in the teacher repo.
// It is silent by default.
var logger = log.New(noopWriter{}, "emitbc/emitter: ", log.Lshortfile)

// SetDebugMode toggles verbose tracing of pass activity, mirroring
// the teacher's debug-logging convention.
func SetDebugMode(on bool) {
	if on {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(noopWriter{})
	}
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Pass identifies which of the three replay passes is in progress
// (spec.md §2).
type Pass int

const (
	// Scope walks the tree without emitting; operations are mostly
	// no-ops and no stack accounting happens.
	Scope Pass = iota
	// CodeSize replays the full emit sequence to measure the code-info
	// and bytecode sizes and to record label offsets.
	CodeSize
	// Emit replays once more, writing real bytes into the final
	// allocated buffer.
	Emit
)

func (p Pass) String() string {
	switch p {
	case Scope:
		return "SCOPE"
	case CodeSize:
		return "CODE_SIZE"
	case Emit:
		return "EMIT"
	default:
		return fmt.Sprintf("Pass(%d)", int(p))
	}
}

// Config carries the build-time options of spec.md §6.3 that change
// what bytes the emitter produces.
type Config struct {
	// CacheMapLookupInBytecode, when true, makes LOAD_NAME/LOAD_GLOBAL/
	// LOAD_ATTR/STORE_ATTR reserve one zero inline-cache byte after
	// their operand.
	CacheMapLookupInBytecode bool
	// EnableSourceLine, when false, suppresses the line-number table
	// entirely (not merely at high optimization levels).
	EnableSourceLine bool
	// SetBuiltinEnabled is recorded but not consulted: BuildSet and
	// SetAdd emit BUILD_SET/SET_ADD whatever its value.
	SetBuiltinEnabled bool
	// SliceBuiltinEnabled is recorded but not consulted: BuildSlice
	// emits BUILD_SLICE whatever its value.
	SliceBuiltinEnabled bool
	// OptimizationLevel, when >= 3, suppresses line tracking even if
	// EnableSourceLine is true (spec.md §4.3).
	OptimizationLevel int
}

// unresolvedLabel is the sentinel value stored in labelOffsets for a
// label that has not yet been declared in the current pass.
const unresolvedLabel = -1

// InternalError is panicked for every condition spec.md §7 classifies
// as a fatal assertion: caller-contract violations and inter-pass
// inconsistencies. It is typed, in the same spirit as the teacher's
// InvalidReturnTypeError/InvalidFunctionIndexError sentinel error
// types, so a compiler driver that wants to turn an internal panic
// into a diagnostic can recover and type-assert it.
type InternalError string

func (e InternalError) Error() string { return string(e) }

func fail(format string, args ...interface{}) {
	panic(InternalError(fmt.Sprintf(format, args...)))
}

// maxCells is the largest number of cell-promoted locals a function
// may declare; the prelude's cell-local-number list is a sequence of
// bytes terminated by the sentinel 0xFF (spec.md §4.1 item 6), so at
// most 255 cells are representable.
const maxCells = 255

// State is one emitter instance, driving a single function's
// compilation from SCOPE through EMIT (spec.md §5: not re-entrant,
// one instance per function).
type State struct {
	Config Config

	pass  Pass
	scope *scope.Scope

	stackSize           int
	lastEmitWasReturn   bool

	bytecode codeobj.Stream
	codeInfo codeobj.Stream

	bytecodeSize int
	codeInfoSize int

	codeBase []byte // nil until end of pass 2

	labelOffsets []int
	maxNumLabels int

	lineEncoder      *lntab.Encoder
	lastSourceLine   int

	glue Glue
}

// Glue is the external collaborator that registers a finalized code
// object with the owning scope (spec.md §1 "glue layer", out of
// scope for this module beyond the call it receives).
type Glue interface {
	Register(s *scope.Scope, code []byte)
}

// NopGlue discards the finalized buffer; useful for tests and for
// callers that only want to inspect codeobj output directly.
type NopGlue struct{}

func (NopGlue) Register(*scope.Scope, []byte) {}

// New creates an emitter bound to no glue layer in particular; set
// State.glue via WithGlue before driving it through its passes if the
// finalized buffer needs to reach a real owner.
func New(cfg Config, maxNumLabels int) *State {
	return &State{
		Config:       cfg,
		maxNumLabels: maxNumLabels,
		glue:         NopGlue{},
	}
}

// WithGlue installs the collaborator that receives the finalized
// buffer at the end of pass EMIT.
func (s *State) WithGlue(g Glue) *State {
	s.glue = g
	return s
}

// Pass returns the pass currently in progress.
func (s *State) Pass() Pass { return s.pass }

// StartPass resets all per-pass counters, (re-)clears the label table
// for passes before EMIT, and writes the prelude, whose size is
// measured in CODE_SIZE and whose contents are written for real in
// EMIT — the same code path runs in both passes (spec.md §4.1).
func (s *State) StartPass(pass Pass, sc *scope.Scope) {
	s.pass = pass
	s.scope = sc
	s.stackSize = 0
	s.lastEmitWasReturn = false
	s.bytecode = codeobj.Stream{}
	s.codeInfo = codeobj.Stream{}
	if pass == Emit {
		s.codeInfo.Attach(s.codeBase[:s.codeInfoSize])
		s.bytecode.Attach(s.codeBase[s.codeInfoSize:])
	}

	if pass < Emit {
		s.labelOffsets = make([]int, s.maxNumLabels)
		for i := range s.labelOffsets {
			s.labelOffsets[i] = unresolvedLabel
		}
	}

	s.lineEncoder = lntab.NewEncoder(0)
	s.lastSourceLine = 0

	s.writePrelude()
}

// EndPass finishes the current pass: SCOPE does nothing further; in
// CODE_SIZE the code-info stream is terminated, padded, and sized,
// and the final buffer is allocated; in EMIT the finalized buffer is
// handed to the glue layer (spec.md §4.1).
func (s *State) EndPass() error {
	if s.stackSize != 0 {
		logger.Printf("end of pass %s: stack_size = %d, want 0 (non-fatal, spec.md §7)", s.pass, s.stackSize)
	}

	if s.pass == Scope {
		return nil
	}

	// Terminate the line-number table.
	s.codeInfo.WriteByte(lntab.Terminator)

	if s.pass == CodeSize {
		s.codeInfo.AlignWord()
		s.codeInfoSize = s.codeInfo.Offset()
		s.bytecodeSize = s.bytecode.Offset()

		buf, err := codeobj.Allocate(s.codeInfoSize + s.bytecodeSize)
		if err != nil {
			return fmt.Errorf("emitter: allocating code object: %w", err)
		}
		s.codeBase = buf
		return nil
	}

	// EMIT
	if s.glue != nil {
		s.glue.Register(s.scope, s.codeBase)
	}
	return nil
}

// CodeObject returns the finalized buffer. It is only valid to call
// after EndPass has run for pass EMIT.
func (s *State) CodeObject() []byte { return s.codeBase }

// writePrelude emits the fixed-shape leading portion of the code
// object described in spec.md §4.1 / §6.2.
func (s *State) writePrelude() {
	ci := &s.codeInfo

	if s.pass == Emit {
		ci.WriteUvarintAt(0, uint64(s.codeInfoSize))
	} else {
		// Reserve the worst-case width so the real value (only known
		// at the end of CODE_SIZE) can be overwritten in place during
		// EMIT without shifting everything after it.
		ci.ReserveUvarintMax()
	}

	ci.WriteUvarint(uint64(s.scope.SimpleName))
	ci.WriteUvarint(uint64(s.scope.SourceFile))

	ci.AlignWord()
	for i := 0; i < s.scope.NumArgs(); i++ {
		ci.WritePointer(uint64(s.scope.ArgName(i)))
	}

	ci.WriteUvarint(uint64(s.scope.NState()))
	ci.WriteUvarint(uint64(s.scope.ExcStackSize))

	cells := s.scope.CellLocalNums()
	if len(cells) > maxCells {
		fail("emitter: %d cells declared, maximum is %d", len(cells), maxCells)
	}
	for _, n := range cells {
		ci.WriteByte(byte(n))
	}
	ci.WriteByte(0xFF) // cell-local-number sentinel, spec.md §4.1 item 6
}

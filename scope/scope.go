// Package scope holds the read-only (from the emitter's point of
// view) result of the analyzer pass that precedes bytecode emission:
// argument counts, the declared-identifier table, and closure
// information (spec.md §3 "Scope").
//
// The struct shape — plain exported fields filled in before emission
// begins, a couple of fields ("out" in spec.md's terminology) the
// emitter is allowed to write back — follows wasm.FunctionSig /
// wasm.Module in the teacher repository, which are likewise populated
// by an external reader and then treated as mostly-read-only state by
// the packages that consume them (exec, validate, disasm).
package scope

// Kind classifies how an identifier is stored (spec.md §3 "id_info").
type Kind int

const (
	// KindLocal is a plain stack-frame local slot.
	KindLocal Kind = iota
	// KindCell is a local promoted to a heap-allocated cell because an
	// inner function closes over it.
	KindCell
	// KindFree is a variable captured from an enclosing function's
	// cell.
	KindFree
	// KindGlobalExplicit is a name declared global via an explicit
	// directive in the source.
	KindGlobalExplicit
	// KindGlobalImplicit is a name resolved as global because it is
	// never assigned within the function.
	KindGlobalImplicit
)

// Flag bits on an IdInfo entry.
type Flag uint8

const (
	// IsParam marks an identifier as a positional or keyword-only
	// parameter; LocalNum then holds its argument slot index.
	IsParam Flag = 1 << iota
)

// IdInfo describes one identifier declared within the function scope.
type IdInfo struct {
	Name     int // interned string handle (spec.md "Interned strings as integer handles")
	Kind     Kind
	Flags    Flag
	LocalNum int // slot number for LOCAL/CELL/IsParam entries
}

func (i IdInfo) IsParam() bool { return i.Flags&IsParam != 0 }

// NameHandleWildcard is substituted for a parameter's name when no
// declared identifier matches its slot (spec.md §4.1 item 4, "else use
// the sentinel `*`"). It stands for the interned string "*", which by
// convention never collides with a real source identifier.
const NameHandleWildcard = -1

// Scope is the analyzer's output for a single function, consumed by
// package emitter. Fields marked "(out)" are written by the emitter
// during emission and read by the caller afterwards.
type Scope struct {
	SimpleName int // interned string handle
	SourceFile int // interned string handle

	NumPosArgs    int
	NumKwOnlyArgs int
	NumLocals     int
	ExcStackSize  int

	IdInfo []IdInfo

	// StackSize (out) is the high-water mark of the VM operand stack
	// reached while emitting this function; maintained by the stack
	// tracker (spec.md §4.5).
	StackSize int

	// ScopeFlags (out) records emitter-observed facts about the
	// function body, currently only whether it is a generator
	// (spec.md §4.6 "Flow": YIELD_VALUE/YIELD_FROM set this).
	ScopeFlags ScopeFlag

	// RawCode is an opaque handle registered with the glue layer once
	// emission finishes (spec.md §3 "Lifecycle").
	RawCode interface{}
}

// ScopeFlag bits written back into Scope.ScopeFlags by the emitter.
type ScopeFlag uint8

const (
	// IsGenerator is set the first time the emitter sees a YIELD_VALUE
	// or YIELD_FROM operation.
	IsGenerator ScopeFlag = 1 << iota
)

// NumArgs is the total number of positional plus keyword-only
// arguments — the width of the prelude's argument-name table
// (spec.md §4.1 item 4).
func (s *Scope) NumArgs() int {
	return s.NumPosArgs + s.NumKwOnlyArgs
}

// ArgName returns the interned name handle for positional/keyword-only
// argument slot i, scanning IdInfo for the matching IsParam entry, or
// NameHandleWildcard if no declaration was found for that slot
// (spec.md §4.1 item 4).
func (s *Scope) ArgName(i int) int {
	for _, id := range s.IdInfo {
		if id.IsParam() && id.LocalNum == i {
			return id.Name
		}
	}
	return NameHandleWildcard
}

// CellLocalNums returns, in IdInfo order, the local slot numbers of
// every identifier of kind KindCell — the locals promoted to heap
// cells at function entry (spec.md §4.1 item 6).
func (s *Scope) CellLocalNums() []int {
	var nums []int
	for _, id := range s.IdInfo {
		if id.Kind == KindCell {
			nums = append(nums, id.LocalNum)
		}
	}
	return nums
}

// NState is the total local-state size the VM must allocate: every
// declared local slot plus the maximum operand-stack depth reached,
// or 1 if that would be zero (the VM needs one slot to thread
// exceptions) (spec.md §4.1 item 5).
func (s *Scope) NState() int {
	n := s.NumLocals + s.StackSize
	if n == 0 {
		return 1
	}
	return n
}

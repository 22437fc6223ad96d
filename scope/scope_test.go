package scope_test

import (
	"reflect"
	"testing"

	"github.com/dyncompile/emitbc/scope"
)

func TestNumArgs(t *testing.T) {
	s := &scope.Scope{NumPosArgs: 2, NumKwOnlyArgs: 1}
	if got := s.NumArgs(); got != 3 {
		t.Errorf("NumArgs() = %d, want 3", got)
	}
}

func TestArgNameFindsDeclaredParam(t *testing.T) {
	s := &scope.Scope{
		IdInfo: []scope.IdInfo{
			{Name: 42, Kind: scope.KindLocal, Flags: scope.IsParam, LocalNum: 1},
		},
	}
	if got := s.ArgName(1); got != 42 {
		t.Errorf("ArgName(1) = %d, want 42", got)
	}
}

func TestArgNameFallsBackToWildcard(t *testing.T) {
	s := &scope.Scope{}
	if got := s.ArgName(0); got != scope.NameHandleWildcard {
		t.Errorf("ArgName(0) = %d, want NameHandleWildcard", got)
	}
}

func TestCellLocalNums(t *testing.T) {
	s := &scope.Scope{
		IdInfo: []scope.IdInfo{
			{Kind: scope.KindLocal, LocalNum: 0},
			{Kind: scope.KindCell, LocalNum: 1},
			{Kind: scope.KindFree, LocalNum: 2},
			{Kind: scope.KindCell, LocalNum: 3},
		},
	}
	got := s.CellLocalNums()
	want := []int{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CellLocalNums() = %v, want %v", got, want)
	}
}

func TestNStateReservesOneSlotWhenEmpty(t *testing.T) {
	s := &scope.Scope{}
	if got := s.NState(); got != 1 {
		t.Errorf("NState() = %d, want 1", got)
	}
}

func TestNStateSumsLocalsAndStackSize(t *testing.T) {
	s := &scope.Scope{NumLocals: 3, StackSize: 2}
	if got := s.NState(); got != 5 {
		t.Errorf("NState() = %d, want 5", got)
	}
}

func TestIsParam(t *testing.T) {
	p := scope.IdInfo{Flags: scope.IsParam}
	if !p.IsParam() {
		t.Error("IsParam() = false, want true")
	}
	nonParam := scope.IdInfo{}
	if nonParam.IsParam() {
		t.Error("IsParam() = true, want false")
	}
}

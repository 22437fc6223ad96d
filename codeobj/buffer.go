package codeobj

import (
	"fmt"

	"github.com/edsrzf/mmap-go"
)

// Allocate returns a zero-initialized, page- (and therefore word-)
// aligned buffer of exactly size bytes, backed by an anonymous
// read/write mapping. This stands in for the "scanning allocator"
// spec.md §1 assumes: real callers would hand the result to a GC-
// integrated arena instead, but the alignment and zero-initialization
// guarantees are the same ones spec.md §3 requires of code_base.
//
// size may be zero (spec.md S1, the empty function): mmap-go refuses
// to map zero bytes, so that case returns an empty, non-nil slice
// without touching the OS.
func Allocate(size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("codeobj: mmap %d bytes: %w", size, err)
	}
	return []byte(m)[:size], nil
}

package native

import (
	"fmt"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// Executable is a block of machine code mapped read/write/execute, mirroring
// the teacher's asmBlock (exec/internal/compile/native_exec.go): a
// thin wrapper around an mmap'd page that exposes the underlying
// pointer for a trampoline to jump into.
type Executable struct {
	region mmap.MMap
}

// Load copies code into a fresh page-aligned, executable mapping.
// Real callers would additionally pool and reuse these mappings
// (spec.md's RawCode handle eventually refers to one via the glue
// layer). The mapping is read/write/execute from the start; there is
// no separate step that changes its protection.
func Load(code []byte) (*Executable, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("native: cannot load empty code")
	}
	region, err := mmap.MapRegion(nil, len(code), mmap.RDWR|mmap.EXEC, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("native: mmap %d bytes: %w", len(code), err)
	}
	copy(region, code)
	if err := region.Flush(); err != nil {
		return nil, fmt.Errorf("native: flush before execution: %w", err)
	}
	return &Executable{region: region}, nil
}

// Pointer returns the address of the first instruction, for a
// trampoline to call through.
func (e *Executable) Pointer() unsafe.Pointer {
	return unsafe.Pointer(&e.region[0])
}

// Close releases the underlying mapping.
func (e *Executable) Close() error {
	return e.region.Unmap()
}

// Package codeobj assembles the final contiguous code object buffer
// described by spec.md §3/§6.2: a code-info block immediately
// followed (after padding to a machine-word boundary) by the
// bytecode stream. It owns the "two destination streams, each with a
// word-aligned current-offset counter" abstraction of spec.md §4 and
// the allocation of the buffer itself.
//
// The word-aligned, scanning-allocator-friendly allocation spec.md §1
// assumes is provided here via github.com/edsrzf/mmap-go, the same
// dependency the teacher repository requires for its native JIT
// back-end (see package native) to obtain pages it can later mark
// executable; we reuse it here to obtain an actually page-aligned
// (and therefore word-aligned) buffer rather than relying on the Go
// allocator's unspecified alignment guarantees for byte slices.
package codeobj

import (
	"fmt"

	"github.com/dyncompile/emitbc/varint"
)

// WordSize is the machine word size pointer-sized fields are aligned
// to (spec.md §3 "pointer-sized fields... written at word-aligned
// offsets").
const WordSize = 8

// Stream is one of the emitter's two destination byte streams
// (code-info or bytecode). In passes before EMIT, buf is nil and
// every Write* method only advances the offset counter — measuring,
// never writing, exactly as spec.md §4's "byte writers" describe. In
// pass EMIT, buf is a slice of the allocated code object and every
// Write* method actually stores bytes.
type Stream struct {
	buf    []byte
	offset int
}

// Attach points the stream at the region of the final buffer it owns,
// used only when entering pass EMIT.
func (s *Stream) Attach(buf []byte) {
	s.buf = buf
	s.offset = 0
}

// Offset returns the stream's current byte offset.
func (s *Stream) Offset() int { return s.offset }

// WriteByte appends a single byte.
func (s *Stream) WriteByte(b byte) {
	if s.buf != nil {
		s.buf[s.offset] = b
	}
	s.offset++
}

// WriteBytes appends p verbatim.
func (s *Stream) WriteBytes(p []byte) {
	if s.buf != nil {
		copy(s.buf[s.offset:], p)
	}
	s.offset += len(p)
}

// WriteUvarint appends the unsigned varint encoding of v.
func (s *Stream) WriteUvarint(v uint64) {
	if s.buf != nil {
		s.WriteBytes(varint.AppendUvarint(nil, v))
		return
	}
	s.offset += varint.Size(v)
}

// WriteVarint appends the signed varint encoding of v.
func (s *Stream) WriteVarint(v int64) {
	if s.buf != nil {
		s.WriteBytes(varint.AppendVarint(nil, v))
		return
	}
	s.offset += varint.SizeSigned(v)
}

// ReserveUvarintMax advances the stream by the worst-case width of an
// unsigned varint (spec.md §4.1 item 1: "placeholder in pass 2,
// written with the largest possible value to reserve room"). It must
// never be called on an attached (EMIT-pass) stream: the real value
// is written in place with WriteUvarintAt instead.
func (s *Stream) ReserveUvarintMax() {
	if s.buf != nil {
		fail("codeobj: ReserveUvarintMax called on an attached (EMIT-pass) stream")
	}
	s.offset += varint.MaxUvarintLen64
}

// WriteUvarintAt overwrites the MaxUvarintLen64-byte field previously
// reserved by ReserveUvarintMax at byte offset off with the real
// value of v, padded to exactly that width, and advances the cursor
// past it. Only valid on an attached (EMIT-pass) stream.
func (s *Stream) WriteUvarintAt(off int, v uint64) {
	if s.buf == nil {
		fail("codeobj: WriteUvarintAt called on an unattached stream")
	}
	copy(s.buf[off:off+varint.MaxUvarintLen64], varint.FixedUvarint(v, varint.MaxUvarintLen64))
	s.offset = off + varint.MaxUvarintLen64
}

// AlignWord pads the stream with zero bytes until its offset is a
// multiple of WordSize.
func (s *Stream) AlignWord() {
	pad := (WordSize - s.offset%WordSize) % WordSize
	for i := 0; i < pad; i++ {
		s.WriteByte(0)
	}
}

// WritePointer writes v as a full WordSize-byte little-endian value
// at the current (assumed word-aligned) offset — the representation
// used for object references embedded in bytecode (spec.md §3, §6.2
// "arg-name table") so a scanning memory manager can identify them.
func (s *Stream) WritePointer(v uint64) {
	if s.offset%WordSize != 0 {
		fail("codeobj: WritePointer at unaligned offset %d", s.offset)
	}
	var buf [WordSize]byte
	for i := range buf {
		buf[i] = byte(v >> (8 * uint(i)))
	}
	s.WriteBytes(buf[:])
}

func fail(format string, args ...interface{}) {
	panic(internalError(fmt.Sprintf(format, args...)))
}

type internalError string

func (e internalError) Error() string { return string(e) }

package codeobj_test

import (
	"testing"

	"github.com/dyncompile/emitbc/codeobj"
	"github.com/dyncompile/emitbc/varint"
)

func TestUnattachedStreamOnlyMeasures(t *testing.T) {
	var s codeobj.Stream
	s.WriteByte(1)
	s.WriteBytes([]byte{2, 3, 4})
	s.WriteUvarint(300)
	if got, want := s.Offset(), 1+3+varint.Size(300); got != want {
		t.Errorf("Offset() = %d, want %d", got, want)
	}
}

func TestAttachedStreamWritesBytes(t *testing.T) {
	buf := make([]byte, 8)
	var s codeobj.Stream
	s.Attach(buf)
	s.WriteByte(0xAB)
	s.WriteBytes([]byte{1, 2, 3})
	if buf[0] != 0xAB || buf[1] != 1 || buf[2] != 2 || buf[3] != 3 {
		t.Errorf("buf = %v, want [0xAB 1 2 3 ...]", buf)
	}
	if s.Offset() != 4 {
		t.Errorf("Offset() = %d, want 4", s.Offset())
	}
}

func TestAlignWordPadsToWordBoundary(t *testing.T) {
	buf := make([]byte, 32)
	var s codeobj.Stream
	s.Attach(buf)
	s.WriteByte(1)
	s.AlignWord()
	if s.Offset()%codeobj.WordSize != 0 {
		t.Errorf("Offset() = %d, not word-aligned", s.Offset())
	}
	if s.Offset() != codeobj.WordSize {
		t.Errorf("Offset() = %d, want %d", s.Offset(), codeobj.WordSize)
	}
}

func TestWritePointerRoundTrips(t *testing.T) {
	buf := make([]byte, 16)
	var s codeobj.Stream
	s.Attach(buf)
	s.WritePointer(0x0102030405060708)

	var got uint64
	for i := 0; i < codeobj.WordSize; i++ {
		got |= uint64(buf[i]) << (8 * uint(i))
	}
	if got != 0x0102030405060708 {
		t.Errorf("round-tripped pointer = %#x, want %#x", got, uint64(0x0102030405060708))
	}
}

func TestWritePointerPanicsWhenUnaligned(t *testing.T) {
	buf := make([]byte, 16)
	var s codeobj.Stream
	s.Attach(buf)
	s.WriteByte(1)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic for unaligned WritePointer")
		}
	}()
	s.WritePointer(1)
}

func TestReserveThenWriteUvarintAtRoundTrips(t *testing.T) {
	buf := make([]byte, varint.MaxUvarintLen64+4)

	var measure codeobj.Stream
	measure.ReserveUvarintMax()
	reserved := measure.Offset()

	var s codeobj.Stream
	s.Attach(buf)
	s.WriteUvarintAt(0, 12345)
	if s.Offset() != reserved {
		t.Errorf("Offset() after WriteUvarintAt = %d, want %d", s.Offset(), reserved)
	}

	got, n, err := varint.DecodeUvarint(buf)
	if err != nil {
		t.Fatalf("DecodeUvarint: %v", err)
	}
	if got != 12345 {
		t.Errorf("decoded value = %d, want 12345", got)
	}
	if n != varint.MaxUvarintLen64 {
		t.Errorf("consumed %d bytes, want %d (fixed width)", n, varint.MaxUvarintLen64)
	}
}

func TestReserveUvarintMaxPanicsWhenAttached(t *testing.T) {
	buf := make([]byte, varint.MaxUvarintLen64)
	var s codeobj.Stream
	s.Attach(buf)

	defer func() {
		if recover() == nil {
			t.Error("expected a panic calling ReserveUvarintMax on an attached stream")
		}
	}()
	s.ReserveUvarintMax()
}

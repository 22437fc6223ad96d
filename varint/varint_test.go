package varint

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 8, 127, 128, 16256, 2141192192, 1 << 40, ^uint64(0)}
	for _, v := range cases {
		t.Run(fmt.Sprint(v), func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := WriteUvarint(&buf, v); err != nil {
				t.Fatal(err)
			}
			got, err := ReadUvarint(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			if got != v {
				t.Fatalf("got=%d want=%d (wire=%x)", got, v, buf.Bytes())
			}
		})
	}
}

func TestUvarintSingleByteBelow128(t *testing.T) {
	for v := uint64(0); v < 128; v++ {
		buf := encodeUnsignedGroups(v)
		if len(buf) != 1 {
			t.Fatalf("value %d: expected single byte, got %d", v, len(buf))
		}
		if buf[0]&0x80 != 0 {
			t.Fatalf("value %d: high bit set on single byte encoding", v)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 63, -64, 100, -129, 8192, -8192, 2147483647, -2147483648, 1 << 40, -(1 << 40)}
	for _, v := range cases {
		t.Run(fmt.Sprint(v), func(t *testing.T) {
			var buf bytes.Buffer
			if _, err := WriteVarint(&buf, v); err != nil {
				t.Fatal(err)
			}
			got, err := ReadVarint(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			if got != v {
				t.Fatalf("got=%d want=%d (wire=%x)", got, v, buf.Bytes())
			}
		})
	}
}

func TestVarintLeadingByteSignAgreement(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 5000, -5000} {
		buf := encodeSignedGroups(v)
		lead := buf[0]&^0x80 != 0
		leadSign := buf[0]&0x40 != 0
		_ = lead
		if (v < 0) != leadSign {
			t.Fatalf("value %d: leading byte 0x40 bit = %v, want %v", v, leadSign, v < 0)
		}
	}
}

// TestReadWriteRandomUint exercises random 64-bit values the way
// wasm/leb128's TestReadWriteInt64 exercises LEB128: round-trip a
// large number of pseudo-random values and make sure the minimal
// encoding's length stays within the theoretical bound.
func TestReadWriteRandomUint(t *testing.T) {
	buf := make([]byte, 8)
	for i := 0; i < 10000; i++ {
		if _, err := rand.Read(buf); err != nil {
			t.Fatal(err)
		}
		v := binary.BigEndian.Uint64(buf)

		var out bytes.Buffer
		if _, err := WriteUvarint(&out, v); err != nil {
			t.Fatal(err)
		}
		if out.Len() > MaxUvarintLen64 {
			t.Fatalf("value %d encoded in %d bytes, want <= %d", v, out.Len(), MaxUvarintLen64)
		}
		got, err := ReadUvarint(bytes.NewReader(out.Bytes()))
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("got=%d want=%d", got, v)
		}
	}
}

func TestReadWriteRandomInt(t *testing.T) {
	max := new(big.Int).Lsh(big.NewInt(1), 63)
	for i := 0; i < 10000; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			t.Fatal(err)
		}
		v := n.Int64()
		if i%2 == 0 {
			v = -v
		}

		var out bytes.Buffer
		if _, err := WriteVarint(&out, v); err != nil {
			t.Fatal(err)
		}
		got, err := ReadVarint(bytes.NewReader(out.Bytes()))
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Fatalf("got=%d want=%d", got, v)
		}
	}
}

func TestDecodeConsumedLength(t *testing.T) {
	v, n, err := DecodeUvarint(append(AppendUvarint(nil, 16256), 0xAA, 0xBB))
	if err != nil {
		t.Fatal(err)
	}
	if v != 16256 || n != 2 {
		t.Fatalf("got v=%d n=%d, want v=16256 n=2", v, n)
	}
}

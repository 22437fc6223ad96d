// Package varint implements the 7-bit-per-byte, big-endian,
// continuation-bit variable length integer encoding used throughout
// the bytecode wire format (spec.md §4.2).
//
// This is deliberately not LEB128 (as wasm/leb128 in the teacher
// repository implements): LEB128 groups are little-endian (the least
// significant 7 bits come first) with the continuation bit on every
// byte but the last. Our encoding instead builds the value's 7-bit
// groups least-significant-first in a scratch buffer (exactly like
// LEB128 does internally) and then emits the groups in reverse, so
// the most-significant group is written first on the wire; the
// continuation-bit convention is otherwise identical: every byte
// except the last (here, the last *emitted*, i.e. the least
// significant group) has its high bit set. The package shape
// (Read*/Write* pairs operating on io.ByteReader/io.Writer, a dedicated
// signed variant) follows wasm/leb128.
package varint

import (
	"bytes"
	"io"
)

// toWire reverses a least-significant-group-first byte slice into the
// big-endian wire order and sets the continuation bit on every byte
// but the last.
func toWire(lsbFirst []byte) []byte {
	out := make([]byte, len(lsbFirst))
	last := len(lsbFirst) - 1
	for i, g := range lsbFirst {
		pos := last - i
		if pos != last {
			g |= 0x80
		} else {
			g &^= 0x80
		}
		out[pos] = g
	}
	return out
}

// encodeUnsignedGroups builds the LSB-first 7-bit groups of v, one
// group per iteration, stopping once the remaining value is zero.
func encodeUnsignedGroups(v uint64) []byte {
	var groups []byte
	for {
		groups = append(groups, byte(v&0x7f))
		v >>= 7
		if v == 0 {
			break
		}
	}
	return toWire(groups)
}

// encodeSignedGroups builds the LSB-first 7-bit groups of v using an
// arithmetic (sign-propagating) shift, stopping as soon as the
// remaining bits are redundant sign-extension of the last group's bit
// 0x40 — the standard signed-LEB termination condition — then
// reorders them to the big-endian wire form.
func encodeSignedGroups(v int64) []byte {
	var groups []byte
	for {
		g := byte(v & 0x7f)
		v >>= 7
		signBit := g&0x40 != 0
		if (v == 0 && !signBit) || (v == -1 && signBit) {
			groups = append(groups, g)
			break
		}
		groups = append(groups, g)
	}
	return toWire(groups)
}

// WriteUvarint encodes v as an unsigned varint and writes it to w.
// Values less than 128 encode as a single byte with the high bit
// clear.
func WriteUvarint(w io.Writer, v uint64) (int, error) {
	return w.Write(encodeUnsignedGroups(v))
}

// ReadUvarint reads an unsigned varint from r.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var result uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result = (result << 7) | uint64(b&0x7f)
		if b&0x80 == 0 {
			return result, nil
		}
	}
}

// WriteVarint encodes the signed value v, sign-extending the leading
// (first-written) byte's bit 0x40 to agree with v's sign as described
// in spec.md §4.2.
func WriteVarint(w io.Writer, v int64) (int, error) {
	return w.Write(encodeSignedGroups(v))
}

// ReadVarint reads a signed varint encoded by WriteVarint, sign
// extending the accumulated value from bit 0x40 of the first byte
// read.
func ReadVarint(r io.ByteReader) (int64, error) {
	var (
		result uint64
		nbits  uint
		neg    bool
		first  = true
	)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if first {
			neg = b&0x40 != 0
			first = false
		}
		result = (result << 7) | uint64(b&0x7f)
		nbits += 7
		if b&0x80 == 0 {
			break
		}
	}
	if neg {
		result |= ^uint64(0) << nbits
	}
	return int64(result), nil
}

// Size returns the number of bytes WriteUvarint would emit for v.
func Size(v uint64) int {
	return len(encodeUnsignedGroups(v))
}

// SizeSigned returns the number of bytes WriteVarint would emit for v.
func SizeSigned(v int64) int {
	return len(encodeSignedGroups(v))
}

// MaxUvarintLen64 is the worst-case byte length of an encoded 64-bit
// unsigned varint under this encoding (ceil(64/7) = 10 groups). The
// pass controller uses this to reserve room for the code-info-size
// field before its real value is known (spec.md §4.1).
const MaxUvarintLen64 = 10

// AppendUvarint appends the encoding of v to dst and returns the
// extended slice.
func AppendUvarint(dst []byte, v uint64) []byte {
	return append(dst, encodeUnsignedGroups(v)...)
}

// AppendVarint appends the signed encoding of v to dst.
func AppendVarint(dst []byte, v int64) []byte {
	return append(dst, encodeSignedGroups(v)...)
}

// DecodeUvarint decodes an unsigned varint from the front of buf and
// returns the value and the number of bytes consumed.
func DecodeUvarint(buf []byte) (uint64, int, error) {
	r := bytes.NewReader(buf)
	v, err := ReadUvarint(r)
	if err != nil {
		return 0, 0, err
	}
	return v, len(buf) - r.Len(), nil
}

// DecodeVarint decodes a signed varint from the front of buf and
// returns the value and the number of bytes consumed.
func DecodeVarint(buf []byte) (int64, int, error) {
	r := bytes.NewReader(buf)
	v, err := ReadVarint(r)
	if err != nil {
		return 0, 0, err
	}
	return v, len(buf) - r.Len(), nil
}

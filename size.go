package bytevec

import (
	"encoding/binary"
	"math"
)

// SizeType is the set of unsigned integer widths that can serve as the
// size representation of an encode/decode call. The chosen type is used
// for the count field and every length prefix in the buffer.
type SizeType interface {
	uint8 | uint16 | uint32 | uint64
}

// Width is the size representation as a runtime value: the number of
// bytes each count and length-prefix field occupies on the wire. It is
// carried through the non-generic codec internals so the composite
// codecs are written once rather than per width.
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// Bytes returns the encoded width of one size field.
func (w Width) Bytes() int {
	return int(w)
}

// Max returns the largest value representable in the width.
func (w Width) Max() uint64 {
	if w == Width64 {
		return math.MaxUint64
	}
	return 1<<(8*uint(w)) - 1
}

// Valid reports whether w is one of the four supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

func (w Width) String() string {
	switch w {
	case Width8:
		return "u8"
	case Width16:
		return "u16"
	case Width32:
		return "u32"
	case Width64:
		return "u64"
	}
	return "invalid"
}

// add returns a+b if the sum is representable in the width. The second
// result is false on native uint64 wraparound or when the sum exceeds
// the width maximum.
func (w Width) add(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a || sum > w.Max() {
		return 0, false
	}
	return sum, true
}

// appendField appends v as one big-endian size field.
func (w Width) appendField(dst []byte, v uint64) []byte {
	switch w {
	case Width8:
		return append(dst, byte(v))
	case Width16:
		return binary.BigEndian.AppendUint16(dst, uint16(v))
	case Width32:
		return binary.BigEndian.AppendUint32(dst, uint32(v))
	default:
		return binary.BigEndian.AppendUint64(dst, v)
	}
}

// field reads one big-endian size field from the front of src.
// The caller guarantees len(src) >= w.Bytes().
func (w Width) field(src []byte) uint64 {
	switch w {
	case Width8:
		return uint64(src[0])
	case Width16:
		return uint64(binary.BigEndian.Uint16(src))
	case Width32:
		return uint64(binary.BigEndian.Uint32(src))
	default:
		return binary.BigEndian.Uint64(src)
	}
}

// widthOf maps a SizeType type argument to its Width value.
func widthOf[S SizeType]() Width {
	var s S
	switch any(s).(type) {
	case uint8:
		return Width8
	case uint16:
		return Width16
	case uint32:
		return Width32
	default:
		return Width64
	}
}

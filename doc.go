// Package bytevec serializes typed Go values to byte buffers and back
// without an external schema.
//
// Values are decomposed recursively into primitive fields; composites
// frame their parts with fixed-width length prefixes whose width — the
// size representation — is chosen by the caller per call:
//
//	┌──────────────────────────────────────────────────────┐
//	│ Go Value ←→ [Encoder / Decoder] ←→ []byte            │
//	└──────────────────────────────────────────────────────┘
//
// # Wire Format
//
// All multi-byte fields are big-endian. Size is the caller-chosen
// width (1, 2, 4 or 8 bytes); it is not recorded in the stream, so
// encode and decode must agree on it out of band.
//
//	Type            Layout
//	──────────────────────────────────────────────────────
//	bool            1 byte (0 or 1)
//	uint8..uint64   fixed width, big-endian
//	int8..int64     fixed width, big-endian (two's complement)
//	int/uint        platform word width (non-portable)
//	float32/64      IEEE 754 bit pattern, big-endian
//	string          raw UTF-8 bytes, no prefix
//	slice, set, map count:Size | len_1..len_N:Size | body_1..body_N
//	array, struct   len_1..len_N:Size | body_1..body_N
//
// Structs use their exported fields in declaration order; map elements
// are (key, value) pairs in the two-field layout; map[T]struct{} is
// treated as a set whose elements are the members themselves.
//
// Every length block precedes every body (the two-block layout), so a
// decoder validates the complete structure of a composite before it
// interprets a single body byte.
//
// # Key Types
//
//	Encoder    - serializes values at a fixed size width
//	Decoder    - reconstructs values, validating every length
//	Compiler   - pre-compiles per-type plans, shared and cached
//	Width      - the size representation as a runtime value
//
// # Quick Start
//
//	type Point struct {
//	    X, Y uint32
//	}
//
//	buf, err := bytevec.Encode[uint16](Point{3, 4})
//	...
//	var p Point
//	err = bytevec.Decode[uint16](buf, &p)
//
// The type parameter selects the size representation: uint8 keeps the
// framing overhead at one byte per field, uint64 admits huge payloads.
// A buffer encoded with one width does not decode under another.
//
// # Size Limits
//
// Encoding checks every size accumulation against the width maximum
// and fails with an overflow error rather than truncating. For
// untrusted input, Decoder.DecodeMax rejects buffers over a caller
// bound before any parsing work.
//
// # Hand-Written Codecs
//
// Types implementing Encodable (value receiver) and Decodable (pointer
// receiver) bypass reflection; generators can emit these against the
// layout contract above.
//
// # Thread Safety
//
// Compiler, Encoder and Decoder are safe for concurrent use. Every
// call is a pure function of its inputs; plans are immutable once
// compiled.
//
// # Error Handling
//
// Failures use the structured types from the errors package:
//
//	[decode] bad_size at profile.name: expected exactly 7 bytes, got 3
//	[encode] overflow at items: encoded size exceeds u8 maximum (255)
package bytevec

package bytevec

// Encodable is the hand-written encode capability. A record type that
// implements it (value receiver) bypasses the reflection codec; the
// implementation must follow the two-block layout contract so buffers
// stay interchangeable with reflected encoding.
type Encodable interface {
	// EncodedSize returns the serialized byte length under w, or
	// ok=false when the length cannot be represented in w.
	EncodedSize(w Width) (size uint64, ok bool)
	// Encode returns the serialized bytes. It is only defined when
	// EncodedSize reports ok.
	Encode(w Width) ([]byte, error)
}

// Decodable is the hand-written decode capability, implemented on the
// pointer type.
type Decodable interface {
	Decode(w Width, data []byte) error
}

// defaultCompiler backs the package-level functions so every call site
// shares one plan cache.
var defaultCompiler = NewCompiler()

// Encode serializes v with S as the size representation for every
// count and length-prefix field. The same S must be used to decode the
// result; the buffer carries no record of the choice.
func Encode[S SizeType](v any) ([]byte, error) {
	return NewEncoderWithCompiler(widthOf[S](), defaultCompiler).Encode(v)
}

// EncodedSize returns the byte length Encode[S] would produce for v,
// or an overflow error when that length exceeds the maximum of S.
func EncodedSize[S SizeType](v any) (S, error) {
	n, err := NewEncoderWithCompiler(widthOf[S](), defaultCompiler).EncodedSize(v)
	return S(n), err
}

// Decode reconstructs a value encoded with Encode[S] into v, which
// must be a non-nil pointer to the destination type.
func Decode[S SizeType](data []byte, v any) error {
	return NewDecoderWithCompiler(widthOf[S](), defaultCompiler).Decode(data, v)
}

// DecodeMax is Decode with an upper bound on the input length, checked
// before any parsing work.
func DecodeMax[S SizeType](data []byte, limit int, v any) error {
	return NewDecoderWithCompiler(widthOf[S](), defaultCompiler).DecodeMax(data, limit, v)
}

// DecodePrefix decodes a buffer holding only the first `fields` fields
// of the destination struct; the rest keep their zero value.
func DecodePrefix[S SizeType](data []byte, v any, fields int) error {
	return NewDecoderWithCompiler(widthOf[S](), defaultCompiler).DecodePrefix(data, v, fields)
}

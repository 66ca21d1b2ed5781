package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // type plan construction
	PhaseEncode  Phase = "encode"  // value to bytes
	PhaseDecode  Phase = "decode"  // bytes to value
)

// Kind categorizes the error
type Kind string

const (
	KindBadSize     Kind = "bad_size"
	KindOverflow    Kind = "overflow"
	KindInvalidUTF8 Kind = "invalid_utf8"

	KindTypeMismatch Kind = "type_mismatch"
	KindUnsupported  Kind = "unsupported"
	KindNilPointer   Kind = "nil_pointer"
	KindInvalidData  Kind = "invalid_data"
)

// Bound is the comparison a decoder applied to the input length.
type Bound uint8

const (
	BoundLessOrEqual Bound = iota
	BoundMoreThan
	BoundEqualTo
)

// ExpectedSize describes the input length a decoder required.
type ExpectedSize struct {
	N     uint64
	Bound Bound
}

// LessOrEqualThan expects an input of at most n bytes.
func LessOrEqualThan(n uint64) ExpectedSize {
	return ExpectedSize{N: n, Bound: BoundLessOrEqual}
}

// MoreThan expects an input of more than n bytes.
func MoreThan(n uint64) ExpectedSize {
	return ExpectedSize{N: n, Bound: BoundMoreThan}
}

// EqualTo expects an input of exactly n bytes.
func EqualTo(n uint64) ExpectedSize {
	return ExpectedSize{N: n, Bound: BoundEqualTo}
}

func (e ExpectedSize) String() string {
	switch e.Bound {
	case BoundLessOrEqual:
		return "at most " + strconv.FormatUint(e.N, 10)
	case BoundMoreThan:
		return "more than " + strconv.FormatUint(e.N, 10)
	default:
		return "exactly " + strconv.FormatUint(e.N, 10)
	}
}

// Error is the structured error type used throughout the codec
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	Detail   string
	Path     []string
	Expected *ExpectedSize
	Actual   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Expected != nil {
		b.WriteString(": expected ")
		b.WriteString(e.Expected.String())
		b.WriteString(" bytes, got ")
		b.WriteString(strconv.Itoa(e.Actual))
	}

	if e.GoType != "" {
		if e.Expected != nil {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString("Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.Expected != nil || e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Size sets the required input length and the observed one
func (b *Builder) Size(expected ExpectedSize, actual int) *Builder {
	b.err.Expected = &expected
	b.err.Actual = actual
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the common failure shapes

// BadSize creates a size-mismatch decode error
func BadSize(phase Phase, path []string, expected ExpectedSize, actual int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindBadSize,
		Path:     path,
		Expected: &expected,
		Actual:   actual,
	}
}

// Overflow creates an error for a size computation that cannot be
// represented in the chosen size width
func Overflow(phase Phase, path []string, width string, max uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("encoded size exceeds %s maximum (%d)", width, max),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, want string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		GoType: goType,
		Detail: "want " + want,
	}
}

// Unsupported creates an unsupported type error
func Unsupported(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: "type cannot be encoded",
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

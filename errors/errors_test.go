package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "size mismatch",
			err: &Error{
				Phase:    PhaseDecode,
				Kind:     KindBadSize,
				Path:     []string{"meetings", "[3]"},
				Expected: &ExpectedSize{N: 12, Bound: BoundEqualTo},
				Actual:   7,
			},
			contains: []string{"[decode]", "bad_size", "meetings.[3]", "exactly 12", "got 7"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEncode,
				Kind:  KindOverflow,
			},
			contains: []string{"[encode]", "overflow"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidData,
				Detail: "bad buffer",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[decode]", "invalid_data", "bad buffer", "caused by", "underlying error"},
		},
		{
			name: "type mismatch with Go type",
			err: &Error{
				Phase:  PhaseCompile,
				Kind:   KindTypeMismatch,
				Path:   []string{"id"},
				GoType: "chan int",
				Detail: "want fixed-width integer",
			},
			contains: []string{"[compile]", "type_mismatch", "at id", "chan int", "want fixed-width integer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestExpectedSize_String(t *testing.T) {
	tests := []struct {
		exp  ExpectedSize
		want string
	}{
		{LessOrEqualThan(16), "at most 16"},
		{MoreThan(4), "more than 4"},
		{EqualTo(8), "exactly 8"},
	}
	for _, tt := range tests {
		if got := tt.exp.String(); got != tt.want {
			t.Errorf("ExpectedSize.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindBadSize,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindBadSize}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindBadSize}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindOverflow}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindBadSize}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindBadSize).
		Path("user", "name").
		GoType("string").
		Value(42).
		Cause(cause).
		Size(EqualTo(4), 2).
		Detail("field %d of %d", 1, 3).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindBadSize {
		t.Errorf("Kind = %v, want %v", err.Kind, KindBadSize)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Expected == nil || err.Expected.Bound != BoundEqualTo || err.Expected.N != 4 {
		t.Errorf("Expected = %v, want exactly 4", err.Expected)
	}
	if err.Actual != 2 {
		t.Errorf("Actual = %v, want 2", err.Actual)
	}
	if err.Detail != "field 1 of 3" {
		t.Errorf("Detail = %v, want 'field 1 of 3'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("BadSize", func(t *testing.T) {
		err := BadSize(PhaseDecode, []string{"list"}, MoreThan(8), 3)
		if err.Kind != KindBadSize {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBadSize)
		}
		if err.Expected.Bound != BoundMoreThan || err.Expected.N != 8 {
			t.Errorf("Expected = %v, want more than 8", err.Expected)
		}
		if err.Actual != 3 {
			t.Errorf("Actual = %v, want 3", err.Actual)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, []string{"name"}, "u8", 255)
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if !strings.Contains(err.Detail, "u8") || !strings.Contains(err.Detail, "255") {
			t.Errorf("Detail = %v, should name the width and its maximum", err.Detail)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseDecode, []string{"str"}, []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		if !strings.Contains(err.Detail, "fffe") {
			t.Errorf("Detail = %v, should contain hex preview", err.Detail)
		}
	})

	t.Run("InvalidUTF8 preview bounded", func(t *testing.T) {
		err := InvalidUTF8(PhaseDecode, nil, make([]byte, 1024))
		if len(err.Detail) > 128 {
			t.Errorf("Detail too long for large input: %d chars", len(err.Detail))
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseCompile, []string{"field"}, "int", "struct")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.GoType != "int" {
			t.Errorf("GoType = %v, want 'int'", err.GoType)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseCompile, nil, "chan int")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseEncode, []string{"ptr"}, "*User")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
		if err.GoType != "*User" {
			t.Errorf("GoType = %v, want '*User'", err.GoType)
		}
	})

	t.Run("InvalidData", func(t *testing.T) {
		err := InvalidData(PhaseDecode, nil, "destination must be a non-nil pointer")
		if err.Kind != KindInvalidData {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidData)
		}
	})
}

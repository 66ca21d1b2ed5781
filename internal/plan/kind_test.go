package plan

import "testing"

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBool, "bool"},
		{KindU8, "u8"},
		{KindS64, "s64"},
		{KindUint, "uint"},
		{KindString, "string"},
		{KindList, "list"},
		{KindSet, "set"},
		{KindRecord, "record"},
		{KindCustom, "custom"},
		{Kind(200), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKind_IsPrimitive(t *testing.T) {
	primitives := []Kind{KindBool, KindU8, KindS8, KindU16, KindS16, KindU32, KindS32, KindU64, KindS64, KindUint, KindInt, KindF32, KindF64}
	for _, k := range primitives {
		if !k.IsPrimitive() {
			t.Errorf("%v.IsPrimitive() = false, want true", k)
		}
	}
	composites := []Kind{KindString, KindList, KindArray, KindMap, KindSet, KindRecord, KindPointer, KindCustom}
	for _, k := range composites {
		if k.IsPrimitive() {
			t.Errorf("%v.IsPrimitive() = true, want false", k)
		}
	}
}

func TestKind_Signed(t *testing.T) {
	for _, k := range []Kind{KindS8, KindS16, KindS32, KindS64, KindInt} {
		if !k.Signed() {
			t.Errorf("%v.Signed() = false, want true", k)
		}
	}
	for _, k := range []Kind{KindBool, KindU8, KindU64, KindUint, KindF32, KindString} {
		if k.Signed() {
			t.Errorf("%v.Signed() = true, want false", k)
		}
	}
}

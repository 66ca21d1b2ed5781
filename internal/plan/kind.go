package plan

type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindS8
	KindU16
	KindS16
	KindU32
	KindS32
	KindU64
	KindS64
	KindUint
	KindInt
	KindF32
	KindF64
	KindString
	KindList
	KindArray
	KindMap
	KindSet
	KindRecord
	KindPointer
	KindCustom
)

var kindNames = [...]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindS8:      "s8",
	KindU16:     "u16",
	KindS16:     "s16",
	KindU32:     "u32",
	KindS32:     "s32",
	KindU64:     "u64",
	KindS64:     "s64",
	KindUint:    "uint",
	KindInt:     "int",
	KindF32:     "f32",
	KindF64:     "f64",
	KindString:  "string",
	KindList:    "list",
	KindArray:   "array",
	KindMap:     "map",
	KindSet:     "set",
	KindRecord:  "record",
	KindPointer: "pointer",
	KindCustom:  "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether the kind has a fixed wire width that
// never depends on the value.
func (k Kind) IsPrimitive() bool {
	return k <= KindF64
}

// Signed reports whether the primitive kind carries a sign bit.
func (k Kind) Signed() bool {
	switch k {
	case KindS8, KindS16, KindS32, KindS64, KindInt:
		return true
	default:
		return false
	}
}

package plan

import (
	"reflect"
)

// Plan describes how one Go type maps onto the wire format.
type Plan struct {
	Type   reflect.Type
	Elem   *Plan   // list/array/set element, pointer target
	Key    *Plan   // map key
	Fields []Field // record fields in declaration order
	Width  int     // fixed wire width in bytes, primitives only
	Len    int     // array length
	Kind   Kind
}

// Field is one record field, keyed by declaration order.
type Field struct {
	Type  *Plan
	Name  string
	Index int // reflect field index in the containing struct
}

func (p *Plan) IsPrimitive() bool {
	return p.Kind.IsPrimitive()
}

// Fixed returns the wire width for primitives and 0 for everything
// whose encoded size depends on the value.
func (p *Plan) Fixed() int {
	if p.Kind.IsPrimitive() {
		return p.Width
	}
	return 0
}

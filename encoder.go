package bytevec

import (
	"encoding/binary"
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/bytevec/errors"
	"github.com/wippyai/bytevec/internal/plan"
)

// Encoder converts Go values into byte buffers. The width fixes the
// size representation for every count and length-prefix field the
// encoder writes; a matching Decoder must use the same width.
//
// An Encoder holds no per-call state and is safe for concurrent use.
type Encoder struct {
	compiler *Compiler
	width    Width
}

func NewEncoder(w Width) *Encoder {
	return &Encoder{
		compiler: NewCompiler(),
		width:    w,
	}
}

// NewEncoderWithCompiler shares a plan cache with other encoders and
// decoders.
func NewEncoderWithCompiler(w Width, c *Compiler) *Encoder {
	return &Encoder{compiler: c, width: w}
}

func (e *Encoder) Width() Width {
	return e.width
}

// Encode serializes v into a fresh buffer. It fails with an overflow
// error if any size accumulated along the way cannot be represented in
// the encoder's width, and never returns a partial buffer.
func (e *Encoder) Encode(v any) ([]byte, error) {
	if v == nil {
		return nil, errors.NilPointer(errors.PhaseEncode, nil, "<nil>")
	}

	rv := reflect.ValueOf(v)
	p, err := e.compiler.Compile(rv.Type())
	if err != nil {
		return nil, err
	}

	total, err := e.size(p, rv, nil)
	if err != nil {
		return nil, err
	}

	return e.append(p, rv, make([]byte, 0, total), nil)
}

// EncodedSize returns the exact byte length Encode would produce for v.
// It fails with an overflow error when the length is not representable
// in the encoder's width.
func (e *Encoder) EncodedSize(v any) (uint64, error) {
	if v == nil {
		return 0, errors.NilPointer(errors.PhaseEncode, nil, "<nil>")
	}

	rv := reflect.ValueOf(v)
	p, err := e.compiler.Compile(rv.Type())
	if err != nil {
		return 0, err
	}
	return e.size(p, rv, nil)
}

func (e *Encoder) overflow(path []string) *errors.Error {
	return errors.Overflow(errors.PhaseEncode, path, e.width.String(), e.width.Max())
}

// size computes the serialized byte length of v. Accumulation is
// checked against the width maximum at every step, not just at the end.
func (e *Encoder) size(p *plan.Plan, v reflect.Value, path []string) (uint64, error) {
	switch p.Kind {
	case plan.KindString:
		n := uint64(v.Len())
		if n > e.width.Max() {
			return 0, e.overflow(path)
		}
		return n, nil

	case plan.KindCustom:
		n, ok := v.Interface().(Encodable).EncodedSize(e.width)
		if !ok {
			return 0, e.overflow(path)
		}
		return n, nil

	case plan.KindPointer:
		if v.IsNil() {
			return 0, errors.NilPointer(errors.PhaseEncode, path, p.Type.String())
		}
		return e.size(p.Elem, v.Elem(), path)

	case plan.KindList:
		return e.sizeCollection(v.Len(), path, func(i int) (uint64, error) {
			return e.size(p.Elem, v.Index(i), path)
		})

	case plan.KindSet:
		keys := v.MapKeys()
		return e.sizeCollection(len(keys), path, func(i int) (uint64, error) {
			return e.size(p.Elem, keys[i], path)
		})

	case plan.KindMap:
		keys, vals := mapEntries(v)
		return e.sizeCollection(len(keys), path, func(i int) (uint64, error) {
			return e.sizePair(p, keys[i], vals[i], path)
		})

	case plan.KindArray:
		return e.sizeFields(p.Len, path, func(i int) (uint64, error) {
			return e.size(p.Elem, v.Index(i), path)
		})

	case plan.KindRecord:
		return e.sizeFields(len(p.Fields), path, func(i int) (uint64, error) {
			f := p.Fields[i]
			return e.size(f.Type, v.Field(f.Index), append(path, f.Name))
		})

	default: // fixed-width primitive
		return uint64(p.Width), nil
	}
}

// sizeCollection: count field + one length prefix per element + bodies.
func (e *Encoder) sizeCollection(n int, path []string, elem func(int) (uint64, error)) (uint64, error) {
	total, err := e.sizeFields(n, path, elem)
	if err != nil {
		return 0, err
	}
	total, ok := e.width.add(total, uint64(e.width.Bytes()))
	if !ok {
		return 0, e.overflow(path)
	}
	return total, nil
}

// sizeFields: one length prefix per position + bodies, no count field.
func (e *Encoder) sizeFields(n int, path []string, elem func(int) (uint64, error)) (uint64, error) {
	var total uint64
	for i := 0; i < n; i++ {
		es, err := elem(i)
		if err != nil {
			return 0, err
		}
		var ok bool
		if total, ok = e.width.add(total, es); !ok {
			return 0, e.overflow(path)
		}
		if total, ok = e.width.add(total, uint64(e.width.Bytes())); !ok {
			return 0, e.overflow(path)
		}
	}
	return total, nil
}

// sizePair computes a map element's size: the (key, value) pair in the
// two-field aggregate layout.
func (e *Encoder) sizePair(p *plan.Plan, key, val reflect.Value, path []string) (uint64, error) {
	ks, err := e.size(p.Key, key, path)
	if err != nil {
		return 0, err
	}
	vs, err := e.size(p.Elem, val, path)
	if err != nil {
		return 0, err
	}

	wb := uint64(e.width.Bytes())
	total, ok := e.width.add(ks, vs)
	if ok {
		total, ok = e.width.add(total, 2*wb)
	}
	if !ok {
		return 0, e.overflow(path)
	}
	return total, nil
}

func (e *Encoder) append(p *plan.Plan, v reflect.Value, buf []byte, path []string) ([]byte, error) {
	switch p.Kind {
	case plan.KindBool:
		if v.Bool() {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case plan.KindU8, plan.KindU16, plan.KindU32, plan.KindU64, plan.KindUint:
		return appendUint(buf, v.Uint(), p.Width), nil

	case plan.KindS8, plan.KindS16, plan.KindS32, plan.KindS64, plan.KindInt:
		return appendUint(buf, uint64(v.Int()), p.Width), nil

	case plan.KindF32:
		return binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(v.Float()))), nil

	case plan.KindF64:
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(v.Float())), nil

	case plan.KindString:
		s := v.String()
		if !utf8.ValidString(s) {
			return nil, errors.InvalidUTF8(errors.PhaseEncode, path, []byte(s))
		}
		// Bare strings carry no prefix; the container records the length.
		return append(buf, s...), nil

	case plan.KindCustom:
		b, err := v.Interface().(Encodable).Encode(e.width)
		if err != nil {
			return nil, err
		}
		return append(buf, b...), nil

	case plan.KindPointer:
		if v.IsNil() {
			return nil, errors.NilPointer(errors.PhaseEncode, path, p.Type.String())
		}
		return e.append(p.Elem, v.Elem(), buf, path)

	case plan.KindList:
		return e.appendCollection(buf, v.Len(), true, path,
			func(i int) (uint64, error) { return e.size(p.Elem, v.Index(i), path) },
			func(i int, buf []byte) ([]byte, error) {
				return e.append(p.Elem, v.Index(i), buf, append(path, "["+strconv.Itoa(i)+"]"))
			})

	case plan.KindSet:
		keys := v.MapKeys()
		return e.appendCollection(buf, len(keys), true, path,
			func(i int) (uint64, error) { return e.size(p.Elem, keys[i], path) },
			func(i int, buf []byte) ([]byte, error) {
				return e.append(p.Elem, keys[i], buf, append(path, "["+strconv.Itoa(i)+"]"))
			})

	case plan.KindMap:
		keys, vals := mapEntries(v)
		return e.appendCollection(buf, len(keys), true, path,
			func(i int) (uint64, error) { return e.sizePair(p, keys[i], vals[i], path) },
			func(i int, buf []byte) ([]byte, error) {
				return e.appendPair(p, keys[i], vals[i], buf, append(path, "["+strconv.Itoa(i)+"]"))
			})

	case plan.KindArray:
		return e.appendCollection(buf, p.Len, false, path,
			func(i int) (uint64, error) { return e.size(p.Elem, v.Index(i), path) },
			func(i int, buf []byte) ([]byte, error) {
				return e.append(p.Elem, v.Index(i), buf, append(path, "["+strconv.Itoa(i)+"]"))
			})

	case plan.KindRecord:
		return e.appendCollection(buf, len(p.Fields), false, path,
			func(i int) (uint64, error) {
				f := p.Fields[i]
				return e.size(f.Type, v.Field(f.Index), path)
			},
			func(i int, buf []byte) ([]byte, error) {
				f := p.Fields[i]
				return e.append(f.Type, v.Field(f.Index), buf, append(path, f.Name))
			})

	default:
		return nil, errors.Unsupported(errors.PhaseEncode, path, p.Type.String())
	}
}

// appendCollection writes the two-block layout: an optional count
// field, all length prefixes in iteration order, then all bodies in the
// same order. Two full passes over the elements, never interleaved, so
// a decoder can read every length before reading any body.
func (e *Encoder) appendCollection(buf []byte, n int, withCount bool, path []string,
	sizeAt func(int) (uint64, error),
	appendAt func(int, []byte) ([]byte, error),
) ([]byte, error) {
	sizes := getSizes()
	defer putSizes(sizes)

	for i := 0; i < n; i++ {
		es, err := sizeAt(i)
		if err != nil {
			return nil, err
		}
		*sizes = append(*sizes, es)
	}

	if withCount {
		buf = e.width.appendField(buf, uint64(n))
	}
	for _, es := range *sizes {
		buf = e.width.appendField(buf, es)
	}

	var err error
	for i := 0; i < n; i++ {
		if buf, err = appendAt(i, buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// appendPair writes one map element: the (key, value) two-field layout.
func (e *Encoder) appendPair(p *plan.Plan, key, val reflect.Value, buf []byte, path []string) ([]byte, error) {
	ks, err := e.size(p.Key, key, path)
	if err != nil {
		return nil, err
	}
	vs, err := e.size(p.Elem, val, path)
	if err != nil {
		return nil, err
	}

	buf = e.width.appendField(buf, ks)
	buf = e.width.appendField(buf, vs)
	if buf, err = e.append(p.Key, key, buf, path); err != nil {
		return nil, err
	}
	return e.append(p.Elem, val, buf, path)
}

func appendUint(buf []byte, u uint64, width int) []byte {
	switch width {
	case 1:
		return append(buf, byte(u))
	case 2:
		return binary.BigEndian.AppendUint16(buf, uint16(u))
	case 4:
		return binary.BigEndian.AppendUint32(buf, uint32(u))
	default:
		return binary.BigEndian.AppendUint64(buf, u)
	}
}

// mapEntries snapshots a map's keys and values so the length-prefix
// pass and the body pass see the same iteration order.
func mapEntries(v reflect.Value) ([]reflect.Value, []reflect.Value) {
	keys := make([]reflect.Value, 0, v.Len())
	vals := make([]reflect.Value, 0, v.Len())
	it := v.MapRange()
	for it.Next() {
		keys = append(keys, it.Key())
		vals = append(vals, it.Value())
	}
	return keys, vals
}

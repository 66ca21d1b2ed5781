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

// Decoder reconstructs Go values from byte buffers produced by an
// Encoder of the same width. Every length it reads is validated against
// the remaining buffer before any body byte is interpreted; a failure
// never yields a partial value.
//
// A Decoder holds no per-call state and is safe for concurrent use.
type Decoder struct {
	compiler *Compiler
	width    Width
}

func NewDecoder(w Width) *Decoder {
	return &Decoder{
		compiler: NewCompiler(),
		width:    w,
	}
}

// NewDecoderWithCompiler shares a plan cache with other encoders and
// decoders.
func NewDecoderWithCompiler(w Width, c *Compiler) *Decoder {
	return &Decoder{compiler: c, width: w}
}

func (d *Decoder) Width() Width {
	return d.width
}

// Decode reconstructs the value in the buffer into v, which must be a
// non-nil pointer to the destination.
func (d *Decoder) Decode(data []byte, v any) error {
	dst, p, err := d.target(v)
	if err != nil {
		return err
	}
	return d.decode(p, data, dst, nil)
}

// DecodeMax rejects any buffer longer than limit before parsing a
// single byte. It is the resource guard for untrusted input.
func (d *Decoder) DecodeMax(data []byte, limit int, v any) error {
	if len(data) > limit {
		return errors.BadSize(errors.PhaseDecode, nil, errors.LessOrEqualThan(uint64(limit)), len(data))
	}
	return d.Decode(data, v)
}

// DecodePrefix decodes a buffer that contains only the first `fields`
// fields of the destination struct, leaving the remaining fields at
// their zero value. The buffer must frame exactly those fields. This is
// explicit opt-in: plain Decode always requires every field.
func (d *Decoder) DecodePrefix(data []byte, v any, fields int) error {
	dst, p, err := d.target(v)
	if err != nil {
		return err
	}
	if p.Kind != plan.KindRecord {
		return errors.TypeMismatch(errors.PhaseDecode, nil, dst.Type().String(), "struct")
	}
	if fields < 0 || fields > len(p.Fields) {
		return errors.InvalidData(errors.PhaseDecode, nil,
			"prefix of "+strconv.Itoa(fields)+" fields out of range (struct has "+strconv.Itoa(len(p.Fields))+")")
	}

	dst.SetZero()
	return d.decodeFields(data, fields, nil,
		func(i int) *plan.Plan { return p.Fields[i].Type },
		func(i int) reflect.Value { return dst.Field(p.Fields[i].Index) },
		func(i int) string { return p.Fields[i].Name })
}

// target validates the destination pointer and compiles its plan.
func (d *Decoder) target(v any) (reflect.Value, *plan.Plan, error) {
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, nil, errors.InvalidData(errors.PhaseDecode, nil,
			"destination must be a non-nil pointer")
	}

	p, err := d.compiler.Compile(rv.Elem().Type())
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return rv.Elem(), p, nil
}

func (d *Decoder) decode(p *plan.Plan, data []byte, dst reflect.Value, path []string) error {
	switch p.Kind {
	case plan.KindCustom:
		return dst.Addr().Interface().(Decodable).Decode(d.width, data)

	case plan.KindPointer:
		el := reflect.New(p.Elem.Type)
		if err := d.decode(p.Elem, data, el.Elem(), path); err != nil {
			return err
		}
		dst.Set(el)
		return nil

	case plan.KindString:
		if !utf8.Valid(data) {
			return errors.InvalidUTF8(errors.PhaseDecode, path, data)
		}
		dst.SetString(string(data))
		return nil

	case plan.KindList:
		return d.decodeList(p, data, dst, path)

	case plan.KindSet:
		return d.decodeSet(p, data, dst, path)

	case plan.KindMap:
		return d.decodeMap(p, data, dst, path)

	case plan.KindArray:
		return d.decodeFields(data, p.Len, path,
			func(int) *plan.Plan { return p.Elem },
			func(i int) reflect.Value { return dst.Index(i) },
			func(i int) string { return "[" + strconv.Itoa(i) + "]" })

	case plan.KindRecord:
		return d.decodeFields(data, len(p.Fields), path,
			func(i int) *plan.Plan { return p.Fields[i].Type },
			func(i int) reflect.Value { return dst.Field(p.Fields[i].Index) },
			func(i int) string { return p.Fields[i].Name })

	default:
		return d.decodePrimitive(p, data, dst, path)
	}
}

// decodePrimitive requires the slice length to equal the primitive's
// fixed width exactly, then applies the inverse big-endian transform.
func (d *Decoder) decodePrimitive(p *plan.Plan, data []byte, dst reflect.Value, path []string) error {
	if len(data) != p.Width {
		return errors.BadSize(errors.PhaseDecode, path, errors.EqualTo(uint64(p.Width)), len(data))
	}

	switch p.Kind {
	case plan.KindBool:
		dst.SetBool(data[0] != 0)

	case plan.KindU8, plan.KindU16, plan.KindU32, plan.KindU64, plan.KindUint:
		dst.SetUint(readUint(data, p.Width))

	case plan.KindS8, plan.KindS16, plan.KindS32, plan.KindS64, plan.KindInt:
		dst.SetInt(readInt(data, p.Width))

	case plan.KindF32:
		dst.SetFloat(float64(math.Float32frombits(binary.BigEndian.Uint32(data))))

	case plan.KindF64:
		dst.SetFloat(math.Float64frombits(binary.BigEndian.Uint64(data)))

	default:
		return errors.Unsupported(errors.PhaseDecode, path, p.Type.String())
	}
	return nil
}

func (d *Decoder) decodeList(p *plan.Plan, data []byte, dst reflect.Value, path []string) error {
	sizes, body, err := d.readCollectionHeader(data, path)
	if err != nil {
		return err
	}
	defer putSizes(sizes)

	out := reflect.MakeSlice(p.Type, len(*sizes), len(*sizes))
	off := 0
	for i, s := range *sizes {
		elemPath := append(path, "["+strconv.Itoa(i)+"]")
		if err := d.decode(p.Elem, body[off:off+int(s)], out.Index(i), elemPath); err != nil {
			return err
		}
		off += int(s)
	}
	dst.Set(out)
	return nil
}

func (d *Decoder) decodeSet(p *plan.Plan, data []byte, dst reflect.Value, path []string) error {
	sizes, body, err := d.readCollectionHeader(data, path)
	if err != nil {
		return err
	}
	defer putSizes(sizes)

	out := reflect.MakeMapWithSize(p.Type, len(*sizes))
	member := reflect.Zero(p.Type.Elem())
	off := 0
	for i, s := range *sizes {
		elem := reflect.New(p.Elem.Type).Elem()
		elemPath := append(path, "["+strconv.Itoa(i)+"]")
		if err := d.decode(p.Elem, body[off:off+int(s)], elem, elemPath); err != nil {
			return err
		}
		out.SetMapIndex(elem, member)
		off += int(s)
	}
	dst.Set(out)
	return nil
}

func (d *Decoder) decodeMap(p *plan.Plan, data []byte, dst reflect.Value, path []string) error {
	sizes, body, err := d.readCollectionHeader(data, path)
	if err != nil {
		return err
	}
	defer putSizes(sizes)

	out := reflect.MakeMapWithSize(p.Type, len(*sizes))
	off := 0
	for i, s := range *sizes {
		elemPath := append(path, "["+strconv.Itoa(i)+"]")
		key := reflect.New(p.Key.Type).Elem()
		val := reflect.New(p.Elem.Type).Elem()

		// Each element is a (key, value) pair in the two-field layout.
		pair := [2]*plan.Plan{p.Key, p.Elem}
		dsts := [2]reflect.Value{key, val}
		names := [2]string{"[key]", "[value]"}
		err := d.decodeFields(body[off:off+int(s)], 2, elemPath,
			func(j int) *plan.Plan { return pair[j] },
			func(j int) reflect.Value { return dsts[j] },
			func(j int) string { return names[j] })
		if err != nil {
			return err
		}

		// Duplicate keys: last writer wins, per map semantics.
		out.SetMapIndex(key, val)
		off += int(s)
	}
	dst.Set(out)
	return nil
}

// readCollectionHeader reads the count field and the per-element length
// block, validating each against the remaining buffer: the buffer must
// hold the count (more-than error), then every length field (more-than
// error), and the bodies must match the summed lengths exactly
// (equal-to error).
func (d *Decoder) readCollectionHeader(data []byte, path []string) (*[]uint64, []byte, error) {
	wb := d.width.Bytes()
	if len(data) < wb {
		return nil, nil, errors.BadSize(errors.PhaseDecode, path, errors.MoreThan(uint64(wb)), len(data))
	}

	count := d.width.field(data)
	sizesLen := satMul(count, uint64(wb))
	if uint64(len(data)-wb) < sizesLen {
		expected := satAdd(uint64(wb), sizesLen)
		return nil, nil, errors.BadSize(errors.PhaseDecode, path, errors.MoreThan(expected), len(data))
	}

	n := int(count)
	sizes := getSizes()
	index := wb
	for i := 0; i < n; i++ {
		*sizes = append(*sizes, d.width.field(data[index:]))
		index += wb
	}

	var bodySize uint64
	var ok bool
	for _, s := range *sizes {
		if bodySize, ok = d.width.add(bodySize, s); !ok {
			putSizes(sizes)
			return nil, nil, errors.BadSize(errors.PhaseDecode, path,
				errors.EqualTo(satAdd(uint64(index), satSum(*sizes))), len(data))
		}
	}

	body := data[index:]
	if uint64(len(body)) != bodySize {
		putSizes(sizes)
		return nil, nil, errors.BadSize(errors.PhaseDecode, path,
			errors.EqualTo(uint64(index)+bodySize), len(data))
	}
	return sizes, body, nil
}

// decodeFields decodes the fixed-arity two-block layout: n length
// fields in position order, then n bodies. Used for records, arrays,
// map pairs, and record prefixes.
func (d *Decoder) decodeFields(data []byte, n int, path []string,
	planAt func(int) *plan.Plan,
	dstAt func(int) reflect.Value,
	nameAt func(int) string,
) error {
	wb := d.width.Bytes()
	sizes := getSizes()
	defer putSizes(sizes)

	index := 0
	for i := 0; i < n; i++ {
		if len(data)-index < wb {
			return errors.BadSize(errors.PhaseDecode, path,
				errors.MoreThan(uint64(wb+index)), len(data))
		}
		*sizes = append(*sizes, d.width.field(data[index:]))
		index += wb
	}

	var bodySize uint64
	var ok bool
	for _, s := range *sizes {
		if bodySize, ok = d.width.add(bodySize, s); !ok {
			return errors.BadSize(errors.PhaseDecode, path,
				errors.EqualTo(satAdd(uint64(index), satSum(*sizes))), len(data))
		}
	}

	if uint64(len(data)-index) != bodySize {
		return errors.BadSize(errors.PhaseDecode, path,
			errors.EqualTo(uint64(index)+bodySize), len(data))
	}

	off := index
	for i := 0; i < n; i++ {
		s := int((*sizes)[i])
		if err := d.decode(planAt(i), data[off:off+s], dstAt(i), append(path, nameAt(i))); err != nil {
			return err
		}
		off += s
	}
	return nil
}

func readUint(data []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(data))
	case 4:
		return uint64(binary.BigEndian.Uint32(data))
	default:
		return binary.BigEndian.Uint64(data)
	}
}

func readInt(data []byte, width int) int64 {
	switch width {
	case 1:
		return int64(int8(data[0]))
	case 2:
		return int64(int16(binary.BigEndian.Uint16(data)))
	case 4:
		return int64(int32(binary.BigEndian.Uint32(data)))
	default:
		return int64(binary.BigEndian.Uint64(data))
	}
}

func satAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return math.MaxUint64
}

func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}

func satSum(sizes []uint64) uint64 {
	var total uint64
	for _, s := range sizes {
		total = satAdd(total, s)
	}
	return total
}

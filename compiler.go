package bytevec

import (
	"reflect"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bytevec/errors"
	"github.com/wippyai/bytevec/internal/plan"
)

var (
	encodableType = reflect.TypeOf((*Encodable)(nil)).Elem()
	decodableType = reflect.TypeOf((*Decodable)(nil)).Elem()
)

// Compiler builds and caches type plans. It is safe for concurrent use
// and can be shared between any number of Encoders and Decoders.
type Compiler struct {
	cache sync.Map // reflect.Type -> *plan.Plan
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile returns the plan for t, building and caching it on first use.
func (c *Compiler) Compile(t reflect.Type) (*plan.Plan, error) {
	if t == nil {
		return nil, errors.NilPointer(errors.PhaseCompile, nil, "<nil>")
	}

	if cached, ok := c.cache.Load(t); ok {
		return cached.(*plan.Plan), nil
	}

	p, err := c.compile(t, nil, map[reflect.Type]*plan.Plan{})
	if err != nil {
		return nil, err
	}

	c.cache.Store(t, p)
	Logger().Debug("compiled type plan",
		zap.String("type", t.String()),
		zap.Stringer("kind", p.Kind))
	return p, nil
}

// compile walks the type recursively. seen breaks cycles through
// self-referential structs and pointers: the node is registered before
// its children are compiled.
func (c *Compiler) compile(t reflect.Type, path []string, seen map[reflect.Type]*plan.Plan) (*plan.Plan, error) {
	if p, ok := seen[t]; ok {
		return p, nil
	}

	// Hand-written codecs take precedence over reflection. Pointer
	// types are dereferenced first so the check sees the target type.
	if t.Kind() != reflect.Pointer &&
		(t.Implements(encodableType) || reflect.PointerTo(t).Implements(decodableType)) {
		return c.compileCustom(t, path)
	}

	switch t.Kind() {
	case reflect.Bool:
		return &plan.Plan{Type: t, Kind: plan.KindBool, Width: 1}, nil
	case reflect.Uint8:
		return &plan.Plan{Type: t, Kind: plan.KindU8, Width: 1}, nil
	case reflect.Int8:
		return &plan.Plan{Type: t, Kind: plan.KindS8, Width: 1}, nil
	case reflect.Uint16:
		return &plan.Plan{Type: t, Kind: plan.KindU16, Width: 2}, nil
	case reflect.Int16:
		return &plan.Plan{Type: t, Kind: plan.KindS16, Width: 2}, nil
	case reflect.Uint32:
		return &plan.Plan{Type: t, Kind: plan.KindU32, Width: 4}, nil
	case reflect.Int32:
		return &plan.Plan{Type: t, Kind: plan.KindS32, Width: 4}, nil
	case reflect.Uint64:
		return &plan.Plan{Type: t, Kind: plan.KindU64, Width: 8}, nil
	case reflect.Int64:
		return &plan.Plan{Type: t, Kind: plan.KindS64, Width: 8}, nil
	case reflect.Uint:
		return &plan.Plan{Type: t, Kind: plan.KindUint, Width: platformIntWidth()}, nil
	case reflect.Int:
		return &plan.Plan{Type: t, Kind: plan.KindInt, Width: platformIntWidth()}, nil
	case reflect.Float32:
		return &plan.Plan{Type: t, Kind: plan.KindF32, Width: 4}, nil
	case reflect.Float64:
		return &plan.Plan{Type: t, Kind: plan.KindF64, Width: 8}, nil
	case reflect.String:
		return &plan.Plan{Type: t, Kind: plan.KindString}, nil
	case reflect.Slice:
		return c.compileList(t, path, seen)
	case reflect.Array:
		return c.compileArray(t, path, seen)
	case reflect.Map:
		return c.compileMap(t, path, seen)
	case reflect.Struct:
		return c.compileRecord(t, path, seen)
	case reflect.Pointer:
		return c.compilePointer(t, path, seen)
	default:
		return nil, errors.Unsupported(errors.PhaseCompile, path, t.String())
	}
}

func (c *Compiler) compileCustom(t reflect.Type, path []string) (*plan.Plan, error) {
	if !t.Implements(encodableType) {
		return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			Path(path...).
			GoType(t.String()).
			Detail("implements Decodable but not Encodable").
			Build()
	}
	if !reflect.PointerTo(t).Implements(decodableType) {
		return nil, errors.New(errors.PhaseCompile, errors.KindTypeMismatch).
			Path(path...).
			GoType(t.String()).
			Detail("implements Encodable but *%s does not implement Decodable", t).
			Build()
	}
	return &plan.Plan{Type: t, Kind: plan.KindCustom}, nil
}

func (c *Compiler) compileList(t reflect.Type, path []string, seen map[reflect.Type]*plan.Plan) (*plan.Plan, error) {
	p := &plan.Plan{Type: t, Kind: plan.KindList}
	seen[t] = p

	elem, err := c.compile(t.Elem(), append(path, "[elem]"), seen)
	if err != nil {
		return nil, err
	}
	p.Elem = elem
	return p, nil
}

func (c *Compiler) compileArray(t reflect.Type, path []string, seen map[reflect.Type]*plan.Plan) (*plan.Plan, error) {
	p := &plan.Plan{Type: t, Kind: plan.KindArray, Len: t.Len()}
	seen[t] = p

	elem, err := c.compile(t.Elem(), append(path, "[elem]"), seen)
	if err != nil {
		return nil, err
	}
	p.Elem = elem
	return p, nil
}

func (c *Compiler) compileMap(t reflect.Type, path []string, seen map[reflect.Type]*plan.Plan) (*plan.Plan, error) {
	// map[T]struct{} is the Go set idiom: elements are the members
	// themselves, not (key, value) pairs.
	isSet := t.Elem().Kind() == reflect.Struct && t.Elem().NumField() == 0

	p := &plan.Plan{Type: t, Kind: plan.KindMap}
	if isSet {
		p.Kind = plan.KindSet
	}
	seen[t] = p

	key, err := c.compile(t.Key(), append(path, "[key]"), seen)
	if err != nil {
		return nil, err
	}
	if isSet {
		p.Elem = key
		return p, nil
	}

	val, err := c.compile(t.Elem(), append(path, "[value]"), seen)
	if err != nil {
		return nil, err
	}
	p.Key = key
	p.Elem = val
	return p, nil
}

func (c *Compiler) compileRecord(t reflect.Type, path []string, seen map[reflect.Type]*plan.Plan) (*plan.Plan, error) {
	p := &plan.Plan{Type: t, Kind: plan.KindRecord}
	seen[t] = p

	fields := make([]plan.Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("bytevec") == "-" {
			continue
		}

		ft, err := c.compile(f.Type, append(path, f.Name), seen)
		if err != nil {
			return nil, err
		}
		fields = append(fields, plan.Field{Type: ft, Name: f.Name, Index: i})
	}

	p.Fields = fields
	return p, nil
}

func (c *Compiler) compilePointer(t reflect.Type, path []string, seen map[reflect.Type]*plan.Plan) (*plan.Plan, error) {
	p := &plan.Plan{Type: t, Kind: plan.KindPointer}
	seen[t] = p

	elem, err := c.compile(t.Elem(), path, seen)
	if err != nil {
		return nil, err
	}
	p.Elem = elem
	return p, nil
}

// platformIntWidth returns the wire width of int and uint. The format
// serializes them at the platform's native width, so buffers containing
// them are only portable between hosts of the same word size.
func platformIntWidth() int {
	switch strconv.IntSize {
	case 32:
		return 4
	case 64:
		return 8
	default:
		panic("bytevec: unsupported platform int width " + strconv.Itoa(strconv.IntSize))
	}
}

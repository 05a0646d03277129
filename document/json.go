package document

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"

	"github.com/hupe1980/docupdate/tensor"
)

// ToAny converts v into plain Go values: string, int64, float64, bool,
// []any, map[string]any, or *tensor.Dense.
func ToAny(v Value) any {
	switch x := v.(type) {
	case *Scalar:
		switch x.typ.kind {
		case TypeString:
			return x.s
		case TypeInt:
			return x.i
		case TypeDouble:
			return x.f
		case TypeBool:
			return x.b
		case TypeTensor:
			return x.t
		}
	case *Array:
		out := make([]any, len(x.elems))
		for i, e := range x.elems {
			out[i] = ToAny(e)
		}
		return out
	case *Struct:
		out := make(map[string]any, len(x.values))
		for k, e := range x.values {
			out[k] = ToAny(e)
		}
		return out
	}
	return nil
}

// FromAny builds a value of the declared type typ from plain Go values as
// produced by ToAny or a JSON decoder.
//
// Values declared as any are inferred from the Go type; maps cannot be
// inferred since struct types are nominal.
func FromAny(typ *DataType, x any) (Value, error) {
	switch typ.kind {
	case TypeString:
		if s, ok := x.(string); ok {
			return NewString(s), nil
		}
	case TypeInt:
		if i, ok := toInt64(x); ok {
			return NewInt(i), nil
		}
	case TypeDouble:
		if f, ok := toFloat64(x); ok {
			return NewDouble(f), nil
		}
	case TypeBool:
		if b, ok := x.(bool); ok {
			return NewBool(b), nil
		}
	case TypeTensor:
		return tensorFromAny(typ, x)
	case TypeArray:
		items, ok := x.([]any)
		if !ok {
			break
		}
		a := &Array{typ: typ, elems: make([]Value, 0, len(items))}
		for i, item := range items {
			v, err := FromAny(typ.elem, item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", typ.name, i, err)
			}
			a.elems = append(a.elems, v)
		}
		return a, nil
	case TypeStruct:
		m, ok := x.(map[string]any)
		if !ok {
			break
		}
		st := NewStruct(typ)
		for k, item := range m {
			f, ok := typ.Field(k)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, typ.name, k)
			}
			v, err := FromAny(f.Type, item)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", typ.name, k, err)
			}
			st.values[k] = v
		}
		return st, nil
	case TypeAny:
		return inferAny(x)
	}
	return nil, &TypeError{Declared: typ.Name(), Actual: fmt.Sprintf("%T", x)}
}

func inferAny(x any) (Value, error) {
	switch v := x.(type) {
	case string:
		return NewString(v), nil
	case bool:
		return NewBool(v), nil
	case int, int32, int64:
		i, _ := toInt64(v)
		return NewInt(i), nil
	case float32, float64:
		f, _ := toFloat64(v)
		return NewDouble(f), nil
	case *tensor.Dense:
		return NewTensor(v), nil
	case []any:
		return FromAny(ArrayOf(Any), v)
	}
	return nil, &TypeError{Declared: Any.name, Actual: fmt.Sprintf("%T", x)}
}

func tensorFromAny(typ *DataType, x any) (Value, error) {
	var cells []float64
	switch v := x.(type) {
	case *tensor.Dense:
		if !v.Type().Equal(typ.tensor) {
			return nil, &TypeError{Declared: typ.name, Actual: v.Type().String()}
		}
		return &Scalar{typ: typ, t: v}, nil
	case []float64:
		cells = v
	case map[string]any:
		// JSON rendering of *tensor.Dense.
		return tensorFromAny(typ, v["cells"])
	case []any:
		cells = make([]float64, len(v))
		for i, c := range v {
			f, ok := toFloat64(c)
			if !ok {
				return nil, &TypeError{Declared: typ.name, Actual: fmt.Sprintf("%T", c)}
			}
			cells[i] = f
		}
	case float64:
		cells = []float64{v}
	default:
		return nil, &TypeError{Declared: typ.name, Actual: fmt.Sprintf("%T", x)}
	}
	d, err := tensor.NewDense(typ.tensor, cells)
	if err != nil {
		return nil, err
	}
	return &Scalar{typ: typ, t: d}, nil
}

func toInt64(x any) (int64, bool) {
	switch v := x.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		// JSON numbers decode as float64.
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), true
		}
	}
	return 0, false
}

func toFloat64(x any) (float64, bool) {
	switch v := x.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// MarshalJSON implements json.Marshaler.
func (s *Scalar) MarshalJSON() ([]byte, error) { return json.Marshal(ToAny(s)) }

// MarshalJSON implements json.Marshaler.
func (a *Array) MarshalJSON() ([]byte, error) { return json.Marshal(ToAny(a)) }

// MarshalJSON implements json.Marshaler.
func (s *Struct) MarshalJSON() ([]byte, error) { return json.Marshal(ToAny(s)) }

// MarshalJSON implements json.Marshaler. The document renders as
// {"id": ..., "type": ..., "fields": {...}}.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		Fields any    `json:"fields"`
	}{d.id, d.root.typ.name, ToAny(d.root)})
}

// ParseJSON decodes JSON data into a value of the declared type typ.
func ParseJSON(typ *DataType, data []byte) (Value, error) {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return nil, err
	}
	return FromAny(typ, x)
}

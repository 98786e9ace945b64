package runtime

import (
	"fmt"
	"strconv"
)

// Builtin host-type converters, used both as Record type constraints and
// as the seed BuiltIn AR's `int`, `float`, `str`, ... constants (spec §6
// "Seed names in BuiltIn AR").
var (
	IntType = &TypeConverter{
		Name:    "int",
		Accepts: func(v any) bool { _, ok := v.(int64); return ok },
		Convert: func(v any) (any, error) {
			switch x := v.(type) {
			case float64:
				return int64(x), nil
			case bool:
				if x {
					return int64(1), nil
				}
				return int64(0), nil
			case string:
				n, err := strconv.ParseInt(x, 10, 64)
				return n, err
			}
			return nil, fmt.Errorf("cannot convert %T to int", v)
		},
	}
	FloatType = &TypeConverter{
		Name:    "float",
		Accepts: func(v any) bool { _, ok := v.(float64); return ok },
		Convert: func(v any) (any, error) {
			switch x := v.(type) {
			case int64:
				return float64(x), nil
			case string:
				n, err := strconv.ParseFloat(x, 64)
				return n, err
			}
			return nil, fmt.Errorf("cannot convert %T to float", v)
		},
	}
	BoolType = &TypeConverter{
		Name:    "bool",
		Accepts: func(v any) bool { _, ok := v.(bool); return ok },
		Convert: func(v any) (any, error) { return Truthy(v), nil },
	}
	StrType = &TypeConverter{
		Name:    "str",
		Accepts: func(v any) bool { _, ok := v.(string); return ok },
		Convert: func(v any) (any, error) { return fmt.Sprintf("%v", v), nil },
	}
	BytesType = &TypeConverter{
		Name:    "bytes",
		Accepts: func(v any) bool { _, ok := v.(Bytes); return ok },
		Convert: func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return Bytes(s), nil
			}
			return nil, fmt.Errorf("cannot convert %T to bytes", v)
		},
	}
	ListType = &TypeConverter{
		Name:    "list",
		Accepts: func(v any) bool { _, ok := v.(*List); return ok },
		Convert: func(v any) (any, error) {
			switch x := v.(type) {
			case *Tuple:
				return &List{Elements: append([]any(nil), x.Elements...)}, nil
			case *KandySet:
				return &List{Elements: x.Values()}, nil
			}
			return nil, fmt.Errorf("cannot convert %T to list", v)
		},
	}
	TupleType = &TypeConverter{
		Name:    "tuple",
		Accepts: func(v any) bool { _, ok := v.(*Tuple); return ok },
		Convert: func(v any) (any, error) {
			if l, ok := v.(*List); ok {
				return &Tuple{Elements: append([]any(nil), l.Elements...)}, nil
			}
			return nil, fmt.Errorf("cannot convert %T to tuple", v)
		},
	}
	SetType = &TypeConverter{
		Name:    "set",
		Accepts: func(v any) bool { _, ok := v.(*KandySet); return ok },
		Convert: func(v any) (any, error) {
			s := NewSet()
			switch x := v.(type) {
			case *List:
				for _, e := range x.Elements {
					s.Add(e)
				}
				return s, nil
			case *Tuple:
				for _, e := range x.Elements {
					s.Add(e)
				}
				return s, nil
			}
			return nil, fmt.Errorf("cannot convert %T to set", v)
		},
	}
	FrozenSetType = &TypeConverter{
		Name:    "frozenset",
		Accepts: func(v any) bool { _, ok := v.(*KandySet); return ok },
		Convert: SetType.Convert,
	}
	DictType = &TypeConverter{
		Name:    "dict",
		Accepts: func(v any) bool { _, ok := v.(*Dict); return ok },
		Convert: func(v any) (any, error) { return nil, fmt.Errorf("cannot convert %T to dict", v) },
	}
	ObjectType = &TypeConverter{
		Name:    "object",
		Accepts: func(v any) bool { return true },
		Convert: func(v any) (any, error) { return v, nil },
	}
	// ComplexType exists as a seed name for symmetry with the host's type
	// roster (spec §6); the lexer/parser never produce complex literals,
	// so this constant is reachable only via explicit construction.
	ComplexType = &TypeConverter{
		Name:    "complex",
		Accepts: func(v any) bool { _, ok := v.(complex128); return ok },
		Convert: func(v any) (any, error) {
			if f, ok := asFloatValue(v); ok {
				return complex(f, 0), nil
			}
			return nil, fmt.Errorf("cannot convert %T to complex", v)
		},
	}
)

func asFloatValue(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Numeric is the `numeric` capability object (spec §6): the union of int
// and float.
var Numeric = []*TypeConverter{IntType, FloatType}

// Iterable is the `Iterable` capability object: the union of list, tuple
// and mapping.
var Iterable = []*TypeConverter{ListType, TupleType, DictType}

// Text is the `Text` capability object: the union of text and bytes.
var Text = []*TypeConverter{StrType, BytesType}

// MultipleTypes wraps an arbitrary list of type converters as the
// `multiple(a, b, ...)` annotation form resolves to (spec §4.3).
type MultipleTypes struct {
	Types []*TypeConverter
}

func (m *MultipleTypes) Accepts(v any) bool {
	for _, t := range m.Types {
		if t.Accepts(v) {
			return true
		}
	}
	return false
}

func (m *MultipleTypes) String() string {
	s := "MultipleTypesClass("
	for i, t := range m.Types {
		if i > 0 {
			s += ", "
		}
		s += t.Name
	}
	return s + ")"
}

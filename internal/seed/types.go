package seed

import (
	"github.com/kyouko8/kandyscript/internal/evaluator"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

// installTypes binds the host-type constants onto the BuiltIn frame
// (spec §6 "Seed names in BuiltIn AR"), grounded on original_source's
// `ar0[pc.__name__] = RecordConstant(pc)` loop over `python_classes`.
func installTypes(e *evaluator.Evaluator) {
	ar := e.BuiltinAR()
	types := map[string]*runtime.TypeConverter{
		"bool":      runtime.BoolType,
		"bytes":     runtime.BytesType,
		"complex":   runtime.ComplexType,
		"dict":      runtime.DictType,
		"float":     runtime.FloatType,
		"frozenset": runtime.FrozenSetType,
		"int":       runtime.IntType,
		"list":      runtime.ListType,
		"object":    runtime.ObjectType,
		"set":       runtime.SetType,
		"str":       runtime.StrType,
		"tuple":     runtime.TupleType,
	}
	for name, t := range types {
		ar.Define(name, runtime.NewConstant(t))
	}

	// `type` is both a reference to the meta-type and, called with one
	// argument, the dynamic-type lookup (`type(v)` in the original).
	ar.Define("type", runtime.NewConstant(&evaluator.BuiltinFunc{
		Name: "type",
		Fn: func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
			if len(args.Positional) != 1 {
				return nil, argCountError("type", 1, len(args.Positional))
			}
			return typeOf(args.Positional[0]), nil
		},
	}))
}

// typeOf returns the host TypeConverter describing v's concrete Go
// representation, used by `type()` and `isinstance()`.
func typeOf(v any) *runtime.TypeConverter {
	switch v.(type) {
	case bool:
		return runtime.BoolType
	case int64:
		return runtime.IntType
	case float64:
		return runtime.FloatType
	case complex128:
		return runtime.ComplexType
	case string:
		return runtime.StrType
	case runtime.Bytes:
		return runtime.BytesType
	case *runtime.List:
		return runtime.ListType
	case *runtime.Tuple:
		return runtime.TupleType
	case *runtime.KandySet:
		return runtime.SetType
	case *runtime.Dict:
		return runtime.DictType
	}
	return runtime.ObjectType
}

// installCapabilities binds the union capability objects and the
// `MultipleTypesClass` constructor (spec §6).
func installCapabilities(e *evaluator.Evaluator) {
	ar := e.BuiltinAR()
	ar.Define("numeric", runtime.NewConstant(&runtime.MultipleTypes{Types: runtime.Numeric}))
	ar.Define("Iterable", runtime.NewConstant(&runtime.MultipleTypes{Types: runtime.Iterable}))
	ar.Define("Text", runtime.NewConstant(&runtime.MultipleTypes{Types: runtime.Text}))
	ar.Define("MultipleTypesClass", runtime.NewConstant(&evaluator.BuiltinFunc{
		Name: "MultipleTypesClass",
		Fn: func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
			types := make([]*runtime.TypeConverter, 0, len(args.Positional))
			for _, a := range args.Positional {
				t, ok := a.(*runtime.TypeConverter)
				if !ok {
					return nil, argTypeError("MultipleTypesClass", "a type", a)
				}
				types = append(types, t)
			}
			return &runtime.MultipleTypes{Types: types}, nil
		},
	}))
}

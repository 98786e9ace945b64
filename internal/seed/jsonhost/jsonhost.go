// Package jsonhost is an optional seed extension binding json_encode/
// json_decode onto the BuiltIn frame, backed by gjson/sjson the way
// funvibe-funxy's config/IR loading layer uses them (SPEC_FULL.md §B).
// It is only installed when kandy.yaml lists "json" among its seeds.
package jsonhost

import (
	"encoding/json"
	"strings"

	"github.com/kyouko8/kandyscript/internal/evaluator"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Install binds json_encode/json_decode onto e's BuiltIn frame.
func Install(e *evaluator.Evaluator) {
	ar := e.BuiltinAR()
	ar.Define("json_encode", runtime.NewConstant(&evaluator.BuiltinFunc{
		Name: "json_encode",
		Fn: func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
			if len(args.Positional) != 1 {
				return nil, kerr.New(kerr.KindTypeError, "json_encode() takes 1 argument")
			}
			out, err := encode(args.Positional[0])
			if err != nil {
				return nil, kerr.New(kerr.KindValueError, err.Error())
			}
			return out, nil
		},
	}))
	ar.Define("json_decode", runtime.NewConstant(&evaluator.BuiltinFunc{
		Name: "json_decode",
		Fn: func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
			if len(args.Positional) != 1 {
				return nil, kerr.New(kerr.KindTypeError, "json_decode() takes 1 argument")
			}
			s, ok := args.Positional[0].(string)
			if !ok {
				return nil, kerr.New(kerr.KindTypeError, "json_decode() expects a string")
			}
			if !gjson.Valid(s) {
				return nil, kerr.New(kerr.KindValueError, "invalid JSON")
			}
			return decode(gjson.Parse(s)), nil
		},
	}))
}

// encode walks a KandyScript value into JSON text, building composite
// documents key-by-key/index-by-index through sjson rather than a single
// encoding/json.Marshal pass.
func encode(v any) (string, error) {
	switch x := v.(type) {
	case runtime.NoneType:
		return "null", nil
	case bool, int64, float64, string:
		b, err := json.Marshal(nativeScalar(x))
		return string(b), err
	case *runtime.Dict:
		doc := "{}"
		var err error
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			doc, err = setPath(doc, evaluator.Stringify(k), val)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *runtime.List:
		doc := "[]"
		var err error
		for _, el := range x.Elements {
			doc, err = setPath(doc, "-1", el)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *runtime.Tuple:
		doc := "[]"
		var err error
		for _, el := range x.Elements {
			doc, err = setPath(doc, "-1", el)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	}
	return "", kerr.New(kerr.KindTypeError, "value is not JSON-encodable")
}

func setPath(doc, path string, v any) (string, error) {
	switch v.(type) {
	case *runtime.Dict, *runtime.List, *runtime.Tuple:
		nested, err := encode(v)
		if err != nil {
			return "", err
		}
		return sjson.SetRaw(doc, path, nested)
	case runtime.NoneType:
		return sjson.SetRaw(doc, path, "null")
	default:
		return sjson.Set(doc, path, nativeScalar(v))
	}
}

func nativeScalar(v any) any {
	switch x := v.(type) {
	case bool, int64, float64, string:
		return x
	}
	return nil
}

func decode(r gjson.Result) any {
	switch {
	case r.Type == gjson.Null:
		return runtime.None
	case r.Type == gjson.True:
		return true
	case r.Type == gjson.False:
		return false
	case r.Type == gjson.String:
		return r.String()
	case r.Type == gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return r.Float()
		}
		return r.Int()
	case r.IsArray():
		var out []any
		for _, el := range r.Array() {
			out = append(out, decode(el))
		}
		return &runtime.List{Elements: out}
	case r.IsObject():
		d := runtime.NewDict()
		r.ForEach(func(key, value gjson.Result) bool {
			d.Set(key.String(), decode(value))
			return true
		})
		return d
	}
	return runtime.None
}

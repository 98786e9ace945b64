package evaluator

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// builtinAttribute is the enrichment registry mapping host-type values to
// extra methods (spec §4.3 "Attribute access with special types"): a
// small set of int/float/text/sequence/mapping helpers exposed as
// attribute reads that construct a temporary bound BuiltinFunc.
func builtinAttribute(target any, name string) (any, bool) {
	switch t := target.(type) {
	case int64:
		return intAttribute(t, name)
	case float64:
		return floatAttribute(t, name)
	case string:
		return textAttribute(t, name)
	case *runtime.List:
		return listAttribute(t, name)
	case *runtime.Tuple:
		return seqReadOnlyAttribute(t.Elements, name)
	case *runtime.Dict:
		return dictAttribute(t, name)
	case *runtime.KandySet:
		return setAttribute_(t, name)
	case Attributed:
		return t.KandyAttribute(name)
	}
	return nil, false
}

// Attributed lets a host-defined value (e.g. a seed-provided file handle
// or iterator) participate in attribute-access enrichment without the
// evaluator package depending on its concrete type.
type Attributed interface {
	KandyAttribute(name string) (any, bool)
}

func bound(name string, fn func(e *Evaluator, args CallArgs) (any, error)) (any, bool) {
	return &BuiltinFunc{Name: name, Fn: fn}, true
}

func intAttribute(n int64, name string) (any, bool) {
	switch name {
	case "is_even":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return n%2 == 0, nil })
	case "is_odd":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return n%2 != 0, nil })
	case "is_positive":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return n > 0, nil })
	case "is_negative":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return n < 0, nil })
	}
	return nil, false
}

func floatAttribute(f float64, name string) (any, bool) {
	switch name {
	case "is_positive":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return f > 0, nil })
	case "is_negative":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return f < 0, nil })
	case "is_integer":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return f == float64(int64(f)), nil })
	}
	return nil, false
}

func textAttribute(s string, name string) (any, bool) {
	switch name {
	case "reverse", "reversed":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			r := []rune(s)
			for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
				r[i], r[j] = r[j], r[i]
			}
			return string(r), nil
		})
	case "is_blank":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return strings.TrimSpace(s) == "", nil })
	case "random_choice":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			r := []rune(s)
			if len(r) == 0 {
				return "", nil
			}
			return string(r[rand.Intn(len(r))]), nil
		})
	}
	return nil, false
}

func listAttribute(l *runtime.List, name string) (any, bool) {
	switch name {
	case "reverse":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			out := make([]any, len(l.Elements))
			for i, v := range l.Elements {
				out[len(l.Elements)-1-i] = v
			}
			return &runtime.List{Elements: out}, nil
		})
	case "random_choice":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			if len(l.Elements) == 0 {
				return runtime.None, nil
			}
			return l.Elements[rand.Intn(len(l.Elements))], nil
		})
	case "append":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			if len(args.Positional) != 1 {
				return nil, typeErr("append", l, l)
			}
			l.Elements = append(l.Elements, args.Positional[0])
			return runtime.None, nil
		})
	case "sort":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			sort.SliceStable(l.Elements, func(i, j int) bool {
				less, _ := compareOrdered(token.LESSER, l.Elements[i], l.Elements[j])
				b, _ := less.(bool)
				return b
			})
			return runtime.None, nil
		})
	}
	return seqReadOnlyAttribute(l.Elements, name)
}

func seqReadOnlyAttribute(elements []any, name string) (any, bool) {
	switch name {
	case "random_choice":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			if len(elements) == 0 {
				return runtime.None, nil
			}
			return elements[rand.Intn(len(elements))], nil
		})
	}
	return nil, false
}

func dictAttribute(d *runtime.Dict, name string) (any, bool) {
	switch name {
	case "keys":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return &runtime.List{Elements: d.Keys()}, nil })
	case "values":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			out := make([]any, 0, d.Len())
			for _, k := range d.Keys() {
				v, _ := d.Get(k)
				out = append(out, v)
			}
			return &runtime.List{Elements: out}, nil
		})
	case "is_empty":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return d.Len() == 0, nil })
	}
	return nil, false
}

func setAttribute_(s *runtime.KandySet, name string) (any, bool) {
	switch name {
	case "random_choice":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) {
			vals := s.Values()
			if len(vals) == 0 {
				return runtime.None, nil
			}
			return vals[rand.Intn(len(vals))], nil
		})
	case "is_empty":
		return bound(name, func(e *Evaluator, args CallArgs) (any, error) { return s.Len() == 0, nil })
	}
	return nil, false
}

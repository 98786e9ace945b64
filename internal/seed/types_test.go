package seed

import (
	"testing"

	"github.com/kyouko8/kandyscript/internal/runtime"
)

func TestTypeOf(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want *runtime.TypeConverter
	}{
		{"int", int64(1), runtime.IntType},
		{"float", 1.5, runtime.FloatType},
		{"bool", true, runtime.BoolType},
		{"string", "x", runtime.StrType},
		{"list", &runtime.List{}, runtime.ListType},
		{"dict", runtime.NewDict(), runtime.DictType},
		{"fallback to object", struct{}{}, runtime.ObjectType},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := typeOf(c.v); got != c.want {
				t.Errorf("typeOf(%v) = %v, want %v", c.v, got.Name, c.want.Name)
			}
		})
	}
}

func TestInstallTypesBindsHostRoster(t *testing.T) {
	e := newTestEvaluator(t)
	ar := e.BuiltinAR()

	for _, name := range []string{"int", "float", "bool", "str", "bytes", "complex", "list", "tuple", "set", "frozenset", "dict", "object", "type"} {
		if !ar.Has(name) {
			t.Errorf("BuiltIn AR missing seeded type name %q", name)
		}
	}
}

func TestInstallCapabilitiesBindsUnions(t *testing.T) {
	e := newTestEvaluator(t)
	ar := e.BuiltinAR()

	for _, name := range []string{"numeric", "Iterable", "Text", "MultipleTypesClass"} {
		if !ar.Has(name) {
			t.Errorf("BuiltIn AR missing seeded capability name %q", name)
		}
	}
}

package evaluator

import (
	"fmt"

	"github.com/kyouko8/kandyscript/pkg/token"
)

// GetAttribute resolves `target.name` the same way attribute-access
// expressions do, for the `getattr`/`hasattr` builtins.
func (e *Evaluator) GetAttribute(target any, name string) (any, error) {
	return e.getAttribute(target, name, token.Position{})
}

// SetAttribute mutates `target.name = value` the same way assignment
// does, for the `setattr` builtin.
func SetAttribute(target any, name string, value any) error {
	return setAttribute(target, name, value)
}

// The following exported wrappers are the facade the seed package builds
// the BuiltIn function table against, so that `internal/seed` never needs
// to duplicate sequence/comparison logic already implemented here (spec
// §6 "Seed names in BuiltIn AR").

// IterableElements reduces any host sequence/mapping/set to a slice.
func IterableElements(v any) ([]any, error) { return iterableElements(v) }

// Stringify is the `str(v)`-equivalent conversion.
func Stringify(v any) string { return stringify(v) }

// ValuesEqual implements `==` value equality.
func ValuesEqual(a, b any) bool { return valuesEqual(a, b) }

// Less reports whether a orders before b, for sorted/min/max.
func Less(a, b any) (bool, error) {
	v, err := compareOrdered(token.LESSER, a, b)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Repr renders the host `repr()` form: strings get quoted, everything
// else falls back to Stringify.
func Repr(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return stringify(v)
}

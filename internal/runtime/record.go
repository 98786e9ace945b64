// Package runtime implements KandyScript's binding model: typed Record
// cells, the ActivationRecord scope chain, the dynamic CallStack, and the
// reflective Space handles that expose an AR as a first-class value
// (spec §3 "Data model").
package runtime

import (
	"fmt"
	"reflect"
)

// Undefined is the sentinel "no value assigned yet" value, distinct from
// None. It may only be stored at initial declaration (spec §3 "Record").
type Undefined struct{}

func (Undefined) String() string { return "Undefined" }

// ConstraintKind tags the four shapes a Record's type constraint can take.
type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintConcrete
	ConstraintUnion
	ConstraintConstant
)

// TypeConverter is the minimal contract a host type constant must satisfy
// to participate in coercion: a name for error messages, a predicate that
// recognizes its own instances, and a converter used when strict=false.
type TypeConverter struct {
	Name    string
	Accepts func(value any) bool
	Convert func(value any) (any, error)
}

// Record is a single binding cell: a value, an optional type constraint,
// a strictness flag disabling coercion, and a privacy flag hiding the
// name from inherited lookups across frames.
type Record struct {
	Value      any
	Kind       ConstraintKind
	Concrete   *TypeConverter
	Union      []*TypeConverter
	Strict     bool
	Private    bool
}

// NewRecord creates an unconstrained (dynamic) Record.
func NewRecord(value any) *Record {
	return &Record{Value: value, Kind: ConstraintNone}
}

// NewConstant creates a Record whose value may never be reassigned.
func NewConstant(value any) *Record {
	return &Record{Value: value, Kind: ConstraintConstant}
}

// NewConcrete creates a Record locked to a single host type.
func NewConcrete(value any, t *TypeConverter, strict bool) *Record {
	return &Record{Value: value, Kind: ConstraintConcrete, Concrete: t, Strict: strict}
}

// NewUnion creates a Record accepting any of the given host types.
func NewUnion(value any, types []*TypeConverter, strict bool) *Record {
	return &Record{Value: value, Kind: ConstraintUnion, Union: types, Strict: strict}
}

// KandyTypeError is raised by SetValue when a value fails validation or
// coercion, or when a caller attempts to rebind a Constant.
type KandyTypeError struct {
	Message string
}

func (e *KandyTypeError) Error() string { return e.Message }

// SetValue implements the coercion-vs-strict validation law (spec §8
// invariant 5, §3 "Record"): with strict=false, a value whose type
// doesn't match the constraint is coerced by calling the constraint
// type's converter; with strict=true, coercion is skipped. Reassigning
// Undefined is always an error; rebinding a Constant is always an error.
func (r *Record) SetValue(value any) error {
	if r.Kind == ConstraintConstant {
		return &KandyTypeError{Message: "Can't reassign a value to 'Constant'."}
	}
	if _, ok := value.(Undefined); ok {
		return &KandyTypeError{Message: "Can't reassign 'Undefined'."}
	}

	switch r.Kind {
	case ConstraintNone:
		r.Value = value
		return nil
	case ConstraintConcrete:
		v, err := coerce(value, r.Concrete, r.Strict)
		if err != nil {
			return err
		}
		r.Value = v
		return nil
	case ConstraintUnion:
		for _, t := range r.Union {
			if t.Accepts(value) {
				r.Value = value
				return nil
			}
		}
		if r.Strict {
			return &KandyTypeError{Message: fmt.Sprintf("value does not match any of the declared types")}
		}
		for _, t := range r.Union {
			if v, err := t.Convert(value); err == nil && t.Accepts(v) {
				r.Value = v
				return nil
			}
		}
		return &KandyTypeError{Message: "value could not be coerced to any of the declared types"}
	}
	r.Value = value
	return nil
}

func coerce(value any, t *TypeConverter, strict bool) (any, error) {
	if t.Accepts(value) {
		return value, nil
	}
	if strict {
		return nil, &KandyTypeError{Message: fmt.Sprintf("expected %s, got %s", t.Name, reflect.TypeOf(value))}
	}
	v, err := t.Convert(value)
	if err != nil {
		return nil, &KandyTypeError{Message: fmt.Sprintf("can't coerce %v to %s: %v", value, t.Name, err)}
	}
	if !t.Accepts(v) {
		return nil, &KandyTypeError{Message: fmt.Sprintf("coercion to %s produced the wrong type", t.Name)}
	}
	return v, nil
}

// Apply performs an in-place augmented-assignment operator on the
// Record's current value, delegating arithmetic to apply, then routes
// through SetValue so constraint/constant checks still hold.
func (r *Record) Apply(opSymbol string, rhs any, apply func(left, right any, op string) (any, error)) error {
	result, err := apply(r.Value, rhs, opSymbol)
	if err != nil {
		return err
	}
	return r.SetValue(result)
}

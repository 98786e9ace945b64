package evaluator

import (
	"fmt"

	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// recordFor turns a parsed TypeVar annotation into the Record shape it
// describes (spec §4.3 "Scope entries (assign) rules"). strict/private
// compose independently of the kind.
func (e *Evaluator) recordFor(tv *ast.TypeVar, value any) (*runtime.Record, error) {
	if tv == nil {
		return runtime.NewRecord(value), nil
	}

	var rec *runtime.Record
	switch tv.Kind {
	case ast.TypeConst:
		rec = runtime.NewConstant(value)
	case ast.TypeDynamic, ast.TypeVarDecl, ast.TypeNone:
		rec = runtime.NewRecord(value)
	case ast.TypeExpr:
		t, err := e.resolveTypeConverter(tv.Expr)
		if err != nil {
			return nil, err
		}
		rec = runtime.NewConcrete(value, t, tv.Strict)
	case ast.TypeMultiple:
		types := make([]*runtime.TypeConverter, 0, len(tv.Types))
		for _, texpr := range tv.Types {
			t, err := e.resolveTypeConverter(texpr)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		rec = runtime.NewUnion(value, types, tv.Strict)
	default:
		rec = runtime.NewRecord(value)
	}
	rec.Private = tv.Private
	if tv.Kind != ast.TypeConst && rec.Kind == runtime.ConstraintNone && tv.Strict {
		// `strict` with no concrete type still just disables coercion,
		// which is a no-op without a constraint to coerce against.
	}
	return rec, nil
}

// resolveTypeConverter evaluates the `ID(expr)` type-expression form to
// one of the host TypeConverter singletons (spec §3 "Record").
func (e *Evaluator) resolveTypeConverter(expr ast.Expression) (*runtime.TypeConverter, error) {
	v, err := e.Eval(expr)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case *runtime.TypeConverter:
		return t, nil
	}
	return nil, kerr.New(kerr.KindTypeError, fmt.Sprintf("expected a type, got %T", v))
}

// evalAssign implements the unified assignment/declaration statement
// (spec §4.2, §4.3 "Scope entries"). Returns the assigned value so that
// `:=` can also be used as an expression.
func (e *Evaluator) evalAssign(a *ast.Assign) (any, error) {
	if a.Rhs == nil {
		// Bare declaration: `var x`, `const PI`, `Type x`, ... — binds
		// Undefined in the current top frame.
		rec, err := e.recordFor(a.TypeAnnot, runtime.Undefined{})
		if err != nil {
			return nil, err
		}
		name, ok := a.Target.(*ast.Var)
		if !ok {
			return nil, kerr.New(kerr.KindSyntaxError, "bare declaration requires a plain name")
		}
		if err := e.Stack.Peek().Set(name.Name, rec); err != nil {
			return nil, err
		}
		return runtime.Undefined{}, nil
	}

	value, err := e.Eval(a.Rhs)
	if err != nil {
		return nil, err
	}

	if a.AugOp != nil {
		cur, err := e.evalTargetRead(a.Target)
		if err != nil {
			return nil, err
		}
		value, err = applyBinaryOp(a.AugOp.Kind, cur, value)
		if err != nil {
			return nil, err
		}
	}

	if a.Op.Kind == token.QUESTION_ASSIGN {
		cur, err := e.evalTargetRead(a.Target)
		if err == nil && runtime.Truthy(cur) {
			return cur, nil
		}
	}

	if err := e.assignTarget(a.Target, value, a.TypeAnnot); err != nil {
		return nil, err
	}
	return value, nil
}

// assignTarget dispatches by target shape: plain name, attribute, index,
// or a tuple/list destructuring pattern.
func (e *Evaluator) assignTarget(target ast.Expression, value any, tv *ast.TypeVar) error {
	switch t := target.(type) {
	case *ast.Var:
		return e.assignName(t.Name, value, tv)
	case *ast.Attribute:
		container, err := e.Eval(t.Target)
		if err != nil {
			return err
		}
		return setAttribute(container, t.Name, value)
	case *ast.Slicing:
		container, err := e.Eval(t.Target)
		if err != nil {
			return err
		}
		if len(t.Indices) != 1 {
			return kerr.New(kerr.KindSyntaxError, "cannot assign to a slice")
		}
		idx, err := e.Eval(t.Indices[0])
		if err != nil {
			return err
		}
		return setIndex(container, idx, value)
	case *ast.Tuple:
		return e.destructure(tupleElements(t), value)
	case *ast.List:
		return e.destructure(t.Elements, value)
	default:
		return kerr.New(kerr.KindSyntaxError, "invalid assignment target")
	}
}

func tupleElements(t *ast.Tuple) []ast.Expression { return t.Elements }

func (e *Evaluator) destructure(targets []ast.Expression, value any) error {
	items, err := iterableElements(value)
	if err != nil {
		return err
	}
	if len(items) != len(targets) {
		return kerr.New(kerr.KindValueError, fmt.Sprintf("expected %d values to unpack, got %d", len(targets), len(items)))
	}
	for i, tgt := range targets {
		if err := e.assignTarget(tgt, items[i], nil); err != nil {
			return err
		}
	}
	return nil
}

// assignName implements new-vs-existing binding resolution: a typed
// declaration binds a fresh Record in the current frame, but only when
// the name isn't already local — re-annotating an existing local is
// rejected (spec §4.3 "Scope entries"). A bare `name = value` updates
// an existing *local* binding in place; it never reaches up the scope
// chain to mutate a caller's or the global frame's Record, falling back
// to a new dynamic binding in the current frame when no local exists.
func (e *Evaluator) assignName(name string, value any, tv *ast.TypeVar) error {
	top := e.Stack.Peek()
	if tv != nil {
		if _, ok := top.Local(name); ok {
			return kerr.New(kerr.KindTypeError, "can't reassign the variable-type")
		}
		rec, err := e.recordFor(tv, value)
		if err != nil {
			return err
		}
		return top.Set(name, rec)
	}

	if rec, ok := top.Local(name); ok {
		return rec.SetValue(value)
	}

	return top.Set(name, runtime.NewRecord(value))
}

func (e *Evaluator) evalTargetRead(target ast.Expression) (any, error) {
	return e.Eval(target)
}

func setAttribute(container any, name string, value any) error {
	switch c := container.(type) {
	case runtime.Space:
		ar, err := c.AR()
		if err != nil {
			return err
		}
		if rec, ok := ar.Local(name); ok {
			return rec.SetValue(value)
		}
		return ar.Set(name, runtime.NewRecord(value))
	case *Instance:
		if rec, ok := c.AR.Local(name); ok {
			return rec.SetValue(value)
		}
		return c.AR.Set(name, runtime.NewRecord(value))
	case *runtime.Dict:
		c.Set(name, value)
		return nil
	}
	return kerr.New(kerr.KindAttributeError, fmt.Sprintf("cannot set attribute %q on %T", name, container))
}

func setIndex(container any, idx any, value any) error {
	switch c := container.(type) {
	case *runtime.List:
		i, err := indexOf(idx, len(c.Elements))
		if err != nil {
			return err
		}
		c.Elements[i] = value
		return nil
	case *runtime.Dict:
		c.Set(idx, value)
		return nil
	}
	return kerr.New(kerr.KindTypeError, fmt.Sprintf("%T does not support item assignment", container))
}

func indexOf(idx any, length int) (int, error) {
	n, ok := idx.(int64)
	if !ok {
		return 0, kerr.New(kerr.KindTypeError, "index must be an integer")
	}
	i := int(n)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, kerr.New(kerr.KindIndexError, "index out of range")
	}
	return i, nil
}

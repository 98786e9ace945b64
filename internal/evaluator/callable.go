package evaluator

import (
	"fmt"

	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

// CallArgs is the evaluated argument bundle passed to a Callable, after
// `*rest`/`**rest` splats in the call site have been expanded (spec
// §4.4 "Callables").
type CallArgs struct {
	Positional []any
	KwNames    []string
	KwValues   map[string]any
}

// Callable is implemented by every invocable value: user procedures,
// functions, lambdas, classes (as constructors) and seeded builtins.
type Callable interface {
	CallKandy(e *Evaluator, args CallArgs) (any, error)
}

// Procedure is a named `proc` value, closing over its declaring scope.
type Procedure struct {
	Decl    *ast.ProcedureDecl
	Closure *runtime.ActivationRecord
	Self    *Instance // bound receiver, set for class methods
}

func (p *Procedure) CallKandy(e *Evaluator, args CallArgs) (any, error) {
	return e.invoke(p.Decl.Params, p.Decl.Body, p.Closure, p.Decl.IsLocal, args, p.Self, runtime.KindProcedure, "Procedure")
}

// Function is a named `def` value with an optional return-type constraint.
type Function struct {
	Decl    *ast.FunctionDecl
	Closure *runtime.ActivationRecord
	Self    *Instance
}

func (f *Function) CallKandy(e *Evaluator, args CallArgs) (any, error) {
	result, err := e.invoke(f.Decl.Params, f.Decl.Body, f.Closure, f.Decl.IsLocal, args, f.Self, runtime.KindFunction, "Function")
	if err != nil || f.Decl.ReturnType == nil {
		return result, err
	}
	rec, err := e.recordFor(f.Decl.ReturnType, result)
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// Lambda is an anonymous callable value.
type Lambda struct {
	Decl    *ast.LambdaDecl
	Closure *runtime.ActivationRecord
	Self    *Instance
}

func (l *Lambda) CallKandy(e *Evaluator, args CallArgs) (any, error) {
	switch body := l.Decl.Body.(type) {
	case ast.Expression:
		ar, err := e.bindParams(l.Decl.Params, args, l.Closure, l.Self)
		if err != nil {
			return nil, err
		}
		if l.Decl.IsLocal {
			return e.evalInFrame(ar, func() (any, error) { return e.Eval(body) })
		}
		e.Stack.Push(ar)
		defer e.Stack.Pop()
		return e.Eval(body)
	default:
		stmt, _ := l.Decl.Body.(ast.Statement)
		return e.invokeStatementBody(l.Decl.Params, stmt, l.Closure, l.Decl.IsLocal, args, l.Self, runtime.KindFunction, "Lambda")
	}
}

// BuiltinFunc wraps a host-implemented function as a Callable (spec §6
// "Seed names in BuiltIn AR").
type BuiltinFunc struct {
	Name string
	Fn   func(e *Evaluator, args CallArgs) (any, error)
}

func (b *BuiltinFunc) CallKandy(e *Evaluator, args CallArgs) (any, error) { return b.Fn(e, args) }

func (e *Evaluator) invoke(params []*ast.Param, body Node, closure *runtime.ActivationRecord, isLocal bool, args CallArgs, self *Instance, kind runtime.ARKind, label string) (any, error) {
	return e.invokeStatementBody(params, body.(ast.Statement), closure, isLocal, args, self, kind, label)
}

// Node is an alias kept local to avoid importing ast twice under two
// names in this file's signatures.
type Node = ast.Node

func (e *Evaluator) invokeStatementBody(params []*ast.Param, body ast.Statement, closure *runtime.ActivationRecord, isLocal bool, args CallArgs, self *Instance, kind runtime.ARKind, label string) (any, error) {
	ar, err := e.bindParams(params, args, closure, self)
	if err != nil {
		return nil, err
	}

	var result any = runtime.None
	run := func() (any, error) {
		v, sig, err := e.evalStatement(body)
		if err != nil {
			return nil, err
		}
		if sig != nil && sig.kind == ast.ActionReturn {
			return sig.value, nil
		}
		if sig != nil && sig.kind == ast.ActionExport {
			return &runtime.NamedSpace{Name: label, Rec: e.Stack.Peek()}, nil
		}
		return v, nil
	}

	if isLocal {
		return e.evalInFrame(ar, run)
	}

	e.Stack.Push(ar)
	defer e.Stack.Pop()
	v, err := run()
	if err != nil {
		return nil, err
	}
	result = v
	return result, nil
}

// evalInFrame copies ar's bindings into the current top frame and then
// runs fn — the `local` procedure/function/lambda contract reuses the
// caller's own scope rather than pushing a child (spec §4.4
// "is_local"). The copied bindings stay in that frame after fn returns.
func (e *Evaluator) evalInFrame(ar *runtime.ActivationRecord, fn func() (any, error)) (any, error) {
	top := e.Stack.Peek()
	for _, name := range ar.Names() {
		rec, _ := ar.Local(name)
		top.Define(name, rec)
	}
	return fn()
}

// bindParams implements the parameter-binding algorithm (spec §4.4):
// positional args fill named params in order, `*rest` absorbs leftover
// positionals into a Tuple, keyword args (incl. `**rest`) bind by name,
// and unfilled params fall back to their default expression.
func (e *Evaluator) bindParams(params []*ast.Param, args CallArgs, closure *runtime.ActivationRecord, self *Instance) (*runtime.ActivationRecord, error) {
	level := 0
	if closure != nil {
		level = closure.NestingLevel + 1
	}
	ar := runtime.NewActivationRecord("Call", runtime.KindFunction, level, closure)

	if self != nil {
		ar.Define("self", runtime.NewRecord(self))
	}

	kwUsed := make(map[string]bool, len(args.KwNames))
	posIdx := 0

	for _, p := range params {
		if p.IsTupleRest {
			rest := append([]any{}, args.Positional[posIdx:]...)
			posIdx = len(args.Positional)
			ar.Define(p.Name, runtime.NewRecord(&runtime.Tuple{Elements: rest}))
			continue
		}
		if p.IsDictRest {
			d := runtime.NewDict()
			for _, kw := range args.KwNames {
				if kwUsed[kw] {
					continue
				}
				if isDeclaredParam(params, kw) {
					continue
				}
				d.Set(kw, args.KwValues[kw])
				kwUsed[kw] = true
			}
			ar.Define(p.Name, runtime.NewRecord(d))
			continue
		}

		if kw, ok := args.KwValues[p.Name]; ok && !kwUsed[p.Name] {
			kwUsed[p.Name] = true
			rec, err := e.paramRecord(p, kw)
			if err != nil {
				return nil, err
			}
			ar.Define(p.Name, rec)
			continue
		}

		if posIdx < len(args.Positional) {
			v := args.Positional[posIdx]
			posIdx++
			rec, err := e.paramRecord(p, v)
			if err != nil {
				return nil, err
			}
			ar.Define(p.Name, rec)
			continue
		}

		if p.Default != nil {
			v, err := e.Eval(p.Default)
			if err != nil {
				return nil, err
			}
			rec, err := e.paramRecord(p, v)
			if err != nil {
				return nil, err
			}
			ar.Define(p.Name, rec)
			continue
		}

		return nil, kerr.New(kerr.KindTypeError, fmt.Sprintf("missing required argument: %q", p.Name))
	}

	if posIdx < len(args.Positional) && !hasTupleRest(params) {
		return nil, kerr.New(kerr.KindTypeError, fmt.Sprintf("too many positional arguments: expected %d, got %d", posIdx, len(args.Positional)))
	}
	for _, kw := range args.KwNames {
		if !kwUsed[kw] && !hasDictRest(params) {
			return nil, kerr.New(kerr.KindTypeError, fmt.Sprintf("unexpected keyword argument: %q", kw))
		}
	}

	return ar, nil
}

func (e *Evaluator) paramRecord(p *ast.Param, value any) (*runtime.Record, error) {
	if p.TypeAnnot == nil {
		return runtime.NewRecord(value), nil
	}
	return e.recordFor(p.TypeAnnot, value)
}

func isDeclaredParam(params []*ast.Param, name string) bool {
	for _, p := range params {
		if p.Name == name {
			return true
		}
	}
	return false
}

func hasTupleRest(params []*ast.Param) bool {
	for _, p := range params {
		if p.IsTupleRest {
			return true
		}
	}
	return false
}

func hasDictRest(params []*ast.Param) bool {
	for _, p := range params {
		if p.IsDictRest {
			return true
		}
	}
	return false
}

// evalCall evaluates a call expression: the callee, its arguments
// (expanding `*splat`/`**splat` entries), and dispatches to Callable.
func (e *Evaluator) evalCall(n *ast.Call) (any, error) {
	callee, err := e.resolveCallee(n.Callee)
	if err != nil {
		return nil, err
	}

	args := CallArgs{KwValues: map[string]any{}}
	for _, a := range n.Args {
		switch st := a.(type) {
		case *ast.StarredTuple:
			v, err := e.Eval(st.Value)
			if err != nil {
				return nil, err
			}
			items, err := iterableElements(v)
			if err != nil {
				return nil, err
			}
			args.Positional = append(args.Positional, items...)
		case *ast.StarredDict:
			v, err := e.Eval(st.Value)
			if err != nil {
				return nil, err
			}
			d, ok := v.(*runtime.Dict)
			if !ok {
				return nil, kerr.New(kerr.KindTypeError, "** splat requires a dict")
			}
			for _, k := range d.Keys() {
				name, ok := k.(string)
				if !ok {
					return nil, kerr.New(kerr.KindTypeError, "** splat keys must be strings")
				}
				val, _ := d.Get(k)
				args.KwNames = append(args.KwNames, name)
				args.KwValues[name] = val
			}
		default:
			v, err := e.Eval(a)
			if err != nil {
				return nil, err
			}
			args.Positional = append(args.Positional, v)
		}
	}
	for _, kw := range n.Kwargs {
		v, err := e.Eval(kw.Value)
		if err != nil {
			return nil, err
		}
		args.KwNames = append(args.KwNames, kw.Name)
		args.KwValues[kw.Name] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		if cls, ok := callee.(*Class); ok {
			return e.instantiate(cls, args)
		}
		return nil, kerr.NewAt(kerr.KindTypeError, n.Pos(), fmt.Sprintf("%T is not callable", callee))
	}
	return callable.CallKandy(e, args)
}

// resolveCallee evaluates the callee expression, binding a method
// lookup (`instance.method`) as a receiver-bound Callable.
func (e *Evaluator) resolveCallee(expr ast.Expression) (any, error) {
	if attr, ok := expr.(*ast.Attribute); ok {
		target, err := e.Eval(attr.Target)
		if err != nil {
			return nil, err
		}
		if inst, ok := target.(*Instance); ok {
			return e.boundMethod(inst, attr.Name, attr.Pos())
		}
		return e.getAttribute(target, attr.Name, attr.Pos())
	}
	return e.Eval(expr)
}

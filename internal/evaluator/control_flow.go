package evaluator

import (
	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/token"
)

func (e *Evaluator) evalIfStatement(s *ast.IfStatement) (any, *controlSignal, error) {
	cond, err := e.Eval(s.Cond)
	if err != nil {
		return nil, nil, err
	}
	if runtime.Truthy(cond) {
		return e.evalCompound(s.Then.Statements, false)
	}
	for _, elif := range s.Elifs {
		c, err := e.Eval(elif.Cond)
		if err != nil {
			return nil, nil, err
		}
		if runtime.Truthy(c) {
			return e.evalCompound(elif.Body.Statements, false)
		}
	}
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

func (e *Evaluator) evalUnlessStatement(s *ast.UnlessStatement) (any, *controlSignal, error) {
	cond, err := e.Eval(s.Cond)
	if err != nil {
		return nil, nil, err
	}
	if !runtime.Truthy(cond) {
		return e.evalCompound(s.Then.Statements, false)
	}
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

// loopOutcome classifies how a loop body's control signal should affect
// the enclosing loop: whether it breaks, the loop's own else-clause
// exclusivity (spec §8 invariant 7: a `break` skips the loop's `else`,
// normal exhaustion runs it), and whatever propagates further up.
type loopOutcome struct {
	brokeOut bool
	signal   *controlSignal
}

// runLoopBody evaluates one iteration's body against a loop's LoopControl
// and `as name` binding, resolving break/continue target matching (spec
// §4.3 "Control-flow side channels"): a target consumes here only if
// empty or equal to the loop's own binding name.
func (e *Evaluator) runLoopBody(body *ast.CompoundWithNoReturn, lc *runtime.LoopControl, asName string) (cont bool, outcome loopOutcome, err error) {
	lc.Begin()
	if asName != "" {
		e.Stack.Peek().Define(asName, runtime.NewRecord(lc))
	}
	_, sig, err := e.evalCompound(body.Statements, false)
	if err != nil {
		return false, loopOutcome{}, err
	}
	if sig == nil {
		lc.End()
		return true, loopOutcome{}, nil
	}
	matches := sig.target == "" || sig.target == asName
	switch sig.kind {
	case ast.ActionBreak:
		if matches {
			return false, loopOutcome{brokeOut: true}, nil
		}
		return false, loopOutcome{brokeOut: true, signal: sig}, nil
	case ast.ActionContinue:
		if matches {
			lc.End()
			return true, loopOutcome{}, nil
		}
		return false, loopOutcome{brokeOut: true, signal: sig}, nil
	default:
		return false, loopOutcome{brokeOut: true, signal: sig}, nil
	}
}

func (e *Evaluator) evalWhileStatement(s *ast.WhileStatement) (any, *controlSignal, error) {
	lc := runtime.NewLoopControl()
	first := true
	for {
		if !s.DoFirst || !first {
			cond, err := e.Eval(s.Cond)
			if err != nil {
				return nil, nil, err
			}
			if !runtime.Truthy(cond) {
				break
			}
		}
		first = false
		cont, out, err := e.runLoopBody(s.Body, lc, s.AsName)
		if err != nil {
			return nil, nil, err
		}
		if out.signal != nil {
			return nil, out.signal, nil
		}
		if !cont {
			lc.Finish()
			return runtime.None, nil, nil
		}
	}
	lc.Finish()
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

func (e *Evaluator) evalUntilStatement(s *ast.UntilStatement) (any, *controlSignal, error) {
	lc := runtime.NewLoopControl()
	first := true
	for {
		if !s.DoFirst || !first {
			cond, err := e.Eval(s.Cond)
			if err != nil {
				return nil, nil, err
			}
			if runtime.Truthy(cond) {
				break
			}
		}
		first = false
		cont, out, err := e.runLoopBody(s.Body, lc, s.AsName)
		if err != nil {
			return nil, nil, err
		}
		if out.signal != nil {
			return nil, out.signal, nil
		}
		if !cont {
			lc.Finish()
			return runtime.None, nil, nil
		}
	}
	lc.Finish()
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

func (e *Evaluator) evalRepeatStatement(s *ast.RepeatStatement) (any, *controlSignal, error) {
	lc := runtime.NewLoopControl()
	for {
		cont, out, err := e.runLoopBody(s.Body, lc, s.AsName)
		if err != nil {
			return nil, nil, err
		}
		if out.signal != nil {
			return nil, out.signal, nil
		}
		if !cont {
			lc.Finish()
			return runtime.None, nil, nil
		}
		cond, err := e.Eval(s.Cond)
		if err != nil {
			return nil, nil, err
		}
		if runtime.Truthy(cond) {
			break
		}
	}
	lc.Finish()
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

func (e *Evaluator) evalForInStatement(s *ast.ForInStatement) (any, *controlSignal, error) {
	iterable, err := e.Eval(s.Iterable)
	if err != nil {
		return nil, nil, err
	}
	items, err := iterableElements(iterable)
	if err != nil {
		return nil, nil, err
	}

	chunk := 1
	if s.Take != nil {
		tv, err := e.Eval(s.Take)
		if err != nil {
			return nil, nil, err
		}
		n, ok := tv.(int64)
		if !ok || n <= 0 {
			return nil, nil, kerr.New(kerr.KindValueError, "'take' requires a positive integer")
		}
		chunk = int(n)
	}

	lc := runtime.NewLoopControl()
	top := e.Stack.Peek()
	for i := 0; i < len(items); i += chunk {
		group := items[i:min(i+chunk, len(items))]
		if err := bindForVars(top, s.Vars, group, chunk); err != nil {
			return nil, nil, err
		}
		cont, out, err := e.runLoopBody(s.Body, lc, s.AsName)
		if err != nil {
			return nil, nil, err
		}
		if out.signal != nil {
			return nil, out.signal, nil
		}
		if !cont {
			lc.Finish()
			return runtime.None, nil, nil
		}
	}
	lc.Finish()
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

func bindForVars(ar *runtime.ActivationRecord, vars []string, group []any, chunk int) error {
	if chunk > 1 || len(vars) == 1 {
		if len(vars) == 1 {
			if chunk > 1 {
				ar.Define(vars[0], runtime.NewRecord(&runtime.Tuple{Elements: group}))
			} else {
				ar.Define(vars[0], runtime.NewRecord(group[0]))
			}
			return nil
		}
	}
	if chunk == 1 {
		row, err := iterableElements(group[0])
		if err != nil {
			return err
		}
		group = row
	} else {
		cols := make([]any, len(vars))
		for i := range vars {
			col := make([]any, len(group))
			for j, el := range group {
				row, err := iterableElements(el)
				if err != nil || len(row) != len(vars) {
					return kerr.New(kerr.KindValueError, "for-in tuple-unpacking arity mismatch")
				}
				col[j] = row[i]
			}
			cols[i] = &runtime.Tuple{Elements: col}
		}
		group = cols
	}
	if len(vars) != len(group) {
		return kerr.New(kerr.KindValueError, "for-in tuple-unpacking arity mismatch")
	}
	for i, name := range vars {
		ar.Define(name, runtime.NewRecord(group[i]))
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (e *Evaluator) evalForFromToStatement(s *ast.ForFromToStatement) (any, *controlSignal, error) {
	from, err := e.Eval(s.From)
	if err != nil {
		return nil, nil, err
	}
	to, err := e.Eval(s.To)
	if err != nil {
		return nil, nil, err
	}
	fi, ok1 := from.(int64)
	ti, ok2 := to.(int64)
	if !ok1 || !ok2 {
		return nil, nil, kerr.New(kerr.KindTypeError, "'for...from...to' bounds must be integers")
	}

	step := int64(1)
	if ti < fi {
		step = -1
	}

	lc := runtime.NewLoopControl()
	top := e.Stack.Peek()
	for i := fi; (step > 0 && i <= ti) || (step < 0 && i >= ti); i += step {
		top.Define(s.Var, runtime.NewRecord(i))
		cont, out, err := e.runLoopBody(s.Body, lc, s.AsName)
		if err != nil {
			return nil, nil, err
		}
		if out.signal != nil {
			return nil, out.signal, nil
		}
		if !cont {
			lc.Finish()
			return runtime.None, nil, nil
		}
	}
	lc.Finish()
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

func (e *Evaluator) evalForCStatement(s *ast.ForCStatement) (any, *controlSignal, error) {
	if s.Init != nil {
		if _, _, err := e.evalStatement(s.Init); err != nil {
			return nil, nil, err
		}
	}

	lc := runtime.NewLoopControl()
	for {
		if s.Cond != nil {
			cond, err := e.Eval(s.Cond)
			if err != nil {
				return nil, nil, err
			}
			if !runtime.Truthy(cond) {
				break
			}
		}
		cont, out, err := e.runLoopBody(s.Body, lc, s.AsName)
		if err != nil {
			return nil, nil, err
		}
		if out.signal != nil {
			return nil, out.signal, nil
		}
		if !cont {
			lc.Finish()
			return runtime.None, nil, nil
		}
		if s.Step != nil {
			if _, _, err := e.evalStatement(s.Step); err != nil {
				return nil, nil, err
			}
		}
	}
	lc.Finish()
	if s.Else != nil {
		return e.evalCompound(s.Else.Statements, false)
	}
	return runtime.None, nil, nil
}

func (e *Evaluator) evalSwitchStatement(s *ast.SwitchCaseStatement) (any, *controlSignal, error) {
	head, err := e.Eval(s.Head)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range s.Cases {
		for _, cexpr := range c.Exprs {
			cv, err := e.Eval(cexpr)
			if err != nil {
				return nil, nil, err
			}
			if valuesEqual(head, cv) {
				v, sig, err := e.evalCompound(c.Body.Statements, false)
				if sig != nil && sig.kind == ast.ActionBreak && sig.target == "" {
					sig = nil
				}
				return v, sig, err
			}
		}
	}
	if s.Default != nil {
		v, sig, err := e.evalCompound(s.Default.Statements, false)
		if sig != nil && sig.kind == ast.ActionBreak && sig.target == "" {
			sig = nil
		}
		return v, sig, err
	}
	return runtime.None, nil, nil
}

func (e *Evaluator) evalWhenExpr(n *ast.WhenCaseStatement) (any, error) {
	head, err := e.Eval(n.Head)
	if err != nil {
		return nil, err
	}
	for _, c := range n.Cases {
		cv, err := e.Eval(c.Expr)
		if err != nil {
			return nil, err
		}
		if valuesEqual(head, cv) {
			return e.Eval(c.Value)
		}
	}
	if n.Default != nil {
		return e.Eval(n.Default)
	}
	return runtime.None, nil
}

// evalTryStatement implements try/except/finally/else (spec §4.3,
// §8 invariant 9: finally always runs exactly once; §4.5 "except
// matching uses the loose class-hierarchy Is()").
func (e *Evaluator) evalTryStatement(s *ast.TryStatement) (any, *controlSignal, error) {
	v, sig, err := e.evalCompound(s.Body.Statements, false)

	if err != nil {
		ke, ok := err.(*kerr.KandyError)
		if !ok {
			ke = kerr.New(kerr.KindInterpreterError, err.Error())
		}
		handled := false
		for _, ex := range s.Excepts {
			if ex.ExceptionExpr != nil {
				name, ok := exceptionName(ex.ExceptionExpr)
				if !ok || !ke.Is(name) {
					continue
				}
			}
			if ex.AsName != "" {
				e.Stack.Peek().Define(ex.AsName, runtime.NewRecord(ke))
			}
			v, sig, err = e.evalCompound(ex.Body.Statements, false)
			handled = true
			break
		}
		if !handled {
			if s.Finally != nil {
				if _, fsig, ferr := e.evalCompound(s.Finally.Statements, false); ferr != nil || fsig != nil {
					return v, fsig, ferr
				}
			}
			return nil, nil, err
		}
	} else if s.Else != nil {
		v, sig, err = e.evalCompound(s.Else.Statements, false)
	}

	if s.Finally != nil {
		_, fsig, ferr := e.evalCompound(s.Finally.Statements, false)
		if ferr != nil {
			return nil, nil, ferr
		}
		if fsig != nil {
			return nil, fsig, nil
		}
	}
	return v, sig, err
}

func exceptionName(expr ast.Expression) (string, bool) {
	if v, ok := expr.(*ast.Var); ok {
		return v.Name, true
	}
	if a, ok := expr.(*ast.Attribute); ok {
		return a.Name, true
	}
	return "", false
}

func (e *Evaluator) evalWithStatement(s *ast.WithStatement) (any, *controlSignal, error) {
	resource, err := e.Eval(s.Resource)
	if err != nil {
		return nil, nil, err
	}
	if s.AsName != "" {
		e.Stack.Peek().Define(s.AsName, runtime.NewRecord(resource))
	}
	defer e.releaseResource(resource)
	return e.evalCompound(s.Body.Statements, false)
}

// releaseResource calls a resource's `close`/`release` method, if it has
// one, on every exit path from a `with` block.
func (e *Evaluator) releaseResource(resource any) {
	inst, ok := resource.(*Instance)
	if !ok {
		return
	}
	for _, name := range []string{"close", "release"} {
		if callable, err := e.boundMethod(inst, name, token.Position{}); err == nil {
			if c, ok := callable.(Callable); ok {
				_, _ = c.CallKandy(e, CallArgs{})
			}
			return
		}
	}
}

func (e *Evaluator) evalUsingStatement(s *ast.UsingStatement) (any, *controlSignal, error) {
	resource, err := e.Eval(s.Resource)
	if err != nil {
		return nil, nil, err
	}
	var ar *runtime.ActivationRecord
	switch r := resource.(type) {
	case *Instance:
		ar = r.AR
	case runtime.Space:
		if ar, err = r.AR(); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, kerr.New(kerr.KindTypeError, "'using' requires a Space-like value or a class instance")
	}
	e.Stack.Push(ar)
	defer e.Stack.Pop()
	return e.evalCompound(s.Body.Statements, false)
}

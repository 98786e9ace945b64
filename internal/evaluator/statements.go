package evaluator

import (
	"github.com/kyouko8/kandyscript/internal/ast"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

// evalStatement evaluates one statement, returning its expression value
// (when it produces one), a control-flow signal if a return/break/
// continue/export bubbled out of it, or an error.
func (e *Evaluator) evalStatement(stmt ast.Statement) (any, *controlSignal, error) {
	switch s := stmt.(type) {
	case *ast.Compound:
		return e.evalCompound(s.Statements, true)
	case *ast.CompoundWithNoReturn:
		return e.evalCompound(s.Statements, false)
	case *ast.ExpressionStatement:
		v, err := e.Eval(s.Expr)
		return v, nil, err
	case *ast.PassStatement:
		return runtime.None, nil, nil
	case nil:
		return runtime.None, nil, nil
	case *ast.Assign:
		v, err := e.evalAssign(s)
		return v, nil, err
	case *ast.ScriptAction:
		return e.evalScriptAction(s)
	case *ast.ProcedureDecl:
		proc := &Procedure{Decl: s, Closure: e.Stack.Peek()}
		err := e.Stack.Peek().Set(s.Name, runtime.NewRecord(proc))
		return runtime.None, nil, err
	case *ast.FunctionDecl:
		fn := &Function{Decl: s, Closure: e.Stack.Peek()}
		err := e.Stack.Peek().Set(s.Name, runtime.NewRecord(fn))
		return runtime.None, nil, err
	case *ast.ClassStatement:
		err := e.evalClassStatement(s)
		return runtime.None, nil, err
	case *ast.DeleteStatement:
		// Deliberate no-op: matches the original's DeleteStatement
		// evaluator (spec §9(b)).
		return runtime.None, nil, nil
	case *ast.IfStatement:
		return e.evalIfStatement(s)
	case *ast.UnlessStatement:
		return e.evalUnlessStatement(s)
	case *ast.WhileStatement:
		return e.evalWhileStatement(s)
	case *ast.UntilStatement:
		return e.evalUntilStatement(s)
	case *ast.RepeatStatement:
		return e.evalRepeatStatement(s)
	case *ast.ForInStatement:
		return e.evalForInStatement(s)
	case *ast.ForFromToStatement:
		return e.evalForFromToStatement(s)
	case *ast.ForCStatement:
		return e.evalForCStatement(s)
	case *ast.SwitchCaseStatement:
		return e.evalSwitchStatement(s)
	case *ast.TryStatement:
		return e.evalTryStatement(s)
	case *ast.WithStatement:
		return e.evalWithStatement(s)
	case *ast.UsingStatement:
		return e.evalUsingStatement(s)
	case *ast.ImportStatement:
		return e.evalImportStatement(s)
	}
	return nil, nil, unhandledStatement(stmt)
}

func (e *Evaluator) evalStatements(stmts []ast.Statement) (any, *controlSignal, error) {
	var last any = runtime.None
	for _, stmt := range stmts {
		v, sig, err := e.evalStatement(stmt)
		if err != nil {
			return nil, nil, err
		}
		if sig != nil {
			return v, sig, nil
		}
		if v != nil {
			last = v
		}
	}
	return last, nil, nil
}

// evalCompound runs a statement list; consumeReturn selects whether a
// `return` ScriptAction is absorbed here (procedure/function/lambda
// bodies) or bubbled further up (every other compound body) — spec
// §4.3 "Control-flow side channels".
func (e *Evaluator) evalCompound(stmts []ast.Statement, consumeReturn bool) (any, *controlSignal, error) {
	v, sig, err := e.evalStatements(stmts)
	if err != nil || sig == nil {
		return v, sig, err
	}
	if consumeReturn && sig.kind == ast.ActionReturn {
		return sig.value, nil, nil
	}
	return v, sig, nil
}

func (e *Evaluator) evalScriptAction(s *ast.ScriptAction) (any, *controlSignal, error) {
	switch s.Action {
	case ast.ActionReturn:
		var v any = runtime.None
		if s.Value != nil {
			val, err := e.Eval(s.Value)
			if err != nil {
				return nil, nil, err
			}
			v = val
		}
		return nil, &controlSignal{kind: ast.ActionReturn, value: v}, nil
	case ast.ActionBreak:
		return nil, &controlSignal{kind: ast.ActionBreak, target: s.Target}, nil
	case ast.ActionContinue:
		return nil, &controlSignal{kind: ast.ActionContinue, target: s.Target}, nil
	case ast.ActionExport:
		space := &runtime.NamedSpace{Name: "export", Rec: e.Stack.Peek()}
		return nil, &controlSignal{kind: ast.ActionExport, value: space}, nil
	}
	return runtime.None, nil, nil
}

func unhandledStatement(stmt ast.Statement) error {
	return &unhandledStatementError{stmt}
}

type unhandledStatementError struct{ stmt ast.Statement }

func (u *unhandledStatementError) Error() string {
	return "evaluator: unhandled statement " + u.stmt.String()
}

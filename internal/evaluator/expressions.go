package evaluator

import (
	"fmt"

	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// Eval dispatches a single expression node to its value (spec §4.1, §4.3).
func (e *Evaluator) Eval(node ast.Node) (any, error) {
	switch n := node.(type) {
	case *ast.Number:
		if n.IsFloat {
			return n.Float, nil
		}
		return n.Int, nil
	case *ast.Bool:
		return n.Value, nil
	case *ast.NoneValue:
		return runtime.None, nil
	case *ast.Undefined:
		return runtime.Undefined{}, nil
	case *ast.String:
		return e.evalString(n)
	case *ast.Bytes:
		return runtime.Bytes(n.Literal.Content), nil
	case *ast.Var:
		return e.evalVar(n)
	case *ast.Empty:
		return runtime.None, nil
	case *ast.ValueAST:
		return n.Value, nil
	case *ast.Tuple:
		els, err := e.evalExprList(n.Elements)
		if err != nil {
			return nil, err
		}
		return &runtime.Tuple{Elements: els}, nil
	case *ast.List:
		els, err := e.evalExprList(n.Elements)
		if err != nil {
			return nil, err
		}
		return &runtime.List{Elements: els}, nil
	case *ast.Set:
		return e.evalSet(n)
	case *ast.Dict:
		return e.evalDict(n)
	case *ast.BinOp:
		return e.evalBinOp(n)
	case *ast.UnaryOp:
		return e.evalUnaryOp(n)
	case *ast.Attribute:
		return e.evalAttribute(n)
	case *ast.Slicing:
		return e.evalSlicing(n)
	case *ast.Call:
		return e.evalCall(n)
	case *ast.IfExpr:
		cond, err := e.Eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return e.Eval(n.Then)
		}
		return e.Eval(n.Else)
	case *ast.UnlessExpr:
		cond, err := e.Eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return e.Eval(n.Then)
		}
		return e.Eval(n.Else)
	case *ast.IfNotNullExpr:
		primary, err := e.Eval(n.Primary)
		if err != nil {
			return nil, err
		}
		if isNullish(primary) {
			return e.Eval(n.Alt)
		}
		return primary, nil
	case *ast.WhenCaseStatement:
		return e.evalWhenExpr(n)
	case *ast.LambdaDecl:
		return &Lambda{Decl: n, Closure: e.Stack.Peek()}, nil
	case *ast.Assign:
		return e.evalAssign(n)
	case *ast.StarredTuple:
		return e.Eval(n.Value)
	case *ast.StarredDict:
		return e.Eval(n.Value)
	case *ast.TypeVar:
		return e.evalTypeVarValue(n)
	}
	return nil, fmt.Errorf("evaluator: unhandled expression node %T", node)
}

func isNullish(v any) bool {
	switch v.(type) {
	case runtime.NoneType, runtime.Undefined:
		return true
	case nil:
		return true
	}
	return false
}

func (e *Evaluator) evalExprList(exprs []ast.Expression) ([]any, error) {
	var out []any
	for _, ex := range exprs {
		if st, ok := ex.(*ast.StarredTuple); ok {
			v, err := e.Eval(st.Value)
			if err != nil {
				return nil, err
			}
			items, err := iterableElements(v)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
			continue
		}
		v, err := e.Eval(ex)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalSet(n *ast.Set) (any, error) {
	s := runtime.NewSet()
	els, err := e.evalExprList(n.Elements)
	if err != nil {
		return nil, err
	}
	for _, v := range els {
		s.Add(v)
	}
	return s, nil
}

func (e *Evaluator) evalDict(n *ast.Dict) (any, error) {
	d := runtime.NewDict()
	for _, entry := range n.Entries {
		k, err := e.Eval(entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := e.Eval(entry.Value)
		if err != nil {
			return nil, err
		}
		d.Set(k, v)
	}
	return d, nil
}

func (e *Evaluator) evalVar(n *ast.Var) (any, error) {
	rec, err := e.Stack.Peek().Get(n.Name, false, false)
	if err != nil {
		return nil, kerr.NewAt(kerr.KindNameError, n.Pos(), fmt.Sprintf("name %q is not defined", n.Name))
	}
	return rec.Value, nil
}

func (e *Evaluator) evalTypeVarValue(tv *ast.TypeVar) (any, error) {
	switch tv.Kind {
	case ast.TypeExpr:
		return e.resolveTypeConverter(tv.Expr)
	case ast.TypeMultiple:
		types := make([]*runtime.TypeConverter, 0, len(tv.Types))
		for _, texpr := range tv.Types {
			t, err := e.resolveTypeConverter(texpr)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		return &runtime.MultipleTypes{Types: types}, nil
	}
	return runtime.None, nil
}

func (e *Evaluator) evalBinOp(n *ast.BinOp) (any, error) {
	switch n.Op.Kind {
	case token.AND:
		left, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(left) {
			return left, nil
		}
		return e.Eval(n.Right)
	case token.OR:
		left, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(left) {
			return left, nil
		}
		return e.Eval(n.Right)
	case token.XOR:
		left, err := e.Eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(n.Right)
		if err != nil {
			return nil, err
		}
		return runtime.Truthy(left) != runtime.Truthy(right), nil
	}

	left, err := e.Eval(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right)
	if err != nil {
		return nil, err
	}
	v, err := applyBinaryOp(n.Op.Kind, left, right)
	if err != nil {
		if ke, ok := err.(*kerr.KandyError); ok && !ke.HasPos {
			return nil, kerr.NewAt(ke.Kind, n.Pos(), ke.Message)
		}
		return nil, err
	}
	return v, nil
}

func (e *Evaluator) evalUnaryOp(n *ast.UnaryOp) (any, error) {
	v, err := e.Eval(n.Operand)
	if err != nil {
		return nil, err
	}
	return applyUnaryOp(n.Op.Kind, v)
}

func (e *Evaluator) evalAttribute(n *ast.Attribute) (any, error) {
	target, err := e.Eval(n.Target)
	if err != nil {
		return nil, err
	}
	return e.getAttribute(target, n.Name, n.Pos())
}

func (e *Evaluator) getAttribute(target any, name string, pos token.Position) (any, error) {
	switch t := target.(type) {
	case runtime.Space:
		ar, err := t.AR()
		if err != nil {
			return nil, err
		}
		rec, err := ar.Get(name, true, false)
		if err != nil {
			return nil, kerr.NewAt(kerr.KindAttributeError, pos, fmt.Sprintf("no attribute %q", name))
		}
		return rec.Value, nil
	case *Instance:
		return e.instanceAttribute(t, name, pos)
	case *Class:
		rec, err := t.ClassAR.Get(name, true, false)
		if err != nil {
			return nil, kerr.NewAt(kerr.KindAttributeError, pos, fmt.Sprintf("no attribute %q on class %s", name, t.Name))
		}
		return rec.Value, nil
	case *runtime.Dict:
		if v, ok := t.Get(name); ok {
			return v, nil
		}
	}
	if v, ok := builtinAttribute(target, name); ok {
		return v, nil
	}
	return nil, kerr.NewAt(kerr.KindAttributeError, pos, fmt.Sprintf("%T has no attribute %q", target, name))
}

func (e *Evaluator) evalSlicing(n *ast.Slicing) (any, error) {
	target, err := e.Eval(n.Target)
	if err != nil {
		return nil, err
	}
	idxVals := make([]any, len(n.Indices))
	for i, idx := range n.Indices {
		if idx == nil {
			idxVals[i] = nil
			continue
		}
		v, err := e.Eval(idx)
		if err != nil {
			return nil, err
		}
		idxVals[i] = v
	}
	if len(idxVals) == 1 {
		return indexValue(target, idxVals[0])
	}
	return sliceValue(target, idxVals)
}

func indexValue(target, idx any) (any, error) {
	switch t := target.(type) {
	case *runtime.List:
		i, err := indexOf(idx, len(t.Elements))
		if err != nil {
			return nil, err
		}
		return t.Elements[i], nil
	case *runtime.Tuple:
		i, err := indexOf(idx, len(t.Elements))
		if err != nil {
			return nil, err
		}
		return t.Elements[i], nil
	case string:
		runes := []rune(t)
		i, err := indexOf(idx, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case *runtime.Dict:
		v, ok := t.Get(idx)
		if !ok {
			return nil, kerr.New(kerr.KindKeyError, fmt.Sprintf("%v", idx))
		}
		return v, nil
	}
	return nil, kerr.New(kerr.KindTypeError, fmt.Sprintf("%T is not subscriptable", target))
}

func sliceValue(target any, idx []any) (any, error) {
	length, err := sequenceLen(target)
	if err != nil {
		return nil, err
	}
	start, stop, step := normalizeSlice(idx, length)
	var out []any
	if step > 0 {
		for i := start; i < stop; i += step {
			v, err := indexValue(target, int64(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	} else if step < 0 {
		for i := start; i > stop; i += step {
			v, err := indexValue(target, int64(i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	switch target.(type) {
	case string:
		s := ""
		for _, v := range out {
			s += v.(string)
		}
		return s, nil
	case *runtime.Tuple:
		return &runtime.Tuple{Elements: out}, nil
	default:
		return &runtime.List{Elements: out}, nil
	}
}

func sequenceLen(v any) (int, error) {
	switch t := v.(type) {
	case *runtime.List:
		return len(t.Elements), nil
	case *runtime.Tuple:
		return len(t.Elements), nil
	case string:
		return len([]rune(t)), nil
	}
	return 0, kerr.New(kerr.KindTypeError, fmt.Sprintf("%T is not sliceable", v))
}

func normalizeSlice(idx []any, length int) (start, stop, step int) {
	step = 1
	if len(idx) == 3 && idx[2] != nil {
		step = int(idx[2].(int64))
	}
	if step >= 0 {
		start = 0
		stop = length
	} else {
		start = length - 1
		stop = -1
	}
	if len(idx) >= 1 && idx[0] != nil {
		start = clampIndex(int(idx[0].(int64)), length)
	}
	if len(idx) >= 2 && idx[1] != nil {
		stop = clampIndex(int(idx[1].(int64)), length)
	}
	return start, stop, step
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

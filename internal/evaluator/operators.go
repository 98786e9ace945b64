package evaluator

import (
	"fmt"
	"math"

	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/token"
)

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func bothInts(a, b any) (int64, int64, bool) {
	ai, ok1 := a.(int64)
	bi, ok2 := b.(int64)
	return ai, bi, ok1 && ok2
}

// applyBinaryOp implements the full arithmetic/bitwise/string-concat
// operator table used both by BinOp evaluation and by augmented
// assignment (spec §4.1 "Operator precedence cascade").
func applyBinaryOp(op token.Kind, left, right any) (any, error) {
	switch op {
	case token.PLUS:
		return opPlus(left, right)
	case token.MINUS:
		return opArith(left, right, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case token.MULT:
		return opMult(left, right)
	case token.DIV:
		lf, ok1 := asFloat(left)
		rf, ok2 := asFloat(right)
		if !ok1 || !ok2 {
			return nil, typeErr("/", left, right)
		}
		if rf == 0 {
			return nil, kerr.New(kerr.KindZeroDivisionError, "division by zero")
		}
		return lf / rf, nil
	case token.FLOORDIV:
		li, ri, ok := bothInts(left, right)
		if ok {
			if ri == 0 {
				return nil, kerr.New(kerr.KindZeroDivisionError, "division by zero")
			}
			return int64(math.Floor(float64(li) / float64(ri))), nil
		}
		lf, ok1 := asFloat(left)
		rf, ok2 := asFloat(right)
		if !ok1 || !ok2 {
			return nil, typeErr("//", left, right)
		}
		if rf == 0 {
			return nil, kerr.New(kerr.KindZeroDivisionError, "division by zero")
		}
		return math.Floor(lf / rf), nil
	case token.MOD:
		li, ri, ok := bothInts(left, right)
		if ok {
			if ri == 0 {
				return nil, kerr.New(kerr.KindZeroDivisionError, "modulo by zero")
			}
			m := li % ri
			if (m < 0) != (ri < 0) && m != 0 {
				m += ri
			}
			return m, nil
		}
		lf, ok1 := asFloat(left)
		rf, ok2 := asFloat(right)
		if !ok1 || !ok2 {
			return nil, typeErr("%", left, right)
		}
		if rf == 0 {
			return nil, kerr.New(kerr.KindZeroDivisionError, "modulo by zero")
		}
		return math.Mod(lf, rf), nil
	case token.SUBMOD:
		// `left %% right` = right - (left mod right) (spec §4.1).
		m, err := applyBinaryOp(token.MOD, left, right)
		if err != nil {
			return nil, err
		}
		return applyBinaryOp(token.MINUS, right, m)
	case token.POW:
		lf, ok1 := asFloat(left)
		rf, ok2 := asFloat(right)
		if !ok1 || !ok2 {
			return nil, typeErr("**", left, right)
		}
		result := math.Pow(lf, rf)
		if li, ri, ok := bothInts(left, right); ok && ri >= 0 {
			return int64(math.Round(math.Pow(float64(li), float64(ri)))), nil
		}
		return result, nil
	case token.BIT_OR:
		return intOp(left, right, "|", func(a, b int64) int64 { return a | b })
	case token.BIT_AND:
		return intOp(left, right, "&", func(a, b int64) int64 { return a & b })
	case token.BIT_XOR:
		return intOp(left, right, "^", func(a, b int64) int64 { return a ^ b })
	case token.SHIFT_L:
		return intOp(left, right, "<<", func(a, b int64) int64 { return a << uint(b) })
	case token.SHIFT_R:
		return intOp(left, right, ">>", func(a, b int64) int64 { return a >> uint(b) })
	case token.MATRIX_MUL:
		return nil, kerr.New(kerr.KindNotImplementedError, "matrix multiplication is not supported by this host")
	case token.EQUALS:
		return valuesEqual(left, right), nil
	case token.NOT_EQUALS:
		return !valuesEqual(left, right), nil
	case token.LESSER, token.LESSER_EQUALS, token.GREATER, token.GREATER_EQUALS:
		return compareOrdered(op, left, right)
	case token.IN:
		ok, err := containsElement(right, left)
		return ok, err
	case token.IS:
		return isSameIdentity(left, right), nil
	}
	return nil, fmt.Errorf("unsupported operator %s", op)
}

func opPlus(left, right any) (any, error) {
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls + rs, nil
		}
		return nil, typeErr("+", left, right)
	}
	if ll, ok := left.(*runtime.List); ok {
		if rl, ok := right.(*runtime.List); ok {
			out := append([]any{}, ll.Elements...)
			out = append(out, rl.Elements...)
			return &runtime.List{Elements: out}, nil
		}
		return nil, typeErr("+", left, right)
	}
	if lt, ok := left.(*runtime.Tuple); ok {
		if rt, ok := right.(*runtime.Tuple); ok {
			out := append([]any{}, lt.Elements...)
			out = append(out, rt.Elements...)
			return &runtime.Tuple{Elements: out}, nil
		}
		return nil, typeErr("+", left, right)
	}
	return opArith(left, right, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

func opMult(left, right any) (any, error) {
	if li, ok := left.(int64); ok {
		if s, ok := right.(string); ok {
			return repeatString(s, int(li)), nil
		}
		if l, ok := right.(*runtime.List); ok {
			return repeatList(l, int(li)), nil
		}
	}
	if ri, ok := right.(int64); ok {
		if s, ok := left.(string); ok {
			return repeatString(s, int(ri)), nil
		}
		if l, ok := left.(*runtime.List); ok {
			return repeatList(l, int(ri)), nil
		}
	}
	return opArith(left, right, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
}

func repeatString(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func repeatList(l *runtime.List, n int) *runtime.List {
	var out []any
	for i := 0; i < n; i++ {
		out = append(out, l.Elements...)
	}
	return &runtime.List{Elements: out}
}

func opArith(left, right any, intFn func(a, b int64) int64, floatFn func(a, b float64) float64) (any, error) {
	if li, ri, ok := bothInts(left, right); ok {
		return intFn(li, ri), nil
	}
	lf, ok1 := asFloat(left)
	rf, ok2 := asFloat(right)
	if !ok1 || !ok2 {
		return nil, typeErr("arith", left, right)
	}
	return floatFn(lf, rf), nil
}

func intOp(left, right any, sym string, fn func(a, b int64) int64) (any, error) {
	li, ri, ok := bothInts(left, right)
	if !ok {
		return nil, typeErr(sym, left, right)
	}
	return fn(li, ri), nil
}

func typeErr(op string, left, right any) error {
	return kerr.New(kerr.KindTypeError, fmt.Sprintf("unsupported operand types for %s: %T and %T", op, left, right))
}

func valuesEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
	}
	if _, ok := a.(runtime.NoneType); ok {
		_, ok2 := b.(runtime.NoneType)
		return ok2
	}
	return a == b
}

func isSameIdentity(a, b any) bool {
	if _, ok := a.(runtime.NoneType); ok {
		_, ok2 := b.(runtime.NoneType)
		return ok2
	}
	return valuesEqual(a, b)
}

func compareOrdered(op token.Kind, left, right any) (any, error) {
	if ls, ok := left.(string); ok {
		rs, ok := right.(string)
		if !ok {
			return nil, typeErr(op.String(), left, right)
		}
		return compareResult(op, stringCompare(ls, rs)), nil
	}
	lf, ok1 := asFloat(left)
	rf, ok2 := asFloat(right)
	if !ok1 || !ok2 {
		return nil, typeErr(op.String(), left, right)
	}
	cmp := 0
	if lf < rf {
		cmp = -1
	} else if lf > rf {
		cmp = 1
	}
	return compareResult(op, cmp), nil
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareResult(op token.Kind, cmp int) bool {
	switch op {
	case token.LESSER:
		return cmp < 0
	case token.LESSER_EQUALS:
		return cmp <= 0
	case token.GREATER:
		return cmp > 0
	case token.GREATER_EQUALS:
		return cmp >= 0
	}
	return false
}

func containsElement(container, elem any) (bool, error) {
	items, err := iterableElements(container)
	if err != nil {
		if s, ok := container.(string); ok {
			sub, ok := elem.(string)
			if !ok {
				return false, typeErr("in", elem, container)
			}
			return stringContains(s, sub), nil
		}
		return false, err
	}
	for _, it := range items {
		if valuesEqual(it, elem) {
			return true, nil
		}
	}
	return false, nil
}

func stringContains(s, sub string) bool {
	if sub == "" {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// iterableElements reduces any host sequence/mapping/set to a slice of
// values, for destructuring assignment, `in`, and for-in iteration.
func iterableElements(v any) ([]any, error) {
	switch x := v.(type) {
	case *runtime.List:
		return x.Elements, nil
	case *runtime.Tuple:
		return x.Elements, nil
	case *runtime.KandySet:
		return x.Values(), nil
	case *runtime.Dict:
		return x.Keys(), nil
	case string:
		out := make([]any, 0, len(x))
		for _, r := range x {
			out = append(out, string(r))
		}
		return out, nil
	case runtime.Bytes:
		out := make([]any, 0, len(x))
		for _, b := range x {
			out = append(out, int64(b))
		}
		return out, nil
	}
	return nil, kerr.New(kerr.KindTypeError, fmt.Sprintf("%T is not iterable", v))
}

func applyUnaryOp(op token.Kind, v any) (any, error) {
	switch op {
	case token.MINUS:
		switch x := v.(type) {
		case int64:
			return -x, nil
		case float64:
			return -x, nil
		}
		return nil, typeErr("unary -", v, v)
	case token.PLUS:
		return v, nil
	case token.BIT_NOT:
		if x, ok := v.(int64); ok {
			return ^x, nil
		}
		return nil, typeErr("unary ~", v, v)
	case token.NOT:
		return !runtime.Truthy(v), nil
	}
	return nil, fmt.Errorf("unsupported unary operator %s", op)
}

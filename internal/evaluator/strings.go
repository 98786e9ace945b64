package evaluator

import (
	"fmt"
	"strings"

	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/lexer"
	"github.com/kyouko8/kandyscript/internal/parser"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// evalString renders a string literal, lazily parsing and caching each
// `{exprN}` interpolation slot's captured source on the AST node itself
// so repeated evaluations (e.g. inside a loop body) reparse only once
// (spec §4.3 "String interpolation").
func (e *Evaluator) evalString(n *ast.String) (any, error) {
	lit := n.Literal
	if lit.Flavor == token.FlavorRaw || len(lit.ExprOrder) == 0 {
		return lit.Content, nil
	}

	if n.ParsedExprs == nil {
		n.ParsedExprs = make(map[string]ast.Expression, len(lit.ExprOrder))
	}

	var sb strings.Builder
	remaining := lit.Content
	for _, slot := range lit.ExprOrder {
		placeholder := "{" + slot + "}"
		idx := strings.Index(remaining, placeholder)
		if idx < 0 {
			continue
		}
		sb.WriteString(remaining[:idx])
		remaining = remaining[idx+len(placeholder):]

		expr, ok := n.ParsedExprs[slot]
		if !ok {
			src := lit.Expressions[slot]
			l := lexer.New(src)
			p := parser.New(l)
			prog := p.ParseProgram()
			if errs := p.Errors(); len(errs) > 0 {
				return nil, kerr.New(kerr.KindSyntaxError, fmt.Sprintf("invalid interpolation expression %q: %s", src, errs[0]))
			}
			if len(prog.Statements) == 0 {
				return nil, kerr.New(kerr.KindSyntaxError, fmt.Sprintf("empty interpolation expression %q", src))
			}
			stmt, ok := prog.Statements[0].(*ast.ExpressionStatement)
			if !ok {
				return nil, kerr.New(kerr.KindSyntaxError, fmt.Sprintf("invalid interpolation expression %q", src))
			}
			expr = stmt.Expr
			n.ParsedExprs[slot] = expr
		}

		v, err := e.Eval(expr)
		if err != nil {
			return nil, err
		}
		sb.WriteString(stringify(v))
	}
	sb.WriteString(remaining)
	return sb.String(), nil
}

// stringify is the `str(v)`-equivalent conversion used by interpolation
// and `print`.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case runtime.NoneType:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

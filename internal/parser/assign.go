package parser

import (
	"github.com/kyouko8/kandyscript/internal/ast"
	"github.com/kyouko8/kandyscript/pkg/token"
)

func isAugOpToken(k token.Kind) bool {
	switch k {
	case token.PLUS, token.MINUS, token.MULT, token.DIV, token.FLOORDIV, token.MOD,
		token.SUBMOD, token.POW, token.BIT_OR, token.BIT_XOR, token.BIT_AND,
		token.SHIFT_L, token.SHIFT_R, token.MATRIX_MUL:
		return true
	}
	return false
}

// parseAssignOrExpr implements the assignment grammar of spec §4.2:
// `variable_declaration [ op? (= | ?=) expression ]`, with `:=` as an
// expression-form assignment. When the parsed prefix turns out not to be
// an assignment after all, it backtracks and reparses as a plain
// expression statement — the target consumed so far was only an
// attribute-chain and may be the left operand of a larger expression
// (e.g. `a.b + c` as a bare expression statement).
func (p *Parser) parseAssignOrExpr() ast.Statement {
	start := p.mark()
	tok := p.cur

	var typeAnnot *ast.TypeVar
	switch p.cur.Kind {
	case token.CONST, token.VAR, token.DYNAMIC, token.MULTIPLE, token.STRICT, token.PRIVATE:
		typeAnnot = p.parseTypeVarQualifiers(tok)
	case token.ID:
		m := p.mark()
		candidate := p.parseAttrChain()
		if p.cur.Kind == token.ID {
			typeAnnot = &ast.TypeVar{Base: ast.Base{Tok: tok}, Kind: ast.TypeExpr, Expr: candidate}
		} else {
			p.reset(m)
		}
	}

	target := p.parseAttrChain()

	var augOp *token.Token
	if isAugOpToken(p.cur.Kind) && (p.peek.Kind == token.ASSIGN || p.peek.Kind == token.QUESTION_ASSIGN) {
		t := p.cur
		augOp = &t
		p.next()
	}

	if p.curIs(token.ASSIGN, token.QUESTION_ASSIGN, token.EXPR_ASSIGN) {
		op := p.cur
		p.next()
		rhs := p.parseExpression()
		return &ast.Assign{Base: ast.Base{Tok: tok}, TypeAnnot: typeAnnot, Target: target, Op: op, AugOp: augOp, Rhs: rhs}
	}

	if typeAnnot != nil {
		return &ast.Assign{Base: ast.Base{Tok: tok}, TypeAnnot: typeAnnot, Target: target}
	}

	p.reset(start)
	expr := p.parseExpression()
	return &ast.ExpressionStatement{Base: ast.Base{Tok: tok}, Expr: expr}
}

// parseTypeVarQualifiers parses the composable `strict`/`private` prefix
// flags followed by the type-kind keyword (`dynamic`, `var`, `const`,
// `multiple(...)`) (spec §4.3 "Scope entries"). A bare type expression is
// not parsed here: without one of those keywords Kind stays TypeNone.
func (p *Parser) parseTypeVarQualifiers(tok token.Token) *ast.TypeVar {
	tv := &ast.TypeVar{Base: ast.Base{Tok: tok}}
	for {
		switch p.cur.Kind {
		case token.STRICT:
			tv.Strict = true
			p.next()
			continue
		case token.PRIVATE:
			tv.Private = true
			p.next()
			continue
		}
		break
	}

	switch p.cur.Kind {
	case token.DYNAMIC:
		tv.Kind = ast.TypeDynamic
		p.next()
	case token.VAR:
		tv.Kind = ast.TypeVarDecl
		p.next()
	case token.CONST:
		tv.Kind = ast.TypeConst
		p.next()
	case token.MULTIPLE:
		p.next()
		p.expect(token.LPAREN)
		var types []ast.Expression
		if p.cur.Kind != token.RPAREN {
			types = append(types, p.parseTernary())
			for p.cur.Kind == token.COMMA {
				p.next()
				types = append(types, p.parseTernary())
			}
		}
		p.expect(token.RPAREN)
		tv.Kind = ast.TypeMultiple
		tv.Types = types
	default:
		if tv.Strict || tv.Private {
			tv.Kind = ast.TypeNone
		}
	}
	return tv
}

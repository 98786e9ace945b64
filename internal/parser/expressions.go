package parser

import (
	"github.com/kyouko8/kandyscript/internal/ast"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// parseExpression is the grammar's entry point: lambda > ternary/unless/??
// > or > xor > and > not > comparisons > bitor > bitxor > bitand > shifts
// > additive > multiplicative > unary > power > attribute-chain > primary
// (spec §4.2).
func (p *Parser) parseExpression() ast.Expression {
	return p.parseLambdaOrTernary()
}

func (p *Parser) parseLambdaOrTernary() ast.Expression {
	if p.cur.Kind == token.LAMBDA {
		return p.parseLambdaDecl()
	}
	return p.parseTernary()
}

// parseTernary handles `then if cond else alt`, `then unless cond else alt`
// and the null-coalescing `primary ?? alt` postfix form. All three are
// right-associative through recursion on the alt branch.
func (p *Parser) parseTernary() ast.Expression {
	thenExpr := p.parseOr()

	switch p.cur.Kind {
	case token.IF:
		tok := p.cur
		p.next()
		cond := p.parseOr()
		p.expect(token.ELSE)
		alt := p.parseTernary()
		return &ast.IfExpr{Base: ast.Base{Tok: tok}, Then: thenExpr, Cond: cond, Else: alt}
	case token.UNLESS:
		tok := p.cur
		p.next()
		cond := p.parseOr()
		p.expect(token.ELSE)
		alt := p.parseTernary()
		return &ast.UnlessExpr{Base: ast.Base{Tok: tok}, Then: thenExpr, Cond: cond, Else: alt}
	}

	if p.cur.Kind == token.QUESTION && p.peek.Kind == token.QUESTION {
		tok := p.cur
		p.next()
		p.next()
		alt := p.parseTernary()
		return &ast.IfNotNullExpr{Base: ast.Base{Tok: tok}, Primary: thenExpr, Alt: alt}
	}
	return thenExpr
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseXor()
	for p.cur.Kind == token.OR {
		tok := p.cur
		p.next()
		right := p.parseXor()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

func (p *Parser) parseXor() ast.Expression {
	left := p.parseAnd()
	for p.cur.Kind == token.XOR {
		tok := p.cur
		p.next()
		right := p.parseAnd()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseNot()
	for p.cur.Kind == token.AND {
		tok := p.cur
		p.next()
		right := p.parseNot()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

// parseNot handles prefix `not`; comparisons bind tighter, so `not a > b`
// parses as `not (a > b)`.
func (p *Parser) parseNot() ast.Expression {
	if p.cur.Kind == token.NOT {
		tok := p.cur
		p.next()
		operand := p.parseNot()
		return &ast.UnaryOp{Base: ast.Base{Tok: tok}, Op: tok, Operand: operand}
	}
	return p.parseComparison()
}

// parseComparison is a left fold (non-chained: `a<b<c` parses as `(a<b)<c`).
// `not in` is folded here into a unary `not` wrapped around an `in` BinOp;
// `is not` is treated symmetrically by the same reasoning.
func (p *Parser) parseComparison() ast.Expression {
	left := p.parseBitOr()
	for {
		switch p.cur.Kind {
		case token.EQUALS, token.NOT_EQUALS, token.LESSER, token.LESSER_EQUALS,
			token.GREATER, token.GREATER_EQUALS:
			tok := p.cur
			p.next()
			right := p.parseBitOr()
			left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
		case token.IN:
			tok := p.cur
			p.next()
			right := p.parseBitOr()
			left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
		case token.IS:
			tok := p.cur
			p.next()
			if p.cur.Kind == token.NOT {
				notTok := p.cur
				p.next()
				right := p.parseBitOr()
				bin := &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
				left = &ast.UnaryOp{Base: ast.Base{Tok: notTok}, Op: notTok, Operand: bin}
				continue
			}
			right := p.parseBitOr()
			left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
		case token.NOT:
			if p.peek.Kind != token.IN {
				return left
			}
			notTok := p.cur
			p.next()
			inTok := p.cur
			p.next()
			right := p.parseBitOr()
			bin := &ast.BinOp{Base: ast.Base{Tok: inTok}, Left: left, Op: inTok, Right: right}
			left = &ast.UnaryOp{Base: ast.Base{Tok: notTok}, Op: notTok, Operand: bin}
		default:
			return left
		}
	}
}

func (p *Parser) parseBitOr() ast.Expression {
	left := p.parseBitXor()
	for p.cur.Kind == token.BIT_OR {
		tok := p.cur
		p.next()
		right := p.parseBitXor()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expression {
	left := p.parseBitAnd()
	for p.cur.Kind == token.BIT_XOR {
		tok := p.cur
		p.next()
		right := p.parseBitAnd()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expression {
	left := p.parseShift()
	for p.cur.Kind == token.BIT_AND {
		tok := p.cur
		p.next()
		right := p.parseShift()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

func (p *Parser) parseShift() ast.Expression {
	left := p.parseAdditive()
	for p.cur.Kind == token.SHIFT_L || p.cur.Kind == token.SHIFT_R {
		tok := p.cur
		p.next()
		right := p.parseAdditive()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.cur.Kind == token.PLUS || p.cur.Kind == token.MINUS {
		tok := p.cur
		p.next()
		right := p.parseMultiplicative()
		left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for {
		switch p.cur.Kind {
		case token.MULT, token.DIV, token.FLOORDIV, token.MOD, token.SUBMOD, token.MATRIX_MUL:
			tok := p.cur
			p.next()
			right := p.parseUnary()
			left = &ast.BinOp{Base: ast.Base{Tok: tok}, Left: left, Op: tok, Right: right}
		default:
			return left
		}
	}
}

// parseUnary is, per the spec's stated precedence cascade, lower
// precedence than power — `-2 ** 2` parses as `-(2 ** 2)`.
func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Kind {
	case token.PLUS, token.MINUS, token.BIT_NOT:
		tok := p.cur
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryOp{Base: ast.Base{Tok: tok}, Op: tok, Operand: operand}
	}
	return p.parsePower()
}

// parsePower is right-associative: the exponent is parsed by recursing
// through parseUnary so a right-hand unary prefix (`2 ** -2`) still works.
func (p *Parser) parsePower() ast.Expression {
	base := p.parseAttrChain()
	if p.cur.Kind == token.POW {
		tok := p.cur
		p.next()
		exp := p.parseUnary()
		return &ast.BinOp{Base: ast.Base{Tok: tok}, Left: base, Op: tok, Right: exp}
	}
	return base
}

// parseAttrChain parses a primary expression followed by any chain of
// `.name` attribute access, `(...)` calls and `[...]` slicing.
func (p *Parser) parseAttrChain() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case token.DOT:
			tok := p.cur
			p.next()
			name := p.expect(token.ID).Literal
			expr = &ast.Attribute{Base: ast.Base{Tok: tok}, Target: expr, Name: name}
		case token.LPAREN:
			expr = p.parseCallArgs(expr)
		case token.LBRACKET:
			expr = p.parseSlicing(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume (
	call := &ast.Call{Base: ast.Base{Tok: tok}, Callee: callee}
	for p.cur.Kind != token.RPAREN && p.cur.Kind != token.EOF {
		switch {
		case p.cur.Kind == token.MULT:
			stok := p.cur
			p.next()
			call.Args = append(call.Args, &ast.StarredTuple{Base: ast.Base{Tok: stok}, Value: p.parseTernary()})
		case p.cur.Kind == token.POW:
			stok := p.cur
			p.next()
			call.Args = append(call.Args, &ast.StarredDict{Base: ast.Base{Tok: stok}, Value: p.parseTernary()})
		case p.cur.Kind == token.ID && p.peek.Kind == token.ASSIGN:
			name := p.cur.Literal
			p.next()
			p.next()
			call.Kwargs = append(call.Kwargs, ast.KwArg{Name: name, Value: p.parseTernary()})
		default:
			call.Args = append(call.Args, p.parseTernary())
		}
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseSlicing(target ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume [
	parseIdx := func() ast.Expression {
		if p.cur.Kind == token.COLON || p.cur.Kind == token.RBRACKET {
			return nil
		}
		return p.parseTernary()
	}
	indices := []ast.Expression{parseIdx()}
	for p.cur.Kind == token.COLON {
		p.next()
		indices = append(indices, parseIdx())
	}
	p.expect(token.RBRACKET)
	return &ast.Slicing{Base: ast.Base{Tok: tok}, Target: target, Indices: indices}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur
	switch tok.Kind {
	case token.INTEGER:
		p.next()
		return &ast.Number{Base: ast.Base{Tok: tok}, Int: tok.Int}
	case token.FLOAT:
		p.next()
		return &ast.Number{Base: ast.Base{Tok: tok}, IsFloat: true, Float: tok.Float}
	case token.BOOL:
		p.next()
		return &ast.Bool{Base: ast.Base{Tok: tok}, Value: tok.Literal == "True"}
	case token.NONE:
		p.next()
		return &ast.NoneValue{Base: ast.Base{Tok: tok}}
	case token.UNDEFINED:
		p.next()
		return &ast.Undefined{Base: ast.Base{Tok: tok}}
	case token.STRING:
		p.next()
		return &ast.String{Base: ast.Base{Tok: tok}, Literal: tok.Str}
	case token.BYTES:
		p.next()
		return &ast.Bytes{Base: ast.Base{Tok: tok}, Literal: tok.Str}
	case token.ID:
		if p.peek.Kind == token.EXPR_ASSIGN {
			p.next() // consume ID
			opTok := p.cur
			p.next() // consume :=
			rhs := p.parseTernary()
			return &ast.Assign{
				Base:   ast.Base{Tok: tok},
				Target: &ast.Var{Base: ast.Base{Tok: tok}, Name: tok.Literal},
				Op:     opTok,
				Rhs:    rhs,
			}
		}
		p.next()
		return &ast.Var{Base: ast.Base{Tok: tok}, Name: tok.Literal}
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACKET:
		return p.parseListLiteral()
	case token.DOLLAR:
		return p.parseSetOrDictLiteral()
	case token.LAMBDA:
		return p.parseLambdaDecl()
	case token.WHEN:
		return p.parseWhenExpr()
	default:
		p.errorf("InvalidSyntax: unexpected token %s (%q) in expression", tok.Kind, tok.Literal)
		p.next()
		return &ast.Empty{Base: ast.Base{Tok: tok}}
	}
}

func (p *Parser) parseParenOrTuple() ast.Expression {
	tok := p.cur
	p.next() // consume (
	if p.cur.Kind == token.RPAREN {
		p.next()
		return &ast.Tuple{Base: ast.Base{Tok: tok}}
	}
	first := p.parseTernary()
	if p.cur.Kind != token.COMMA {
		p.expect(token.RPAREN)
		return first
	}
	elems := []ast.Expression{first}
	for p.cur.Kind == token.COMMA {
		p.next()
		if p.cur.Kind == token.RPAREN {
			break
		}
		elems = append(elems, p.parseTernary())
	}
	p.expect(token.RPAREN)
	return &ast.Tuple{Base: ast.Base{Tok: tok}, Elements: elems}
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume [
	var elems []ast.Expression
	for p.cur.Kind != token.RBRACKET && p.cur.Kind != token.EOF {
		if p.cur.Kind == token.MULT {
			stok := p.cur
			p.next()
			elems = append(elems, &ast.StarredTuple{Base: ast.Base{Tok: stok}, Value: p.parseTernary()})
		} else {
			elems = append(elems, p.parseTernary())
		}
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return &ast.List{Base: ast.Base{Tok: tok}, Elements: elems}
}

// parseSetOrDictLiteral parses the `${ ... }$` literal form (spec §8
// scenario 6): a leading `:` after the first element selects Dict,
// otherwise Set. The closing `$` is accepted but optional, matching the
// parser's looser `literal_dict_set` acceptance.
func (p *Parser) parseSetOrDictLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume $
	p.expect(token.LBRACE)
	if p.cur.Kind == token.RBRACE {
		p.next()
		p.consumeTrailingDollar()
		return &ast.Dict{Base: ast.Base{Tok: tok}}
	}

	first := p.parseTernary()
	if p.cur.Kind == token.COLON {
		p.next()
		firstVal := p.parseTernary()
		entries := []ast.DictEntry{{Key: first, Value: firstVal}}
		for p.cur.Kind == token.COMMA {
			p.next()
			if p.cur.Kind == token.RBRACE {
				break
			}
			k := p.parseTernary()
			p.expect(token.COLON)
			v := p.parseTernary()
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
		}
		p.expect(token.RBRACE)
		p.consumeTrailingDollar()
		return &ast.Dict{Base: ast.Base{Tok: tok}, Entries: entries}
	}

	elems := []ast.Expression{first}
	for p.cur.Kind == token.COMMA {
		p.next()
		if p.cur.Kind == token.RBRACE {
			break
		}
		elems = append(elems, p.parseTernary())
	}
	p.expect(token.RBRACE)
	p.consumeTrailingDollar()
	return &ast.Set{Base: ast.Base{Tok: tok}, Elements: elems}
}

func (p *Parser) consumeTrailingDollar() {
	if p.cur.Kind == token.DOLLAR {
		p.next()
	}
}

func (p *Parser) parseLambdaDecl() ast.Expression {
	tok := p.cur
	p.next() // consume 'lambda'
	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)
	var body ast.Node
	if p.cur.Kind == token.ARROW {
		p.next()
		body = p.parseExpression()
	} else {
		body = p.parseBlockReturn()
	}
	return &ast.LambdaDecl{Base: ast.Base{Tok: tok}, Params: params, Body: body}
}

// parseWhenExpr parses the expression-form `when head { case e: v ... default: v }`
// (spec §4.3 "Switch vs. When").
func (p *Parser) parseWhenExpr() ast.Expression {
	tok := p.cur
	p.next() // consume 'when'
	head := p.parseTernary()

	open, closeTok := token.LBRACE, token.RBRACE
	if p.cur.Kind == token.BEGIN {
		open, closeTok = token.BEGIN, token.END
	}
	p.expect(open)

	var cases []ast.WhenClause
	var def ast.Expression
	for p.cur.Kind != closeTok && p.cur.Kind != token.EOF {
		switch p.cur.Kind {
		case token.CASE:
			p.next()
			expr := p.parseTernary()
			p.expect(token.COLON)
			val := p.parseTernary()
			cases = append(cases, ast.WhenClause{Expr: expr, Value: val})
		case token.DEFAULT:
			p.next()
			p.expect(token.COLON)
			def = p.parseTernary()
		case token.COMMA, token.SEMI:
			p.next()
		default:
			p.errorf("InvalidSyntax: unexpected token %s in when-expression", p.cur.Kind)
			p.next()
		}
	}
	p.expect(closeTok)
	return &ast.WhenCaseStatement{Base: ast.Base{Tok: tok}, Head: head, Cases: cases, Default: def}
}

package parser

import (
	"github.com/kyouko8/kandyscript/internal/ast"
	"github.com/kyouko8/kandyscript/pkg/token"
)

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	p.next()
	cond := p.parseExpression()
	then := p.parseBlockNoReturn()
	stmt := &ast.IfStatement{Base: ast.Base{Tok: tok}, Cond: cond, Then: then}
	for p.cur.Kind == token.ELIF {
		p.next()
		c := p.parseExpression()
		b := p.parseBlockNoReturn()
		stmt.Elifs = append(stmt.Elifs, ast.ElifClause{Cond: c, Body: b})
	}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

func (p *Parser) parseUnlessStatement() ast.Statement {
	tok := p.cur
	p.next()
	cond := p.parseExpression()
	then := p.parseBlockNoReturn()
	stmt := &ast.UnlessStatement{Base: ast.Base{Tok: tok}, Cond: cond, Then: then}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

func (p *Parser) parseWhileStatement(doFirst bool) ast.Statement {
	tok := p.cur
	p.next()
	cond := p.parseExpression()
	body := p.parseBlockNoReturn()
	stmt := &ast.WhileStatement{Base: ast.Base{Tok: tok}, Cond: cond, Body: body, DoFirst: doFirst}
	if p.cur.Kind == token.AS {
		p.next()
		stmt.AsName = p.expect(token.ID).Literal
	}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

func (p *Parser) parseUntilStatement(doFirst bool) ast.Statement {
	tok := p.cur
	p.next()
	cond := p.parseExpression()
	body := p.parseBlockNoReturn()
	stmt := &ast.UntilStatement{Base: ast.Base{Tok: tok}, Cond: cond, Body: body, DoFirst: doFirst}
	if p.cur.Kind == token.AS {
		p.next()
		stmt.AsName = p.expect(token.ID).Literal
	}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

// parseDoFirstLoop parses the `do {...} while cond` / `do {...} until cond`
// forms, where the body runs once before the condition is first tested.
func (p *Parser) parseDoFirstLoop() ast.Statement {
	tok := p.cur
	p.next() // consume 'do'
	body := p.parseBlockNoReturn()

	switch p.cur.Kind {
	case token.WHILE:
		p.next()
		cond := p.parseExpression()
		stmt := &ast.WhileStatement{Base: ast.Base{Tok: tok}, Cond: cond, Body: body, DoFirst: true}
		if p.cur.Kind == token.AS {
			p.next()
			stmt.AsName = p.expect(token.ID).Literal
		}
		if p.cur.Kind == token.ELSE {
			p.next()
			stmt.Else = p.parseBlockNoReturn()
		}
		return stmt
	case token.UNTIL:
		p.next()
		cond := p.parseExpression()
		stmt := &ast.UntilStatement{Base: ast.Base{Tok: tok}, Cond: cond, Body: body, DoFirst: true}
		if p.cur.Kind == token.AS {
			p.next()
			stmt.AsName = p.expect(token.ID).Literal
		}
		if p.cur.Kind == token.ELSE {
			p.next()
			stmt.Else = p.parseBlockNoReturn()
		}
		return stmt
	default:
		p.errorf("InvalidSyntax: expected 'while' or 'until' after do-block")
		return &ast.PassStatement{Base: ast.Base{Tok: tok}}
	}
}

func (p *Parser) parseRepeatStatement() ast.Statement {
	tok := p.cur
	p.next()
	body := p.parseBlockNoReturn()
	p.expect(token.UNTIL)
	cond := p.parseExpression()
	stmt := &ast.RepeatStatement{Base: ast.Base{Tok: tok}, Body: body, Cond: cond}
	if p.cur.Kind == token.AS {
		p.next()
		stmt.AsName = p.expect(token.ID).Literal
	}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

// parseForStatement dispatches among the three for-loop grammars (spec
// §4.2 "For-loop variants"): C-style, from/to, and for-in with optional
// `take` chunking and tuple-unpacking.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	p.next() // consume 'for'

	if p.cur.Kind == token.LPAREN {
		return p.parseForCStatement(tok)
	}

	name := p.expect(token.ID).Literal
	if p.cur.Kind == token.FROM {
		return p.parseForFromToStatement(tok, name)
	}

	vars := []string{name}
	for p.cur.Kind == token.COMMA {
		p.next()
		vars = append(vars, p.expect(token.ID).Literal)
	}
	p.expect(token.IN)
	iterable := p.parseExpression()

	var take ast.Expression
	if p.cur.Kind == token.TAKE {
		p.next()
		take = p.parseExpression()
	}
	var asName string
	if p.cur.Kind == token.AS {
		p.next()
		asName = p.expect(token.ID).Literal
	}
	body := p.parseBlockNoReturn()
	stmt := &ast.ForInStatement{Base: ast.Base{Tok: tok}, Vars: vars, Iterable: iterable, Take: take, AsName: asName, Body: body}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

func (p *Parser) parseForFromToStatement(tok token.Token, name string) ast.Statement {
	p.next() // consume 'from'
	from := p.parseExpression()
	p.expect(token.TO)
	to := p.parseExpression()
	var asName string
	if p.cur.Kind == token.AS {
		p.next()
		asName = p.expect(token.ID).Literal
	}
	body := p.parseBlockNoReturn()
	stmt := &ast.ForFromToStatement{Base: ast.Base{Tok: tok}, Var: name, From: from, To: to, AsName: asName, Body: body}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

func (p *Parser) parseForCStatement(tok token.Token) ast.Statement {
	p.next() // consume (
	var init ast.Statement
	if p.cur.Kind != token.SEMI {
		init = p.parseAssignOrExpr()
	}
	p.expect(token.SEMI)
	var cond ast.Expression
	if p.cur.Kind != token.SEMI {
		cond = p.parseExpression()
	}
	p.expect(token.SEMI)
	var step ast.Statement
	if p.cur.Kind != token.RPAREN {
		step = p.parseAssignOrExpr()
	}
	p.expect(token.RPAREN)
	var asName string
	if p.cur.Kind == token.AS {
		p.next()
		asName = p.expect(token.ID).Literal
	}
	body := p.parseBlockNoReturn()
	stmt := &ast.ForCStatement{Base: ast.Base{Tok: tok}, Init: init, Cond: cond, Step: step, AsName: asName, Body: body}
	if p.cur.Kind == token.ELSE {
		p.next()
		stmt.Else = p.parseBlockNoReturn()
	}
	return stmt
}

// parseSwitchStatement parses the statement-form switch, then fuses
// fall-through cases per the open-question contract recorded in
// DESIGN.md: a case whose body has no top-level untargeted `break`
// absorbs the statements of every following case up to and including the
// first one whose body has one (spec §9(a)).
func (p *Parser) parseSwitchStatement() ast.Statement {
	tok := p.cur
	p.next()
	head := p.parseExpression()

	open, closeTok := token.LBRACE, token.RBRACE
	if p.cur.Kind == token.BEGIN {
		open, closeTok = token.BEGIN, token.END
	}
	p.expect(open)

	var cases []ast.CaseClause
	var def *ast.CompoundWithNoReturn
	for p.cur.Kind != closeTok && p.cur.Kind != token.EOF {
		switch p.cur.Kind {
		case token.CASE:
			p.next()
			exprs := []ast.Expression{p.parseExpression()}
			for p.cur.Kind == token.COMMA {
				p.next()
				exprs = append(exprs, p.parseExpression())
			}
			body := p.parseBlockNoReturn()
			cases = append(cases, ast.CaseClause{Exprs: exprs, Body: body})
		case token.DEFAULT:
			p.next()
			def = p.parseBlockNoReturn()
		default:
			p.next()
		}
	}
	p.expect(closeTok)
	fuseSwitchFallthrough(cases)
	return &ast.SwitchCaseStatement{Base: ast.Base{Tok: tok}, Head: head, Cases: cases, Default: def}
}

func fuseSwitchFallthrough(cases []ast.CaseClause) {
	for i := range cases {
		if caseHasBreak(cases[i].Body) {
			continue
		}
		for j := i + 1; j < len(cases); j++ {
			cases[i].Body.Statements = append(cases[i].Body.Statements, cases[j].Body.Statements...)
			if caseHasBreak(cases[j].Body) {
				break
			}
		}
	}
}

func caseHasBreak(body *ast.CompoundWithNoReturn) bool {
	for _, s := range body.Statements {
		if sa, ok := s.(*ast.ScriptAction); ok && sa.Action == ast.ActionBreak && sa.Target == "" {
			return true
		}
	}
	return false
}

// parseTryStatement parses `try {...} except ... else {...} finally {...}`
// (spec §4.3 "Try/except/finally/else").
func (p *Parser) parseTryStatement() ast.Statement {
	tok := p.cur
	p.next()
	body := p.parseBlockNoReturn()

	var excepts []*ast.ExceptBlock
	for p.cur.Kind == token.EXCEPT {
		etok := p.cur
		p.next()
		var exc ast.Expression
		if !p.curIs(token.AS, token.LBRACE, token.BEGIN, token.COLON, token.THEN, token.DO) {
			exc = p.parseExpression()
		}
		var asName string
		if p.cur.Kind == token.AS {
			p.next()
			asName = p.expect(token.ID).Literal
		}
		ebody := p.parseBlockNoReturn()
		excepts = append(excepts, &ast.ExceptBlock{Base: ast.Base{Tok: etok}, ExceptionExpr: exc, AsName: asName, Body: ebody})
	}

	var elseB, finallyB *ast.CompoundWithNoReturn
	if p.cur.Kind == token.ELSE {
		p.next()
		elseB = p.parseBlockNoReturn()
	}
	if p.cur.Kind == token.FINALLY {
		p.next()
		finallyB = p.parseBlockNoReturn()
	}
	return &ast.TryStatement{Base: ast.Base{Tok: tok}, Body: body, Excepts: excepts, Else: elseB, Finally: finallyB}
}

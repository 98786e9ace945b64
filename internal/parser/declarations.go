package parser

import (
	"github.com/kyouko8/kandyscript/internal/ast"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// parseDeclaration parses `[local] (proc|def|lambda) ...` (spec §4.2).
func (p *Parser) parseDeclaration() ast.Statement {
	tok := p.cur
	isLocal := false
	if p.cur.Kind == token.LOCAL {
		isLocal = true
		p.next()
	}

	switch p.cur.Kind {
	case token.PROCEDURE:
		p.next()
		name := p.expect(token.ID).Literal
		p.expect(token.LPAREN)
		params := p.parseParamList()
		p.expect(token.RPAREN)
		body := p.parseBlockReturn()
		return &ast.ProcedureDecl{Base: ast.Base{Tok: tok}, Name: name, Params: params, Body: body, IsLocal: isLocal}
	case token.DEF:
		p.next()
		name := p.expect(token.ID).Literal
		p.expect(token.LPAREN)
		params := p.parseParamList()
		p.expect(token.RPAREN)
		var retType *ast.TypeVar
		if p.cur.Kind == token.COLON {
			p.next()
			retType = p.parseTypeVarQualifiers(p.cur)
		}
		body := p.parseBlockReturn()
		return &ast.FunctionDecl{Base: ast.Base{Tok: tok}, Name: name, Params: params, ReturnType: retType, Body: body, IsLocal: isLocal}
	case token.LAMBDA:
		expr := p.parseLambdaDecl()
		if ld, ok := expr.(*ast.LambdaDecl); ok {
			ld.IsLocal = isLocal
		}
		return &ast.ExpressionStatement{Base: ast.Base{Tok: tok}, Expr: expr}
	}

	p.errorf("InvalidSyntax: expected 'proc', 'def' or 'lambda' after 'local'")
	return &ast.PassStatement{Base: ast.Base{Tok: tok}}
}

// parseParamList parses a procedure/function/lambda parameter list, shared
// across all three declaration forms. Supports an optional `Type name`
// annotation prefix, default values, and `*rest`/`**rest` catchers.
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	sawDefault := false
	for p.cur.Kind != token.RPAREN && p.cur.Kind != token.EOF {
		ptok := p.cur
		param := &ast.Param{Base: ast.Base{Tok: ptok}}

		switch p.cur.Kind {
		case token.MULT:
			p.next()
			param.IsTupleRest = true
		case token.POW:
			p.next()
			param.IsDictRest = true
		}

		if p.cur.Kind == token.ID && p.peek.Kind == token.ID {
			typeTok := p.cur
			typeExpr := ast.Expression(&ast.Var{Base: ast.Base{Tok: typeTok}, Name: typeTok.Literal})
			p.next()
			param.TypeAnnot = &ast.TypeVar{Base: ast.Base{Tok: typeTok}, Kind: ast.TypeExpr, Expr: typeExpr}
		}

		param.Name = p.expect(token.ID).Literal

		if p.cur.Kind == token.ASSIGN {
			p.next()
			param.Default = p.parseTernary()
			sawDefault = true
		} else if sawDefault && !param.IsTupleRest && !param.IsDictRest {
			p.errorf("InvalidSyntax: non-default parameter '%s' follows a default parameter", param.Name)
		}

		params = append(params, param)
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	return params
}

// parseClassStatement parses `class Name [(Parent)] {...}` (spec §4.3 "Class").
func (p *Parser) parseClassStatement() ast.Statement {
	tok := p.cur
	p.next()
	name := p.expect(token.ID).Literal

	var parent ast.Expression
	if p.cur.Kind == token.LPAREN {
		p.next()
		if p.cur.Kind != token.RPAREN {
			parent = p.parseAttrChain()
		}
		p.expect(token.RPAREN)
	}

	body := p.parseBlockNoReturn()
	return &ast.ClassStatement{Base: ast.Base{Tok: tok}, Name: name, Parent: parent, Body: body}
}

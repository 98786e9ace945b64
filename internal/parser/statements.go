package parser

import (
	"github.com/kyouko8/kandyscript/internal/ast"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// parseStatement is the statement dispatcher described in spec §4.2:
// it selects a parse routine by the leading token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.LBRACE, token.BEGIN:
		return p.parseBlockNoReturn()
	case token.CONST, token.VAR, token.DYNAMIC, token.STRICT, token.PRIVATE, token.MULTIPLE:
		return p.parseAssignOrExpr()
	case token.ID:
		return p.parseAssignOrExpr()
	case token.PROCEDURE, token.DEF, token.LAMBDA, token.LOCAL:
		return p.parseDeclaration()
	case token.CLASS:
		return p.parseClassStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.UNLESS:
		return p.parseUnlessStatement()
	case token.WHILE:
		return p.parseWhileStatement(false)
	case token.UNTIL:
		return p.parseUntilStatement(false)
	case token.DO:
		return p.parseDoFirstLoop()
	case token.RETURN:
		return p.parseScriptAction(ast.ActionReturn)
	case token.BREAK:
		return p.parseScriptAction(ast.ActionBreak)
	case token.CONTINUE:
		return p.parseScriptAction(ast.ActionContinue)
	case token.EXPORT:
		return p.parseScriptAction(ast.ActionExport)
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.WHEN:
		expr := p.parseWhenExpr()
		return &ast.ExpressionStatement{Expr: expr}
	case token.WITH:
		return p.parseWithStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.PASS:
		tok := p.cur
		p.next()
		return &ast.PassStatement{Base: ast.Base{Tok: tok}}
	case token.USING:
		return p.parseUsingStatement()
	case token.IMPORT, token.PYTHON, token.FROM:
		return p.parseImportStatement()
	case token.DELETE:
		return p.parseDeleteStatement()
	case token.SEMI:
		p.next()
		return nil
	default:
		expr := p.parseExpression()
		return &ast.ExpressionStatement{Expr: expr}
	}
}

// parseBlockNoReturn parses one of the four block shapes (spec §4.2
// "Block forms") into a statement list that does not consume `return`.
func (p *Parser) parseBlockNoReturn() *ast.CompoundWithNoReturn {
	tok := p.cur
	stmts := p.parseBlockBody()
	return &ast.CompoundWithNoReturn{Base: ast.Base{Tok: tok}, Statements: stmts}
}

// parseBlockReturn is the same four shapes, but produces a block that
// consumes `return` — used for procedure/function/lambda bodies.
func (p *Parser) parseBlockReturn() *ast.Compound {
	tok := p.cur
	stmts := p.parseBlockBody()
	return &ast.Compound{Base: ast.Base{Tok: tok}, Statements: stmts}
}

func (p *Parser) parseBlockBody() []ast.Statement {
	switch p.cur.Kind {
	case token.LBRACE:
		p.next()
		var stmts []ast.Statement
		for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
			if p.cur.Kind == token.SEMI {
				p.next()
				continue
			}
			if s := p.parseStatement(); s != nil {
				stmts = append(stmts, s)
			}
		}
		p.expect(token.RBRACE)
		return stmts
	case token.BEGIN:
		p.next()
		var stmts []ast.Statement
		for p.cur.Kind != token.END && p.cur.Kind != token.EOF {
			if p.cur.Kind == token.SEMI {
				p.next()
				continue
			}
			if s := p.parseStatement(); s != nil {
				stmts = append(stmts, s)
			}
		}
		p.expect(token.END)
		return stmts
	case token.COLON, token.THEN, token.DO:
		p.next()
		if s := p.parseStatement(); s != nil {
			return []ast.Statement{s}
		}
		return nil
	case token.ARROW:
		p.next()
		expr := p.parseExpression()
		return []ast.Statement{&ast.ScriptAction{Action: ast.ActionReturn, Value: expr}}
	default:
		if s := p.parseStatement(); s != nil {
			return []ast.Statement{s}
		}
		return nil
	}
}

func (p *Parser) parseScriptAction(kind ast.ScriptActionKind) ast.Statement {
	tok := p.cur
	p.next()
	action := &ast.ScriptAction{Base: ast.Base{Tok: tok}, Action: kind}
	switch kind {
	case ast.ActionReturn:
		if !p.atStatementEnd() {
			action.Value = p.parseExpression()
		}
	case ast.ActionBreak, ast.ActionContinue:
		if p.cur.Kind == token.ID {
			action.Target = p.cur.Literal
			p.next()
		}
	}
	return action
}

func (p *Parser) atStatementEnd() bool {
	switch p.cur.Kind {
	case token.SEMI, token.RBRACE, token.END, token.EOF, token.ELSE, token.ELIF,
		token.EXCEPT, token.FINALLY:
		return true
	}
	return false
}

func (p *Parser) parseDeleteStatement() ast.Statement {
	tok := p.cur
	p.next()
	targets := []ast.Expression{p.parseAttrChain()}
	for p.cur.Kind == token.COMMA {
		p.next()
		targets = append(targets, p.parseAttrChain())
	}
	return &ast.DeleteStatement{Base: ast.Base{Tok: tok}, Targets: targets}
}

func (p *Parser) parseUsingStatement() ast.Statement {
	tok := p.cur
	p.next()
	resource := p.parseExpression()
	body := p.parseBlockNoReturn()
	return &ast.UsingStatement{Base: ast.Base{Tok: tok}, Resource: resource, Body: body}
}

func (p *Parser) parseWithStatement() ast.Statement {
	tok := p.cur
	p.next()
	resource := p.parseExpression()
	asName := ""
	if p.cur.Kind == token.AS {
		p.next()
		asName = p.expect(token.ID).Literal
	}
	body := p.parseBlockNoReturn()
	return &ast.WithStatement{Base: ast.Base{Tok: tok}, Resource: resource, AsName: asName, Body: body}
}

func (p *Parser) parseImportStatement() ast.Statement {
	tok := p.cur
	isPython := false
	if p.cur.Kind == token.PYTHON {
		isPython = true
		p.next()
		p.expect(token.IMPORT)
	} else if p.cur.Kind == token.FROM {
		// `from X python import Y` style is treated the same as a
		// python-flagged import of the dotted name that follows.
		p.next()
		isPython = true
	} else {
		p.expect(token.IMPORT)
	}

	if isPython {
		var dotted []string
		dotted = append(dotted, p.expect(token.ID).Literal)
		for p.cur.Kind == token.DOT {
			p.next()
			dotted = append(dotted, p.expect(token.ID).Literal)
		}
		return &ast.ImportStatement{Base: ast.Base{Tok: tok}, IsPython: true, DottedName: dotted}
	}

	name := p.expect(token.ID).Literal
	return &ast.ImportStatement{Base: ast.Base{Tok: tok}, Name: name}
}

// Package parser implements KandyScript's recursive-descent parser: a
// precedence-climbing expression grammar (spec §4.2) feeding a
// statement dispatcher that builds the AST defined in package ast.
package parser

import (
	"fmt"

	"github.com/kyouko8/kandyscript/internal/ast"
	"github.com/kyouko8/kandyscript/internal/lexer"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// Parser consumes tokens from a Lexer and builds an *ast.Program.
type Parser struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token

	errs []error
}

// New creates a Parser reading from l and primes the one-token lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

// Errors returns every parse error accumulated via error recovery.
func (p *Parser) Errors() []error { return p.errs }

func (p *Parser) next() {
	p.cur = p.peek
	tok, err := p.l.NextToken()
	if err != nil {
		p.errs = append(p.errs, err)
		tok = token.Token{Kind: token.ILLEGAL, Pos: p.cur.Pos}
	}
	p.peek = tok
}

// mark/reset implement the one-token lookahead-with-replay backtracking
// spec §4.2 calls for when a tentative ternary parse must unwind.
type mark struct {
	lexerPos int
	cur      token.Token
	peek     token.Token
}

func (p *Parser) mark() mark {
	return mark{lexerPos: p.l.Pos(), cur: p.cur, peek: p.peek}
}

func (p *Parser) reset(m mark) {
	p.l.Back(m.lexerPos)
	p.cur = m.cur
	p.peek = m.peek
}

type parseError struct {
	pos     token.Position
	message string
}

func (e *parseError) Error() string { return fmt.Sprintf("%s at %s", e.message, e.pos) }

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, &parseError{pos: p.cur.Pos, message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(kind token.Kind) token.Token {
	if p.cur.Kind != kind {
		p.errorf("UnexpectedToken: expected %s, got %s (%q)", kind, p.cur.Kind, p.cur.Literal)
		tok := p.cur
		return tok
	}
	tok := p.cur
	p.next()
	return tok
}

func (p *Parser) curIs(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.cur.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) peekIs(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.peek.Kind == k {
			return true
		}
	}
	return false
}

// ParseProgram parses the full input into a Program of top-level
// statements (spec §3 "AST").
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		if p.cur.Kind == token.SEMI {
			p.next()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipStatementSeparators()
	}
	return prog
}

func (p *Parser) skipStatementSeparators() {
	for p.cur.Kind == token.SEMI {
		p.next()
	}
}

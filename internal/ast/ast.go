// Package ast defines the Abstract Syntax Tree node types produced by
// the KandyScript parser: an open sum of expression and statement
// variants (spec §3), each a small struct with its own TokenLiteral,
// String and Pos methods rather than a string-keyed dispatch table.
package ast

import (
	"fmt"
	"strings"

	"github.com/kyouko8/kandyscript/pkg/token"
)

// Node is the Base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// Base carries the defining token so every node gets TokenLiteral/Pos
// for free; embed it as the first field of concrete node structs.
type Base struct {
	Tok token.Token
}

func (b Base) TokenLiteral() string  { return b.Tok.Literal }
func (b Base) Pos() token.Position   { return b.Tok.Pos }

func joinNodes[T Node](nodes []T, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func joinExprs(nodes []Expression, sep string) string { return joinNodes(nodes, sep) }

var _ = fmt.Sprintf

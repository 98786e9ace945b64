package ast

import (
	"fmt"
	"strings"
)

// Param is a single formal parameter in a procedure/function/lambda
// declaration: a name, an optional type annotation, an optional default
// value expression, and the *rest/**rest markers.
type Param struct {
	Base
	Name        string
	TypeAnnot   *TypeVar
	Default     Expression
	IsTupleRest bool // `*rest`
	IsDictRest  bool // `**rest`
}

func (*Param) statementNode() {}

func (p *Param) String() string {
	name := p.Name
	if p.IsTupleRest {
		name = "*" + name
	} else if p.IsDictRest {
		name = "**" + name
	}
	if p.TypeAnnot != nil {
		name = p.TypeAnnot.String() + " " + name
	}
	if p.Default != nil {
		name += "=" + p.Default.String()
	}
	return name
}

// ProcedureDecl declares a named procedure (no return value channel).
type ProcedureDecl struct {
	Base
	Name        string
	Params      []*Param
	Body        Node // *Compound
	IsLocal     bool
	InsideClass string // set when declared inside a class body
}

func (*ProcedureDecl) statementNode() {}
func (d *ProcedureDecl) String() string {
	return fmt.Sprintf("proc %s(%s) %s", d.Name, paramList(d.Params), d.Body)
}

// FunctionDecl declares a named function (result channel with optional
// type constraint on the return value).
type FunctionDecl struct {
	Base
	Name        string
	Params      []*Param
	ReturnType  *TypeVar
	Body        Node // *Compound or an arrow Expression
	IsLocal     bool
	InsideClass string
}

func (*FunctionDecl) statementNode() {}
func (d *FunctionDecl) String() string {
	return fmt.Sprintf("def %s(%s) => %s", d.Name, paramList(d.Params), d.Body)
}

func paramList(params []*Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// ClassStatement declares a class: a name, an optional parent-class
// expression (for inheritance), and a body whose activation record is
// frozen into the class descriptor after evaluation (spec §4.3).
type ClassStatement struct {
	Base
	Name   string
	Parent Expression
	Body   *CompoundWithNoReturn
}

func (*ClassStatement) statementNode() {}
func (c *ClassStatement) String() string {
	if c.Parent != nil {
		return fmt.Sprintf("class %s(%s) %s", c.Name, c.Parent, c.Body)
	}
	return fmt.Sprintf("class %s %s", c.Name, c.Body)
}

// DeleteStatement is recognized by the parser but is a deliberate no-op
// in the evaluator, per original_source behavior (spec §9(b)).
type DeleteStatement struct {
	Base
	Targets []Expression
}

func (*DeleteStatement) statementNode() {}
func (d *DeleteStatement) String() string { return fmt.Sprintf("del %s", joinExprs(d.Targets, ", ")) }

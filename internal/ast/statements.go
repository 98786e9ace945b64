package ast

import (
	"fmt"
	"strings"

	"github.com/kyouko8/kandyscript/pkg/token"
)

// Compound is a statement block that *consumes* a `return` ScriptAction
// flowing up from its last statement — the body of a procedure,
// function, or lambda (spec §4.3 "Control-flow side channels").
type Compound struct {
	Base
	Statements []Statement
}

func (*Compound) statementNode() {}
func (c *Compound) String() string {
	return fmt.Sprintf("{ %s }", joinNodes(c.Statements, "; "))
}

// CompoundWithNoReturn is a statement block that does *not* consume
// `return` — it bubbles the ScriptAction up to the nearest Compound.
// Used for if/unless/while/for/class/try/with/using bodies.
type CompoundWithNoReturn struct {
	Base
	Statements []Statement
}

func (*CompoundWithNoReturn) statementNode() {}
func (c *CompoundWithNoReturn) String() string {
	return fmt.Sprintf("{ %s }", joinNodes(c.Statements, "; "))
}

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	Base
	Expr Expression
}

func (*ExpressionStatement) statementNode() {}
func (e *ExpressionStatement) String() string { return e.Expr.String() }

// PassStatement is the explicit no-op statement.
type PassStatement struct{ Base }

func (*PassStatement) statementNode() {}
func (*PassStatement) String() string { return "pass" }

// Assign is the unified assignment/declaration statement: an optional
// type annotation, an l-value target, the assign-family operator token
// (=, := or ?=), an optional compound-assignment operator (+=, etc.),
// and the right-hand side.
type Assign struct {
	Base
	TypeAnnot *TypeVar
	Target    Expression
	Op        token.Token  // ASSIGN, EXPR_ASSIGN or QUESTION_ASSIGN
	AugOp     *token.Token // set for `x += e` etc.
	Rhs       Expression   // nil for a bare declaration (`var x`)
}

func (*Assign) statementNode()  {}
func (*Assign) expressionNode() {} // `:=` is also usable as an expression

func (a *Assign) String() string {
	prefix := ""
	if a.TypeAnnot != nil {
		prefix = a.TypeAnnot.String() + " "
	}
	if a.Rhs == nil {
		return fmt.Sprintf("%s%s", prefix, a.Target)
	}
	op := a.Op.Kind.String()
	if a.AugOp != nil {
		op = a.AugOp.Kind.String() + op
	}
	return fmt.Sprintf("%s%s %s %s", prefix, a.Target, op, a.Rhs)
}

// ScriptActionKind identifies which control-flow side channel a
// ScriptAction carries.
type ScriptActionKind int

const (
	ActionReturn ScriptActionKind = iota
	ActionBreak
	ActionContinue
	ActionExport
)

// ScriptAction represents `return`, `break`, `continue` or `export` as
// an AST node; at evaluation time it produces a control-flow value that
// bubbles up through compound bodies (spec §3, §4.3, glossary).
type ScriptAction struct {
	Base
	Action ScriptActionKind
	Value  Expression // return value, or nil
	Target string     // break/continue target identifier, or ""
}

func (*ScriptAction) statementNode() {}
func (s *ScriptAction) String() string {
	switch s.Action {
	case ActionReturn:
		if s.Value != nil {
			return "return " + s.Value.String()
		}
		return "return"
	case ActionBreak:
		if s.Target != "" {
			return "break " + s.Target
		}
		return "break"
	case ActionContinue:
		if s.Target != "" {
			return "continue " + s.Target
		}
		return "continue"
	default:
		return "export"
	}
}

// ImportStatement imports a sibling module (native `.ks`) or a
// python-flagged host module by dotted name (spec §4.3 "Import").
type ImportStatement struct {
	Base
	IsPython   bool
	Name       string
	DottedName []string // for python-flagged imports: e.g. ["os", "path"]
}

func (*ImportStatement) statementNode() {}
func (i *ImportStatement) String() string {
	if i.IsPython {
		return "python import " + strings.Join(i.DottedName, ".")
	}
	return "import " + i.Name
}

// UsingStatement pushes a scope object's/instance's AR as the top frame
// for Body, then pops it (spec §4.3 "Using").
type UsingStatement struct {
	Base
	Resource Expression
	Body     *CompoundWithNoReturn
}

func (*UsingStatement) statementNode() {}
func (u *UsingStatement) String() string { return fmt.Sprintf("using %s %s", u.Resource, u.Body) }

// WithStatement enters a scoped-resource contract for the duration of
// Body, releasing it on every exit path (spec §4.3 "With").
type WithStatement struct {
	Base
	Resource Expression
	AsName   string
	Body     *CompoundWithNoReturn
}

func (*WithStatement) statementNode() {}
func (w *WithStatement) String() string {
	if w.AsName != "" {
		return fmt.Sprintf("with %s as %s %s", w.Resource, w.AsName, w.Body)
	}
	return fmt.Sprintf("with %s %s", w.Resource, w.Body)
}

// Package evaluator implements the tree-walking visitor driving
// KandyScript execution: operator semantics, assignment resolution,
// control-flow side channels, callables, classes, imports and string
// interpolation (spec §4.3, §4.4).
package evaluator

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/lexer"
	"github.com/kyouko8/kandyscript/internal/parser"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

var nextEvaluatorID int64 = 1

// Evaluator owns one CallStack and is the unit of module isolation: each
// import instantiates a fresh sibling Evaluator whose Global frame is
// exposed back to the importer as a Space (spec §3 "Lifecycles", §4.3
// "Import").
type Evaluator struct {
	ID    int64
	Stack *runtime.CallStack

	builtin *runtime.ActivationRecord
	module  *runtime.ActivationRecord
	user    *runtime.ActivationRecord
	global  *runtime.ActivationRecord
	private *runtime.ActivationRecord

	Filename string
	Stdout   func(string)

	modulesImported map[string]runtime.Space
	inFlight         map[string]*runtime.ActivationRecord
	libraryPath      []string

	seed func(*Evaluator)
}

// Option configures a new Evaluator at construction time.
type Option func(*Evaluator)

// WithSeed installs the BuiltIn AR population hook (internal/seed) —
// kept as an injected callback so the evaluator package never imports
// seed (which would create an import cycle back into evaluator).
func WithSeed(fn func(*Evaluator)) Option { return func(e *Evaluator) { e.seed = fn } }

func WithLibraryPath(dirs []string) Option {
	return func(e *Evaluator) { e.libraryPath = append(e.libraryPath, dirs...) }
}

func WithStdout(fn func(string)) Option { return func(e *Evaluator) { e.Stdout = fn } }

// New builds an Evaluator with the standard seed sequence (spec §3
// "CallStack"): BuiltIn -> Module -> User -> Global, plus a detached
// Private AR.
func New(filename string, opts ...Option) *Evaluator {
	e := &Evaluator{
		ID:               nextEvaluatorID,
		Stack:            runtime.NewCallStack(),
		Filename:         filename,
		Stdout:           func(s string) { fmt.Print(s) },
		modulesImported:  make(map[string]runtime.Space),
		inFlight:         make(map[string]*runtime.ActivationRecord),
	}
	nextEvaluatorID++

	for _, opt := range opts {
		opt(e)
	}

	e.builtin = runtime.NewActivationRecord("BuiltIn", runtime.KindBuiltIn, 0, nil)
	e.module = runtime.NewActivationRecord("Module", runtime.KindModule, 1, e.builtin)
	e.user = runtime.NewActivationRecord("User", runtime.KindUser, 2, e.module)
	e.global = runtime.NewActivationRecord("Global", runtime.KindGlobal, 3, e.user)
	e.private = runtime.NewActivationRecord("Private", runtime.KindPrivate, 0, nil)

	e.Stack.Push(e.builtin)
	e.Stack.Push(e.module)
	e.Stack.Push(e.user)
	e.Stack.Push(e.global)

	// Kandy-vars and space handles live on the BuiltIn frame, same as the
	// original's ar0 seeding (original_source/main.py's __init__); only
	// PROGRAM_START is stamped on the User frame (its ar2).
	e.builtin.Define("KANDY_VERSION", runtime.NewConstant(Version))
	e.builtin.Define("KANDY_AUTHOR", runtime.NewConstant("Medina Dylan"))
	e.builtin.Define("KANDY_FILE", runtime.NewConstant(filename))
	e.builtin.Define("KANDY_MAIN", runtime.NewConstant(true))
	e.builtin.Define("KANDY_TYPE", runtime.NewConstant("script"))
	e.user.Define("PROGRAM_START", runtime.NewConstant(time.Now().Unix()))

	e.builtin.Define("Global", runtime.NewConstant(&runtime.NamedSpace{Name: "Global", Rec: e.global}))
	e.builtin.Define("User", runtime.NewConstant(&runtime.NamedSpace{Name: "User", Rec: e.user}))
	e.builtin.Define("BuiltIn", runtime.NewConstant(&runtime.NamedSpace{Name: "BuiltIn", Rec: e.builtin}))
	e.builtin.Define("Now", runtime.NewConstant(&runtime.CurrentSpace{Stack: e.Stack}))
	e.builtin.Define("Prev", runtime.NewConstant(&runtime.PrevSpace{Stack: e.Stack}))
	e.builtin.Define("Private", runtime.NewConstant(&runtime.PrivateSpace{OwnerID: e.ID, Private: e.private}))

	if e.seed != nil {
		e.seed(e)
	}

	return e
}

// Version is KandyScript's interpreter version, exposed as KANDY_VERSION.
const Version = "0.1.0"

// BuiltinAR exposes the BuiltIn frame for seed population.
func (e *Evaluator) BuiltinAR() *runtime.ActivationRecord { return e.builtin }
func (e *Evaluator) GlobalAR() *runtime.ActivationRecord  { return e.global }
func (e *Evaluator) UserAR() *runtime.ActivationRecord    { return e.user }
func (e *Evaluator) PrivateAR() *runtime.ActivationRecord { return e.private }

// controlSignal carries a ScriptAction's evaluated payload up through the
// Go call stack that mirrors AST recursion (spec §4.3 "Control-flow side
// channels"). It is returned alongside a nil error by statement-evaluating
// methods and inspected by their callers.
type controlSignal struct {
	kind   ast.ScriptActionKind
	value  any
	target string
}

// Interpret parses and evaluates text as a full program, returning the
// value of the last top-level statement that produced one (None if none
// did; the payload of a top-level return/export also counts), per the
// evaluator's `interpret(text)` contract (spec §1, §6).
func (e *Evaluator) Interpret(text string) (any, error) {
	prog, err := e.parse(text)
	if err != nil {
		return nil, err
	}
	return e.evalProgram(prog)
}

// ReplStep evaluates one line of interactive input against the
// evaluator's persistent state, per the `repl_step(text)` contract.
func (e *Evaluator) ReplStep(text string) (any, error) {
	return e.Interpret(text)
}

func (e *Evaluator) parse(text string) (*ast.Program, error) {
	l := lexer.New(text)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, kerr.New(kerr.KindSyntaxError, errs[0].Error())
	}
	return prog, nil
}

func (e *Evaluator) evalProgram(prog *ast.Program) (any, error) {
	var last any = runtime.None
	for _, stmt := range prog.Statements {
		v, sig, err := e.evalStatement(stmt)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			// A bare return/break/continue/export at top level has
			// nothing left to bubble into; treat its payload as the
			// program's result.
			last = sig.value
			continue
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

func (e *Evaluator) resolveLibraryFile(name string) (string, error) {
	candidates := []string{filepath.Join(filepath.Dir(e.Filename), name+".ks")}
	for _, dir := range e.libraryPath {
		candidates = append(candidates, filepath.Join(dir, name+".ks"))
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c, nil
		}
	}
	return "", kerr.New(kerr.KindValueError, fmt.Sprintf("no module named %q", name))
}

package evaluator

import (
	"fmt"

	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"github.com/kyouko8/kandyscript/pkg/token"
)

// Class is the descriptor produced by evaluating a ClassStatement: its
// body's frozen ActivationRecord holds field defaults and methods, with
// an optional Parent for single inheritance (spec §4.3 "Class").
type Class struct {
	Name    string
	Parent  *Class
	ClassAR *runtime.ActivationRecord
}

func (c *Class) String() string { return fmt.Sprintf("<class %s>", c.Name) }

// Instance is a live object: its own ActivationRecord parented on the
// class descriptor's AR so unset fields and methods resolve there.
type Instance struct {
	Class *Class
	AR    *runtime.ActivationRecord
}

func (i *Instance) String() string { return fmt.Sprintf("<%s instance>", i.Class.Name) }

// evalClassStatement evaluates the class body in a fresh AR parented on
// the declaring scope, then freezes it as the class descriptor (spec
// §4.3 "Class": "a frozen AR as class descriptor").
func (e *Evaluator) evalClassStatement(c *ast.ClassStatement) error {
	var parent *Class
	if c.Parent != nil {
		pv, err := e.Eval(c.Parent)
		if err != nil {
			return err
		}
		pc, ok := pv.(*Class)
		if !ok {
			return kerr.New(kerr.KindTypeError, "class parent must be a class")
		}
		parent = pc
	}

	var parentAR *runtime.ActivationRecord
	if parent != nil {
		parentAR = parent.ClassAR
	}
	classAR := runtime.NewActivationRecord(c.Name, runtime.KindClass, e.Stack.Peek().NestingLevel+1, parentAR)

	e.Stack.Push(classAR)
	_, sig, err := e.evalStatements(c.Body.Statements)
	e.Stack.Pop()
	if err != nil {
		return err
	}
	if sig != nil {
		return kerr.New(kerr.KindSyntaxError, "control-flow statement not allowed directly in a class body")
	}
	classAR.ReadOnly = true

	class := &Class{Name: c.Name, Parent: parent, ClassAR: classAR}
	return e.Stack.Peek().Set(c.Name, runtime.NewConstant(class))
}

// instantiate creates a new Instance AR parented on the class descriptor
// and, if present, calls its `init` constructor with self bound.
func (e *Evaluator) instantiate(class *Class, args CallArgs) (any, error) {
	inst := &Instance{
		Class: class,
		AR:    runtime.NewActivationRecord(class.Name, runtime.KindInternClass, class.ClassAR.NestingLevel+1, class.ClassAR),
	}

	if rec, err := class.ClassAR.Get("init", false, true); err == nil {
		if proc, ok := bindReceiver(rec.Value, inst); ok {
			if _, err := proc.CallKandy(e, args); err != nil {
				return nil, err
			}
		}
	}
	return inst, nil
}

// boundMethod resolves `instance.name` to a receiver-bound Callable when
// the attribute is a Procedure/Function/Lambda, else a plain field read.
func (e *Evaluator) boundMethod(inst *Instance, name string, pos token.Position) (any, error) {
	rec, err := inst.AR.Get(name, false, false)
	if err != nil {
		rec, err = inst.Class.ClassAR.Get(name, false, true)
	}
	if err != nil {
		if v, ok := builtinAttribute(inst, name); ok {
			return v, nil
		}
		return nil, kerr.NewAt(kerr.KindAttributeError, pos, fmt.Sprintf("%s has no attribute %q", inst.Class.Name, name))
	}
	if callable, ok := bindReceiver(rec.Value, inst); ok {
		return callable, nil
	}
	return rec.Value, nil
}

func (e *Evaluator) instanceAttribute(inst *Instance, name string, pos token.Position) (any, error) {
	if rec, ok := inst.AR.Local(name); ok {
		return rec.Value, nil
	}
	if rec, err := inst.Class.ClassAR.Get(name, false, true); err == nil {
		if callable, ok := bindReceiver(rec.Value, inst); ok {
			return callable, nil
		}
		return rec.Value, nil
	}
	if v, ok := builtinAttribute(inst, name); ok {
		return v, nil
	}
	return nil, kerr.NewAt(kerr.KindAttributeError, pos, fmt.Sprintf("%s has no attribute %q", inst.Class.Name, name))
}

// bindReceiver produces a copy of a Procedure/Function/Lambda value with
// Self attached, implementing the `inside_class` auto-self contract
// (spec §4.3, §4.4).
func bindReceiver(v any, self *Instance) (Callable, bool) {
	switch fn := v.(type) {
	case *Procedure:
		cp := *fn
		cp.Self = self
		return &cp, true
	case *Function:
		cp := *fn
		cp.Self = self
		return &cp, true
	case *Lambda:
		cp := *fn
		cp.Self = self
		return &cp, true
	}
	return nil, false
}

package seed

import (
	"github.com/kyouko8/kandyscript/internal/evaluator"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

// ErrorClass is a script-visible marker for one host-layer exception kind,
// matched by `except ClassName` against a raised KandyError's Kind (spec
// §4.5, grounded on original_source/kandylib/kandyerrors.py's
// AllPythonErrors tuple of exception classes).
type ErrorClass struct {
	Kind kerr.Kind
}

func (c *ErrorClass) String() string { return c.Kind.String() }

// installErrors binds the `Errors` namespace object, whose attributes are
// the host-layer exception classes (original_source's
// `ar0['Errors'] = RecordConstant(kandyerrors.AllPythonErrorInstance)`).
func installErrors(e *evaluator.Evaluator) {
	ar := e.BuiltinAR()
	errAR := runtime.NewActivationRecord("Errors", runtime.KindModule, 0, nil)
	for _, k := range kerr.HostErrorKinds {
		errAR.Define(k.String(), runtime.NewConstant(&ErrorClass{Kind: k}))
	}
	ar.Define("Errors", runtime.NewConstant(&runtime.NamedSpace{Name: "Errors", Rec: errAR}))
}

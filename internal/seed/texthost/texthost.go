// Package texthost is an optional seed extension binding norm_nfc,
// fold_case and width_fold onto the BuiltIn frame, backed by
// golang.org/x/text the way go-dws's internal/interp/string_helpers.go
// uses unicode/norm for its own enrichment-class string methods
// (SPEC_FULL.md §B). Only installed when kandy.yaml lists "text".
package texthost

import (
	"github.com/kyouko8/kandyscript/internal/evaluator"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Install binds norm_nfc/fold_case/width_fold onto e's BuiltIn frame.
func Install(e *evaluator.Evaluator) {
	ar := e.BuiltinAR()
	ar.Define("norm_nfc", runtime.NewConstant(&evaluator.BuiltinFunc{
		Name: "norm_nfc",
		Fn:   unaryString("norm_nfc", func(s string) string { return norm.NFC.String(s) }),
	}))
	ar.Define("fold_case", runtime.NewConstant(&evaluator.BuiltinFunc{
		Name: "fold_case",
		Fn:   unaryString("fold_case", func(s string) string { return cases.Fold().String(s) }),
	}))
	ar.Define("width_fold", runtime.NewConstant(&evaluator.BuiltinFunc{
		Name: "width_fold",
		Fn:   unaryString("width_fold", func(s string) string { return width.Fold.String(s) }),
	}))
}

func unaryString(name string, fn func(string) string) func(*evaluator.Evaluator, evaluator.CallArgs) (any, error) {
	return func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
		if len(args.Positional) != 1 {
			return nil, kerr.New(kerr.KindTypeError, name+"() takes 1 argument")
		}
		s, ok := args.Positional[0].(string)
		if !ok {
			return nil, kerr.New(kerr.KindTypeError, name+"() expects a string")
		}
		return fn(s), nil
	}
}

package texthost

import (
	"testing"

	"github.com/kyouko8/kandyscript/internal/evaluator"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

func newTestEvaluator(t *testing.T) *evaluator.Evaluator {
	t.Helper()
	return evaluator.New("<test>", evaluator.WithSeed(Install))
}

func call(t *testing.T, e *evaluator.Evaluator, name string, arg any) any {
	t.Helper()
	ar := e.BuiltinAR()
	v, err := e.GetAttribute(&runtime.NamedSpace{Name: "BuiltIn", Rec: ar}, name)
	if err != nil {
		t.Fatalf("%s is not seeded: %v", name, err)
	}
	result, err := v.(evaluator.Callable).CallKandy(e, evaluator.CallArgs{Positional: []any{arg}, KwValues: map[string]any{}})
	if err != nil {
		t.Fatalf("%s(%v) error = %v", name, arg, err)
	}
	return result
}

func TestFoldCase(t *testing.T) {
	e := newTestEvaluator(t)
	if got := call(t, e, "fold_case", "STRASSE"); got != "strasse" {
		t.Errorf("fold_case(STRASSE) = %v, want strasse", got)
	}
}

func TestNormNFC(t *testing.T) {
	e := newTestEvaluator(t)
	// "e" + combining acute accent decomposes; NFC should recompose it
	// to the single precomposed code point U+00E9.
	decomposed := "é"
	got := call(t, e, "norm_nfc", decomposed)
	if got != "é" {
		t.Errorf("norm_nfc(%q) = %q, want %q", decomposed, got, "é")
	}
}

func TestWidthFold(t *testing.T) {
	e := newTestEvaluator(t)
	// Fullwidth "A" (U+FF21) folds to ASCII "A".
	if got := call(t, e, "width_fold", "Ａ"); got != "A" {
		t.Errorf("width_fold(fullwidth A) = %q, want A", got)
	}
}

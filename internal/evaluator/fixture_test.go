package evaluator_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/kyouko8/kandyscript/internal/evaluator"
	"github.com/kyouko8/kandyscript/internal/seed"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TestKandyScriptFixtures runs the end-to-end scenarios spelled out
// literally in the specification's "Concrete end-to-end scenarios" list
// and snapshots their evaluated result (and stdout, where the scenario
// produces output).
func TestKandyScriptFixtures(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"ArithmeticPrecedence", `7 + 3 * (10 / (12 / (3 + 1) - 1)) / (2 + 3) - 5 - 3 + 8.2 + 10.2 ** 2`},
		{"AugmentedAssign", `x = 5
x += 3
x`},
		{"FunctionPositionalArgs", `def add(a, b) => a + b
add(1, 2)`},
		{"FunctionKeywordArgs", `def add(a, b) => a + b
add(b=10, a=5)`},
		{"ForLoopAccumulate", `s = 0
for i from 1 to 5 { s += i }
s`},
		{"DictLiteralIndex", `x = ${"a": 1, "b": 2}
x["b"]`},
		{"TryExceptFinally", `try { 1/0 } except Errors.ZeroDivisionError as e { "caught" } finally { print("done") }`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out strings.Builder
			e := evaluator.New("<fixture>", evaluator.WithSeed(seed.Install), evaluator.WithStdout(func(s string) { out.WriteString(s) }))

			result, err := e.Interpret(c.source)
			var rendered string
			if err != nil {
				rendered = fmt.Sprintf("error: %s", err)
			} else {
				rendered = evaluator.Repr(result)
			}
			if out.Len() > 0 {
				rendered = fmt.Sprintf("stdout:\n%s\nresult: %s", out.String(), rendered)
			}
			snaps.MatchSnapshot(t, rendered)
		})
	}
}

func TestFunctionArityMismatch(t *testing.T) {
	e := evaluator.New("<fixture>", evaluator.WithSeed(seed.Install))
	_, err := e.Interpret(`def add(a, b) => a + b
add(1, 2, 3)`)
	if err == nil {
		t.Fatal("expected an arity error, got none")
	}
	snaps.MatchSnapshot(t, err.Error())
}

func TestConstantReassignmentFails(t *testing.T) {
	e := evaluator.New("<fixture>", evaluator.WithSeed(seed.Install))
	_, err := e.Interpret(`const PI = 3.14
PI = 4`)
	if err == nil {
		t.Fatal("expected a constant-reassignment error, got none")
	}
	snaps.MatchSnapshot(t, err.Error())
}

func TestModuleExportIsVisibleAfterImport(t *testing.T) {
	// Grounded on scenario 8: a module exporting `x` is readable as
	// `m.x` from the importer after `import m`.
	dir := t.TempDir()
	writeFile(t, dir+"/m.ks", "x = 10\nexport")

	e := evaluator.New(dir+"/main.ks", evaluator.WithSeed(seed.Install), evaluator.WithLibraryPath([]string{dir}))
	result, err := e.Interpret(`import m
m.x`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, evaluator.Repr(result))
}

package evaluator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kyouko8/kandyscript/internal/ast"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// evalImportStatement implements `import name` (native sibling module)
// and `python import a.b.c` / `from a.b.c python import ...` (host
// module stub) per spec §4.3 "Import".
func (e *Evaluator) evalImportStatement(s *ast.ImportStatement) (any, *controlSignal, error) {
	if s.IsPython {
		name := strings.Join(s.DottedName, ".")
		host := &runtime.NamedSpace{Name: name, Rec: runtime.NewActivationRecord(name, runtime.KindModule, 0, nil)}
		host.Rec.ReadOnly = true
		if err := e.Stack.Peek().Set(s.DottedName[len(s.DottedName)-1], runtime.NewConstant(host)); err != nil {
			return nil, nil, err
		}
		return runtime.None, nil, nil
	}

	path, err := e.resolveLibraryFile(s.Name)
	if err != nil {
		return nil, nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, kerr.New(kerr.KindValueError, err.Error())
	}

	if mod, ok := e.modulesImported[absPath]; ok {
		return runtime.None, nil, e.Stack.Peek().Set(s.Name, runtime.NewConstant(mod))
	}
	if ar, inFlight := e.inFlight[absPath]; inFlight {
		// Cyclic import: bind the in-progress module's Global AR as-is
		// (it will be populated by the time execution returns to it).
		mod := &runtime.ModuleSpace{Filename: absPath, Name: s.Name, Global: ar}
		return runtime.None, nil, e.Stack.Peek().Set(s.Name, runtime.NewConstant(mod))
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, kerr.New(kerr.KindValueError, err.Error())
	}

	sub := New(absPath, WithSeed(e.seed), WithLibraryPath(e.libraryPath), WithStdout(e.Stdout))
	if err := sub.Stack.CopyInto(e.user, 2, true); err != nil {
		return nil, nil, err
	}
	e.inFlight[absPath] = sub.global

	result, err := sub.Interpret(string(text))
	if err != nil {
		delete(e.inFlight, absPath)
		return nil, nil, err
	}
	delete(e.inFlight, absPath)

	sub.global.ReadOnly = true

	var mod runtime.Space
	if exported, ok := result.(*runtime.NamedSpace); ok {
		mod = exported
	} else {
		mod = &runtime.ModuleSpace{Filename: absPath, Name: s.Name, Global: sub.global}
	}
	e.modulesImported[absPath] = mod

	return runtime.None, nil, e.Stack.Peek().Set(s.Name, runtime.NewConstant(mod))
}

// Package kandyscript is the public embedding API: construct an
// Interpreter, feed it a whole program or one REPL line at a time, per
// the `interpret(text)`/`repl_step(text)` contracts (spec §1, §6).
package kandyscript

import (
	"github.com/kyouko8/kandyscript/internal/config"
	"github.com/kyouko8/kandyscript/internal/evaluator"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/seed"
	"github.com/kyouko8/kandyscript/internal/seed/jsonhost"
	"github.com/kyouko8/kandyscript/internal/seed/texthost"
)

// Interpreter wraps one Evaluator and its source filename.
type Interpreter struct {
	eval *evaluator.Evaluator
}

// Options mirrors kandy.yaml's shape for embedders that build their own
// Config rather than loading one from disk.
type Options struct {
	Filename    string
	LibraryPath []string
	Seeds       []string
	Stdout      func(string)
}

// New constructs an Interpreter with the core BuiltIn roster installed,
// plus any optional seed extensions named in opts.Seeds ("json", "text").
func New(opts Options) *Interpreter {
	cfg := &config.Config{LibraryPath: opts.LibraryPath, Seeds: opts.Seeds}
	install := func(e *evaluator.Evaluator) {
		seed.Install(e)
		if cfg.HasSeed("json") {
			jsonhost.Install(e)
		}
		if cfg.HasSeed("text") {
			texthost.Install(e)
		}
	}

	evalOpts := []evaluator.Option{
		evaluator.WithSeed(install),
		evaluator.WithLibraryPath(cfg.LibraryPath),
	}
	if opts.Stdout != nil {
		evalOpts = append(evalOpts, evaluator.WithStdout(opts.Stdout))
	}

	return &Interpreter{eval: evaluator.New(opts.Filename, evalOpts...)}
}

// NewFromConfig constructs an Interpreter from a loaded kandy.yaml.
func NewFromConfig(filename string, cfg *config.Config, stdout func(string)) *Interpreter {
	return New(Options{
		Filename:    filename,
		LibraryPath: cfg.LibraryPath,
		Seeds:       cfg.Seeds,
		Stdout:      stdout,
	})
}

// Interpret evaluates a full program and returns the value of its last
// top-level statement that produced one (runtime.None if none did).
func (i *Interpreter) Interpret(text string) (any, error) {
	return i.eval.Interpret(text)
}

// ReplStep evaluates one line of interactive input against the
// interpreter's persistent state.
func (i *Interpreter) ReplStep(text string) (any, error) {
	return i.eval.ReplStep(text)
}

// Repr renders v the way the interactive console echoes a non-None
// result (spec §6 "print non-None result with host-style repr").
func Repr(v any) string { return evaluator.Repr(v) }

// FormatError renders err with a source line and caret when it carries
// position information, the way internal/errors.CompilerError.Format
// does in the teacher.
func FormatError(err error, source, filename string, color bool) string {
	if ke, ok := err.(*kerr.KandyError); ok {
		return ke.Format(source, filename, color)
	}
	return err.Error()
}

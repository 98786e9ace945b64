// Package errors implements KandyScript's error taxonomy and the
// source-context formatter used to print lexer/parser/evaluator errors
// with a caret under the offending column (spec §7).
package errors

import (
	"fmt"
	"strings"

	"github.com/kyouko8/kandyscript/pkg/token"
)

// Kind tags a KandyException subtree, mirroring kandyerrors.py's class
// hierarchy: KandyBaseException -> {SystemExit, KeyboardInterrupt,
// KandyException{LexerError, ParserError{SyntaxError}, SemanticError,
// InterpreterError, Protect}}.
type Kind int

const (
	KindBase Kind = iota
	KindSystemExit
	KindKeyboardInterrupt
	KindException
	KindLexerError
	KindParserError
	KindSyntaxError
	KindSemanticError
	KindInterpreterError
	KindProtect
	// Host-layer errors exposed under the Errors namespace (spec §6, §4.5).
	KindTypeError
	KindValueError
	KindNameError
	KindZeroDivisionError
	KindIndexError
	KindKeyError
	KindAttributeError
	KindStopIteration
	KindNotImplementedError
	KindOverflowError
	KindRecursionError
)

var kindNames = map[Kind]string{
	KindBase:                "KandyBaseException",
	KindSystemExit:          "KandySystemExit",
	KindKeyboardInterrupt:   "KandyKeyboardInterrupt",
	KindException:           "KandyException",
	KindLexerError:          "KandyLexerError",
	KindParserError:         "KandyParserError",
	KindSyntaxError:         "KandySyntaxError",
	KindSemanticError:       "KandySemanticError",
	KindInterpreterError:    "KandyInterpreterError",
	KindProtect:             "KandyProtect",
	KindTypeError:           "TypeError",
	KindValueError:          "ValueError",
	KindNameError:           "NameError",
	KindZeroDivisionError:   "ZeroDivisionError",
	KindIndexError:          "IndexError",
	KindKeyError:            "KeyError",
	KindAttributeError:      "AttributeError",
	KindStopIteration:       "StopIteration",
	KindNotImplementedError: "NotImplementedError",
	KindOverflowError:       "OverflowError",
	KindRecursionError:      "RecursionError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "KandyException"
}

// HostErrorKinds lists the host-layer exception classes registered under
// the script-visible Errors namespace object (supplemented feature,
// SPEC_FULL.md §C.1 — original_source/kandylib/kandyerrors.py's
// AllPythonErrors).
var HostErrorKinds = []Kind{
	KindTypeError, KindValueError, KindNameError, KindZeroDivisionError,
	KindIndexError, KindKeyError, KindAttributeError, KindStopIteration,
	KindNotImplementedError, KindOverflowError, KindRecursionError,
}

// KandyError is the structured error value raised throughout the lexer,
// parser and evaluator. It carries the offending token's position (when
// known) and an exception-class Kind used for `except` matching by name.
type KandyError struct {
	Kind    Kind
	Pos     token.Position
	HasPos  bool
	Message string
	Wrapped error
}

func New(kind Kind, message string) *KandyError {
	return &KandyError{Kind: kind, Message: message}
}

func NewAt(kind Kind, pos token.Position, message string) *KandyError {
	return &KandyError{Kind: kind, Pos: pos, HasPos: true, Message: message}
}

func (e *KandyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *KandyError) Unwrap() error { return e.Wrapped }

// Is implements loose class-hierarchy matching for `except ClassName`:
// an except clause naming "KandyException" matches any Kind below it in
// the tree, and a host-layer name like "ZeroDivisionError" matches only
// that kind (host errors have no further subclasses here).
func (e *KandyError) Is(name string) bool {
	if e.Kind.String() == name {
		return true
	}
	switch name {
	case "KandyException":
		return e.Kind != KindBase && e.Kind != KindSystemExit && e.Kind != KindKeyboardInterrupt
	case "KandyParserError":
		return e.Kind == KindParserError || e.Kind == KindSyntaxError
	case "KandyBaseException":
		return true
	}
	return false
}

// Format renders the error with a source-line + caret, the way
// internal/errors.CompilerError.Format does in the teacher. When color is
// true, ANSI codes highlight the caret line.
func (e *KandyError) Format(source, file string, color bool) string {
	var sb strings.Builder
	if !e.HasPos {
		sb.WriteString(e.Error())
		return sb.String()
	}

	if file != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", file, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	lines := strings.Split(source, "\n")
	if e.Pos.Line >= 1 && e.Pos.Line <= len(lines) {
		line := lines[e.Pos.Line-1]
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^\n")
		if color {
			sb.WriteString("\033[0m")
		}
	}
	sb.WriteString(e.Error())
	return sb.String()
}

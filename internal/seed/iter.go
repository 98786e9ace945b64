package seed

import (
	"fmt"
	"os"

	"github.com/kyouko8/kandyscript/internal/evaluator"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

// Iterator is the value `iter()`/`reversed()` produce: a single-pass
// cursor over a materialized element slice, advanced by `next()`.
type Iterator struct {
	items []any
	pos   int
}

func NewIterator(items []any) *Iterator { return &Iterator{items: items} }

func (it *Iterator) String() string { return fmt.Sprintf("<iterator at %d/%d>", it.pos, len(it.items)) }

// Next returns the next element, or a StopIteration error when exhausted
// (spec §6's `next` builtin works against this contract).
func (it *Iterator) Next() (any, error) {
	if it.pos >= len(it.items) {
		return nil, kerr.New(kerr.KindStopIteration, "iterator exhausted")
	}
	v := it.items[it.pos]
	it.pos++
	return v, nil
}

// KandyAttribute exposes the read-only `has_next` query method through the
// same enrichment registry int/str/List values use.
func (it *Iterator) KandyAttribute(name string) (any, bool) {
	switch name {
	case "has_next":
		return &evaluator.BuiltinFunc{Name: name, Fn: func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
			return it.pos < len(it.items), nil
		}}, true
	}
	return nil, false
}

// FileHandle wraps `open()`'s write-mode return value: reads are
// resolved eagerly to a string by `open`, so this only models writes,
// which go straight to the underlying file (spec §6's `open` builtin has no lazy file-object counterpart
// in the host's value model).
type FileHandle struct {
	f      *os.File
	closed bool
}

func (fh *FileHandle) String() string { return fmt.Sprintf("<file %s>", fh.f.Name()) }

func (fh *FileHandle) KandyAttribute(name string) (any, bool) {
	switch name {
	case "write":
		return &evaluator.BuiltinFunc{Name: name, Fn: func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
			if fh.closed {
				return nil, kerr.New(kerr.KindValueError, "I/O operation on closed file")
			}
			if len(args.Positional) != 1 {
				return nil, argCountError("write", 1, len(args.Positional))
			}
			s, ok := args.Positional[0].(string)
			if !ok {
				return nil, argTypeError("write", "a string", args.Positional[0])
			}
			n, err := fh.f.WriteString(s)
			if err != nil {
				return nil, kerr.New(kerr.KindValueError, err.Error())
			}
			return int64(n), nil
		}}, true
	case "close":
		return &evaluator.BuiltinFunc{Name: name, Fn: func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
			if fh.closed {
				return runtime.None, nil
			}
			fh.closed = true
			return runtime.None, fh.f.Close()
		}}, true
	}
	return nil, false
}

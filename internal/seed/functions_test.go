package seed

import (
	"testing"

	"github.com/kyouko8/kandyscript/internal/evaluator"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

func newTestEvaluator(t *testing.T) *evaluator.Evaluator {
	t.Helper()
	return evaluator.New("<test>", evaluator.WithSeed(Install))
}

func callArgs(positional ...any) evaluator.CallArgs {
	return evaluator.CallArgs{Positional: positional, KwValues: map[string]any{}}
}

func TestAbs(t *testing.T) {
	e := newTestEvaluator(t)

	t.Run("positive int", func(t *testing.T) {
		result, err := biAbs(e, callArgs(int64(5)))
		if err != nil {
			t.Fatalf("abs() error = %v", err)
		}
		if result != int64(5) {
			t.Errorf("abs(5) = %v, want 5", result)
		}
	})

	t.Run("negative int", func(t *testing.T) {
		result, err := biAbs(e, callArgs(int64(-5)))
		if err != nil {
			t.Fatalf("abs() error = %v", err)
		}
		if result != int64(5) {
			t.Errorf("abs(-5) = %v, want 5", result)
		}
	})

	t.Run("negative float", func(t *testing.T) {
		result, err := biAbs(e, callArgs(-3.5))
		if err != nil {
			t.Fatalf("abs() error = %v", err)
		}
		if result != 3.5 {
			t.Errorf("abs(-3.5) = %v, want 3.5", result)
		}
	})

	t.Run("wrong arity", func(t *testing.T) {
		if _, err := biAbs(e, callArgs()); err == nil {
			t.Error("abs() with no args should error")
		}
	})
}

func TestDivmod(t *testing.T) {
	e := newTestEvaluator(t)

	result, err := biDivmod(e, callArgs(int64(7), int64(2)))
	if err != nil {
		t.Fatalf("divmod() error = %v", err)
	}
	tup, ok := result.(*runtime.Tuple)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("divmod() = %v, want a 2-tuple", result)
	}
	if tup.Elements[0] != int64(3) || tup.Elements[1] != int64(1) {
		t.Errorf("divmod(7, 2) = %v, want (3, 1)", tup.Elements)
	}

	if _, err := biDivmod(e, callArgs(int64(1), int64(0))); err == nil {
		t.Error("divmod(1, 0) should raise ZeroDivisionError")
	}
}

func TestRange(t *testing.T) {
	e := newTestEvaluator(t)

	cases := []struct {
		name string
		args []any
		want []any
	}{
		{"stop only", []any{int64(3)}, []any{int64(0), int64(1), int64(2)}},
		{"start and stop", []any{int64(1), int64(4)}, []any{int64(1), int64(2), int64(3)}},
		{"negative step", []any{int64(3), int64(0), int64(-1)}, []any{int64(3), int64(2), int64(1)}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := biRange(e, callArgs(c.args...))
			if err != nil {
				t.Fatalf("range() error = %v", err)
			}
			list, ok := result.(*runtime.List)
			if !ok {
				t.Fatalf("range() = %T, want *runtime.List", result)
			}
			if len(list.Elements) != len(c.want) {
				t.Fatalf("range(%v) = %v, want %v", c.args, list.Elements, c.want)
			}
			for i, v := range c.want {
				if list.Elements[i] != v {
					t.Errorf("range(%v)[%d] = %v, want %v", c.args, i, list.Elements[i], v)
				}
			}
		})
	}
}

func TestSortedWithKeyAndReverse(t *testing.T) {
	e := newTestEvaluator(t)
	input := &runtime.List{Elements: []any{int64(3), int64(1), int64(2)}}

	result, err := biSorted(e, evaluator.CallArgs{Positional: []any{input}, KwValues: map[string]any{}})
	if err != nil {
		t.Fatalf("sorted() error = %v", err)
	}
	list := result.(*runtime.List)
	want := []any{int64(1), int64(2), int64(3)}
	for i, v := range want {
		if list.Elements[i] != v {
			t.Errorf("sorted(%v)[%d] = %v, want %v", input.Elements, i, list.Elements[i], v)
		}
	}

	reversed, err := biSorted(e, evaluator.CallArgs{
		Positional: []any{input},
		KwValues:   map[string]any{"reverse": true},
	})
	if err != nil {
		t.Fatalf("sorted(reverse=true) error = %v", err)
	}
	rList := reversed.(*runtime.List)
	wantRev := []any{int64(3), int64(2), int64(1)}
	for i, v := range wantRev {
		if rList.Elements[i] != v {
			t.Errorf("sorted(reverse=true)[%d] = %v, want %v", i, rList.Elements[i], v)
		}
	}
}

func TestLenAcrossSequenceTypes(t *testing.T) {
	e := newTestEvaluator(t)

	d := runtime.NewDict()
	d.Set("a", int64(1))
	d.Set("b", int64(2))

	cases := []struct {
		name string
		v    any
		want int64
	}{
		{"list", &runtime.List{Elements: []any{int64(1), int64(2), int64(3)}}, 3},
		{"string", "hello", 5},
		{"dict", d, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := biLen(e, callArgs(c.v))
			if err != nil {
				t.Fatalf("len() error = %v", err)
			}
			if result != c.want {
				t.Errorf("len(%v) = %v, want %v", c.v, result, c.want)
			}
		})
	}
}

func TestIterNextExhaustion(t *testing.T) {
	e := newTestEvaluator(t)
	list := &runtime.List{Elements: []any{int64(1), int64(2)}}

	it, err := biIter(e, callArgs(list))
	if err != nil {
		t.Fatalf("iter() error = %v", err)
	}

	first, err := biNext(e, callArgs(it))
	if err != nil || first != int64(1) {
		t.Fatalf("next() = %v, %v, want 1, nil", first, err)
	}
	second, err := biNext(e, callArgs(it))
	if err != nil || second != int64(2) {
		t.Fatalf("next() = %v, %v, want 2, nil", second, err)
	}
	if _, err := biNext(e, callArgs(it)); err == nil {
		t.Error("next() past the end should raise StopIteration")
	}

	withDefault, err := biNext(e, callArgs(it, "done"))
	if err != nil || withDefault != "done" {
		t.Errorf("next(it, 'done') = %v, %v, want 'done', nil", withDefault, err)
	}
}

func TestIsinstance(t *testing.T) {
	e := newTestEvaluator(t)

	result, err := biIsinstance(e, callArgs(int64(5), runtime.IntType))
	if err != nil || result != true {
		t.Errorf("isinstance(5, int) = %v, %v, want true, nil", result, err)
	}

	result, err = biIsinstance(e, callArgs("hi", runtime.IntType))
	if err != nil || result != false {
		t.Errorf("isinstance('hi', int) = %v, %v, want false, nil", result, err)
	}
}

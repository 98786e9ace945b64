package jsonhost

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

func call(e *evaluator.Evaluator, name string, args evaluator.CallArgs) (any, error) {
	ar := e.BuiltinAR()
	v, err := e.GetAttribute(&runtime.NamedSpace{Name: "BuiltIn", Rec: ar}, name)
	if err != nil {
		return nil, err
	}
	return v.(evaluator.Callable).CallKandy(e, args)
}

func TestDecodeScalarsAndComposites(t *testing.T) {
	e := newTestEvaluator(t)

	result, err := call(e, "json_decode", callArgs(`{"a": 1, "b": [true, null, "x"]}`))
	if err != nil {
		t.Fatalf("json_decode() error = %v", err)
	}
	d, ok := result.(*runtime.Dict)
	if !ok {
		t.Fatalf("json_decode() = %T, want *runtime.Dict", result)
	}
	a, _ := d.Get("a")
	if a != int64(1) {
		t.Errorf("decoded a = %v, want 1", a)
	}
	b, _ := d.Get("b")
	list, ok := b.(*runtime.List)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("decoded b = %v, want a 3-element list", b)
	}
	if list.Elements[0] != true {
		t.Errorf("decoded b[0] = %v, want true", list.Elements[0])
	}
	if _, isNone := list.Elements[1].(runtime.NoneType); !isNone {
		t.Errorf("decoded b[1] = %v, want None", list.Elements[1])
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	e := newTestEvaluator(t)

	d := runtime.NewDict()
	d.Set("name", "kandy")
	d.Set("count", int64(3))

	encoded, err := call(e, "json_encode", callArgs(d))
	if err != nil {
		t.Fatalf("json_encode() error = %v", err)
	}

	decoded, err := call(e, "json_decode", callArgs(encoded))
	if err != nil {
		t.Fatalf("json_decode(json_encode()) error = %v", err)
	}
	back, ok := decoded.(*runtime.Dict)
	if !ok {
		t.Fatalf("round-tripped value = %T, want *runtime.Dict", decoded)
	}
	if v, _ := back.Get("name"); v != "kandy" {
		t.Errorf("round-tripped name = %v, want kandy", v)
	}
	if v, _ := back.Get("count"); v != int64(3) {
		t.Errorf("round-tripped count = %v, want 3", v)
	}
}

package seed

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kyouko8/kandyscript/internal/evaluator"
	kerr "github.com/kyouko8/kandyscript/internal/errors"
	"github.com/kyouko8/kandyscript/internal/runtime"
)

func def(ar *runtime.ActivationRecord, name string, fn func(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error)) {
	ar.Define(name, runtime.NewConstant(&evaluator.BuiltinFunc{Name: name, Fn: fn}))
}

// installFunctions binds the function roster spec §6 requires onto the
// BuiltIn frame, grounded on original_source/main.py's `python_functions`
// loop and each function's namesake in the Python standard library.
func installFunctions(e *evaluator.Evaluator) {
	ar := e.BuiltinAR()

	def(ar, "abs", biAbs)
	def(ar, "all", biAll)
	def(ar, "any", biAny)
	def(ar, "chr", biChr)
	def(ar, "divmod", biDivmod)
	def(ar, "enumerate", biEnumerate)
	def(ar, "filter", biFilter)
	def(ar, "getattr", biGetattr)
	def(ar, "hasattr", biHasattr)
	def(ar, "hex", biHex)
	def(ar, "id", biID)
	def(ar, "input", biInput)
	def(ar, "isinstance", biIsinstance)
	def(ar, "issubclass", biIssubclass)
	def(ar, "iter", biIter)
	def(ar, "len", biLen)
	def(ar, "map", biMap)
	def(ar, "max", biMax)
	def(ar, "min", biMin)
	def(ar, "next", biNext)
	def(ar, "oct", biOct)
	def(ar, "open", biOpen)
	def(ar, "ord", biOrd)
	def(ar, "pow", biPow)
	def(ar, "print", biPrint)
	def(ar, "range", biRange)
	def(ar, "repr", biRepr)
	def(ar, "reversed", biReversed)
	def(ar, "round", biRound)
	def(ar, "setattr", biSetattr)
	def(ar, "sorted", biSorted)
	def(ar, "sum", biSum)
	def(ar, "zip", biZip)
	def(ar, "dir", biDir)
}

func biAbs(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("abs", 1, len(args.Positional))
	}
	switch x := args.Positional[0].(type) {
	case int64:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case float64:
		return math.Abs(x), nil
	}
	return nil, argTypeError("abs", "a number", args.Positional[0])
}

func biAll(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("all", 1, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		if !runtime.Truthy(v) {
			return false, nil
		}
	}
	return true, nil
}

func biAny(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("any", 1, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		if runtime.Truthy(v) {
			return true, nil
		}
	}
	return false, nil
}

func biChr(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("chr", 1, len(args.Positional))
	}
	n, ok := args.Positional[0].(int64)
	if !ok {
		return nil, argTypeError("chr", "an int", args.Positional[0])
	}
	return string(rune(n)), nil
}

func biDivmod(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 2 {
		return nil, argCountError("divmod", 2, len(args.Positional))
	}
	a, aOK := args.Positional[0].(int64)
	b, bOK := args.Positional[1].(int64)
	if !aOK || !bOK {
		return nil, argTypeError("divmod", "two ints", args.Positional[0])
	}
	if b == 0 {
		return nil, kerr.New(kerr.KindZeroDivisionError, "integer division or modulo by zero")
	}
	q := int64(math.Floor(float64(a) / float64(b)))
	m := a - q*b
	return &runtime.Tuple{Elements: []any{q, m}}, nil
}

func biEnumerate(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) < 1 || len(args.Positional) > 2 {
		return nil, argCountError("enumerate", 1, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	start := int64(0)
	if len(args.Positional) == 2 {
		s, ok := args.Positional[1].(int64)
		if !ok {
			return nil, argTypeError("enumerate", "an int start", args.Positional[1])
		}
		start = s
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = &runtime.Tuple{Elements: []any{start + int64(i), v}}
	}
	return &runtime.List{Elements: out}, nil
}

func callOne(e *evaluator.Evaluator, fn any, v any) (any, error) {
	callable, ok := fn.(evaluator.Callable)
	if !ok {
		return nil, argTypeError("call", "a callable", fn)
	}
	return callable.CallKandy(e, evaluator.CallArgs{Positional: []any{v}, KwValues: map[string]any{}})
}

func biFilter(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 2 {
		return nil, argCountError("filter", 2, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[1])
	if err != nil {
		return nil, err
	}
	fn := args.Positional[0]
	var out []any
	for _, v := range items {
		keep := runtime.Truthy(v)
		if _, isNone := fn.(runtime.NoneType); !isNone {
			r, err := callOne(e, fn, v)
			if err != nil {
				return nil, err
			}
			keep = runtime.Truthy(r)
		}
		if keep {
			out = append(out, v)
		}
	}
	return &runtime.List{Elements: out}, nil
}

func biGetattr(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) < 2 || len(args.Positional) > 3 {
		return nil, argCountError("getattr", 2, len(args.Positional))
	}
	name, ok := args.Positional[1].(string)
	if !ok {
		return nil, argTypeError("getattr", "a string name", args.Positional[1])
	}
	v, err := e.GetAttribute(args.Positional[0], name)
	if err != nil {
		if len(args.Positional) == 3 {
			return args.Positional[2], nil
		}
		return nil, err
	}
	return v, nil
}

func biHasattr(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 2 {
		return nil, argCountError("hasattr", 2, len(args.Positional))
	}
	name, ok := args.Positional[1].(string)
	if !ok {
		return nil, argTypeError("hasattr", "a string name", args.Positional[1])
	}
	_, err := e.GetAttribute(args.Positional[0], name)
	return err == nil, nil
}

func biHex(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("hex", 1, len(args.Positional))
	}
	n, ok := args.Positional[0].(int64)
	if !ok {
		return nil, argTypeError("hex", "an int", args.Positional[0])
	}
	if n < 0 {
		return "-0x" + strconv.FormatInt(-n, 16), nil
	}
	return "0x" + strconv.FormatInt(n, 16), nil
}

var idRegistry = map[any]int64{}
var nextID int64 = 1000

func biID(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("id", 1, len(args.Positional))
	}
	v := args.Positional[0]
	if id, ok := idRegistry[v]; ok {
		return id, nil
	}
	id := nextID
	nextID++
	idRegistry[v] = id
	return id, nil
}

func biInput(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) == 1 {
		if p, ok := args.Positional[0].(string); ok {
			e.Stdout(p)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), nil
}

func biIsinstance(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 2 {
		return nil, argCountError("isinstance", 2, len(args.Positional))
	}
	v := args.Positional[0]
	switch t := args.Positional[1].(type) {
	case *runtime.TypeConverter:
		return t.Accepts(v), nil
	case *runtime.MultipleTypes:
		return t.Accepts(v), nil
	case *evaluator.Class:
		inst, ok := v.(*evaluator.Instance)
		if !ok {
			return false, nil
		}
		for c := inst.Class; c != nil; c = c.Parent {
			if c == t {
				return true, nil
			}
		}
		return false, nil
	}
	return nil, argTypeError("isinstance", "a type or class", args.Positional[1])
}

func biIssubclass(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 2 {
		return nil, argCountError("issubclass", 2, len(args.Positional))
	}
	a, ok := args.Positional[0].(*evaluator.Class)
	if !ok {
		return nil, argTypeError("issubclass", "a class", args.Positional[0])
	}
	b, ok := args.Positional[1].(*evaluator.Class)
	if !ok {
		return nil, argTypeError("issubclass", "a class", args.Positional[1])
	}
	for c := a; c != nil; c = c.Parent {
		if c == b {
			return true, nil
		}
	}
	return false, nil
}

func biIter(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("iter", 1, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	return NewIterator(items), nil
}

func biLen(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("len", 1, len(args.Positional))
	}
	switch x := args.Positional[0].(type) {
	case *runtime.Dict:
		return int64(x.Len()), nil
	case *runtime.KandySet:
		return int64(x.Len()), nil
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	return int64(len(items)), nil
}

func biMap(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 2 {
		return nil, argCountError("map", 2, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[1])
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, v := range items {
		r, err := callOne(e, args.Positional[0], v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &runtime.List{Elements: out}, nil
}

func keyed(e *evaluator.Evaluator, v any, key any) (any, error) {
	if key == nil {
		return v, nil
	}
	if _, isNone := key.(runtime.NoneType); isNone {
		return v, nil
	}
	return callOne(e, key, v)
}

func biMax(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) { return extremum(e, args, false) }
func biMin(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) { return extremum(e, args, true) }

func extremum(e *evaluator.Evaluator, args evaluator.CallArgs, wantMin bool) (any, error) {
	items := args.Positional
	if len(items) == 1 {
		els, err := evaluator.IterableElements(items[0])
		if err != nil {
			return nil, err
		}
		items = els
	}
	if len(items) == 0 {
		return nil, kerr.New(kerr.KindValueError, "empty sequence has no extremum")
	}
	key := args.KwValues["key"]
	best := items[0]
	bestKey, err := keyed(e, best, key)
	if err != nil {
		return nil, err
	}
	for _, v := range items[1:] {
		k, err := keyed(e, v, key)
		if err != nil {
			return nil, err
		}
		less, err := evaluator.Less(k, bestKey)
		if err != nil {
			return nil, err
		}
		if less == wantMin {
			best, bestKey = v, k
		}
	}
	return best, nil
}

func biNext(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) < 1 || len(args.Positional) > 2 {
		return nil, argCountError("next", 1, len(args.Positional))
	}
	it, ok := args.Positional[0].(*Iterator)
	if !ok {
		return nil, argTypeError("next", "an iterator", args.Positional[0])
	}
	v, err := it.Next()
	if err != nil {
		if len(args.Positional) == 2 {
			return args.Positional[1], nil
		}
		return nil, err
	}
	return v, nil
}

func biOct(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("oct", 1, len(args.Positional))
	}
	n, ok := args.Positional[0].(int64)
	if !ok {
		return nil, argTypeError("oct", "an int", args.Positional[0])
	}
	if n < 0 {
		return "-0o" + strconv.FormatInt(-n, 8), nil
	}
	return "0o" + strconv.FormatInt(n, 8), nil
}

func biOpen(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) < 1 || len(args.Positional) > 2 {
		return nil, argCountError("open", 1, len(args.Positional))
	}
	path, ok := args.Positional[0].(string)
	if !ok {
		return nil, argTypeError("open", "a path string", args.Positional[0])
	}
	mode := "r"
	if len(args.Positional) == 2 {
		m, ok := args.Positional[1].(string)
		if !ok {
			return nil, argTypeError("open", "a mode string", args.Positional[1])
		}
		mode = m
	}
	switch mode {
	case "r":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, kerr.New(kerr.KindValueError, err.Error())
		}
		return string(data), nil
	case "w", "a":
		flag := os.O_CREATE | os.O_WRONLY
		if mode == "a" {
			flag |= os.O_APPEND
		} else {
			flag |= os.O_TRUNC
		}
		f, err := os.OpenFile(path, flag, 0o644)
		if err != nil {
			return nil, kerr.New(kerr.KindValueError, err.Error())
		}
		return &FileHandle{f: f}, nil
	}
	return nil, kerr.New(kerr.KindValueError, fmt.Sprintf("unsupported open() mode %q", mode))
}

func biOrd(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("ord", 1, len(args.Positional))
	}
	s, ok := args.Positional[0].(string)
	if !ok {
		return nil, argTypeError("ord", "a single-character string", args.Positional[0])
	}
	r := []rune(s)
	if len(r) != 1 {
		return nil, kerr.New(kerr.KindTypeError, "ord() expected a character, got a string of different length")
	}
	return int64(r[0]), nil
}

func biPow(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) < 2 || len(args.Positional) > 3 {
		return nil, argCountError("pow", 2, len(args.Positional))
	}
	base, baseOK, baseI, baseIsInt := asNumber(args.Positional[0])
	exp, expOK, expI, expIsInt := asNumber(args.Positional[1])
	if !baseOK || !expOK {
		return nil, argTypeError("pow", "numbers", args.Positional[0])
	}
	if len(args.Positional) == 3 {
		mod, ok := args.Positional[2].(int64)
		if !ok || !baseIsInt || !expIsInt {
			return nil, argTypeError("pow", "three ints", args.Positional[2])
		}
		result := int64(1)
		b := baseI % mod
		for i := int64(0); i < expI; i++ {
			result = (result * b) % mod
		}
		return result, nil
	}
	if baseIsInt && expIsInt && expI >= 0 {
		return int64(math.Round(math.Pow(float64(baseI), float64(expI)))), nil
	}
	return math.Pow(base, exp), nil
}

func biPrint(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	sep := " "
	if s, ok := args.KwValues["sep"].(string); ok {
		sep = s
	}
	end := "\n"
	if s, ok := args.KwValues["end"].(string); ok {
		end = s
	}
	parts := make([]string, len(args.Positional))
	for i, v := range args.Positional {
		parts[i] = evaluator.Stringify(v)
	}
	e.Stdout(strings.Join(parts, sep) + end)
	return runtime.None, nil
}

func biRange(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args.Positional) {
	case 1:
		s, ok := args.Positional[0].(int64)
		if !ok {
			return nil, argTypeError("range", "ints", args.Positional[0])
		}
		stop = s
	case 2, 3:
		a, aOK := args.Positional[0].(int64)
		b, bOK := args.Positional[1].(int64)
		if !aOK || !bOK {
			return nil, argTypeError("range", "ints", args.Positional[0])
		}
		start, stop = a, b
		if len(args.Positional) == 3 {
			s, ok := args.Positional[2].(int64)
			if !ok || s == 0 {
				return nil, kerr.New(kerr.KindValueError, "range() step argument must not be zero")
			}
			step = s
		}
	default:
		return nil, argCountError("range", 1, len(args.Positional))
	}
	var out []any
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return &runtime.List{Elements: out}, nil
}

func biRepr(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("repr", 1, len(args.Positional))
	}
	return evaluator.Repr(args.Positional[0]), nil
}

func biReversed(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("reversed", 1, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return NewIterator(out), nil
}

func biRound(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) < 1 || len(args.Positional) > 2 {
		return nil, argCountError("round", 1, len(args.Positional))
	}
	f, ok, _, _ := asNumber(args.Positional[0])
	if !ok {
		return nil, argTypeError("round", "a number", args.Positional[0])
	}
	if len(args.Positional) == 1 {
		return int64(math.Round(f)), nil
	}
	ndigits, ok := args.Positional[1].(int64)
	if !ok {
		return nil, argTypeError("round", "an int ndigits", args.Positional[1])
	}
	scale := math.Pow(10, float64(ndigits))
	return math.Round(f*scale) / scale, nil
}

func biSetattr(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 3 {
		return nil, argCountError("setattr", 3, len(args.Positional))
	}
	name, ok := args.Positional[1].(string)
	if !ok {
		return nil, argTypeError("setattr", "a string name", args.Positional[1])
	}
	return runtime.None, evaluator.SetAttribute(args.Positional[0], name, args.Positional[2])
}

func biSorted(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) != 1 {
		return nil, argCountError("sorted", 1, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	out := append([]any{}, items...)
	key := args.KwValues["key"]
	reverse := runtime.Truthy(args.KwValues["reverse"])

	keys := make([]any, len(out))
	for i, v := range out {
		k, err := keyed(e, v, key)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.SliceStable(idx, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		less, err := evaluator.Less(keys[idx[i]], keys[idx[j]])
		if err != nil {
			sortErr = err
			return false
		}
		if reverse {
			return !less && !evaluator.ValuesEqual(keys[idx[i]], keys[idx[j]])
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	sorted := make([]any, len(idx))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return &runtime.List{Elements: sorted}, nil
}

func biSum(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) < 1 || len(args.Positional) > 2 {
		return nil, argCountError("sum", 1, len(args.Positional))
	}
	items, err := evaluator.IterableElements(args.Positional[0])
	if err != nil {
		return nil, err
	}
	var total any = int64(0)
	if len(args.Positional) == 2 {
		total = args.Positional[1]
	}
	for _, v := range items {
		tf, tInt, ti, tIsInt := asNumber(total)
		vf, vInt, vi, vIsInt := asNumber(v)
		if !tInt || !vInt {
			return nil, argTypeError("sum", "numbers", v)
		}
		if tIsInt && vIsInt {
			total = ti + vi
		} else {
			total = tf + vf
		}
	}
	return total, nil
}

func biZip(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	sequences := make([][]any, len(args.Positional))
	minLen := -1
	for i, v := range args.Positional {
		items, err := evaluator.IterableElements(v)
		if err != nil {
			return nil, err
		}
		sequences[i] = items
		if minLen == -1 || len(items) < minLen {
			minLen = len(items)
		}
	}
	if minLen < 0 {
		minLen = 0
	}
	out := make([]any, minLen)
	for i := 0; i < minLen; i++ {
		row := make([]any, len(sequences))
		for j, seq := range sequences {
			row[j] = seq[i]
		}
		out[i] = &runtime.Tuple{Elements: row}
	}
	return &runtime.List{Elements: out}, nil
}

func biDir(e *evaluator.Evaluator, args evaluator.CallArgs) (any, error) {
	if len(args.Positional) == 0 {
		return &runtime.List{Elements: toAny(e.Stack.Peek().Names())}, nil
	}
	if len(args.Positional) != 1 {
		return nil, argCountError("dir", 1, len(args.Positional))
	}
	switch t := args.Positional[0].(type) {
	case runtime.Space:
		ar, err := t.AR()
		if err != nil {
			return nil, err
		}
		return &runtime.List{Elements: toAny(ar.Names())}, nil
	case *evaluator.Instance:
		names := append([]string{}, t.AR.Names()...)
		return &runtime.List{Elements: toAny(names)}, nil
	case *evaluator.Class:
		return &runtime.List{Elements: toAny(t.ClassAR.Names())}, nil
	}
	return &runtime.List{}, nil
}

func toAny(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

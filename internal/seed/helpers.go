package seed

import (
	"fmt"

	kerr "github.com/kyouko8/kandyscript/internal/errors"
)

func argCountError(name string, want, got int) error {
	return kerr.New(kerr.KindTypeError, fmt.Sprintf("%s() takes %d argument(s), got %d", name, want, got))
}

func argTypeError(name, want string, got any) error {
	return kerr.New(kerr.KindTypeError, fmt.Sprintf("%s() expected %s, got %T", name, want, got))
}

func asNumber(v any) (float64, bool, int64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true, x, true
	case float64:
		return x, true, 0, false
	}
	return 0, false, 0, false
}

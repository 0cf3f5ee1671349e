package templating

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// toInt converts the numeric values templates receive to int. Page data decoded
// from JSON carries float64 and YAML carries int or uint64, so the arithmetic
// helpers take any instead of int.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return int(math.Trunc(float64(n))), nil
	case float64:
		return int(math.Trunc(n)), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("cannot use %q as a number", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("cannot use %T as a number", v)
	}
}

// binary applies op to a and b after converting both to int.
func binary(a, b any, op func(x, y int) int) (int, error) {
	x, err := toInt(a)
	if err != nil {
		return 0, err
	}
	y, err := toInt(b)
	if err != nil {
		return 0, err
	}
	return op(x, y), nil
}

// add returns a + b.
func add(a, b any) (int, error) {
	return binary(a, b, func(x, y int) int { return x + y })
}

// sub returns a - b.
func sub(a, b any) (int, error) {
	return binary(a, b, func(x, y int) int { return x - y })
}

// div returns a / b (integer division). Returns 0 if b is 0.
func div(a, b any) (int, error) {
	return binary(a, b, func(x, y int) int {
		if y == 0 {
			return 0
		}
		return x / y
	})
}

// mult returns a * b.
func mult(a, b any) (int, error) {
	return binary(a, b, func(x, y int) int { return x * y })
}

// max returns the maximum of a and b.
//
//goland:noinspection GoReservedWordUsedAsName
func max(a, b any) (int, error) {
	return binary(a, b, func(x, y int) int {
		if x > y {
			return x
		}
		return y
	})
}

// min returns the minimum of a and b.
//
//goland:noinspection GoReservedWordUsedAsName
func min(a, b any) (int, error) {
	return binary(a, b, func(x, y int) int {
		if x < y {
			return x
		}
		return y
	})
}

// mod returns a % b. Returns 0 if b is 0.
func mod(a, b any) (int, error) {
	return binary(a, b, func(x, y int) int {
		if y == 0 {
			return 0
		}
		return x % y
	})
}

// inc returns i + 1.
func inc(i any) (int, error) {
	return add(i, 1)
}

// dec returns i - 1.
func dec(i any) (int, error) {
	return sub(i, 1)
}

// and returns true only if all arguments are true.
func and(args ...bool) bool {
	for _, arg := range args {
		if !arg {
			return false
		}
	}
	return true
}

// or returns true if any argument is true.
func or(args ...bool) bool {
	for _, arg := range args {
		if arg {
			return true
		}
	}
	return false
}

// not returns the boolean opposite of its argument.
func not(arg bool) bool {
	return !arg
}

// isSet returns true if a value is not its zero value.
func isSet(val any) bool {
	v := reflect.ValueOf(val)
	if !v.IsValid() {
		return false
	}
	return !v.IsZero()
}

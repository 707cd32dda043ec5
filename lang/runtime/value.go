package runtime

import (
	"strconv"
)

// Value is any runtime value: nil, bool, float64, string, or a [Callable].
type Value = any

// Truthy reports the truthiness of v. Only nil and false are falsy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// Equal reports whether a and b are the same value. Values of different
// kinds are never equal, and callables are equal only to themselves.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)

		return ok && a == bv
	case float64:
		bv, ok := b.(float64)

		return ok && a == bv
	case string:
		bv, ok := b.(string)

		return ok && a == bv
	case Callable:
		bv, ok := b.(Callable)

		return ok && a == bv
	default:
		return false
	}
}

// Stringify returns the display form of v.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case Callable:
		return v.String()
	default:
		return "<unknown>"
	}
}

// TypeName returns the name of the kind of v, for messages and logs.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case Callable:
		return "function"
	default:
		return "unknown"
	}
}

package recjson

import (
	"encoding/json"
	"strconv"
	"unsafe"

	"github.com/cockroachdb/apd/v3"
)

// Coercer converts a resolved, non-null document node to T. It returns def
// with a failing status when the node cannot be converted.
type Coercer[T any] func(node any, def T) (T, Status)

// Signed, Unsigned and Floating constrain the numeric coercers.
type (
	Signed interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64
	}
	Unsigned interface {
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
	}
	Floating interface{ ~float32 | ~float64 }
)

// Bool accepts JSON booleans and the strings "0" and "1". Other spellings
// such as "true" are a type mismatch.
func Bool() Coercer[bool] {
	return func(node any, def bool) (bool, Status) {
		switch x := node.(type) {
		case bool:
			return x, StatusOK
		case string:
			switch x {
			case "0":
				return false, StatusCoerced
			case "1":
				return true, StatusCoerced
			}
		}
		return def, StatusTypeMismatch
	}
}

// Int accepts JSON numbers, truncated and wrapped to the width of T, and
// strings holding an integer in range of T.
func Int[T Signed]() Coercer[T] {
	return func(node any, def T) (T, Status) {
		switch x := node.(type) {
		case json.Number:
			if i, ok := numberToInt(string(x)); ok {
				return T(i), StatusOK
			}
		case string:
			if i, err := strconv.ParseInt(x, 10, bitSize[T]()); err == nil {
				return T(i), StatusCoerced
			}
		}
		return def, StatusTypeMismatch
	}
}

// Uint is Int for unsigned targets.
func Uint[T Unsigned]() Coercer[T] {
	return func(node any, def T) (T, Status) {
		switch x := node.(type) {
		case json.Number:
			if u, ok := numberToUint(string(x)); ok {
				return T(u), StatusOK
			}
		case string:
			if u, err := strconv.ParseUint(x, 10, bitSize[T]()); err == nil {
				return T(u), StatusCoerced
			}
		}
		return def, StatusTypeMismatch
	}
}

// Float accepts JSON numbers and numeric strings.
func Float[T Floating]() Coercer[T] {
	return func(node any, def T) (T, Status) {
		switch x := node.(type) {
		case json.Number:
			if f, ok := numberToFloat(string(x)); ok {
				return T(f), StatusOK
			}
		case string:
			if f, err := strconv.ParseFloat(x, bitSize[T]()); err == nil {
				return T(f), StatusCoerced
			}
		}
		return def, StatusTypeMismatch
	}
}

// Decimal accepts JSON numbers and numeric strings, rounded to precision
// significant digits (0 keeps the exact text).
func Decimal(precision uint32) Coercer[*apd.Decimal] {
	ctx := apd.BaseContext.WithPrecision(precision)
	return func(node any, def *apd.Decimal) (*apd.Decimal, Status) {
		var text string
		st := StatusOK
		switch x := node.(type) {
		case json.Number:
			text = string(x)
		case string:
			text, st = x, StatusCoerced
		default:
			return def, StatusTypeMismatch
		}
		d, _, err := apd.NewFromString(text)
		if err != nil || d.Form != apd.Finite {
			return def, StatusTypeMismatch
		}
		if precision > 0 {
			if _, err := ctx.Round(d, d); err != nil {
				return def, StatusTypeMismatch
			}
		}
		return d, st
	}
}

// String accepts JSON strings verbatim and renders booleans and numbers as
// their JSON text.
func String() Coercer[string] {
	return func(node any, def string) (string, Status) {
		switch x := node.(type) {
		case string:
			return x, StatusOK
		case json.Number:
			return string(x), StatusCoerced
		case bool:
			return strconv.FormatBool(x), StatusCoerced
		}
		return def, StatusTypeMismatch
	}
}

// ListOf accepts JSON arrays. Only elements that convert exactly are kept,
// in order; coerced, null and mismatched elements are left out. The status
// is the most severe element status.
func ListOf[T any](elem Coercer[T]) Coercer[[]T] {
	return func(node any, def []T) ([]T, Status) {
		arr, ok := node.([]any)
		if !ok {
			return def, StatusTypeMismatch
		}
		out := make([]T, 0, len(arr))
		worst := StatusOK
		var zero T
		for _, n := range arr {
			var v T
			st := StatusNullValue
			if n != nil {
				v, st = elem(n, zero)
			}
			if st == StatusOK {
				out = append(out, v)
			}
			if st > worst {
				worst = st
			}
		}
		return out, worst
	}
}

func bitSize[T Signed | Unsigned | Floating]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

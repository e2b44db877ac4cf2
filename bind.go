package recjson

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/reoring/recjson/codec"
	"github.com/reoring/recjson/value"
)

// bindScalar coerces a scalar token into v. It reports false, leaving v
// untouched, when the token kind is incompatible with the kind of v.
func bindScalar(v *value.Value, tok Token, ts codec.Timestamp) bool {
	k := v.Kind()
	switch tok.Kind {
	case TokenBool:
		if k != value.KindBool {
			return false
		}
		v.SetBool(tok.Bool)
		return true
	case TokenNumber:
		return bindNumber(v, tok.Number)
	case TokenString:
		switch {
		case k.IsStringLike():
			v.SetString(tok.String)
			return true
		case k == value.KindEnum:
			return v.SetEnum(tok.String)
		case k == value.KindTimestamp:
			if ts == nil {
				ts = codec.RFC3339()
			}
			t, err := ts.Parse(tok.String)
			if err != nil {
				return false
			}
			v.SetTimestamp(t)
			return true
		}
	}
	return false
}

func bindNumber(v *value.Value, text string) bool {
	switch k := v.Kind(); {
	case k.IsSigned():
		i, ok := numberToInt(text)
		if ok {
			v.SetInt(i)
		}
		return ok
	case k.IsUnsigned():
		u, ok := numberToUint(text)
		if ok {
			v.SetUint(u)
		}
		return ok
	case k.IsFloat():
		f, ok := numberToFloat(text)
		if ok {
			v.SetFloat(f)
		}
		return ok
	case k.IsDecimal():
		return v.SetDecimalString(text) == nil
	case k == value.KindTimestamp:
		t, ok := numberToTime(text)
		if ok {
			v.SetTimestamp(t)
		}
		return ok
	}
	return false
}

// numberToInt converts JSON number text to int64. Out-of-range integers wrap
// and fractions truncate toward zero.
func numberToInt(text string) (int64, bool) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, true
	}
	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return int64(u), true
	}
	f, ok := numberToFloat(text)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return int64(f), true
}

// numberToUint converts JSON number text to uint64. Negative integers wrap.
func numberToUint(text string) (uint64, bool) {
	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return u, true
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return uint64(i), true
	}
	f, ok := numberToFloat(text)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	if f < 0 {
		return uint64(int64(f)), true
	}
	return uint64(f), true
}

// numberToFloat parses JSON number text. Magnitudes beyond float64 saturate
// to infinity.
func numberToFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// numberToTime reads JSON number text as seconds since the Unix epoch.
func numberToTime(text string) (time.Time, bool) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return time.Unix(i, 0).UTC(), true
	}
	f, ok := numberToFloat(text)
	if !ok || math.IsInf(f, 0) || math.IsNaN(f) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), true
}

// Package codec converts timestamp values to and from their JSON text form.
package codec

import (
	"fmt"
	"time"
)

// Timestamp formats and parses timestamp attribute values.
type Timestamp interface {
	Format(t time.Time) string
	Parse(s string) (time.Time, error)
	Name() string
}

// RFC3339 returns the default timestamp codec. Output is normalized to UTC
// with trailing zero fractions trimmed; input accepts any RFC 3339 offset.
func RFC3339() Timestamp { return rfc3339Codec{} }

type rfc3339Codec struct{}

func (rfc3339Codec) Name() string { return "rfc3339" }

func (rfc3339Codec) Format(t time.Time) string { return formatRFC3339Canonical(t) }

func (rfc3339Codec) Parse(s string) (time.Time, error) {
	t, err := parseRFC3339(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("codec: invalid RFC3339 time %q: %w", s, err)
	}
	return t, nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// CTime returns a codec for the fixed-width C ctime layout
// ("Mon Jan  2 15:04:05 2006") in UTC. Sub-second precision is dropped.
func CTime() Timestamp { return ctimeCodec{} }

type ctimeCodec struct{}

func (ctimeCodec) Name() string { return "ctime" }

func (ctimeCodec) Format(t time.Time) string { return t.UTC().Format(time.ANSIC) }

func (ctimeCodec) Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.ANSIC, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("codec: invalid ctime %q: %w", s, err)
	}
	return t, nil
}

// ByName resolves a codec by its Name.
func ByName(name string) (Timestamp, bool) {
	switch name {
	case "", "rfc3339":
		return RFC3339(), true
	case "ctime":
		return CTime(), true
	}
	return nil, false
}

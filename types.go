package recjson

import "github.com/reoring/recjson/codec"

// Severity expresses how an input irregularity is reported.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles decoding options. The zero value decodes leniently with
// no size limits and RFC 3339 timestamps.
type DecodeOpt struct {
	// OnDuplicateKey reports repeated object keys. Warn logs them, Error
	// aborts the decode. The first value of a repeated key is bound either way.
	OnDuplicateKey Severity
	MaxDepth       int   // maximum container nesting, 0 = unlimited
	MaxBytes       int64 // maximum consumed input, 0 = unlimited
	// Timestamps parses string values bound to timestamp attributes.
	Timestamps codec.Timestamp
}

// EncodeOpt bundles encoding options.
type EncodeOpt struct {
	// Timestamps formats timestamp values; RFC 3339 when nil.
	Timestamps codec.Timestamp
}

func lastOpt[T any](opts []T) T {
	var opt T
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}

package recjson

import "github.com/reoring/recjson/i18n"

// Status is the outcome of a query. Values are ordered by severity; list
// queries report the most severe element status.
type Status int

const (
	StatusOK Status = iota
	// StatusCoerced marks a value converted from a different JSON kind,
	// such as a number read from a string.
	StatusCoerced
	StatusTypeMismatch
	StatusNullValue
	StatusNotFound
	StatusPointerMissingSlash
	StatusPointerInvalidEscape
	StatusPointerInvalidPercentEncoding
	StatusPointerUnencodedCharacter
)

var statusCodes = [...]string{
	StatusOK:                            "ok",
	StatusCoerced:                       "coerced",
	StatusTypeMismatch:                  "type_mismatch",
	StatusNullValue:                     "null_value",
	StatusNotFound:                      "not_found",
	StatusPointerMissingSlash:           "pointer_missing_slash",
	StatusPointerInvalidEscape:          "pointer_invalid_escape",
	StatusPointerInvalidPercentEncoding: "pointer_invalid_percent_encoding",
	StatusPointerUnencodedCharacter:     "pointer_unencoded_character",
}

// Code returns the stable identifier of s.
func (s Status) Code() string {
	if s >= 0 && int(s) < len(statusCodes) {
		return statusCodes[s]
	}
	return "unknown"
}

func (s Status) String() string { return s.Code() }

// Message returns the localized description of s.
func (s Status) Message() string { return i18n.T(s.Code(), nil) }

// OK reports whether the query produced a value, possibly coerced.
func (s Status) OK() bool { return s == StatusOK || s == StatusCoerced }

// IsPointerError reports whether the path itself was malformed.
func (s Status) IsPointerError() bool { return s >= StatusPointerMissingSlash }

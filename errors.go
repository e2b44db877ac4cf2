package recjson

import (
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/recjson/i18n"
	eng "github.com/reoring/recjson/internal/engine"
)

// Issue codes reported by decoding and parsing.
const (
	CodeParseError    = "parse_error"
	CodeDuplicateKey  = "duplicate_key"
	CodeTruncated     = "truncated"
	CodeEmptyDocument = "empty_document"
)

// Issue represents a single input irregularity.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the input source (-1 when unknown).
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. duplicate_key at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func fromSimpleIssue(si eng.SimpleIssue) Issue {
	return Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: si.Offset}
}

// ParseError reports malformed JSON. Offset is the byte position where the
// tokenizer gave up.
type ParseError struct {
	Code   string
	Offset int64
	Cause  error
}

func (e *ParseError) Error() string {
	msg := i18n.T(e.Code, nil)
	if e.Cause != nil && e.Code != CodeEmptyDocument {
		return fmt.Sprintf("%s at offset %d: %v", msg, e.Offset, e.Cause)
	}
	return fmt.Sprintf("%s at offset %d", msg, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// AsParseError extracts a *ParseError from err.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// toParseError classifies a tokenizer or enforcement error. size is the
// input length when known (-1 otherwise) and loc the source location.
func toParseError(err error, size, loc int64) error {
	if err == nil {
		return nil
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		iss := fromSimpleIssue(ie.SimpleIssue)
		iss.Cause = err
		return Issues{iss}
	}
	pe := &ParseError{Code: CodeParseError, Offset: loc, Cause: err}
	var gse *gojson.SyntaxError
	var sse *stdjson.SyntaxError
	switch {
	case errors.As(err, &gse):
		pe.Offset = gse.Offset
	case errors.As(err, &sse):
		pe.Offset = sse.Offset
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		if size >= 0 {
			pe.Offset = size
		}
	}
	if pe.Offset < 0 {
		pe.Offset = 0
	}
	return pe
}

package engine

import (
	"strconv"
	"strings"
)

// DuplicateStrictness controls how repeated object keys are reported.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is the lightweight issue shape reported by the enforcement wrapper.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError aborts a token stream with a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions bounds the token stream. Zero values disable each check.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives every issue, fatal or not.
	IssueSink func(SimpleIssue)
}

// Enabled reports whether any check is configured.
func (o EnforceOptions) Enabled() bool {
	return o.OnDuplicate != DupIgnore || o.MaxDepth > 0 || o.MaxBytes > 0
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type enforceFrame struct {
	kind      containerKind
	path      string
	keys      map[string]struct{}
	pending   string // last key of an object, consumed by its value
	nextIndex int
}

// WrapWithEnforcement returns a TokenSource that applies opt to inner.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingSource{inner: inner, opt: opt}
}

type enforcingSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []enforceFrame
}

func (e *enforcingSource) report(code, path, msg string, fatal bool) error {
	si := SimpleIssue{Code: code, Path: normalizeIssuePath(path), Message: msg, Offset: e.Location()}
	if e.opt.IssueSink != nil {
		e.opt.IssueSink(si)
	}
	if fatal {
		return IssueError{si}
	}
	return nil
}

func (e *enforcingSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	path := e.valuePath(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := enforceFrame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f.kind = kindObject
			if e.opt.OnDuplicate != DupIgnore {
				f.keys = make(map[string]struct{})
			}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.report("parse_error", path, "max depth exceeded", true)
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			top.pending = tok.String
			if top.keys != nil {
				if _, dup := top.keys[tok.String]; dup {
					if err := e.report("duplicate_key", path, "key '"+tok.String+"' duplicated", e.opt.OnDuplicate == DupError); err != nil {
						return Token{}, err
					}
				}
				top.keys[tok.String] = struct{}{}
			}
		}
	}

	if e.opt.MaxBytes > 0 {
		if off := e.Location(); off > e.opt.MaxBytes {
			return Token{}, e.report("truncated", path, "max bytes exceeded", true)
		}
	}
	return tok, nil
}

// valuePath returns the JSON Pointer of the value a token starts or the key
// it names.
func (e *enforcingSource) valuePath(tok Token) string {
	if len(e.stack) == 0 {
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return joinJSONPointer(top.path, tok.String)
	case KindEndObject, KindEndArray:
		return top.path
	}
	if top.kind == kindArray {
		p := joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
		top.nextIndex++
		return p
	}
	return joinJSONPointer(top.path, top.pending)
}

func (e *enforcingSource) Location() int64 { return e.inner.Location() }

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerToken escapes one JSON Pointer reference token (RFC 6901).
func EscapePointerToken(s string) string { return jsonPointerEscaper.Replace(s) }

func joinJSONPointer(base, token string) string {
	return base + "/" + EscapePointerToken(token)
}

package recjson

import (
	"io"
	"sync"

	eng "github.com/reoring/recjson/internal/engine"
	gojsonsrc "github.com/reoring/recjson/source/gojson"
	jsonsrc "github.com/reoring/recjson/source/json"
	jsonitersrc "github.com/reoring/recjson/source/jsoniter"
)

// TokenKind enumerates the parse events the decoder consumes.
type TokenKind = eng.Kind

const (
	TokenBeginObject = eng.KindBeginObject
	TokenEndObject   = eng.KindEndObject
	TokenBeginArray  = eng.KindBeginArray
	TokenEndArray    = eng.KindEndArray
	TokenKey         = eng.KindKey
	TokenString      = eng.KindString
	TokenNumber      = eng.KindNumber
	TokenBool        = eng.KindBool
	TokenNull        = eng.KindNull
)

// Token describes one parse event. Offset records the byte position when
// known (-1 otherwise).
type Token = eng.Token

// Source is a push-style stream of parse events.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source. The default implementation
// is backed by goccy/go-json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the goccy/go-json driver.
func UseDefaultJSONDriver() { SetJSONDriver(goJSONDriver{}) }

// UseStdlibJSONDriver switches to the encoding/json driver, which reports
// exact byte offsets at the cost of speed.
func UseStdlibJSONDriver() { SetJSONDriver(stdJSONDriver{}) }

// UseJSONIterDriver switches to the json-iterator driver. It reads the
// whole input before the first token and reports no offsets.
func UseJSONIterDriver() { SetJSONDriver(jsonIterDriver{}) }

// CurrentJSONDriver returns the driver used by JSONBytes and JSONReader.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) Source { return gojsonsrc.NewReader(r) }
func (goJSONDriver) NewBytes(b []byte) Source     { return gojsonsrc.NewBytes(b) }
func (goJSONDriver) Name() string                 { return "go-json" }

type stdJSONDriver struct{}

func (stdJSONDriver) NewReader(r io.Reader) Source { return jsonsrc.NewReader(r) }
func (stdJSONDriver) NewBytes(b []byte) Source     { return jsonsrc.NewBytes(b) }
func (stdJSONDriver) Name() string                 { return "encoding/json" }

type jsonIterDriver struct{}

func (jsonIterDriver) NewReader(r io.Reader) Source { return jsonitersrc.NewReader(r) }
func (jsonIterDriver) NewBytes(b []byte) Source     { return jsonitersrc.NewBytes(b) }
func (jsonIterDriver) Name() string                 { return "json-iterator" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// EnforceSource wraps s with depth, size and duplicate-key checks. Issues
// are forwarded to sink when it is non-nil. Sources are returned unchanged
// when opt disables every check.
func EnforceSource(s Source, opt DecodeOpt, sink func(Issue)) Source {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if !eo.Enabled() {
		return s
	}
	if sink != nil {
		eo.IssueSink = func(si eng.SimpleIssue) { sink(fromSimpleIssue(si)) }
	}
	return eng.WrapWithEnforcement(s, eo)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// Package jsoniter tokenizes JSON with github.com/json-iterator/go. The
// input is walked once up front; tokens are then served from memory, so
// offsets are not tracked.
package jsoniter

import (
	"bytes"
	"io"

	jsoniter "github.com/json-iterator/go"

	eng "github.com/reoring/recjson/internal/engine"
)

type source struct {
	toks []eng.Token
	err  error
	i    int
}

// NewBytes wraps a byte slice into a token source.
func NewBytes(b []byte) eng.TokenSource {
	iter := jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, b)
	s := &source{}
	if iter.WhatIsNext() == jsoniter.InvalidValue {
		s.err = rootError(iter)
		return s
	}
	if !s.value(iter) {
		s.err = iter.Error
	}
	return s
}

// NewReader reads r fully and tokenizes the content.
func NewReader(r io.Reader) eng.TokenSource {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return &source{err: err}
	}
	return NewBytes(buf.Bytes())
}

// rootError classifies input that does not start with a value: blank
// input ends cleanly, anything else is a syntax error.
func rootError(iter *jsoniter.Iterator) error {
	if iter.Error == nil {
		iter.ReportError("value", "unexpected character")
	}
	return iter.Error
}

func (s *source) emit(t eng.Token) {
	t.Offset = -1
	s.toks = append(s.toks, t)
}

// failed reports a real iterator error. io.EOF is set whenever a scalar
// ends the input, so it only counts once a container is left open.
func failed(iter *jsoniter.Iterator) bool {
	return iter.Error != nil && iter.Error != io.EOF
}

// value appends the tokens of the next value. It stops at the first
// iterator error, leaving the tokens read so far.
func (s *source) value(iter *jsoniter.Iterator) bool {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		s.emit(eng.Token{Kind: eng.KindBeginObject})
		ok := iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			s.emit(eng.Token{Kind: eng.KindKey, String: key})
			return s.value(it)
		})
		if ok && !failed(iter) {
			s.emit(eng.Token{Kind: eng.KindEndObject})
		}
	case jsoniter.ArrayValue:
		s.emit(eng.Token{Kind: eng.KindBeginArray})
		ok := iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			return s.value(it)
		})
		if ok && !failed(iter) {
			s.emit(eng.Token{Kind: eng.KindEndArray})
		}
	case jsoniter.StringValue:
		str := iter.ReadString()
		if !failed(iter) {
			s.emit(eng.Token{Kind: eng.KindString, String: str})
		}
	case jsoniter.NumberValue:
		n := iter.ReadNumber()
		if !failed(iter) {
			s.emit(eng.Token{Kind: eng.KindNumber, Number: string(n)})
		}
	case jsoniter.BoolValue:
		b := iter.ReadBool()
		if !failed(iter) {
			s.emit(eng.Token{Kind: eng.KindBool, Bool: b})
		}
	case jsoniter.NilValue:
		iter.ReadNil()
		if !failed(iter) {
			s.emit(eng.Token{Kind: eng.KindNull})
		}
	default:
		if !failed(iter) {
			iter.ReportError("value", "unexpected character")
		}
	}
	return !failed(iter)
}

func (s *source) NextToken() (eng.Token, error) {
	if s.i < len(s.toks) {
		t := s.toks[s.i]
		s.i++
		return t, nil
	}
	if s.err != nil {
		return eng.Token{}, s.err
	}
	return eng.Token{}, io.EOF
}

func (s *source) Location() int64 { return -1 }

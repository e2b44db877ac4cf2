// Package stream splits a token stream into the values of a top-level JSON
// array so each element can be consumed on its own.
package stream

import (
	"errors"
	"io"

	eng "github.com/reoring/recjson/internal/engine"
)

// ErrNotArray is returned by Elements when the input does not start with '['.
var ErrNotArray = errors.New("stream: input is not a JSON array")

// Subtree exposes a single value of the underlying stream, starting with a
// token that was already read from it. It returns io.EOF once the value is
// complete.
type Subtree struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtree returns a view over the value that begins with first.
func NewSubtree(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: &first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if s.first != nil {
		tok, s.first = *s.first, nil
	} else {
		var err error
		if tok, err = s.inner.NextToken(); err != nil {
			return eng.Token{}, err
		}
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	}
	if s.depth <= 0 {
		s.done = true
	}
	return tok, nil
}

func (s *Subtree) Location() int64 { return s.inner.Location() }

// Done reports whether the whole value was consumed.
func (s *Subtree) Done() bool { return s.done }

// Skip consumes whatever the reader left of the value.
func (s *Subtree) Skip() error {
	for !s.done {
		if _, err := s.NextToken(); err != nil {
			return err
		}
	}
	return nil
}

// Elements reads a JSON array from src and calls fn once per element with a
// Subtree positioned on it. The rest of the element is skipped after fn
// returns. An input that ends inside the array yields io.ErrUnexpectedEOF;
// an empty input yields io.EOF.
func Elements(src eng.TokenSource, fn func(i int, elem *Subtree) error) error {
	tok, err := src.NextToken()
	if err != nil {
		return err
	}
	if tok.Kind != eng.KindBeginArray {
		return ErrNotArray
	}
	for i := 0; ; i++ {
		tok, err := src.NextToken()
		if err != nil {
			return unexpectedEOF(err)
		}
		if tok.Kind == eng.KindEndArray {
			return nil
		}
		elem := NewSubtree(src, tok)
		if err := fn(i, elem); err != nil {
			return err
		}
		if err := elem.Skip(); err != nil {
			return unexpectedEOF(err)
		}
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Package gojson tokenizes JSON with github.com/goccy/go-json.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/recjson/internal/engine"
)

// countingReader tracks how many bytes the decoder pulled from the input.
// go-json buffers ahead, so the count is an upper bound of the token offset.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type source struct {
	in   *countingReader
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into a token source.
func NewReader(r io.Reader) eng.TokenSource {
	in := &countingReader{r: r}
	dec := j.NewDecoder(in)
	dec.UseNumber()
	return &source{in: in, dec: dec}
}

// NewBytes wraps a byte slice into a token source.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	off := s.in.n
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.keys.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: off}, nil
		case '[':
			s.keys.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: off}, nil
		case '}':
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: off}, nil
		case ']':
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: off}, nil
		}
	case string:
		return eng.Token{Kind: s.keys.StringToken(), String: v, Offset: off}, nil
	case bool:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: off}, nil
	case j.Number:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: off}, nil
	case float64:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: off}, nil
	}
	s.keys.Scalar()
	return eng.Token{Kind: eng.KindNull, Offset: off}, nil
}

func (s *source) Location() int64 { return s.in.n }

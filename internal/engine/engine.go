package engine

import (
	"encoding/json"
	"io"
	"sort"
)

// Kind represents token kinds delivered by a tokenizer.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

var kindNames = [...]string{
	KindBeginObject: "begin-object",
	KindEndObject:   "end-object",
	KindBeginArray:  "begin-array",
	KindEndArray:    "end-array",
	KindKey:         "key",
	KindString:      "string",
	KindNumber:      "number",
	KindBool:        "boolean",
	KindNull:        "null",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is one parse event. Numbers keep their source text.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64 // byte offset after the token, -1 when unknown
}

// TokenSource is the minimal tokenizer contract.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// DecodeAnyFromSource reads exactly one JSON value from src and returns it as
// a tree of map[string]any, []any, string, json.Number, bool and nil.
// Trailing input is left unread.
func DecodeAnyFromSource(src TokenSource) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return decodeValue(src, tok)
}

func decodeValue(src TokenSource, tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src)
	case KindBeginArray:
		return decodeArray(src)
	case KindString:
		return tok.String, nil
	case KindNumber:
		return json.Number(tok.Number), nil
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObject(src TokenSource) (any, error) {
	m := make(map[string]any)
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		// first occurrence wins, as in the binding decoder
		if _, dup := m[tok.String]; !dup {
			m[tok.String] = v
		}
	}
}

func decodeArray(src TokenSource) (any, error) {
	arr := []any{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// TreeSource replays a decoded tree as tokens. Object members are emitted in
// key order.
func TreeSource(node any) TokenSource {
	return &treeSource{tokens: appendTreeTokens(make([]Token, 0, 16), node)}
}

type treeSource struct {
	tokens []Token
	idx    int
}

func (s *treeSource) NextToken() (Token, error) {
	if s.idx >= len(s.tokens) {
		return Token{}, io.EOF
	}
	t := s.tokens[s.idx]
	s.idx++
	return t, nil
}

func (s *treeSource) Location() int64 { return -1 }

func appendTreeTokens(out []Token, node any) []Token {
	switch x := node.(type) {
	case map[string]any:
		out = append(out, Token{Kind: KindBeginObject, Offset: -1})
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, Token{Kind: KindKey, String: k, Offset: -1})
			out = appendTreeTokens(out, x[k])
		}
		out = append(out, Token{Kind: KindEndObject, Offset: -1})
	case []any:
		out = append(out, Token{Kind: KindBeginArray, Offset: -1})
		for _, e := range x {
			out = appendTreeTokens(out, e)
		}
		out = append(out, Token{Kind: KindEndArray, Offset: -1})
	case string:
		out = append(out, Token{Kind: KindString, String: x, Offset: -1})
	case json.Number:
		out = append(out, Token{Kind: KindNumber, Number: string(x), Offset: -1})
	case bool:
		out = append(out, Token{Kind: KindBool, Bool: x, Offset: -1})
	default:
		out = append(out, Token{Kind: KindNull, Offset: -1})
	}
	return out
}

package json

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	eng "github.com/reoring/recjson/internal/engine"
)

type tok struct {
	Kind eng.Kind
	Text string
}

func collect(t *testing.T, src eng.TokenSource) []tok {
	t.Helper()
	var out []tok
	for {
		tk, err := src.NextToken()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("next token: %v", err)
		}
		text := tk.String
		switch tk.Kind {
		case eng.KindNumber:
			text = tk.Number
		case eng.KindBool:
			if tk.Bool {
				text = "true"
			} else {
				text = "false"
			}
		}
		out = append(out, tok{tk.Kind, text})
	}
}

func TestTokens(t *testing.T) {
	in := `{"a":[1,"x",true,null,-2.5],"b":{"c":"d"},"e":"f"}`
	got := collect(t, NewBytes([]byte(in)))
	want := []tok{
		{eng.KindBeginObject, ""},
		{eng.KindKey, "a"},
		{eng.KindBeginArray, ""},
		{eng.KindNumber, "1"},
		{eng.KindString, "x"},
		{eng.KindBool, "true"},
		{eng.KindNull, ""},
		{eng.KindNumber, "-2.5"},
		{eng.KindEndArray, ""},
		{eng.KindKey, "b"},
		{eng.KindBeginObject, ""},
		{eng.KindKey, "c"},
		{eng.KindString, "d"},
		{eng.KindEndObject, ""},
		{eng.KindKey, "e"},
		{eng.KindString, "f"},
		{eng.KindEndObject, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestReader_Location(t *testing.T) {
	src := NewReader(strings.NewReader(`{"k":"v"}`))
	for {
		if _, err := src.NextToken(); err != nil {
			break
		}
	}
	if src.Location() <= 0 {
		t.Fatalf("expected positive location after consuming input, got %d", src.Location())
	}
}

func TestSyntaxError(t *testing.T) {
	src := NewBytes([]byte(`{"a":@}`))
	var err error
	for err == nil {
		_, err = src.NextToken()
	}
	if err == io.EOF {
		t.Fatalf("expected a syntax error, got EOF")
	}
}

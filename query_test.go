package recjson_test

import (
	"errors"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/i18n"
	"github.com/reoring/recjson/schema"
	"github.com/reoring/recjson/value"
)

func parsed(t *testing.T, in string) *recjson.Document {
	t.Helper()
	d := recjson.NewDocument()
	if err := d.Parse([]byte(in)); err != nil {
		t.Fatalf("parse %s: %v", in, err)
	}
	return d
}

func TestQuery_Coercion(t *testing.T) {
	d := parsed(t, `{"n":42,"s":"17","b":"yes","t":true,"f":"2.5","z":null,"neg":-1,"one":"1","zero":"0","yes":"yes","tstr":"true"}`)

	if s, st := d.QueryString("/n", "def"); s != "42" || st != recjson.StatusCoerced {
		t.Fatalf("/n as string: %q %s", s, st)
	}
	if n, st := d.QueryInt64("/n", 0); n != 42 || st != recjson.StatusOK {
		t.Fatalf("/n as int: %d %s", n, st)
	}
	if n, st := d.QueryInt64("/s", 0); n != 17 || st != recjson.StatusCoerced {
		t.Fatalf("/s as int: %d %s", n, st)
	}
	if b, st := d.QueryBool("/n", true); !b || st != recjson.StatusTypeMismatch {
		t.Fatalf("/n as bool: %v %s", b, st)
	}
	if b, st := d.QueryBool("/b", false); b || st != recjson.StatusTypeMismatch {
		t.Fatalf("/b as bool: %v %s", b, st)
	}
	for _, c := range []struct {
		path string
		want bool
		st   recjson.Status
	}{
		{"/one", true, recjson.StatusCoerced},
		{"/zero", false, recjson.StatusCoerced},
		{"/yes", true, recjson.StatusTypeMismatch},
		{"/tstr", true, recjson.StatusTypeMismatch},
		{"/t", true, recjson.StatusOK},
	} {
		if b, st := d.QueryBool(c.path, true); b != c.want || st != c.st {
			t.Fatalf("%s as bool: %v %s, want %v %s", c.path, b, st, c.want, c.st)
		}
	}
	if s, st := d.QueryString("/t", ""); s != "true" || st != recjson.StatusCoerced {
		t.Fatalf("/t as string: %q %s", s, st)
	}
	if f, st := d.QueryFloat64("/f", 0); f != 2.5 || st != recjson.StatusCoerced {
		t.Fatalf("/f as float: %v %s", f, st)
	}
	if s, st := d.QueryString("/z", "def"); s != "def" || st != recjson.StatusNullValue {
		t.Fatalf("/z: %q %s", s, st)
	}
	if s, st := d.QueryString("/missing", "def"); s != "def" || st != recjson.StatusNotFound {
		t.Fatalf("/missing: %q %s", s, st)
	}
	if u, st := d.QueryUint64("/neg", 0); u != ^uint64(0) || st != recjson.StatusOK {
		t.Fatalf("/neg as uint: %d %s", u, st)
	}
}

func TestQuery_GenericWidths(t *testing.T) {
	d := parsed(t, `{"big":"300","small":"100","wrap":300}`)
	if v, st := recjson.Query(d, "/big", int8(-1), recjson.Int[int8]()); v != -1 || st != recjson.StatusTypeMismatch {
		t.Fatalf("/big as int8: %d %s", v, st)
	}
	if v, st := recjson.Query(d, "/small", int8(0), recjson.Int[int8]()); v != 100 || st != recjson.StatusCoerced {
		t.Fatalf("/small as int8: %d %s", v, st)
	}
	if v, st := recjson.Query(d, "/wrap", uint8(0), recjson.Uint[uint8]()); v != 44 || st != recjson.StatusOK {
		t.Fatalf("/wrap as uint8: %d %s", v, st)
	}
	if v, st := recjson.Query(d, "/small", float32(0), recjson.Float[float32]()); v != 100 || st != recjson.StatusCoerced {
		t.Fatalf("/small as float32: %v %s", v, st)
	}
}

func TestQuery_Decimal(t *testing.T) {
	d := parsed(t, `{"p":3.14159,"s":"2.5","x":"abc"}`)
	got, st := d.QueryDecimal("/p", nil, 3)
	want, _, _ := apd.NewFromString("3.14")
	if st != recjson.StatusOK || got.Cmp(want) != 0 {
		t.Fatalf("/p: %s %s", got, st)
	}
	got, st = d.QueryDecimal("/s", nil, 0)
	want, _, _ = apd.NewFromString("2.5")
	if st != recjson.StatusCoerced || got.Cmp(want) != 0 {
		t.Fatalf("/s: %s %s", got, st)
	}
	if got, st = d.QueryDecimal("/x", nil, 0); got != nil || st != recjson.StatusTypeMismatch {
		t.Fatalf("/x: %v %s", got, st)
	}
}

func TestQuery_ListOf(t *testing.T) {
	d := parsed(t, `{"l":[1,"2",null,"x",3],"ok":[1,2],"s":["5",4]}`)
	got, st := recjson.Query(d, "/l", nil, recjson.ListOf(recjson.Int[int64]()))
	if diff := cmp.Diff([]int64{1, 3}, got); diff != "" {
		t.Fatalf("/l mismatch (-want +got):\n%s", diff)
	}
	if st != recjson.StatusNullValue {
		t.Fatalf("/l status %s, want null_value", st)
	}
	got, st = recjson.Query(d, "/ok", nil, recjson.ListOf(recjson.Int[int64]()))
	if diff := cmp.Diff([]int64{1, 2}, got); diff != "" || st != recjson.StatusOK {
		t.Fatalf("/ok: %v %s", got, st)
	}
	// coerced elements are left out but still raise the status
	got, st = recjson.Query(d, "/s", nil, recjson.ListOf(recjson.Int[int64]()))
	if diff := cmp.Diff([]int64{4}, got); diff != "" || st != recjson.StatusCoerced {
		t.Fatalf("/s: %v %s", got, st)
	}
	if _, st = recjson.Query(d, "/l/0", nil, recjson.ListOf(recjson.Int[int64]())); st != recjson.StatusTypeMismatch {
		t.Fatalf("scalar as list: %s", st)
	}
}

func TestQuery_PointerErrors(t *testing.T) {
	d := parsed(t, `{"a/b":1,"m~n":2,"c d":3,"é":4,"arr":[10,20]}`)
	cases := []struct {
		path string
		want recjson.Status
		val  int64
	}{
		{"a", recjson.StatusPointerMissingSlash, -1},
		{"/a~2", recjson.StatusPointerInvalidEscape, -1},
		{"/a~", recjson.StatusPointerInvalidEscape, -1},
		{"/a~1b", recjson.StatusOK, 1},
		{"/m~0n", recjson.StatusOK, 2},
		{"/arr/1", recjson.StatusOK, 20},
		{"/arr/2", recjson.StatusNotFound, -1},
		{"/arr/x", recjson.StatusNotFound, -1},
		{"#/c%20d", recjson.StatusOK, 3},
		{"#/a%2Fb", recjson.StatusOK, 1},
		{"#/m~0n", recjson.StatusOK, 2},
		{"#/%C3%A9", recjson.StatusOK, 4},
		{"#/c d", recjson.StatusPointerUnencodedCharacter, -1},
		{"#/c%2", recjson.StatusPointerInvalidPercentEncoding, -1},
		{"#/c%zz", recjson.StatusPointerInvalidPercentEncoding, -1},
		{"#/%C3", recjson.StatusPointerInvalidPercentEncoding, -1},
		{"#a", recjson.StatusPointerMissingSlash, -1},
	}
	for _, tc := range cases {
		v, st := d.QueryInt64(tc.path, -1)
		if st != tc.want || v != tc.val {
			t.Errorf("%q: got %d %s, want %d %s", tc.path, v, st, tc.val, tc.want)
		}
		if st.IsPointerError() != (tc.want >= recjson.StatusPointerMissingSlash) {
			t.Errorf("%q: IsPointerError mismatch", tc.path)
		}
	}
}

func TestQuery_Idempotent(t *testing.T) {
	d := parsed(t, `{"a":{"b":[true]}}`)
	for i := 0; i < 3; i++ {
		if b, st := d.QueryBool("/a/b/0", false); !b || st != recjson.StatusOK {
			t.Fatalf("round %d: %v %s", i, b, st)
		}
		if _, st := d.QueryBool("a", false); st != recjson.StatusPointerMissingSlash {
			t.Fatalf("round %d: %s", i, st)
		}
	}
}

func TestQuery_Reparse(t *testing.T) {
	d := parsed(t, `{"a":1}`)
	if err := d.Parse([]byte(`{"b":2}`)); err != nil {
		t.Fatal(err)
	}
	if _, st := d.QueryInt64("/a", 0); st != recjson.StatusNotFound {
		t.Fatalf("/a after reparse: %s", st)
	}
	if v, st := d.QueryInt64("/b", 0); v != 2 || st != recjson.StatusOK {
		t.Fatalf("/b after reparse: %d %s", v, st)
	}
}

func TestQuery_ParseFailureLeavesEmptyObject(t *testing.T) {
	d := parsed(t, `{"a":1}`)
	err := d.Parse([]byte(`{"a":@}`))
	if _, ok := recjson.AsParseError(err); !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if _, st := d.QueryInt64("/a", 0); st != recjson.StatusNotFound {
		t.Fatalf("/a after failed parse: %s", st)
	}
	rec, st := d.QueryValue("", schema.MustParseType("tuple<int32 a>"), nil)
	if st != recjson.StatusOK || rec.Field("a").Int() != 0 {
		t.Fatalf("root after failed parse: %v %s", rec, st)
	}

	err = d.Parse(nil)
	if pe, ok := recjson.AsParseError(err); !ok || pe.Code != recjson.CodeEmptyDocument {
		t.Fatalf("expected empty_document, got %v", err)
	}
}

func TestQuery_BeforeParsePanics(t *testing.T) {
	d := recjson.NewDocument()
	if d.Parsed() {
		t.Fatalf("new document must not be parsed")
	}
	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, recjson.ErrNoDocument) {
			t.Fatalf("expected ErrNoDocument panic, got %v", r)
		}
	}()
	d.QueryBool("/a", false)
}

func TestQuery_Limits(t *testing.T) {
	d := recjson.NewDocument(recjson.DecodeOpt{MaxDepth: 1})
	err := d.Parse([]byte(`{"a":{"b":1}}`))
	if _, ok := recjson.AsIssues(err); !ok {
		t.Fatalf("expected depth issue, got %v", err)
	}
}

func TestQueryValue(t *testing.T) {
	d := parsed(t, `{"items":[{"a":"drop","id":1},{"id":"bad"},{"id":3}],"m":{"k":{"id":9}},"n":7,"s":"t"}`)

	typ := schema.MustParseType("list<tuple<int32 id>>")
	v, st := d.QueryValue("/items", typ, nil)
	if st != recjson.StatusOK || v.Len() != 3 {
		t.Fatalf("/items: %v %s", v, st)
	}
	ids := []int64{v.Index(0).Field("id").Int(), v.Index(1).Field("id").Int(), v.Index(2).Field("id").Int()}
	if diff := cmp.Diff([]int64{1, 0, 3}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	v, st = d.QueryValue("/m", schema.MustParseType("map<rstring,tuple<int32 id>>"), nil)
	if st != recjson.StatusOK || v.Get("k").Field("id").Int() != 9 {
		t.Fatalf("/m: %v %s", v, st)
	}

	v, st = d.QueryValue("/n", value.Of(value.KindInt16), nil)
	if st != recjson.StatusOK || v.Int() != 7 {
		t.Fatalf("/n: %v %s", v, st)
	}

	def := value.New(value.Of(value.KindInt16))
	if v, st = d.QueryValue("/s", value.Of(value.KindInt16), def); v != def || st != recjson.StatusTypeMismatch {
		t.Fatalf("/s: %v %s", v, st)
	}
	if v, st = d.QueryValue("/items", value.Of(value.KindInt16), def); v != def || st != recjson.StatusTypeMismatch {
		t.Fatalf("array as int16: %v %s", v, st)
	}
	if _, st = d.QueryValue("/m", typ, nil); st != recjson.StatusTypeMismatch {
		t.Fatalf("object as list: %s", st)
	}
}

func TestStatus_Messages(t *testing.T) {
	if recjson.StatusTypeMismatch.Message() != "type mismatch" {
		t.Fatalf("unexpected message %q", recjson.StatusTypeMismatch.Message())
	}
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	if recjson.StatusTypeMismatch.Message() == "type mismatch" {
		t.Fatalf("message must follow the language")
	}
	if recjson.Status(99).Code() != "unknown" {
		t.Fatalf("out of range status code")
	}
	if !recjson.StatusCoerced.OK() || recjson.StatusNullValue.OK() {
		t.Fatalf("OK mismatch")
	}
}

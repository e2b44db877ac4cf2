package recjson_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reoring/recjson"
	"github.com/reoring/recjson/codec"
	"github.com/reoring/recjson/schema"
	"github.com/reoring/recjson/value"
)

func decode(t *testing.T, typ, in string, opts ...recjson.DecodeOpt) *value.Value {
	t.Helper()
	rec, err := recjson.Decode([]byte(in), value.New(schema.MustParseType(typ)), opts...)
	if err != nil {
		t.Fatalf("decode %s: %v", in, err)
	}
	return rec
}

func TestDecode_DropsUnknownKeys(t *testing.T) {
	rec := decode(t, "tuple<int32 knownInt>", `{"unknownField":1,"knownInt":2}`)
	if got := rec.Field("knownInt").Int(); got != 2 {
		t.Fatalf("knownInt = %d, want 2", got)
	}
}

func TestDecode_DuplicateKeyFirstWins(t *testing.T) {
	rec := decode(t, "tuple<int32 a,int32 b>", `{"a":1,"a":2,"b":3}`)
	if got := rec.Field("a").Int(); got != 1 {
		t.Fatalf("a = %d, want 1", got)
	}
	if got := rec.Field("b").Int(); got != 3 {
		t.Fatalf("b = %d, want 3", got)
	}
}

func TestDecode_OptionalNull(t *testing.T) {
	rec := decode(t, "tuple<optional<rstring> a>", `{"a":null}`)
	if rec.Field("a").IsPresent() {
		t.Fatalf("a must be absent")
	}
	rec = decode(t, "tuple<optional<rstring> a>", `{"a":"x"}`)
	if a := rec.Field("a"); !a.IsPresent() || a.Str() != "x" {
		t.Fatalf("a must be present with x, got %s", a)
	}
	// null on a non-optional attribute is ignored
	rec = decode(t, "tuple<int32 n,int32 m>", `{"n":null,"m":4}`)
	if rec.Field("n").Int() != 0 || rec.Field("m").Int() != 4 {
		t.Fatalf("unexpected record %s", rec)
	}
}

func TestDecode_ListOfRecords(t *testing.T) {
	rec := decode(t, "tuple<list<tuple<int32 id>> items>", `{"items":[{"id":1},{"id":2}]}`)
	items := rec.Field("items")
	if items.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", items.Len())
	}
	for i, want := range []int64{1, 2} {
		if got := items.Index(i).Field("id").Int(); got != want {
			t.Fatalf("items[%d].id = %d, want %d", i, got, want)
		}
	}
}

// A record whose attributes are all bound is closed on the next key, and the
// rest of its JSON object binds against the enclosing record.
func TestDecode_FullyBoundFrameClosesEarly(t *testing.T) {
	rec := decode(t, "tuple<tuple<int32 x> a,int32 b>", `{"a":{"x":1,"b":99},"b":3}`)
	if got := rec.Field("a").Field("x").Int(); got != 1 {
		t.Fatalf("a.x = %d, want 1", got)
	}
	if got := rec.Field("b").Int(); got != 99 {
		t.Fatalf("b = %d, want 99 (bound from the inner object)", got)
	}
}

func TestDecode_FullyBoundRootStops(t *testing.T) {
	// the trailing member is malformed but never read
	rec, err := recjson.Decode([]byte(`{"a":1,"z":1,"a":]`), value.New(schema.MustParseType("tuple<int32 a>")))
	if err != nil {
		t.Fatalf("expected early stop without error, got %v", err)
	}
	if rec.Field("a").Int() != 1 {
		t.Fatalf("a = %d, want 1", rec.Field("a").Int())
	}
}

// Keys inside an unmatched object still address the enclosing record, so the
// first occurrence wins even when it is nested.
func TestDecode_UnmatchedObjectKeysBindToRecord(t *testing.T) {
	rec := decode(t, "tuple<int32 a,list<int32> l,int32 z>", `{"u":{"a":5,"l":[9]},"a":1,"l":[2],"z":3}`)
	if got := rec.Field("a").Int(); got != 5 {
		t.Fatalf("a = %d, want 5", got)
	}
	if l := rec.Field("l"); l.Len() != 1 || l.Index(0).Int() != 9 {
		t.Fatalf("l = %s, want [9]", l)
	}
	if got := rec.Field("z").Int(); got != 3 {
		t.Fatalf("z = %d, want 3", got)
	}
}

func TestDecode_ObjectAgainstScalarIsAbsorbed(t *testing.T) {
	rec := decode(t, "tuple<int32 a,int32 b,int32 c>", `{"a":{"b":5},"b":6,"c":7}`)
	if rec.Field("a").Int() != 0 || rec.Field("b").Int() != 5 || rec.Field("c").Int() != 7 {
		t.Fatalf("unexpected record %s", rec)
	}
}

func TestDecode_Maps(t *testing.T) {
	rec := decode(t, "tuple<map<rstring,int32> m,int32 n>", `{"m":{"x":1,"y":"bad","z":3},"n":5}`)
	m := rec.Field("m")
	if m.Len() != 2 || m.Get("x").Int() != 1 || m.Get("z").Int() != 3 {
		t.Fatalf("m = %s", m)
	}
	if rec.Field("n").Int() != 5 {
		t.Fatalf("n = %d, want 5", rec.Field("n").Int())
	}

	rec = decode(t, "tuple<map<ustring,tuple<int32 id>> m>", `{"m":{"k1":{"id":1},"k2":{"id":2}}}`)
	m = rec.Field("m")
	if m.Len() != 2 || m.Get("k1").Field("id").Int() != 1 || m.Get("k2").Field("id").Int() != 2 {
		t.Fatalf("m = %s", m)
	}

	// the first closing brace ends the map, even when it closes a nested value
	rec = decode(t, "tuple<map<rstring,int32> m,int32 k>", `{"m":{"x":{"y":1},"z":2},"k":3}`)
	m = rec.Field("m")
	if m.Len() != 1 || m.Get("y").Int() != 1 || rec.Field("k").Int() != 3 {
		t.Fatalf("unexpected record %s", rec)
	}

	rec = decode(t, "tuple<map<rstring,optional<int32>> m>", `{"m":{"a":null,"b":2}}`)
	m = rec.Field("m")
	if m.Len() != 2 || m.Get("a").IsPresent() || m.Get("b").Int() != 2 {
		t.Fatalf("m = %s", m)
	}
}

func TestDecode_MapWithNonStringKeyIsDropped(t *testing.T) {
	rec := decode(t, "tuple<map<int32,int32> m,int32 n>", `{"m":{"1":2},"n":3}`)
	if rec.Field("m").Len() != 0 || rec.Field("n").Int() != 3 {
		t.Fatalf("unexpected record %s", rec)
	}
}

func TestDecode_Sets(t *testing.T) {
	rec := decode(t, "tuple<set<rstring> s>", `{"s":["a","b","a"]}`)
	if s := rec.Field("s"); s.Len() != 2 {
		t.Fatalf("s = %s", s)
	}
	rec = decode(t, "tuple<set<optional<rstring>> s>", `{"s":["a",null]}`)
	if s := rec.Field("s"); s.Len() != 1 {
		t.Fatalf("nulls must not enter a set: %s", s)
	}
	rec = decode(t, "tuple<set<tuple<int32 x>> s,int32 n>", `{"s":[{"x":1}],"n":2}`)
	if rec.Field("s").Len() != 0 || rec.Field("n").Int() != 2 {
		t.Fatalf("record elements of sets are not bound: %s", rec)
	}
}

func TestDecode_ListOfOptionals(t *testing.T) {
	rec := decode(t, "tuple<list<optional<int32>> l>", `{"l":[1,null,3]}`)
	l := rec.Field("l")
	if l.Len() != 3 || !l.Index(0).IsPresent() || l.Index(1).IsPresent() || l.Index(2).Int() != 3 {
		t.Fatalf("l = %s", l)
	}
}

func TestDecode_NestedArraysAreDropped(t *testing.T) {
	rec := decode(t, "tuple<list<int32> l,int32 n>", `{"l":[[1,2],3,{"x":[4]}],"n":4}`)
	if l := rec.Field("l"); l.Len() != 1 || l.Index(0).Int() != 3 {
		t.Fatalf("l = %s, want [3]", l)
	}
	if rec.Field("n").Int() != 4 {
		t.Fatalf("n = %d, want 4", rec.Field("n").Int())
	}
}

func TestDecode_RecordElementsWithInnerCollections(t *testing.T) {
	typ := "tuple<list<tuple<list<int32> tags,int32 id>> items>"
	rec := decode(t, typ, `{"items":[{"tags":[1,2],"id":7},{"tags":[3],"id":8}]}`)
	items := rec.Field("items")
	if items.Len() != 2 {
		t.Fatalf("expected 2 items, got %s", items)
	}
	if items.Index(0).Field("tags").Len() != 2 || items.Index(1).Field("id").Int() != 8 {
		t.Fatalf("items = %s", items)
	}
}

func TestDecode_BoundedCollections(t *testing.T) {
	rec := decode(t, "tuple<list<int32>[2] l,list<tuple<int32 x>>[1] r,int32 n>",
		`{"l":[1,2,3],"r":[{"x":1},{"x":2}],"n":9}`)
	if l := rec.Field("l"); l.Len() != 2 || l.Index(1).Int() != 2 {
		t.Fatalf("l = %s", l)
	}
	if r := rec.Field("r"); r.Len() != 1 || r.Index(0).Field("x").Int() != 1 {
		t.Fatalf("r = %s", r)
	}
	if rec.Field("n").Int() != 9 {
		t.Fatalf("n = %d", rec.Field("n").Int())
	}
}

func TestDecode_OptionalComposites(t *testing.T) {
	typ := "tuple<optional<tuple<int32 x>> o,optional<list<int32>> l,optional<map<rstring,boolean>> m>"
	rec := decode(t, typ, `{"o":{"x":1},"l":[],"m":{"k":true}}`)
	if o := rec.Field("o"); !o.IsPresent() || o.Field("x").Int() != 1 {
		t.Fatalf("o = %s", o)
	}
	if l := rec.Field("l"); !l.IsPresent() || l.Len() != 0 {
		t.Fatalf("empty array must make the optional list present: %s", l)
	}
	if m := rec.Field("m"); !m.IsPresent() || !m.Get("k").Bool() {
		t.Fatalf("m = %s", m)
	}
	rec = decode(t, typ, `{"o":null,"l":null}`)
	if rec.Field("o").IsPresent() || rec.Field("l").IsPresent() || rec.Field("m").IsPresent() {
		t.Fatalf("expected absent optionals: %s", rec)
	}
}

func TestDecode_Coercion(t *testing.T) {
	typ := `tuple<uint8 u,int16 i,float32 f,decimal64 d,rstring[3] s,boolean b,
		enum{red,green} e,enum{red,green} e2,timestamp ts,timestamp te,int32 bad,rstring bad2>`
	in := `{"u":300,"i":-7.9,"f":0.5,"d":1.25,"s":"abcdef","b":true,
		"e":"green","e2":"blue","ts":"2024-05-01T12:00:00Z","te":1700000000,"bad":"12","bad2":false}`
	rec := decode(t, typ, in)
	if got := rec.Field("u").Uint(); got != 44 {
		t.Fatalf("u = %d, want 44", got)
	}
	if got := rec.Field("i").Int(); got != -7 {
		t.Fatalf("i = %d, want -7", got)
	}
	if got := rec.Field("f").Float(); got != 0.5 {
		t.Fatalf("f = %v", got)
	}
	want, _, _ := apd.NewFromString("1.25")
	if rec.Field("d").Decimal().Cmp(want) != 0 {
		t.Fatalf("d = %s", rec.Field("d").Decimal())
	}
	if got := rec.Field("s").Str(); got != "abc" {
		t.Fatalf("s = %q", got)
	}
	if !rec.Field("b").Bool() {
		t.Fatalf("b must be true")
	}
	if rec.Field("e").Str() != "green" || rec.Field("e2").Str() != "red" {
		t.Fatalf("enums: e=%s e2=%s", rec.Field("e").Str(), rec.Field("e2").Str())
	}
	if !rec.Field("ts").Timestamp().Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("ts = %v", rec.Field("ts").Timestamp())
	}
	if rec.Field("te").Timestamp().Unix() != 1700000000 {
		t.Fatalf("te = %v", rec.Field("te").Timestamp())
	}
	if rec.Field("bad").Int() != 0 || rec.Field("bad2").Str() != "" {
		t.Fatalf("mismatching kinds must be dropped: %s", rec)
	}
}

func TestDecode_TimestampCodec(t *testing.T) {
	opt := recjson.DecodeOpt{Timestamps: codec.CTime()}
	rec := decode(t, "tuple<timestamp ts>", `{"ts":"Mon Nov 23 08:05:09 2015"}`, opt)
	if !rec.Field("ts").Timestamp().Equal(time.Date(2015, 11, 23, 8, 5, 9, 0, time.UTC)) {
		t.Fatalf("ts = %v", rec.Field("ts").Timestamp())
	}
}

func TestDecode_RootNotObject(t *testing.T) {
	rec := decode(t, "tuple<int32 a>", `[1,2]`)
	if rec.Field("a").Int() != 0 {
		t.Fatalf("record must stay untouched")
	}
}

func TestDecode_NotRecord(t *testing.T) {
	_, err := recjson.Decode([]byte(`{}`), value.New(value.Of(value.KindInt32)))
	if !errors.Is(err, recjson.ErrNotRecord) {
		t.Fatalf("expected ErrNotRecord, got %v", err)
	}
}

func TestDecode_ParseErrors(t *testing.T) {
	typ := schema.MustParseType("tuple<int32 a,int32 b>")
	for _, in := range []string{`{"a":1,`, `{"a":@}`, `{"a":1,"b":@}`} {
		rec, err := recjson.Decode([]byte(in), value.New(typ))
		pe, ok := recjson.AsParseError(err)
		if !ok || pe.Code != recjson.CodeParseError {
			t.Fatalf("%s: expected parse_error, got %v", in, err)
		}
		if pe.Offset < 0 || pe.Offset > int64(len(in)) {
			t.Fatalf("%s: offset %d out of range", in, pe.Offset)
		}
		if rec.Field("a").Int() != 1 && in != `{"a":@}` {
			t.Fatalf("%s: bindings before the error must be kept", in)
		}
	}
	_, err := recjson.Decode([]byte("  "), value.New(typ))
	if pe, ok := recjson.AsParseError(err); !ok || pe.Code != recjson.CodeEmptyDocument || pe.Offset != 0 {
		t.Fatalf("expected empty_document, got %v", err)
	}
}

func TestDecode_DuplicateKeyStrict(t *testing.T) {
	typ := schema.MustParseType("tuple<int32 a>")
	rec, err := recjson.Decode([]byte(`{"a":1,"a":2}`), value.New(typ), recjson.DecodeOpt{OnDuplicateKey: recjson.Error})
	iss, ok := recjson.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != recjson.CodeDuplicateKey || iss[0].Path != "/a" {
		t.Fatalf("expected duplicate_key issue at /a, got %v", err)
	}
	if rec.Field("a").Int() != 1 {
		t.Fatalf("a = %d, want 1", rec.Field("a").Int())
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	typ := schema.MustParseType("tuple<tuple<tuple<int32 c> b> a>")
	_, err := recjson.Decode([]byte(`{"a":{"b":{"c":1}}}`), value.New(typ), recjson.DecodeOpt{MaxDepth: 2})
	iss, ok := recjson.AsIssues(err)
	if !ok || iss[0].Path != "/a/b" {
		t.Fatalf("expected depth issue at /a/b, got %v", err)
	}
}

func TestDecode_StdlibDriver(t *testing.T) {
	recjson.UseStdlibJSONDriver()
	defer recjson.UseDefaultJSONDriver()
	if recjson.CurrentJSONDriver().Name() != "encoding/json" {
		t.Fatalf("driver not switched")
	}
	rec := decode(t, "tuple<list<tuple<int32 id>> items,rstring s>", `{"items":[{"id":1},{"id":2}],"s":"x"}`)
	if rec.Field("items").Len() != 2 || rec.Field("s").Str() != "x" {
		t.Fatalf("unexpected record %s", rec)
	}
	_, err := recjson.Decode([]byte(`{"items":[@]}`), value.New(rec.Type()))
	if _, ok := recjson.AsParseError(err); !ok {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestDecode_JSONIterDriver(t *testing.T) {
	recjson.UseJSONIterDriver()
	defer recjson.UseDefaultJSONDriver()
	rec := decode(t, "tuple<list<tuple<int32 id>> items,rstring s>", `{"items":[{"id":1},{"id":2}],"s":"x"}`)
	if rec.Field("items").Len() != 2 || rec.Field("s").Str() != "x" {
		t.Fatalf("unexpected record %s", rec)
	}
	_, err := recjson.Decode([]byte(`{"items":[{"id":1}`), value.New(rec.Type()))
	if _, ok := recjson.AsParseError(err); !ok {
		t.Fatalf("expected parse error, got %v", err)
	}
	_, err = recjson.Decode([]byte(" "), value.New(rec.Type()))
	if pe, ok := recjson.AsParseError(err); !ok || pe.Code != recjson.CodeEmptyDocument {
		t.Fatalf("expected empty document, got %v", err)
	}
}

func TestDecodeFrom_Reader(t *testing.T) {
	typ := schema.MustParseType("tuple<rstring a>")
	rec, err := recjson.DecodeFrom(recjson.JSONReader(strings.NewReader(`{"a":"b"}`)), value.New(typ))
	if err != nil || rec.Field("a").Str() != "b" {
		t.Fatalf("decode from reader: %v %s", err, rec)
	}
}

func TestDecode_TracesDrops(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	recjson.SetLogger(zap.New(core))
	defer recjson.SetLogger(nil)
	decode(t, "tuple<int32 a>", `{"x":1,"a":"s"}`)
	if logs.FilterMessageSnippet("dropped key").Len() != 1 {
		t.Fatalf("expected one dropped key entry, got %v", logs.All())
	}
	entries := logs.FilterMessageSnippet("dropped value: type mismatch").All()
	if len(entries) != 1 || entries[0].ContextMap()["path"] != "/a" {
		t.Fatalf("expected a type mismatch trace at /a, got %v", logs.All())
	}
}

// Closing a fully bound element frame early also ends the enclosing
// collection; later elements are absorbed.
func TestDecode_FullyBoundElementEndsCollection(t *testing.T) {
	rec := decode(t, "tuple<list<tuple<int32 x>> l,int32 n>", `{"l":[{"x":1,"y":2},{"x":3}],"n":4}`)
	if l := rec.Field("l"); l.Len() != 1 || l.Index(0).Field("x").Int() != 1 {
		t.Fatalf("l = %s", l)
	}
	if rec.Field("n").Int() != 4 {
		t.Fatalf("n = %d, want 4", rec.Field("n").Int())
	}
}

func TestDecode_FullyBoundMapElementKeepsLaterAttributes(t *testing.T) {
	rec := decode(t, "tuple<map<rstring,tuple<int32 id>> m,int32 z>",
		`{"m":{"k1":{"id":1,"x":2},"k2":{"id":3}},"z":5}`)
	if m := rec.Field("m"); m.Len() != 1 || m.Get("k1").Field("id").Int() != 1 {
		t.Fatalf("m = %s", m)
	}
	if got := rec.Field("z").Int(); got != 5 {
		t.Fatalf("z = %d, want 5", got)
	}
}

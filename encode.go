package recjson

import (
	"strings"

	"github.com/reoring/recjson/codec"
	"github.com/reoring/recjson/value"
)

// Encode serializes v as compact JSON. Record attribute names that start with
// stripPrefix are written without it. Absent optionals become null, as do
// kinds JSON cannot represent (blob, complex, xml).
func Encode(v *value.Value, stripPrefix string, opts ...EncodeOpt) string {
	return string(AppendEncode(nil, v, stripPrefix, opts...))
}

// AppendEncode is Encode appending to dst.
func AppendEncode(dst []byte, v *value.Value, stripPrefix string, opts ...EncodeOpt) []byte {
	e := newEncoder(dst, stripPrefix, lastOpt(opts))
	e.value(v)
	return e.w.buf
}

// EncodeMap serializes a map value. Unlike Encode, an absent optional map is
// written as an empty object so the result is always a JSON object.
func EncodeMap(m *value.Value, stripPrefix string, opts ...EncodeOpt) string {
	e := newEncoder(nil, stripPrefix, lastOpt(opts))
	if !m.IsPresent() {
		e.w.beginObject()
		e.w.endObject()
	} else {
		e.value(m)
	}
	return string(e.w.buf)
}

// EncodeKeyed serializes v as the single member of an object: {"key":v}.
func EncodeKeyed(key string, v *value.Value, stripPrefix string, opts ...EncodeOpt) string {
	e := newEncoder(nil, stripPrefix, lastOpt(opts))
	e.w.beginObject()
	e.w.key(key)
	e.value(v)
	e.w.endObject()
	return string(e.w.buf)
}

type encoder struct {
	w      *jsonWriter
	prefix string
	ts     codec.Timestamp
}

func newEncoder(dst []byte, prefix string, opt EncodeOpt) *encoder {
	ts := opt.Timestamps
	if ts == nil {
		ts = codec.RFC3339()
	}
	return &encoder{w: newJSONWriter(dst), prefix: prefix, ts: ts}
}

func (e *encoder) attrName(name string) string {
	if e.prefix != "" && strings.HasPrefix(name, e.prefix) {
		return strings.Replace(name, e.prefix, "", 1)
	}
	return name
}

func (e *encoder) value(v *value.Value) {
	if !v.IsPresent() {
		e.w.null()
		return
	}
	switch k := v.Kind(); {
	case k == value.KindRecord:
		e.w.beginObject()
		t := v.Type().Base()
		for i := 0; i < v.NumField(); i++ {
			e.w.key(e.attrName(t.FieldAt(i).Name))
			e.value(v.FieldAt(i))
		}
		e.w.endObject()
	case k.IsList() || k.IsSet():
		e.w.beginArray()
		for i := 0; i < v.Len(); i++ {
			e.value(v.Index(i))
		}
		e.w.endArray()
	case k.IsMap():
		e.w.beginObject()
		for i := 0; i < v.Len(); i++ {
			e.w.key(keyText(v.KeyAt(i), e.ts))
			e.value(v.Index(i))
		}
		e.w.endObject()
	default:
		e.leaf(v)
	}
}

func (e *encoder) leaf(v *value.Value) {
	switch k := v.Kind(); {
	case k == value.KindBool:
		e.w.boolean(v.Bool())
	case k == value.KindEnum || k.IsStringLike():
		e.w.str(v.Str())
	case k.IsSigned():
		e.w.int(v.Int())
	case k.IsUnsigned():
		e.w.uint(v.Uint())
	case k == value.KindFloat32:
		e.w.float(v.Float(), 32)
	case k == value.KindFloat64:
		e.w.float(v.Float(), 64)
	case k.IsDecimal():
		e.w.float(v.DecimalFloat64(), 64)
	case k == value.KindTimestamp:
		e.w.str(e.ts.Format(v.Timestamp()))
	default:
		// blob, complex and xml have no JSON form
		e.w.null()
	}
}

// keyText renders a map key as object member name.
func keyText(k *value.Value, ts codec.Timestamp) string {
	switch kind := k.Kind(); {
	case kind.IsStringLike() || kind == value.KindEnum:
		return k.Str()
	case kind == value.KindTimestamp:
		return ts.Format(k.Timestamp())
	}
	w := newJSONWriter(nil)
	(&encoder{w: w, ts: ts}).value(k)
	return string(w.buf)
}

package recjson

import (
	"math"
	"strconv"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"
)

// jsonWriter emits compact JSON. Separators are tracked per open container so
// callers only describe structure.
type jsonWriter struct {
	buf      []byte
	open     []bool // per container: a member was already written
	afterKey bool
}

func newJSONWriter(dst []byte) *jsonWriter { return &jsonWriter{buf: dst} }

func (w *jsonWriter) sep() {
	if w.afterKey {
		w.afterKey = false
		return
	}
	if n := len(w.open); n > 0 {
		if w.open[n-1] {
			w.buf = append(w.buf, ',')
		}
		w.open[n-1] = true
	}
}

func (w *jsonWriter) beginObject() {
	w.sep()
	w.buf = append(w.buf, '{')
	w.open = append(w.open, false)
}

func (w *jsonWriter) endObject() {
	w.open = w.open[:len(w.open)-1]
	w.buf = append(w.buf, '}')
}

func (w *jsonWriter) beginArray() {
	w.sep()
	w.buf = append(w.buf, '[')
	w.open = append(w.open, false)
}

func (w *jsonWriter) endArray() {
	w.open = w.open[:len(w.open)-1]
	w.buf = append(w.buf, ']')
}

func (w *jsonWriter) key(k string) {
	w.sep()
	w.buf = appendQuoted(w.buf, k)
	w.buf = append(w.buf, ':')
	w.afterKey = true
}

func (w *jsonWriter) str(s string) {
	w.sep()
	w.buf = appendQuoted(w.buf, s)
}

func (w *jsonWriter) null() {
	w.sep()
	w.buf = append(w.buf, "null"...)
}

func (w *jsonWriter) boolean(b bool) {
	w.sep()
	w.buf = strconv.AppendBool(w.buf, b)
}

func (w *jsonWriter) int(i int64) {
	w.sep()
	w.buf = strconv.AppendInt(w.buf, i, 10)
}

func (w *jsonWriter) uint(u uint64) {
	w.sep()
	w.buf = strconv.AppendUint(w.buf, u, 10)
}

// float writes f with the shortest text that round-trips at the given bit
// size. NaN and infinities have no JSON form and are written as null.
func (w *jsonWriter) float(f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.null()
		return
	}
	w.sep()
	var b []byte
	var err error
	if bits == 32 {
		b, err = gojson.Marshal(float32(f))
	} else {
		b, err = gojson.Marshal(f)
	}
	if err != nil {
		w.buf = strconv.AppendFloat(w.buf, f, 'g', -1, bits)
		return
	}
	w.buf = append(w.buf, b...)
}

func appendQuoted(dst []byte, s string) []byte {
	b, err := gojson.MarshalWithOption(s, gojson.DisableHTMLEscape())
	if err != nil {
		return appendEscaped(dst, s)
	}
	return append(dst, b...)
}

const hexDigits = "0123456789abcdef"

// appendEscaped quotes s as a JSON string without go-json. Invalid UTF-8 is
// written as U+FFFD.
func appendEscaped(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			dst = append(dst, '\\', byte(r))
		case r == '\n':
			dst = append(dst, '\\', 'n')
		case r == '\r':
			dst = append(dst, '\\', 'r')
		case r == '\t':
			dst = append(dst, '\\', 't')
		case r < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[r>>4], hexDigits[r&0xf])
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return append(dst, '"')
}

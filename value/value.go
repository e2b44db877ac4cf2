package value

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
)

// Value is a tagged union over the closed kind set. Its declared type never
// changes. An optional value stores the payload of its base type plus a
// presence bit; every accessor works on the base payload.
//
// Like reflect.Value, accessors and setters panic when used on a value of
// the wrong kind.
type Value struct {
	typ     *Type
	present bool

	b    bool
	i    int64
	u    uint64
	f    float64
	c    complex128
	d    apd.Decimal
	s    string // string kinds, enum symbol, xml
	t    time.Time
	blob []byte

	fields []*Value // record attributes
	elems  []*Value // list/set elements, map values
	keys   []*Value // map keys, parallel to elems
	index  map[string]int
}

var decimalContexts = map[Kind]*apd.Context{
	KindDecimal32:  apd.BaseContext.WithPrecision(7),
	KindDecimal64:  apd.BaseContext.WithPrecision(16),
	KindDecimal128: apd.BaseContext.WithPrecision(34),
}

// New returns the default value of t: zero scalars, empty collections,
// records with default attributes and absent optionals.
func New(t *Type) *Value {
	v := &Value{typ: t, present: !t.IsOptional()}
	base := t.Base()
	switch base.kind {
	case KindRecord:
		v.fields = make([]*Value, len(base.fields))
		for i, f := range base.fields {
			v.fields[i] = New(f.Type)
		}
	case KindEnum:
		if len(base.symbols) > 0 {
			v.s = base.symbols[0]
		}
	case KindSet, KindBSet, KindMap, KindBMap:
		v.index = make(map[string]int)
	}
	return v
}

// Type returns the declared type, optional wrapper included.
func (v *Value) Type() *Type { return v.typ }

// Kind returns the kind of the base type.
func (v *Value) Kind() Kind { return v.typ.Base().kind }

// IsPresent reports whether an optional holds a value. Non-optional values
// are always present.
func (v *Value) IsPresent() bool { return v.present }

// SetPresent marks an optional as holding its current payload.
func (v *Value) SetPresent() { v.present = true }

// SetNull marks an optional as absent and resets its payload. It is a no-op
// on non-optional values.
func (v *Value) SetNull() {
	if !v.typ.IsOptional() {
		return
	}
	*v = *New(v.typ)
}

func (v *Value) must(ok bool, op string) {
	if !ok {
		panic("value: " + op + " on " + v.typ.String())
	}
}

func (v *Value) Bool() bool {
	v.must(v.Kind() == KindBool, "Bool")
	return v.b
}

func (v *Value) SetBool(b bool) {
	v.must(v.Kind() == KindBool, "SetBool")
	v.b, v.present = b, true
}

// Int returns the value of a signed integer kind.
func (v *Value) Int() int64 {
	v.must(v.Kind().IsSigned(), "Int")
	return v.i
}

// SetInt stores x, truncating it to the width of the kind.
func (v *Value) SetInt(x int64) {
	k := v.Kind()
	v.must(k.IsSigned(), "SetInt")
	switch k {
	case KindInt8:
		x = int64(int8(x))
	case KindInt16:
		x = int64(int16(x))
	case KindInt32:
		x = int64(int32(x))
	}
	v.i, v.present = x, true
}

// Uint returns the value of an unsigned integer kind.
func (v *Value) Uint() uint64 {
	v.must(v.Kind().IsUnsigned(), "Uint")
	return v.u
}

// SetUint stores x, truncating it to the width of the kind.
func (v *Value) SetUint(x uint64) {
	k := v.Kind()
	v.must(k.IsUnsigned(), "SetUint")
	switch k {
	case KindUint8:
		x = uint64(uint8(x))
	case KindUint16:
		x = uint64(uint16(x))
	case KindUint32:
		x = uint64(uint32(x))
	}
	v.u, v.present = x, true
}

func (v *Value) Float() float64 {
	v.must(v.Kind().IsFloat(), "Float")
	return v.f
}

// SetFloat stores x; float32 values are rounded to single precision.
func (v *Value) SetFloat(x float64) {
	k := v.Kind()
	v.must(k.IsFloat(), "SetFloat")
	if k == KindFloat32 {
		x = float64(float32(x))
	}
	v.f, v.present = x, true
}

// Decimal returns the stored decimal. The result must not be modified.
func (v *Value) Decimal() *apd.Decimal {
	v.must(v.Kind().IsDecimal(), "Decimal")
	return &v.d
}

// SetDecimal stores x rounded to the precision of the kind.
func (v *Value) SetDecimal(x *apd.Decimal) error {
	k := v.Kind()
	v.must(k.IsDecimal(), "SetDecimal")
	var d apd.Decimal
	if _, err := decimalContexts[k].Round(&d, x); err != nil {
		return err
	}
	v.d.Set(&d)
	v.present = true
	return nil
}

// SetDecimalString parses s and stores it rounded to the precision of the kind.
func (v *Value) SetDecimalString(s string) error {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return err
	}
	return v.SetDecimal(d)
}

// DecimalFloat64 converts the stored decimal to the nearest float64.
func (v *Value) DecimalFloat64() float64 {
	f, err := v.Decimal().Float64()
	if err != nil {
		return math.NaN()
	}
	return f
}

func (v *Value) Complex() complex128 {
	v.must(v.Kind() == KindComplex32 || v.Kind() == KindComplex64, "Complex")
	return v.c
}

func (v *Value) SetComplex(c complex128) {
	k := v.Kind()
	v.must(k == KindComplex32 || k == KindComplex64, "SetComplex")
	if k == KindComplex32 {
		c = complex128(complex64(c))
	}
	v.c, v.present = c, true
}

// Str returns the character data of string kinds, the symbol of an enum or
// the document text of xml.
func (v *Value) Str() string {
	k := v.Kind()
	v.must(k.IsStringLike() || k == KindEnum || k == KindXML, "Str")
	return v.s
}

// SetString stores s into a string kind. Bounded strings keep at most Bound
// bytes, cut back to a rune boundary.
func (v *Value) SetString(s string) {
	base := v.typ.Base()
	v.must(base.kind.IsStringLike(), "SetString")
	if base.kind == KindBString && len(s) > base.bound {
		n := base.bound
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	v.s, v.present = s, true
}

// SetEnum stores sym if it names one of the enum symbols.
func (v *Value) SetEnum(sym string) bool {
	base := v.typ.Base()
	v.must(base.kind == KindEnum, "SetEnum")
	if _, ok := base.SymbolIndex(sym); !ok {
		return false
	}
	v.s, v.present = sym, true
	return true
}

func (v *Value) SetXML(doc string) {
	v.must(v.Kind() == KindXML, "SetXML")
	v.s, v.present = doc, true
}

func (v *Value) Timestamp() time.Time {
	v.must(v.Kind() == KindTimestamp, "Timestamp")
	return v.t
}

func (v *Value) SetTimestamp(t time.Time) {
	v.must(v.Kind() == KindTimestamp, "SetTimestamp")
	v.t, v.present = t, true
}

func (v *Value) Blob() []byte {
	v.must(v.Kind() == KindBlob, "Blob")
	return v.blob
}

func (v *Value) SetBlob(b []byte) {
	v.must(v.Kind() == KindBlob, "SetBlob")
	v.blob, v.present = append([]byte(nil), b...), true
}

// NumField returns the number of record attributes.
func (v *Value) NumField() int {
	v.must(v.Kind() == KindRecord, "NumField")
	return len(v.fields)
}

// FieldAt returns the i-th attribute handle.
func (v *Value) FieldAt(i int) *Value {
	v.must(v.Kind() == KindRecord, "FieldAt")
	return v.fields[i]
}

// Field returns the attribute handle named name, or nil.
func (v *Value) Field(name string) *Value {
	base := v.typ.Base()
	v.must(base.kind == KindRecord, "Field")
	i, ok := base.FieldIndex(name)
	if !ok {
		return nil
	}
	return v.fields[i]
}

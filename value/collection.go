package value

import (
	"strconv"
	"strings"
	"time"
)

// Len returns the number of elements of a list, set or map.
func (v *Value) Len() int {
	v.must(v.Kind().IsCollection(), "Len")
	return len(v.elems)
}

// Index returns the i-th element of a list or set, or the i-th value of a
// map. Sets and maps iterate in insertion order.
func (v *Value) Index(i int) *Value {
	v.must(v.Kind().IsCollection(), "Index")
	return v.elems[i]
}

// KeyAt returns the i-th map key.
func (v *Value) KeyAt(i int) *Value {
	v.must(v.Kind().IsMap(), "KeyAt")
	return v.keys[i]
}

// NewElem returns a default element for a list or set, detached from v.
func (v *Value) NewElem() *Value {
	base := v.typ.Base()
	v.must(base.kind.IsList() || base.kind.IsSet(), "NewElem")
	return New(base.elem)
}

func (v *Value) full() bool {
	base := v.typ.Base()
	return base.kind.IsBounded() && len(v.elems) >= base.bound
}

// Append adds e to a list or set. Sets ignore elements already present.
// It reports whether e was added; bounded collections refuse elements past
// their bound.
func (v *Value) Append(e *Value) bool {
	k := v.Kind()
	v.must(k.IsList() || k.IsSet(), "Append")
	if k.IsSet() {
		id := identity(e)
		if _, dup := v.index[id]; dup {
			return false
		}
		if v.full() {
			return false
		}
		v.index[id] = len(v.elems)
	} else if v.full() {
		return false
	}
	v.elems = append(v.elems, e)
	v.present = true
	return true
}

// AppendNew appends a default element to a list and returns it, or nil when
// the list is at its bound.
func (v *Value) AppendNew() *Value {
	v.must(v.Kind().IsList(), "AppendNew")
	e := v.NewElem()
	if !v.Append(e) {
		return nil
	}
	return e
}

// Put inserts val under key, replacing the value of an existing key in
// place. It reports false when a bounded map is full.
func (v *Value) Put(key, val *Value) bool {
	v.must(v.Kind().IsMap(), "Put")
	id := identity(key)
	if i, ok := v.index[id]; ok {
		v.elems[i] = val
		v.present = true
		return true
	}
	if v.full() {
		return false
	}
	v.index[id] = len(v.elems)
	v.keys = append(v.keys, key)
	v.elems = append(v.elems, val)
	v.present = true
	return true
}

// PutString is Put with a key built from a string-like key type.
func (v *Value) PutString(key string, val *Value) bool {
	k := New(v.typ.Base().key)
	k.SetString(key)
	return v.Put(k, val)
}

// PutNew inserts a default value under key and returns it, or nil when a
// bounded map is full.
func (v *Value) PutNew(key string) *Value {
	v.must(v.Kind().IsMap(), "PutNew")
	val := New(v.typ.Base().val)
	if !v.PutString(key, val) {
		return nil
	}
	return val
}

// Get returns the map value stored under a string key, or nil.
func (v *Value) Get(key string) *Value {
	v.must(v.Kind().IsMap(), "Get")
	k := New(v.typ.Base().key)
	if !k.Kind().IsStringLike() {
		return nil
	}
	k.SetString(key)
	if i, ok := v.index[identity(k)]; ok {
		return v.elems[i]
	}
	return nil
}

// identity renders a value into a canonical text used for set membership
// and map key lookup.
func identity(v *Value) string {
	var b strings.Builder
	writeIdentity(&b, v)
	return b.String()
}

func writeIdentity(b *strings.Builder, v *Value) {
	if !v.present {
		b.WriteString("~")
		return
	}
	switch k := v.Kind(); {
	case k == KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case k.IsSigned():
		b.WriteString(strconv.FormatInt(v.i, 10))
	case k.IsUnsigned():
		b.WriteString(strconv.FormatUint(v.u, 10))
	case k.IsFloat():
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case k.IsDecimal():
		b.WriteString(v.d.String())
	case k == KindComplex32 || k == KindComplex64:
		b.WriteString(strconv.FormatComplex(v.c, 'g', -1, 128))
	case k == KindTimestamp:
		b.WriteString(v.t.Format(time.RFC3339Nano))
	case k == KindBlob:
		b.WriteString(strconv.Quote(string(v.blob)))
	case k.IsStringLike() || k == KindEnum || k == KindXML:
		b.WriteString(strconv.Quote(v.s))
	case k == KindRecord:
		b.WriteByte('(')
		for i, f := range v.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			writeIdentity(b, f)
		}
		b.WriteByte(')')
	case k.IsMap():
		b.WriteByte('{')
		for i := range v.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			writeIdentity(b, v.keys[i])
			b.WriteByte(':')
			writeIdentity(b, v.elems[i])
		}
		b.WriteByte('}')
	default:
		b.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			writeIdentity(b, e)
		}
		b.WriteByte(']')
	}
}

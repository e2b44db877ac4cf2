package value

// Equal reports whether a and b have equal types and equal payloads,
// attribute by attribute and element by element.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.typ.Equal(b.typ) || a.present != b.present {
		return false
	}
	if !a.present {
		return true
	}
	switch k := a.Kind(); {
	case k == KindRecord:
		for i := range a.fields {
			if !Equal(a.fields[i], b.fields[i]) {
				return false
			}
		}
		return true
	case k.IsList():
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case k.IsSet():
		if len(a.elems) != len(b.elems) {
			return false
		}
		for id := range a.index {
			if _, ok := b.index[id]; !ok {
				return false
			}
		}
		return true
	case k.IsMap():
		if len(a.elems) != len(b.elems) {
			return false
		}
		for id, i := range a.index {
			j, ok := b.index[id]
			if !ok || !Equal(a.elems[i], b.elems[j]) {
				return false
			}
		}
		return true
	case k.IsDecimal():
		return a.d.Cmp(&b.d) == 0
	case k == KindTimestamp:
		return a.t.Equal(b.t)
	}
	return identity(a) == identity(b)
}

// String renders v for diagnostics.
func (v *Value) String() string { return v.typ.String() + identity(v) }

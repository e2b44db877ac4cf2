package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrDuplicateField is returned when a record type names the same attribute twice.
var ErrDuplicateField = errors.New("value: duplicate attribute name")

// Field is a named, typed record attribute.
type Field struct {
	Name string
	Type *Type
}

// Type is an immutable type descriptor. Composite types reference their
// nested types; records keep their attributes in declaration order.
type Type struct {
	kind    Kind
	elem    *Type // list, set, optional
	key     *Type // map
	val     *Type // map
	bound   int
	fields  []Field
	index   map[string]int
	symbols []string
}

var leafTypes = func() map[Kind]*Type {
	m := make(map[Kind]*Type)
	for k := KindBool; k <= KindXML; k++ {
		if k == KindEnum || k == KindBString {
			continue
		}
		m[k] = &Type{kind: k}
	}
	return m
}()

// Of returns the shared descriptor of a parameterless leaf kind. It panics for
// kinds that need parameters (enum, bstring and every composite kind).
func Of(k Kind) *Type {
	t, ok := leafTypes[k]
	if !ok {
		panic("value.Of: kind " + k.String() + " needs parameters")
	}
	return t
}

// Enum returns an enumeration type over the given symbols.
func Enum(symbols ...string) *Type {
	return &Type{kind: KindEnum, symbols: append([]string(nil), symbols...)}
}

// BString returns a bounded string type holding at most n bytes.
func BString(n int) *Type { return &Type{kind: KindBString, bound: n} }

// List returns list<elem>.
func List(elem *Type) *Type { return &Type{kind: KindList, elem: elem} }

// BList returns list<elem>[n].
func BList(elem *Type, n int) *Type { return &Type{kind: KindBList, elem: elem, bound: n} }

// Set returns set<elem>.
func Set(elem *Type) *Type { return &Type{kind: KindSet, elem: elem} }

// BSet returns set<elem>[n].
func BSet(elem *Type, n int) *Type { return &Type{kind: KindBSet, elem: elem, bound: n} }

// Map returns map<key,val>.
func Map(key, val *Type) *Type { return &Type{kind: KindMap, key: key, val: val} }

// BMap returns map<key,val>[n].
func BMap(key, val *Type, n int) *Type { return &Type{kind: KindBMap, key: key, val: val, bound: n} }

// Optional returns optional<t>. Optional types do not nest: wrapping an
// optional type returns it unchanged.
func Optional(t *Type) *Type {
	if t.kind == KindOptional {
		return t
	}
	return &Type{kind: KindOptional, elem: t}
}

// NewRecord builds a record type from its attributes.
func NewRecord(fields ...Field) (*Type, error) {
	t := &Type{kind: KindRecord, fields: make([]Field, len(fields)), index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if f.Type == nil {
			return nil, fmt.Errorf("value: attribute %q has no type", f.Name)
		}
		if _, dup := t.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		t.fields[i] = f
		t.index[f.Name] = i
	}
	return t, nil
}

// Record is like NewRecord but panics on invalid attribute lists.
func Record(fields ...Field) *Type {
	t, err := NewRecord(fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// F is shorthand for Field{Name: name, Type: t}.
func F(name string, t *Type) Field { return Field{Name: name, Type: t} }

func (t *Type) Kind() Kind { return t.kind }

// Elem returns the element type of lists, sets and optionals.
func (t *Type) Elem() *Type { return t.elem }

// Key returns the key type of maps.
func (t *Type) Key() *Type { return t.key }

// Val returns the value type of maps.
func (t *Type) Val() *Type { return t.val }

// Bound returns the size bound of bounded kinds, 0 otherwise.
func (t *Type) Bound() int { return t.bound }

func (t *Type) NumFields() int { return len(t.fields) }

func (t *Type) FieldAt(i int) Field { return t.fields[i] }

// FieldIndex looks up an attribute by exact name.
func (t *Type) FieldIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

func (t *Type) Symbols() []string { return t.symbols }

// SymbolIndex returns the ordinal of an enum symbol.
func (t *Type) SymbolIndex(sym string) (int, bool) {
	for i, s := range t.symbols {
		if s == sym {
			return i, true
		}
	}
	return 0, false
}

// IsOptional reports whether t is optional<_>.
func (t *Type) IsOptional() bool { return t.kind == KindOptional }

// Base strips one optional level.
func (t *Type) Base() *Type {
	if t.kind == KindOptional {
		return t.elem
	}
	return t
}

// Equal reports structural equality.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.kind != o.kind || t.bound != o.bound {
		return false
	}
	switch t.kind {
	case KindEnum:
		if len(t.symbols) != len(o.symbols) {
			return false
		}
		for i := range t.symbols {
			if t.symbols[i] != o.symbols[i] {
				return false
			}
		}
		return true
	case KindList, KindBList, KindSet, KindBSet, KindOptional:
		return t.elem.Equal(o.elem)
	case KindMap, KindBMap:
		return t.key.Equal(o.key) && t.val.Equal(o.val)
	case KindRecord:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for i := range t.fields {
			if t.fields[i].Name != o.fields[i].Name || !t.fields[i].Type.Equal(o.fields[i].Type) {
				return false
			}
		}
		return true
	}
	return true
}

// String renders t in the descriptor grammar accepted by schema.ParseType.
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	bound := func() {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.bound))
		b.WriteByte(']')
	}
	switch t.kind {
	case KindEnum:
		b.WriteString("enum{")
		b.WriteString(strings.Join(t.symbols, ","))
		b.WriteByte('}')
	case KindBString:
		b.WriteString("rstring")
		bound()
	case KindList, KindBList, KindSet, KindBSet:
		if t.kind.IsList() {
			b.WriteString("list<")
		} else {
			b.WriteString("set<")
		}
		t.elem.write(b)
		b.WriteByte('>')
		if t.kind.IsBounded() {
			bound()
		}
	case KindMap, KindBMap:
		b.WriteString("map<")
		t.key.write(b)
		b.WriteByte(',')
		t.val.write(b)
		b.WriteByte('>')
		if t.kind == KindBMap {
			bound()
		}
	case KindOptional:
		b.WriteString("optional<")
		t.elem.write(b)
		b.WriteByte('>')
	case KindRecord:
		b.WriteString("tuple<")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			f.Type.write(b)
			b.WriteByte(' ')
			b.WriteString(f.Name)
		}
		b.WriteByte('>')
	default:
		b.WriteString(t.kind.String())
	}
}

// Package schema turns textual type descriptors and YAML schema documents
// into value.Type descriptors.
//
// Descriptor grammar (whitespace is insignificant):
//
//	type     = leaf | "rstring" "[" N "]" | enum | coll | map | record | "optional" "<" type ">"
//	enum     = "enum" "{" ident { "," ident } "}"
//	coll     = ("list" | "set") "<" type ">" [ "[" N "]" ]
//	map      = "map" "<" type "," type ">" [ "[" N "]" ]
//	record   = ("tuple" | "record") "<" type ident { "," type ident } ">"
//
// Leaf kinds: boolean, int8..int64, uint8..uint64, float32, float64,
// decimal32, decimal64, decimal128, complex32, complex64, timestamp, rstring,
// ustring, blob, xml.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/reoring/recjson/value"
)

var leafKinds = map[string]value.Kind{
	"boolean":    value.KindBool,
	"int8":       value.KindInt8,
	"int16":      value.KindInt16,
	"int32":      value.KindInt32,
	"int64":      value.KindInt64,
	"uint8":      value.KindUint8,
	"uint16":     value.KindUint16,
	"uint32":     value.KindUint32,
	"uint64":     value.KindUint64,
	"float32":    value.KindFloat32,
	"float64":    value.KindFloat64,
	"decimal32":  value.KindDecimal32,
	"decimal64":  value.KindDecimal64,
	"decimal128": value.KindDecimal128,
	"complex32":  value.KindComplex32,
	"complex64":  value.KindComplex64,
	"timestamp":  value.KindTimestamp,
	"rstring":    value.KindRString,
	"ustring":    value.KindUString,
	"blob":       value.KindBlob,
	"xml":        value.KindXML,
}

// SyntaxError reports a malformed descriptor.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("schema: %s at offset %d", e.Msg, e.Offset)
}

// ParseType parses a type descriptor.
func ParseType(s string) (*value.Type, error) {
	p := &parser{src: s}
	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input %q", p.src[p.pos:])
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) *value.Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) peek(c byte) bool {
	p.skipSpace()
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *parser) expect(c byte) error {
	if !p.peek(c) {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

// bound parses an optional "[N]" suffix.
func (p *parser) bound() (int, bool, error) {
	if !p.peek('[') {
		return 0, false, nil
	}
	p.pos++
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, false, p.errorf("invalid bound")
	}
	if err := p.expect(']'); err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (p *parser) typ() (*value.Type, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected type name")
	}
	switch name {
	case "rstring":
		n, ok, err := p.bound()
		if err != nil {
			return nil, err
		}
		if ok {
			return value.BString(n), nil
		}
		return value.Of(value.KindRString), nil
	case "enum":
		return p.enum()
	case "list", "set":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.typ()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		n, ok, err := p.bound()
		if err != nil {
			return nil, err
		}
		switch {
		case name == "list" && ok:
			return value.BList(elem, n), nil
		case name == "list":
			return value.List(elem), nil
		case ok:
			return value.BSet(elem, n), nil
		default:
			return value.Set(elem), nil
		}
	case "map":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		key, err := p.typ()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		val, err := p.typ()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		n, ok, err := p.bound()
		if err != nil {
			return nil, err
		}
		if ok {
			return value.BMap(key, val, n), nil
		}
		return value.Map(key, val), nil
	case "optional":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.typ()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return value.Optional(elem), nil
	case "tuple", "record":
		return p.record()
	}
	if k, ok := leafKinds[name]; ok {
		return value.Of(k), nil
	}
	return nil, p.errorf("unknown type %q", name)
}

func (p *parser) enum() (*value.Type, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var syms []string
	for {
		s := p.ident()
		if s == "" {
			return nil, p.errorf("expected enum symbol")
		}
		syms = append(syms, s)
		if p.peek('}') {
			p.pos++
			return value.Enum(syms...), nil
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
}

func (p *parser) record() (*value.Type, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var fields []value.Field
	for {
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		name := p.ident()
		if name == "" {
			return nil, p.errorf("expected attribute name")
		}
		fields = append(fields, value.F(name, t))
		if p.peek('>') {
			p.pos++
			break
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
	t, err := value.NewRecord(fields...)
	if err != nil {
		return nil, p.errorf("%s", strings.TrimPrefix(err.Error(), "value: "))
	}
	return t, nil
}

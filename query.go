package recjson

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-openapi/jsonpointer"
	"go.uber.org/zap"

	"github.com/reoring/recjson/internal/engine"
	"github.com/reoring/recjson/value"
)

// ErrNoDocument is the panic value of queries issued before any Parse.
var ErrNoDocument = errors.New("recjson: query before parse")

// Document retains one parsed JSON document and answers pointer queries
// against it. Every Parse replaces the document. A Document must not be used
// from several goroutines at once; give each worker its own.
type Document struct {
	opt      DecodeOpt
	root     any
	parsed   bool
	pointers map[string]compiledPointer
}

type compiledPointer struct {
	p  jsonpointer.Pointer
	st Status
}

// NewDocument returns an empty Document. Size and depth limits of opts apply
// to Parse.
func NewDocument(opts ...DecodeOpt) *Document {
	return &Document{opt: lastOpt(opts), pointers: make(map[string]compiledPointer)}
}

// Parse replaces the retained document with data. On failure the document
// becomes an empty object and the returned error is a *ParseError (or Issues
// for enforcement limits).
func (d *Document) Parse(data []byte) error {
	d.parsed = true
	root, err := d.parse(data)
	if err != nil {
		d.root = map[string]any{}
		Logger().Warn("json parse failed", zap.Error(err))
		return err
	}
	d.root = root
	return nil
}

func (d *Document) parse(data []byte) (any, error) {
	src := EnforceSource(JSONBytes(data), d.opt, nil)
	root, err := engine.DecodeAnyFromSource(src)
	if err == nil {
		return root, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Code: CodeEmptyDocument, Offset: 0, Cause: err}
	}
	return nil, toParseError(err, int64(len(data)), src.Location())
}

// Parsed reports whether Parse was called at least once.
func (d *Document) Parsed() bool { return d.parsed }

// resolve finds the node at path. A nil node with StatusOK is a JSON null.
func (d *Document) resolve(path string) (any, Status) {
	if !d.parsed {
		panic(ErrNoDocument)
	}
	cp, ok := d.pointers[path]
	if !ok {
		cp.p, cp.st = compilePointer(path)
		d.pointers[path] = cp
	}
	if cp.st != StatusOK {
		return nil, cp.st
	}
	node, _, err := cp.p.Get(d.root)
	if err != nil {
		return nil, StatusNotFound
	}
	return node, StatusOK
}

// Query resolves path and converts the node with c. def is returned with
// the failing status when path is malformed, not found, null or not
// convertible.
func Query[T any](d *Document, path string, def T, c Coercer[T]) (T, Status) {
	node, st := d.resolve(path)
	if st != StatusOK {
		return def, st
	}
	if node == nil {
		return def, StatusNullValue
	}
	return c(node, def)
}

func (d *Document) QueryBool(path string, def bool) (bool, Status) {
	return Query(d, path, def, Bool())
}

func (d *Document) QueryInt64(path string, def int64) (int64, Status) {
	return Query(d, path, def, Int[int64]())
}

func (d *Document) QueryUint64(path string, def uint64) (uint64, Status) {
	return Query(d, path, def, Uint[uint64]())
}

func (d *Document) QueryFloat64(path string, def float64) (float64, Status) {
	return Query(d, path, def, Float[float64]())
}

func (d *Document) QueryString(path string, def string) (string, Status) {
	return Query(d, path, def, String())
}

// QueryDecimal reads a decimal rounded to precision significant digits.
func (d *Document) QueryDecimal(path string, def *apd.Decimal, precision uint32) (*apd.Decimal, Status) {
	return Query(d, path, def, Decimal(precision))
}

// QueryValue binds the node at path to a fresh value of type t. Objects and
// arrays go through the decoder, so mismatching members are dropped as in
// Decode; scalars must match the kind of t.
func (d *Document) QueryValue(path string, t *value.Type, def *value.Value) (*value.Value, Status) {
	node, st := d.resolve(path)
	if st != StatusOK {
		return def, st
	}
	if node == nil {
		return def, StatusNullValue
	}
	base := t.Base()
	switch x := node.(type) {
	case map[string]any:
		if base.Kind() != value.KindRecord && !(base.Kind().IsMap() && base.Key().Kind().IsStringLike()) {
			return def, StatusTypeMismatch
		}
	case []any:
		if !base.Kind().IsList() && !base.Kind().IsSet() {
			return def, StatusTypeMismatch
		}
	default:
		v := value.New(t)
		if !bindScalar(v, scalarToken(x), d.opt.Timestamps) {
			return def, StatusTypeMismatch
		}
		return v, StatusOK
	}
	return bindTree(node, t, d.opt), StatusOK
}

// bindTree decodes node into a value of type t by replaying it as the only
// member of a wrapper record.
func bindTree(node any, t *value.Type, opt DecodeOpt) *value.Value {
	wrapper := value.New(value.Record(value.F("value", t)))
	dec := newDecoder(wrapper, opt.Timestamps, Logger())
	dec.feed(Token{Kind: TokenBeginObject, Offset: -1})
	dec.feed(Token{Kind: TokenKey, String: "value", Offset: -1})
	src := engine.TreeSource(node)
	for !dec.done {
		tok, err := src.NextToken()
		if err != nil {
			break
		}
		dec.feed(tok)
	}
	return wrapper.FieldAt(0)
}

func scalarToken(node any) Token {
	switch x := node.(type) {
	case string:
		return Token{Kind: TokenString, String: x, Offset: -1}
	case json.Number:
		return Token{Kind: TokenNumber, Number: string(x), Offset: -1}
	case bool:
		return Token{Kind: TokenBool, Bool: x, Offset: -1}
	}
	return Token{Kind: TokenNull, Offset: -1}
}

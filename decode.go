package recjson

import (
	"errors"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/reoring/recjson/codec"
	"github.com/reoring/recjson/internal/engine"
	"github.com/reoring/recjson/internal/stream"
	"github.com/reoring/recjson/value"
)

// ErrNotRecord is returned when the decode target is not a record.
var ErrNotRecord = errors.New("recjson: decode target is not a record")

// Decode binds the JSON object in data to rec and returns rec. Keys are
// matched to attributes by exact name; values that do not fit the declared
// attribute types are dropped. The returned error reports malformed input or
// an enforcement limit; rec keeps what was bound before the failure.
func Decode(data []byte, rec *value.Value, opts ...DecodeOpt) (*value.Value, error) {
	return decodeSource(JSONBytes(data), int64(len(data)), rec, lastOpt(opts))
}

// DecodeFrom is Decode over an arbitrary Source.
func DecodeFrom(src Source, rec *value.Value, opts ...DecodeOpt) (*value.Value, error) {
	return decodeSource(src, -1, rec, lastOpt(opts))
}

func decodeSource(src Source, size int64, rec *value.Value, opt DecodeOpt) (*value.Value, error) {
	if rec == nil || rec.Kind() != value.KindRecord {
		return rec, ErrNotRecord
	}
	log := Logger()
	src = EnforceSource(src, opt, issueLogger(log))
	if err := newDecoder(rec, opt.Timestamps, log).run(src); err != nil {
		return rec, decodeError(err, size, src.Location())
	}
	return rec, nil
}

// DecodeArray reads a JSON array from src and decodes each element into a
// fresh record of type t, handing it to fn. Elements that are not objects
// yield default records. Decoding stops at the first malformed element or
// at the first error returned by fn, which is returned unchanged.
func DecodeArray(src Source, t *value.Type, fn func(i int, rec *value.Value) error, opts ...DecodeOpt) error {
	if t == nil || t.Base().Kind() != value.KindRecord {
		return ErrNotRecord
	}
	opt := lastOpt(opts)
	log := Logger()
	src = EnforceSource(src, opt, issueLogger(log))
	var fnErr error
	err := stream.Elements(src, func(i int, elem *stream.Subtree) error {
		rec := value.New(t)
		if err := newDecoder(rec, opt.Timestamps, log).run(elem); err != nil {
			return err
		}
		if err := fn(i, rec); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case fnErr != nil:
		return fnErr
	case errors.Is(err, stream.ErrNotArray):
		return err
	}
	return decodeError(err, -1, src.Location())
}

func issueLogger(log *zap.Logger) func(Issue) {
	return func(iss Issue) {
		log.Warn("json input issue",
			zap.String("code", iss.Code),
			zap.String("path", iss.Path),
			zap.Int64("offset", iss.Offset))
	}
}

// decodeError turns a tokenizer or enforcement failure into the public
// error model. A bare io.EOF means the input held no token at all.
func decodeError(err error, size, loc int64) error {
	if errors.Is(err, io.EOF) {
		return &ParseError{Code: CodeEmptyDocument, Offset: 0, Cause: err}
	}
	return toParseError(err, size, loc)
}

// decoder is the binding automaton. It consumes one token at a time.
type decoder struct {
	ctx   decodeContext
	root  *value.Value
	ts    codec.Timestamp
	log   *zap.Logger
	debug bool
	done  bool
}

func newDecoder(rec *value.Value, ts codec.Timestamp, log *zap.Logger) *decoder {
	if ts == nil {
		ts = codec.RFC3339()
	}
	return &decoder{root: rec, ts: ts, log: log, debug: log.Core().Enabled(zap.DebugLevel)}
}

// run feeds tokens from src until the root object is closed or decoding
// stops early. A stream ending after the first token yields
// io.ErrUnexpectedEOF.
func (d *decoder) run(src Source) error {
	first := true
	for !d.done {
		tok, err := src.NextToken()
		if err != nil {
			if !first && errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		first = false
		d.feed(tok)
	}
	return nil
}

func (d *decoder) trace(msg string, fields ...zap.Field) {
	if d.debug {
		d.log.Debug(msg, fields...)
	}
}

func (d *decoder) feed(tok Token) {
	f := d.ctx.top()
	if f == nil {
		// The first token decides: an object opens the root frame, anything
		// else leaves the record untouched.
		if tok.Kind == TokenBeginObject {
			d.root.SetPresent()
			d.ctx.push(newFrame(d.root, ""))
		} else {
			d.trace("root is not an object", zap.Stringer("token", tok.Kind))
			d.done = true
		}
		return
	}
	switch tok.Kind {
	case TokenKey:
		d.key(f, tok.String)
	case TokenBool, TokenNumber, TokenString:
		d.scalar(f, tok)
	case TokenNull:
		d.null(f)
	case TokenBeginObject:
		d.beginObject(f)
	case TokenEndObject:
		d.endObject(f)
	case TokenBeginArray:
		d.beginArray(f)
	case TokenEndArray:
		d.endArray(f)
	}
}

func (d *decoder) key(f *decodeFrame, key string) {
	if f.skip > 0 {
		return
	}
	if f.coll == inMap {
		d.ctx.lastKey = key
		return
	}
	if f.full() {
		if len(d.ctx.stack) == 1 {
			d.trace("record fully bound, stopping", zap.String("key", key))
			d.done = true
			return
		}
		// The rest of this object is absorbed by the parent, and its keys
		// bind against the parent record.
		child := d.ctx.pop()
		f = d.ctx.top()
		f.pending += 1 + child.pending
		if f.coll != noCollection {
			d.ctx.resolveElem(f)
		}
		d.trace("record fully bound, continuing in parent",
			zap.String("path", child.path), zap.String("key", key))
	}
	i, ok := f.rec.Type().Base().FieldIndex(key)
	if !ok {
		f.cursor = noCursor
		d.trace("dropped key: no such attribute", zap.String("path", f.path), zap.String("key", key))
		return
	}
	if _, dup := f.bound[key]; dup {
		f.cursor = noCursor
		d.trace("dropped key: duplicate", zap.String("path", f.path), zap.String("key", key))
		return
	}
	f.bound[key] = struct{}{}
	f.cursor = i
}

func (d *decoder) dropValue(f *decodeFrame, tok Token, reason string) {
	if !d.debug {
		return
	}
	d.trace("dropped value: "+reason,
		zap.String("path", f.attrPath()),
		zap.Stringer("token", tok.Kind),
		zap.String("text", tokenText(tok)))
}

func (d *decoder) scalar(f *decodeFrame, tok Token) {
	attr := f.attr()
	if f.skip > 0 || attr == nil {
		d.dropValue(f, tok, "not matched")
		return
	}
	if f.coll == noCollection {
		if !bindScalar(attr, tok, d.ts) {
			d.dropValue(f, tok, "type mismatch")
		}
		return
	}
	coll := d.ctx.collection(f)
	if coll == nil {
		d.dropValue(f, tok, "attribute is not the open collection")
		return
	}
	e := value.New(d.ctx.elem.typ)
	if !bindScalar(e, tok, d.ts) {
		d.dropValue(f, tok, "element type mismatch")
		return
	}
	if !d.insert(f, coll, e) {
		d.dropValue(f, tok, "collection refused element")
	}
}

// insert adds e to the open collection coll.
func (d *decoder) insert(f *decodeFrame, coll, e *value.Value) bool {
	if f.coll == inMap {
		return coll.PutString(d.ctx.lastKey, e)
	}
	return coll.Append(e)
}

func (d *decoder) null(f *decodeFrame) {
	attr := f.attr()
	if f.skip > 0 || attr == nil {
		return
	}
	if f.coll == noCollection {
		attr.SetNull()
		return
	}
	coll := d.ctx.collection(f)
	if coll == nil || !d.ctx.elem.optional || coll.Kind().IsSet() {
		d.dropValue(f, Token{Kind: TokenNull}, "null element")
		return
	}
	d.insert(f, coll, value.New(d.ctx.elem.typ))
}

func (d *decoder) beginObject(f *decodeFrame) {
	if f.skip > 0 {
		f.skip++
		return
	}
	attr := f.attr()
	if attr == nil {
		f.pending++
		return
	}
	if f.coll != noCollection {
		d.beginElementObject(f)
		return
	}
	base := attr.Type().Base()
	switch {
	case base.Kind() == value.KindRecord:
		attr.SetPresent()
		d.ctx.push(newFrame(attr, f.attrPath()))
	case base.Kind().IsMap() && base.Key().Kind().IsStringLike():
		attr.SetPresent()
		f.coll = inMap
		d.ctx.resolveElem(f)
	default:
		d.trace("dropped object: attribute is not a record or string-keyed map",
			zap.String("path", f.attrPath()), zap.Stringer("type", attr.Type()))
		f.cursor = noCursor
		f.pending++
	}
}

func (d *decoder) beginElementObject(f *decodeFrame) {
	coll := d.ctx.collection(f)
	if coll == nil || d.ctx.elem.base.Kind() != value.KindRecord {
		f.pending++
		return
	}
	var e *value.Value
	var path string
	switch {
	case f.coll == inMap:
		e = coll.PutNew(d.ctx.lastKey)
		path = f.attrPath() + "/" + engine.EscapePointerToken(d.ctx.lastKey)
	case coll.Kind().IsList():
		e = coll.AppendNew()
		path = f.attrPath() + "/" + strconv.Itoa(coll.Len()-1)
	}
	if e == nil {
		d.trace("dropped object: collection cannot take a record element",
			zap.String("path", f.attrPath()), zap.Stringer("type", coll.Type()))
		f.pending++
		return
	}
	e.SetPresent()
	d.ctx.push(newFrame(e, path))
}

func (d *decoder) endObject(f *decodeFrame) {
	switch {
	case f.skip > 0:
		f.skip--
	case f.coll == inMap:
		f.coll = noCollection
	case f.pending > 0:
		f.pending--
	default:
		d.ctx.pop()
		parent := d.ctx.top()
		if parent == nil {
			d.done = true
			return
		}
		if parent.coll != noCollection {
			d.ctx.resolveElem(parent)
		}
	}
}

func (d *decoder) beginArray(f *decodeFrame) {
	if f.skip > 0 || f.coll != noCollection {
		f.skip++
		return
	}
	attr := f.attr()
	if attr == nil {
		return
	}
	if k := attr.Kind(); k.IsList() || k.IsSet() {
		attr.SetPresent()
		f.coll = inList
		d.ctx.resolveElem(f)
		return
	}
	d.trace("dropped array: attribute is not a list or set",
		zap.String("path", f.attrPath()), zap.Stringer("type", attr.Type()))
	f.cursor = noCursor
}

func (d *decoder) endArray(f *decodeFrame) {
	if f.skip > 0 {
		f.skip--
		return
	}
	f.coll = noCollection
}

func tokenText(tok Token) string {
	switch tok.Kind {
	case TokenString:
		return tok.String
	case TokenNumber:
		return tok.Number
	case TokenBool:
		if tok.Bool {
			return "true"
		}
		return "false"
	}
	return tok.Kind.String()
}

package recjson

import (
	"github.com/reoring/recjson/internal/engine"
	"github.com/reoring/recjson/value"
)

const noCursor = -1

type collState uint8

const (
	noCollection collState = iota
	inList
	inMap
)

func (c collState) String() string {
	switch c {
	case inList:
		return "list"
	case inMap:
		return "map"
	}
	return "none"
}

// decodeFrame is the binding state of one open JSON object that maps to a
// record.
type decodeFrame struct {
	rec    *value.Value
	path   string // JSON Pointer of the object, for tracing
	cursor int    // targeted attribute, noCursor when the next value is dropped
	coll   collState

	// pending counts unmatched objects nested in this frame. Only object
	// ends consult it; keys inside them still bind against this frame.
	pending int
	// skip counts the containers of a subtree dropped inside an open
	// collection, such as an array nested in an array.
	skip int

	bound map[string]struct{}
}

func newFrame(rec *value.Value, path string) *decodeFrame {
	return &decodeFrame{rec: rec, path: path, cursor: noCursor, bound: make(map[string]struct{}, rec.NumField())}
}

func (f *decodeFrame) full() bool { return len(f.bound) >= f.rec.NumField() }

// attr returns the targeted attribute, or nil.
func (f *decodeFrame) attr() *value.Value {
	if f.cursor == noCursor {
		return nil
	}
	return f.rec.FieldAt(f.cursor)
}

func (f *decodeFrame) attrPath() string {
	if f.cursor == noCursor {
		return f.path
	}
	return f.path + "/" + engine.EscapePointerToken(f.rec.Type().Base().FieldAt(f.cursor).Name)
}

// elemScratch describes the element type of the open collection.
type elemScratch struct {
	typ      *value.Type // declared element type, optional wrapper included
	optional bool
	base     *value.Type
}

// decodeContext is the frame stack of one decode call plus the scratch
// slots of the open collection. The scratch is only meaningful while the top
// frame has an open collection.
type decodeContext struct {
	stack   []*decodeFrame
	lastKey string
	elem    elemScratch
}

func (c *decodeContext) top() *decodeFrame {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *decodeContext) push(f *decodeFrame) { c.stack = append(c.stack, f) }

func (c *decodeContext) pop() *decodeFrame {
	n := len(c.stack)
	f := c.stack[n-1]
	c.stack[n-1] = nil
	c.stack = c.stack[:n-1]
	return f
}

// elemType returns the declared element type of a list, set or
// string-keyed map, or nil for any other attribute.
func elemType(attr *value.Value) *value.Type {
	if attr == nil {
		return nil
	}
	t := attr.Type().Base()
	switch k := t.Kind(); {
	case k.IsList(), k.IsSet():
		return t.Elem()
	case k.IsMap() && t.Key().Kind().IsStringLike():
		return t.Val()
	}
	return nil
}

// resolveElem loads the element type of the collection targeted by f. The
// scratch is left alone when the cursor is not on a collection.
func (c *decodeContext) resolveElem(f *decodeFrame) {
	et := elemType(f.attr())
	if et == nil {
		return
	}
	c.elem = elemScratch{typ: et, optional: et.IsOptional(), base: et.Base()}
}

// collection returns the attribute that takes the elements of f's open
// collection. Keys read while a list is open move the cursor, so the
// targeted attribute must still match the collection state and scratch.
func (c *decodeContext) collection(f *decodeFrame) *value.Value {
	attr := f.attr()
	if attr == nil || c.elem.typ == nil || elemType(attr) != c.elem.typ {
		return nil
	}
	if (f.coll == inMap) != attr.Kind().IsMap() {
		return nil
	}
	return attr
}

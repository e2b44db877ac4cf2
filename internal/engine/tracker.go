package engine

// KeyTracker tells object keys apart from string values for tokenizers
// that report both as plain strings.
type KeyTracker struct {
	stack []trackFrame
}

type trackFrame struct {
	object       bool
	expectingKey bool
}

// Open records the start of an object or array.
func (t *KeyTracker) Open(object bool) {
	t.stack = append(t.stack, trackFrame{object: object, expectingKey: object})
}

// Close records the end of the innermost container, which completes a
// member value of its parent.
func (t *KeyTracker) Close() {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	t.valueDone()
}

// StringToken classifies a string token as a key or a value.
func (t *KeyTracker) StringToken() Kind {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	t.valueDone()
	return KindString
}

// Scalar records a non-string scalar value.
func (t *KeyTracker) Scalar() { t.valueDone() }

func (t *KeyTracker) valueDone() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.object {
			top.expectingKey = true
		}
	}
}

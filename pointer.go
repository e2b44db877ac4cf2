package recjson

import (
	"strings"
	"unicode/utf8"

	"github.com/go-openapi/jsonpointer"
)

// compilePointer validates a pointer path and compiles it. Plain paths use
// the JSON Pointer syntax ("" or "/a/0"); paths starting with '#' use the
// URI fragment representation with percent-encoding.
func compilePointer(path string) (jsonpointer.Pointer, Status) {
	var plain string
	var st Status
	if strings.HasPrefix(path, "#") {
		plain, st = fragmentToPointer(path[1:])
	} else {
		st = checkPointer(path)
		plain = path
	}
	if st != StatusOK {
		return jsonpointer.Pointer{}, st
	}
	p, err := jsonpointer.New(plain)
	if err != nil {
		return jsonpointer.Pointer{}, StatusPointerMissingSlash
	}
	return p, StatusOK
}

func checkPointer(path string) Status {
	if path == "" {
		return StatusOK
	}
	if path[0] != '/' {
		return StatusPointerMissingSlash
	}
	for i := 0; i < len(path); i++ {
		if path[i] != '~' {
			continue
		}
		if i+1 >= len(path) || (path[i+1] != '0' && path[i+1] != '1') {
			return StatusPointerInvalidEscape
		}
		i++
	}
	return StatusOK
}

// fragmentToPointer decodes the URI fragment form into a plain pointer.
// Percent-decoded '~' and '/' are literal and get escaped.
func fragmentToPointer(frag string) (string, Status) {
	if frag == "" {
		return "", StatusOK
	}
	if frag[0] != '/' {
		return "", StatusPointerMissingSlash
	}
	var b strings.Builder
	for i := 0; i < len(frag); i++ {
		c := frag[i]
		switch {
		case c == '%':
			if i+2 >= len(frag) || !isHex(frag[i+1]) || !isHex(frag[i+2]) {
				return "", StatusPointerInvalidPercentEncoding
			}
			d := unhex(frag[i+1])<<4 | unhex(frag[i+2])
			i += 2
			switch d {
			case '~':
				b.WriteString("~0")
			case '/':
				b.WriteString("~1")
			default:
				b.WriteByte(d)
			}
		case c == '~':
			if i+1 >= len(frag) || (frag[i+1] != '0' && frag[i+1] != '1') {
				return "", StatusPointerInvalidEscape
			}
			b.WriteByte(c)
			b.WriteByte(frag[i+1])
			i++
		case c == '/' || !needsPercentEncoding(c):
			b.WriteByte(c)
		default:
			return "", StatusPointerUnencodedCharacter
		}
	}
	out := b.String()
	if !utf8.ValidString(out) {
		return "", StatusPointerInvalidPercentEncoding
	}
	return out, StatusOK
}

// needsPercentEncoding reports whether c is outside the unreserved set of
// RFC 3986.
func needsPercentEncoding(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	case c == '-' || c == '.' || c == '_' || c == '~':
		return false
	}
	return true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}

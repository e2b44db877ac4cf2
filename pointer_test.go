package recjson

import "testing"

func TestFragmentToPointer(t *testing.T) {
	cases := []struct {
		in   string
		want string
		st   Status
	}{
		{"", "", StatusOK},
		{"/", "/", StatusOK},
		{"/a/0", "/a/0", StatusOK},
		{"/a%20b", "/a b", StatusOK},
		{"/a%2fb", "/a~1b", StatusOK},
		{"/a%7Eb", "/a~0b", StatusOK},
		{"/a~1b", "/a~1b", StatusOK},
		{"/%E3%81%82", "/あ", StatusOK},
		{"a", "", StatusPointerMissingSlash},
		{"/a~", "", StatusPointerInvalidEscape},
		{"/a%4", "", StatusPointerInvalidPercentEncoding},
		{"/a%g0", "", StatusPointerInvalidPercentEncoding},
		{"/%FF", "", StatusPointerInvalidPercentEncoding},
		{"/a?b", "", StatusPointerUnencodedCharacter},
		{"/a\"", "", StatusPointerUnencodedCharacter},
	}
	for _, tc := range cases {
		got, st := fragmentToPointer(tc.in)
		if got != tc.want || st != tc.st {
			t.Errorf("fragmentToPointer(%q) = %q %s, want %q %s", tc.in, got, st, tc.want, tc.st)
		}
	}
}

func TestCheckPointer(t *testing.T) {
	for in, want := range map[string]Status{
		"":        StatusOK,
		"/":       StatusOK,
		"/a~0~1":  StatusOK,
		"a/b":     StatusPointerMissingSlash,
		"/a~x":    StatusPointerInvalidEscape,
		"/a/b~":   StatusPointerInvalidEscape,
		"/a%20b":  StatusOK,
		"/a b/\"": StatusOK,
	} {
		if st := checkPointer(in); st != want {
			t.Errorf("checkPointer(%q) = %s, want %s", in, st, want)
		}
	}
}

func TestCompilePointer_Cached(t *testing.T) {
	d := NewDocument()
	if err := d.Parse([]byte(`{"a":[1]}`)); err != nil {
		t.Fatal(err)
	}
	d.QueryInt64("/a/0", 0)
	d.QueryInt64("#/a/0", 0)
	d.QueryInt64("bad", 0)
	if len(d.pointers) != 3 {
		t.Fatalf("expected 3 cached pointers, got %d", len(d.pointers))
	}
	if cp := d.pointers["bad"]; cp.st != StatusPointerMissingSlash {
		t.Fatalf("cached status %s", cp.st)
	}
}

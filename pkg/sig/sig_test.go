package sig

import (
	"bytes"
	"testing"
)

func TestParseTokens(t *testing.T) {
	p, err := Parse("F3 0F 11 05 ?? ?? ?? ??", 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Len() != 8 {
		t.Fatalf("len = %d, want 8", p.Len())
	}
	if got := p.String(); got != "F3 0F 11 05 ?? ?? ?? ??" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"odd_token", "F"},
		{"long_token", "F3A"},
		{"not_hex", "GZ"},
		{"half_wildcard", "?F"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.in, 0); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tc.in)
			}
		})
	}
}

func TestFindFirstMatch(t *testing.T) {
	p := MustParse("AA ?? CC", 0)
	buf := []byte{0x00, 0xAA, 0x11, 0xCC, 0xAA, 0x22, 0xCC}

	off, ok := p.Find(buf)
	if !ok {
		t.Fatalf("expected match")
	}
	if off != 1 {
		t.Fatalf("off = %d, want first occurrence at 1", off)
	}
}

func TestFindDeterministic(t *testing.T) {
	p := MustParse("76 ?? F3 0F 59 05", 2)
	buf := append(bytes.Repeat([]byte{0x90}, 100), 0x76, 0x12, 0xF3, 0x0F, 0x59, 0x05)

	first, ok := p.Find(buf)
	if !ok {
		t.Fatalf("expected match")
	}
	for i := 0; i < 10; i++ {
		off, ok := p.Find(buf)
		if !ok || off != first {
			t.Fatalf("run %d: got (%d, %v), want (%d, true)", i, off, ok, first)
		}
	}
	if first != 100+2 {
		t.Fatalf("off = %d, want match at 100 plus adjustment 2", first)
	}
}

func TestWildcardMatchesAnyByte(t *testing.T) {
	p := MustParse("?? ??", 0)
	for _, b := range []byte{0x00, 0x7F, 0xFF} {
		if _, ok := p.Find([]byte{b, b}); !ok {
			t.Fatalf("wildcard failed to match %#x", b)
		}
	}
}

func TestPatternLongerThanWindow(t *testing.T) {
	p := MustParse("AA BB CC DD", 0)
	if _, ok := p.Find([]byte{0xAA, 0xBB, 0xCC}); ok {
		t.Fatalf("pattern longer than buffer must not match")
	}
	if _, ok := p.Find(nil); ok {
		t.Fatalf("empty buffer must not match")
	}
}

func TestNoMatch(t *testing.T) {
	p := MustParse("DE AD BE EF", 0)
	if _, ok := p.Find(bytes.Repeat([]byte{0x00}, 64)); ok {
		t.Fatalf("unexpected match")
	}
}

func TestFindAll(t *testing.T) {
	p := MustParse("AA ?? CC", 1)
	buf := []byte{0xAA, 0x11, 0xCC, 0x00, 0xAA, 0x22, 0xCC, 0xAA, 0x33, 0xCC}

	got := p.FindAll(buf, 0)
	want := []int{1, 5, 8}
	if len(got) != len(want) {
		t.Fatalf("offsets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", got, want)
		}
	}

	if got := p.FindAll(buf, 2); len(got) != 2 {
		t.Fatalf("capped scan returned %d offsets, want 2", len(got))
	}
	if got := p.FindAll(nil, 0); got != nil {
		t.Fatalf("empty buffer returned %v", got)
	}
}

func TestMatchBytesMatchesSelf(t *testing.T) {
	p := MustParse("F3 0F 6F 00 F3 0F 7F 41 0C", 0)
	off, ok := p.Find(p.MatchBytes())
	if !ok || off != 0 {
		t.Fatalf("pattern does not match its own concrete bytes: (%d, %v)", off, ok)
	}
}

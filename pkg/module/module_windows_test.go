//go:build windows

package module

import (
	"strings"
	"testing"
)

func TestCurrentResolvesSelf(t *testing.T) {
	m, err := Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if m.Base == 0 {
		t.Fatalf("base is zero")
	}
	if m.Size == 0 {
		t.Fatalf("size is zero")
	}
	if !strings.HasSuffix(strings.ToLower(m.Name), ".exe") {
		t.Fatalf("name = %q, want an .exe", m.Name)
	}
}

func TestBytesStartWithDOSHeader(t *testing.T) {
	m, err := Current()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	b := m.Bytes()
	if len(b) != int(m.Size) {
		t.Fatalf("len = %d, want %d", len(b), m.Size)
	}
	if b[0] != 'M' || b[1] != 'Z' {
		t.Fatalf("image does not start with MZ: % X", b[:2])
	}
}

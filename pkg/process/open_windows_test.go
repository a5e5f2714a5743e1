//go:build windows

package process

import (
	"os"
	"testing"
)

func TestOpenSelf(t *testing.T) {
	p, err := Open(uint32(os.Getpid()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if p.Handle == 0 {
		t.Fatalf("open returned a zero handle")
	}
	if p.PID != uint32(os.Getpid()) {
		t.Fatalf("pid = %d, want %d", p.PID, os.Getpid())
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCloseNilSafe(t *testing.T) {
	var p *Process
	if err := p.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

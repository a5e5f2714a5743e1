//go:build windows

package process

import (
	"os"
	"testing"

	"golang.org/x/sys/windows"
)

// selfReader opens the test binary's own process, the one scan target that is
// always present.
func selfReader(t *testing.T) *Process {
	t.Helper()
	p, err := Open(uint32(os.Getpid()))
	if err != nil {
		t.Fatalf("open own process: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// allocScratch commits a fresh read-write region for planting scan targets.
func allocScratch(t *testing.T, size uintptr) uintptr {
	t.Helper()
	base, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil || base == 0 {
		t.Fatalf("commit scratch region: %v", err)
	}
	t.Cleanup(func() { _ = windows.VirtualFree(base, 0, windows.MEM_RELEASE) })
	return base
}

func hasAddress(addrs []uintptr, want uintptr) bool {
	for _, a := range addrs {
		if a == want {
			return true
		}
	}
	return false
}

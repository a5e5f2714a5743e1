//go:build windows

package hook

import (
	"bytes"
	"testing"
	"unsafe"

	"golang.org/x/sys/windows"
)

func allocExec(t *testing.T, code []byte) uintptr {
	t.Helper()
	addr, err := windows.VirtualAlloc(0, 4096,
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil || addr == 0 {
		t.Fatalf("VirtualAlloc: %v", err)
	}
	t.Cleanup(func() { _ = windows.VirtualFree(addr, 0, windows.MEM_RELEASE) })
	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(code)), code)
	flushICache(addr, len(code))
	return addr
}

func readSite(addr uintptr, n int) []byte {
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(addr)), n))
	return out
}

// A long run of single-byte nops decodes the same in both modes, so the
// install path works on either test platform.
var nopSled = bytes.Repeat([]byte{0x90}, 16)

func TestInstallRejectsBadAddresses(t *testing.T) {
	if _, err := Install(0, func(Context) {}); err != ErrBadAddress {
		t.Fatalf("Install(0) = %v, want ErrBadAddress", err)
	}

	data, err := windows.VirtualAlloc(0, 4096,
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		t.Fatalf("VirtualAlloc: %v", err)
	}
	t.Cleanup(func() { _ = windows.VirtualFree(data, 0, windows.MEM_RELEASE) })
	if _, err := Install(data, func(Context) {}); err != ErrNotExecutable {
		t.Fatalf("Install on PAGE_READWRITE = %v, want ErrNotExecutable", err)
	}
}

func TestInstallPatchesAndRestores(t *testing.T) {
	site := allocExec(t, nopSled)
	before := readSite(site, len(nopSled))

	h, err := Install(site, func(Context) {})
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if !h.Enabled() {
		t.Fatalf("hook not enabled after install")
	}
	if got := readSite(site, 1); got[0] != 0xE9 {
		t.Fatalf("site does not start with JMP rel32: %#x", got[0])
	}

	if err := h.Disable(); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got := readSite(site, len(nopSled)); !bytes.Equal(got, before) {
		t.Fatalf("disable did not restore the original bytes:\n got % X\nwant % X", got, before)
	}

	if err := h.Enable(); err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	if got := readSite(site, 1); got[0] != 0xE9 {
		t.Fatalf("re-enable did not reapply the patch")
	}
	if err := h.Disable(); err != nil {
		t.Fatalf("disable: %v", err)
	}
}

func TestInstallRejectsDoubleHook(t *testing.T) {
	site := allocExec(t, nopSled)

	h, err := Install(site, func(Context) {})
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	defer h.Disable()

	if _, err := Install(site, func(Context) {}); err != ErrAlreadyHooked {
		t.Fatalf("second install = %v, want ErrAlreadyHooked", err)
	}
}

func TestInstallOnCallSite(t *testing.T) {
	// A site whose first instruction is CALL rel32, like the width-adjust
	// signature resolves to. The call must be displaced into the stub with
	// its displacement rebased, not rejected.
	code := append([]byte{0xE8, 0x20, 0x00, 0x00, 0x00}, nopSled...)
	site := allocExec(t, code)
	before := readSite(site, len(code))

	h, err := Install(site, func(Context) {})
	if err != nil {
		t.Fatalf("install on call site: %v", err)
	}
	if got := readSite(site, 1); got[0] != 0xE9 {
		t.Fatalf("site does not start with JMP rel32: %#x", got[0])
	}

	if err := h.Disable(); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got := readSite(site, len(code)); !bytes.Equal(got, before) {
		t.Fatalf("disable did not restore the original bytes:\n got % X\nwant % X", got, before)
	}
}

func TestInstallRejectsShortJumpPrologue(t *testing.T) {
	// je rel8 at the site has no rel32 displacement to rebase.
	code := append([]byte{0x74, 0x03}, nopSled...)
	site := allocExec(t, code)

	if _, err := Install(site, func(Context) {}); err != ErrRelativeInstruction {
		t.Fatalf("install = %v, want ErrRelativeInstruction", err)
	}
}

func TestProcAddress(t *testing.T) {
	addr, err := ProcAddress("kernelbase.dll", "ReadFile")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if addr == 0 {
		t.Fatalf("resolved address is zero")
	}

	if _, err := ProcAddress("kernelbase.dll", "NoSuchExportEver"); err == nil {
		t.Fatalf("expected an error for a missing export")
	}
}

//go:build windows

package hook

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// relayOffset places the far-jump relay past the trampoline inside the same
// executable allocation. A trampoline never grows near this size.
const relayOffset = 128

// Detour replaces a whole function while keeping the original callable
// through a trampoline: the displaced prologue followed by a jump to the
// remainder of the function.
type Detour struct {
	target     uintptr
	trampoline uintptr
	original   []byte
	patch      []byte
	enabled    bool
}

// InstallDetour prepares a redirection of target to replacement. replacement
// must follow the platform calling convention of target (use
// windows.NewCallback for a Go function) and may call the original through
// Original. The returned detour is disabled: read Original first, then call
// Enable, so a replacement that delegates never observes a zero trampoline.
func InstallDetour(target, replacement uintptr) (*Detour, error) {
	if target == 0 || replacement == 0 {
		return nil, ErrBadAddress
	}

	installMu.Lock()
	defer installMu.Unlock()
	if installed[target] {
		return nil, ErrAlreadyHooked
	}
	if err := checkExecutable(target); err != nil {
		return nil, err
	}

	code := unsafe.Slice((*byte)(unsafe.Pointer(target)), maxPeek)
	st, err := stealInstructions(code, disasmMode, patchLen)
	if err != nil {
		return nil, err
	}
	n := len(st.code)

	trampAddr, err := allocStub(target)
	if err != nil {
		return nil, err
	}
	tramp := append([]byte{}, st.code...)
	if err := rebaseStolen(tramp, st.relocs, target, trampAddr); err != nil {
		windows.VirtualFree(trampAddr, 0, windows.MEM_RELEASE)
		return nil, err
	}
	tramp = append(tramp, jmpRel32(trampAddr+uintptr(n), target+uintptr(n))...)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(trampAddr)), len(tramp)), tramp)
	flushICache(trampAddr, len(tramp))

	// The replacement (a Go callback) may live outside rel32 range of a
	// system DLL; route the patch through an absolute-jump relay in the
	// trampoline's allocation when it does.
	jumpTo := replacement
	if !reachable(target, replacement) {
		relayAddr := trampAddr + relayOffset
		relay := buildAbsJump(replacement)
		copy(unsafe.Slice((*byte)(unsafe.Pointer(relayAddr)), len(relay)), relay)
		flushICache(relayAddr, len(relay))
		jumpTo = relayAddr
	}
	patch := jmpRel32(target, jumpTo)
	for len(patch) < n {
		patch = append(patch, 0x90)
	}

	installed[target] = true
	return &Detour{
		target:     target,
		trampoline: trampAddr,
		original:   st.code,
		patch:      patch,
	}, nil
}

// Original returns the trampoline address; calling it behaves like the
// unpatched target.
func (d *Detour) Original() uintptr { return d.trampoline }

// Enable writes the jump patch over the target prologue.
func (d *Detour) Enable() error {
	if d.enabled {
		return nil
	}
	if err := writeCode(d.target, d.patch); err != nil {
		return err
	}
	d.enabled = true
	return nil
}

// Disable restores the original prologue bytes.
func (d *Detour) Disable() error {
	if !d.enabled {
		return nil
	}
	if err := writeCode(d.target, d.original); err != nil {
		return err
	}
	d.enabled = false
	return nil
}

// Enabled reports whether the jump patch is currently in place.
func (d *Detour) Enabled() bool { return d.enabled }

// ProcAddress resolves an export by module and function name from a system
// library. Exports in system libraries have stable symbols, unlike the
// game's own code which must be found by signature.
func ProcAddress(dll, proc string) (uintptr, error) {
	p := windows.NewLazySystemDLL(dll).NewProc(proc)
	if err := p.Find(); err != nil {
		return 0, errors.Wrapf(err, "hook: resolve %s!%s", dll, proc)
	}
	return p.Addr(), nil
}

//go:build windows

package hook

import (
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var procFlushInstructionCache = windows.NewLazySystemDLL("kernel32.dll").NewProc("FlushInstructionCache")

// Each installed site is exclusively owned by its one callback; the registry
// rejects a second install at the same address. Installation is the only
// synchronized path; once a hook is live the host drives it.
var (
	installMu sync.Mutex
	installed = map[uintptr]bool{}
)

// Hook couples a resolved site with its installed state and callback. It
// lives for the remainder of the process; there is no uninstall path beyond
// Disable restoring the original bytes.
type Hook struct {
	site     uintptr
	stub     uintptr
	original []byte
	patch    []byte
	enabled  bool
}

// Install places a mid-function hook at addr. On every execution reaching
// addr the callback runs synchronously with a view of the interrupted
// registers before the displaced instructions and the rest of the original
// flow resume. The returned hook is already enabled.
func Install(addr uintptr, cb Callback) (*Hook, error) {
	if addr == 0 {
		return nil, ErrBadAddress
	}

	installMu.Lock()
	defer installMu.Unlock()
	if installed[addr] {
		return nil, ErrAlreadyHooked
	}
	if err := checkExecutable(addr); err != nil {
		return nil, err
	}

	code := unsafe.Slice((*byte)(unsafe.Pointer(addr)), maxPeek)
	st, err := stealInstructions(code, disasmMode, patchLen)
	if err != nil {
		return nil, err
	}
	n := len(st.code)

	cbPtr := windows.NewCallback(func(block uintptr) uintptr {
		cb(newContext(block))
		return 0
	})

	stubAddr, err := allocStub(addr)
	if err != nil {
		return nil, err
	}
	stub, err := buildDispatch(cbPtr, st, stubAddr, addr)
	if err != nil {
		windows.VirtualFree(stubAddr, 0, windows.MEM_RELEASE)
		return nil, err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(stubAddr)), len(stub)), stub)
	flushICache(stubAddr, len(stub))

	patch := jmpRel32(addr, stubAddr)
	for len(patch) < n {
		patch = append(patch, 0x90) // nop out the tail of the stolen window
	}

	h := &Hook{
		site:     addr,
		stub:     stubAddr,
		original: st.code,
		patch:    patch,
	}
	if err := h.Enable(); err != nil {
		return nil, err
	}
	installed[addr] = true
	return h, nil
}

// Enable writes the jump patch over the site.
func (h *Hook) Enable() error {
	if h.enabled {
		return nil
	}
	if err := writeCode(h.site, h.patch); err != nil {
		return err
	}
	h.enabled = true
	return nil
}

// Disable restores the original bytes so the host behaves as if unpatched.
func (h *Hook) Disable() error {
	if !h.enabled {
		return nil
	}
	if err := writeCode(h.site, h.original); err != nil {
		return err
	}
	h.enabled = false
	return nil
}

// Enabled reports whether the jump patch is currently in place.
func (h *Hook) Enabled() bool { return h.enabled }

// Site returns the hooked address.
func (h *Hook) Site() uintptr { return h.site }

func checkExecutable(addr uintptr) error {
	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQueryEx(windows.CurrentProcess(), addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
		return errors.Wrap(ErrBadAddress, err.Error())
	}
	if mbi.State != windows.MEM_COMMIT {
		return ErrBadAddress
	}
	switch mbi.Protect & 0xFF {
	case windows.PAGE_EXECUTE,
		windows.PAGE_EXECUTE_READ,
		windows.PAGE_EXECUTE_READWRITE,
		windows.PAGE_EXECUTE_WRITECOPY:
		return nil
	default:
		return ErrNotExecutable
	}
}

// writeCode copies data over live code, briefly lifting the page protection.
func writeCode(addr uintptr, data []byte) error {
	var old uint32
	if err := windows.VirtualProtect(addr, uintptr(len(data)), windows.PAGE_EXECUTE_READWRITE, &old); err != nil {
		return errors.Wrap(err, "hook: unprotect")
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(data)), data)
	var tmp uint32
	if err := windows.VirtualProtect(addr, uintptr(len(data)), old, &tmp); err != nil {
		return errors.Wrap(err, "hook: reprotect")
	}
	flushICache(addr, len(data))
	return nil
}

func flushICache(addr uintptr, size int) {
	procFlushInstructionCache.Call(uintptr(windows.CurrentProcess()), addr, uintptr(size))
}

const stubAlloc = 512

// allocStub reserves executable memory for a dispatch stub or trampoline,
// preferring pages within rel32 range of site so the 5-byte patch works.
func allocStub(site uintptr) (uintptr, error) {
	const step = uintptr(1 << 20)
	// Probe outward from the site in 1MiB strides. The hint is only a hint;
	// every grant is verified for reachability.
	for i := uintptr(1); i <= 0x7FF; i++ {
		for _, hint := range []uintptr{site + i*step, site - i*step} {
			if hint == 0 || hint > site && hint-site > 0x7FFF0000 || site > hint && site-hint > 0x7FFF0000 {
				continue
			}
			addr, err := windows.VirtualAlloc(hint, stubAlloc,
				windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
			if err != nil || addr == 0 {
				continue
			}
			if reachable(addr, site) && reachable(site, addr) {
				return addr, nil
			}
			windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		}
	}
	// Last resort: let the allocator choose and hope it lands close enough.
	addr, err := windows.VirtualAlloc(0, stubAlloc,
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil || addr == 0 {
		return 0, errors.Wrap(err, "hook: VirtualAlloc")
	}
	if !reachable(addr, site) || !reachable(site, addr) {
		windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
		return 0, ErrStubUnreachable
	}
	return addr, nil
}

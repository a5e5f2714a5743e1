//go:build 386

package hook

import "unsafe"

const disasmMode = 32

func buildDispatch(callback uintptr, st stolen, stubAddr, site uintptr) ([]byte, error) {
	return buildDispatch32(callback, st, stubAddr, site), nil
}

// rebaseStolen shifts rel32 displacements for a stolen run moved from oldAddr
// to newAddr. Wraps mod 2^32, so it cannot fail on 386.
func rebaseStolen(code []byte, relocs []int, oldAddr, newAddr uintptr) error {
	for _, off := range relocs {
		rebaseRel32(code, off, oldAddr, newAddr)
	}
	return nil
}

func newContext(block uintptr) Context {
	return (*cpu32)(unsafe.Pointer(block))
}

// reachable is always true on 386: EIP arithmetic wraps mod 2^32, so any
// address is reachable with a rel32 jump.
func reachable(from, to uintptr) bool { return true }

func buildAbsJump(to uintptr) []byte {
	var b []byte
	b = append(b, 0xB8) // mov eax, to
	b = le32(b, uint32(to))
	b = append(b, 0xFF, 0xE0) // jmp eax
	return b
}

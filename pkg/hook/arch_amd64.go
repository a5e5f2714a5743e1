//go:build amd64

package hook

import "unsafe"

const disasmMode = 64

func buildDispatch(callback uintptr, st stolen, stubAddr, site uintptr) ([]byte, error) {
	return buildDispatch64(callback, st, stubAddr, site)
}

// rebaseStolen shifts rel32 displacements for a stolen run moved from oldAddr
// to newAddr, failing if any falls out of rel32 range.
func rebaseStolen(code []byte, relocs []int, oldAddr, newAddr uintptr) error {
	for _, off := range relocs {
		if err := rebaseRel32Checked(code, off, oldAddr, newAddr); err != nil {
			return err
		}
	}
	return nil
}

func newContext(block uintptr) Context {
	return (*cpu64)(unsafe.Pointer(block))
}

// reachable reports whether to fits in a rel32 displacement from from.
func reachable(from, to uintptr) bool { return within32(from, to) }

func buildAbsJump(to uintptr) []byte {
	var b []byte
	b = append(b, 0x48, 0xB8) // mov rax, to
	b = le64(b, uint64(to))
	b = append(b, 0xFF, 0xE0) // jmp rax
	return b
}

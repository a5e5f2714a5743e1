package hook

import (
	"encoding/binary"
	"math"
)

// The dispatch stubs are assembled by hand the way the patch window is: as
// byte sequences. Both follow the same shape: save flags and general
// registers, spill the XMM registers below them, call the Go callback with a
// pointer to that block, reload everything, replay the stolen instructions
// and jump back to the site.

// jmpRel32 encodes JMP rel32 located at from, targeting to.
func jmpRel32(from, to uintptr) []byte {
	b := make([]byte, patchLen)
	b[0] = 0xE9
	binary.LittleEndian.PutUint32(b[1:], uint32(int32(int64(to)-int64(from)-patchLen)))
	return b
}

// within32 reports whether to is reachable from from with a rel32 operand.
func within32(from, to uintptr) bool {
	d := int64(to) - int64(from)
	return d >= math.MinInt32 && d <= math.MaxInt32
}

// rebaseRel32 rewrites the rel32 displacement at off so the branch keeps its
// absolute target after the enclosing code block moves from oldAddr to
// newAddr. Arithmetic wraps mod 2^32 the way EIP does on 386.
func rebaseRel32(code []byte, off int, oldAddr, newAddr uintptr) {
	d := binary.LittleEndian.Uint32(code[off:])
	binary.LittleEndian.PutUint32(code[off:], d+uint32(oldAddr)-uint32(newAddr))
}

// rebaseRel32Checked is the 64-bit form: RIP does not wrap, so the rebased
// displacement must still fit in rel32.
func rebaseRel32Checked(code []byte, off int, oldAddr, newAddr uintptr) error {
	d := int64(int32(binary.LittleEndian.Uint32(code[off:])))
	nd := d + int64(oldAddr) - int64(newAddr)
	if nd < math.MinInt32 || nd > math.MaxInt32 {
		return ErrStubUnreachable
	}
	binary.LittleEndian.PutUint32(code[off:], uint32(nd))
	return nil
}

func le32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func le64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

// movupsSP encodes MOVUPS between xmm r and [esp/rsp+disp]. op is 0x11 for a
// store and 0x10 for a load. Registers 8-15 take a REX.R prefix (amd64 only).
func movupsSP(op byte, r, disp int) []byte {
	var b []byte
	reg := r
	if r >= 8 {
		b = append(b, 0x44) // REX.R
		reg = r - 8
	}
	b = append(b, 0x0F, op)
	switch {
	case disp == 0:
		b = append(b, byte(0x04|reg<<3), 0x24)
	case disp < 0x80:
		b = append(b, byte(0x44|reg<<3), 0x24, byte(disp))
	default:
		b = append(b, byte(0x84|reg<<3), 0x24)
		b = le32(b, uint32(disp))
	}
	return b
}

// buildDispatch32 assembles the 386 dispatch stub for a hook at site. The
// context block layout must stay in lockstep with cpu32. Rel32 displacements
// in the stolen run are rebased to their copy position inside the stub.
func buildDispatch32(callback uintptr, st stolen, stubAddr, site uintptr) []byte {
	var b []byte
	b = append(b, 0x9C)                                   // pushfd
	b = append(b, 0x60)                                   // pushad
	b = append(b, 0x81, 0xEC, 0x80, 0x00, 0x00, 0x00)     // sub esp, 0x80
	for r := 0; r < 8; r++ {                              // movups [esp+16r], xmmN
		b = append(b, movupsSP(0x11, r, r*16)...)
	}
	b = append(b, 0x54)                                   // push esp (context arg)
	b = append(b, 0xB8)                                   // mov eax, callback
	b = le32(b, uint32(callback))
	b = append(b, 0xFF, 0xD0)                             // call eax (stdcall pops arg)
	for r := 0; r < 8; r++ {                              // movups xmmN, [esp+16r]
		b = append(b, movupsSP(0x10, r, r*16)...)
	}
	b = append(b, 0x81, 0xC4, 0x80, 0x00, 0x00, 0x00)     // add esp, 0x80
	b = append(b, 0x61)                                   // popad
	b = append(b, 0x9D)                                   // popfd
	pos := len(b)
	b = append(b, st.code...)                             // displaced instructions
	for _, off := range st.relocs {
		rebaseRel32(b, pos+off, site, stubAddr+uintptr(pos))
	}
	b = append(b, jmpRel32(stubAddr+uintptr(len(b)), site+uintptr(len(st.code)))...)
	return b
}

// buildDispatch64 assembles the amd64 dispatch stub for a hook at site. The
// context block layout must stay in lockstep with cpu64. The stack is
// realigned before the call because a mid-function site leaves it at an
// arbitrary alignment. Fails if a rebased displacement falls out of rel32
// range.
func buildDispatch64(callback uintptr, st stolen, stubAddr, site uintptr) ([]byte, error) {
	var b []byte
	b = append(b, 0x9C)                                   // pushfq
	b = append(b, 0x50, 0x51, 0x52, 0x53, 0x55, 0x56, 0x57) // push rax,rcx,rdx,rbx,rbp,rsi,rdi
	for r := 0; r < 8; r++ {                              // push r8..r15
		b = append(b, 0x41, byte(0x50+r))
	}
	b = append(b, 0x48, 0x81, 0xEC, 0x00, 0x01, 0x00, 0x00) // sub rsp, 0x100
	for r := 0; r < 16; r++ {                             // movups [rsp+16r], xmmN
		b = append(b, movupsSP(0x11, r, r*16)...)
	}
	b = append(b, 0x48, 0x89, 0xE1)                       // mov rcx, rsp (context arg)
	b = append(b, 0x48, 0x89, 0xE3)                       // mov rbx, rsp (saved below, restored by pop)
	b = append(b, 0x48, 0x83, 0xE4, 0xF0)                 // and rsp, -16
	b = append(b, 0x48, 0x83, 0xEC, 0x20)                 // sub rsp, 0x20 (shadow space)
	b = append(b, 0x48, 0xB8)                             // mov rax, callback
	b = le64(b, uint64(callback))
	b = append(b, 0xFF, 0xD0)                             // call rax
	b = append(b, 0x48, 0x89, 0xDC)                       // mov rsp, rbx
	for r := 0; r < 16; r++ {                             // movups xmmN, [rsp+16r]
		b = append(b, movupsSP(0x10, r, r*16)...)
	}
	b = append(b, 0x48, 0x81, 0xC4, 0x00, 0x01, 0x00, 0x00) // add rsp, 0x100
	for r := 7; r >= 0; r-- {                             // pop r15..r8
		b = append(b, 0x41, byte(0x58+r))
	}
	b = append(b, 0x5F, 0x5E, 0x5D, 0x5B, 0x5A, 0x59, 0x58) // pop rdi,rsi,rbp,rbx,rdx,rcx,rax
	b = append(b, 0x9D)                                   // popfq
	pos := len(b)
	b = append(b, st.code...)                             // displaced instructions
	for _, off := range st.relocs {
		if err := rebaseRel32Checked(b, pos+off, site, stubAddr+uintptr(pos)); err != nil {
			return nil, err
		}
	}
	b = append(b, jmpRel32(stubAddr+uintptr(len(b)), site+uintptr(len(st.code)))...)
	return b, nil
}

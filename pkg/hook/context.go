package hook

import (
	"math"
	"runtime/debug"
	"unsafe"
)

// cpu32 mirrors the context block the 386 dispatch stub builds on the
// interrupted thread's stack: pushfd, pushad, then eight saved XMM registers
// below them. Field order is the stub's memory layout, lowest address first.
type cpu32 struct {
	xmm    [8][4]uint32
	edi    uint32
	esi    uint32
	ebp    uint32
	esp    uint32
	ebx    uint32
	edx    uint32
	ecx    uint32
	eax    uint32
	eflags uint32
}

func (c *cpu32) gpSlot(r GP) *uint32 {
	switch r {
	case RegAX:
		return &c.eax
	case RegCX:
		return &c.ecx
	case RegDX:
		return &c.edx
	case RegBX:
		return &c.ebx
	case RegBP:
		return &c.ebp
	case RegSI:
		return &c.esi
	case RegDI:
		return &c.edi
	default:
		return nil
	}
}

func (c *cpu32) GP(r GP) uintptr {
	if r == RegSP {
		// pushad runs after pushfd, so the saved esp sits one slot below
		// the interrupted stack top.
		return uintptr(c.esp) + 4
	}
	if s := c.gpSlot(r); s != nil {
		return uintptr(*s)
	}
	return 0
}

func (c *cpu32) SetGP(r GP, v uintptr) {
	if s := c.gpSlot(r); s != nil {
		*s = uint32(v)
	}
}

func (c *cpu32) FloatLane(r XMM, lane int) float32 {
	if int(r) >= len(c.xmm) || lane < 0 || lane > 3 {
		return 0
	}
	return math.Float32frombits(c.xmm[r][lane])
}

func (c *cpu32) SetFloatLane(r XMM, lane int, v float32) {
	if int(r) >= len(c.xmm) || lane < 0 || lane > 3 {
		return
	}
	c.xmm[r][lane] = math.Float32bits(v)
}

func (c *cpu32) ReadUint32(base GP, off uintptr) (uint32, error) {
	return readUint32(c.GP(base) + off)
}

func (c *cpu32) WriteFloat32(base GP, off uintptr, v float32) error {
	return writeUint32(c.GP(base)+off, math.Float32bits(v))
}

// cpu64 mirrors the amd64 dispatch stub's context block: pushfq, the sixteen
// general-purpose registers pushed rax-first, then sixteen saved XMM
// registers below them.
type cpu64 struct {
	xmm    [16][4]uint32
	r15    uint64
	r14    uint64
	r13    uint64
	r12    uint64
	r11    uint64
	r10    uint64
	r9     uint64
	r8     uint64
	rdi    uint64
	rsi    uint64
	rbp    uint64
	rbx    uint64
	rdx    uint64
	rcx    uint64
	rax    uint64
	rflags uint64
}

func (c *cpu64) gpSlot(r GP) *uint64 {
	switch r {
	case RegAX:
		return &c.rax
	case RegCX:
		return &c.rcx
	case RegDX:
		return &c.rdx
	case RegBX:
		return &c.rbx
	case RegBP:
		return &c.rbp
	case RegSI:
		return &c.rsi
	case RegDI:
		return &c.rdi
	case Reg8:
		return &c.r8
	case Reg9:
		return &c.r9
	case Reg10:
		return &c.r10
	case Reg11:
		return &c.r11
	case Reg12:
		return &c.r12
	case Reg13:
		return &c.r13
	case Reg14:
		return &c.r14
	case Reg15:
		return &c.r15
	default:
		return nil
	}
}

func (c *cpu64) GP(r GP) uintptr {
	if r == RegSP {
		// rsp is not in the block; the interrupted stack top sits right
		// above the saved flags.
		return uintptr(unsafe.Pointer(c)) + unsafe.Sizeof(*c)
	}
	if s := c.gpSlot(r); s != nil {
		return uintptr(*s)
	}
	return 0
}

func (c *cpu64) SetGP(r GP, v uintptr) {
	if s := c.gpSlot(r); s != nil {
		*s = uint64(v)
	}
}

func (c *cpu64) FloatLane(r XMM, lane int) float32 {
	if int(r) >= len(c.xmm) || lane < 0 || lane > 3 {
		return 0
	}
	return math.Float32frombits(c.xmm[r][lane])
}

func (c *cpu64) SetFloatLane(r XMM, lane int, v float32) {
	if int(r) >= len(c.xmm) || lane < 0 || lane > 3 {
		return
	}
	c.xmm[r][lane] = math.Float32bits(v)
}

func (c *cpu64) ReadUint32(base GP, off uintptr) (uint32, error) {
	return readUint32(c.GP(base) + off)
}

func (c *cpu64) WriteFloat32(base GP, off uintptr, v float32) error {
	return writeUint32(c.GP(base)+off, math.Float32bits(v))
}

// readUint32 and writeUint32 touch addresses owned by the host process, not
// the Go heap. SetPanicOnFault turns an access violation into a recoverable
// panic so a stale pointer degrades into an error instead of killing the
// process.

func readUint32(addr uintptr) (v uint32, err error) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if recover() != nil {
			err = ErrBadMemory
		}
	}()
	return *(*uint32)(unsafe.Pointer(addr)), nil
}

func writeUint32(addr uintptr, v uint32) (err error) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if recover() != nil {
			err = ErrBadMemory
		}
	}()
	*(*uint32)(unsafe.Pointer(addr)) = v
	return nil
}

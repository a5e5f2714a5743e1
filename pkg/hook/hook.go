// Package hook installs inline hooks inside the current process. A hook
// rewrites the instruction stream at a resolved address with a jump to a
// dispatch stub that snapshots the interrupted thread's registers, invokes a
// Go callback over that snapshot, restores the (possibly mutated) registers
// and resumes the original instruction stream.
//
// Two flavors exist: Install places a mid-function hook whose callback
// mutates register and memory state in place, and InstallDetour replaces a
// whole function while keeping the original callable through a trampoline.
package hook

import "github.com/pkg/errors"

var (
	ErrBadAddress          = errors.New("hook: invalid address")
	ErrNotExecutable       = errors.New("hook: address not executable")
	ErrAlreadyHooked       = errors.New("hook: address already hooked")
	ErrRelativeInstruction = errors.New("hook: relative instruction in patch window")
	ErrStubUnreachable     = errors.New("hook: stub not reachable with a rel32 jump")
	ErrBadMemory           = errors.New("hook: memory access fault")
)

// GP names a general-purpose register. On 386 the names map to the 32-bit
// registers (RegAX is eax); Reg8 through Reg15 exist only on amd64.
type GP uint8

const (
	RegAX GP = iota
	RegCX
	RegDX
	RegBX
	RegSP
	RegBP
	RegSI
	RegDI
	Reg8
	Reg9
	Reg10
	Reg11
	Reg12
	Reg13
	Reg14
	Reg15
)

// XMM names a vector register.
type XMM uint8

const (
	XMM0 XMM = iota
	XMM1
	XMM2
	XMM3
	XMM4
	XMM5
	XMM6
	XMM7
	XMM8
	XMM9
	XMM10
	XMM11
	XMM12
	XMM13
	XMM14
	XMM15
)

// Context is a live view onto the interrupted thread's registers, valid only
// for the duration of one callback invocation. Mutations are applied when the
// callback returns; the view must never be retained past that point.
type Context interface {
	// GP returns the value of a general-purpose register at interception.
	GP(r GP) uintptr
	// SetGP overwrites a general-purpose register. Writes to RegSP are
	// ignored; the dispatch stub owns the stack.
	SetGP(r GP, v uintptr)
	// FloatLane returns one 32-bit lane of a vector register.
	FloatLane(r XMM, lane int) float32
	// SetFloatLane overwrites one 32-bit lane of a vector register.
	SetFloatLane(r XMM, lane int, v float32)
	// ReadUint32 reads process memory relative to a base register.
	ReadUint32(base GP, off uintptr) (uint32, error)
	// WriteFloat32 writes process memory relative to a base register.
	WriteFloat32(base GP, off uintptr, v float32) error
}

// Callback runs synchronously on the hooked thread. It must be non-blocking
// and return quickly; the host process is stalled while it runs.
type Callback func(Context)

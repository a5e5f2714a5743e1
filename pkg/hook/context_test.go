package hook

import (
	"math"
	"testing"
	"unsafe"
)

func TestCpu32Registers(t *testing.T) {
	var c cpu32
	c.eax = 0x11223344
	c.esp = 0xDEAD0000

	if got := c.GP(RegAX); got != 0x11223344 {
		t.Fatalf("GP(RegAX) = %#x", got)
	}
	// The saved esp is the value after pushfd; the interrupted stack top is
	// one slot higher.
	if got := c.GP(RegSP); got != 0xDEAD0004 {
		t.Fatalf("GP(RegSP) = %#x, want 0xDEAD0004", got)
	}
	c.SetGP(RegBX, 0x55)
	if c.ebx != 0x55 {
		t.Fatalf("SetGP(RegBX) not applied: %#x", c.ebx)
	}
	c.SetGP(RegSP, 1) // stack pointer writes are ignored
	if c.esp != 0xDEAD0000 {
		t.Fatalf("SetGP(RegSP) mutated the stack pointer")
	}
	if got := c.GP(Reg8); got != 0 {
		t.Fatalf("GP(Reg8) on 386 context = %#x, want 0", got)
	}
}

func TestCpu64Registers(t *testing.T) {
	var c cpu64
	c.rax = 0x1122334455
	c.r9 = 7

	if got := c.GP(RegAX); got != uintptr(c.rax) {
		t.Fatalf("GP(RegAX) = %#x", got)
	}
	if got := c.GP(Reg9); got != 7 {
		t.Fatalf("GP(Reg9) = %d", got)
	}
	c.SetGP(Reg15, 0xFF)
	if c.r15 != 0xFF {
		t.Fatalf("SetGP(Reg15) not applied")
	}
	if got := c.GP(RegSP); got != uintptr(unsafe.Pointer(&c))+unsafe.Sizeof(c) {
		t.Fatalf("GP(RegSP) = %#x, want the slot above the block", got)
	}
}

func TestFloatLanes(t *testing.T) {
	var c cpu64
	c.SetFloatLane(XMM0, 0, 2.3888888)
	if got := c.FloatLane(XMM0, 0); got != 2.3888888 {
		t.Fatalf("lane 0 = %v", got)
	}
	if c.xmm[0][0] != math.Float32bits(2.3888888) {
		t.Fatalf("lane not stored as float32 bits")
	}
	// Out-of-range lanes are inert.
	c.SetFloatLane(XMM0, 4, 1)
	if got := c.FloatLane(XMM0, 4); got != 0 {
		t.Fatalf("out-of-range lane = %v", got)
	}

	var c32 cpu32
	c32.SetFloatLane(XMM8, 0, 1) // no xmm8 on 386
	if got := c32.FloatLane(XMM8, 0); got != 0 {
		t.Fatalf("xmm8 on 386 context = %v", got)
	}
}

func TestRegisterRelativeMemory(t *testing.T) {
	buf := make([]uint32, 16)
	buf[4] = 0xBF800000
	base := uintptr(unsafe.Pointer(&buf[0]))

	var c cpu64
	c.SetGP(RegAX, base)

	got, err := c.ReadUint32(RegAX, 16)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0xBF800000 {
		t.Fatalf("read = %#x", got)
	}

	if err := c.WriteFloat32(RegAX, 0, -0.744186); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf[0] != math.Float32bits(-0.744186) {
		t.Fatalf("write landed wrong: %#x", buf[0])
	}
}

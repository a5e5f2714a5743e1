//go:build windows

package process

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func (p *Process) readExact(addr uintptr, buf []byte) error {
	var read uintptr
	if err := windows.ReadProcessMemory(p.Handle, addr, &buf[0], uintptr(len(buf)), &read); err != nil {
		return err
	}
	if read != uintptr(len(buf)) {
		return fmt.Errorf("short read: %d", read)
	}
	return nil
}

// ReadBytes copies n bytes of target memory starting at addr.
func (p *Process) ReadBytes(addr uintptr, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := p.readExact(addr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

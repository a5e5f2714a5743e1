//go:build windows

// Package process opens another process for read-only inspection: finding it
// by executable name, walking its memory regions and matching byte
// signatures against them. The injected fixes never use this package; it
// backs the author-side signature verifier.
package process

import "golang.org/x/sys/windows"

type Process struct {
	Handle windows.Handle
	PID    uint32
}

// Open acquires read and query access only. Nothing in this package writes
// to the target.
func Open(pid uint32) (*Process, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return nil, err
	}
	return &Process{Handle: h, PID: pid}, nil
}

func (p *Process) Close() error {
	if p == nil || p.Handle == 0 {
		return nil
	}
	return windows.CloseHandle(p.Handle)
}

//go:build windows

// Package module resolves the host process's main executable image. The
// descriptor is computed once at startup and reused by every fix; if it
// cannot be resolved no fix can install.
package module

import (
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Info describes the main executable module of the current process.
type Info struct {
	Base uintptr
	Size uint32
	Name string
	Path string
}

// Current resolves the base address, in-memory size and file name of the
// process's primary executable image.
func Current() (Info, error) {
	var base windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &base); err != nil {
		return Info{}, err
	}

	var mi windows.ModuleInfo
	proc := windows.CurrentProcess()
	if err := windows.GetModuleInformation(proc, base, &mi, uint32(unsafe.Sizeof(mi))); err != nil {
		return Info{}, err
	}

	var buf [windows.MAX_PATH]uint16
	n, err := windows.GetModuleFileName(base, &buf[0], uint32(len(buf)))
	if err != nil {
		return Info{}, err
	}
	path := windows.UTF16ToString(buf[:n])

	return Info{
		Base: uintptr(base),
		Size: mi.SizeOfImage,
		Name: filepath.Base(path),
		Path: path,
	}, nil
}

// Bytes exposes the in-memory image as a byte slice for in-process
// signature scans. The slice aliases live code pages; callers only read it.
func (m Info) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(m.Base)), int(m.Size))
}

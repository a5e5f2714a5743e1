//go:build windows

package fix

import (
	"log"
	"syscall"

	"golang.org/x/sys/windows"

	"godeaterfix/pkg/hook"
)

// FILE_NAME_NORMALIZED from winbase.h; x/sys/windows does not define it.
const fileNameNormalized = 0x0

// finalPath translates a live handle back to its normalized path.
func finalPath(h windows.Handle) (string, error) {
	buf := make([]uint16, windows.MAX_PATH)
	n, err := windows.GetFinalPathNameByHandle(h, &buf[0], uint32(len(buf)), fileNameNormalized)
	if err != nil {
		return "", err
	}
	if int(n) > len(buf) {
		buf = make([]uint16, n)
		if _, err := windows.GetFinalPathNameByHandle(h, &buf[0], uint32(len(buf)), fileNameNormalized); err != nil {
			return "", err
		}
	}
	return windows.UTF16ToString(buf), nil
}

// observeRead classifies the file behind a read handle and updates the movie
// flag. When handle translation fails the flag keeps its previous value,
// since an indeterminate read says nothing about playback.
func observeRead(st *State, h windows.Handle) {
	if path, err := finalPath(h); err == nil {
		st.SetMoviePlaying(IsMoviePath(path))
	}
}

// InstallMovieProbe detours the system file-read entry point to watch which
// file the host is streaming. The game never touches movie files itself; the
// DirectShow stack reads them in chunks through this one export, so a .wmv
// read is the most reliable playback signal available. Must install before
// the resolution fix so the movie flag is meaningful from the first frame.
//
// The probe only observes: every call is forwarded with its arguments and
// result unchanged.
func InstallMovieProbe(st *State, logger *log.Logger) error {
	if !st.Config.MasterEnable {
		logger.Printf("movie: disabled")
		return nil
	}

	addr, err := hook.ProcAddress("kernelbase.dll", "ReadFile")
	if err != nil {
		return err
	}

	var readFile uintptr
	replacement := windows.NewCallback(func(hFile, buf, toRead, read, overlapped uintptr) uintptr {
		observeRead(st, windows.Handle(hFile))
		r1, _, _ := syscall.SyscallN(readFile, hFile, buf, toRead, read, overlapped)
		return r1
	})

	d, err := hook.InstallDetour(addr, replacement)
	if err != nil {
		return err
	}
	readFile = d.Original()
	if err := d.Enable(); err != nil {
		return err
	}
	logger.Printf("movie: hooked kernelbase.dll!ReadFile at %#x", addr)
	return nil
}

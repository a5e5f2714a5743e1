//go:build windows

package process

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"

	"godeaterfix/pkg/sig"
)

// ScanPattern walks the committed regions of the target process and returns
// the absolute addresses matching the signature, adjusted by its offset.
// executableOnly restricts the walk to code pages, which is where game
// signatures live; a pattern straddling a read-chunk boundary is still found.
func (p *Process) ScanPattern(pat sig.Pattern, maxResults int, executableOnly bool) ([]uintptr, error) {
	if p == nil || p.Handle == 0 {
		return nil, errors.New("process handle is nil")
	}
	if pat.Len() == 0 {
		return nil, errors.New("empty pattern")
	}

	var (
		matches  []uintptr
		addr     uintptr
		mbi      windows.MemoryBasicInformation
		buf      []byte
		maxChunk = uintptr(1 << 20)
		overlap  = uintptr(pat.Len() - 1)
	)

	for {
		if err := windows.VirtualQueryEx(p.Handle, addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
			break
		}

		regionSize := uintptr(mbi.RegionSize)
		base := uintptr(mbi.BaseAddress)
		if regionSize == 0 {
			break
		}

		if mbi.State == windows.MEM_COMMIT && isReadable(mbi.Protect) && (mbi.Protect&windows.PAGE_GUARD) == 0 {
			if executableOnly && !isExecutable(mbi.Protect) {
				addr = base + regionSize
				continue
			}
			end := base + regionSize
			offset := base
			for offset < end {
				chunk := end - offset
				if chunk > maxChunk {
					chunk = maxChunk
				}
				if cap(buf) < int(chunk) {
					buf = make([]byte, chunk)
				} else {
					buf = buf[:chunk]
				}

				var read uintptr
				if err := windows.ReadProcessMemory(p.Handle, offset, &buf[0], uintptr(len(buf)), &read); err == nil && read > 0 {
					for _, m := range pat.FindAll(buf[:read], remaining(maxResults, len(matches))) {
						matches = append(matches, offset+uintptr(m))
						if maxResults > 0 && len(matches) >= maxResults {
							return matches, nil
						}
					}
				}

				// Step back so a match split across two chunks is seen
				// whole in the next read.
				next := offset + chunk
				if next < end && chunk > overlap {
					next -= overlap
				}
				offset = next
			}
		}

		addr = base + regionSize
		if addr == 0 || addr < base {
			break
		}
	}

	return matches, nil
}

func remaining(max, have int) int {
	if max <= 0 {
		return 0
	}
	return max - have
}

func isReadable(protect uint32) bool {
	switch protect & 0xFF { // mask out modifier flags
	case windows.PAGE_READONLY,
		windows.PAGE_READWRITE,
		windows.PAGE_WRITECOPY,
		windows.PAGE_EXECUTE_READ,
		windows.PAGE_EXECUTE_READWRITE,
		windows.PAGE_EXECUTE_WRITECOPY:
		return true
	default:
		return false
	}
}

func isExecutable(protect uint32) bool {
	switch protect & 0xFF {
	case windows.PAGE_EXECUTE,
		windows.PAGE_EXECUTE_READ,
		windows.PAGE_EXECUTE_READWRITE,
		windows.PAGE_EXECUTE_WRITECOPY:
		return true
	default:
		return false
	}
}

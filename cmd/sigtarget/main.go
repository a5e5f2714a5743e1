//go:build windows

// sigtarget keeps the fix signatures resident in executable memory and
// parks, so `sigscan -proc sigtarget.exe` can be exercised without the game
// running. Each signature's concrete byte form is planted in its own
// executable page; nothing ever jumps there.
package main

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"godeaterfix/pkg/fix"
	"godeaterfix/pkg/sig"
)

var planted = []struct {
	name string
	pat  sig.Pattern
}{
	{"aspect", fix.AspectSig},
	{"resolution", fix.ResolutionSig},
	{"hud", fix.HudSig},
}

func main() {
	fmt.Printf("sigtarget pid %d (Ctrl+C to exit)\n\n", os.Getpid())

	for _, p := range planted {
		addr, err := plant(p.pat.MatchBytes())
		if err != nil {
			fmt.Fprintf(os.Stderr, "plant %s: %v\n", p.name, err)
			os.Exit(1)
		}
		fmt.Printf("%-12s %#x  %s\n", p.name, addr+uintptr(p.pat.Offset), p.pat.String())
	}

	fmt.Println("\nwaiting for scans...")
	for {
		time.Sleep(time.Hour)
	}
}

// plant copies the bytes into a fresh executable page, mirroring where the
// real signatures live in the game image.
func plant(b []byte) (uintptr, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(len(b)),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil {
		return 0, err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(b)), b)
	return addr, nil
}

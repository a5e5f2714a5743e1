// sigscan verifies the compiled-in fix signatures against a game build,
// either the executable on disk or a live process. Signatures are coupled to
// one specific build of the game; run this against a new build before
// injecting the fix to see whether the signatures still resolve, and to
// exactly one address each.
package main

import (
	"flag"
	"fmt"
	"os"

	"godeaterfix/pkg/fix"
	"godeaterfix/pkg/sig"
)

type signature struct {
	name string
	pat  sig.Pattern
}

var signatures = []signature{
	{"aspect", fix.AspectSig},
	{"resolution", fix.ResolutionSig},
	{"hud", fix.HudSig},
}

func main() {
	file := flag.String("file", "", "scan a game executable on disk")
	proc := flag.String("proc", "", "scan a running process by executable name")
	flag.Parse()

	switch {
	case *file != "" && *proc == "":
		if err := scanFile(*file); err != nil {
			fail(err)
		}
	case *proc != "" && *file == "":
		if err := scanProcess(*proc); err != nil {
			fail(err)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: sigscan -file game.exe | -proc ger.exe")
		os.Exit(2)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "sigscan:", err)
	os.Exit(1)
}

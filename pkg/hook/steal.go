package hook

import (
	"github.com/pkg/errors"
	"golang.org/x/arch/x86/x86asm"
)

// patchLen is the size of the JMP rel32 written over the hook site.
const patchLen = 5

// maxPeek bounds how far past the hook site the decoder may look while
// finding an instruction boundary.
const maxPeek = 32

// stolen is a run of whole instructions displaced from a hook site. relocs
// holds the offsets of rel32 displacements inside code; each must be rebased
// before the run executes from another address.
type stolen struct {
	code   []byte
	relocs []int
}

// stealInstructions collects whole instructions from the start of code until
// at least min bytes are covered, so the site can be overwritten with a jump
// without truncating an instruction. Near CALL/JMP rel32 displacements are
// recorded for rebasing; any other IP-relative instruction cannot be
// replayed from a stub and fails the install.
func stealInstructions(code []byte, mode int, min int) (stolen, error) {
	var st stolen
	n := 0
	for n < min {
		inst, err := x86asm.Decode(code[n:], mode)
		if err != nil {
			return stolen{}, errors.Wrap(err, "hook: decode at patch site")
		}
		switch {
		case isNearBranch(inst, code[n:]):
			st.relocs = append(st.relocs, n+1)
		case isRelative(inst):
			return stolen{}, ErrRelativeInstruction
		}
		n += inst.Len
	}
	st.code = make([]byte, n)
	copy(st.code, code[:n])
	return st, nil
}

// isNearBranch reports a plain 5-byte CALL rel32 or JMP rel32, the only
// relative forms a stub copy can rebase. Short and conditional jumps stay
// rejected.
func isNearBranch(inst x86asm.Inst, code []byte) bool {
	return inst.Len == 5 && (code[0] == 0xE8 || code[0] == 0xE9)
}

func isRelative(inst x86asm.Inst) bool {
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		switch a := arg.(type) {
		case x86asm.Rel:
			return true
		case x86asm.Mem:
			if a.Base == x86asm.RIP {
				return true
			}
		}
	}
	return false
}

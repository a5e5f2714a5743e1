// Package sig implements byte-signature matching over raw memory buffers.
// A signature is an ordered list of byte tokens where any token may be a
// wildcard, plus an offset adjustment applied to the matched position so a
// pattern can anchor on a recognizable preamble while resolving to the
// instruction of interest.
package sig

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("sig: pattern not found")

const wildcard = "??"

// Pattern is an immutable compiled signature. Construct it once with Parse
// or MustParse; scanning never re-parses the textual form.
type Pattern struct {
	bytes  []byte
	mask   []bool // true = byte must match exactly, false = wildcard
	Offset int    // added to the matched position
}

// Parse compiles a textual signature such as
// "F3 0F 11 05 ?? ?? ?? ??". Tokens are two hex digits or "??".
func Parse(s string, offset int) (Pattern, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Pattern{}, errors.New("sig: empty pattern")
	}

	p := Pattern{
		bytes:  make([]byte, len(fields)),
		mask:   make([]bool, len(fields)),
		Offset: offset,
	}
	for i, tok := range fields {
		if tok == wildcard {
			continue
		}
		if len(tok) != 2 {
			return Pattern{}, fmt.Errorf("sig: bad token %q at position %d", tok, i)
		}
		b, err := hex.DecodeString(tok)
		if err != nil {
			return Pattern{}, fmt.Errorf("sig: bad token %q at position %d", tok, i)
		}
		p.bytes[i] = b[0]
		p.mask[i] = true
	}
	return p, nil
}

// MustParse is Parse for compiled-in signatures.
func MustParse(s string, offset int) Pattern {
	p, err := Parse(s, offset)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of tokens in the pattern.
func (p Pattern) Len() int { return len(p.bytes) }

// String renders the pattern back in its textual form.
func (p Pattern) String() string {
	var sb strings.Builder
	for i, b := range p.bytes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if p.mask[i] {
			fmt.Fprintf(&sb, "%02X", b)
		} else {
			sb.WriteString(wildcard)
		}
	}
	return sb.String()
}

// Find scans buf left to right and returns the offset of the first match
// plus the pattern's adjustment. Wildcard tokens compare equal to any byte.
func (p Pattern) Find(buf []byte) (int, bool) {
	n := len(p.bytes)
	if n == 0 || n > len(buf) {
		return 0, false
	}
	for i := 0; i+n <= len(buf); i++ {
		if p.matchAt(buf, i) {
			return i + p.Offset, true
		}
	}
	return 0, false
}

// FindAll returns the adjusted offsets of every match in buf, in scan order.
// max > 0 caps the number of results; max <= 0 means unlimited.
func (p Pattern) FindAll(buf []byte, max int) []int {
	n := len(p.bytes)
	if n == 0 || n > len(buf) {
		return nil
	}
	var out []int
	for i := 0; i+n <= len(buf); i++ {
		if p.matchAt(buf, i) {
			out = append(out, i+p.Offset)
			if max > 0 && len(out) >= max {
				break
			}
		}
	}
	return out
}

func (p Pattern) matchAt(buf []byte, at int) bool {
	for j, b := range p.bytes {
		if p.mask[j] && buf[at+j] != b {
			return false
		}
	}
	return true
}

// MatchBytes returns the concrete byte form of the pattern with wildcards
// rendered as zero. Used by tooling that needs to plant a matching sequence.
func (p Pattern) MatchBytes() []byte {
	out := make([]byte, len(p.bytes))
	copy(out, p.bytes)
	return out
}

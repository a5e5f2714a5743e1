package fix

import (
	"path/filepath"
	"strings"
)

// IsMoviePath reports whether a canonical file path names a movie stream.
// Handle translation returns paths with the \\?\ volume prefix; the game's
// movies are all .wmv files streamed in chunks through the system reader.
func IsMoviePath(path string) bool {
	path = strings.TrimPrefix(path, `\\?\`)
	return filepath.Ext(path) == ".wmv"
}

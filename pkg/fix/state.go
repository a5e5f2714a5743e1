// Package fix wires the individual game fixes. Each fix couples one byte
// signature (or one exported symbol), one enable flag derived from the
// settings, and one register callback.
package fix

import "godeaterfix/pkg/config"

// State is the context shared by every fix callback: the derived settings,
// immutable after construction, and the movie flag.
type State struct {
	Config config.Config

	// moviePlaying is a plain bool on purpose. The file-read probe is its
	// only writer (the host's I/O thread) and the resolution callback its
	// only reader (the render thread). A lock or atomic here can delay the
	// flag's visibility across the frame boundary where movie playback
	// starts, which is exactly the frame the gate exists for.
	moviePlaying bool
}

func NewState(cfg config.Config) *State { return &State{Config: cfg} }

// SetMoviePlaying is called from the file-read probe only.
func (s *State) SetMoviePlaying(v bool) { s.moviePlaying = v }

// MoviePlaying is read from the resolution callback only.
func (s *State) MoviePlaying() bool { return s.moviePlaying }

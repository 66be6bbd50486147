package vlchttp

import (
	"time"
)

// Status represents the subset of /requests/status.json this package reads.
type Status struct {
	State      string        // "playing", "paused" or "stopped" as reported by VLC
	Volume     int           // Raw VLC volume, 0-512 (256 is 100%)
	Time       time.Duration // Playback position
	Length     time.Duration // Length of the current item (zero for streams)
	Position   float64       // Playback position as a fraction 0.0-1.0
	Fullscreen bool          // Whether the video output is fullscreen
	Random     bool          // Shuffle
	Loop       bool          // Loop the playlist
	Repeat     bool          // Repeat the current item
	Version    string        // VLC version string
	Title      string        // Title from the item metadata, if any
	Filename   string        // File name of the current item, if any
	Artist     string        // Artist from the item metadata, if any
}

// DisplayName returns the best human-readable name for the current item.
func (s *Status) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Filename
}

// Command is a playback command accepted by status.xml.
type Command string

// Commands understood by the VLC HTTP interface.
const (
	CmdTogglePause Command = "pl_pause"       // Toggle pause; starts playback when stopped
	CmdForcePause  Command = "pl_forcepause"  // Pause, no-op when already paused
	CmdForceResume Command = "pl_forceresume" // Resume, no-op when already playing
	CmdNext        Command = "pl_next"
	CmdPrevious    Command = "pl_previous"
	CmdStop        Command = "pl_stop"
	CmdVolume      Command = "volume" // Requires a "val" parameter
)

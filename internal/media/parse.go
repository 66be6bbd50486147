package media

import (
	"fmt"
	"strings"
)

// fieldSeparator splits fields in the line-oriented output of the osascript
// and PowerShell helpers
const fieldSeparator = "|||"

// parseMPRISStatus maps an MPRIS PlaybackStatus property value
func parseMPRISStatus(s string) PlaybackStatus {
	switch s {
	case "Playing":
		return StatusPlaying
	case "Paused":
		return StatusPaused
	case "Stopped":
		return StatusStopped
	default:
		return StatusUnknown
	}
}

// parseAppleScriptState maps an AppleScript `player state` value
func parseAppleScriptState(s string) PlaybackStatus {
	switch s {
	case "playing":
		return StatusPlaying
	case "paused":
		return StatusPaused
	case "stopped":
		return StatusStopped
	case "fast forwarding", "rewinding":
		return StatusChanging
	default:
		return StatusUnknown
	}
}

// parseSMTCStatus maps a GlobalSystemMediaTransportControlsSessionPlaybackStatus
// enum name
func parseSMTCStatus(s string) PlaybackStatus {
	switch s {
	case "Playing":
		return StatusPlaying
	case "Changing":
		return StatusChanging
	case "Paused":
		return StatusPaused
	case "Stopped", "Closed", "Opened":
		return StatusStopped
	default:
		return StatusUnknown
	}
}

// parseDelimitedSessions parses "<id>|||<status>" lines. Blank lines are
// skipped; any malformed line fails the whole snapshot.
func parseDelimitedSessions(output string, name func(id string) string, status func(string) PlaybackStatus) ([]Session, error) {
	var sessions []Session
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, fieldSeparator)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected 2 parts, got %d: %q", len(parts), line)
		}

		id := strings.TrimSpace(parts[0])
		if id == "" {
			return nil, fmt.Errorf("empty session id: %q", line)
		}

		sessions = append(sessions, Session{
			ID:     id,
			Name:   name(id),
			Status: status(strings.TrimSpace(parts[1])),
		})
	}
	return sessions, nil
}

// parseAppleScriptOutput parses "<application>|||<player state>" lines
func parseAppleScriptOutput(output string) ([]Session, error) {
	return parseDelimitedSessions(output, func(id string) string { return id }, parseAppleScriptState)
}

// parseSMTCOutput parses "<SourceAppUserModelId>|||<PlaybackStatus>" lines
func parseSMTCOutput(output string) ([]Session, error) {
	return parseDelimitedSessions(output, smtcName, parseSMTCStatus)
}

// smtcName shortens an AppUserModelId to something readable:
// "Spotify.exe" -> "Spotify", "Microsoft.ZuneMusic_8wekyb3d8bbwe!Microsoft.ZuneMusic" -> "Microsoft.ZuneMusic"
func smtcName(id string) string {
	if i := strings.LastIndex(id, "!"); i >= 0 && i < len(id)-1 {
		id = id[i+1:]
	}
	return strings.TrimSuffix(id, ".exe")
}

// mprisName strips the well-known MPRIS bus name prefix:
// "org.mpris.MediaPlayer2.vlc.instance42" -> "vlc.instance42"
func mprisName(busName string) string {
	return strings.TrimPrefix(busName, mprisBusPrefix)
}

const mprisBusPrefix = "org.mpris.MediaPlayer2."

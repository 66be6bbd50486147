//go:build darwin

package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// knownApps are the macOS players with a scriptable `player state`
var knownApps = []string{"Music", "Spotify", "TV"}

// AppleScriptSource queries scriptable players through osascript
type AppleScriptSource struct {
	apps []string
}

// NewSource creates an AppleScript-based source
func NewSource() (Source, error) {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil, fmt.Errorf("osascript not found: %w", err)
	}
	return &AppleScriptSource{apps: knownApps}, nil
}

// Sessions reports the player state of every known app that is running.
// Apps are only addressed when running so the query never launches them.
func (s *AppleScriptSource) Sessions(ctx context.Context) ([]Session, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", buildScript(s.apps))
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("osascript error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to execute osascript: %w", err)
	}

	sessions, err := parseAppleScriptOutput(string(output))
	if err != nil {
		return nil, fmt.Errorf("failed to parse osascript output: %w", err)
	}
	return sessions, nil
}

// Close is a no-op; every query is a separate process
func (s *AppleScriptSource) Close() error {
	return nil
}

// buildScript emits one line per running app. The `tell` blocks are
// compiled through `run script` so a missing app does not break the whole
// script at compile time.
func buildScript(apps []string) string {
	var b strings.Builder
	b.WriteString("set out to \"\"\n")
	for _, app := range apps {
		fmt.Fprintf(&b, "if application %q is running then\n", app)
		fmt.Fprintf(&b, "\tset st to run script \"tell application \\\"%s\\\" to player state as string\"\n", app)
		fmt.Fprintf(&b, "\tset out to out & %q & \"%s\" & st & linefeed\n", app, fieldSeparator)
		b.WriteString("end if\n")
	}
	b.WriteString("return out")
	return b.String()
}

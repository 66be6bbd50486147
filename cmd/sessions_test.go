package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jfmyers9/hush/internal/media"
)

func TestPrintSessions(t *testing.T) {
	tests := []struct {
		name         string
		observations []media.Observation
		contains     []string
	}{
		{
			name:     "no sessions",
			contains: []string{"No media sessions found", "Other media playing: false"},
		},
		{
			name: "only the controlled player playing",
			observations: []media.Observation{
				{Session: media.Session{ID: "org.mpris.MediaPlayer2.vlc", Name: "vlc", Status: media.StatusPlaying}, Controlled: true},
			},
			contains: []string{"* vlc", "org.mpris.MediaPlayer2.vlc", "Other media playing: false"},
		},
		{
			name: "another player playing",
			observations: []media.Observation{
				{Session: media.Session{ID: "org.mpris.MediaPlayer2.vlc", Name: "vlc", Status: media.StatusPaused}, Controlled: true},
				{Session: media.Session{ID: "org.mpris.MediaPlayer2.spotify", Name: "spotify", Status: media.StatusPlaying}},
			},
			contains: []string{"* vlc", "  spotify", "Other media playing: true"},
		},
		{
			name: "another player paused",
			observations: []media.Observation{
				{Session: media.Session{ID: "firefox", Name: "firefox", Status: media.StatusPaused}},
			},
			contains: []string{"  firefox", "Other media playing: false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSessions(&buf, tt.observations)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

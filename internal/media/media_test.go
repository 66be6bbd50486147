package media

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// fakeSource returns canned sessions or an error
type fakeSource struct {
	sessions []Session
	err      error
	calls    int
	closed   bool
}

func (f *fakeSource) Sessions(ctx context.Context) ([]Session, error) {
	f.calls++
	return f.sessions, f.err
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func TestObserver_OtherPlaying(t *testing.T) {
	tests := []struct {
		name     string
		sessions []Session
		err      error
		want     bool
	}{
		{
			name: "no sessions",
			want: false,
		},
		{
			name: "other session playing",
			sessions: []Session{
				{ID: "org.mpris.MediaPlayer2.spotify", Name: "spotify", Status: StatusPlaying},
			},
			want: true,
		},
		{
			name: "other session about to play",
			sessions: []Session{
				{ID: "MSEdge", Name: "MSEdge", Status: StatusChanging},
			},
			want: true,
		},
		{
			name: "only paused and stopped others",
			sessions: []Session{
				{ID: "a", Name: "firefox", Status: StatusPaused},
				{ID: "b", Name: "spotify", Status: StatusStopped},
				{ID: "c", Name: "mystery", Status: StatusUnknown},
			},
			want: false,
		},
		{
			name: "controlled player playing is ignored",
			sessions: []Session{
				{ID: "org.mpris.MediaPlayer2.vlc", Name: "vlc", Status: StatusPlaying},
			},
			want: false,
		},
		{
			name: "controlled instance name is ignored",
			sessions: []Session{
				{ID: "org.mpris.MediaPlayer2.vlc.instance123", Name: "vlc.instance123", Status: StatusPlaying},
				{ID: "org.mpris.MediaPlayer2.firefox", Name: "firefox", Status: StatusPaused},
			},
			want: false,
		},
		{
			name: "controlled identity matched case-insensitively",
			sessions: []Session{
				{ID: "VideoLAN.VLC", Name: "VideoLAN.VLC", Status: StatusPlaying},
			},
			want: false,
		},
		{
			name: "other playing alongside controlled player",
			sessions: []Session{
				{ID: "org.mpris.MediaPlayer2.vlc", Name: "vlc", Status: StatusPlaying},
				{ID: "org.mpris.MediaPlayer2.chromium", Name: "chromium", Status: StatusPlaying},
			},
			want: true,
		},
		{
			name: "query failure means nothing else is playing",
			sessions: []Session{
				{ID: "spotify", Name: "spotify", Status: StatusPlaying},
			},
			err:  errors.New("bus unavailable"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{sessions: tt.sessions, err: tt.err}
			observer := NewObserver(source, "vlc", zerolog.Nop())

			if got := observer.OtherPlaying(context.Background()); got != tt.want {
				t.Errorf("OtherPlaying() = %v, want %v", got, tt.want)
			}
			if source.calls != 1 {
				t.Errorf("expected one fresh query per call, got %d", source.calls)
			}
		})
	}
}

func TestObserver_EmptyIdentityMatchesNothing(t *testing.T) {
	source := &fakeSource{sessions: []Session{{ID: "vlc", Name: "vlc", Status: StatusPlaying}}}
	observer := NewObserver(source, "  ", zerolog.Nop())

	if !observer.OtherPlaying(context.Background()) {
		t.Error("with no identity every session counts as other")
	}
}

func TestObserver_Snapshot(t *testing.T) {
	source := &fakeSource{sessions: []Session{
		{ID: "org.mpris.MediaPlayer2.vlc", Name: "vlc", Status: StatusPaused},
		{ID: "org.mpris.MediaPlayer2.spotify", Name: "spotify", Status: StatusPlaying},
	}}
	observer := NewObserver(source, "VLC", zerolog.Nop())

	observations, err := observer.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(observations) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(observations))
	}
	if !observations[0].Controlled || observations[1].Controlled {
		t.Errorf("unexpected controlled flags: %+v", observations)
	}

	source.err = errors.New("boom")
	if _, err := observer.Snapshot(context.Background()); err == nil {
		t.Error("Snapshot should surface query errors")
	}

	if err := observer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !source.closed {
		t.Error("Close did not close the source")
	}
}

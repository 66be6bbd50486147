// Package media answers whether any media session on the host, other than
// the controlled player, is currently playing.
package media

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ErrUnsupportedPlatform is returned by NewSource on platforms without a
// session source binding.
var ErrUnsupportedPlatform = errors.New("media session observation is not supported on this platform")

// PlaybackStatus is the playback status a media session reports
type PlaybackStatus int

const (
	StatusUnknown  PlaybackStatus = iota
	StatusStopped                 // Session exists but nothing is loaded or playing
	StatusPaused                  // Paused
	StatusPlaying                 // Playing
	StatusChanging                // About to start playing (buffering, seeking, opening)
)

// String returns the status name
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	case StatusChanging:
		return "changing"
	default:
		return "unknown"
	}
}

// Active reports whether the session is playing or about to play
func (s PlaybackStatus) Active() bool {
	return s == StatusPlaying || s == StatusChanging
}

// Session is one media session as seen by the host's aggregation facility
type Session struct {
	ID     string         // Platform identifier (bus name, AppUserModelId, application name)
	Name   string         // Short name used for identity matching and display
	Status PlaybackStatus // Current playback status
}

// Source enumerates media sessions using a platform facility.
// Each call is a fresh snapshot.
type Source interface {
	Sessions(ctx context.Context) ([]Session, error)
	Close() error
}

// Observation is a session tagged with whether it belongs to the
// controlled player
type Observation struct {
	Session
	Controlled bool
}

// Observer reports whether a session other than the controlled player
// is active
type Observer struct {
	source   Source
	identity string
	logger   zerolog.Logger
}

// NewObserver creates an Observer. Sessions whose name contains identity
// (case-insensitive) are treated as the controlled player and ignored.
func NewObserver(source Source, identity string, logger zerolog.Logger) *Observer {
	return &Observer{
		source:   source,
		identity: strings.ToLower(strings.TrimSpace(identity)),
		logger:   logger.With().Str("component", "observer").Logger(),
	}
}

// OtherPlaying returns true if at least one session not belonging to the
// controlled player is playing or about to play. A failed query counts as
// nothing else playing.
func (o *Observer) OtherPlaying(ctx context.Context) bool {
	sessions, err := o.source.Sessions(ctx)
	if err != nil {
		o.logger.Warn().Err(err).Msg("Failed to query media sessions")
		return false
	}

	for _, s := range sessions {
		if o.isControlled(s) {
			continue
		}
		if s.Status.Active() {
			o.logger.Debug().
				Str("session", s.Name).
				Str("status", s.Status.String()).
				Msg("Other media session active")
			return true
		}
	}
	return false
}

// Snapshot returns every session tagged as controlled or other
func (o *Observer) Snapshot(ctx context.Context) ([]Observation, error) {
	sessions, err := o.source.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	observations := make([]Observation, len(sessions))
	for i, s := range sessions {
		observations[i] = Observation{Session: s, Controlled: o.isControlled(s)}
	}
	return observations, nil
}

// Close releases the underlying source
func (o *Observer) Close() error {
	return o.source.Close()
}

func (o *Observer) isControlled(s Session) bool {
	if o.identity == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s.Name), o.identity) ||
		strings.Contains(strings.ToLower(s.ID), o.identity)
}

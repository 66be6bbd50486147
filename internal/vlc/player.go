package vlc

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jfmyers9/hush/pkg/vlchttp"
	"github.com/rs/zerolog"
)

// PlayState is the player's play state as observed by one status probe
type PlayState int

const (
	StateUnknown PlayState = iota // Probe failed or reported something unrecognized
	StatePlaying                  // Media is playing
	StatePaused                   // Media is paused
	StateStopped                  // Nothing is loaded or playback was stopped
)

// String returns a human-readable representation of the PlayState
func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ParseState maps a VLC state string onto a PlayState.
// Matching is case-insensitive; anything unrecognized is StateUnknown.
func ParseState(s string) PlayState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "playing":
		return StatePlaying
	case "paused":
		return StatePaused
	case "stopped":
		return StateStopped
	default:
		return StateUnknown
	}
}

// Config holds what is needed to reach the player
type Config struct {
	BaseURL  string
	Password string
	Timeout  time.Duration // Per-request timeout, zero means vlchttp.DefaultTimeout
}

// Player is the status and command client for one VLC instance
type Player struct {
	client *vlchttp.Client
	logger zerolog.Logger
}

// New creates a new Player
func New(cfg Config, logger zerolog.Logger) (*Player, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = vlchttp.DefaultTimeout
	}

	logger = logger.With().Str("component", "player").Logger()

	client, err := vlchttp.NewClient(vlchttp.Config{
		BaseURL:    cfg.BaseURL,
		Password:   cfg.Password,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     debugLogger{logger},
	})
	if err != nil {
		return nil, err
	}

	return &Player{
		client: client,
		logger: logger,
	}, nil
}

// PlayState performs one status probe. It never fails: any transport error,
// non-2xx response or unrecognized body is reported as StateUnknown.
func (p *Player) PlayState(ctx context.Context) PlayState {
	status, err := p.client.Status(ctx)
	if err != nil {
		p.logger.Debug().
			Err(err).
			Bool("unreachable", vlchttp.IsUnreachable(err)).
			Msg("Status probe failed")
		return StateUnknown
	}

	state := ParseState(status.State)
	if state == StateUnknown {
		p.logger.Debug().Str("state", status.State).Msg("Unrecognized player state")
	}
	return state
}

// Toggle sends a single pause toggle. The command flips whatever state the
// player is actually in.
func (p *Player) Toggle(ctx context.Context) error {
	return p.client.TogglePause(ctx)
}

// Status returns the full status for display purposes
func (p *Player) Status(ctx context.Context) (*vlchttp.Status, error) {
	return p.client.Status(ctx)
}

// Command sends an arbitrary playback command
func (p *Player) Command(ctx context.Context, cmd vlchttp.Command, params url.Values) error {
	return p.client.Command(ctx, cmd, params)
}

// SetVolume sets the raw VLC volume (0-512)
func (p *Player) SetVolume(ctx context.Context, level int) error {
	return p.client.SetVolume(ctx, level)
}

// debugLogger adapts zerolog to the vlchttp.Logger interface
type debugLogger struct {
	logger zerolog.Logger
}

func (l debugLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

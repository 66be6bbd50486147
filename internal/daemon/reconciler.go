package daemon

import (
	"context"
	"time"

	"github.com/jfmyers9/hush/internal/journal"
	"github.com/jfmyers9/hush/internal/vlc"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Observer answers whether a media session other than the player is active
type Observer interface {
	OtherPlaying(ctx context.Context) bool
}

// Player is the controlled player: a status probe that folds failures into
// vlc.StateUnknown and a blind pause toggle
type Player interface {
	PlayState(ctx context.Context) vlc.PlayState
	Toggle(ctx context.Context) error
}

// Recorder receives every decision that did something (and the seed).
// Consecutive skips are recorded once.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (int64, error)
}

// Pruner drops recorded decisions older than maxAge
type Pruner interface {
	Cleanup(ctx context.Context, maxAge time.Duration) (int64, error)
}

// ReconcilerConfig holds reconciliation loop settings
type ReconcilerConfig struct {
	Interval      time.Duration   // Sleep between ticks
	ProbeTimeout  time.Duration   // Bound on each observer query, status probe and command
	Clock         clockwork.Clock // Optional: defaults to the real clock
	Recorder      Recorder        // Optional: decision journal
	Pruner        Pruner          // Optional: pruned every PruneInterval while running
	Retention     time.Duration   // Age of the oldest entry kept by the pruner
	PruneInterval time.Duration
}

// Reconciler keeps the player paused while anything else plays and
// resumed otherwise. It is single-threaded: paused is only touched from
// Seed and Tick, which Run calls sequentially.
type Reconciler struct {
	observer Observer
	player   Player
	recorder Recorder
	clock    clockwork.Clock
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	pruner        Pruner
	retention     time.Duration
	pruneInterval time.Duration
	lastPrune     time.Time

	paused     bool   // Belief: whether the player should currently be paused
	lastAction Action // Action of the previous tick
}

// NewReconciler creates a new Reconciler
func NewReconciler(cfg ReconcilerConfig, observer Observer, player Player, logger zerolog.Logger) *Reconciler {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	timeout := cfg.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	retention := cfg.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}

	pruneInterval := cfg.PruneInterval
	if pruneInterval <= 0 {
		pruneInterval = DefaultPruneInterval
	}

	return &Reconciler{
		observer:      observer,
		player:        player,
		recorder:      cfg.Recorder,
		clock:         clock,
		interval:      interval,
		timeout:       timeout,
		logger:        logger.With().Str("component", "reconciler").Logger(),
		pruner:        cfg.Pruner,
		retention:     retention,
		pruneInterval: pruneInterval,
		lastPrune:     clock.Now(),
	}
}

const (
	// DefaultInterval is the time between ticks
	DefaultInterval = 1000 * time.Millisecond

	// DefaultProbeTimeout bounds each blocking call made during a tick
	DefaultProbeTimeout = 3 * time.Second

	// DefaultRetention is how long journal entries are kept
	DefaultRetention = 7 * 24 * time.Hour

	// DefaultPruneInterval is the time between journal prunes
	DefaultPruneInterval = time.Hour
)

// Paused returns the current belief
func (r *Reconciler) Paused() bool {
	return r.paused
}

// Seed probes the player once and derives the initial belief from what it
// reports, rather than assuming it starts unpaused.
func (r *Reconciler) Seed(ctx context.Context) {
	state := r.probe(ctx)
	r.paused = seedBelief(state)

	r.logger.Info().
		Str("player_state", state.String()).
		Bool("paused", r.paused).
		Msg("Seeded belief from player")

	r.record(ctx, journal.Entry{
		Kind:        journal.KindSeed,
		PlayerState: state.String(),
		Paused:      r.paused,
	})
}

// Tick runs one observe, decide, act round without sleeping
func (r *Reconciler) Tick(ctx context.Context) Decision {
	other := r.otherPlaying(ctx)

	state := vlc.StateUnknown
	if needsProbe(r.paused, other) {
		state = r.probe(ctx)
	}

	d := Decide(r.paused, other, state)

	// A player that stays unreachable is journaled once, not every tick
	repeatedSkip := d.Action == ActionSkip && r.lastAction == ActionSkip
	r.lastAction = d.Action

	var cmdErr error
	switch d.Action {
	case ActionNone:
		return d
	case ActionSkip:
		r.logger.Debug().
			Bool("other_playing", other).
			Bool("paused", r.paused).
			Msg("Player state unknown, not acting")
	case ActionAbsorb:
		r.logger.Info().
			Bool("other_playing", other).
			Str("player_state", state.String()).
			Bool("paused", d.Paused).
			Msg("Player changed externally, adopting its state")
	case ActionToggle:
		cmdErr = r.toggle(ctx)
		var event *zerolog.Event
		if cmdErr != nil {
			event = r.logger.Warn().Err(cmdErr)
		} else {
			event = r.logger.Info()
		}
		event.
			Bool("other_playing", other).
			Str("player_state", state.String()).
			Bool("paused", d.Paused).
			Msg(toggleMessage(d.Paused))
	}

	// Belief moves even when the toggle failed; the next drift check
	// corrects it.
	r.paused = d.Paused

	entry := journal.Entry{
		Kind:         actionKind(d.Action),
		OtherPlaying: other,
		PlayerState:  state.String(),
		Paused:       d.Paused,
	}
	if cmdErr != nil {
		entry.Error = cmdErr.Error()
	}
	if !repeatedSkip {
		r.record(ctx, entry)
	}

	return d
}

// Run seeds the belief and then ticks every interval until ctx is done
func (r *Reconciler) Run(ctx context.Context) error {
	r.logger.Info().
		Dur("interval", r.interval).
		Dur("probe_timeout", r.timeout).
		Msg("Starting reconciler")

	r.Seed(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Reconciler stopped")
			return ctx.Err()
		case <-r.clock.After(r.interval):
			r.Tick(ctx)
			r.maybePrune(ctx)
		}
	}
}

func (r *Reconciler) otherPlaying(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.observer.OtherPlaying(ctx)
}

func (r *Reconciler) probe(ctx context.Context) vlc.PlayState {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.player.PlayState(ctx)
}

func (r *Reconciler) toggle(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.player.Toggle(ctx)
}

func (r *Reconciler) record(ctx context.Context, e journal.Entry) {
	if r.recorder == nil {
		return
	}
	e.Timestamp = r.clock.Now()
	// Decisions already acted on are recorded even while shutting down
	if _, err := r.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		r.logger.Warn().Err(err).Str("kind", string(e.Kind)).Msg("Failed to record decision")
	}
}

// maybePrune drops old journal entries once every pruneInterval
func (r *Reconciler) maybePrune(ctx context.Context) {
	if r.pruner == nil || r.clock.Since(r.lastPrune) < r.pruneInterval {
		return
	}
	r.lastPrune = r.clock.Now()

	deleted, err := r.pruner.Cleanup(ctx, r.retention)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to prune journal")
		return
	}
	if deleted > 0 {
		r.logger.Debug().Int64("deleted", deleted).Msg("Pruned journal")
	}
}

func actionKind(a Action) journal.Kind {
	switch a {
	case ActionToggle:
		return journal.KindToggle
	case ActionAbsorb:
		return journal.KindAbsorb
	default:
		return journal.KindSkip
	}
}

func toggleMessage(paused bool) string {
	if paused {
		return "Other media playing, pausing player"
	}
	return "Nothing else playing, resuming player"
}

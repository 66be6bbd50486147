package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfmyers9/hush/internal/journal"
	"github.com/rs/zerolog"
)

// Config holds daemon configuration
type Config struct {
	Interval         time.Duration // Time between reconciliation ticks
	ProbeTimeout     time.Duration // Bound on every observer query and player request
	JournalDB        string        // Path to the decision journal (empty disables it)
	JournalRetention time.Duration // Journal entries older than this are pruned hourly and on shutdown
}

// Daemon wires the reconciler to its journal and the process lifecycle
type Daemon struct {
	config     Config
	reconciler *Reconciler
	journal    *journal.Journal
	logger     zerolog.Logger
}

// New creates a new Daemon instance
func New(cfg Config, observer Observer, player Player, logger zerolog.Logger) (*Daemon, error) {
	var j *journal.Journal
	rcfg := ReconcilerConfig{
		Interval:     cfg.Interval,
		ProbeTimeout: cfg.ProbeTimeout,
		Retention:    cfg.JournalRetention,
	}

	if cfg.JournalDB != "" {
		var err error
		j, err = journal.Open(cfg.JournalDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		rcfg.Recorder = j
		rcfg.Pruner = j
	}

	return &Daemon{
		config:     cfg,
		reconciler: NewReconciler(rcfg, observer, player, logger),
		journal:    j,
		logger:     logger.With().Str("component", "daemon").Logger(),
	}, nil
}

// Run starts the daemon and blocks until shutdown signal received
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Handle first signal gracefully, second signal forces exit
	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
			return
		}
		d.logger.Info().Msg("Shutdown signal received, initiating graceful shutdown")
		cancel()

		<-sigChan
		d.logger.Warn().Msg("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()

	return d.run(ctx)
}

// run drives the reconciler until ctx is cancelled
func (d *Daemon) run(ctx context.Context) error {
	d.logger.Info().
		Bool("journal", d.journal != nil).
		Msg("Starting daemon")

	if err := d.reconciler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	d.logger.Info().Msg("Daemon stopped")
	return nil
}

// Shutdown prunes and closes the journal
func (d *Daemon) Shutdown() error {
	d.logger.Info().Msg("Shutting down daemon")

	if d.journal == nil {
		return nil
	}

	retention := d.config.JournalRetention
	if retention <= 0 {
		retention = DefaultRetention
	}

	ctx := context.Background()
	if deleted, err := d.journal.Cleanup(ctx, retention); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to cleanup journal")
	} else if deleted > 0 {
		d.logger.Debug().Int64("deleted", deleted).Msg("Pruned journal")
	}

	if err := d.journal.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}

	return nil
}

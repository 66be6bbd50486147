package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/hush/internal/config"
	"github.com/jfmyers9/hush/internal/daemon"
	"github.com/jfmyers9/hush/internal/media"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	daemonLogFile  string
	daemonLogLevel string
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the pause/resume daemon",
	Long: `Run the daemon that pauses VLC while other media is playing.

The daemon will:
- Probe VLC once at startup to learn whether it is playing
- Check the system's media sessions every check interval
- Pause VLC when another session starts playing, resume it when all stop
- Leave VLC alone when you paused or resumed it by hand
- Record every decision to a journal (see 'hush history')
- Handle graceful shutdown on SIGINT/SIGTERM

The daemon runs in the foreground and logs to stderr by default.
Use the --log-file flag to log to a file (useful for launchd/systemd).`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	// Command-line flags
	daemonCmd.Flags().Int("check-interval", int(config.DefaultCheckInterval.Milliseconds()), "Milliseconds between session checks")
	daemonCmd.Flags().String("player-identity", config.DefaultIdentity, "Substring identifying VLC's own media session")
	daemonCmd.Flags().String("data-dir", "", "Data directory for the journal (default: ~/.local/share/hush)")
	daemonCmd.Flags().Bool("journal", true, "Record decisions to the journal")
	daemonCmd.Flags().StringVar(&daemonLogFile, "log-file", "", "Log file path (default: stderr)")
	daemonCmd.Flags().StringVar(&daemonLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Set up logging
	logger := setupLogger(daemonLogFile, daemonLogLevel)

	logger.Info().
		Str("version", version).
		Msg("Starting hush daemon")

	journalPath := cfg.JournalPath()
	if journalPath != "" {
		// Ensure data directory exists
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		logger.Info().Str("data_dir", cfg.DataDir).Msg("Using data directory")
	}

	// Create session source
	source, err := media.NewSource()
	if err != nil {
		return fmt.Errorf("failed to initialize media session source: %w", err)
	}
	observer := media.NewObserver(source, cfg.VLC.Identity, logger)
	defer observer.Close()

	// Create player client
	player, err := newPlayer(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create player client: %w", err)
	}

	logger.Info().
		Str("vlc", cfg.VLC.BaseURL).
		Str("identity", cfg.VLC.Identity).
		Dur("check_interval", cfg.CheckInterval).
		Dur("http_timeout", cfg.HTTPTimeout).
		Msg("Configured")

	// Create daemon config
	daemonCfg := daemon.Config{
		Interval:     cfg.CheckInterval,
		ProbeTimeout: cfg.HTTPTimeout,
		JournalDB:    journalPath,
	}

	// Create daemon
	d, err := daemon.New(daemonCfg, observer, player, logger)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	// Run daemon (blocks until shutdown signal)
	if err := d.Run(); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}

	// Graceful shutdown
	if err := d.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("Error during shutdown")
		return err
	}

	logger.Info().Msg("Daemon stopped")
	return nil
}

// setupLogger creates a logger with the specified configuration
func setupLogger(logFile, logLevel string) zerolog.Logger {
	// Parse log level
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	// Set up output
	var output *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			output = os.Stderr
		} else {
			output = f
		}
	} else {
		output = os.Stderr
	}

	// Create logger
	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Use pretty console output if logging to stderr
	if output == os.Stderr {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	return logger
}

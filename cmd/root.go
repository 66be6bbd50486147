/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/jfmyers9/hush/internal/config"
	"github.com/jfmyers9/hush/internal/vlc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hush",
	Short: "Pause VLC while other media is playing",
	Long: `hush keeps VLC out of the way of everything else you listen to.

It runs as a background daemon that watches the media sessions the
operating system knows about (MPRIS on Linux, the Now Playing apps on
macOS, SMTC on Windows). Whenever something other than VLC starts
playing, VLC is paused through its HTTP interface. When the other media
stops, VLC resumes.

VLC's HTTP interface must be enabled with a password
(Tools > Preferences > All > Interface > Main interfaces > Lua).`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Connection settings shared by every command that talks to VLC
	rootCmd.PersistentFlags().String("vlc-base-url", config.DefaultBaseURL, "VLC HTTP interface base URL")
	rootCmd.PersistentFlags().String("vlc-http-password", "", "VLC HTTP interface password")
	rootCmd.PersistentFlags().Int("http-timeout", int(config.DefaultHTTPTimeout.Milliseconds()), "Timeout in milliseconds for each request to VLC or the session service")
}

// loadConfig loads configuration with the command's flags taking precedence
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newPlayer creates a VLC player from configuration
func newPlayer(cfg *config.Config, logger zerolog.Logger) (*vlc.Player, error) {
	if cfg.VLC.Password == "" {
		return nil, config.ErrMissingPassword
	}

	return vlc.New(vlc.Config{
		BaseURL:  cfg.VLC.BaseURL,
		Password: cfg.VLC.Password,
		Timeout:  cfg.HTTPTimeout,
	}, logger)
}

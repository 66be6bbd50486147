package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jfmyers9/hush/pkg/vlchttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle play/pause in VLC",
	Long:  `Toggle between play and pause states in VLC. If stopped, starts playing.`,
	Args:  cobra.NoArgs,
	RunE:  commandRunner(vlchttp.CmdTogglePause, "toggle"),
}

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Resume playback in VLC",
	Long:  `Resume playback in VLC. Does nothing if VLC is already playing.`,
	Args:  cobra.NoArgs,
	RunE:  commandRunner(vlchttp.CmdForceResume, "play"),
}

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback in VLC",
	Long:  `Pause playback in VLC. Does nothing if VLC is already paused.`,
	Args:  cobra.NoArgs,
	RunE:  commandRunner(vlchttp.CmdForcePause, "pause"),
}

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next item in VLC",
	Args:  cobra.NoArgs,
	RunE:  commandRunner(vlchttp.CmdNext, "skip to next item"),
}

// prevCmd represents the prev command
var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous item in VLC",
	Args:  cobra.NoArgs,
	RunE:  commandRunner(vlchttp.CmdPrevious, "go to previous item"),
}

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback in VLC",
	Args:  cobra.NoArgs,
	RunE:  commandRunner(vlchttp.CmdStop, "stop"),
}

// volumeCmd represents the volume command
var volumeCmd = &cobra.Command{
	Use:   "volume [0-512]",
	Short: "Set playback volume in VLC",
	Long: `Set the playback volume in VLC.

Volume uses VLC's own scale: 0 is muted, 256 is 100% and 512 is 200%.`,
	Args: cobra.ExactArgs(1),
	RunE: runVolume,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(volumeCmd)
}

// commandRunner returns a RunE that sends a single command to VLC
func commandRunner(command vlchttp.Command, action string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer cancel()

		player, err := newPlayer(cfg, zerolog.Nop())
		if err != nil {
			return err
		}

		if err := player.Command(ctx, command, nil); err != nil {
			return fmt.Errorf("failed to %s: %w", action, err)
		}

		return nil
	}
}

func runVolume(cmd *cobra.Command, args []string) error {
	level, err := parseVolume(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	player, err := newPlayer(cfg, zerolog.Nop())
	if err != nil {
		return err
	}

	if err := player.SetVolume(ctx, level); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	return nil
}

func parseVolume(arg string) (int, error) {
	level, err := strconv.Atoi(arg)
	if err != nil || level < 0 || level > 512 {
		return 0, fmt.Errorf("invalid volume level: %s (must be a number 0-512)", arg)
	}
	return level, nil
}

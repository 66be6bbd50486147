package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jfmyers9/hush/internal/config"
	"github.com/jfmyers9/hush/internal/media"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the media sessions hush can see",
	Long: `List every media session reported by the operating system, marking
the one recognized as VLC, followed by whether the daemon would consider
other media to be playing.

Useful for checking --player-identity.`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().String("player-identity", config.DefaultIdentity, "Substring identifying VLC's own media session")
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	source, err := media.NewSource()
	if err != nil {
		return fmt.Errorf("failed to initialize media session source: %w", err)
	}
	observer := media.NewObserver(source, cfg.VLC.Identity, zerolog.Nop())
	defer observer.Close()

	observations, err := observer.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to list media sessions: %w", err)
	}

	printSessions(os.Stdout, observations)
	return nil
}

// printSessions writes one line per session and the resulting verdict
func printSessions(w io.Writer, observations []media.Observation) {
	if len(observations) == 0 {
		fmt.Fprintln(w, "No media sessions found")
	}

	other := false
	for _, o := range observations {
		marker := " "
		if o.Controlled {
			marker = "*"
		} else if o.Status.Active() {
			other = true
		}
		fmt.Fprintf(w, "%s %s %s  %s\n", marker, padToWidth(o.Name, 24), padToWidth(o.Status.String(), 8), o.ID)
	}

	fmt.Fprintf(w, "\nOther media playing: %t\n", other)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jfmyers9/hush/internal/journal"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent daemon decisions",
	Long: `Show the most recent decisions recorded by the daemon, newest first.

Each line shows when the decision was made, what the daemon did (seed,
toggle, absorb or skip), whether other media was playing, what VLC
reported and whether VLC is now believed paused.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().String("data-dir", "", "Data directory for the journal (default: ~/.local/share/hush)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")

	// Journal may be disabled for the daemon but still exist from earlier runs
	cfg.Journal = true
	path := cfg.JournalPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("No journal found at", path)
		return nil
	}

	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Recent(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	printHistory(os.Stdout, entries)
	return nil
}

// printHistory writes one line per journal entry
func printHistory(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No decisions recorded")
		return
	}

	for _, e := range entries {
		fmt.Fprintln(w, formatEntry(e))
	}
}

func formatEntry(e journal.Entry) string {
	line := fmt.Sprintf("%s  %s  other=%-5t player=%-7s paused=%t",
		e.Timestamp.Local().Format(time.DateTime),
		padToWidth(string(e.Kind), 6),
		e.OtherPlaying,
		e.PlayerState,
		e.Paused)
	if e.Error != "" {
		line += "  error: " + e.Error
	}
	return line
}

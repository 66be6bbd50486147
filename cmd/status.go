package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/jfmyers9/hush/internal/vlc"
	"github.com/jfmyers9/hush/pkg/vlchttp"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display VLC's playback state",
	Long: `Query VLC's HTTP interface and display what it is doing.

The output format can be customized in ~/.config/hush/config.yaml
(output_format) or with --format, using a Go template. Available fields:
.State, .Title, .Artist, .Filename, .Volume, .Time, .Length, .Position

Exit codes:
  0 - VLC is playing
  1 - VLC is paused, stopped or unreachable`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	// Add format flag to override config
	statusCmd.Flags().StringP("format", "f", "", "Output format template (overrides config)")
	// Add width flag to set fixed output width
	statusCmd.Flags().IntP("width", "w", 0, "Fixed output width (0=disabled)")
}

// statusView is the data exposed to the output template
type statusView struct {
	State    string
	Title    string
	Artist   string
	Filename string
	Volume   int // Percent, 100 is VLC's nominal volume
	Time     time.Duration
	Length   time.Duration
	Position float64
}

func newStatusView(st *vlchttp.Status) statusView {
	return statusView{
		State:    vlc.ParseState(st.State).String(),
		Title:    st.DisplayName(),
		Artist:   st.Artist,
		Filename: st.Filename,
		Volume:   st.Volume * 100 / 256,
		Time:     st.Time,
		Length:   st.Length,
		Position: st.Position,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	st, err := player.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get VLC status: %w", err)
	}

	view := newStatusView(st)

	// Format and print output
	output, err := formatStatus(view, cfg.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	width, _ := cmd.Flags().GetInt("width")
	fmt.Println(padToWidth(output, width))

	// If not playing, exit with code 1
	if vlc.ParseState(st.State) != vlc.StatePlaying {
		os.Exit(1)
	}

	return nil
}

// formatStatus applies the template to the status view
func formatStatus(view statusView, templateStr string) (string, error) {
	tmpl, err := template.New("output").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return buf.String(), nil
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)
	if currentWidth == width {
		return text
	}
	if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	ellipsis := "..."
	ellipsisWidth := runewidth.StringWidth(ellipsis)
	if width <= ellipsisWidth {
		return runewidth.Truncate(ellipsis, width, "")
	}

	// Wide runes can leave the truncated text one column short
	result := runewidth.Truncate(text, width-ellipsisWidth, "") + ellipsis
	if resultWidth := runewidth.StringWidth(result); resultWidth < width {
		result += strings.Repeat(" ", width-resultWidth)
	}
	return result
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jfmyers9/hush/internal/daemon"
	"github.com/spf13/cobra"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install hush daemon as a login service",
	Long: `Install hush daemon as a service that runs automatically on login.

On macOS a launchd agent is written to ~/Library/LaunchAgents/ and loaded
with launchctl. On Linux a systemd user unit is written to
~/.config/systemd/user/ and enabled with systemctl --user.

Pass --vlc-http-password to store the VLC password in
~/.config/hush/config.yaml. The password is never written to the service
definition.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("vlc-http-password") || cmd.Flags().Changed("vlc-base-url") {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		fmt.Println("✓ Saved VLC settings to config file")
	}

	if cfg.VLC.Password == "" {
		fmt.Println("Warning: no VLC HTTP password configured; the daemon will exit until one is set")
		fmt.Println("  hush install --vlc-http-password <password>")
	}

	// Get the path to the current executable
	binaryPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual binary path
	binaryPath, err = filepath.EvalSymlinks(binaryPath)
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	// Get the log path
	logPath, err := daemon.GetDefaultLogPath()
	if err != nil {
		return fmt.Errorf("failed to get log path: %w", err)
	}

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logPath, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Get home directory for working directory
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	svc := daemon.ServiceConfig{
		BinaryPath:       binaryPath,
		LogPath:          logPath,
		WorkingDirectory: home,
	}

	path, err := installService(svc)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Installed service definition to %s\n", path)
	fmt.Println("✓ Daemon loaded and started successfully")
	fmt.Printf("✓ Logs will be written to %s\n", logPath)
	fmt.Println("\nThe hush daemon is now running and will start automatically on login.")
	fmt.Println("\nTo uninstall, run:")
	fmt.Println("  hush uninstall")

	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// uninstallCmd represents the uninstall command
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall hush daemon login service",
	Long: `Uninstall hush daemon and stop it from running automatically.

This command will:
  - Stop the running daemon (if any)
  - Unload it from launchd (macOS) or disable it in systemd (Linux)
  - Remove the service definition

The config file and the decision journal are left in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, removed, err := uninstallService()
		if err != nil {
			return err
		}

		if !removed {
			fmt.Println("Daemon is not installed (service definition not found)")
			return nil
		}

		fmt.Printf("✓ Removed service definition from %s\n", path)
		fmt.Println("\nThe hush daemon has been uninstalled successfully.")
		fmt.Println("It will no longer run automatically on login.")
		fmt.Println("\nTo reinstall, run:")
		fmt.Println("  hush install")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/hush/internal/daemon"
)

// installService writes the systemd user unit and enables it
func installService(svc daemon.ServiceConfig) (string, error) {
	unit, err := daemon.GenerateUnit(svc)
	if err != nil {
		return "", fmt.Errorf("failed to generate unit: %w", err)
	}

	unitPath, err := daemon.GetUnitPath()
	if err != nil {
		return "", fmt.Errorf("failed to get unit path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(unitPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create systemd user directory: %w", err)
	}

	if err := os.WriteFile(unitPath, []byte(unit), 0644); err != nil {
		return "", fmt.Errorf("failed to write unit file: %w", err)
	}

	if err := systemctl("daemon-reload"); err != nil {
		return "", err
	}
	// restart picks up a changed unit when already installed
	if err := systemctl("enable", daemon.UnitName); err != nil {
		return "", err
	}
	if err := systemctl("restart", daemon.UnitName); err != nil {
		return "", err
	}

	return unitPath, nil
}

// uninstallService disables the unit and removes it
func uninstallService() (string, bool, error) {
	unitPath, err := daemon.GetUnitPath()
	if err != nil {
		return "", false, fmt.Errorf("failed to get unit path: %w", err)
	}

	if _, err := os.Stat(unitPath); os.IsNotExist(err) {
		return unitPath, false, nil
	}

	fmt.Println("Stopping daemon...")
	if err := systemctl("disable", "--now", daemon.UnitName); err != nil {
		fmt.Printf("Warning: failed to stop daemon: %v\n", err)
	}

	if err := os.Remove(unitPath); err != nil {
		return "", false, fmt.Errorf("failed to remove unit file: %w", err)
	}

	if err := systemctl("daemon-reload"); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	return unitPath, true, nil
}

// systemctl runs systemctl against the user manager
func systemctl(args ...string) error {
	output, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).CombinedOutput()
	if err != nil {
		if len(output) > 0 {
			return fmt.Errorf("systemctl %s failed: %s", args[0], strings.TrimSpace(string(output)))
		}
		return fmt.Errorf("failed to run systemctl %s: %w", args[0], err)
	}
	return nil
}

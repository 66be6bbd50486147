package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/hush/internal/daemon"
)

// installService writes the launchd plist and bootstraps it
func installService(svc daemon.ServiceConfig) (string, error) {
	plistContent, err := daemon.GeneratePlist(svc)
	if err != nil {
		return "", fmt.Errorf("failed to generate plist: %w", err)
	}

	plistPath, err := daemon.GetPlistPath()
	if err != nil {
		return "", fmt.Errorf("failed to get plist path: %w", err)
	}

	// Create LaunchAgents directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(plistPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create LaunchAgents directory: %w", err)
	}

	// Check if plist already exists
	if _, err := os.Stat(plistPath); err == nil {
		fmt.Println("Daemon is already installed. Unloading first...")
		if err := unloadDaemon(); err != nil {
			fmt.Printf("Warning: failed to unload existing daemon: %v\n", err)
		}
	}

	if err := os.WriteFile(plistPath, []byte(plistContent), 0644); err != nil {
		return "", fmt.Errorf("failed to write plist file: %w", err)
	}

	if err := loadDaemon(plistPath); err != nil {
		return "", fmt.Errorf("failed to load daemon: %w", err)
	}

	return plistPath, nil
}

// uninstallService unloads the agent and removes the plist
func uninstallService() (string, bool, error) {
	plistPath, err := daemon.GetPlistPath()
	if err != nil {
		return "", false, fmt.Errorf("failed to get plist path: %w", err)
	}

	if _, err := os.Stat(plistPath); os.IsNotExist(err) {
		return plistPath, false, nil
	}

	fmt.Println("Stopping daemon...")
	if err := unloadDaemon(); err != nil {
		fmt.Printf("Warning: failed to unload daemon: %v\n", err)
	}

	if err := os.Remove(plistPath); err != nil {
		return "", false, fmt.Errorf("failed to remove plist file: %w", err)
	}

	return plistPath, true, nil
}

// launchDomain returns the launchctl domain of the current user
func launchDomain() (string, error) {
	uidOutput, err := exec.Command("id", "-u").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get user ID: %w", err)
	}
	return "gui/" + strings.TrimSpace(string(uidOutput)), nil
}

// loadDaemon loads the daemon using launchctl
func loadDaemon(plistPath string) error {
	domain, err := launchDomain()
	if err != nil {
		return err
	}

	output, err := exec.Command("launchctl", "bootstrap", domain, plistPath).CombinedOutput()
	if err != nil {
		if len(output) > 0 {
			return fmt.Errorf("launchctl bootstrap failed: %s", strings.TrimSpace(string(output)))
		}
		return fmt.Errorf("failed to run launchctl bootstrap: %w", err)
	}

	return nil
}

// unloadDaemon unloads the daemon using launchctl
func unloadDaemon() error {
	domain, err := launchDomain()
	if err != nil {
		return err
	}

	// Bootout fails if the agent is not loaded, which is fine
	output, err := exec.Command("launchctl", "bootout", domain+"/"+daemon.ServiceLabel).CombinedOutput()
	if err != nil && len(output) > 0 {
		fmt.Printf("Warning: %s\n", strings.TrimSpace(string(output)))
	}

	return nil
}

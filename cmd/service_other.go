//go:build !darwin && !linux

package cmd

import (
	"fmt"
	"runtime"

	"github.com/jfmyers9/hush/internal/daemon"
)

func installService(svc daemon.ServiceConfig) (string, error) {
	return "", fmt.Errorf("install is not supported on %s; run 'hush daemon' from your session startup instead", runtime.GOOS)
}

func uninstallService() (string, bool, error) {
	return "", false, fmt.Errorf("uninstall is not supported on %s", runtime.GOOS)
}

//go:build windows

package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// smtcScript awaits GlobalSystemMediaTransportControlsSessionManager and
// prints one "<SourceAppUserModelId>|||<PlaybackStatus>" line per session.
const smtcScript = `
Add-Type -AssemblyName System.Runtime.WindowsRuntime
$asTask = ([System.WindowsRuntimeSystemExtensions].GetMethods() | Where-Object {
	$_.Name -eq 'AsTask' -and $_.GetParameters().Count -eq 1 -and
	$_.GetParameters()[0].ParameterType.Name -eq 'IAsyncOperation` + "`" + `1'
})[0]
function Await($op, [Type]$type) {
	$task = $asTask.MakeGenericMethod($type).Invoke($null, @($op))
	$task.Wait(-1) | Out-Null
	$task.Result
}
$managerType = [Windows.Media.Control.GlobalSystemMediaTransportControlsSessionManager, Windows.Media.Control, ContentType = WindowsRuntime]
$manager = Await ($managerType::RequestAsync()) ($managerType)
foreach ($session in $manager.GetSessions()) {
	$status = $session.GetPlaybackInfo().PlaybackStatus
	Write-Output ($session.SourceAppUserModelId + '|||' + $status)
}
`

// SMTCSource enumerates Windows System Media Transport Controls sessions
type SMTCSource struct {
	shell string
}

// NewSource locates PowerShell
func NewSource() (Source, error) {
	for _, shell := range []string{"powershell.exe", "pwsh.exe"} {
		if path, err := exec.LookPath(shell); err == nil {
			return &SMTCSource{shell: path}, nil
		}
	}
	return nil, fmt.Errorf("%w: powershell not found", ErrUnsupportedPlatform)
}

// Sessions lists every SMTC session and its playback status
func (s *SMTCSource) Sessions(ctx context.Context) ([]Session, error) {
	cmd := exec.CommandContext(ctx, s.shell, "-NoProfile", "-NonInteractive", "-Command", smtcScript)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("powershell error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("failed to execute powershell: %w", err)
	}

	sessions, err := parseSMTCOutput(string(output))
	if err != nil {
		return nil, fmt.Errorf("failed to parse powershell output: %w", err)
	}
	return sessions, nil
}

// Close is a no-op; every query is a separate process
func (s *SMTCSource) Close() error {
	return nil
}

//go:build !windows

package infra

import (
	"runtime"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// NewStartupRegistrar returns a LaunchAgent on macOS and an XDG autostart entry elsewhere.
func NewStartupRegistrar() domain.StartupRegistrar {
	if runtime.GOOS == "darwin" {
		return NewLaunchAgentRegistrar()
	}
	return NewDesktopEntryRegistrar()
}

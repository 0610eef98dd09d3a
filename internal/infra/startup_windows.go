//go:build windows

package infra

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// RunKeyRegistrar implements domain.StartupRegistrar with the per-user Run key.
type RunKeyRegistrar struct {
	valueName string
}

// NewStartupRegistrar returns the Run key registrar.
func NewStartupRegistrar() domain.StartupRegistrar {
	return &RunKeyRegistrar{valueName: AppName}
}

// Install sets HKCU\...\Run\SmartFreeze to "<exe>" daemon.
func (r *RunKeyRegistrar) Install(execPath string) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("%w: open run key: %v", domain.ErrStartupRegistration, err)
	}
	defer key.Close()

	if err := key.SetStringValue(r.valueName, LaunchCommand(execPath)); err != nil {
		return fmt.Errorf("%w: set value: %v", domain.ErrStartupRegistration, err)
	}
	return nil
}

// Uninstall deletes the Run value. A missing value is not an error.
func (r *RunKeyRegistrar) Uninstall() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: open run key: %v", domain.ErrStartupRegistration, err)
	}
	defer key.Close()

	if err := key.DeleteValue(r.valueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%w: delete value: %v", domain.ErrStartupRegistration, err)
	}
	return nil
}

// IsInstalled checks whether the Run value exists.
func (r *RunKeyRegistrar) IsInstalled() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	_, _, err = key.GetStringValue(r.valueName)
	return err == nil
}

// Location describes the registry value.
func (r *RunKeyRegistrar) Location() string {
	return `HKCU\` + runKeyPath + `\` + r.valueName
}

// Ensure RunKeyRegistrar implements domain.StartupRegistrar.
var _ domain.StartupRegistrar = (*RunKeyRegistrar)(nil)

package infra

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

const desktopEntryTemplate = `[Desktop Entry]
Type=Application
Name={{.Name}}
Comment=Suspend background processes while a game runs
Exec={{.Exec}}
Terminal=false
X-GNOME-Autostart-enabled=true
`

// DesktopEntryRegistrar implements domain.StartupRegistrar with an XDG autostart entry.
type DesktopEntryRegistrar struct {
	dir  string
	path string
}

// NewDesktopEntryRegistrar registers under $XDG_CONFIG_HOME/autostart.
func NewDesktopEntryRegistrar() *DesktopEntryRegistrar {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return NewDesktopEntryRegistrarWithDir(filepath.Join(configDir, "autostart"))
}

// NewDesktopEntryRegistrarWithDir registers in a specific directory (for testing).
func NewDesktopEntryRegistrarWithDir(dir string) *DesktopEntryRegistrar {
	return &DesktopEntryRegistrar{
		dir:  dir,
		path: filepath.Join(dir, desktopFileName),
	}
}

func (r *DesktopEntryRegistrar) render(execPath string) ([]byte, error) {
	tmpl, err := template.New("desktop").Parse(desktopEntryTemplate)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct{ Name, Exec string }{AppName, LaunchCommand(execPath)})
	return buf.Bytes(), err
}

// Install writes the .desktop file.
func (r *DesktopEntryRegistrar) Install(execPath string) error {
	content, err := r.render(execPath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}
	if err := os.WriteFile(r.path, content, 0644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}
	return nil
}

// Uninstall removes the .desktop file.
func (r *DesktopEntryRegistrar) Uninstall() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}
	return nil
}

// IsInstalled checks if the .desktop file exists.
func (r *DesktopEntryRegistrar) IsInstalled() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// Location returns the .desktop file path.
func (r *DesktopEntryRegistrar) Location() string {
	return r.path
}

// Ensure DesktopEntryRegistrar implements domain.StartupRegistrar.
var _ domain.StartupRegistrar = (*DesktopEntryRegistrar)(nil)

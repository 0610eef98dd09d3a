package infra

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

// LaunchAgent plist template (runs as the logged-in user)
const launchAgentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>

    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
        <string>{{.Arg}}</string>
    </array>

    <key>RunAtLoad</key>
    <true/>

    <key>StandardOutPath</key>
    <string>{{.LogPath}}</string>

    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>

    <key>ProcessType</key>
    <string>Interactive</string>
</dict>
</plist>`

type plistConfig struct {
	Label          string
	ExecutablePath string
	Arg            string
	LogPath        string
}

// LaunchAgentRegistrar implements domain.StartupRegistrar with a user LaunchAgent.
type LaunchAgentRegistrar struct {
	label     string
	plistDir  string
	plistPath string
	logPath   string
	run       commandRunner
}

// NewLaunchAgentRegistrar registers under ~/Library/LaunchAgents.
func NewLaunchAgentRegistrar() *LaunchAgentRegistrar {
	home, _ := os.UserHomeDir()
	return NewLaunchAgentRegistrarWithDir(filepath.Join(home, "Library/LaunchAgents"))
}

// NewLaunchAgentRegistrarWithDir registers in a specific directory (for testing).
func NewLaunchAgentRegistrarWithDir(dir string) *LaunchAgentRegistrar {
	return &LaunchAgentRegistrar{
		label:     launchdLabel,
		plistDir:  dir,
		plistPath: filepath.Join(dir, launchdLabel+".plist"),
		logPath:   filepath.Join(os.TempDir(), "smartfreeze.launchd.log"),
		run:       runCommand,
	}
}

// generatePlistContent creates plist content for the given exec path.
func (m *LaunchAgentRegistrar) generatePlistContent(execPath string) ([]byte, error) {
	config := plistConfig{
		Label:          m.label,
		ExecutablePath: execPath,
		Arg:            DaemonArg,
		LogPath:        m.logPath,
	}

	tmpl, err := template.New("plist").Parse(launchAgentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plist template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, config); err != nil {
		return nil, fmt.Errorf("failed to execute plist template: %w", err)
	}

	return buf.Bytes(), nil
}

// Install writes and loads the LaunchAgent plist.
func (m *LaunchAgentRegistrar) Install(execPath string) error {
	if err := os.MkdirAll(m.plistDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}

	content, err := m.generatePlistContent(execPath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}

	// Reinstalling replaces a loaded agent
	if m.IsInstalled() {
		_ = m.run("launchctl", "unload", m.plistPath)
	}

	if err := os.WriteFile(m.plistPath, content, 0644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}

	if err := m.run("launchctl", "load", m.plistPath); err != nil {
		return fmt.Errorf("%w: launchctl load: %v", domain.ErrStartupRegistration, err)
	}
	return nil
}

// Uninstall unloads and removes the plist.
func (m *LaunchAgentRegistrar) Uninstall() error {
	if !m.IsInstalled() {
		return nil
	}

	// Unload first (ignore errors if not loaded)
	_ = m.run("launchctl", "unload", m.plistPath)

	if err := os.Remove(m.plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrStartupRegistration, err)
	}
	return nil
}

// IsInstalled checks if the plist exists.
func (m *LaunchAgentRegistrar) IsInstalled() bool {
	_, err := os.Stat(m.plistPath)
	return err == nil
}

// Location returns the plist file path.
func (m *LaunchAgentRegistrar) Location() string {
	return m.plistPath
}

// Ensure LaunchAgentRegistrar implements domain.StartupRegistrar.
var _ domain.StartupRegistrar = (*LaunchAgentRegistrar)(nil)

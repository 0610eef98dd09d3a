package infra

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/focusd/smartfreeze/internal/domain"
)

func TestLaunchCommand(t *testing.T) {
	assert.Equal(t, `"C:\Program Files\SmartFreeze\smartfreeze.exe" daemon`,
		LaunchCommand(`C:\Program Files\SmartFreeze\smartfreeze.exe`))
	assert.Equal(t, `"/usr/local/bin/smartfreeze" daemon`, LaunchCommand("/usr/local/bin/smartfreeze"))
}

// recordingRunner captures launchctl invocations.
type recordingRunner struct {
	calls []string
	err   error
}

func (r *recordingRunner) run(name string, args ...string) error {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	return r.err
}

func newTestLaunchAgent(t *testing.T) (*LaunchAgentRegistrar, *recordingRunner) {
	t.Helper()
	runner := &recordingRunner{}
	reg := NewLaunchAgentRegistrarWithDir(filepath.Join(t.TempDir(), "LaunchAgents"))
	reg.run = runner.run
	return reg, runner
}

func TestLaunchAgentRegistrar_InstallUninstall(t *testing.T) {
	reg, runner := newTestLaunchAgent(t)
	assert.False(t, reg.IsInstalled())

	require.NoError(t, reg.Install("/Applications/SmartFreeze.app/Contents/MacOS/smartfreeze"))
	assert.True(t, reg.IsInstalled())
	assert.Equal(t, []string{"launchctl load " + reg.Location()}, runner.calls)

	content, err := os.ReadFile(reg.Location())
	require.NoError(t, err)
	assert.Contains(t, string(content), "<string>com.smartfreeze.daemon</string>")
	assert.Contains(t, string(content), "<string>/Applications/SmartFreeze.app/Contents/MacOS/smartfreeze</string>")
	assert.Contains(t, string(content), "<string>daemon</string>")
	assert.Contains(t, string(content), "<key>RunAtLoad</key>")

	require.NoError(t, reg.Uninstall())
	assert.False(t, reg.IsInstalled())
	assert.Equal(t, "launchctl unload "+reg.Location(), runner.calls[len(runner.calls)-1])

	// Uninstalling again is fine.
	require.NoError(t, reg.Uninstall())
}

func TestLaunchAgentRegistrar_ReinstallUnloadsFirst(t *testing.T) {
	reg, runner := newTestLaunchAgent(t)

	require.NoError(t, reg.Install("/bin/a"))
	require.NoError(t, reg.Install("/bin/b"))

	assert.Equal(t, []string{
		"launchctl load " + reg.Location(),
		"launchctl unload " + reg.Location(),
		"launchctl load " + reg.Location(),
	}, runner.calls)

	content, err := os.ReadFile(reg.Location())
	require.NoError(t, err)
	assert.Contains(t, string(content), "/bin/b")
	assert.NotContains(t, string(content), "/bin/a")
}

func TestLaunchAgentRegistrar_LoadFailure(t *testing.T) {
	reg, runner := newTestLaunchAgent(t)
	runner.err = errors.New("exit status 5")

	err := reg.Install("/bin/a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStartupRegistration))
}

func TestDesktopEntryRegistrar_InstallUninstall(t *testing.T) {
	reg := NewDesktopEntryRegistrarWithDir(filepath.Join(t.TempDir(), "autostart"))
	assert.False(t, reg.IsInstalled())
	assert.Equal(t, "smartfreeze.desktop", filepath.Base(reg.Location()))

	require.NoError(t, reg.Install("/opt/smartfreeze/smartfreeze"))
	assert.True(t, reg.IsInstalled())

	content, err := os.ReadFile(reg.Location())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[Desktop Entry]")
	assert.Contains(t, string(content), "Name=SmartFreeze")
	assert.Contains(t, string(content), `Exec="/opt/smartfreeze/smartfreeze" daemon`)

	require.NoError(t, reg.Uninstall())
	assert.False(t, reg.IsInstalled())
	require.NoError(t, reg.Uninstall())
}

func TestNewStartupRegistrar(t *testing.T) {
	reg := NewStartupRegistrar()
	require.NotNil(t, reg)
	assert.NotEmpty(t, reg.Location())
}

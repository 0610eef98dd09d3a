package daemon

import (
	"fmt"
	"os"
	"os/exec"
)

// StartDetached spawns "<exe> daemon [args...]" detached from the parent
// process and returns the child pid.
func StartDetached(args ...string) (int, error) {
	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to resolve executable: %w", err)
	}
	return StartDetachedWithPath(executable, args...)
}

// StartDetachedWithPath spawns the daemon from a specific binary.
func StartDetachedWithPath(executable string, args ...string) (int, error) {
	cmd := exec.Command(executable, append([]string{"daemon"}, args...)...)
	cmd.SysProcAttr = detachAttr()

	// No stdin/stdout/stderr - fully detached
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid

	// The child outlives us; don't keep a handle to it.
	_ = cmd.Process.Release()
	return pid, nil
}

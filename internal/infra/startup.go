package infra

import (
	"fmt"
	"os/exec"
)

const (
	// AppName keys the startup registration on every platform.
	AppName = "SmartFreeze"

	// DaemonArg is the subcommand a startup entry launches.
	DaemonArg = "daemon"

	launchdLabel    = "com.smartfreeze.daemon"
	desktopFileName = "smartfreeze.desktop"
)

// LaunchCommand renders the command line a startup entry runs: "<exe>" daemon.
func LaunchCommand(execPath string) string {
	return fmt.Sprintf(`"%s" %s`, execPath, DaemonArg)
}

// commandRunner runs an external tool; replaced in tests.
type commandRunner func(name string, args ...string) error

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

//go:build windows

package infra

import "golang.org/x/sys/windows"

// foregroundPID resolves the owner of the active window.
func foregroundPID() (int, bool) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return 0, false
	}

	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 {
		return 0, false
	}
	return int(pid), true
}

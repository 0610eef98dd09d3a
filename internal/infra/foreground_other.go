//go:build !windows

package infra

// foregroundPID has no portable equivalent outside Windows.
func foregroundPID() (int, bool) {
	return 0, false
}

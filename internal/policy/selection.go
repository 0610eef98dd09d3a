package policy

import "github.com/eliteGoblin/focusd/smartfreeze/internal/domain"

// IsSafeToFreeze reports whether a process may be suspended.
// Foreground, critical and gaming processes never are; communication apps
// are protected only when keepCommunication is set.
func IsSafeToFreeze(r domain.ProcessRecord, keepCommunication bool) bool {
	if r.IsForeground {
		return false
	}
	switch r.Category {
	case domain.CategoryCritical, domain.CategoryGaming:
		return false
	case domain.CategoryCommunication:
		return !keepCommunication
	default:
		return true
	}
}

// ProtectionReason explains why a process is never frozen, or "" if it can be.
func ProtectionReason(r domain.ProcessRecord) string {
	switch {
	case r.IsForeground:
		return "Foreground"
	case r.Category == domain.CategoryCritical:
		return "Critical"
	case r.Category == domain.CategoryGaming:
		return "Gaming"
	default:
		return ""
	}
}

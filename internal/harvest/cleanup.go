package harvest

import "strings"

// CleanupPolicy controls whether the remote working area is discarded after
// result collection.
type CleanupPolicy string

const (
	// CleanupNever keeps the remote job directory unconditionally.
	CleanupNever CleanupPolicy = "never"
	// CleanupAlways discards it even when downloads failed.
	CleanupAlways CleanupPolicy = "always"
	// CleanupIfSucceeded discards it only when every download succeeded.
	CleanupIfSucceeded CleanupPolicy = "if-job-succeeded"
)

// ParseCleanupPolicy normalizes a configuration string into a policy value.
// Unrecognized values pass through unchanged; ShouldCleanup treats them like
// CleanupIfSucceeded, matching the long-standing permissive behavior relied
// on by existing deployments. Strict rejection happens at config load time.
func ParseCleanupPolicy(value string) CleanupPolicy {
	return CleanupPolicy(strings.ToLower(strings.TrimSpace(value)))
}

// ShouldCleanup decides whether remote cleanup is requested for a job that
// finished collection with the given failures.
func ShouldCleanup(failures []error, policy CleanupPolicy) bool {
	switch policy {
	case CleanupNever:
		return false
	case CleanupAlways:
		return true
	default:
		return len(failures) == 0
	}
}

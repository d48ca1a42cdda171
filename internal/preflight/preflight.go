package preflight

import (
	"context"

	"stagehand/internal/actions"
	"stagehand/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is in use.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Staging and log directories (always checked)
	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	// Worker endpoint (when configured)
	if cfg.Remote.BaseURL != "" {
		results = append(results, CheckWorker(ctx, cfg.Remote.BaseURL))
	}

	// Shared mount (only when some action copies through it)
	if usesCopyAction(cfg) {
		results = append(results, CheckDirectoryAccess("Remote mount", cfg.Remote.MountDir))
	}

	return results
}

// AllPassed reports whether every check in results succeeded.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

func usesCopyAction(cfg *config.Config) bool {
	if cfg.Harvest.DefaultAction == actions.KindCopy {
		return true
	}
	for _, rule := range cfg.Harvest.PathRules {
		if rule.Action == actions.KindCopy {
			return true
		}
	}
	return false
}

package harvest

import (
	"context"
	"log/slog"
	"time"

	"stagehand/internal/logging"
)

// Outcome summarizes one finished harvest for callers that persist or render
// it. Cleanup problems are reported here for visibility but never count as
// job failures.
type Outcome struct {
	Failures         []error
	CleanupRequested bool
	CleanupErr       error
	Duration         time.Duration
}

// Failed reports whether the job is considered failed: true iff at least one
// transfer or action-resolution failure occurred.
func (o Outcome) Failed() bool {
	return len(o.Failures) > 0
}

// FinishJob harvests the results of one remote job and requests remote-side
// cleanup when the policy calls for it. It reports whether the job is
// considered failed and never returns an error: every per-file problem is
// captured in the failure list and every cleanup problem is downgraded to a
// warning.
func FinishJob(ctx context.Context, client RemoteClient, mapper ActionMapper, policy CleanupPolicy, completedNormally bool, spec *OutputSpec, report RemoteReport, logger *slog.Logger) bool {
	return Finish(ctx, client, mapper, policy, completedNormally, spec, report, logger).Failed()
}

// Finish is FinishJob with the full outcome exposed.
func Finish(ctx context.Context, client RemoteClient, mapper ActionMapper, policy CleanupPolicy, completedNormally bool, spec *OutputSpec, report RemoteReport, logger *slog.Logger) Outcome {
	logger = logging.NewComponentLogger(logger, "harvest")
	started := time.Now()

	var failures []error
	if completedNormally {
		failures = NewCollector(client, mapper, spec, report, logger).Collect(ctx)
	} else {
		logger.Info("job did not complete normally, skipping result collection",
			logging.String("working_directory", spec.WorkingDirectory),
		)
	}

	outcome := Outcome{Failures: failures}
	if ShouldCleanup(failures, policy) {
		outcome.CleanupRequested = true
		if err := client.Clean(ctx); err != nil {
			outcome.CleanupErr = err
			logger.Warn("failed to clean up remote job",
				logging.Error(err),
				logging.String(logging.FieldEventType, "remote_cleanup_failed"),
				logging.String(logging.FieldErrorHint, "remove the remote job directory manually"),
				logging.String(logging.FieldImpact, "remote disk space not reclaimed"),
			)
		}
	}
	outcome.Duration = time.Since(started)

	if outcome.Failed() {
		logger.Warn("harvest finished with failures",
			logging.Int("failure_count", len(failures)),
			logging.Duration("elapsed", outcome.Duration),
			logging.String(logging.FieldEventType, "harvest_failed"),
			logging.String(logging.FieldImpact, "some job outputs are missing"),
		)
	} else {
		logger.Info("harvest finished",
			logging.Bool("cleanup_requested", outcome.CleanupRequested),
			logging.Duration("elapsed", outcome.Duration),
		)
	}
	return outcome
}

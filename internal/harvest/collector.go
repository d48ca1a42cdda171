package harvest

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"

	"stagehand/internal/logging"
)

// Files marked as explicit working-directory outputs are always copied back.
// This pattern picks up the additional working-directory files of interest,
// such as those associated with multiple outputs and metadata configuration.
var incidentalOutputPattern = regexp.MustCompile(`^(?:primary_.*|galaxy\.json|metadata_.*|dataset_\d+\.dat|dataset_\d+_files.+)$`)

// MatchesIncidentalOutput reports whether a working-directory entry name
// should be copied back even though nothing declared it as an output.
func MatchesIncidentalOutput(name string) bool {
	return incidentalOutputPattern.MatchString(name)
}

// Collector walks the four output discovery phases for one job and
// accumulates transfer failures. A Collector is single-use and must not be
// shared across jobs.
type Collector struct {
	dispatcher *Dispatcher
	mapper     ActionMapper
	spec       *OutputSpec
	report     RemoteReport
	logger     *slog.Logger

	tracker    *FailureTracker
	downloaded map[string]struct{}

	// outputFiles is the collector's own working copy of the expected-output
	// set; phase 1 filters it before phase 2 iterates it.
	outputFiles []string
}

// NewCollector builds a collector for one job.
func NewCollector(client RemoteClient, mapper ActionMapper, spec *OutputSpec, report RemoteReport, logger *slog.Logger) *Collector {
	outputFiles := make([]string, len(spec.OutputFiles))
	copy(outputFiles, spec.OutputFiles)
	return &Collector{
		dispatcher:  NewDispatcher(client),
		mapper:      mapper,
		spec:        spec,
		report:      report,
		logger:      logging.NewComponentLogger(logger, "collector"),
		tracker:     &FailureTracker{},
		downloaded:  make(map[string]struct{}),
		outputFiles: outputFiles,
	}
}

// Collect runs the four collection phases in order and returns the
// accumulated failures. It never returns early: every candidate file gets an
// attempt regardless of earlier failures.
func (c *Collector) Collect(ctx context.Context) []error {
	c.collectWorkDirOutputs(ctx)
	c.collectOutputs(ctx)
	c.collectVersionFile(ctx)
	c.collectRemainingWorkDirFiles(ctx)
	return c.tracker.Failures()
}

// collectWorkDirOutputs fetches the explicit working-directory outputs. Each
// declared destination leaves the expected-output set whether or not its
// transfer succeeded, so phase 2 never fetches it a second time.
func (c *Collector) collectWorkDirOutputs(ctx context.Context) {
	helper := c.report.PathHelper()
	handled := make(map[string]struct{}, len(c.spec.WorkDirOutputs))
	for _, out := range c.spec.WorkDirOutputs {
		name, err := filepath.Rel(c.spec.WorkingDirectory, out.Source)
		if err != nil {
			name = filepath.Base(out.Source)
		}
		remoteName := helper.RemoteName(name)
		if c.attempt(ctx, CategoryWorkDir, out.Destination, remoteName) {
			c.downloaded[remoteName] = struct{}{}
		}
		handled[out.Destination] = struct{}{}
	}
	if len(handled) == 0 {
		return
	}
	remaining := c.outputFiles[:0]
	for _, path := range c.outputFiles {
		if _, ok := handled[path]; ok {
			continue
		}
		remaining = append(remaining, path)
	}
	c.outputFiles = remaining
}

// collectOutputs fetches the declared tool outputs still expected after phase
// 1, consulting the worker report to skip files it never produced. Legacy
// workers cannot answer, so those fetches fall back to client-side inference.
func (c *Collector) collectOutputs(ctx context.Context) {
	for _, path := range c.outputFiles {
		switch c.report.HasOutputFile(path) {
		case PresenceUnknown:
			c.attempt(ctx, CategoryLegacy, path, "")
		case PresencePresent:
			c.attempt(ctx, CategoryOutput, path, c.report.PathHelper().RemoteName(filepath.Base(path)))
		case PresenceAbsent:
			c.logger.Debug("skipping output the worker did not produce",
				logging.String("path", path),
			)
		}
		for _, extra := range c.report.OutputExtras(path) {
			c.attempt(ctx, CategoryOutput, extra.Path, extra.Name)
		}
	}
}

// collectVersionFile fetches the tool version metadata file when one was
// declared and the worker listing shows it was written.
func (c *Collector) collectVersionFile(ctx context.Context) {
	if c.spec.VersionFile == "" {
		return
	}
	// Legacy workers return no output-directory listing; the version file is
	// skipped rather than guessed at.
	contents, ok := c.report.OutputDirectoryContents()
	if !ok {
		return
	}
	for _, name := range contents {
		if name == CommandVersionFilename {
			c.attempt(ctx, CategoryOutput, c.spec.VersionFile, CommandVersionFilename)
			return
		}
	}
}

// collectRemainingWorkDirFiles scans the worker's working-directory listing
// for incidental files of interest not already fetched in phase 1.
func (c *Collector) collectRemainingWorkDirFiles(ctx context.Context) {
	contents, ok := c.report.WorkingDirectoryContents()
	if !ok {
		return
	}
	helper := c.report.PathHelper()
	for _, name := range contents {
		if _, done := c.downloaded[name]; done {
			continue
		}
		if !MatchesIncidentalOutput(name) {
			continue
		}
		path := filepath.Join(c.spec.WorkingDirectory, helper.LocalName(name))
		if c.attempt(ctx, CategoryWorkDir, path, name) {
			c.downloaded[name] = struct{}{}
		}
	}
}

// attempt resolves the action for one candidate and dispatches the transfer
// inside a tracker scope. It reports whether the file was collected.
func (c *Collector) attempt(ctx context.Context, category Category, path, name string) bool {
	collected := false
	c.tracker.Run(func() error {
		// The action category cannot be legacy: legacy only describes how the
		// attempt is dispatched, not how its destination is mapped.
		actionCategory := CategoryOutput
		if category == CategoryWorkDir {
			actionCategory = CategoryWorkDir
		}
		action, err := c.mapper.Action(path, actionCategory)
		if err != nil {
			return err
		}
		if err := c.dispatcher.Dispatch(ctx, category, action, c.spec.WorkingDirectory, path, name); err != nil {
			return err
		}
		collected = true
		return nil
	})
	if !collected {
		c.logger.Warn("collection attempt failed",
			logging.String("category", string(category)),
			logging.String("path", path),
			logging.String("name", name),
			logging.String(logging.FieldEventType, "collection_attempt_failed"),
			logging.String(logging.FieldImpact, "output missing on submitting host"),
		)
	}
	return collected
}

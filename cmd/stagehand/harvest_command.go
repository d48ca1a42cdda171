package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stagehand/internal/actions"
	"stagehand/internal/config"
	"stagehand/internal/harvest"
	"stagehand/internal/journal"
	"stagehand/internal/logging"
	"stagehand/internal/manifest"
	"stagehand/internal/preflight"
	"stagehand/internal/services"
	"stagehand/internal/transfer"
)

func newHarvestCommand(ctx *commandContext) *cobra.Command {
	var manifestPath string
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Collect the results of one finished job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			m, err := manifest.Load(strings.TrimSpace(manifestPath))
			if err != nil {
				return err
			}

			if !skipPreflight {
				results := preflight.RunAll(cmd.Context(), cfg)
				if !preflight.AllPassed(results) {
					printPreflight(cmd, results)
					return fmt.Errorf("preflight checks failed")
				}
			}

			lock, err := harvest.NewJobLock(m.Job.WorkingDirectory)
			if err != nil {
				return fmt.Errorf("prepare job lock: %w", err)
			}
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() {
				_ = lock.Release()
			}()

			client, err := transfer.NewClient(transfer.Options{
				BaseURL:   cfg.Remote.BaseURL,
				JobID:     m.Job.ID,
				MountDir:  cfg.Remote.MountDir,
				Separator: m.Job.Separator,
				Timeout:   time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			sessionID := uuid.NewString()
			runCtx := services.WithSessionID(cmd.Context(), sessionID)
			runCtx = services.WithJobID(runCtx, m.Job.ID)
			logger = logging.WithContext(runCtx, logger)

			spec := m.Spec()
			outcome := harvest.Finish(
				runCtx,
				client,
				actions.NewMapperFromConfig(cfg),
				harvest.ParseCleanupPolicy(cfg.Harvest.CleanupPolicy),
				m.Job.CompletedNormally,
				&spec,
				m.Report(),
				logger,
			)

			if err := recordRun(runCtx, cfg, sessionID, m, outcome); err != nil {
				// The harvest itself already happened; journal trouble is
				// reported but does not change the exit status semantics.
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: record run in journal: %v\n", err)
			}

			printOutcome(cmd, m, outcome)
			if outcome.Failed() {
				return fmt.Errorf("harvest finished with %d failure(s)", len(outcome.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Path to the job result manifest")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before harvesting")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func recordRun(ctx context.Context, cfg *config.Config, sessionID string, m *manifest.Manifest, outcome harvest.Outcome) error {
	store, err := journal.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := journal.Record{
		SessionID:         sessionID,
		JobName:           m.Job.Name,
		WorkingDirectory:  m.Job.WorkingDirectory,
		CompletedNormally: m.Job.CompletedNormally,
		Failed:            outcome.Failed(),
		FailureCount:      len(outcome.Failures),
		CleanupRequested:  outcome.CleanupRequested,
		Duration:          outcome.Duration,
	}
	for _, failure := range outcome.Failures {
		rec.Failures = append(rec.Failures, failure.Error())
	}
	if outcome.CleanupErr != nil {
		rec.CleanupError = outcome.CleanupErr.Error()
	}
	_, err = store.Add(ctx, rec)
	return err
}

func printOutcome(cmd *cobra.Command, m *manifest.Manifest, outcome harvest.Outcome) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	if outcome.Failed() {
		fmt.Fprintln(out, renderStatusLine("Harvest", statusError,
			fmt.Sprintf("%s: %d failure(s)", m.Job.Name, len(outcome.Failures)), colorize))
		for _, failure := range outcome.Failures {
			fmt.Fprintf(out, "%s- %v\n", statusIndent, failure)
		}
	} else {
		fmt.Fprintln(out, renderStatusLine("Harvest", statusOK, m.Job.Name, colorize))
	}

	switch {
	case outcome.CleanupErr != nil:
		fmt.Fprintln(out, renderStatusLine("Cleanup", statusWarn,
			fmt.Sprintf("requested but failed: %v", outcome.CleanupErr), colorize))
	case outcome.CleanupRequested:
		fmt.Fprintln(out, renderStatusLine("Cleanup", statusOK, "remote job directory removed", colorize))
	default:
		fmt.Fprintln(out, renderStatusLine("Cleanup", statusInfo, "skipped by policy", colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, outcome.Duration.Round(time.Millisecond).String(), colorize))
}

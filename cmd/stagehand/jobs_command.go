package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"stagehand/internal/journal"
)

var statusTitler = cases.Title(language.English)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect the harvest journal",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsStatsCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent harvest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No harvest runs recorded yet.")
				return nil
			}

			headers := []string{"ID", "Job", "Status", "Failures", "Cleanup", "Duration", "When"}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					rec.JobName,
					statusTitler.String(rec.Status()),
					strconv.Itoa(rec.FailureCount),
					yesNo(rec.CleanupRequested),
					rec.Duration.Round(time.Millisecond).String(),
					rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func newJobsStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the harvest journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Total runs", statusInfo, strconv.Itoa(stats.Total), colorize))
			fmt.Fprintln(out, renderStatusLine("Succeeded", statusOK, strconv.Itoa(stats.Succeeded), colorize))
			kind := statusOK
			if stats.Failed > 0 {
				kind = statusWarn
			}
			fmt.Fprintln(out, renderStatusLine("Failed", kind, strconv.Itoa(stats.Failed), colorize))
			fmt.Fprintln(out, renderStatusLine("Cleaned", statusInfo, strconv.Itoa(stats.Cleaned), colorize))
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

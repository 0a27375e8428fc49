package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"photokeep/internal/diskusage"
	"photokeep/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent backup and rating runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled; set enabled = true under [history] in the config file")
			}
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			backups, err := store.ListBackupRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list backup runs: %w", err)
			}
			ratingRuns, err := store.ListRatingRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list rating runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(backups) == 0 && len(ratingRuns) == 0 {
				fmt.Fprintln(out, "No recorded runs yet.")
				return nil
			}

			if len(backups) > 0 {
				fmt.Fprintln(out, "Backup runs:")
				fmt.Fprintln(out, renderBackupRuns(backups))
			}
			if len(ratingRuns) > 0 {
				fmt.Fprintln(out, "Rating runs:")
				fmt.Fprintln(out, renderRatingRuns(ratingRuns))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show per table")
	return cmd
}

func renderBackupRuns(runs []history.BackupRun) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := "ok"
		if !run.Success {
			status = "failed"
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format(time.DateTime),
			run.Destination,
			diskusage.FormatBytes(uint64(run.BytesSent)),
			status,
			yesNo(run.Unmounted),
		})
	}
	return renderTable(
		[]string{"Started", "Destination", "Sent", "Status", "Unmounted"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

func renderRatingRuns(runs []history.RatingRun) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.StartedAt.Local().Format(time.DateTime),
			run.BaseDir,
			strconv.Itoa(run.Scanned),
			strconv.Itoa(run.Applied),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Missing),
		})
	}
	return renderTable(
		[]string{"Started", "Directory", "Scanned", "Applied", "Skipped", "Missing"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"photokeep/internal/deps"
	"photokeep/internal/ratings"
	"photokeep/internal/services/exiftool"
)

func newRatingsCommand(ctx *commandContext) *cobra.Command {
	ratingsCmd := &cobra.Command{
		Use:   "ratings",
		Short: "Rating utilities",
	}

	ratingsCmd.AddCommand(newRatingsSyncCommand(ctx))
	return ratingsCmd
}

func newRatingsSyncCommand(ctx *commandContext) *cobra.Command {
	var basePath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Propagate sidecar ratings onto the developed images",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := deps.Check("exiftool", cfg.Ratings.ExiftoolBinary); err != nil {
				return err
			}

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			client, err := exiftool.New(cfg.Ratings.ExiftoolBinary)
			if err != nil {
				return err
			}

			opts := []ratings.Option{}
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, ratings.WithRecorder(store))
			}

			propagator := ratings.New(cfg.Ratings, client, logger, opts...)
			summary, err := propagator.Sync(cmd.Context(), basePath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d sidecars: %d applied, %d skipped, %d targets missing\n",
				summary.Scanned, summary.Applied, summary.Skipped, summary.Missing)
			if summary.Applied == 0 {
				fmt.Fprintln(out, "No ratings were applied.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&basePath, "path", "p", "", "Base directory containing the raw and developed subdirectories")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

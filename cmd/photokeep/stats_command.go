package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"photokeep/internal/deps"
	"photokeep/internal/services/exiftool"
	"photokeep/internal/stats"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var basePath string
	var minRating int
	var lens string
	var exportCSV bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate exposure statistics for rated images",
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

			if minRating == 0 {
				minRating = cfg.Stats.MinRating
			}

			analyzer := stats.New(client, logger)
			analysis, err := analyzer.Scan(cmd.Context(), basePath, stats.Options{
				MinRating: minRating,
				Lens:      lens,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(analysis.Records) == 0 {
				fmt.Fprintf(out, "No images with rating >= %d", minRating)
				if lens != "" {
					fmt.Fprintf(out, " and lens %q", lens)
				}
				fmt.Fprintf(out, " found under %s\n", basePath)
				return nil
			}

			fmt.Fprintf(out, "Analyzed %d of %d images\n", len(analysis.Records), analysis.Scanned)
			printDistribution(cmd, "F-Stop", analysis.FStopDistribution())
			printDistribution(cmd, "ISO", analysis.ISODistribution())
			printDistribution(cmd, "Shutter Speed", analysis.ShutterDistribution())
			printDistribution(cmd, "Focal Length", analysis.FocalLengthDistribution())

			if exportCSV {
				path, err := stats.ExportCSV(cfg.Stats.OutputDir, analysis.Records)
				if err != nil {
					return fmt.Errorf("export csv: %w", err)
				}
				fmt.Fprintf(out, "Analysis saved to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&basePath, "path", "p", "", "Directory tree to analyze")
	cmd.Flags().IntVar(&minRating, "min-rating", 0, "Only include images rated at least this value")
	cmd.Flags().StringVar(&lens, "lens", "", "Only include images shot with this lens model")
	cmd.Flags().BoolVar(&exportCSV, "csv", false, "Export the per-image records as CSV")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func printDistribution(cmd *cobra.Command, title string, buckets []stats.Bucket) {
	if len(buckets) == 0 {
		return
	}
	rows := make([][]string, 0, len(buckets))
	for _, bucket := range buckets {
		rows = append(rows, []string{bucket.Label, strconv.Itoa(bucket.Count)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{title, "Images"}, rows, []columnAlignment{alignLeft, alignRight}))
}

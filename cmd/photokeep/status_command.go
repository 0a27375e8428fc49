package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"photokeep/internal/mount"
	"photokeep/internal/preflight"
	"photokeep/internal/services"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool, directory, and backup volume health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("External tools", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind := statusOK
				detail := status.Command
				if !status.Available {
					detail = status.Detail
					kind = statusError
					if status.Optional {
						kind = statusWarn
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Directories", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Backup volume", colorize) {
				fmt.Fprintln(out, line)
			}
			probe := preflight.ProbeVolume(cfg.Backup, mount.New(), services.CommandExecutor{})
			kind := statusWarn
			if probe.Detected {
				kind = statusOK
			}
			fmt.Fprintln(out, renderStatusLine("Volume", kind, probe.Detail(), colorize))

			return nil
		},
	}
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"photokeep/internal/backup"
	"photokeep/internal/device"
	"photokeep/internal/diskusage"
	"photokeep/internal/mount"
	"photokeep/internal/services/rsync"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	var wait bool
	var skipUnmount bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Mirror the configured source directories to the backup volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.BackupConfigured() {
				return fmt.Errorf("no source directories configured; set source_directories under [backup] in the config file")
			}

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			backupCfg := cfg.Backup
			if wait {
				watcher, err := device.NewWatcher(logger, backupCfg.DevicePath, backupCfg.VolumeLabel)
				if err != nil {
					return err
				}
				devnode, err := watcher.WaitFor(cmd.Context())
				if err != nil {
					return err
				}
				backupCfg.DevicePath = devnode
			}

			mirror, err := rsync.New(backupCfg.RsyncBinary, backupCfg.MirrorTimeout)
			if err != nil {
				return err
			}
			usage := diskusage.StatfsReporter{}

			opts := []backup.Option{backup.WithSkipUnmount(skipUnmount)}
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, backup.WithRecorder(store))
			}

			runner := backup.New(backupCfg, cfg.LockFilePath(), mount.New(), mirror, usage, logger, opts...)
			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backup complete in %s\n", report.Duration.Round(time.Second))
			fmt.Fprintf(out, "  Transferred:  %s\n", diskusage.FormatBytes(uint64(report.BytesSent)))
			if report.UsageAfter.TotalBytes > 0 {
				fmt.Fprintf(out, "  Volume:       %s\n", report.UsageAfter.String())
			}
			if !report.Unmounted {
				if size, err := usage.TreeSize(backupCfg.MountPoint); err == nil {
					fmt.Fprintf(out, "  Mirror size:  %s\n", diskusage.FormatBytes(size))
				}
			}
			fmt.Fprintf(out, "  Unmounted:    %s\n", yesNo(report.Unmounted))
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the backup drive to be plugged in")
	cmd.Flags().BoolVar(&skipUnmount, "skip-unmount", false, "Leave the volume mounted after the backup")
	return cmd
}

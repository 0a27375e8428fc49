package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Backup settings are only
// validated when at least one of them is configured: ratings sync and stats
// work without an external drive.
func (c *Config) Validate() error {
	if err := c.validateBackup(); err != nil {
		return err
	}
	if err := c.validateRatings(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Stats.MinRating < 0 || c.Stats.MinRating > 5 {
		return errors.New("stats.min_rating must be between 0 and 5")
	}
	return nil
}

// BackupConfigured reports whether enough backup settings exist to run.
func (c *Config) BackupConfigured() bool {
	return len(c.Backup.SourceDirectories) > 0
}

func (c *Config) validateBackup() error {
	if !c.BackupConfigured() {
		return nil
	}
	if c.Backup.MountPoint == "" {
		return errors.New("backup.mount_point must be set")
	}
	if c.Backup.DevicePath == "" && c.Backup.VolumeLabel == "" {
		return errors.New("backup.device_path or backup.volume_label must be set")
	}
	if c.Backup.MirrorTimeout < 0 {
		return errors.New("backup.mirror_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateRatings() error {
	if c.Ratings.RawDirName == c.Ratings.JpegDirName {
		return fmt.Errorf("ratings.raw_dir_name and ratings.jpeg_dir_name must differ (both %q)", c.Ratings.RawDirName)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

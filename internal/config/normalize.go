package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBackup(); err != nil {
		return err
	}
	c.normalizeRatings()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeBackup() error {
	c.Backup.VolumeLabel = strings.TrimSpace(c.Backup.VolumeLabel)
	c.Backup.DevicePath = strings.TrimSpace(c.Backup.DevicePath)

	var err error
	if c.Backup.MountPoint, err = expandPath(strings.TrimSpace(c.Backup.MountPoint)); err != nil {
		return fmt.Errorf("backup.mount_point: %w", err)
	}

	sources := make([]string, 0, len(c.Backup.SourceDirectories))
	for _, dir := range c.Backup.SourceDirectories {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("backup.source_directories: %w", err)
		}
		sources = append(sources, expanded)
	}
	c.Backup.SourceDirectories = sources

	c.Backup.RsyncBinary = strings.TrimSpace(c.Backup.RsyncBinary)
	if c.Backup.RsyncBinary == "" {
		c.Backup.RsyncBinary = defaultRsyncBinary
	}
	return nil
}

func (c *Config) normalizeRatings() {
	c.Ratings.RawDirName = strings.TrimSpace(c.Ratings.RawDirName)
	if c.Ratings.RawDirName == "" {
		c.Ratings.RawDirName = defaultRawDirName
	}
	c.Ratings.JpegDirName = strings.TrimSpace(c.Ratings.JpegDirName)
	if c.Ratings.JpegDirName == "" {
		c.Ratings.JpegDirName = defaultJpegDirName
	}
	c.Ratings.RawExtension = strings.Trim(strings.TrimSpace(c.Ratings.RawExtension), ".")
	if c.Ratings.RawExtension == "" {
		c.Ratings.RawExtension = defaultRawExtension
	}
	c.Ratings.TargetExtension = strings.Trim(strings.TrimSpace(c.Ratings.TargetExtension), ".")
	if c.Ratings.TargetExtension == "" {
		c.Ratings.TargetExtension = defaultTargetExtension
	}
	c.Ratings.ExiftoolBinary = strings.TrimSpace(c.Ratings.ExiftoolBinary)
	if c.Ratings.ExiftoolBinary == "" {
		c.Ratings.ExiftoolBinary = defaultExiftoolBinary
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryDBPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if strings.TrimSpace(c.Stats.OutputDir) != "" {
		if c.Stats.OutputDir, err = expandPath(c.Stats.OutputDir); err != nil {
			return fmt.Errorf("stats.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

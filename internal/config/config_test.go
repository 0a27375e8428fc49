package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"photokeep/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(tempHome); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "photokeep", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Ratings.RawDirName != "RAW" || cfg.Ratings.JpegDirName != "JPG" {
		t.Fatalf("unexpected ratings dirs: %q/%q", cfg.Ratings.RawDirName, cfg.Ratings.JpegDirName)
	}
	if cfg.Ratings.ExiftoolBinary != "exiftool" {
		t.Fatalf("unexpected exiftool binary: %q", cfg.Ratings.ExiftoolBinary)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.History.Path != filepath.Join(tempHome, ".local", "share", "photokeep", "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.BackupConfigured() {
		t.Fatal("expected backup unconfigured by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.LogDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "photokeep.toml")

	type payload struct {
		Backup struct {
			VolumeLabel       string   `toml:"volume_label"`
			MountPoint        string   `toml:"mount_point"`
			SourceDirectories []string `toml:"source_directories"`
		} `toml:"backup"`
		Ratings struct {
			RawExtension string `toml:"raw_extension"`
		} `toml:"ratings"`
	}
	custom := payload{}
	custom.Backup.VolumeLabel = "PHOTOSSD"
	custom.Backup.MountPoint = filepath.Join(tempDir, "mnt")
	custom.Backup.SourceDirectories = []string{filepath.Join(tempDir, "Camera"), "  "}
	custom.Ratings.RawExtension = ".dng"

	raw, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if len(cfg.Backup.SourceDirectories) != 1 {
		t.Fatalf("expected blank source entries dropped, got %v", cfg.Backup.SourceDirectories)
	}
	if cfg.Ratings.RawExtension != "dng" {
		t.Fatalf("expected leading dot stripped, got %q", cfg.Ratings.RawExtension)
	}
	if !cfg.BackupConfigured() {
		t.Fatal("expected backup configured")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name: "missing device identification",
			mutate: func(c *config.Config) {
				c.Backup.SourceDirectories = []string{"/tmp/photos"}
				c.Backup.MountPoint = "/mnt/x"
			},
			want: "device_path or backup.volume_label",
		},
		{
			name: "identical ratings dirs",
			mutate: func(c *config.Config) {
				c.Ratings.RawDirName = "SAME"
				c.Ratings.JpegDirName = "SAME"
			},
			want: "must differ",
		},
		{
			name: "bad log format",
			mutate: func(c *config.Config) {
				c.Logging.Format = "yaml"
			},
			want: "logging.format",
		},
		{
			name: "min rating out of range",
			mutate: func(c *config.Config) {
				c.Stats.MinRating = 9
			},
			want: "stats.min_rating",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(raw), "[backup]") {
		t.Fatal("expected sample to contain [backup] section")
	}

	var cfg config.Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
}

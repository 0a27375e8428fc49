package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Backup contains configuration for the checksummed mirror backup.
type Backup struct {
	// VolumeLabel identifies the external drive by filesystem label. Used to
	// resolve the device when DevicePath is empty and to match hotplug events.
	VolumeLabel string `toml:"volume_label"`
	// DevicePath is the block device node (e.g. /dev/sda1). Optional when
	// VolumeLabel is set.
	DevicePath        string   `toml:"device_path"`
	MountPoint        string   `toml:"mount_point"`
	SourceDirectories []string `toml:"source_directories"`
	RsyncBinary       string   `toml:"rsync_binary"`
	// MirrorTimeout bounds the rsync run in seconds. Zero disables the bound.
	MirrorTimeout int `toml:"mirror_timeout"`
}

// Ratings contains configuration for sidecar rating propagation.
type Ratings struct {
	RawDirName      string `toml:"raw_dir_name"`
	JpegDirName     string `toml:"jpeg_dir_name"`
	RawExtension    string `toml:"raw_extension"`
	TargetExtension string `toml:"target_extension"`
	ExiftoolBinary  string `toml:"exiftool_binary"`
}

// Stats contains configuration for the EXIF statistics scan.
type Stats struct {
	MinRating int    `toml:"min_rating"`
	OutputDir string `toml:"output_dir"`
}

// Paths contains directory configuration shared across commands.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for photokeep.
type Config struct {
	Backup  Backup  `toml:"backup"`
	Ratings Ratings `toml:"ratings"`
	Stats   Stats   `toml:"stats"`
	Paths   Paths   `toml:"paths"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/photokeep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("photokeep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories photokeep owns. Source and mount
// directories are deliberately not created here: their absence is a
// precondition failure the backup runner must report, not paper over.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	if c.History.Enabled {
		if dir := filepath.Dir(c.History.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create directory %q: %w", dir, err)
			}
		}
	}
	if strings.TrimSpace(c.Stats.OutputDir) != "" {
		if err := os.MkdirAll(c.Stats.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", c.Stats.OutputDir, err)
		}
	}
	return nil
}

// HistoryDBPath returns the resolved history database location.
func (c *Config) HistoryDBPath() string {
	return c.History.Path
}

// LockFilePath returns the lock file guarding concurrent backup runs.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.LogDir, "photokeep.lock")
}

// LogFilePath returns the file commands append their structured logs to.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "photokeep.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package preflight

import (
	"fmt"

	"photokeep/internal/config"
)

// RunAll executes all applicable filesystem checks for the given config.
// Checks are only run for features the config actually enables.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	for i, source := range cfg.Backup.SourceDirectories {
		results = append(results, CheckSourceAccess(fmt.Sprintf("Source %d", i+1), source))
	}
	if cfg.Backup.MountPoint != "" {
		results = append(results, CheckMountPoint(cfg.Backup.MountPoint))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	return results
}

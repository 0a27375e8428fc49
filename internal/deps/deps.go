package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"photokeep/internal/config"
)

// Requirement defines an external dependency photokeep relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external tools photokeep shells out to, resolved
// against the configured binary overrides.
func Requirements(cfg *config.Config) []Requirement {
	rsync := "rsync"
	exiftool := "exiftool"
	if cfg != nil {
		rsync = cfg.Backup.RsyncBinary
		exiftool = cfg.Ratings.ExiftoolBinary
	}
	return []Requirement{
		{Name: "rsync", Command: rsync, Description: "Required for checksummed mirror backups"},
		{Name: "exiftool", Command: exiftool, Description: "Required for reading and writing image ratings"},
		{Name: "mount", Command: "mount", Description: "Required to attach the backup volume"},
		{Name: "umount", Command: "umount", Description: "Required to detach the backup volume"},
		{Name: "lsblk", Command: "lsblk", Description: "Used to resolve the backup device by volume label", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Check verifies a single binary, returning an error suitable for a fatal
// precondition failure when it is missing.
func Check(name, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("%s: command not configured", name)
	}
	if _, err := exec.LookPath(command); err != nil {
		return fmt.Errorf("%s is not installed (looked for %q): %w", name, command, err)
	}
	return nil
}

package mount

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"photokeep/internal/services"
)

// Mounter is the capability the backup runner depends on.
type Mounter interface {
	Mount(ctx context.Context, device, target string) error
	Unmount(ctx context.Context, target string) error
	IsMounted(target string) (bool, error)
}

// Option configures the manager.
type Option func(*Manager)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(m *Manager) {
		if exec != nil {
			m.exec = exec
		}
	}
}

// WithMountTable overrides the mount table location (primarily for tests).
func WithMountTable(path string) Option {
	return func(m *Manager) {
		if strings.TrimSpace(path) != "" {
			m.mtabPath = path
		}
	}
}

// Manager implements Mounter on top of mount(8)/umount(8) and the kernel
// mount table.
type Manager struct {
	exec     services.Executor
	mtabPath string
}

// New constructs a mount manager with production defaults.
func New(opts ...Option) *Manager {
	m := &Manager{
		exec:     services.CommandExecutor{},
		mtabPath: "/proc/self/mounts",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount attaches device at target, creating the mount point when absent.
func (m *Manager) Mount(ctx context.Context, device, target string) error {
	device = strings.TrimSpace(device)
	target = strings.TrimSpace(target)
	if device == "" {
		return services.Wrap(services.ErrConfiguration, "mount", "attach", "no device specified", nil)
	}
	if target == "" {
		return services.Wrap(services.ErrConfiguration, "mount", "attach", "no mount point specified", nil)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "mount", "attach", fmt.Sprintf("create mount point %q", target), err)
	}
	if err := m.exec.Run(ctx, "mount", []string{device, target}, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "mount", "attach", fmt.Sprintf("mount %s at %s", device, target), err)
	}
	return nil
}

// Unmount detaches the filesystem mounted at target.
func (m *Manager) Unmount(ctx context.Context, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return services.Wrap(services.ErrConfiguration, "mount", "detach", "no mount point specified", nil)
	}
	if err := m.exec.Run(ctx, "umount", []string{target}, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "mount", "detach", fmt.Sprintf("umount %s", target), err)
	}
	return nil
}

// IsMounted reports whether target appears in the mount table.
func (m *Manager) IsMounted(target string) (bool, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return false, errors.New("no mount point specified")
	}
	entries, err := readMountTable(m.mtabPath)
	if err != nil {
		return false, fmt.Errorf("read mount table: %w", err)
	}
	for _, entry := range entries {
		if entry.MountPoint == target {
			return true, nil
		}
	}
	return false, nil
}

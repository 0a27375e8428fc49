package preflight

import (
	"context"
	"fmt"
	"time"

	"photokeep/internal/config"
	"photokeep/internal/mount"
	"photokeep/internal/services"
)

// VolumeProbe reports the current backup-volume detection snapshot.
type VolumeProbe struct {
	Detected   bool
	Device     string
	MountPoint string
	Mounted    bool
}

// ProbeVolume attempts to locate the configured backup volume and reports
// whether it is currently attached and mounted.
func ProbeVolume(cfg config.Backup, mounter mount.Mounter, exec services.Executor) VolumeProbe {
	probe := VolumeProbe{MountPoint: cfg.MountPoint}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	device, err := mount.ResolveDevice(ctx, exec, cfg.DevicePath, cfg.VolumeLabel)
	if err == nil {
		probe.Detected = true
		probe.Device = device
	}

	if mounter != nil {
		if mounted, err := mounter.IsMounted(cfg.MountPoint); err == nil {
			probe.Mounted = mounted
		}
	}
	return probe
}

// Detail renders a display-friendly summary for status UIs.
func (p VolumeProbe) Detail() string {
	if !p.Detected {
		return "Backup volume not detected"
	}
	if p.Mounted {
		return fmt.Sprintf("%s mounted on %s", p.Device, p.MountPoint)
	}
	return fmt.Sprintf("%s detected, not mounted", p.Device)
}

// Package device waits for the external backup drive to appear, using udev
// netlink events so `photokeep backup --wait` can start before the drive is
// plugged in.
package device

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"photokeep/internal/logging"
)

// Watcher listens for block-device add/change events matching the configured
// backup drive.
type Watcher struct {
	logger      *slog.Logger
	devicePath  string
	volumeLabel string
}

// NewWatcher creates a watcher for a device node and/or volume label. At
// least one must be non-empty.
func NewWatcher(logger *slog.Logger, devicePath, volumeLabel string) (*Watcher, error) {
	devicePath = strings.TrimSpace(devicePath)
	volumeLabel = strings.TrimSpace(volumeLabel)
	if devicePath == "" && volumeLabel == "" {
		return nil, errors.New("device path or volume label required")
	}
	return &Watcher{
		logger:      logging.NewComponentLogger(logger, "device-watch"),
		devicePath:  devicePath,
		volumeLabel: volumeLabel,
	}, nil
}

// WaitFor blocks until the configured device appears, returning its device
// node. A device node that already exists returns immediately.
func (w *Watcher) WaitFor(ctx context.Context) (string, error) {
	if w.devicePath != "" {
		if _, err := os.Stat(w.devicePath); err == nil {
			w.logger.Debug("device already present", logging.String("device", w.devicePath))
			return w.devicePath, nil
		}
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return "", errors.New("connect to udev netlink socket: " + err.Error())
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, w.buildMatcher())
	defer close(monitorQuit)

	w.logger.Info("waiting for backup drive",
		logging.String("device", w.devicePath),
		logging.String("volume_label", w.volumeLabel),
	)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case uevent := <-queue:
			if devnode, ok := w.matchEvent(uevent.Env); ok {
				w.logger.Info("backup drive detected", logging.String("device", devnode))
				return devnode, nil
			}
		case err := <-errs:
			w.logger.Warn("udev monitor error", logging.Error(err))
		}
	}
}

// buildMatcher restricts netlink events to block device additions.
func (w *Watcher) buildMatcher() netlink.Matcher {
	action := "add|change"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "block",
		},
	})
	return rules
}

// matchEvent reports whether a uevent environment describes the configured
// drive, returning the device node when it does.
func (w *Watcher) matchEvent(env map[string]string) (string, bool) {
	devname := strings.TrimSpace(env["DEVNAME"])
	if devname == "" {
		return "", false
	}
	if !strings.HasPrefix(devname, "/dev/") {
		devname = "/dev/" + devname
	}
	if w.devicePath != "" && devname == w.devicePath {
		return devname, true
	}
	if w.volumeLabel != "" && env["ID_FS_LABEL"] == w.volumeLabel {
		return devname, true
	}
	return "", false
}

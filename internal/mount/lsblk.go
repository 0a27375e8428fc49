package mount

import (
	"context"
	"fmt"
	"strings"

	"photokeep/internal/services"
)

// ResolveDevice returns the block device node for the backup volume. An
// explicit device path wins; otherwise the volume label is looked up via
// lsblk.
func ResolveDevice(ctx context.Context, exec services.Executor, devicePath, volumeLabel string) (string, error) {
	devicePath = strings.TrimSpace(devicePath)
	if devicePath != "" {
		return devicePath, nil
	}
	volumeLabel = strings.TrimSpace(volumeLabel)
	if volumeLabel == "" {
		return "", fmt.Errorf("no device path or volume label configured")
	}

	output, err := exec.Output(ctx, "lsblk", []string{"-P", "-o", "NAME,LABEL,FSTYPE"})
	if err != nil {
		return "", fmt.Errorf("run lsblk: %w", err)
	}

	device := findDeviceByLabel(output, volumeLabel)
	if device == "" {
		return "", fmt.Errorf("no block device with label %q", volumeLabel)
	}
	return device, nil
}

func findDeviceByLabel(output, label string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		data := parseLSBLKKeyValueLine(line)
		if len(data) == 0 {
			continue
		}
		if data["LABEL"] == label && data["NAME"] != "" {
			return "/dev/" + data["NAME"]
		}
	}
	return ""
}

func parseLSBLKKeyValueLine(line string) map[string]string {
	result := make(map[string]string)
	fields := strings.Fields(line)
	for _, field := range fields {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		result[key] = value
	}
	return result
}

package device

import (
	"testing"

	"photokeep/internal/logging"
)

func TestNewWatcherRequiresIdentification(t *testing.T) {
	if _, err := NewWatcher(logging.NewNop(), "", ""); err == nil {
		t.Fatal("expected error without device path or label")
	}
}

func TestMatchEvent(t *testing.T) {
	watcher, err := NewWatcher(logging.NewNop(), "/dev/sda1", "PHOTOSSD")
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	cases := []struct {
		name string
		env  map[string]string
		want string
		ok   bool
	}{
		{
			name: "device node match",
			env:  map[string]string{"DEVNAME": "sda1"},
			want: "/dev/sda1",
			ok:   true,
		},
		{
			name: "label match on different node",
			env:  map[string]string{"DEVNAME": "/dev/sdb1", "ID_FS_LABEL": "PHOTOSSD"},
			want: "/dev/sdb1",
			ok:   true,
		},
		{
			name: "unrelated device",
			env:  map[string]string{"DEVNAME": "/dev/sdc1", "ID_FS_LABEL": "OTHER"},
		},
		{
			name: "missing devname",
			env:  map[string]string{"ID_FS_LABEL": "PHOTOSSD"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := watcher.matchEvent(tc.env)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("matchEvent(%v) = %q,%v want %q,%v", tc.env, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMatchEventLabelOnly(t *testing.T) {
	watcher, err := NewWatcher(logging.NewNop(), "", "PHOTOSSD")
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	got, ok := watcher.matchEvent(map[string]string{"DEVNAME": "sdb1", "ID_FS_LABEL": "PHOTOSSD"})
	if !ok || got != "/dev/sdb1" {
		t.Fatalf("unexpected match: %q,%v", got, ok)
	}
}

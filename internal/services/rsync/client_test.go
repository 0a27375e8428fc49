package rsync

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeExecutor struct {
	binary string
	args   []string
	lines  []string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, onLine func(string)) error {
	f.binary = binary
	f.args = args
	for _, line := range f.lines {
		if onLine != nil {
			onLine(line)
		}
	}
	return f.err
}

func (f *fakeExecutor) Output(context.Context, string, []string) (string, error) {
	return "", errors.New("not implemented")
}

func TestMirrorBuildsFixedFlagSet(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("rsync", 0, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := client.Mirror(context.Background(), []string{"/a", "/b"}, "/mnt/dest", nil); err != nil {
		t.Fatalf("Mirror: %v", err)
	}

	got := strings.Join(exec.args, " ")
	want := "-aAXvh --progress --checksum --no-owner --no-group /a /b /mnt/dest"
	if got != want {
		t.Fatalf("unexpected args: %q", got)
	}
}

func TestMirrorStreamsProgressAndStats(t *testing.T) {
	exec := &fakeExecutor{lines: []string{
		"sending incremental file list",
		"Camera/DSCF0001.RAF",
		"     12.34M  45%   11.23MB/s    0:00:01",
		"sent 1,234,567 bytes  received 99 bytes  823,110.67 bytes/sec",
	}}
	client, err := New("rsync", 0, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var percents []float64
	stats, err := client.Mirror(context.Background(), []string{"/a"}, "/dest", func(u ProgressUpdate) {
		if u.Percent >= 0 {
			percents = append(percents, u.Percent)
		}
	})
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}

	if len(percents) != 1 || percents[0] != 45 {
		t.Fatalf("unexpected percents: %v", percents)
	}
	if stats.BytesSent != 1234567 {
		t.Fatalf("unexpected bytes sent: %d", stats.BytesSent)
	}
}

func TestMirrorFailurePropagates(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 23")}
	client, err := New("rsync", 0, WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := client.Mirror(context.Background(), []string{"/a"}, "/dest", nil); err == nil {
		t.Fatal("expected mirror failure")
	}
}

func TestMirrorRejectsEmptyInputs(t *testing.T) {
	client, err := New("rsync", 0, WithExecutor(&fakeExecutor{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Mirror(context.Background(), nil, "/dest", nil); err == nil {
		t.Fatal("expected error for empty sources")
	}
	if _, err := client.Mirror(context.Background(), []string{"/a"}, " ", nil); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New("  ", 0); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		line string
		want float64
		ok   bool
	}{
		{"     12.34M  45%   11.23MB/s", 45, true},
		{"    1.00G 100%  250.12MB/s", 100, true},
		{"sending incremental file list", 0, false},
		{"Camera/DSCF0001.RAF", 0, false},
	}
	for _, tc := range cases {
		got, ok := parsePercent(tc.line)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parsePercent(%q) = %v,%v want %v,%v", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}

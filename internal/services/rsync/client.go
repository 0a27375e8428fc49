package rsync

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"photokeep/internal/services"
)

// mirrorArgs are the fixed flags for every mirror run: archive mode with
// ACLs/xattrs, human-readable verbose output, per-file progress, checksum
// comparison, and no ownership/group preservation on the target volume.
var mirrorArgs = []string{"-aAXvh", "--progress", "--checksum", "--no-owner", "--no-group"}

// ProgressUpdate captures one line of rsync progress output.
type ProgressUpdate struct {
	Percent float64
	Line    string
}

// Stats summarizes a completed mirror run.
type Stats struct {
	BytesSent int64
}

// Mirrorer defines the behaviour the backup runner depends on.
type Mirrorer interface {
	Mirror(ctx context.Context, sources []string, dest string, progress func(ProgressUpdate)) (Stats, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps rsync CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    services.Executor
}

// New constructs an rsync client. timeoutSeconds of zero leaves the run
// unbounded.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("rsync binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Mirror copies sources into dest with checksummed comparison. Progress
// lines are forwarded as they arrive. A non-zero rsync exit aborts the run.
func (c *Client) Mirror(ctx context.Context, sources []string, dest string, progress func(ProgressUpdate)) (Stats, error) {
	if len(sources) == 0 {
		return Stats{}, services.Wrap(services.ErrConfiguration, "rsync", "mirror", "no source directories", nil)
	}
	if strings.TrimSpace(dest) == "" {
		return Stats{}, services.Wrap(services.ErrConfiguration, "rsync", "mirror", "no destination", nil)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(mirrorArgs)+len(sources)+1)
	args = append(args, mirrorArgs...)
	args = append(args, sources...)
	args = append(args, dest)

	var stats Stats
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		if sent, ok := parseSentBytes(line); ok {
			stats.BytesSent = sent
		}
		if progress == nil {
			return
		}
		update := ProgressUpdate{Line: line, Percent: -1}
		if percent, ok := parsePercent(line); ok {
			update.Percent = percent
		}
		progress(update)
	})
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return stats, services.Wrap(services.ErrTimeout, "rsync", "mirror", "transfer exceeded timeout", err)
		}
		return stats, services.Wrap(services.ErrExternalTool, "rsync", "mirror", "transfer failed", err)
	}
	return stats, nil
}

// parsePercent extracts the percentage column of an rsync --progress line.
func parsePercent(line string) (float64, bool) {
	for _, field := range strings.Fields(line) {
		if !strings.HasSuffix(field, "%") {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSuffix(field, "%"), 64)
		if err != nil {
			return 0, false
		}
		return value, true
	}
	return 0, false
}

// parseSentBytes extracts the byte count from rsync's final summary line
// ("sent 1,234,567 bytes  received 99 bytes ...").
func parseSentBytes(line string) (int64, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 || fields[0] != "sent" || fields[2] != "bytes" {
		return 0, false
	}
	raw := strings.ReplaceAll(fields[1], ",", "")
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

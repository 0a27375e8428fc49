package exiftool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"photokeep/internal/services"
)

// ratingTags are the four rating-bearing fields kept in sync on the target
// image. All four receive the same 1-5 star value.
var ratingTags = []string{
	"Rating",
	"XMP:Rating",
	"IFD0:Rating",
	"XMP-microsoft:RatingPercent",
}

// MetadataClient defines the behaviour the rating propagator depends on.
type MetadataClient interface {
	ReadRating(ctx context.Context, path string) (string, error)
	WriteRating(ctx context.Context, path string, rating int) error
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

// Client wraps exiftool CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an exiftool client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("exiftool binary required")
	}
	client := &Client{
		binary: binary,
		exec:   services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ReadRating returns the Rating attribute of path with all whitespace
// stripped. An empty string means the file carries no rating.
func (c *Client) ReadRating(ctx context.Context, path string) (string, error) {
	output, err := c.exec.Output(ctx, c.binary, []string{"-s3", "-Rating", path})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "exiftool", "read rating", path, err)
	}
	return stripWhitespace(output), nil
}

// WriteRating sets all tracked rating tags on path to rating, overwriting
// the file in place.
func (c *Client) WriteRating(ctx context.Context, path string, rating int) error {
	args := make([]string, 0, len(ratingTags)+2)
	args = append(args, "-overwrite_original")
	for _, tag := range ratingTags {
		args = append(args, fmt.Sprintf("-%s=%d", tag, rating))
	}
	args = append(args, path)

	if err := c.exec.Run(ctx, c.binary, args, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftool", "write rating", path, err)
	}
	return nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

package ratings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"photokeep/internal/config"
	"photokeep/internal/fileutil"
	"photokeep/internal/history"
	"photokeep/internal/logging"
	"photokeep/internal/services"
	"photokeep/internal/services/exiftool"
)

// Recorder persists completed rating runs. history.Store implements it.
type Recorder interface {
	RecordRatingRun(ctx context.Context, run history.RatingRun, events []history.RatingEvent) error
}

// Summary reports the outcome of one propagation run.
type Summary struct {
	RunID   string
	BaseDir string
	Scanned int
	Applied int
	Skipped int
	Missing int
}

// Option configures the propagator.
type Option func(*Propagator)

// WithRecorder attaches a history recorder. Recording is best-effort.
func WithRecorder(recorder Recorder) Option {
	return func(p *Propagator) {
		p.recorder = recorder
	}
}

// Propagator copies sidecar ratings onto target images.
type Propagator struct {
	cfg      config.Ratings
	client   exiftool.MetadataClient
	logger   *slog.Logger
	recorder Recorder
}

// New constructs a propagator.
func New(cfg config.Ratings, client exiftool.MetadataClient, logger *slog.Logger, opts ...Option) *Propagator {
	p := &Propagator{
		cfg:    cfg,
		client: client,
		logger: logging.NewComponentLogger(logger, "ratings"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sync scans sidecars under baseDir's raw directory and propagates their
// ratings into the JPEG directory. Per-file anomalies skip the file; a
// missing raw or JPEG directory fails the whole run.
func (p *Propagator) Sync(ctx context.Context, baseDir string) (*Summary, error) {
	rawDir := filepath.Join(baseDir, p.cfg.RawDirName)
	jpegDir := filepath.Join(baseDir, p.cfg.JpegDirName)

	if !fileutil.DirExists(rawDir) {
		return nil, services.Wrap(services.ErrNotFound, "ratings", "sync", fmt.Sprintf("raw directory %q does not exist", rawDir), nil)
	}
	if !fileutil.DirExists(jpegDir) {
		return nil, services.Wrap(services.ErrNotFound, "ratings", "sync", fmt.Sprintf("jpeg directory %q does not exist", jpegDir), nil)
	}

	sidecars, err := listSidecars(rawDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ratings", "sync", "scan raw directory", err)
	}
	targets, err := indexTargets(jpegDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ratings", "sync", "scan jpeg directory", err)
	}

	runID := uuid.NewString()
	logger := p.logger.With(logging.String(logging.FieldRunID, runID))
	logger.Info("rating sync started",
		logging.String("base_dir", baseDir),
		logging.Int("sidecars", len(sidecars)),
	)

	summary := Summary{RunID: runID, BaseDir: baseDir}
	startedAt := time.Now()
	var events []history.RatingEvent

	for _, sidecar := range sidecars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Scanned++

		sidecarPath := filepath.Join(rawDir, sidecar)
		raw, err := p.client.ReadRating(ctx, sidecarPath)
		if err != nil {
			logger.Warn("rating read failed, skipping", logging.String("sidecar", sidecar), logging.Error(err))
			summary.Skipped++
			continue
		}

		rating, ok := ParseRating(raw)
		if !ok {
			logger.Debug("no usable rating, skipping", logging.String("sidecar", sidecar), logging.String("value", raw))
			summary.Skipped++
			continue
		}
		percent := Percent(rating)

		targetName := TargetName(sidecar, p.cfg.RawExtension, p.cfg.TargetExtension)
		actual, found := targets[NormalizeName(targetName)]
		if !found {
			logger.Info("target image not found",
				logging.String("sidecar", sidecar),
				logging.String("target", targetName),
			)
			summary.Missing++
			continue
		}

		targetPath := filepath.Join(jpegDir, actual)
		if err := p.client.WriteRating(ctx, targetPath, rating); err != nil {
			logger.Warn("rating write failed, skipping", logging.String("target", actual), logging.Error(err))
			summary.Skipped++
			continue
		}

		logger.Info("rating applied",
			logging.String("target", actual),
			logging.Int("rating", rating),
			logging.Int("percent", percent),
		)
		summary.Applied++
		events = append(events, history.RatingEvent{
			File:      actual,
			Rating:    rating,
			Percent:   percent,
			AppliedAt: time.Now(),
		})
	}

	if summary.Applied == 0 {
		logger.Info("no ratings were applied", logging.Int("scanned", summary.Scanned))
	} else {
		logger.Info("rating sync finished",
			logging.Int("applied", summary.Applied),
			logging.Int("skipped", summary.Skipped),
			logging.Int("missing", summary.Missing),
		)
	}

	p.record(ctx, summary, startedAt, events)
	return &summary, nil
}

func (p *Propagator) record(ctx context.Context, summary Summary, startedAt time.Time, events []history.RatingEvent) {
	if p.recorder == nil {
		return
	}
	run := history.RatingRun{
		RunID:      summary.RunID,
		BaseDir:    summary.BaseDir,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Scanned:    summary.Scanned,
		Applied:    summary.Applied,
		Skipped:    summary.Skipped,
		Missing:    summary.Missing,
	}
	if err := p.recorder.RecordRatingRun(ctx, run, events); err != nil {
		p.logger.Warn("history recording failed", logging.Error(err))
	}
}

// listSidecars returns sidecar names in rawDir in lexicographic order. The
// directory is read fresh on every run.
func listSidecars(rawDir string) ([]string, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, err
	}
	var sidecars []string
	for _, entry := range entries {
		if entry.IsDir() || !IsSidecar(entry.Name()) {
			continue
		}
		sidecars = append(sidecars, entry.Name())
	}
	return sidecars, nil
}

// indexTargets maps normalized filenames in jpegDir to their actual names.
func indexTargets(jpegDir string) (map[string]string, error) {
	entries, err := os.ReadDir(jpegDir)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		targets[NormalizeName(entry.Name())] = entry.Name()
	}
	return targets, nil
}

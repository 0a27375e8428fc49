package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"photokeep/internal/config"
	"photokeep/internal/deps"
	"photokeep/internal/diskusage"
	"photokeep/internal/fileutil"
	"photokeep/internal/history"
	"photokeep/internal/logging"
	"photokeep/internal/mount"
	"photokeep/internal/services"
	"photokeep/internal/services/rsync"
)

// Recorder persists completed backup runs. history.Store implements it.
type Recorder interface {
	RecordBackupRun(ctx context.Context, run history.BackupRun) error
}

// Report describes a finished backup run.
type Report struct {
	RunID       string
	Device      string
	MountPoint  string
	MountedByUs bool
	BytesSent   int64
	Unmounted   bool
	Duration    time.Duration
	UsageBefore diskusage.Usage
	UsageAfter  diskusage.Usage
}

// Option configures the runner.
type Option func(*Runner)

// WithRecorder attaches a history recorder. Recording is best-effort.
func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

// WithExecutor injects the executor used for device resolution.
func WithExecutor(exec services.Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithSkipUnmount leaves the volume mounted after a successful mirror.
func WithSkipUnmount(skip bool) Option {
	return func(r *Runner) {
		r.skipUnmount = skip
	}
}

// Runner executes mirror backups.
type Runner struct {
	cfg         config.Backup
	lockPath    string
	mounter     mount.Mounter
	mirror      rsync.Mirrorer
	usage       diskusage.Reporter
	exec        services.Executor
	logger      *slog.Logger
	recorder    Recorder
	skipUnmount bool
}

// New constructs a backup runner.
func New(cfg config.Backup, lockPath string, mounter mount.Mounter, mirror rsync.Mirrorer, usage diskusage.Reporter, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		lockPath: lockPath,
		mounter:  mounter,
		mirror:   mirror,
		usage:    usage,
		exec:     services.CommandExecutor{},
		logger:   logging.NewComponentLogger(logger, "backup"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one backup: precondition checks, mount, mirror, unmount.
// Any failure up to and including the mirror aborts the run; after a failed
// mirror the volume is deliberately left mounted for inspection.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))
	report := &Report{RunID: runID, MountPoint: r.cfg.MountPoint}
	startedAt := time.Now()

	if err := deps.Check("rsync", r.cfg.RsyncBinary); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "backup", "preflight", "mirroring tool unavailable", err)
	}
	if missing := fileutil.MissingDir(r.cfg.SourceDirectories); missing != "" {
		return nil, services.Wrap(services.ErrValidation, "backup", "preflight", fmt.Sprintf("source directory %q does not exist", missing), nil)
	}

	lock := flock.New(r.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "backup", "lock", fmt.Sprintf("acquire %s", r.lockPath), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "backup", "lock", "another backup run holds the lock", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := r.ensureMounted(ctx, logger, report); err != nil {
		r.record(ctx, report, startedAt, err)
		return nil, err
	}

	if usage, err := r.usage.Filesystem(r.cfg.MountPoint); err == nil {
		report.UsageBefore = usage
		logger.Info("disk usage before backup", logging.String("usage", usage.String()))
	} else {
		logger.Warn("disk usage unavailable", logging.Error(err))
	}

	logger.Info("starting mirror",
		logging.Int("sources", len(r.cfg.SourceDirectories)),
		logging.String("destination", r.cfg.MountPoint),
	)
	stats, err := r.mirror.Mirror(ctx, r.cfg.SourceDirectories, r.cfg.MountPoint, func(update rsync.ProgressUpdate) {
		if update.Percent >= 0 {
			logger.Debug("mirror progress", logging.Float64("percent", update.Percent))
		}
	})
	report.BytesSent = stats.BytesSent
	if err != nil {
		// Leave the volume mounted so a partial transfer can be inspected.
		logger.Error("mirror failed", logging.Error(err))
		r.record(ctx, report, startedAt, err)
		return nil, err
	}
	logger.Info("mirror finished", logging.String("bytes_sent", diskusage.FormatBytes(uint64(stats.BytesSent))))

	r.finishUnmount(ctx, logger, report)

	if usage, err := r.usage.Filesystem(r.cfg.MountPoint); err == nil {
		report.UsageAfter = usage
		logger.Info("disk usage after backup", logging.String("usage", usage.String()))
	}

	report.Duration = time.Since(startedAt)
	r.record(ctx, report, startedAt, nil)
	return report, nil
}

func (r *Runner) ensureMounted(ctx context.Context, logger *slog.Logger, report *Report) error {
	mounted, err := r.mounter.IsMounted(r.cfg.MountPoint)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "backup", "mount check", r.cfg.MountPoint, err)
	}
	if mounted {
		logger.Info("volume already mounted", logging.String("mount_point", r.cfg.MountPoint))
		return nil
	}

	device, err := mount.ResolveDevice(ctx, r.exec, r.cfg.DevicePath, r.cfg.VolumeLabel)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "backup", "resolve device", "backup drive not found", err)
	}
	report.Device = device

	logger.Info("mounting backup volume",
		logging.String("device", device),
		logging.String("mount_point", r.cfg.MountPoint),
	)
	if err := r.mounter.Mount(ctx, device, r.cfg.MountPoint); err != nil {
		return err
	}
	report.MountedByUs = true
	return nil
}

// finishUnmount re-checks mount state and detaches the volume. Portable
// drives drop their mounts spontaneously, so an already-unmounted volume is
// fine and an unmount failure only downgrades the report.
func (r *Runner) finishUnmount(ctx context.Context, logger *slog.Logger, report *Report) {
	if r.skipUnmount {
		logger.Info("skipping unmount by request")
		return
	}

	mounted, err := r.mounter.IsMounted(r.cfg.MountPoint)
	if err != nil {
		logger.Warn("mount re-check failed, skipping unmount", logging.Error(err))
		return
	}
	if !mounted {
		logger.Warn("volume no longer mounted, nothing to unmount",
			logging.String("mount_point", r.cfg.MountPoint),
		)
		report.Unmounted = true
		return
	}

	if err := r.mounter.Unmount(ctx, r.cfg.MountPoint); err != nil {
		logger.Warn("unmount failed, detach the drive manually", logging.Error(err))
		return
	}
	report.Unmounted = true
	logger.Info("volume unmounted", logging.String("mount_point", r.cfg.MountPoint))
}

func (r *Runner) record(ctx context.Context, report *Report, startedAt time.Time, runErr error) {
	if r.recorder == nil {
		return
	}
	run := history.BackupRun{
		RunID:       report.RunID,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		Sources:     r.cfg.SourceDirectories,
		Destination: r.cfg.MountPoint,
		BytesSent:   report.BytesSent,
		Success:     runErr == nil,
		Unmounted:   report.Unmounted,
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	if err := r.recorder.RecordBackupRun(ctx, run); err != nil {
		r.logger.Warn("history recording failed", logging.Error(err))
	}
}

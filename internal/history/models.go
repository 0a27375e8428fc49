package history

import "time"

// BackupRun is one recorded execution of the backup runner.
type BackupRun struct {
	ID           int64
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Sources      []string
	Destination  string
	BytesSent    int64
	Success      bool
	Unmounted    bool
	ErrorMessage string
}

// RatingRun is one recorded execution of the rating propagator.
type RatingRun struct {
	ID         int64
	RunID      string
	BaseDir    string
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Applied    int
	Skipped    int
	Missing    int
}

// RatingEvent is one applied rating within a rating run.
type RatingEvent struct {
	ID        int64
	File      string
	Rating    int
	Percent   int
	AppliedAt time.Time
}

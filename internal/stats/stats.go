package stats

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"photokeep/internal/logging"
	"photokeep/internal/services"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".dng":  true,
	".nef":  true,
	".cr2":  true,
	".arw":  true,
	".raf":  true,
}

// Standard shutter speeds used to bucket exposure times.
var shutterSpeeds = []float64{
	1.0 / 4000, 1.0 / 2000, 1.0 / 1000, 1.0 / 500, 1.0 / 250, 1.0 / 125,
	1.0 / 60, 1.0 / 30, 1.0 / 15, 1.0 / 8, 1.0 / 4, 1.0 / 2,
	1, 2, 4, 8, 15, 30, 60,
}

var shutterLabels = []string{
	"1/4000", "1/2000", "1/1000", "1/500", "1/250", "1/125",
	"1/60", "1/30", "1/15", "1/8", "1/4", "1/2",
	"1", "2", "4", "8", "15", "30", "60",
}

// RatingReader reads the star rating stored in an image's metadata.
type RatingReader interface {
	ReadRating(ctx context.Context, path string) (string, error)
}

// Record holds the exposure metadata extracted from one image.
type Record struct {
	File         string
	Rating       int
	FNumber      float64
	ISO          int
	ExposureTime float64
	FocalLength  float64
	Lens         string
}

// Options filters which images contribute to the analysis.
type Options struct {
	MinRating int
	Lens      string
}

// Analysis is the result of scanning an image tree.
type Analysis struct {
	Scanned int
	Records []Record
}

// Bucket is one row of a distribution table.
type Bucket struct {
	Label string
	Count int
}

// Analyzer extracts and aggregates exposure metadata.
type Analyzer struct {
	ratings RatingReader
	logger  *slog.Logger
}

// New constructs an analyzer reading ratings through the given reader.
func New(ratings RatingReader, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		ratings: ratings,
		logger:  logging.NewComponentLogger(logger, "stats"),
	}
}

// Scan walks dir for image files and collects exposure metadata for every
// image passing the rating and lens filters. Files goexif cannot decode are
// skipped silently, matching how cameras mix sidecar-only formats into the
// same tree.
func (a *Analyzer) Scan(ctx context.Context, dir string, opts Options) (*Analysis, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrNotFound, "stats", "scan", fmt.Sprintf("directory %q does not exist", dir), err)
	}

	var paths []string
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			a.logger.Debug("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if isImageFile(entry.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "stats", "scan", dir, walkErr)
	}
	sort.Strings(paths)

	analysis := &Analysis{Scanned: len(paths)}
	a.logger.Info("extracting metadata", logging.Int("images", len(paths)))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, ok := a.extract(ctx, path, opts)
		if !ok {
			continue
		}
		analysis.Records = append(analysis.Records, record)
	}
	return analysis, nil
}

func (a *Analyzer) extract(ctx context.Context, path string, opts Options) (Record, bool) {
	rating, ok := a.readRating(ctx, path)
	if !ok || rating < opts.MinRating {
		return Record{}, false
	}

	f, err := os.Open(path)
	if err != nil {
		a.logger.Debug("cannot open image", logging.String("path", path), logging.Error(err))
		return Record{}, false
	}
	defer f.Close()

	meta, err := exif.Decode(f)
	if err != nil {
		a.logger.Debug("no decodable metadata", logging.String("path", path))
		return Record{}, false
	}

	record := Record{
		File:         path,
		Rating:       rating,
		FNumber:      ratioField(meta, exif.FNumber),
		ISO:          intField(meta, exif.ISOSpeedRatings),
		ExposureTime: ratioField(meta, exif.ExposureTime),
		FocalLength:  ratioField(meta, exif.FocalLength),
		Lens:         stringField(meta, exif.LensModel),
	}
	if opts.Lens != "" && record.Lens != opts.Lens {
		return Record{}, false
	}
	return record, true
}

func (a *Analyzer) readRating(ctx context.Context, path string) (int, bool) {
	raw, err := a.ratings.ReadRating(ctx, path)
	if err != nil {
		a.logger.Debug("rating unavailable", logging.String("path", path), logging.Error(err))
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return int(value), true
}

func ratioField(meta *exif.Exif, field exif.FieldName) float64 {
	tag, err := meta.Get(field)
	if err != nil {
		return 0
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func intField(meta *exif.Exif, field exif.FieldName) int {
	tag, err := meta.Get(field)
	if err != nil {
		return 0
	}
	value, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return value
}

func stringField(meta *exif.Exif, field exif.FieldName) string {
	tag, err := meta.Get(field)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func isImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// FStopDistribution counts records per f-stop.
func (a *Analysis) FStopDistribution() []Bucket {
	return distribution(a.Records, func(r Record) (string, bool) {
		if r.FNumber <= 0 {
			return "", false
		}
		return fmt.Sprintf("f/%.1f", r.FNumber), true
	})
}

// ISODistribution counts records per ISO value.
func (a *Analysis) ISODistribution() []Bucket {
	return distribution(a.Records, func(r Record) (string, bool) {
		if r.ISO <= 0 {
			return "", false
		}
		return strconv.Itoa(r.ISO), true
	})
}

// ShutterDistribution counts records per nearest standard shutter speed.
func (a *Analysis) ShutterDistribution() []Bucket {
	return distribution(a.Records, func(r Record) (string, bool) {
		if r.ExposureTime <= 0 {
			return "", false
		}
		return FormatShutter(r.ExposureTime), true
	})
}

// FocalLengthDistribution counts records per focal length.
func (a *Analysis) FocalLengthDistribution() []Bucket {
	return distribution(a.Records, func(r Record) (string, bool) {
		if r.FocalLength <= 0 {
			return "", false
		}
		return fmt.Sprintf("%.0fmm", r.FocalLength), true
	})
}

// FormatShutter maps an exposure time in seconds onto the nearest standard
// shutter speed label. Comparison happens in log space so 1/400 lands on
// 1/500 rather than drowning in the linear gap between long exposures.
func FormatShutter(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	target := math.Log10(seconds)
	best := 0
	bestDelta := math.Inf(1)
	for i, speed := range shutterSpeeds {
		delta := math.Abs(math.Log10(speed) - target)
		if delta < bestDelta {
			best = i
			bestDelta = delta
		}
	}
	return shutterLabels[best]
}

func distribution(records []Record, key func(Record) (string, bool)) []Bucket {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, record := range records {
		label, ok := key(record)
		if !ok {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}
	buckets := make([]Bucket, 0, len(order))
	for _, label := range order {
		buckets = append(buckets, Bucket{Label: label, Count: counts[label]})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	return buckets
}

package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var csvHeader = []string{"File", "Rating", "FNumber", "ISO", "ShutterSpeed", "FocalLength", "Lens"}

// WriteCSV writes the records as CSV, one row per image.
func WriteCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, record := range records {
		row := []string{
			record.File,
			strconv.Itoa(record.Rating),
			strconv.FormatFloat(record.FNumber, 'f', 1, 64),
			strconv.Itoa(record.ISO),
			strconv.FormatFloat(record.ExposureTime, 'g', -1, 64),
			strconv.FormatFloat(record.FocalLength, 'f', 0, 64),
			record.Lens,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportCSV writes the records to a timestamped file under dir and returns
// the file's path.
func ExportCSV(dir string, records []Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	name := fmt.Sprintf("photo_metadata_analysis_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

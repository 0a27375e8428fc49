package exiftool

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeExecutor struct {
	output  string
	outErr  error
	runErr  error
	outArgs []string
	runArgs []string
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, _ func(string)) error {
	f.runArgs = append([]string{binary}, args...)
	return f.runErr
}

func (f *fakeExecutor) Output(_ context.Context, binary string, args []string) (string, error) {
	f.outArgs = append([]string{binary}, args...)
	return f.output, f.outErr
}

func TestReadRatingStripsWhitespace(t *testing.T) {
	exec := &fakeExecutor{output: " 3\n"}
	client, err := New("exiftool", WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rating, err := client.ReadRating(context.Background(), "/photos/RAW/DSCF0001.RAF.xmp")
	if err != nil {
		t.Fatalf("ReadRating: %v", err)
	}
	if rating != "3" {
		t.Fatalf("unexpected rating: %q", rating)
	}

	got := strings.Join(exec.outArgs, " ")
	if got != "exiftool -s3 -Rating /photos/RAW/DSCF0001.RAF.xmp" {
		t.Fatalf("unexpected command: %q", got)
	}
}

func TestReadRatingEmptyOutput(t *testing.T) {
	client, err := New("exiftool", WithExecutor(&fakeExecutor{output: "\n"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rating, err := client.ReadRating(context.Background(), "/x.xmp")
	if err != nil {
		t.Fatalf("ReadRating: %v", err)
	}
	if rating != "" {
		t.Fatalf("expected empty rating, got %q", rating)
	}
}

func TestWriteRatingSetsAllTags(t *testing.T) {
	exec := &fakeExecutor{}
	client, err := New("exiftool", WithExecutor(exec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := client.WriteRating(context.Background(), "/photos/JPG/DSCF0001.JPG", 4); err != nil {
		t.Fatalf("WriteRating: %v", err)
	}

	got := strings.Join(exec.runArgs, " ")
	want := "exiftool -overwrite_original -Rating=4 -XMP:Rating=4 -IFD0:Rating=4 -XMP-microsoft:RatingPercent=4 /photos/JPG/DSCF0001.JPG"
	if got != want {
		t.Fatalf("unexpected command: %q", got)
	}
}

func TestWriteRatingFailurePropagates(t *testing.T) {
	client, err := New("exiftool", WithExecutor(&fakeExecutor{runErr: errors.New("exit status 1")}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.WriteRating(context.Background(), "/x.jpg", 2); err == nil {
		t.Fatal("expected write failure")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

package domain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// MaxSubmissionBytes caps the size of a file accepted as a submission.
const MaxSubmissionBytes = 64 << 20

// ErrEmptySubmission is returned when the selected file has no content.
var ErrEmptySubmission = errors.New("submission is empty")

// LoadSubmission reads the file at path and detects its media type from the
// content.
func LoadSubmission(path string) (Submission, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Submission{}, fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Submission{}, fmt.Errorf("reading submission: %w", err)
	}
	if info.IsDir() {
		return Submission{}, fmt.Errorf("reading submission: %s is a directory", abs)
	}
	if info.Size() > MaxSubmissionBytes {
		return Submission{}, fmt.Errorf("reading submission: %s is %d bytes, limit is %d",
			abs, info.Size(), MaxSubmissionBytes)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return Submission{}, fmt.Errorf("reading submission: %w", err)
	}

	return NewSubmission(filepath.Base(abs), content, abs)
}

// NewSubmission builds a Submission from in-memory content. The media type
// is sniffed from the bytes.
func NewSubmission(name string, content []byte, path string) (Submission, error) {
	if len(content) == 0 {
		return Submission{}, fmt.Errorf("%s: %w", name, ErrEmptySubmission)
	}
	mt := mimetype.Detect(content)
	return Submission{
		Name:      name,
		Path:      path,
		MediaType: mt.String(),
		Content:   content,
	}, nil
}

// IsPDF reports whether the submission was detected as a PDF document.
func (s Submission) IsPDF() bool {
	return mimetype.EqualsAny(s.MediaType, "application/pdf")
}

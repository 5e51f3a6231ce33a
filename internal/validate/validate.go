// Package validate checks a locally selected file against the upload policy
// before any network call is made.
package validate

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/contractlens/internal/contract"
	"github.com/Iron-Ham/contractlens/internal/errors"
)

// MaxFileSize is the largest accepted upload, inclusive.
const MaxFileSize int64 = 16 * 1024 * 1024

// Allowed media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

var allowedMediaTypes = map[string]bool{
	MediaTypePDF:  true,
	MediaTypeDOCX: true,
	MediaTypeText: true,
}

// extensionPattern matches the allowed file extensions on a lowercased name.
var extensionPattern = glob.MustCompile("*.{pdf,docx,txt}")

// Preview is the file-info block shown once a file is accepted.
type Preview struct {
	Name string
	Size string
}

// String renders the preview on one line.
func (p Preview) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Size)
}

// File validates f. On acceptance it returns the preview; on rejection it
// returns a *errors.ValidationRejection naming the violated constraint.
//
// The media type and extension checks are OR-ed: either one passing is
// enough, since operating systems report media types inconsistently.
func File(f contract.SelectedFile) (Preview, error) {
	if strings.TrimSpace(f.Name) == "" {
		return Preview{}, errors.NewValidationRejection("", errors.ErrEmptyFileName).
			WithConstraint("a file name is required")
	}

	if !AllowedType(f.MediaType, f.Name) {
		return Preview{}, errors.NewValidationRejection(f.Name, errors.ErrUnsupportedType).
			WithConstraint("allowed types are PDF, DOCX and TXT")
	}

	if f.Size > MaxFileSize {
		return Preview{}, errors.NewValidationRejection(f.Name, errors.ErrFileTooLarge).
			WithConstraint(fmt.Sprintf("maximum size is %s, got %s",
				humanize.IBytes(uint64(MaxFileSize)), humanize.IBytes(uint64(f.Size))))
	}

	return Preview{
		Name: f.Name,
		Size: HumanSize(f.Size),
	}, nil
}

// AllowedType reports whether the media type is in the allow-set or the
// name carries an allowed extension.
func AllowedType(mediaType, name string) bool {
	if allowedMediaTypes[normalizeMediaType(mediaType)] {
		return true
	}
	return extensionPattern.Match(strings.ToLower(name))
}

// HumanSize formats a byte count for display.
func HumanSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

// normalizeMediaType drops parameters such as "; charset=utf-8".
func normalizeMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

package validate

import (
	"errors"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/analysis"
)

// MaxFileSize is the upload ceiling enforced before submission.
const MaxFileSize = 50 * 1024 * 1024 // 50 MiB

// Validation failures. Size is checked before format, so an oversized file
// with a bogus MIME type reports ErrSizeExceeded.
var (
	ErrSizeExceeded      = errors.New("file size exceeds 50MB limit")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/bmp",
	"image/webp",
}

var allowedVideoTypes = []string{
	"video/mp4",
	"video/avi",
	"video/quicktime",
	"video/x-matroska",
}

// File checks the size and MIME type constraints for a candidate upload.
// It returns nil when the file is acceptable. Pure function, no side effects.
func File(info analysis.FileInfo) error {
	if info.Size > MaxFileSize {
		return ErrSizeExceeded
	}
	if !allowedMIME(info.MIMEType) {
		return ErrUnsupportedFormat
	}
	return nil
}

func allowedMIME(mimeType string) bool {
	for _, t := range allowedImageTypes {
		if mimeType == t {
			return true
		}
	}
	for _, t := range allowedVideoTypes {
		if mimeType == t {
			return true
		}
	}
	return false
}

// AllowedTypes returns the full MIME allow-list, images first. The slice is a
// copy; callers may reorder it.
func AllowedTypes() []string {
	out := make([]string, 0, len(allowedImageTypes)+len(allowedVideoTypes))
	out = append(out, allowedImageTypes...)
	out = append(out, allowedVideoTypes...)
	return out
}

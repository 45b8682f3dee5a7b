package analysis

import (
	"path/filepath"
	"strings"
)

// Mode selects the analysis depth. Quick uses a single synchronous backend
// call with locally simulated progress; Deep runs the comprehensive pipeline
// with a live progress stream.
type Mode string

const (
	ModeQuick Mode = "quick"
	ModeDeep  Mode = "deep"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeQuick || m == ModeDeep
}

// MediaKind is the coarse media category derived from a file's MIME type.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// KindForMIME derives the media kind from a MIME type string. The boolean is
// false for MIME types outside the image/ and video/ families.
func KindForMIME(mimeType string) (MediaKind, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return MediaVideo, true
	default:
		return "", false
	}
}

// mimeByExtension covers the formats the verifier accepts.
var mimeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".avi":  "video/avi",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
}

// MIMEForPath derives a MIME type from the file extension, the way browsers
// label file uploads. Unknown extensions return "".
func MIMEForPath(path string) string {
	return mimeByExtension[strings.ToLower(filepath.Ext(path))]
}

// FileInfo describes the selected media file. The orchestrator never reads
// the content itself; it hands the reader to the submission client.
type FileInfo struct {
	Name     string
	Size     int64
	MIMEType string
}

// Request is one analysis submission: the selected file plus the chosen mode
// and the media kind derived from the MIME type. Created on file selection,
// destroyed on reset.
type Request struct {
	File      FileInfo
	Mode      Mode
	MediaKind MediaKind
}

package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/cv-builder/internal/cv"
)

// Format is an export artifact type.
type Format string

// Supported formats
const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "pdf", "markdown" and "md" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "application/pdf"
}

var unsafeFilenameChars = regexp.MustCompile(`[/\\:*?"<>|\x00-\x1f]+`)

// Filename builds "{fullName}_{YYYY-MM-DD}.{ext}", falling back to "CV" when the name is empty.
func Filename(doc cv.Document, format Format, now time.Time) string {
	name := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(doc.PersonalInfo.FullName, " "))
	if name == "" {
		name = "CV"
	}
	return fmt.Sprintf("%s_%s.%s", name, now.Format("2006-01-02"), format.Extension())
}

package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/export"
)

var t0 = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("░", 20)+"]", ProgressBar(0))
	assert.Equal(t, "["+strings.Repeat("█", 20)+"]", ProgressBar(100))
	assert.Equal(t, "["+strings.Repeat("█", 7)+strings.Repeat("░", 13)+"]", ProgressBar(38))
	assert.Equal(t, ProgressBar(100), ProgressBar(250))
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := cv.New(t0)
	doc.PersonalInfo.FullName = "Jane Doe"
	doc.PersonalInfo.Email = "jane@x.com"
	doc.Summary = strings.Repeat("a", cv.SummarySoftLimit+1)

	p.PrintStatus(doc)
	output := buf.String()

	assert.Contains(t, output, "CV STATUS")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "25%")
	assert.Contains(t, output, "✓ Personal Information")
	assert.Contains(t, output, "✗ Work Experience")
	assert.Contains(t, output, "Summary is over")
}

func TestPrintStatus_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStatus(cv.New(t0))

	assert.Contains(t, buf.String(), "(no name yet)")
	assert.Contains(t, buf.String(), "0%")
}

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEntries("projects", []string{"a", "b", "c", "d", "e", "f", "g"})
	output := buf.String()

	assert.Contains(t, output, "PROJECTS")
	assert.Contains(t, output, "5. e")
	assert.NotContains(t, output, "6. f")
	assert.Contains(t, output, "... and 2 more")
}

func TestPrintEntries_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintEntries("projects", nil)

	assert.Empty(t, buf.String())
}

func TestPrintValidation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintValidation([]string{"personalInfo.email: must be a valid email address"})
	assert.Contains(t, buf.String(), "1 problem(s)")
	assert.Contains(t, buf.String(), "personalInfo.email")

	buf.Reset()
	p.PrintValidation(nil)
	assert.Contains(t, buf.String(), "No problems found.")
}

func TestPrintArtifact(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintArtifact(&export.Artifact{Format: export.FormatPDF, Data: []byte("%PDF"), Pages: 2}, "out/cv.pdf")
	output := buf.String()

	assert.Contains(t, output, "out/cv.pdf")
	assert.Contains(t, output, "4 bytes")
	assert.Contains(t, output, "Pages:     2")

	buf.Reset()
	p.PrintArtifact(nil, "x")
	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("T", strings.Repeat("x", 100))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[3], "...")
}

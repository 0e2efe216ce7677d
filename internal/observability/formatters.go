// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/export"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// progressBarWidth is the number of cells in the progress bar
	progressBarWidth = 20
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", boxWidth-4-utf8.RuneCountInString(line)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// ProgressBar renders pct (0-100) as a fixed-width bar.
func ProgressBar(pct int) string {
	pct = max(0, min(100, pct))
	filled := pct * progressBarWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled) + "]"
}

// PrintStatus outputs completion progress and the state of each section in display order.
func (p *Printer) PrintStatus(doc cv.Document) {
	var sb strings.Builder

	name := doc.PersonalInfo.FullName
	if name == "" {
		name = "(no name yet)"
	}
	sb.WriteString(fmt.Sprintf("Name:      %s\n", name))
	sb.WriteString(fmt.Sprintf("Template:  %s\n", doc.Customization.Template))
	sb.WriteString(fmt.Sprintf("Updated:   %s\n", doc.UpdatedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Progress:  %s %d%%\n", ProgressBar(cv.Progress(doc)), cv.Progress(doc)))
	sb.WriteString("\n")

	for _, s := range cv.ResolveSectionOrder(doc.Customization.SectionOrder) {
		mark := "✗"
		if cv.SectionComplete(doc, s) {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", mark, s.Title()))
	}

	if cv.SummaryTooLong(doc) {
		sb.WriteString(fmt.Sprintf("\nSummary is over %d characters.\n", cv.SummarySoftLimit))
	}

	p.printBox("CV STATUS", sb.String())
}

// PrintEntries lists the first few entries of a collection with a one-line label each.
func (p *Printer) PrintEntries(title string, labels []string) {
	if len(labels) == 0 {
		return
	}

	var sb strings.Builder
	for i, label := range labels {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(labels)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, label))
	}

	p.printBox(strings.ToUpper(title), sb.String())
}

// PrintValidation outputs field-level validation messages.
func (p *Printer) PrintValidation(messages []string) {
	if len(messages) == 0 {
		p.printBox("VALIDATION", "No problems found.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d problem(s):\n\n", len(messages)))
	for _, m := range messages {
		sb.WriteString(fmt.Sprintf("  • %s\n", m))
	}
	p.printBox("VALIDATION", sb.String())
}

// PrintArtifact outputs what an export produced and where it was written.
func (p *Printer) PrintArtifact(a *export.Artifact, path string) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Format:    %s\n", a.Format))
	sb.WriteString(fmt.Sprintf("File:      %s\n", path))
	sb.WriteString(fmt.Sprintf("Size:      %d bytes\n", len(a.Data)))
	if a.Pages > 0 {
		sb.WriteString(fmt.Sprintf("Pages:     %d\n", a.Pages))
	}
	p.printBox("EXPORT", sb.String())
}

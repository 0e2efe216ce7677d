// Package rendering turns CV documents into HTML and Markdown.
package rendering

import (
	"fmt"
	"strings"
)

// Steps of producing an output, reported in RenderError.Stage.
const (
	StageLayout  = "layout"
	StagePrint   = "print"
	StageInspect = "inspect"
	StageExtract = "extract"
)

// TemplateError is a failure to parse or execute the named HTML template.
type TemplateError struct {
	Name  string
	Op    string // "parse" or "execute"
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %s: %v", e.Name, e.Op, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports which output failed and at which step.
type RenderError struct {
	Format  string
	Stage   string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString("render")
	if e.Format != "" {
		b.WriteString(" " + e.Format)
	}
	if e.Stage != "" {
		fmt.Fprintf(&b, " (%s)", e.Stage)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

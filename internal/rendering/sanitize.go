package rendering

import (
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every tag and escapes the remaining text.
var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips markup from user text and returns it escaped, ready to embed in HTML.
func Sanitize(s string) template.HTML {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return template.HTML(strings.TrimSpace(strictPolicy.Sanitize(s)))
}

func sanitizeAll(in []string) []template.HTML {
	out := make([]template.HTML, 0, len(in))
	for _, s := range in {
		if clean := Sanitize(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

var (
	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	cssIdent = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// CSSColor returns color when it is a hex color, fallback otherwise.
func CSSColor(color, fallback string) template.CSS {
	color = strings.TrimSpace(color)
	if hexColor.MatchString(color) {
		return template.CSS(color)
	}
	if hexColor.MatchString(fallback) {
		return template.CSS(fallback)
	}
	return ""
}

// cssToken returns value lowercased when it is usable as a class name suffix, fallback otherwise.
func cssToken(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if cssIdent.MatchString(value) {
		return value
	}
	return fallback
}

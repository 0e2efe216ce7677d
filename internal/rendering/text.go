package rendering

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText extracts the readable text of a rendered HTML page, one block per line.
func PlainText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", &RenderError{Format: "text", Stage: StageExtract, Message: "failed to parse HTML", Cause: err}
	}

	var lines []string
	doc.Find("h1, h2, h3, p, li, .sub, .meta, .detail").Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n"), nil
}

// Outline returns the section headings of a rendered HTML page in document order.
func Outline(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &RenderError{Format: "text", Stage: StageExtract, Message: "failed to parse HTML", Cause: err}
	}

	var headings []string
	doc.Find("section > h2").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, strings.TrimSpace(s.Text()))
	})
	return headings, nil
}

package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper size in inches.
const (
	A4WidthInches  = 8.27
	A4HeightInches = 11.69
)

// PDFRenderer turns a standalone HTML page into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// ChromeRenderer prints HTML to PDF with headless Chrome. Chrome's print engine lays the page
// out as vector text and splits it across A4 pages.
type ChromeRenderer struct {
	execPath string
}

// NewChromeRenderer returns a renderer. execPath selects the Chrome binary; empty uses the default lookup.
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{execPath: execPath}
}

// RenderPDF implements PDFRenderer. The browser and its temp directory are torn down when ctx ends.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "cv-export-")
	if err != nil {
		return nil, fmt.Errorf("failed to create render directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write render input: %w", err)
	}

	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(A4WidthInches).
				WithPaperHeight(A4HeightInches).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print failed: %w", err)
	}
	return buf, nil
}

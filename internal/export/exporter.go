package export

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single export.
const DefaultTimeout = 30 * time.Second

// Artifact is a finished export, ready to download.
type Artifact struct {
	Format      Format
	Filename    string
	ContentType string
	Data        []byte
	// Pages is the page count of a PDF artifact; zero for Markdown.
	Pages int
}

// Exporter renders documents to artifacts.
type Exporter struct {
	renderer PDFRenderer
	timeout  time.Duration
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewExporter returns an exporter using renderer for PDF output. renderer may be nil when only
// Markdown is needed.
func NewExporter(renderer PDFRenderer, opts ...Option) *Exporter {
	e := &Exporter{renderer: renderer, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export renders doc in the given format. It either returns a complete artifact or an error;
// a failed export never yields partial output.
func (e *Exporter) Export(ctx context.Context, doc cv.Document, format Format, now time.Time) (*Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		data  []byte
		pages int
		err   error
	}
	done := make(chan result, 1)

	switch format {
	case FormatMarkdown:
		go func() {
			done <- result{data: []byte(rendering.Markdown(doc))}
		}()
	case FormatPDF:
		if e.renderer == nil {
			return nil, ErrNoRenderer
		}
		go func() {
			data, pages, err := e.renderPDF(ctx, doc)
			done <- result{data: data, pages: pages, err: err}
		}()
	default:
		return nil, ErrUnsupportedFormat
	}

	select {
	case <-ctx.Done():
		return nil, contextError(ctx.Err())
	case res := <-done:
		if res.err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, contextError(ctxErr)
			}
			log.Error().Err(res.err).Str("format", string(format)).Str("cvId", doc.ID).Msg("export failed")
			return nil, res.err
		}
		return &Artifact{
			Format:      format,
			Filename:    Filename(doc, format, now),
			ContentType: format.ContentType(),
			Data:        res.data,
			Pages:       res.pages,
		}, nil
	}
}

func (e *Exporter) renderPDF(ctx context.Context, doc cv.Document) ([]byte, int, error) {
	html, err := rendering.RenderPrintHTML(doc)
	if err != nil {
		return nil, 0, &rendering.RenderError{Format: string(FormatPDF), Stage: rendering.StageLayout, Message: "failed to render print layout", Cause: err}
	}

	data, err := e.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, 0, &rendering.RenderError{Format: string(FormatPDF), Stage: rendering.StagePrint, Message: "failed to print PDF", Cause: err}
	}

	pages, err := CountPages(data)
	if err != nil {
		return nil, 0, &rendering.RenderError{Format: string(FormatPDF), Stage: rendering.StageInspect, Message: "renderer produced an unreadable PDF", Cause: err}
	}
	if pages == 0 {
		return nil, 0, &rendering.RenderError{Format: string(FormatPDF), Stage: rendering.StageInspect, Message: "renderer produced an empty PDF"}
	}
	return data, pages, nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ErrCanceled
}

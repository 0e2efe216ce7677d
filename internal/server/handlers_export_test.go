package server

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/export/exporttest"
	"github.com/jonathan/cv-builder/internal/rendering"
)

func TestExport_Markdown(t *testing.T) {
	s := newTestServer(t)
	rec := s.repo.put("user-1", janeDoe())

	w := s.do(t, http.MethodGet, "/api/cvs/"+rec.ID.String()+"/export/markdown", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Jane Doe_2024-03-01.md"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, rendering.Markdown(janeDoe()), w.Body.String())
	assert.Empty(t, w.Header().Get("X-Page-Count"))
}

func TestExport_PDFIsCached(t *testing.T) {
	renderer := &fakeRenderer{pdf: exporttest.MinimalPDF(2)}
	s := newTestServerWith(t, renderer, nil)
	rec := s.repo.put("user-1", janeDoe())
	path := "/api/cvs/" + rec.ID.String() + "/export/pdf"

	first := s.do(t, http.MethodGet, path, nil)
	second := s.do(t, http.MethodGet, path, nil)

	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "application/pdf", first.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Jane Doe_2024-03-01.pdf"`, first.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", first.Header().Get("X-Page-Count"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, 1, renderer.Calls())
}

func TestExport_EditInvalidatesCache(t *testing.T) {
	renderer := &fakeRenderer{pdf: exporttest.MinimalPDF(1)}
	s := newTestServerWith(t, renderer, nil)
	rec := s.repo.put("user-1", janeDoe())
	path := "/api/cvs/" + rec.ID.String() + "/export/pdf"

	s.do(t, http.MethodGet, path, nil)
	s.now = func() time.Time { return t0.Add(time.Hour) }
	update := s.do(t, http.MethodPut, "/api/cvs/"+rec.ID.String(), `{"cvData":{"summary":"Edited"}}`)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())
	s.do(t, http.MethodGet, path, nil)

	assert.Equal(t, 2, renderer.Calls())
}

func TestExport_FutureDatedClientDocumentStaysFresh(t *testing.T) {
	s := newTestServer(t)
	doc := janeDoe()
	doc.CreatedAt = t0.Add(10 * time.Minute)
	doc.UpdatedAt = t0.Add(10 * time.Minute)

	created := s.do(t, http.MethodPost, "/api/cvs", map[string]any{"userId": "user-1", "cvData": doc})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	id := decodeJSON[CreateCVResponse](t, created).CVID.String()
	path := "/api/cvs/" + id + "/export/markdown"

	first := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Contains(t, first.Body.String(), "Builds things.")

	update := s.do(t, http.MethodPut, "/api/cvs/"+id, `{"cvData":{"summary":"NEW SUMMARY"}}`)
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	second := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())
	assert.Contains(t, second.Body.String(), "NEW SUMMARY")
	assert.NotContains(t, second.Body.String(), "Builds things.")

	got := decodeJSON[GetCVResponse](t, s.do(t, http.MethodGet, "/api/cvs/"+id, nil))
	assert.False(t, got.CVData.UpdatedAt.After(t0), "stored updatedAt is clamped to the server clock")
	assert.False(t, got.CVData.CreatedAt.After(t0))
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name        string
		renderer    *fakeRenderer
		format      string
		wantStatus  int
		wantMessage string
	}{
		{"unsupported format", nil, "docx", http.StatusBadRequest, "Unsupported export format"},
		{"no pdf renderer", nil, "pdf", http.StatusNotImplemented, "PDF export is not available on this server"},
		{"renderer failure", &fakeRenderer{err: errors.New("chrome crashed")}, "pdf", http.StatusInternalServerError, "Export failed"},
		{"empty pdf", &fakeRenderer{pdf: exporttest.MinimalPDF(0)}, "pdf", http.StatusInternalServerError, "Export failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s *testServer
			if tt.renderer == nil {
				s = newTestServer(t)
			} else {
				s = newTestServerWith(t, tt.renderer, nil)
			}
			rec := s.repo.put("user-1", janeDoe())

			w := s.do(t, http.MethodGet, "/api/cvs/"+rec.ID.String()+"/export/"+tt.format, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMessage, decodeJSON[messageResponse](t, w).Message)
			assert.NotContains(t, w.Body.String(), "chrome crashed")
		})
	}
}

func TestExport_MissingCV(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/cvs/"+uuid.NewString()+"/export/markdown", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgress(t *testing.T) {
	s := newTestServer(t)
	doc := janeDoe()
	doc.Customization.SectionOrder = []string{"languages", "personal"}
	rec := s.repo.put("user-1", doc)

	w := s.do(t, http.MethodGet, "/api/cvs/"+rec.ID.String()+"/progress", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeJSON[ProgressResponse](t, w)
	assert.Equal(t, 38, resp.Progress)
	require.Len(t, resp.Sections, len(cv.CanonicalSectionOrder()))
	assert.Equal(t, SectionStatus{ID: cv.SectionLanguages, Title: "Languages", Complete: false}, resp.Sections[0])
	assert.Equal(t, SectionStatus{ID: cv.SectionPersonal, Title: cv.SectionPersonal.Title(), Complete: true}, resp.Sections[1])
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)
	doc := janeDoe()
	doc.Summary = `<script>alert("x")</script>Builds things.`
	rec := s.repo.put("user-1", doc)
	path := "/api/cvs/" + rec.ID.String() + "/preview"

	html := s.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, html.Code)
	assert.Equal(t, "text/html; charset=utf-8", html.Header().Get("Content-Type"))
	assert.Contains(t, html.Body.String(), "Jane Doe")
	assert.NotContains(t, html.Body.String(), "<script>alert")

	text := s.do(t, http.MethodGet, path+"?format=text", nil)
	require.Equal(t, http.StatusOK, text.Code)
	assert.Equal(t, "text/plain; charset=utf-8", text.Header().Get("Content-Type"))
	assert.Contains(t, text.Body.String(), "Jane Doe")
	assert.Contains(t, text.Body.String(), "Builds things.")
	assert.False(t, strings.Contains(text.Body.String(), "<"))
}

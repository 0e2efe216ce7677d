package server

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/rendering"
)

type SectionStatus struct {
	ID       cv.Section `json:"id"`
	Title    string     `json:"title"`
	Complete bool       `json:"complete"`
}

type ProgressResponse struct {
	Progress int             `json:"progress"`
	Sections []SectionStatus `json:"sections"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadCV(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	order := cv.ResolveSectionOrder(rec.Document.Customization.SectionOrder)
	resp := ProgressResponse{
		Progress: cv.Progress(rec.Document),
		Sections: make([]SectionStatus, len(order)),
	}
	for i, sec := range order {
		resp.Sections[i] = SectionStatus{ID: sec, Title: sec.Title(), Complete: cv.SectionComplete(rec.Document, sec)}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePreview renders the on-screen HTML preview, or its visible text with ?format=text.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadCV(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	html, err := rendering.RenderPreviewHTML(rec.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		text, err := rendering.PlainText(html)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.loadCV(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	now := s.now()
	artifact, ok := s.cache.Get(rec.ID.String(), rec.UpdatedAt, format)
	if ok {
		hit := *artifact
		hit.Filename = export.Filename(rec.Document, format, now)
		artifact = &hit
	} else {
		artifact, err = s.exporter.Export(r.Context(), rec.Document, format, now)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.cache.Put(rec.ID.String(), rec.UpdatedAt, artifact)
	}

	h := w.Header()
	h.Set("Content-Type", artifact.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	h.Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	if artifact.Pages > 0 {
		h.Set("X-Page-Count", strconv.Itoa(artifact.Pages))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

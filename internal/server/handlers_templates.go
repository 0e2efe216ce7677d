package server

import (
	"net/http"

	"github.com/jonathan/cv-builder/internal/templates"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, templates.All())
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := templates.Get(r.PathValue("templateId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tpl)
}

func (s *Server) handleTemplatePreview(w http.ResponseWriter, r *http.Request) {
	preview, err := templates.GetPreview(r.PathValue("templateId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, preview)
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/templates"
)

// ---------------------------------------------------------------------
// CV Handlers
// ---------------------------------------------------------------------

var errPersonalInfoRequired = &ErrBadRequest{Message: "CV data with personal information (fullName and email) is required"}

// mergeableFields are the top-level document fields a PUT may replace.
var mergeableFields = []string{
	"personalInfo",
	"summary",
	"workExperience",
	"internships",
	"education",
	"skills",
	"certifications",
	"projects",
	"languages",
	"customization",
}

type CreateCVRequest struct {
	UserID   string          `json:"userId"`
	Template string          `json:"template"`
	CVData   json.RawMessage `json:"cvData"`
}

type CreateCVResponse struct {
	CVID      uuid.UUID `json:"cvId"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type GetCVResponse struct {
	CVID      uuid.UUID   `json:"cvId"`
	UserID    string      `json:"userId"`
	CVData    cv.Document `json:"cvData"`
	Template  string      `json:"template"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type UpdateCVRequest struct {
	CVData   map[string]json.RawMessage `json:"cvData"`
	Template string                     `json:"template"`
}

type UpdateCVResponse struct {
	CVID      uuid.UUID `json:"cvId"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DeleteCVResponse struct {
	CVID    uuid.UUID `json:"cvId"`
	Message string    `json:"message"`
}

type ListCVsResponse struct {
	CVs         []db.Summary `json:"cvs"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	TotalCVs    int          `json:"totalCVs"`
}

func (s *Server) handleCreateCV(w http.ResponseWriter, r *http.Request) {
	var req CreateCVRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID, _ = middleware.ClientIDFrom(r.Context())
	}
	if userID == "" {
		s.writeError(w, &ErrBadRequest{Message: "userId is required"})
		return
	}
	if err := checkTemplate(req.Template); err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := s.decodeDocument(req.CVData)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.repo.CreateCV(r.Context(), userID, req.Template, doc)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateCVResponse{
		CVID:      rec.ID,
		UserID:    rec.UserID,
		Message:   "CV created successfully",
		CreatedAt: rec.CreatedAt,
	})
}

func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadCV(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, GetCVResponse{
		CVID:      rec.ID,
		UserID:    rec.UserID,
		CVData:    rec.Document,
		Template:  rec.Template,
		UpdatedAt: rec.UpdatedAt,
	})
}

func (s *Server) handleUpdateCV(w http.ResponseWriter, r *http.Request) {
	id, err := parseCVID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req UpdateCVRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkTemplate(req.Template); err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.repo.GetCV(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "CV"})
		return
	}

	doc, err := s.mergeDocument(rec.Document, req.CVData)
	if err != nil {
		s.writeError(w, err)
		return
	}

	template := rec.Template
	if req.Template != "" {
		template = req.Template
	}

	updated, err := s.repo.UpdateCV(r.Context(), id, template, doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if updated == nil {
		// Deleted between read and write.
		s.writeError(w, &ErrNotFound{Resource: "CV"})
		return
	}

	s.jsonResponse(w, http.StatusOK, UpdateCVResponse{
		CVID:      updated.ID,
		Message:   "CV updated successfully",
		UpdatedAt: updated.UpdatedAt,
	})
}

func (s *Server) handleDeleteCV(w http.ResponseWriter, r *http.Request) {
	id, err := parseCVID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	deleted, err := s.repo.DeleteCV(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, &ErrNotFound{Resource: "CV"})
		return
	}

	s.jsonResponse(w, http.StatusOK, DeleteCVResponse{CVID: id, Message: "CV deleted successfully"})
}

func (s *Server) handleListUserCVs(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	req := db.PageRequest{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}.Normalize()

	page, err := s.repo.ListCVsByUser(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ListCVsResponse{
		CVs:         page.Items,
		TotalPages:  req.TotalPages(page.Total),
		CurrentPage: req.Page,
		TotalCVs:    page.Total,
	})
}

// loadCV resolves the {cvId} path value to a stored record.
func (s *Server) loadCV(r *http.Request) (*db.Record, error) {
	id, err := parseCVID(r)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.GetCV(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &ErrNotFound{Resource: "CV"}
	}
	return rec, nil
}

func parseCVID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("cvId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrInvalidID{Value: raw}
	}
	return id, nil
}

func checkTemplate(id string) error {
	if id == "" || templates.Known(id) {
		return nil
	}
	return &ErrValidation{Errors: []string{"template: unknown template " + strconv.Quote(id)}}
}

// decodeDocument turns submitted cvData into a validated, normalized document.
func (s *Server) decodeDocument(raw json.RawMessage) (cv.Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return cv.Document{}, errPersonalInfoRequired
	}

	var doc cv.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		if verr := schemas.ValidateDocument(raw); verr != nil {
			return cv.Document{}, validationFromSchema(verr)
		}
		return cv.Document{}, &ErrBadRequest{Message: "Invalid request body"}
	}
	if doc.PersonalInfo.FullName == "" || doc.PersonalInfo.Email == "" {
		return cv.Document{}, errPersonalInfoRequired
	}
	if err := schemas.ValidateDocument(raw); err != nil {
		return cv.Document{}, validationFromSchema(err)
	}

	now := s.now().UTC()
	doc = cv.Normalize(doc, now)
	// Client clocks are not trusted to run ahead of ours.
	if doc.CreatedAt.After(now) {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.After(now) {
		doc.UpdatedAt = now
	}
	if err := cv.Validate(doc); err != nil {
		return cv.Document{}, validationFromDocument(err)
	}
	return doc, nil
}

// mergeDocument replaces the top-level fields present in patch and re-validates the result.
// Unknown fields are ignored.
func (s *Server) mergeDocument(current cv.Document, patch map[string]json.RawMessage) (cv.Document, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return cv.Document{}, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return cv.Document{}, err
	}
	for _, name := range mergeableFields {
		if value, ok := patch[name]; ok {
			fields[name] = value
		}
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return cv.Document{}, err
	}
	if err := schemas.ValidateDocument(merged); err != nil {
		return cv.Document{}, validationFromSchema(err)
	}

	var doc cv.Document
	if err := json.Unmarshal(merged, &doc); err != nil {
		return cv.Document{}, &ErrBadRequest{Message: "Invalid request body"}
	}
	doc = cv.Normalize(doc, current.CreatedAt)
	if now := s.now().UTC(); now.After(current.UpdatedAt) {
		doc.UpdatedAt = now
	} else {
		doc.UpdatedAt = current.UpdatedAt
	}

	if err := cv.Validate(doc); err != nil {
		return cv.Document{}, validationFromDocument(err)
	}
	return doc, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrBadRequest{Message: "Request body too large"}
		}
		if errors.Is(err, io.EOF) {
			return &ErrBadRequest{Message: "Request body is required"}
		}
		return &ErrBadRequest{Message: "Invalid request body"}
	}
	return nil
}

// queryInt returns the integer query parameter or zero when absent or malformed.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

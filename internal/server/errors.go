package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/templates"
)

// ErrValidation reports field-level problems with a submitted document.
type ErrValidation struct {
	Errors []string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation failed: %d error(s)", len(e.Errors))
}

// ErrBadRequest is a malformed request that is not a per-field validation failure.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// ErrInvalidID indicates a path id that cannot name any record.
type ErrInvalidID struct {
	Value string
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid CV id: %q", e.Value)
}

// ErrNotFound indicates the addressed resource does not exist.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		badRequest *ErrBadRequest
		invalidID  *ErrInvalidID
		notFound   *ErrNotFound
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &badRequest), errors.As(err, &invalidID):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, templates.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, export.ErrCanceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, export.ErrNoRenderer):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the message shown to API clients. Internal failures never leak their cause.
func publicMessage(err error) string {
	var (
		badRequest *ErrBadRequest
		notFound   *ErrNotFound
		render     *rendering.RenderError
	)
	switch {
	case errors.As(err, &badRequest):
		return badRequest.Message
	case errors.As(err, &notFound):
		return notFound.Resource + " not found"
	}

	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		var invalidID *ErrInvalidID
		switch {
		case errors.As(err, &invalidID):
			return "Invalid CV ID format"
		case errors.Is(err, export.ErrUnsupportedFormat):
			return "Unsupported export format"
		default:
			return "Validation failed"
		}
	case http.StatusNotFound:
		return "Template not found"
	case http.StatusGatewayTimeout:
		return "Export timed out"
	case http.StatusServiceUnavailable:
		return "Export canceled"
	case http.StatusNotImplemented:
		return "PDF export is not available on this server"
	}
	if errors.As(err, &render) {
		return "Export failed"
	}
	return "Internal server error"
}

// writeError maps err to a status and a client-safe body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		event := log.Error().Err(err).Int("status", status)
		var render *rendering.RenderError
		if errors.As(err, &render) {
			event = event.Str("format", render.Format).Str("stage", render.Stage)
		}
		event.Msg("request failed")
	}

	var validation *ErrValidation
	if errors.As(err, &validation) {
		s.jsonResponse(w, status, map[string]any{
			"message": publicMessage(err),
			"errors":  validation.Errors,
		})
		return
	}
	s.errorResponse(w, status, publicMessage(err))
}

// validationFromSchema converts schema field errors into API validation errors.
func validationFromSchema(err error) error {
	var verr *schemas.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	out := &ErrValidation{Errors: make([]string, len(verr.Errors))}
	for i, fe := range verr.Errors {
		out.Errors[i] = fe.Field + ": " + fe.Message
	}
	return out
}

// validationFromDocument converts document rule violations into API validation errors.
func validationFromDocument(err error) error {
	var verr *cv.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return &ErrValidation{Errors: verr.Messages()}
}

package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failed API call. Status is zero when the server could not be reached.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Errors  []string
	Cause   error
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status}
	var payload struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Message
		e.Errors = payload.Errors
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Cause)
	}
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// NotFound reports whether the server answered 404.
func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// UserMessage is a short explanation suitable for showing to the person using the CLI.
func (e *APIError) UserMessage() string {
	switch {
	case e.Status == 0:
		return "Could not reach the CV server. Check your connection and try again."
	case e.Status == http.StatusBadRequest && e.Message == "Invalid CV ID format":
		return "That CV id is not valid."
	case e.Status == http.StatusBadRequest && len(e.Errors) > 0:
		return "The CV was rejected: " + strings.Join(e.Errors, "; ")
	case e.Status == http.StatusBadRequest:
		return "The CV was rejected: " + e.Message
	case e.Status == http.StatusNotFound:
		return "The CV could not be found. It may have been deleted."
	case e.Status == http.StatusTooManyRequests:
		return "Too many requests. Wait a moment and try again."
	case e.Status >= 500:
		return "The CV server had a problem. Try again later."
	default:
		return e.Message
	}
}

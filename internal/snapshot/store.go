// Package snapshot persists the working CV document between sessions and debounces writes.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/schemas"
)

// Key is the fixed name the working document is stored under.
const Key = "growva-cv-data"

// Store persists a single document blob.
type Store interface {
	// Load returns the stored document, or nil when nothing has been stored yet.
	Load(ctx context.Context) (*cv.Document, error)
	Save(ctx context.Context, doc cv.Document) error
	Clear(ctx context.Context) error
}

// CorruptError reports a stored blob that is not a valid document.
type CorruptError struct {
	Source string
	Cause  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt snapshot in %s: %v", e.Source, e.Cause)
}

func (e *CorruptError) Unwrap() error {
	return e.Cause
}

func encode(doc cv.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// decode validates data against the document schema before unmarshalling it.
func decode(source string, data []byte) (*cv.Document, error) {
	if err := schemas.ValidateDocument(data); err != nil {
		return nil, &CorruptError{Source: source, Cause: err}
	}
	var doc cv.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Source: source, Cause: err}
	}
	return &doc, nil
}

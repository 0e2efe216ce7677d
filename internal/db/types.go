package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-builder/internal/cv"
)

// DefaultTemplate is stored when a CV is created without a template.
const DefaultTemplate = "classic"

// Record is a CV as stored remotely: the document plus ownership and server timestamps.
type Record struct {
	ID        uuid.UUID   `json:"cvId"`
	UserID    string      `json:"userId"`
	Template  string      `json:"template"`
	Document  cv.Document `json:"cvData"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Summary is the listing projection of a Record.
type Summary struct {
	ID        uuid.UUID `json:"cvId"`
	Template  string    `json:"template"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Page limits for listing.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PageRequest selects one page of a user's CVs. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults and bounds: page >= 1 and 1 <= limit <= MaxPageLimit.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset is the number of rows skipped before the page starts.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func (p PageRequest) TotalPages(total int) int {
	if p.Limit < 1 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// SummaryPage is one page of a user's CVs plus the user's total count.
type SummaryPage struct {
	Items []Summary
	Total int
}

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-builder/internal/cv"
)

// CreateCV stores a new CV for userID and returns the stored record.
func (db *DB) CreateCV(ctx context.Context, userID, template string, doc cv.Document) (*Record, error) {
	if template == "" {
		template = DefaultTemplate
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cv: %w", err)
	}

	rec := &Record{
		ID:       uuid.New(),
		UserID:   userID,
		Template: template,
		Document: doc,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO cvs (id, user_id, template, document)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		rec.ID, userID, template, docJSON,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cv: %w", err)
	}
	return rec, nil
}

// GetCV retrieves a CV by id. Returns nil, nil when it does not exist.
func (db *DB) GetCV(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	var docJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, template, document, created_at, updated_at
		 FROM cvs WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.UserID, &rec.Template, &docJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	if err := json.Unmarshal(docJSON, &rec.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cv %s: %w", id, err)
	}
	return &rec, nil
}

// UpdateCV replaces the template and document of an existing CV.
// Returns nil, nil when the CV does not exist. The last writer wins.
func (db *DB) UpdateCV(ctx context.Context, id uuid.UUID, template string, doc cv.Document) (*Record, error) {
	if template == "" {
		template = DefaultTemplate
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cv: %w", err)
	}

	rec := &Record{ID: id, Template: template, Document: doc}
	err = db.pool.QueryRow(ctx,
		`UPDATE cvs SET template = $2, document = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING user_id, created_at, updated_at`,
		id, template, docJSON,
	).Scan(&rec.UserID, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cv: %w", err)
	}
	return rec, nil
}

// DeleteCV removes a CV. It reports false when nothing was deleted.
func (db *DB) DeleteCV(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM cvs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete cv: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListCVsByUser returns one page of a user's CVs, most recently updated first,
// together with the user's total CV count.
func (db *DB) ListCVsByUser(ctx context.Context, userID string, req PageRequest) (*SummaryPage, error) {
	req = req.Normalize()
	page := &SummaryPage{Items: []Summary{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := db.pool.Query(gctx,
			`SELECT id, template, COALESCE(document->'personalInfo'->>'fullName', ''), created_at, updated_at
			 FROM cvs WHERE user_id = $1
			 ORDER BY updated_at DESC
			 LIMIT $2 OFFSET $3`,
			userID, req.Limit, req.Offset(),
		)
		if err != nil {
			return fmt.Errorf("failed to list cvs: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s Summary
			if err := rows.Scan(&s.ID, &s.Template, &s.FullName, &s.CreatedAt, &s.UpdatedAt); err != nil {
				return fmt.Errorf("failed to scan cv: %w", err)
			}
			page.Items = append(page.Items, s)
		}
		return rows.Err()
	})
	g.Go(func() error {
		err := db.pool.QueryRow(gctx, `SELECT COUNT(*) FROM cvs WHERE user_id = $1`, userID).Scan(&page.Total)
		if err != nil {
			return fmt.Errorf("failed to count cvs: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

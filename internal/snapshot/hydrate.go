package snapshot

import (
	"context"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/rs/zerolog/log"
)

// Hydrate returns the stored document, or nil when there is none or it cannot be used.
// Read failures and corrupt snapshots are logged; the caller starts from an empty document.
func Hydrate(ctx context.Context, store Store) *cv.Document {
	doc, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring stored snapshot")
		return nil
	}
	return doc
}

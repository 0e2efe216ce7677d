// Package session wires the local working copy of a CV: the in-memory store, its persisted
// snapshot, the debounced autosave and the anonymous client id.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/snapshot"
)

// RemoteIDFile holds the id of the server-side copy created by the last push.
const RemoteIDFile = "remote-cv-id"

// Options configures Open.
type Options struct {
	// Dir holds the snapshot file (unless a Redis URL is given), the client id and the remote id.
	Dir string
	// RedisURL stores the snapshot in Redis instead of Dir.
	RedisURL string
	// AutosaveDelay is the quiet period before a change is written. Zero uses snapshot.DefaultDelay.
	AutosaveDelay time.Duration
	// Now overrides the clock used to stamp documents.
	Now func() time.Time
	// Store overrides the snapshot backend. Used by tests.
	Store snapshot.Store
}

// Session is an open working copy. Close must be called to flush pending writes.
type Session struct {
	dir       string
	clientID  string
	store     *cv.Store
	snapshots snapshot.Store
	autosaver *snapshot.Autosaver
	hydrated  bool
}

// Open hydrates the store from the persisted snapshot and starts autosaving changes to it.
// A missing or unreadable snapshot starts an empty document.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Dir == "" {
		return nil, errors.New("session directory is required")
	}

	snapshots := opts.Store
	if snapshots == nil {
		if opts.RedisURL != "" {
			rs, err := snapshot.NewRedisStore(ctx, opts.RedisURL)
			if err != nil {
				return nil, err
			}
			snapshots = rs
		} else {
			snapshots = snapshot.NewFileStore(opts.Dir)
		}
	}

	clientID, err := snapshot.LoadOrCreateClientID(opts.Dir)
	if err != nil {
		closeStore(snapshots)
		return nil, err
	}

	storeOpts := []cv.StoreOption{}
	if opts.Now != nil {
		storeOpts = append(storeOpts, cv.WithClock(opts.Now))
	}
	doc := snapshot.Hydrate(ctx, snapshots)
	if doc != nil {
		storeOpts = append(storeOpts, cv.WithDocument(*doc))
	}

	s := &Session{
		dir:       opts.Dir,
		clientID:  clientID,
		store:     cv.NewStore(storeOpts...),
		snapshots: snapshots,
		autosaver: snapshot.NewAutosaver(snapshots, opts.AutosaveDelay),
		hydrated:  doc != nil,
	}
	s.store.Subscribe(s.autosaver.Schedule)

	log.Debug().
		Str("client_id", clientID).
		Bool("hydrated", s.hydrated).
		Str("cv_id", s.store.Snapshot().ID).
		Msg("session opened")
	return s, nil
}

// Store returns the document store.
func (s *Session) Store() *cv.Store {
	return s.store
}

// ClientID returns the anonymous id of this installation.
func (s *Session) ClientID() string {
	return s.clientID
}

// Hydrated reports whether the session started from a stored snapshot.
func (s *Session) Hydrated() bool {
	return s.hydrated
}

// Dispatch applies cmd to the store; the change is written after the autosave delay.
func (s *Session) Dispatch(cmd cv.Command) cv.Document {
	return s.store.Dispatch(cmd)
}

// Clear deletes the stored snapshot and cancels any pending write. The in-memory document is
// left alone.
func (s *Session) Clear(ctx context.Context) error {
	s.autosaver.Stop()
	return s.snapshots.Clear(ctx)
}

// RemoteID returns the server-side id recorded by the last push, or "" when there is none.
func (s *Session) RemoteID() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, RemoteIDFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read remote id: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if _, err := uuid.Parse(id); err != nil {
		return "", nil
	}
	return id, nil
}

// SetRemoteID records the server-side id of the working copy.
func (s *Session) SetRemoteID(id string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, RemoteIDFile), []byte(id+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write remote id: %w", err)
	}
	return nil
}

// Close writes any pending change and releases the snapshot backend. Write failures are logged,
// never returned, so a broken disk cannot lose the caller's result.
func (s *Session) Close(ctx context.Context) {
	if err := s.autosaver.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to save snapshot")
	}
	s.autosaver.Stop()
	closeStore(s.snapshots)
}

func closeStore(store snapshot.Store) {
	if c, ok := store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close snapshot store")
		}
	}
}

package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/rs/zerolog/log"
)

// DefaultDelay is the quiet period after the last change before a snapshot is written.
const DefaultDelay = time.Second

// Autosaver writes the latest scheduled document once no further change has arrived for the delay.
// Each Schedule call cancels the pending write and re-arms the timer, so a burst of edits produces
// one write carrying the final state.
type Autosaver struct {
	store        Store
	delay        time.Duration
	writeTimeout time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *cv.Document
	stopped bool

	// writeMu keeps writes in schedule order when a timer fires while Flush is running.
	writeMu sync.Mutex
}

// NewAutosaver returns an autosaver writing to store. A non-positive delay uses DefaultDelay.
func NewAutosaver(store Store, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Autosaver{
		store:        store,
		delay:        delay,
		writeTimeout: 10 * time.Second,
	}
}

// Schedule records doc as the state to persist and restarts the delay.
func (a *Autosaver) Schedule(doc cv.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}

	a.pending = &doc
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

// Pending reports whether a write is waiting for its timer.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

func (a *Autosaver) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), a.writeTimeout)
	defer cancel()

	if err := a.write(ctx); err != nil {
		log.Warn().Err(err).Str("key", Key).Msg("autosave failed")
	}
}

// write persists the pending document, if any. Errors are returned to the caller.
func (a *Autosaver) write(ctx context.Context) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	doc := a.pending
	a.pending = nil
	a.mu.Unlock()

	if doc == nil {
		return nil
	}
	return a.store.Save(ctx, *doc)
}

// Flush cancels the timer and writes any pending document immediately.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.write(ctx)
}

// Stop cancels the pending write without persisting it. Later Schedule calls are ignored.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
	}
}

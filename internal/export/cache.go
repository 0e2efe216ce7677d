package export

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache keeps recently rendered artifacts keyed by stored revision and format.
// The revision is the storage layer's update timestamp, so any saved edit misses the cache.
type Cache struct {
	c *cache.Cache
}

// NewCache returns a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: cache.New(ttl, ttl+5*time.Minute)}
}

func cacheKey(id string, revision time.Time, format Format) string {
	return fmt.Sprintf("%s|%d|%s", id, revision.UnixNano(), format)
}

// Get returns the artifact cached for revision of document id.
func (c *Cache) Get(id string, revision time.Time, format Format) (*Artifact, bool) {
	v, ok := c.c.Get(cacheKey(id, revision, format))
	if !ok {
		return nil, false
	}
	return v.(*Artifact), true
}

// Put stores a for revision of document id.
func (c *Cache) Put(id string, revision time.Time, a *Artifact) {
	c.c.Set(cacheKey(id, revision, a.Format), a, cache.DefaultExpiration)
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.c.Flush()
}

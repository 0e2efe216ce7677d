package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c := NewCache(time.Minute)
	id := "3f1b6a0e-8c4d-4e2a-9d0b-1c2d3e4f5a6b"
	revision := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	artifact := &Artifact{Format: FormatMarkdown, Data: []byte("# Jane Doe")}

	_, ok := c.Get(id, revision, FormatMarkdown)
	assert.False(t, ok)

	c.Put(id, revision, artifact)
	got, ok := c.Get(id, revision, FormatMarkdown)
	require.True(t, ok)
	assert.Same(t, artifact, got)

	_, ok = c.Get(id, revision, FormatPDF)
	assert.False(t, ok, "formats are cached separately")

	_, ok = c.Get(id, revision.Add(time.Microsecond), FormatMarkdown)
	assert.False(t, ok, "a new revision misses")

	_, ok = c.Get("another-id", revision, FormatMarkdown)
	assert.False(t, ok)

	c.Flush()
	_, ok = c.Get(id, revision, FormatMarkdown)
	assert.False(t, ok)
}

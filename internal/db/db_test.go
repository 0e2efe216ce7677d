package db

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/cv"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"zero values", PageRequest{}, PageRequest{Page: 1, Limit: DefaultPageLimit}},
		{"negative page", PageRequest{Page: -3, Limit: 5}, PageRequest{Page: 1, Limit: 5}},
		{"limit capped", PageRequest{Page: 2, Limit: 1000}, PageRequest{Page: 2, Limit: MaxPageLimit}},
		{"unchanged", PageRequest{Page: 4, Limit: 25}, PageRequest{Page: 4, Limit: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageRequest_OffsetAndTotalPages(t *testing.T) {
	req := PageRequest{Page: 3, Limit: 10}

	assert.Equal(t, 20, req.Offset())
	assert.Equal(t, 0, req.TotalPages(0))
	assert.Equal(t, 1, req.TotalPages(10))
	assert.Equal(t, 2, req.TotalPages(11))
	assert.Equal(t, 0, PageRequest{}.TotalPages(5))
}

func TestRecord_JSONShape(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	doc := cv.New(now)
	doc.PersonalInfo.FullName = "Jane Doe"

	data, err := json.Marshal(Record{UserID: "u1", Template: DefaultTemplate, Document: doc, CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"cvId", "userId", "template", "cvData", "createdAt", "updatedAt"} {
		assert.Contains(t, fields, key)
	}
	assert.Contains(t, string(fields["cvData"]), `"fullName":"Jane Doe"`)
}

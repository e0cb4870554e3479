package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestToResponseFormatsTimestamps(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+2", 2*60*60)
	updated := time.Date(2023, 1, 2, 12, 30, 15, 123456789, loc)

	got := ToResponse(Content{ID: 7, Title: "A", Description: strPtr("B"), CreatedAt: created, UpdatedAt: updated})

	assert.Equal(t, 7, got.ID)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "B", *got.Description)
	assert.Equal(t, "2023-01-01T00:00:00.000Z", got.CreatedAt)
	assert.Equal(t, "2023-01-02T10:30:15.123Z", got.UpdatedAt)
}

func TestPatchApply(t *testing.T) {
	base := Content{ID: 1, Title: "Old", Description: strPtr("Desc")}

	t.Run("title only", func(t *testing.T) {
		got := Patch{Title: strPtr("New")}.Apply(base)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, "Desc", *got.Description)
	})

	t.Run("description only", func(t *testing.T) {
		got := Patch{SetDescription: true, Description: strPtr("")}.Apply(base)
		assert.Equal(t, "Old", got.Title)
		assert.Equal(t, "", *got.Description)
	})

	t.Run("clear description", func(t *testing.T) {
		got := Patch{SetDescription: true}.Apply(base)
		assert.Nil(t, got.Description)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.Equal(t, base, Patch{}.Apply(base))
	})
}

package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() Entry {
	return EntryDraft{
		Title:   "Morning walk",
		Content: "Went for a walk in the rain.",
		Mood:    MoodCalm,
		OwnerID: "user-1",
	}.Build(time.Now())
}

func TestValidator_ValidEntryReturnedUnchanged(t *testing.T) {
	v := NewValidator()
	e := validEntry()

	got, err := v.Validate(e)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	again, err := v.Validate(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestValidator_EmptyTitleNamesTitle(t *testing.T) {
	e := validEntry()
	e.Title = ""

	_, err := NewValidator().Validate(e)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Equal(t, []string{"is required"}, verr.Fields["title"])
	assert.Contains(t, err.Error(), "title")
}

func TestValidator_ReportsEveryFailingField(t *testing.T) {
	e := EntryDraft{Title: "Hi", Content: "short", OwnerID: "user-1"}.Build(time.Now())

	_, err := NewValidator().Validate(e)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 2)
	assert.Equal(t, []string{"must be at least 3 characters"}, verr.Fields["title"])
	assert.Equal(t, []string{"must be at least 10 characters"}, verr.Fields["content"])
	assert.Equal(t, "validation failed: content must be at least 10 characters; title must be at least 3 characters", err.Error())
}

func TestValidator_Bounds(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		mutate func(*Entry)
		field  string
	}{
		{"title too long", func(e *Entry) { e.Title = strings.Repeat("a", 101) }, "title"},
		{"unknown mood", func(e *Entry) { e.Mood = "ecstatic" }, "mood"},
		{"missing mood", func(e *Entry) { e.Mood = "" }, "mood"},
		{"zero date", func(e *Entry) { e.Date = time.Time{} }, "date"},
		{"empty tag", func(e *Entry) { e.Tags = []string{"ok", ""} }, "tags[1]"},
		{"long tag", func(e *Entry) { e.Tags = []string{strings.Repeat("t", 51)} }, "tags[0]"},
		{"missing owner", func(e *Entry) { e.OwnerID = "" }, "ownerId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)

			_, err := v.Validate(e)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestValidator_LengthCountsCharacters(t *testing.T) {
	e := validEntry()
	e.Title = strings.Repeat("é", 100)

	_, err := NewValidator().Validate(e)
	assert.NoError(t, err)
}

func TestValidator_DuplicateTagsAllowed(t *testing.T) {
	e := validEntry()
	e.Tags = []string{"rain", "rain"}

	_, err := NewValidator().Validate(e)
	assert.NoError(t, err)
}

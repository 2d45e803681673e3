package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterEntries(t *testing.T) {
	entries := []Entry{
		{Title: "Beach day", Content: "Sun and sand with friends.", Tags: []string{"friends", "outdoors"}},
		{Title: "Work stress", Content: "Deadline moved up again.", Tags: []string{"work"}},
		{Title: "Quiet evening", Content: "Read a BOOK by the window.", Tags: []string{"self-care"}},
	}

	tests := []struct {
		query  string
		titles []string
	}{
		{"", []string{"Beach day", "Work stress", "Quiet evening"}},
		{"   ", []string{"Beach day", "Work stress", "Quiet evening"}},
		{"beach", []string{"Beach day"}},
		{"book", []string{"Quiet evening"}},
		{"FRIEND", []string{"Beach day"}},
		{"care", []string{"Quiet evening"}},
		{"e", []string{"Beach day", "Work stress", "Quiet evening"}},
		{"nothing here", []string{}},
	}
	for _, tt := range tests {
		got := FilterEntries(entries, tt.query)
		titles := make([]string, 0, len(got))
		for _, e := range got {
			titles = append(titles, e.Title)
		}
		assert.Equal(t, tt.titles, titles, "query %q", tt.query)
	}
}

func TestParseSortOrder(t *testing.T) {
	got, ok := ParseSortOrder("")
	assert.True(t, ok)
	assert.Equal(t, SortNewest, got)

	got, ok = ParseSortOrder("Oldest")
	assert.True(t, ok)
	assert.Equal(t, SortOldest, got)

	_, ok = ParseSortOrder("title")
	assert.False(t, ok)
}

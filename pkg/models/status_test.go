package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOutcome_String(t *testing.T) {
	tests := []struct {
		outcome PageOutcome
		want    string
	}{
		{PageOutcomeUnset, "unset"},
		{PageOutcomeFetched, "fetched"},
		{PageOutcomeFailed, "failed"},
		{PageOutcomeSkippedVisited, "skipped_visited"},
		{PageOutcomeSkippedDepth, "skipped_depth"},
		{PageOutcomeSkippedScope, "skipped_scope"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.outcome.String())
	}
}

func TestPageOutcome_IsSkip(t *testing.T) {
	tests := []struct {
		outcome PageOutcome
		want    bool
	}{
		{PageOutcomeSkippedVisited, true},
		{PageOutcomeSkippedDepth, true},
		{PageOutcomeSkippedScope, true},
		{PageOutcomeFetched, false},
		{PageOutcomeFailed, false},
		{PageOutcomeUnset, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.outcome.IsSkip(), "PageOutcome(%q).IsSkip()", string(tt.outcome))
	}
}

func TestPageTypeFor(t *testing.T) {
	assert.Equal(t, PageTypeMain, PageTypeFor(0))
	assert.Equal(t, PageTypeSubpage, PageTypeFor(1))
	assert.Equal(t, PageTypeSubpage, PageTypeFor(5))
}

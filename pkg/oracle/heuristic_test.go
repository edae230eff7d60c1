package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/classifico/pkg/types"
)

func TestHeuristicExtract(t *testing.T) {
	extractor := NewHeuristicHintExtractor()

	hints, err := extractor.Extract(context.Background(), "Stanford University", "", "organization")
	require.NoError(t, err)
	assert.Equal(t, []string{"organization", "university", "stanford university"}, hints)
}

func TestHeuristicExtractSingleToken(t *testing.T) {
	extractor := NewHeuristicHintExtractor()

	hints, err := extractor.Extract(context.Background(), "Violin", "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"violin"}, hints)
}

func TestHeuristicExtractDeduplicates(t *testing.T) {
	extractor := NewHeuristicHintExtractor()

	hints, err := extractor.Extract(context.Background(), "university", "", "University")
	require.NoError(t, err)
	assert.Equal(t, []string{"university"}, hints)
}

func TestHeuristicExtractEmpty(t *testing.T) {
	extractor := NewHeuristicHintExtractor()

	_, err := extractor.Extract(context.Background(), "", "", "")
	assert.ErrorIs(t, err, types.ErrNoHints)
}

func TestHeuristicExtractRespectsMaxHints(t *testing.T) {
	extractor := NewHeuristicHintExtractor()

	hints, err := extractor.Extract(context.Background(), "a b c", "", "kind")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hints), types.MaxHints)
}

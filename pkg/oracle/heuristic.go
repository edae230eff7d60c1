package oracle

import (
	"context"
	"strings"

	"github.com/soundprediction/classifico/pkg/types"
)

// HeuristicHintExtractor derives type hints from the subject itself,
// with no model call. It serves as the fallback when no LLM is
// configured or the LLM oracle is unavailable.
//
// The kind tag, the label's head noun (last token), and the full label
// are candidate type phrases, most specific first.
type HeuristicHintExtractor struct{}

// NewHeuristicHintExtractor creates the extractor.
func NewHeuristicHintExtractor() *HeuristicHintExtractor {
	return &HeuristicHintExtractor{}
}

// Extract returns hints derived from kind and label.
func (e *HeuristicHintExtractor) Extract(ctx context.Context, label, surrounding, kind string) ([]string, error) {
	var hints []string
	seen := make(map[string]bool)

	add := func(hint string) {
		hint = strings.ToLower(strings.TrimSpace(hint))
		if hint == "" || seen[hint] || len(hints) == types.MaxHints {
			return
		}
		seen[hint] = true
		hints = append(hints, hint)
	}

	add(kind)

	// Compound labels often end in their head noun ("research
	// university", "port city").
	tokens := strings.Fields(label)
	if len(tokens) > 1 {
		add(tokens[len(tokens)-1])
	}
	add(label)

	if len(hints) == 0 {
		return nil, types.ErrNoHints
	}
	return hints, nil
}

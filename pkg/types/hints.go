package types

import (
	"errors"
	"fmt"
)

// MaxHints is the maximum number of type hints considered per subject.
// Extractors may return more; the tail is discarded.
const MaxHints = 5

// hintPositionWeights maps a hint's position in the extractor output to
// its weight in score composition. Earlier hints matter more.
var hintPositionWeights = [MaxHints]float64{1.0, 0.7, 0.5, 0.35, 0.25}

// minPositionWeight is the clamp applied beyond the weight table.
const minPositionWeight = 0.2

// HintPositionWeight returns the position weight for the hint at the
// given index in the extractor's importance ordering.
func HintPositionWeight(index int) float64 {
	if index >= 0 && index < len(hintPositionWeights) {
		return hintPositionWeights[index]
	}
	return minPositionWeight
}

// Hint is a single type hint: a short string describing a likely
// category of the subject entity, together with its embedding and the
// weight derived from its position in the extractor output.
type Hint struct {
	Text           string    `json:"text"`
	Embedding      []float32 `json:"-"`
	PositionWeight float64   `json:"position_weight"`
}

// HintSet is an importance-ordered sequence of 1 to MaxHints hints.
type HintSet struct {
	Hints []Hint `json:"hints"`
}

// ErrNoHints is returned when a hint set would be empty.
var ErrNoHints = errors.New("hint set must contain at least one hint")

// NewHintSet builds a HintSet from parallel slices of hint texts and
// their embeddings, assigning position weights by index. Hints beyond
// MaxHints are dropped.
func NewHintSet(texts []string, embeddings [][]float32) (*HintSet, error) {
	if len(texts) == 0 {
		return nil, ErrNoHints
	}
	if len(texts) != len(embeddings) {
		return nil, fmt.Errorf("hint texts and embeddings length mismatch: %d != %d", len(texts), len(embeddings))
	}
	if len(texts) > MaxHints {
		texts = texts[:MaxHints]
		embeddings = embeddings[:MaxHints]
	}

	hints := make([]Hint, len(texts))
	for i, text := range texts {
		hints[i] = Hint{
			Text:           text,
			Embedding:      embeddings[i],
			PositionWeight: HintPositionWeight(i),
		}
	}
	return &HintSet{Hints: hints}, nil
}

// Len returns the number of hints in the set.
func (h *HintSet) Len() int {
	return len(h.Hints)
}

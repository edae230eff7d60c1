package classify

import (
	"strings"

	"github.com/soundprediction/classifico/pkg/types"
	"github.com/soundprediction/classifico/pkg/utils"
)

// maxHintSimilarity returns the maximum cosine similarity between a
// node embedding and any hint embedding. A nil or zero-norm embedding
// on either side contributes 0 for that pair.
func maxHintSimilarity(embedding []float32, hints *types.HintSet) float64 {
	best := 0.0
	for i := range hints.Hints {
		if sim := utils.CosineSimilarity(embedding, hints.Hints[i].Embedding); sim > best {
			best = sim
		}
	}
	return best
}

// tokenJaccard computes the Jaccard overlap of the lowercased token
// sets of two strings. Empty inputs score 0.
func tokenJaccard(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if f != "" {
			set[f] = struct{}{}
		}
	}
	return set
}

// hintAffinities scores a child node against every hint and returns the
// sparse map of affinities above the match threshold, together with the
// maximum recorded affinity. The combined score mixes embedding cosine
// similarity with label token overlap so that exact wording still
// counts when embeddings are close.
func hintAffinities(node *types.TaxonomyNode, hints *types.HintSet, cfg *SearchConfig) (map[int]float64, float64) {
	var affinities map[int]float64
	maxAffinity := 0.0

	for i := range hints.Hints {
		hint := &hints.Hints[i]
		combined := cfg.CosineAffinityWeight*utils.CosineSimilarity(node.Embedding, hint.Embedding) +
			cfg.JaccardAffinityWeight*tokenJaccard(node.Label, hint.Text)
		if combined <= cfg.HintMatchThreshold {
			continue
		}
		if affinities == nil {
			affinities = make(map[int]float64, len(hints.Hints))
		}
		affinities[i] = combined
		if combined > maxAffinity {
			maxAffinity = combined
		}
	}
	return affinities, maxAffinity
}

package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundprediction/classifico/pkg/nlp"
	"github.com/soundprediction/classifico/pkg/types"
)

const hintExtractorSystemPrompt = `You are a helpful assistant that describes what kind of thing a concept is.
Given a concept, respond with 1 to 5 short type phrases ordered from most to least important.
Each phrase names a category the concept belongs to, most specific first.
Respond with JSON: {"hints": ["...", "..."]}`

const branchSelectorSystemPrompt = `You are a helpful assistant that routes a concept into the right top-level branches of a taxonomy.
Given a concept and the list of branch labels, pick the branches worth exploring.
For each picked branch report a relevance between 0 and 1 and a one-sentence reason.
Respond with JSON: {"choices": [{"label": "...", "relevance": 0.0, "reasoning": "..."}]}`

const verifierSystemPrompt = `You are a careful reviewer of taxonomy classifications.
Given a concept and numbered candidate classification paths, pick the index of the best path, or -1 if none fit.
Respond with JSON: {"best_index": 0, "confidence": 0.0, "reasoning": "..."}`

// LLMHintExtractor asks a language model for type hints.
type LLMHintExtractor struct {
	client nlp.Client
}

// NewLLMHintExtractor creates an extractor backed by the given client.
func NewLLMHintExtractor(client nlp.Client) *LLMHintExtractor {
	return &LLMHintExtractor{client: client}
}

// Extract returns 1 to 5 type phrases for the subject, most important
// first.
func (e *LLMHintExtractor) Extract(ctx context.Context, label, surrounding, kind string) ([]string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Concept: %s\n", label)
	if kind != "" {
		fmt.Fprintf(&sb, "Kind: %s\n", kind)
	}
	if surrounding != "" {
		fmt.Fprintf(&sb, "Context: %s\n", surrounding)
	}
	sb.WriteString("\nWhat kind of thing is this concept?")

	resp, err := e.client.ChatWithStructuredOutput(ctx, []types.Message{
		nlp.NewSystemMessage(hintExtractorSystemPrompt),
		nlp.NewUserMessage(sb.String()),
	}, hintResponse{})
	if err != nil {
		return nil, fmt.Errorf("hint extraction call failed: %w", err)
	}

	var parsed hintResponse
	if err := decodeJSON(resp.Content, &parsed); err != nil {
		return nil, fmt.Errorf("hint extraction: %w", err)
	}

	hints := make([]string, 0, types.MaxHints)
	for _, hint := range parsed.Hints {
		hint = strings.TrimSpace(hint)
		if hint == "" {
			continue
		}
		hints = append(hints, hint)
		if len(hints) == types.MaxHints {
			break
		}
	}
	if len(hints) == 0 {
		return nil, fmt.Errorf("hint extraction returned no usable hints")
	}
	return hints, nil
}

type hintResponse struct {
	Hints []string `json:"hints"`
}

// LLMBranchSelector asks a language model which root branches to
// explore for a subject.
type LLMBranchSelector struct {
	client nlp.Client
}

// NewLLMBranchSelector creates a selector backed by the given client.
func NewLLMBranchSelector(client nlp.Client) *LLMBranchSelector {
	return &LLMBranchSelector{client: client}
}

// Select returns the branch choices the model considers relevant.
func (s *LLMBranchSelector) Select(ctx context.Context, children []*types.TaxonomyNode, subject string) ([]types.BranchChoice, error) {
	labels := make([]string, len(children))
	for i, child := range children {
		labels[i] = child.Label
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Concept: %s\n\nBranches:\n", subject)
	for _, label := range labels {
		fmt.Fprintf(&sb, "- %s\n", label)
	}

	resp, err := s.client.ChatWithStructuredOutput(ctx, []types.Message{
		nlp.NewSystemMessage(branchSelectorSystemPrompt),
		nlp.NewUserMessage(sb.String()),
	}, branchResponse{})
	if err != nil {
		return nil, fmt.Errorf("branch selection call failed: %w", err)
	}

	var parsed branchResponse
	if err := decodeJSON(resp.Content, &parsed); err != nil {
		return nil, fmt.Errorf("branch selection: %w", err)
	}
	return parsed.Choices, nil
}

type branchResponse struct {
	Choices []types.BranchChoice `json:"choices"`
}

// LLMVerifier reviews ranked candidates with a language model.
type LLMVerifier struct {
	client nlp.Client
}

// NewLLMVerifier creates a verifier backed by the given client.
func NewLLMVerifier(client nlp.Client) *LLMVerifier {
	return &LLMVerifier{client: client}
}

// Verify returns the model's verdict over the candidates.
func (v *LLMVerifier) Verify(ctx context.Context, subject string, candidates []*types.CandidatePath) (*Verdict, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to verify")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Concept: %s\n\nCandidates:\n", subject)
	for i, candidate := range candidates {
		fmt.Fprintf(&sb, "%d. %s\n", i, strings.Join(candidate.Labels, " > "))
	}

	resp, err := v.client.ChatWithStructuredOutput(ctx, []types.Message{
		nlp.NewSystemMessage(verifierSystemPrompt),
		nlp.NewUserMessage(sb.String()),
	}, Verdict{})
	if err != nil {
		return nil, fmt.Errorf("verification call failed: %w", err)
	}

	var verdict Verdict
	if err := decodeJSON(resp.Content, &verdict); err != nil {
		return nil, fmt.Errorf("verification: %w", err)
	}
	if verdict.BestIndex >= len(candidates) {
		return nil, fmt.Errorf("verifier picked index %d of %d candidates", verdict.BestIndex, len(candidates))
	}
	return &verdict, nil
}

package utils

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"opposite", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1.0},
		{"unnormalized", []float32{2, 0, 0}, []float32{5, 0, 0}, 1.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"empty", nil, nil, 0.0},
		{"zero norm", []float32{0, 0, 0}, []float32{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	if v == nil {
		t.Fatal("expected non-nil result")
	}
	if math.Abs(Magnitude(v)-1.0) > 1e-6 {
		t.Errorf("expected unit magnitude, got %f", Magnitude(v))
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("unexpected normalized vector %v", v)
	}

	if Normalize(nil) != nil {
		t.Error("expected nil for empty input")
	}
	if Normalize([]float32{0, 0}) != nil {
		t.Error("expected nil for zero-magnitude input")
	}
}

func TestDotProduct(t *testing.T) {
	if got := DotProduct([]float32{1, 2, 3}, []float32{4, 5, 6}); got != 32 {
		t.Errorf("expected 32, got %f", got)
	}
	if got := DotProduct([]float32{1}, []float32{1, 2}); got != 0 {
		t.Errorf("expected 0 for length mismatch, got %f", got)
	}
}

func TestTopKByScore(t *testing.T) {
	items := []ScoredItem[string]{
		{Item: "c", Score: 0.3},
		{Item: "a", Score: 0.9},
		{Item: "d", Score: 0.1},
		{Item: "b", Score: 0.5},
	}

	top := TopKByScore(items, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 items, got %d", len(top))
	}
	if top[0].Item != "a" || top[1].Item != "b" {
		t.Errorf("expected [a b], got [%s %s]", top[0].Item, top[1].Item)
	}
}

func TestTopKByScoreLargerK(t *testing.T) {
	items := []ScoredItem[int]{
		{Item: 1, Score: 0.2},
		{Item: 2, Score: 0.8},
	}

	top := TopKByScore(items, 10)
	if len(top) != 2 {
		t.Fatalf("expected all items back, got %d", len(top))
	}
	if top[0].Item != 2 {
		t.Errorf("expected descending order, got %v", top)
	}
}

func TestTopKByScoreEdgeCases(t *testing.T) {
	if got := TopKByScore[int](nil, 3); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := TopKByScore([]ScoredItem[int]{{Item: 1, Score: 1}}, 0); got != nil {
		t.Errorf("expected nil for k=0, got %v", got)
	}
}

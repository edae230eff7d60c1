package classify

import "testing"

func TestDefaultSearchConfig(t *testing.T) {
	cfg := DefaultSearchConfig()

	if cfg.BeamWidth != 3 {
		t.Errorf("expected beam width 3, got %d", cfg.BeamWidth)
	}
	if cfg.AlphaMargin != 0.04 {
		t.Errorf("expected alpha margin 0.04, got %f", cfg.AlphaMargin)
	}
	if cfg.ChildFanout != 8 {
		t.Errorf("expected child fan-out 8, got %d", cfg.ChildFanout)
	}
	if cfg.MaxDepth != 7 {
		t.Errorf("expected max depth 7, got %d", cfg.MaxDepth)
	}
	if cfg.EarlyStopEpsilon != 0.01 {
		t.Errorf("expected early stop epsilon 0.01, got %f", cfg.EarlyStopEpsilon)
	}
	if cfg.HintMatchThreshold != 0.25 {
		t.Errorf("expected hint match threshold 0.25, got %f", cfg.HintMatchThreshold)
	}
	if cfg.MaxCandidates != 5 {
		t.Errorf("expected max candidates 5, got %d", cfg.MaxCandidates)
	}
}

func TestSanitizeFillsStructuralFields(t *testing.T) {
	cfg := &SearchConfig{AlphaMargin: 0.1}
	cfg.sanitize()

	def := DefaultSearchConfig()
	if cfg.BeamWidth != def.BeamWidth {
		t.Errorf("expected beam width backfilled to %d, got %d", def.BeamWidth, cfg.BeamWidth)
	}
	if cfg.MaxDepth != def.MaxDepth {
		t.Errorf("expected max depth backfilled to %d, got %d", def.MaxDepth, cfg.MaxDepth)
	}
	if cfg.AlphaMargin != 0.1 {
		t.Errorf("sanitize must not touch populated fields, got %f", cfg.AlphaMargin)
	}
}

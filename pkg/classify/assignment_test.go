package classify

import (
	"math"
	"testing"
)

func TestBestLocationsPicksStrongestNode(t *testing.T) {
	state := &beamState{
		path: []int64{1, 2, 3},
		affinities: map[int64]map[int]float64{
			2: {0: 0.4},
			3: {0: 0.9, 1: 0.5},
		},
	}

	locations := bestLocations(state, 2)
	if locations[0] == nil || locations[0].nodeID != 3 {
		t.Errorf("expected hint 0 to bind node 3, got %+v", locations[0])
	}
	if locations[0].pathPos != 2 {
		t.Errorf("expected path position 2, got %d", locations[0].pathPos)
	}
	if locations[1] == nil || locations[1].nodeID != 3 {
		t.Errorf("expected hint 1 to bind node 3, got %+v", locations[1])
	}
}

func TestBestLocationsTieKeepsShallowerNode(t *testing.T) {
	state := &beamState{
		path: []int64{1, 2, 3},
		affinities: map[int64]map[int]float64{
			2: {0: 0.7},
			3: {0: 0.7},
		},
	}

	locations := bestLocations(state, 1)
	if locations[0].nodeID != 2 {
		t.Errorf("expected the tie to keep the node closer to the root, got node %d", locations[0].nodeID)
	}
}

func TestBestLocationsUnmatchedHint(t *testing.T) {
	state := &beamState{
		path:       []int64{1, 2},
		affinities: map[int64]map[int]float64{2: {0: 0.5}},
	}

	locations := bestLocations(state, 3)
	if locations[1] != nil || locations[2] != nil {
		t.Error("expected nil locations for hints that matched nothing")
	}
}

func TestResolveAssignmentsConflict(t *testing.T) {
	// Both hints prefer node 5; the stronger one wins and the weaker is
	// left unassigned rather than spilling onto another node.
	locations := []*bestLocation{
		{nodeID: 5, pathPos: 1, affinity: 0.6},
		{nodeID: 5, pathPos: 1, affinity: 0.9},
	}

	assignments := resolveAssignments(locations, 2)
	if len(assignments) != 1 {
		t.Fatalf("expected one assignment after conflict resolution, got %d", len(assignments))
	}
	if assignments[0].hintIndex != 1 || assignments[0].nodeID != 5 {
		t.Errorf("expected the stronger hint to claim the node, got %+v", assignments[0])
	}
}

func TestResolveAssignmentsConflictTieByHintIndex(t *testing.T) {
	locations := []*bestLocation{
		{nodeID: 5, pathPos: 1, affinity: 0.7},
		{nodeID: 5, pathPos: 1, affinity: 0.7},
	}

	assignments := resolveAssignments(locations, 2)
	if len(assignments) != 1 {
		t.Fatalf("expected one assignment, got %d", len(assignments))
	}
	if assignments[0].hintIndex != 0 {
		t.Errorf("equal affinities should favor the earlier hint, got hint %d", assignments[0].hintIndex)
	}
}

func TestResolveAssignmentsPathOrder(t *testing.T) {
	locations := []*bestLocation{
		{nodeID: 7, pathPos: 3, affinity: 0.9},
		{nodeID: 2, pathPos: 1, affinity: 0.5},
	}

	assignments := resolveAssignments(locations, 2)
	if len(assignments) != 2 {
		t.Fatalf("expected two assignments, got %d", len(assignments))
	}
	if assignments[0].pathPos > assignments[1].pathPos {
		t.Error("assignments must come back in path order")
	}
}

func TestOrderScore(t *testing.T) {
	engine := NewEngine(nil, nil, nil)

	tests := []struct {
		name        string
		assignments []resolvedAssignment
		expected    float64
	}{
		{
			name:        "single assignment is neutral",
			assignments: []resolvedAssignment{{pathPos: 1, hintIndex: 0}},
			expected:    0,
		},
		{
			name: "fully in order earns the bonus",
			assignments: []resolvedAssignment{
				{pathPos: 1, hintIndex: 0},
				{pathPos: 2, hintIndex: 1},
				{pathPos: 3, hintIndex: 2},
			},
			expected: 0.1 * 1.0,
		},
		{
			name: "fully inverted pays the penalty",
			assignments: []resolvedAssignment{
				{pathPos: 1, hintIndex: 2},
				{pathPos: 2, hintIndex: 1},
				{pathPos: 3, hintIndex: 0},
			},
			expected: -0.15 * 1.0,
		},
		{
			name: "mixed order stays neutral",
			assignments: []resolvedAssignment{
				{pathPos: 1, hintIndex: 1},
				{pathPos: 2, hintIndex: 0},
				{pathPos: 3, hintIndex: 2},
			},
			// 2 of 3 pairs in order: ratio 0.667 sits in the neutral band.
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.orderScore(tt.assignments); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected order score %f, got %f", tt.expected, got)
			}
		})
	}
}

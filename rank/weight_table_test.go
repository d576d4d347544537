package rank

import (
	"context"
	"testing"

	"github.com/rushteam/matchkit/core"
)

func TestWeightTable_Score(t *testing.T) {
	table, err := NewWeightTable(map[string]float64{
		core.CriterionVerified:          5,
		core.CriterionHasProfilePicture: 3,
	})
	if err != nil {
		t.Fatalf("NewWeightTable error = %v", err)
	}

	tests := []struct {
		name string
		c    core.Candidate
		base float64
		want float64
	}{
		{
			name: "both criteria true",
			c:    core.Candidate{Verified: true, HasProfilePicture: true},
			want: 8,
		},
		{
			name: "verified false contributes zero",
			c:    core.Candidate{Verified: false, HasProfilePicture: true},
			want: 3,
		},
		{
			name: "all false",
			c:    core.Candidate{},
			want: 0,
		},
		{
			name: "base from relation weight",
			c:    core.Candidate{Weight: 4, Verified: true},
			base: 4,
			want: 9,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Score(&tt.c, tt.base); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewWeightTable_UnknownCriterion(t *testing.T) {
	if _, err := NewWeightTable(map[string]float64{"not_a_criterion": 1}); err == nil {
		t.Error("expected error for unknown criterion")
	}
}

func TestWeightedNode_SortsDescending(t *testing.T) {
	table, err := NewWeightTable(map[string]float64{core.CriterionVerified: 5})
	if err != nil {
		t.Fatalf("NewWeightTable error = %v", err)
	}
	node := &WeightedNode{Table: table, BaseFromWeight: true}

	candidates := []*core.Candidate{
		{ID: 1, Weight: 1},
		{ID: 2, Weight: 2, Verified: true},
		{ID: 3, Weight: 10},
	}
	out, err := node.Process(context.Background(), &core.SearchContext{}, candidates)
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}

	wantOrder := []int64{3, 2, 1}
	wantScore := []float64{10, 7, 1}
	for i, c := range out {
		if c.ID != wantOrder[i] {
			t.Errorf("position %d: id = %d, want %d", i, c.ID, wantOrder[i])
		}
		if c.Score != wantScore[i] {
			t.Errorf("id %d: score = %v, want %v", c.ID, c.Score, wantScore[i])
		}
	}
}

func TestClusterRankNode_OrdersByClusterScore(t *testing.T) {
	mk := func(id int64, score, sim float64) *core.Candidate {
		c := core.NewCandidate(id, core.SourceUnknown)
		c.Meta[MetaClusterScore] = score
		c.Meta[MetaSimilarity] = sim
		return c
	}
	candidates := []*core.Candidate{
		mk(1, 0.4, 0.9),
		mk(2, 0.8, 0.1),
		mk(3, 0.4, 0.95),
	}
	node := &ClusterRankNode{}
	out, err := node.Process(context.Background(), &core.SearchContext{}, candidates)
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}
	wantOrder := []int64{2, 3, 1} // ties broken by similarity
	for i, c := range out {
		if c.ID != wantOrder[i] {
			t.Errorf("position %d: id = %d, want %d", i, c.ID, wantOrder[i])
		}
	}
}

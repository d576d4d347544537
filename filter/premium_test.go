package filter

import (
	"context"
	"testing"

	"github.com/rushteam/matchkit/core"
)

func TestPremiumCap(t *testing.T) {
	mk := func(id int64, premium bool) *core.Candidate {
		c := core.NewCandidate(id, core.SourceRelated)
		c.Premium = premium
		return c
	}
	candidates := []*core.Candidate{
		mk(1, true), mk(2, false), mk(3, true), mk(4, true), mk(5, false),
	}

	n := &PremiumCapNode{Max: 2}
	got, err := n.Process(context.Background(), nil, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{1, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(got))
	}
	for i, c := range got {
		if c.ID != want[i] {
			t.Errorf("position %d: expected id %d, got %d", i, want[i], c.ID)
		}
	}
}

func TestPremiumCapDisabled(t *testing.T) {
	candidates := []*core.Candidate{core.NewCandidate(1, core.SourceRelated)}
	n := &PremiumCapNode{}
	got, _ := n.Process(context.Background(), nil, candidates)
	if len(got) != 1 {
		t.Errorf("cap disabled should keep all candidates, got %d", len(got))
	}
}

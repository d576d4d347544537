package filter

import (
	"context"
	"testing"

	"github.com/rushteam/matchkit/core"
)

func ids(candidates []*core.Candidate) []int64 {
	out := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ID)
	}
	return out
}

func TestDeduplicate(t *testing.T) {
	in := []*core.Candidate{
		{ID: 1, Username: "first"},
		{ID: 2},
		{ID: 1, Username: "second"},
		{ID: 3},
		{ID: 2},
	}
	out := Deduplicate(in)

	want := []int64{1, 2, 3}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("got %v ids, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: id = %d, want %d", i, got[i], want[i])
		}
	}
	// 首次出现胜出
	if out[0].Username != "first" {
		t.Errorf("kept %q, want first occurrence", out[0].Username)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	in := []*core.Candidate{{ID: 5}, {ID: 5}, {ID: 7}}
	once := Deduplicate(in)
	twice := Deduplicate(once)
	if len(once) != len(twice) {
		t.Fatalf("not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("position %d differs after second pass", i)
		}
	}
}

func TestFilterNode_BlockedRemoved(t *testing.T) {
	node := &FilterNode{Filters: []Filter{&Blocked{}}}
	in := []*core.Candidate{
		{ID: 1},
		{ID: 2, Blocked: true},
		{ID: 3},
	}
	out, err := node.Process(context.Background(), &core.SearchContext{UserID: 9}, in)
	if err != nil {
		t.Fatalf("Process error = %v", err)
	}
	for _, c := range out {
		if c.Blocked {
			t.Errorf("blocked candidate %d survived the filter", c.ID)
		}
	}
	if len(out) != 2 {
		t.Errorf("len(out) = %d, want 2", len(out))
	}
}

func TestSeen_IDSet(t *testing.T) {
	f := &Seen{IDs: map[int64]struct{}{42: {}}}
	drop, err := f.ShouldFilter(context.Background(), &core.SearchContext{UserID: 1}, &core.Candidate{ID: 42})
	if err != nil || !drop {
		t.Errorf("ShouldFilter(seen id) = (%v, %v), want (true, nil)", drop, err)
	}
	keep, err := f.ShouldFilter(context.Background(), &core.SearchContext{UserID: 1}, &core.Candidate{ID: 7})
	if err != nil || keep {
		t.Errorf("ShouldFilter(unseen id) = (%v, %v), want (false, nil)", keep, err)
	}
}

func TestRuleFilter(t *testing.T) {
	f := &RuleFilter{Expr: "candidate.muted && !candidate.you_follow"}

	drop, err := f.ShouldFilter(context.Background(), &core.SearchContext{}, &core.Candidate{ID: 1, Muted: true})
	if err != nil {
		t.Fatalf("ShouldFilter error = %v", err)
	}
	if !drop {
		t.Error("muted non-followed candidate should be filtered")
	}

	keep, err := f.ShouldFilter(context.Background(), &core.SearchContext{}, &core.Candidate{ID: 2, Muted: true, YouFollow: true})
	if err != nil {
		t.Fatalf("ShouldFilter error = %v", err)
	}
	if keep {
		t.Error("followed candidate should not be filtered")
	}
}

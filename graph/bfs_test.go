package graph

import (
	"context"
	"testing"

	"github.com/rushteam/matchkit/core"
)

type fakeRelationStore struct {
	edges map[int64][]core.RelationEdge
}

func (s *fakeRelationStore) Edges(_ context.Context, userID int64) ([]core.RelationEdge, error) {
	return s.edges[userID], nil
}

func (s *fakeRelationStore) GetEdge(_ context.Context, userID, relatedUserID int64) (*core.RelationEdge, error) {
	for _, e := range s.edges[userID] {
		if e.RelatedUserID == relatedUserID {
			return &e, nil
		}
	}
	return nil, core.ErrStoreNotFound
}

func (s *fakeRelationStore) PutEdge(_ context.Context, edge core.RelationEdge) error {
	s.edges[edge.UserID] = append(s.edges[edge.UserID], edge)
	return nil
}

func edge(from, to int64, w float64) core.RelationEdge {
	return core.RelationEdge{UserID: from, RelatedUserID: to, Weight: w}
}

func TestTraversalDepthOne(t *testing.T) {
	store := &fakeRelationStore{edges: map[int64][]core.RelationEdge{
		1: {edge(1, 2, 5), edge(1, 3, 3)},
		2: {edge(2, 4, 1)},
	}}
	tr := &Traversal{Store: store, MaxDepth: 1}
	got, err := tr.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("depth 1 should only reach direct relations, got %d nodes", len(got))
	}
	if got[0].UserID != 2 || got[1].UserID != 3 {
		t.Errorf("expected discovery order [2, 3], got [%d, %d]", got[0].UserID, got[1].UserID)
	}
}

func TestTraversalCycle(t *testing.T) {
	// 1→2→3→1 成环，visited 集合保证只发现每个节点一次
	store := &fakeRelationStore{edges: map[int64][]core.RelationEdge{
		1: {edge(1, 2, 1)},
		2: {edge(2, 3, 1)},
		3: {edge(3, 1, 1)},
	}}
	tr := &Traversal{Store: store, MaxDepth: 10}
	got, err := tr.Run(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reachable nodes in cycle, got %d", len(got))
	}
}

func TestTraversalAttenuation(t *testing.T) {
	store := &fakeRelationStore{edges: map[int64][]core.RelationEdge{
		1: {edge(1, 2, 4)},
		2: {edge(2, 3, 2)},
	}}
	tr := &Traversal{Store: store, MaxDepth: 2, Attenuation: 0.5}
	got, _ := tr.Run(context.Background(), 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(got))
	}
	// 第一跳保持原始边权；第二跳 = 4 * 2 * 0.5
	if got[0].Weight != 4 {
		t.Errorf("depth-1 weight should keep edge weight, got %v", got[0].Weight)
	}
	if got[1].Weight != 4 {
		t.Errorf("depth-2 weight should be attenuated product, got %v", got[1].Weight)
	}
	if got[1].Depth != 2 {
		t.Errorf("expected depth 2, got %d", got[1].Depth)
	}
}

func TestTraversalMaxNodes(t *testing.T) {
	store := &fakeRelationStore{edges: map[int64][]core.RelationEdge{
		1: {edge(1, 2, 1), edge(1, 3, 1), edge(1, 4, 1)},
	}}
	tr := &Traversal{Store: store, MaxDepth: 1, MaxNodes: 2}
	got, _ := tr.Run(context.Background(), 1)
	if len(got) != 2 {
		t.Errorf("expected node cap 2, got %d", len(got))
	}
}

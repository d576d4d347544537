package relation

import (
	"context"
	"testing"

	"github.com/rushteam/matchkit/core"
)

type memoryRelations struct {
	edges map[[2]int64]core.RelationEdge
}

func newMemoryRelations() *memoryRelations {
	return &memoryRelations{edges: make(map[[2]int64]core.RelationEdge)}
}

func (s *memoryRelations) Edges(_ context.Context, userID int64) ([]core.RelationEdge, error) {
	var out []core.RelationEdge
	for k, e := range s.edges {
		if k[0] == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memoryRelations) GetEdge(_ context.Context, userID, relatedUserID int64) (*core.RelationEdge, error) {
	e, ok := s.edges[[2]int64{userID, relatedUserID}]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return &e, nil
}

func (s *memoryRelations) PutEdge(_ context.Context, edge core.RelationEdge) error {
	s.edges[[2]int64{edge.UserID, edge.RelatedUserID}] = edge
	return nil
}

func TestAutoAddCreatesThenIncrements(t *testing.T) {
	repo := NewRepository(newMemoryRelations())
	ctx := context.Background()

	edge, err := repo.AutoAdd(ctx, 1, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge.Weight != DefaultIncrement {
		t.Errorf("expected initial weight %v, got %v", float64(DefaultIncrement), edge.Weight)
	}

	edge, err = repo.AutoAdd(ctx, 1, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge.Weight != 3 {
		t.Errorf("expected accumulated weight 3, got %v", edge.Weight)
	}
}

func TestAutoAddRejectsSelfRelation(t *testing.T) {
	repo := NewRepository(newMemoryRelations())
	_, err := repo.AutoAdd(context.Background(), 5, 5, 1)
	if !core.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT for self relation, got %v", err)
	}
}

func TestCreateRejectsDuplicate(t *testing.T) {
	repo := NewRepository(newMemoryRelations())
	ctx := context.Background()

	edge := core.RelationEdge{UserID: 1, RelatedUserID: 2, Weight: 1}
	if err := repo.Create(ctx, edge); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := repo.Create(ctx, edge)
	if !core.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT for duplicate relation, got %v", err)
	}
}

func TestEditMissingEdge(t *testing.T) {
	repo := NewRepository(newMemoryRelations())
	err := repo.Edit(context.Background(), core.RelationEdge{UserID: 1, RelatedUserID: 2, Weight: 4})
	if !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND for missing edge, got %v", err)
	}
}

func TestEditOverwritesWeight(t *testing.T) {
	repo := NewRepository(newMemoryRelations())
	ctx := context.Background()

	if _, err := repo.AutoAdd(ctx, 1, 2, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Edit(ctx, core.RelationEdge{UserID: 1, RelatedUserID: 2, Weight: 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	edge, _ := repo.Store.GetEdge(ctx, 1, 2)
	if edge.Weight != 9 {
		t.Errorf("expected weight 9 after edit, got %v", edge.Weight)
	}
}

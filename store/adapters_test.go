package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
)

func TestMemoryStoreBasic(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := ms.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("expected v, got %q err %v", got, err)
	}

	if _, err := ms.Get(ctx, "missing"); !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND for missing key, got %v", err)
	}
}

func TestRelationAdapterRoundTrip(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()
	adapter := &RelationAdapter{Store: ms}

	edges := []core.RelationEdge{
		{UserID: 1, RelatedUserID: 2, Weight: 5},
		{UserID: 1, RelatedUserID: 3, Weight: 9},
		{UserID: 1, RelatedUserID: 4, Weight: 1},
	}
	for _, e := range edges {
		if err := adapter.PutEdge(ctx, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := adapter.Edges(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(got))
	}
	// zset 读出即权重降序
	if got[0].RelatedUserID != 3 || got[0].Weight != 9 {
		t.Errorf("expected heaviest edge first, got %+v", got[0])
	}

	edge, err := adapter.GetEdge(ctx, 1, 2)
	if err != nil || edge.Weight != 5 {
		t.Errorf("expected edge weight 5, got %+v err %v", edge, err)
	}
	if _, err := adapter.GetEdge(ctx, 1, 99); !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND for missing edge, got %v", err)
	}
}

func TestEmbeddingAdapterValidates(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()
	adapter := &EmbeddingAdapter{Store: ms}

	emb := &core.Embedding{OwnerID: 1, Dimension: 3, Values: []float64{1, 2, 3}}
	if err := adapter.PutEmbedding(ctx, emb, core.EntityUser); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := adapter.GetEmbedding(ctx, core.EntityUser, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Dimension != 3 || len(got.Values) != 3 {
		t.Errorf("round trip lost vector: %+v", got)
	}

	bad := &core.Embedding{OwnerID: 2, Dimension: 5, Values: []float64{1}}
	if err := adapter.PutEmbedding(ctx, bad, core.EntityUser); err == nil {
		t.Errorf("expected dimension mismatch on write")
	}
}

func TestInteractionAdapterOrder(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()
	adapter := &InteractionAdapter{Store: ms}

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	events := []core.InteractionEvent{
		{UserID: 1, EntityID: 10, EntityKind: core.EntityUser, Type: core.InteractionLike, Timestamp: base.Add(2 * time.Hour)},
		{UserID: 1, EntityID: 20, EntityKind: core.EntityUser, Type: core.InteractionView, Timestamp: base},
		{UserID: 1, EntityID: 10, EntityKind: core.EntityPost, Type: core.InteractionView, Timestamp: base.Add(time.Hour)},
	}
	for _, ev := range events {
		if err := adapter.Append(ctx, ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := adapter.UserEvents(ctx, 1, base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("expected ascending time order, first event at %v", got[0].Timestamp)
	}

	ids, _ := adapter.InteractedEntityIDs(ctx, 1, core.EntityUser, base)
	if len(ids) != 2 {
		t.Errorf("expected 2 user-kind entities, got %v", ids)
	}
}

func TestClusterAdapterMembers(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()
	adapter := &ClusterAdapter{Store: ms}

	for _, id := range []int64{30, 10, 20} {
		if err := adapter.AddClusterMember(ctx, 5, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	members, err := adapter.ClusterMembers(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 3 || members[0] != 10 || members[2] != 30 {
		t.Errorf("expected [10 20 30], got %v", members)
	}

	empty, err := adapter.ClusterMembers(ctx, 99)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty members for unknown cluster, got %v err %v", empty, err)
	}
}

func TestUserAdapter(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()
	adapter := &UserAdapter{Store: ms}

	now := time.Now()
	rec := &core.UserRecord{ID: 7, Username: "grace", Followers: 3}
	if err := adapter.PutUser(ctx, rec, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := adapter.GetUser(ctx, 7)
	if err != nil || got.Username != "grace" {
		t.Errorf("expected grace, got %+v err %v", got, err)
	}

	blocked, _ := adapter.IsBlocked(ctx, 1, 7)
	if blocked {
		t.Errorf("expected not blocked by default")
	}

	if err := adapter.PutFollow(ctx, 1, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if following, _ := adapter.IsFollowing(ctx, 1, 7); !following {
		t.Errorf("expected 1 to follow 7")
	}
	if following, _ := adapter.IsFollowing(ctx, 7, 1); following {
		t.Errorf("follow is directional, 7 does not follow 1")
	}

	// 拉黑双向生效
	if err := adapter.PutBlock(ctx, 9, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blocked, _ := adapter.IsBlocked(ctx, 7, 9); !blocked {
		t.Errorf("expected block to apply in both directions")
	}

	if premium, _ := adapter.IsPremium(ctx, 7); premium {
		t.Errorf("expected not premium by default")
	}
	if err := adapter.SetPremium(ctx, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if premium, _ := adapter.IsPremium(ctx, 7); !premium {
		t.Errorf("expected premium after SetPremium")
	}

	recent, err := adapter.RecentUserIDs(ctx, now.Add(-time.Minute), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 1 || recent[0] != 7 {
		t.Errorf("expected recent [7], got %v", recent)
	}
}

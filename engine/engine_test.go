package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/rank"
	"github.com/rushteam/matchkit/search"
)

type fixture struct {
	relations    map[int64][]core.RelationEdge
	users        map[int64]core.UserRecord
	blocked      map[int64]bool
	premium      map[int64]bool
	ranks        map[int64][]core.ClusterRank
	members      map[int64][]int64
	interactions []core.InteractionEvent

	// hold 非 nil 时，读操作阻塞到 ctx 结束或 hold 关闭
	hold chan struct{}
}

func (f *fixture) gate(ctx context.Context) error {
	if f.hold == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.hold:
		return nil
	}
}

func (f *fixture) Edges(ctx context.Context, userID int64) ([]core.RelationEdge, error) {
	if err := f.gate(ctx); err != nil {
		return nil, err
	}
	return f.relations[userID], nil
}

func (f *fixture) GetEdge(_ context.Context, userID, relatedUserID int64) (*core.RelationEdge, error) {
	for _, e := range f.relations[userID] {
		if e.RelatedUserID == relatedUserID {
			return &e, nil
		}
	}
	return nil, core.ErrStoreNotFound
}

func (f *fixture) PutEdge(_ context.Context, edge core.RelationEdge) error {
	f.relations[edge.UserID] = append(f.relations[edge.UserID], edge)
	return nil
}

func (f *fixture) GetUser(ctx context.Context, userID int64) (*core.UserRecord, error) {
	if err := f.gate(ctx); err != nil {
		return nil, err
	}
	rec, ok := f.users[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return &rec, nil
}

func (f *fixture) IsBlocked(_ context.Context, _, otherID int64) (bool, error) {
	return f.blocked[otherID], nil
}

func (f *fixture) IsFollowing(_ context.Context, _, _ int64) (bool, error) { return false, nil }

func (f *fixture) IsPremium(_ context.Context, userID int64) (bool, error) {
	return f.premium[userID], nil
}

func (f *fixture) RecentUserIDs(_ context.Context, _ time.Time, _ int) ([]int64, error) {
	return nil, nil
}

func (f *fixture) ListClusters(_ context.Context, _ core.EntityKind) ([]core.Cluster, error) {
	return nil, nil
}

func (f *fixture) ClusterMembers(_ context.Context, clusterID int64) ([]int64, error) {
	return f.members[clusterID], nil
}

func (f *fixture) UserClusterRanks(ctx context.Context, userID int64) ([]core.ClusterRank, error) {
	if err := f.gate(ctx); err != nil {
		return nil, err
	}
	return f.ranks[userID], nil
}

func (f *fixture) GetEmbedding(_ context.Context, _ core.EntityKind, _ int64) (*core.Embedding, error) {
	return nil, core.ErrStoreNotFound
}

func (f *fixture) BatchGetEmbeddings(_ context.Context, _ core.EntityKind, _ []int64) (map[int64]*core.Embedding, error) {
	return map[int64]*core.Embedding{}, nil
}

func (f *fixture) Append(_ context.Context, ev core.InteractionEvent) error {
	f.interactions = append(f.interactions, ev)
	return nil
}

func (f *fixture) UserEvents(_ context.Context, _ int64, _ time.Time) ([]core.InteractionEvent, error) {
	return f.interactions, nil
}

func (f *fixture) InteractedEntityIDs(_ context.Context, userID int64, _ core.EntityKind, _ time.Time) ([]int64, error) {
	var out []int64
	for _, ev := range f.interactions {
		if ev.UserID == userID {
			out = append(out, ev.EntityID)
		}
	}
	return out, nil
}

func newFixture() *fixture {
	return &fixture{
		relations: map[int64][]core.RelationEdge{
			1: {
				{UserID: 1, RelatedUserID: 2, Weight: 5},
				{UserID: 1, RelatedUserID: 3, Weight: 3},
				{UserID: 1, RelatedUserID: 4, Weight: 8},
			},
		},
		users: map[int64]core.UserRecord{
			2: {ID: 2, Username: "alice", Name: "Alice", Verified: true, ProfilePicture: "p2", Followers: 100},
			3: {ID: 3, Username: "malice", Name: "Mal", Followers: 5},
			4: {ID: 4, Username: "alicia", Name: "Alicia", Followers: 50},
			5: {ID: 5, Username: "alien", Name: "Al", Followers: 7},
		},
		blocked: map[int64]bool{4: true},
		premium: map[int64]bool{},
		ranks: map[int64][]core.ClusterRank{
			1: {{UserID: 1, ClusterID: 10, Score: 9, Similarity: 0.8, IsActive: true}},
		},
		members: map[int64][]int64{10: {5}},
	}
}

func newSearchEngine(f *fixture, rules search.Rules) *SearchEngine {
	table, err := rank.NewWeightTable(map[string]float64{
		core.CriterionVerified:          5,
		core.CriterionHasProfilePicture: 3,
	})
	if err != nil {
		panic(err)
	}
	return NewSearchEngine(SearchDeps{
		Relations:  f,
		Users:      f,
		Clusters:   f,
		Embeddings: f,
		Table:      table,
		Rules:      rules,
		Logger:     zerolog.Nop(),
	})
}

func TestSearchRejectsInvalidTerm(t *testing.T) {
	e := newSearchEngine(newFixture(), search.DefaultRules())
	tests := []string{"", "   ", "ali'; drop--", "bad%term"}
	for _, term := range tests {
		_, err := e.Search(context.Background(), 1, term)
		if !core.IsInvalidInput(err) {
			t.Errorf("term %q: expected INVALID_INPUT, got %v", term, err)
		}
	}
}

func TestSearchEndToEnd(t *testing.T) {
	f := newFixture()
	e := newSearchEngine(f, search.DefaultRules())

	got, err := e.Search(context.Background(), 1, "ali")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 候选：related 2(alice, 5+5+3=13)、3(malice, 3)、4(alicia, blocked)
	//      unknown 5(alien, cluster score 9)
	// c=0.5 混排后 13 > 9 > 3；4 被安全过滤移除
	wantIDs := []int64{2, 5, 3}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d results, got %d: %+v", len(wantIDs), len(got), got)
	}
	for i, p := range got {
		if p.ID != wantIDs[i] {
			t.Errorf("position %d: expected id %d, got %d", i, wantIDs[i], p.ID)
		}
	}
	if got[0].Username != "alice" || !got[0].Verified {
		t.Errorf("projection lost public fields: %+v", got[0])
	}
	if got[0].Statistics.TotalFollowersNum != 100 {
		t.Errorf("expected follower count 100, got %d", got[0].Statistics.TotalFollowersNum)
	}
}

func TestSearchBlockedNeverReturned(t *testing.T) {
	f := newFixture()
	e := newSearchEngine(f, search.DefaultRules())
	got, err := e.Search(context.Background(), 1, "alicia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range got {
		if p.ID == 4 {
			t.Errorf("blocked candidate leaked into results")
		}
	}
}

func TestSearchPageLimit(t *testing.T) {
	f := newFixture()
	rules := search.DefaultRules()
	rules.MaxResultsPerPage = 1
	e := newSearchEngine(f, rules)
	got, err := e.Search(context.Background(), 1, "ali")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 result per page, got %d", len(got))
	}
}

func TestSearchOverlappingCandidateReturnedOnce(t *testing.T) {
	f := newFixture()
	// 5 既是聚类成员又有关系边，两路都会召回
	f.relations[1] = append(f.relations[1], core.RelationEdge{UserID: 1, RelatedUserID: 5, Weight: 6})
	e := newSearchEngine(f, search.DefaultRules())

	got, err := e.Search(context.Background(), 1, "ali")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for _, p := range got {
		if p.ID == 5 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("entity recalled by both sources must appear exactly once, got %d", count)
	}
}

func TestSearchCancelledContextDegrades(t *testing.T) {
	f := newFixture()
	// 存储读被挂起，只有 ctx 结束才放行
	f.hold = make(chan struct{})
	e := newSearchEngine(f, search.DefaultRules())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	got, err := e.Search(ctx, 1, "ali")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty degraded result, got %d", len(got))
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("expected prompt return after cancellation, took %v", elapsed)
	}
}

type memCache struct {
	data map[string][]byte
}

func (c *memCache) Name() string { return "test" }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ ...int) error {
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memCache) BatchGet(_ context.Context, _ []string) (map[string][]byte, error) {
	return nil, core.ErrStoreNotSupported
}

func (c *memCache) BatchSet(_ context.Context, _ map[string][]byte, _ ...int) error {
	return core.ErrStoreNotSupported
}

func (c *memCache) Close() error { return nil }

func TestSwipeFeed(t *testing.T) {
	f := newFixture()
	cache := &memCache{data: make(map[string][]byte)}
	e := NewSwipeEngine(SwipeDeps{
		Clusters:     f,
		Embeddings:   f,
		Interactions: f,
		Cache:        cache,
		Logger:       zerolog.Nop(),
	})

	got, err := e.Feed(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != 5 {
		t.Fatalf("expected feed [5], got %+v", got)
	}
	if got[0].Score != 9 || got[0].Similarity != 0.8 {
		t.Errorf("expected score terms in response, got %+v", got[0])
	}
	if len(cache.data) != 1 {
		t.Errorf("expected feed cached, cache has %d entries", len(cache.data))
	}

	// 记录交互后缓存失效，重算时已交互实体被排除
	err = e.Record(context.Background(), core.InteractionEvent{
		UserID: 1, EntityID: 5, EntityKind: core.EntityUser, Type: core.InteractionDislike,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = e.Feed(context.Background(), 1)
	for _, item := range got {
		if item.EntityID == 5 {
			t.Errorf("interacted entity should be excluded from feed")
		}
	}
}

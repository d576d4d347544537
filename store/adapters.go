package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rushteam/matchkit/core"
)

// 领域适配器：把 core 的领域存储接口落到通用 KV 后端上。
// 同一套适配器既能跑在 MemoryStore（测试/原型）也能跑在 RedisStore
//（线上）。所有值用 JSON 编码，key 布局见各适配器。

// EmbeddingAdapter 实现 core.EmbeddingStore。
// key: emb:{kind}:{owner_id} -> JSON(core.Embedding)
type EmbeddingAdapter struct {
	Store core.Store
}

var _ core.EmbeddingStore = (*EmbeddingAdapter)(nil)

func embeddingKey(kind core.EntityKind, ownerID int64) string {
	return fmt.Sprintf("emb:%s:%d", kind, ownerID)
}

func (a *EmbeddingAdapter) GetEmbedding(ctx context.Context, kind core.EntityKind, ownerID int64) (*core.Embedding, error) {
	data, err := a.Store.Get(ctx, embeddingKey(kind, ownerID))
	if err != nil {
		return nil, err
	}
	var emb core.Embedding
	if err := json.Unmarshal(data, &emb); err != nil {
		return nil, err
	}
	if err := emb.Validate(); err != nil {
		return nil, err
	}
	return &emb, nil
}

func (a *EmbeddingAdapter) BatchGetEmbeddings(ctx context.Context, kind core.EntityKind, ownerIDs []int64) (map[int64]*core.Embedding, error) {
	keys := make([]string, 0, len(ownerIDs))
	byKey := make(map[string]int64, len(ownerIDs))
	for _, id := range ownerIDs {
		k := embeddingKey(kind, id)
		keys = append(keys, k)
		byKey[k] = id
	}
	values, err := a.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]*core.Embedding, len(values))
	for k, data := range values {
		var emb core.Embedding
		if json.Unmarshal(data, &emb) != nil || emb.Validate() != nil {
			// 坏行跳过，不让单条脏数据毁掉批量读
			continue
		}
		out[byKey[k]] = &emb
	}
	return out, nil
}

// PutEmbedding 写入嵌入向量（批处理任务的入口，引擎自身只读）。
func (a *EmbeddingAdapter) PutEmbedding(ctx context.Context, emb *core.Embedding, kind core.EntityKind) error {
	if err := emb.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(emb)
	if err != nil {
		return err
	}
	return a.Store.Set(ctx, embeddingKey(kind, emb.OwnerID), data)
}

// ClusterAdapter 实现 core.ClusterStore。
// key: cluster:list:{kind}    -> JSON([]core.Cluster)
// key: cluster:members:{id}   -> hash，field: {memberID} -> "1"
// key: cluster:ranks:{userID} -> JSON([]core.ClusterRank)
type ClusterAdapter struct {
	Store core.KeyValueStore
}

var _ core.ClusterStore = (*ClusterAdapter)(nil)

func (a *ClusterAdapter) ListClusters(ctx context.Context, kind core.EntityKind) ([]core.Cluster, error) {
	data, err := a.Store.Get(ctx, fmt.Sprintf("cluster:list:%s", kind))
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var clusters []core.Cluster
	if err := json.Unmarshal(data, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

func (a *ClusterAdapter) ClusterMembers(ctx context.Context, clusterID int64) ([]int64, error) {
	fields, err := a.Store.HGetAll(ctx, fmt.Sprintf("cluster:members:%d", clusterID))
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	members := make([]int64, 0, len(fields))
	for field := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		members = append(members, id)
	}
	// hash 无序，固定按 id 升序返回
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members, nil
}

// AddClusterMember 写入聚类成员（批处理任务的入口，引擎自身只读）。
func (a *ClusterAdapter) AddClusterMember(ctx context.Context, clusterID, memberID int64) error {
	return a.Store.HSet(ctx, fmt.Sprintf("cluster:members:%d", clusterID),
		strconv.FormatInt(memberID, 10), []byte("1"))
}

func (a *ClusterAdapter) UserClusterRanks(ctx context.Context, userID int64) ([]core.ClusterRank, error) {
	data, err := a.Store.Get(ctx, fmt.Sprintf("cluster:ranks:%d", userID))
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var ranks []core.ClusterRank
	if err := json.Unmarshal(data, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}

// RelationAdapter 实现 core.RelationStore。
// 边存在有序集合里，分数即边权，ZRange 天然给出权重降序：
// key: rel:{user_id}，member: related_user_id
type RelationAdapter struct {
	Store core.KeyValueStore
}

var _ core.RelationStore = (*RelationAdapter)(nil)

func relationKey(userID int64) string {
	return fmt.Sprintf("rel:%d", userID)
}

func (a *RelationAdapter) Edges(ctx context.Context, userID int64) ([]core.RelationEdge, error) {
	key := relationKey(userID)
	members, err := a.Store.ZRange(ctx, key, 0, -1)
	if err != nil {
		return nil, err
	}
	out := make([]core.RelationEdge, 0, len(members))
	for _, m := range members {
		relatedID, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		weight, err := a.Store.ZScore(ctx, key, m)
		if err != nil {
			continue
		}
		out = append(out, core.RelationEdge{UserID: userID, RelatedUserID: relatedID, Weight: weight})
	}
	return out, nil
}

func (a *RelationAdapter) GetEdge(ctx context.Context, userID, relatedUserID int64) (*core.RelationEdge, error) {
	weight, err := a.Store.ZScore(ctx, relationKey(userID), strconv.FormatInt(relatedUserID, 10))
	if err != nil {
		return nil, err
	}
	return &core.RelationEdge{UserID: userID, RelatedUserID: relatedUserID, Weight: weight}, nil
}

func (a *RelationAdapter) PutEdge(ctx context.Context, edge core.RelationEdge) error {
	return a.Store.ZAdd(ctx, relationKey(edge.UserID), edge.Weight,
		strconv.FormatInt(edge.RelatedUserID, 10))
}

// InteractionAdapter 实现 core.InteractionStore。
// 事件按用户放进有序集合，分数是事件时间戳（秒）：
// key: inter:{user_id}，member: JSON(core.InteractionEvent)
type InteractionAdapter struct {
	Store core.KeyValueStore
}

var _ core.InteractionStore = (*InteractionAdapter)(nil)

func interactionKey(userID int64) string {
	return fmt.Sprintf("inter:%d", userID)
}

func (a *InteractionAdapter) Append(ctx context.Context, ev core.InteractionEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return a.Store.ZAdd(ctx, interactionKey(ev.UserID), float64(ev.Timestamp.Unix()), string(data))
}

func (a *InteractionAdapter) UserEvents(ctx context.Context, userID int64, since time.Time) ([]core.InteractionEvent, error) {
	members, err := a.Store.ZRange(ctx, interactionKey(userID), 0, -1)
	if err != nil {
		return nil, err
	}
	out := make([]core.InteractionEvent, 0, len(members))
	for _, m := range members {
		var ev core.InteractionEvent
		if json.Unmarshal([]byte(m), &ev) != nil {
			continue
		}
		if ev.Timestamp.Before(since) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (a *InteractionAdapter) InteractedEntityIDs(ctx context.Context, userID int64, kind core.EntityKind, since time.Time) ([]int64, error) {
	events, err := a.UserEvents(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(events))
	out := make([]int64, 0, len(events))
	for _, ev := range events {
		if ev.EntityKind != kind {
			continue
		}
		if _, ok := seen[ev.EntityID]; ok {
			continue
		}
		seen[ev.EntityID] = struct{}{}
		out = append(out, ev.EntityID)
	}
	return out, nil
}

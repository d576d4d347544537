package core

import (
	"context"
	"time"
)

// InteractionType 是交互事件的枚举类型。
type InteractionType string

const (
	InteractionView    InteractionType = "view"
	InteractionLike    InteractionType = "like"
	InteractionDislike InteractionType = "dislike"
	InteractionShare   InteractionType = "share"
	InteractionComment InteractionType = "comment"
	InteractionSave    InteractionType = "save"
)

// InteractionEvent 是追加写入的交互事件，写入后不再修改。
// 聚类排名的 interaction_score 项由这些事件经时间衰减聚合得出。
type InteractionEvent struct {
	UserID     int64           `json:"user_id"`
	EntityID   int64           `json:"entity_id"`
	EntityKind EntityKind      `json:"entity_type"`
	Type       InteractionType `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}

// InteractionStore 是交互事件存储的领域接口。
type InteractionStore interface {
	// Append 追加一条事件
	Append(ctx context.Context, ev InteractionEvent) error

	// UserEvents 读取某用户 since 之后的事件，按时间升序
	UserEvents(ctx context.Context, userID int64, since time.Time) ([]InteractionEvent, error)

	// InteractedEntityIDs 读取某用户交互过的实体 ID 集合（swipe 去重用）
	InteractedEntityIDs(ctx context.Context, userID int64, kind EntityKind, since time.Time) ([]int64, error)
}

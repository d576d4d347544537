package core

import (
	"context"
	"time"
)

// UserRecord 是用户公开资料在存储中的形态，候选补全（enrich）按 ID 读取。
type UserRecord struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Verified       bool   `json:"verifyed"`
	Muted          bool   `json:"muted"`
	ProfilePicture string `json:"profile_picture"`
	Followers      int64  `json:"total_followers_num"`
}

// UserStore 是用户/社交状态读取的领域接口（外部协作方，本引擎只读）。
//
// 候选补全会按不同 ID 并发调用这些读取，结果按 ID 重组，不依赖完成顺序。
type UserStore interface {
	// GetUser 读取公开资料；不存在时返回 NOT_FOUND
	GetUser(ctx context.Context, userID int64) (*UserRecord, error)

	// IsBlocked 检查 otherID 是否相对 userID 处于拉黑关系（任一方向）
	IsBlocked(ctx context.Context, userID, otherID int64) (bool, error)

	// IsFollowing 检查 userID 是否关注 otherID
	IsFollowing(ctx context.Context, userID, otherID int64) (bool, error)

	// IsPremium 检查用户订阅是否有效
	IsPremium(ctx context.Context, userID int64) (bool, error)

	// RecentUserIDs 读取 since 之后创建的用户 ID（unknown 候选池兜底），
	// 最多 limit 条，按创建时间降序
	RecentUserIDs(ctx context.Context, since time.Time, limit int) ([]int64, error)
}

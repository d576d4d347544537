package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rushteam/matchkit/core"
)

// UserAdapter 实现 core.UserStore。用户侧数据归属外部系统，
// 这里是它在 KV 后端上的读视图（加上测试/原型用的写入口）。
//
// key 布局：
//   user:{id}        -> JSON(core.UserRecord)
//   follow:{a}       -> hash，field: {b} -> "1"（a 关注 b）
//   block:{a}        -> hash，field: {b} -> "1"（a 拉黑 b；检查时双向各查一次）
//   premium:{id}     -> "1"
//   users:recent     -> zset，member: id，score: 创建时间戳（秒）
type UserAdapter struct {
	Store core.KeyValueStore
}

var _ core.UserStore = (*UserAdapter)(nil)

func (a *UserAdapter) GetUser(ctx context.Context, userID int64) (*core.UserRecord, error) {
	data, err := a.Store.Get(ctx, fmt.Sprintf("user:%d", userID))
	if err != nil {
		return nil, err
	}
	var rec core.UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (a *UserAdapter) IsBlocked(ctx context.Context, userID, otherID int64) (bool, error) {
	pairs := [][2]int64{{userID, otherID}, {otherID, userID}}
	for _, p := range pairs {
		_, err := a.Store.HGet(ctx, fmt.Sprintf("block:%d", p[0]), strconv.FormatInt(p[1], 10))
		if err == nil {
			return true, nil
		}
		if !core.IsNotFound(err) {
			return false, err
		}
	}
	return false, nil
}

func (a *UserAdapter) IsFollowing(ctx context.Context, userID, otherID int64) (bool, error) {
	_, err := a.Store.HGet(ctx, fmt.Sprintf("follow:%d", userID), strconv.FormatInt(otherID, 10))
	if err == nil {
		return true, nil
	}
	if core.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (a *UserAdapter) IsPremium(ctx context.Context, userID int64) (bool, error) {
	_, err := a.Store.Get(ctx, fmt.Sprintf("premium:%d", userID))
	if err == nil {
		return true, nil
	}
	if core.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func (a *UserAdapter) RecentUserIDs(ctx context.Context, since time.Time, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 100
	}
	// zset 按 score（创建时间）降序，取前 limit 个再按 since 过滤
	members, err := a.Store.ZRange(ctx, "users:recent", 0, int64(limit)-1)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		created, err := a.Store.ZScore(ctx, "users:recent", m)
		if err != nil {
			continue
		}
		if time.Unix(int64(created), 0).Before(since) {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// PutUser 写入用户快照（测试/原型入口）。
func (a *UserAdapter) PutUser(ctx context.Context, rec *core.UserRecord, createdAt time.Time) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := a.Store.Set(ctx, fmt.Sprintf("user:%d", rec.ID), data); err != nil {
		return err
	}
	return a.Store.ZAdd(ctx, "users:recent", float64(createdAt.Unix()),
		strconv.FormatInt(rec.ID, 10))
}

// PutFollow 写入关注关系位（测试/原型入口）。
func (a *UserAdapter) PutFollow(ctx context.Context, userID, otherID int64) error {
	return a.Store.HSet(ctx, fmt.Sprintf("follow:%d", userID),
		strconv.FormatInt(otherID, 10), []byte("1"))
}

// PutBlock 写入拉黑关系位（测试/原型入口）。
func (a *UserAdapter) PutBlock(ctx context.Context, userID, otherID int64) error {
	return a.Store.HSet(ctx, fmt.Sprintf("block:%d", userID),
		strconv.FormatInt(otherID, 10), []byte("1"))
}

// SetPremium 写入付费标记（测试/原型入口）。
func (a *UserAdapter) SetPremium(ctx context.Context, userID int64) error {
	return a.Store.Set(ctx, fmt.Sprintf("premium:%d", userID), []byte("1"))
}

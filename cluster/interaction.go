package cluster

import (
	"context"
	"math"
	"time"

	"github.com/rushteam/matchkit/core"
)

// 各交互类型对排名分的贡献权重。
var interactionWeights = map[core.InteractionType]float64{
	core.InteractionView:    1,
	core.InteractionLike:    2,
	core.InteractionComment: 3,
	core.InteractionShare:   4,
	core.InteractionSave:    5,
	core.InteractionDislike: -2,
}

// InteractionWeight 返回交互类型的贡献权重，未知类型为 0。
func InteractionWeight(t core.InteractionType) float64 {
	return interactionWeights[t]
}

// Scorer 把用户的交互事件按类型加权、按时间半衰聚合为
// interaction_score 分项。
type Scorer struct {
	Events core.InteractionStore

	// HalfLife 衰减半衰期；0 值回落到 7 天
	HalfLife time.Duration

	// Window 只统计该窗口内的事件；0 值回落到 30 天
	Window time.Duration
}

// Score 计算用户对一组实体的交互分：每个事件贡献
// weight(type) * 0.5^(age/halfLife)，按实体 ID 聚合。
func (s *Scorer) Score(ctx context.Context, userID int64, now time.Time) (map[int64]float64, error) {
	window := s.Window
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	events, err := s.Events.UserEvents(ctx, userID, now.Add(-window))
	if err != nil {
		return nil, err
	}
	out := make(map[int64]float64, len(events))
	for _, ev := range events {
		out[ev.EntityID] += s.decayed(ev, now)
	}
	return out, nil
}

func (s *Scorer) decayed(ev core.InteractionEvent, now time.Time) float64 {
	w := InteractionWeight(ev.Type)
	if w == 0 {
		return 0
	}
	halfLife := s.HalfLife
	if halfLife <= 0 {
		halfLife = 7 * 24 * time.Hour
	}
	age := now.Sub(ev.Timestamp)
	if age < 0 {
		age = 0
	}
	return w * math.Pow(0.5, age.Hours()/halfLife.Hours())
}

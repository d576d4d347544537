package feast

import (
	"context"

	"github.com/rushteam/matchkit/enrich"
	"github.com/rushteam/matchkit/pkg/conv"
)

// 用户统计特征的约定命名。
const (
	FeatureFollowers = "user_stats:total_followers_num"

	// EntityKeyUserID 实体行的主键字段名
	EntityKeyUserID = "user_id"
)

// StatsProvider 把 Feature Store 的用户统计特征暴露为候选补全的
// 统计源，实现 enrich.StatsProvider。
type StatsProvider struct {
	Client Client
}

var _ enrich.StatsProvider = (*StatsProvider)(nil)

func NewStatsProvider(client Client) *StatsProvider {
	return &StatsProvider{Client: client}
}

// BatchStats 批量读取用户统计特征；缺特征的用户不出现在结果里，
// 调用方保留原有快照值。
func (p *StatsProvider) BatchStats(ctx context.Context, userIDs []int64) (map[int64]enrich.Stats, error) {
	if len(userIDs) == 0 {
		return map[int64]enrich.Stats{}, nil
	}

	rows := make([]map[string]interface{}, len(userIDs))
	for i, id := range userIDs {
		rows[i] = map[string]interface{}{EntityKeyUserID: id}
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{FeatureFollowers},
		EntityRows: rows,
	})
	if err != nil {
		return nil, err
	}

	out := make(map[int64]enrich.Stats, len(resp.FeatureVectors))
	for i, fv := range resp.FeatureVectors {
		if i >= len(userIDs) {
			break
		}
		followers, ok := conv.ToFloat64(fv.Values[FeatureFollowers])
		if !ok {
			continue
		}
		out[userIDs[i]] = enrich.Stats{Followers: int64(followers)}
	}
	return out, nil
}

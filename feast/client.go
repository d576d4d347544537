// Package feast 是 Feast Feature Store 的客户端封装。
// 候选补全用它读取比主存储更新鲜的用户统计特征（粉丝数等）。
//
// 参考：https://github.com/feast-dev/feast
package feast

import (
	"context"
	"time"
)

// Client 是 Feature Store 的客户端接口，接口定义在这里、
// 实现（GrpcClient）在基础设施侧，方便测试时替换。
type Client interface {
	// GetOnlineFeatures 获取在线特征（实时读取路径）
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 在线特征请求。
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["user_stats:total_followers_num"]
	Features []string

	// EntityRows 实体行，例如 [{"user_id": 1001}, {"user_id": 1002}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，缺省用客户端配置）
	Project string
}

// GetOnlineFeaturesResponse 在线特征响应，每个向量对应一个实体行。
type GetOnlineFeaturesResponse struct {
	FeatureVectors []FeatureVector
}

// FeatureVector 单个实体的特征向量。
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientConfig 客户端配置。
type ClientConfig struct {
	Endpoint string
	Project  string
	Timeout  time.Duration
	Auth     *AuthConfig
}

// AuthConfig 认证配置；Type 目前只支持 static（gRPC 静态 Token）。
type AuthConfig struct {
	Type  string
	Token string
}

// ClientOption 客户端配置选项。
type ClientOption func(*ClientConfig)

// WithTimeout 设置请求超时。
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithStaticAuth 设置静态 Token 认证。
func WithStaticAuth(token string) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = &AuthConfig{Type: "static", Token: token}
	}
}

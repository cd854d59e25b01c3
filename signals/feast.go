package signals

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"
)

// 在线特征名称，对应 Feast 中注册的 content_stats 特征视图。
const (
	featureViews     = "content_stats:views"
	featureKidsViews = "content_stats:kids_views"

	entityContentID = "content_id"
)

// FeastProvider 通过 Feast Feature Server 的 gRPC 接口获取在线统计信号。
//
// 特征由离线管道物化到在线存储，这里只做实时读取。
type FeastProvider struct {
	client  *feastsdk.GrpcClient
	project string
}

// NewFeastProvider 创建 Feast gRPC 客户端。
//
// host/port 为 Feature Server 地址，port 为 0 时使用默认端口 6565。
// token 非空时启用静态 Token 认证。
func NewFeastProvider(host string, port int, project, token string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}

	var client *feastsdk.GrpcClient
	var err error
	if token != "" {
		security := feastsdk.SecurityConfig{
			EnableTLS:  false,
			Credential: feastsdk.NewStaticCredential(token),
		}
		client, err = feastsdk.NewSecureGrpcClient(host, port, security)
	} else {
		client, err = feastsdk.NewGrpcClient(host, port)
	}
	if err != nil {
		return nil, fmt.Errorf("connect feast feature server: %w", err)
	}

	return &FeastProvider{client: client, project: project}, nil
}

// ContentStats 批量获取内容统计信号（实现 Provider 接口）。
func (p *FeastProvider) ContentStats(ctx context.Context, contentIDs []string) (map[string]ContentStats, error) {
	if len(contentIDs) == 0 {
		return map[string]ContentStats{}, nil
	}
	if p.project == "" {
		return nil, fmt.Errorf("feast project is required")
	}

	entityRows := make([]feastsdk.Row, len(contentIDs))
	for i, id := range contentIDs {
		entityRows[i] = feastsdk.Row{entityContentID: feastsdk.StrVal(id)}
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: []string{featureViews, featureKidsViews},
		Entities: entityRows,
		Project:  p.project,
	}

	resp, err := p.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(contentIDs) {
		return nil, fmt.Errorf("response row count mismatch: expected %d, got %d", len(contentIDs), len(rows))
	}

	result := make(map[string]ContentStats, len(rows))
	for i, row := range rows {
		stats := ContentStats{
			Views:     int64Feature(row, featureViews),
			KidsViews: int64Feature(row, featureKidsViews),
		}
		result[contentIDs[i]] = stats
	}
	return result, nil
}

func (p *FeastProvider) Close() error {
	p.client = nil
	return nil
}

// int64Feature 从特征行中提取整数值，缺失或类型不符返回 0。
func int64Feature(row feastsdk.Row, name string) int64 {
	val, ok := row[name]
	if !ok || val == nil {
		return 0
	}
	if v := val.GetInt64Val(); v != 0 {
		return v
	}
	if v := val.GetInt32Val(); v != 0 {
		return int64(v)
	}
	if v := val.GetDoubleVal(); v != 0 {
		return int64(v)
	}
	if v := val.GetFloatVal(); v != 0 {
		return int64(v)
	}
	return 0
}

var _ Provider = (*FeastProvider)(nil)

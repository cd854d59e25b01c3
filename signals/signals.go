// Package signals 从在线特征存储拉取内容级统计信号
// （播放量、儿童模式播放量），在打分前回填到候选元数据。
package signals

import "context"

// ContentStats 单条内容的统计信号。
type ContentStats struct {
	Views     int64
	KidsViews int64
}

// Provider 批量获取内容统计信号。
// 返回的 map 只包含查到的内容，缺失的 ID 不报错。
type Provider interface {
	ContentStats(ctx context.Context, contentIDs []string) (map[string]ContentStats, error)
	Close() error
}

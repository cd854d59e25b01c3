package core

import (
	"log/slog"
	"sync"
)

// WhyRecord 是 why-log 中的一条记录，解释某条内容为何被丢弃、
// 降权或改写。
type WhyRecord struct {
	Feed      string         `json:"feed"`
	Stage     string         `json:"stage"`
	Type      string         `json:"type"`
	Reason    string         `json:"reason,omitempty"`
	ContentID string         `json:"contentId,omitempty"`
	Author    string         `json:"author,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// FeedContext 携带一次 Run 的全部请求态：配置、钩子、运行期信号与
// why-log。各阶段只读配置与信号，通过 AddWhy 记录决策。
type FeedContext struct {
	FeedName   string
	Config     FeedConfig
	Hooks      Hooks
	Runtime    *Runtime
	Logger     *slog.Logger
	Moderation ModerationService

	mu  sync.Mutex
	why []WhyRecord
}

// NewFeedContext 创建请求上下文。logger 为 nil 时使用默认 logger。
func NewFeedContext(feedName string, cfg FeedConfig, logger *slog.Logger) *FeedContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedContext{
		FeedName: feedName,
		Config:   cfg,
		Runtime:  &Runtime{},
		Logger:   logger.With("feed", feedName),
	}
}

// AddWhy 追加一条 why 记录。时间戳解析等阶段会并发写入，这里加锁。
func (c *FeedContext) AddWhy(rec WhyRecord) {
	if rec.Feed == "" {
		rec.Feed = c.FeedName
	}
	c.mu.Lock()
	c.why = append(c.why, rec)
	c.mu.Unlock()
}

// Why 返回 why-log 的快照副本。
func (c *FeedContext) Why() []WhyRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]WhyRecord, len(c.why))
	copy(out, c.why)
	return out
}

// RuntimeOrEmpty 返回运行期信号，保证非 nil。
func (c *FeedContext) RuntimeOrEmpty() *Runtime {
	if c.Runtime == nil {
		return &Runtime{}
	}
	return c.Runtime
}

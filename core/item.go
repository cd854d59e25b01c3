package core

// Content 是内容对象（视频、帖子等）在管道中的统一承载结构。
// 管道本身不关心内容来自哪条网络链路，只消费这里的字段。
// Moderation 字段与 Item.Metadata.Moderation 双写，保证以内容为维度
// 和以条目为维度的消费方看到一致的状态。
type Content struct {
	ID            string
	RootID        string // 同一内容多版本共享的根 ID，为空时视为 ID 本身
	Author        string // 作者公钥（hex，小写）
	Title         string
	Tags          []string // 主标签列表
	Hashtags      []string // 备用 hashtag 列表（次要来源）
	Duration      int64    // 时长（秒），0 表示未知
	CreatedAt     int64    // 本版本发布时间（unix 秒）
	RootCreatedAt int64    // 根版本发布时间，0 表示尚未解析
	AltCreatedAt  int64    // 备用元数据源的发布时间
	ViewCount     int64
	KidsViews     int64 // 儿童场景播放量，0 表示未知（回退到 ViewCount）
	Warnings      []string
	Deleted       bool
	Moderation    *ModerationState
	Extra         map[string]any
}

// RootKey 返回根版本去重用的 key。
func (c *Content) RootKey() string {
	if c == nil {
		return ""
	}
	if c.RootID != "" {
		return c.RootID
	}
	return c.ID
}

// Pointer 指向一条尚未解析出 Content 的内容（例如观看历史里的指针）。
type Pointer struct {
	Type  string // "e"（事件）或 "a"（可寻址）
	Value string
	Relay string
}

// Key 返回指针的稳定标识，用于集合去重与抑制判断。
func (p *Pointer) Key() string {
	if p == nil || p.Value == "" {
		return ""
	}
	t := p.Type
	if t == "" {
		t = "e"
	}
	return t + ":" + p.Value
}

// Metadata 是条目级注解。各 Stage 只写自己预留的字段，
// Extra 留给外部 Decorator 使用。
type Metadata struct {
	Source           string // 候选来源标识
	PointerKey       string
	MatchedInterests []string // 命中的兴趣标签（按配置顺序）
	DroppedByStage   string
	Moderation       *ModerationState
	Kids             *KidsScore
	Explore          *ExploreScore
	ViewCount        *int64 // 外部信号对播放量的覆盖
	KidsViews        *int64
	Extra            map[string]any
}

// KidsScore 是儿童安全评分结果。
type KidsScore struct {
	Score      float64
	Components KidsComponents
}

// KidsComponents 记录各分量，便于解释与调参。
type KidsComponents struct {
	AgeAppropriateness float64
	EducationalBoost   float64
	AuthorTrust        float64
	Popularity         float64
	Freshness          float64
	Safety             float64
}

// ExploreScore 是探索评分结果。
type ExploreScore struct {
	Score      float64
	Components ExploreComponents
}

type ExploreComponents struct {
	Novelty            float64
	NewTagFraction     float64
	DisinterestOverlap float64
	HistorySimilarity  float64
	Popularity         float64
	Freshness          float64
	Tags               []string
}

// Item 是推荐链路中的最小流转单元：内容引用 + 指针 + 注解。
// Content 与 Pointer 允许只有其一；两者都为空的候选在归一化时被丢弃。
type Item struct {
	Content  *Content
	Pointer  *Pointer
	Metadata Metadata
}

// NewItem 基于 Content 构建 Item。
func NewItem(c *Content) *Item {
	return &Item{Content: c}
}

// ContentID 返回内容 ID，条目没有内容时返回空串。
func (it *Item) ContentID() string {
	if it == nil || it.Content == nil {
		return ""
	}
	return it.Content.ID
}

// Author 返回内容作者，条目没有内容时返回空串。
func (it *Item) Author() string {
	if it == nil || it.Content == nil {
		return ""
	}
	return it.Content.Author
}

package core

// TagPreferences 表示观看者的标签兴趣画像。
type TagPreferences struct {
	Interests    []string
	Disinterests []string
	// Available 为 false 时偏好阶段整体跳过。
	Available bool
}

// ModerationThresholds 是运行期覆盖的审核阈值，nil 字段回退到
// feed 默认值或全局默认值。
type ModerationThresholds struct {
	AutoplayBlock     *float64
	Blur              *float64
	TrustedMuteHide   *float64
	TrustedReportHide *float64
	// TrustedMuteHideByCategory 按 mute 分类覆盖 TrustedMuteHide。
	TrustedMuteHideByCategory map[string]float64
}

// KidsWeights 儿童评分各分量权重。
type KidsWeights struct {
	Age        float64
	Education  float64
	Author     float64
	Popularity float64
	Freshness  float64
	Risk       float64
}

// DefaultKidsWeights 返回儿童评分默认权重。
func DefaultKidsWeights() KidsWeights {
	return KidsWeights{
		Age:        0.35,
		Education:  0.25,
		Author:     0.15,
		Popularity: 0.1,
		Freshness:  0.1,
		Risk:       0.6,
	}
}

// ExploreWeights 探索评分各分量权重，Disinterest 为负向权重。
type ExploreWeights struct {
	Novelty           float64
	Freshness         float64
	HistorySimilarity float64
	NewTagFraction    float64
	Popularity        float64
	Disinterest       float64
}

// DefaultExploreWeights 返回探索评分默认权重。
func DefaultExploreWeights() ExploreWeights {
	return ExploreWeights{
		Novelty:           0.3,
		Freshness:         0.25,
		HistorySimilarity: 0.2,
		NewTagFraction:    0.1,
		Popularity:        0.1,
		Disinterest:       0.25,
	}
}

// Runtime 聚合一次 Run 的观看者态与请求态信号。所有字段均可为零值，
// 各阶段按需读取并在信号缺失时宽容跳过。
type Runtime struct {
	// Now 为统一的参考时间（Unix 秒），0 表示各阶段自行取当前时间。
	Now int64

	// Viewer 当前观看者公钥（hex，小写），匿名时为空。
	Viewer string

	// 黑名单与拉黑关系。
	BlacklistedIDs  map[string]struct{}
	IsAuthorBlocked func(author string) bool
	IsViewerBlocked func(author string) bool

	// 标签偏好。
	TagPreferences *TagPreferences

	// 审核相关。
	ModerationThresholds *ModerationThresholds
	TrustedAuthors       map[string]struct{}
	FeedVariant          string // "home"/"recent" 等，参与 feed-policy 放行判定
	DisableHardHide      bool
	ViewerOverride       func(contentID, author string) *ViewerOverride

	// 观看历史。
	WatchedRoots          map[string]int64 // root key -> 最近观看时间（Unix 秒）
	WatchHistoryTagCounts map[string]float64
	TagIDF                map[string]float64

	// 评分覆盖。
	KidsWeights       *KidsWeights
	ExploreWeights    *ExploreWeights
	FreshnessHalfLife float64 // 天，0 取阶段默认
	PopularityMax     float64 // 人气归一上限，0 取阶段默认

	// 订阅来源。
	SubscriptionAuthors []string

	// Limit 限制来源阶段返回的条数，0 表示不限制。
	Limit int

	// Extra 供自定义阶段透传信号。
	Extra map[string]any
}

// ResolvedNow 返回参考时间，未设置时由调用方传入当前值兜底。
func (r *Runtime) ResolvedNow(fallback int64) int64 {
	if r != nil && r.Now > 0 {
		return r.Now
	}
	return fallback
}

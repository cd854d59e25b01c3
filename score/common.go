package score

import (
	"math"
	"time"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pkg/utils"
)

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return v
}

func nowUnix() int64 {
	return time.Now().Unix()
}

// contentCreatedAt 解析创建时间：根时间 > 备用元数据源 > 本版本。
func contentCreatedAt(c *core.Content) int64 {
	if c.RootCreatedAt > 0 {
		return c.RootCreatedAt
	}
	if c.AltCreatedAt > 0 {
		return c.AltCreatedAt
	}
	if c.CreatedAt > 0 {
		return c.CreatedAt
	}
	return 0
}

// freshnessDecay 按半衰期做指数衰减，时间缺失时返回 0。
func freshnessDecay(createdAt, now int64, halfLifeDays float64) float64 {
	if createdAt <= 0 || halfLifeDays <= 0 {
		return 0
	}
	ageSeconds := now - createdAt
	if ageSeconds < 0 {
		ageSeconds = 0
	}
	ageDays := float64(ageSeconds) / 86400
	return clamp01(math.Exp(-ageDays / halfLifeDays))
}

func contentTagSet(c *core.Content) map[string]struct{} {
	set := make(map[string]struct{}, len(c.Tags)+len(c.Hashtags))
	for _, t := range c.Tags {
		if n := utils.NormalizeHashtag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, t := range c.Hashtags {
		if n := utils.NormalizeHashtag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func resolveHalfLife(stage, runtime float64) float64 {
	if stage > 0 {
		return stage
	}
	if runtime > 0 {
		return runtime
	}
	return defaultFreshnessHalfLifeDays
}

func resolvePopularityMax(stage, runtime float64) float64 {
	if stage > 0 {
		return stage
	}
	if runtime > 0 {
		return runtime
	}
	return 0
}

type weighted struct {
	key   string
	value float64
}

// dominantComponent 返回分量中的最大项，平手时保留声明顺序靠前的。
func dominantComponent(components []weighted) (string, float64) {
	best := components[0]
	for _, c := range components[1:] {
		if c.value > best.value {
			best = c
		}
	}
	return best.key, best.value
}

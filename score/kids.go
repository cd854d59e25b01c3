// Package score 提供把分数写入候选元数据的评分 Stage。
package score

import (
	"context"
	"math"
	"strings"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

const defaultFreshnessHalfLifeDays = 14.0

// Kids 是儿童安全评分 Stage。对每个候选计算六个 [0,1] 分量：
// 年龄适配度、教育加成、作者信任、儿童内人气、新鲜度、安全分。
// 最终分 = 正向加权和 × 风险乘数，风险乘数由安全分推导，
// 足够不安全的候选无论正向分量多高都会被压向零。
type Kids struct {
	StageName string
	// AgeGroup 覆盖配置中的年龄段（可选）
	AgeGroup string
	// EducationalTags 覆盖年龄段默认的教育标签（可选）
	EducationalTags []string
	// Weights 覆盖默认权重（可选），优先于运行期覆盖
	Weights *core.KidsWeights
	// FreshnessHalfLifeDays / PopularityMax 同上
	FreshnessHalfLifeDays float64
	PopularityMax         float64
}

func (s *Kids) Name() string {
	if s.StageName != "" {
		return s.StageName
	}
	return "score.kids"
}

func (s *Kids) Kind() pipeline.Kind { return pipeline.KindScore }

func (s *Kids) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	rt := fctx.RuntimeOrEmpty()

	ageGroup := s.AgeGroup
	if ageGroup == "" {
		ageGroup = fctx.Config.AgeGroup
	}
	profile := core.LookupAgeGroup(ageGroup)
	preferred := utils.NormalizeTagSet(profile.PreferredTags)

	educational := utils.NormalizeTagSet(profile.EducationalTags)
	if len(s.EducationalTags) > 0 {
		educational = utils.NormalizeTagSet(s.EducationalTags)
	} else if len(fctx.Config.EducationalTags) > 0 {
		educational = utils.NormalizeTagSet(fctx.Config.EducationalTags)
	}

	weights := resolveKidsWeights(s.Weights, rt.KidsWeights)
	halfLife := resolveHalfLife(s.FreshnessHalfLifeDays, rt.FreshnessHalfLife)
	popularityMax := resolvePopularityMax(s.PopularityMax, rt.PopularityMax)
	now := rt.ResolvedNow(nowUnix())

	trusted := make(map[string]struct{}, len(rt.TrustedAuthors))
	for author := range rt.TrustedAuthors {
		trusted[strings.ToLower(author)] = struct{}{}
	}

	for _, item := range items {
		c := item.Content
		if c == nil {
			continue
		}

		tags := contentTagSet(c)

		// 年龄适配度 = 0.6×时长分 + 0.4×标签命中分
		durationScore := 0.5
		if c.Duration > 0 {
			ratio := float64(c.Duration) / float64(profile.MaxDurationSeconds)
			if ratio <= 1 {
				durationScore = 1
			} else {
				durationScore = clamp01(1 / ratio)
			}
		}
		tagScore := tagMatchScore(tags, preferred)
		ageAppropriateness := clamp01(0.6*durationScore + 0.4*tagScore)

		educationalBoost := 0.0
		if len(educational) > 0 && len(tags) > 0 {
			matches := 0
			for tag := range educational {
				if _, ok := tags[tag]; ok {
					matches++
				}
			}
			divisor := math.Min(3, float64(len(educational)))
			educationalBoost = clamp01(float64(matches) / divisor)
		}

		authorTrust := 0.0
		if len(trusted) > 0 && c.Author != "" {
			if _, ok := trusted[strings.ToLower(c.Author)]; ok {
				authorTrust = 1
			}
		}

		popularity := kidsPopularity(c, item, popularityMax)
		freshness := freshnessDecay(contentCreatedAt(c), now, halfLife)
		safety := safetyScore(item)

		baseScore := weights.Age*ageAppropriateness +
			weights.Education*educationalBoost +
			weights.Author*authorTrust +
			weights.Popularity*popularity +
			weights.Freshness*freshness

		riskMultiplier := clamp01(1 - weights.Risk*(1-safety))
		final := clamp01(baseScore * riskMultiplier)

		item.Metadata.Kids = &core.KidsScore{
			Score: final,
			Components: core.KidsComponents{
				AgeAppropriateness: ageAppropriateness,
				EducationalBoost:   educationalBoost,
				AuthorTrust:        authorTrust,
				Popularity:         popularity,
				Freshness:          freshness,
				Safety:             safety,
			},
		}

		reason, value := dominantComponent([]weighted{
			{"age-appropriateness", ageAppropriateness},
			{"educational-boost", educationalBoost},
			{"author-trust", authorTrust},
			{"popularity", popularity},
			{"freshness", freshness},
		})
		if value > 0 {
			fctx.AddWhy(core.WhyRecord{
				Stage: s.Name(), Type: "score", Reason: reason,
				ContentID: c.ID, Author: c.Author,
				Fields: map[string]any{"value": value, "score": final},
			})
		}
	}

	return items, nil
}

// safetyScore 由审核信号推导安全分：hidden 直接归零，受信举报按
// min(1, count/3)×0.7 扣分，受信 mute 至少扣 0.9。
func safetyScore(item *core.Item) float64 {
	m := item.Metadata.Moderation
	if m == nil && item.Content != nil {
		m = item.Content.Moderation
	}
	if m == nil {
		return 1
	}
	if m.Hidden {
		return 0
	}

	penalty := 0.0
	if m.TrustedReportCount > 0 {
		penalty = math.Min(1, float64(m.TrustedReportCount)/3) * 0.7
	}
	if m.TrustedMuted {
		penalty = math.Max(penalty, 0.9)
	}
	return clamp01(1 - penalty)
}

// tagMatchScore 对偏好标签的命中率打分，无标签可比时给 0.4 基线分。
func tagMatchScore(tags, preferred map[string]struct{}) float64 {
	if len(tags) == 0 || len(preferred) == 0 {
		return 0.4
	}
	matches := 0
	for tag := range preferred {
		if _, ok := tags[tag]; ok {
			matches++
		}
	}
	divisor := math.Min(3, float64(len(preferred)))
	return clamp01(float64(matches) / divisor)
}

// kidsPopularity 优先使用儿童内播放量，缺失时回退到全局播放量。
func kidsPopularity(c *core.Content, item *core.Item, popularityMax float64) float64 {
	value := float64(c.KidsViews)
	if value <= 0 && item.Metadata.KidsViews != nil {
		value = float64(*item.Metadata.KidsViews)
	}
	if value <= 0 {
		value = float64(c.ViewCount)
		if value <= 0 && item.Metadata.ViewCount != nil {
			value = float64(*item.Metadata.ViewCount)
		}
	}
	if value < 0 {
		value = 0
	}

	if popularityMax > 0 {
		return clamp01(math.Log1p(value) / math.Log1p(popularityMax))
	}
	if value > 0 {
		return clamp01(math.Log1p(value) / math.Log1p(value+100))
	}
	return 0
}

func resolveKidsWeights(stage, runtime *core.KidsWeights) core.KidsWeights {
	if stage != nil {
		return *stage
	}
	if runtime != nil {
		return *runtime
	}
	return core.DefaultKidsWeights()
}

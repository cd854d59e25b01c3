package score

import (
	"context"
	"math"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// Explore 是探索评分 Stage：偏向与观看者历史画像不同、但又不踩中
// 不感兴趣标签的内容。
//
// 分量：novelty（与画像向量的余弦相似度取反）、freshness、
// historySimilarity、newTagFraction、popularityNorm 为正向，
// disinterestOverlap 按权重从总分中扣除。候选标签向量带 IDF 权重，
// 观看者向量由兴趣(+1)、不感兴趣(-2)、观看历史对数权重合成。
type Explore struct {
	StageName string
	// Weights 覆盖默认权重（可选），优先于运行期覆盖
	Weights *core.ExploreWeights
	// FreshnessHalfLifeDays / PopularityMax 同 Kids
	FreshnessHalfLifeDays float64
	PopularityMax         float64
}

func (s *Explore) Name() string {
	if s.StageName != "" {
		return s.StageName
	}
	return "score.explore"
}

func (s *Explore) Kind() pipeline.Kind { return pipeline.KindScore }

func (s *Explore) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	rt := fctx.RuntimeOrEmpty()

	var interests, disinterests map[string]struct{}
	if prefs := rt.TagPreferences; prefs != nil {
		interests = utils.NormalizeTagSet(prefs.Interests)
		disinterests = utils.NormalizeTagSet(prefs.Disinterests)
	}

	historyCounts := normalizeCountMap(rt.WatchHistoryTagCounts)
	historyWeights := buildHistoryWeights(historyCounts)
	userVector := combineUserVector(interests, disinterests, historyWeights)
	idf := rt.TagIDF

	weights := resolveExploreWeights(s.Weights, rt.ExploreWeights)
	halfLife := resolveHalfLife(s.FreshnessHalfLifeDays, rt.FreshnessHalfLife)
	popularityMax := resolvePopularityMax(s.PopularityMax, rt.PopularityMax)
	now := rt.ResolvedNow(nowUnix())

	for _, item := range items {
		c := item.Content
		if c == nil {
			continue
		}

		vector := buildContentVector(c, idf)
		totalWeight := 0.0
		for _, w := range vector {
			totalWeight += w
		}

		similarity := cosineSimilarity(userVector, vector)
		similarityPositive := math.Max(0, similarity)
		novelty := 0.0
		if len(historyWeights) > 0 {
			novelty = clamp01(1 - similarityPositive)
		}

		newTagFraction := 0.0
		if len(vector) > 0 {
			newCount := 0
			for tag := range vector {
				if _, ok := historyCounts[tag]; !ok {
					newCount++
				}
			}
			newTagFraction = clamp01(float64(newCount) / float64(len(vector)))
		}

		disinterestOverlap := 0.0
		if len(disinterests) > 0 && len(vector) > 0 && totalWeight > 0 {
			overlap := 0.0
			for tag, w := range vector {
				if _, ok := disinterests[tag]; ok {
					overlap += w
				}
			}
			disinterestOverlap = clamp01(overlap / totalWeight)
		}

		popularityNorm := 0.0
		if popularityMax > 0 {
			views := float64(c.ViewCount)
			if views <= 0 && item.Metadata.ViewCount != nil {
				views = float64(*item.Metadata.ViewCount)
			}
			if views < 0 {
				views = 0
			}
			popularityNorm = clamp01(math.Log1p(views) / math.Log1p(popularityMax))
		}

		freshness := freshnessDecay(contentCreatedAt(c), now, halfLife)

		final := clamp01(
			weights.Novelty*novelty +
				weights.Freshness*freshness +
				weights.HistorySimilarity*similarityPositive +
				weights.NewTagFraction*newTagFraction +
				weights.Popularity*popularityNorm -
				weights.Disinterest*disinterestOverlap)

		tags := make([]string, 0, len(vector))
		for tag := range vector {
			tags = append(tags, tag)
		}

		item.Metadata.Explore = &core.ExploreScore{
			Score: final,
			Components: core.ExploreComponents{
				Novelty:            novelty,
				NewTagFraction:     newTagFraction,
				DisinterestOverlap: disinterestOverlap,
				HistorySimilarity:  similarity,
				Popularity:         popularityNorm,
				Freshness:          freshness,
				Tags:               tags,
			},
		}

		reason, value := dominantComponent([]weighted{
			{"novelty", novelty},
			{"freshness", freshness},
			{"history-similarity", similarityPositive},
			{"new-tag-fraction", newTagFraction},
			{"popularity", popularityNorm},
		})
		if value > 0 {
			fctx.AddWhy(core.WhyRecord{
				Stage: s.Name(), Type: "score", Reason: reason,
				ContentID: c.ID, Author: c.Author,
				Fields: map[string]any{"value": value, "score": final},
			})
		}
		if disinterestOverlap > 0 {
			fctx.AddWhy(core.WhyRecord{
				Stage: s.Name(), Type: "score", Reason: "disinterest-overlap",
				ContentID: c.ID, Author: c.Author,
				Fields: map[string]any{"value": disinterestOverlap, "score": final},
			})
		}
	}

	return items, nil
}

func resolveExploreWeights(stage, runtime *core.ExploreWeights) core.ExploreWeights {
	if stage != nil {
		return *stage
	}
	if runtime != nil {
		return *runtime
	}
	return core.DefaultExploreWeights()
}

func normalizeCountMap(counts map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for tag, count := range counts {
		n := utils.NormalizeHashtag(tag)
		if n == "" || count <= 0 {
			continue
		}
		out[n] = count
	}
	return out
}

// buildHistoryWeights 把观看历史标签计数压成 (0,1] 的对数权重。
func buildHistoryWeights(counts map[string]float64) map[string]float64 {
	if len(counts) == 0 {
		return nil
	}
	maxCount := 0.0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount <= 0 {
		return nil
	}

	maxScale := math.Log1p(maxCount)
	out := make(map[string]float64, len(counts))
	for tag, c := range counts {
		scaled := math.Log1p(c) / maxScale
		if scaled > 0 {
			out[tag] = scaled
		}
	}
	return out
}

// combineUserVector 合成观看者画像向量：兴趣 +1、不感兴趣 -2、
// 历史权重累加。
func combineUserVector(interests, disinterests map[string]struct{}, historyWeights map[string]float64) map[string]float64 {
	vector := make(map[string]float64, len(interests)+len(disinterests)+len(historyWeights))
	for tag := range interests {
		vector[tag] += 1
	}
	for tag := range disinterests {
		vector[tag] -= 2
	}
	for tag, w := range historyWeights {
		vector[tag] += w
	}
	return vector
}

// buildContentVector 构建候选的 IDF 加权标签向量。
func buildContentVector(c *core.Content, idf map[string]float64) map[string]float64 {
	vector := make(map[string]float64, len(c.Tags)+len(c.Hashtags))
	add := func(raw string) {
		tag := utils.NormalizeHashtag(raw)
		if tag == "" {
			return
		}
		weight := 1.0
		if v, ok := idf[tag]; ok && v > 0 {
			weight = v
		}
		vector[tag] += weight
	}
	for _, t := range c.Tags {
		add(t)
	}
	for _, t := range c.Hashtags {
		add(t)
	}
	return vector
}

func cosineSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	normA := 0.0
	for _, v := range a {
		normA += v * v
	}
	normB := 0.0
	for _, v := range b {
		normB += v * v
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}

	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}
	dot := 0.0
	for tag, v := range smaller {
		if w, ok := larger[tag]; ok {
			dot += v * w
		}
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}

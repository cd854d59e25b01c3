package rank

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
	"github.com/rushteam/feedkit/pkg/utils"
)

// DefaultLambda 是相关性与多样性的默认平衡点。
const DefaultLambda = 0.7

// Diversity 是探索 feed 的多样性重排：在探索分与“和已选内容的标签
// 相似度”之间做贪心 MMR 选择。
//
// 没有探索分的候选不参与排序，按时间最新在前追加到已排序集合之后。
// 分数在参与排序的候选间做 min-max 归一（退化区间全部归一为 1）。
// 每轮选择 λ·归一分 − (1−λ)·与已选集合的最大余弦相似度 最大的候选，
// 平手先比原始分，再按时间/ID 决胜。
//
// 相似度基于每个候选的标签频次向量。向量与范数只构建一次并缓存，
// 整体复杂度 O(n²)；输入可达数千条，不允许每轮重建向量。
type Diversity struct {
	// Lambda ∈ [0,1]，1 退化为纯分数排序，0 只看多样性；
	// nil 使用 DefaultLambda
	Lambda *float64
}

// NewDiversity 创建多样性排序器，lambda 显式为 0 表示只看多样性。
func NewDiversity(lambda float64) *Diversity {
	return &Diversity{Lambda: &lambda}
}

func (n *Diversity) Name() string        { return "rank.diversity" }
func (n *Diversity) Kind() pipeline.Kind { return pipeline.KindSort }

type mmrCandidate struct {
	item   *core.Item
	raw    float64
	norm   float64
	vector map[string]float64
	vnorm  float64
	maxSim float64
	ts     int64
}

func (n *Diversity) Process(
	_ context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) < 2 {
		return items, nil
	}

	lambda := DefaultLambda
	if n.Lambda != nil {
		lambda = *n.Lambda
	}
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}

	var ranked []*mmrCandidate
	var unranked []*core.Item
	for _, item := range items {
		score, ok := exploreScore(item)
		if !ok {
			unranked = append(unranked, item)
			continue
		}
		ranked = append(ranked, &mmrCandidate{item: item, raw: score, ts: ResolveTimestamp(item)})
	}

	if len(ranked) == 0 {
		sortMostRecentFirst(unranked)
		return unranked, nil
	}

	// min-max 归一，退化区间全部归一为 1
	minScore, maxScore := ranked[0].raw, ranked[0].raw
	for _, c := range ranked[1:] {
		if c.raw < minScore {
			minScore = c.raw
		}
		if c.raw > maxScore {
			maxScore = c.raw
		}
	}
	span := maxScore - minScore
	for _, c := range ranked {
		if span <= 0 {
			c.norm = 1
		} else {
			c.norm = (c.raw - minScore) / span
		}
	}

	// 向量与范数只构建一次
	for _, c := range ranked {
		c.vector = tagFrequencyVector(c.item)
		c.vnorm = vectorNorm(c.vector)
	}

	out := make([]*core.Item, 0, len(items))
	remaining := ranked

	for round := 0; len(remaining) > 0; round++ {
		bestIdx := 0
		topRawIdx := 0
		for i, c := range remaining {
			if better(c, remaining[bestIdx], lambda) {
				bestIdx = i
			}
			if rawBetter(c, remaining[topRawIdx]) {
				topRawIdx = i
			}
		}

		picked := remaining[bestIdx]
		if round > 0 && bestIdx != topRawIdx {
			competitor := remaining[topRawIdx]
			fctx.AddWhy(core.WhyRecord{
				Stage:     n.Name(),
				Type:      "rank",
				Reason:    "diversity-deviation",
				ContentID: picked.item.ContentID(),
				Fields: map[string]any{
					"overId":     competitor.item.ContentID(),
					"similarity": competitor.maxSim,
				},
			})
		}

		out = append(out, picked.item)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

		// 增量维护每个剩余候选与已选集合的最大相似度
		for _, c := range remaining {
			sim := cosine(c.vector, c.vnorm, picked.vector, picked.vnorm)
			if sim > c.maxSim {
				c.maxSim = sim
			}
		}
	}

	sortMostRecentFirst(unranked)
	return append(out, unranked...), nil
}

func better(a, b *mmrCandidate, lambda float64) bool {
	av := lambda*a.norm - (1-lambda)*a.maxSim
	bv := lambda*b.norm - (1-lambda)*b.maxSim
	if av != bv {
		return av > bv
	}
	return rawBetter(a, b)
}

func rawBetter(a, b *mmrCandidate) bool {
	if a.raw != b.raw {
		return a.raw > b.raw
	}
	if a.ts != b.ts {
		return a.ts > b.ts
	}
	return a.item.ContentID() < b.item.ContentID()
}

func exploreScore(item *core.Item) (float64, bool) {
	e := item.Metadata.Explore
	if e == nil || math.IsNaN(e.Score) || math.IsInf(e.Score, 0) {
		return 0, false
	}
	return e.Score, true
}

func sortMostRecentFirst(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		at, bt := ResolveTimestamp(items[i]), ResolveTimestamp(items[j])
		if at != bt {
			return at > bt
		}
		return items[i].ContentID() < items[j].ContentID()
	})
}

func tagFrequencyVector(item *core.Item) map[string]float64 {
	c := item.Content
	if c == nil {
		return nil
	}
	vector := make(map[string]float64, len(c.Tags)+len(c.Hashtags))
	for _, t := range c.Tags {
		if n := utils.NormalizeHashtag(t); n != "" {
			vector[n]++
		}
	}
	for _, t := range c.Hashtags {
		if n := utils.NormalizeHashtag(t); n != "" {
			vector[n]++
		}
	}
	return vector
}

func vectorNorm(v map[string]float64) float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

func cosine(a map[string]float64, aNorm float64, b map[string]float64, bNorm float64) float64 {
	if aNorm <= 0 || bNorm <= 0 {
		return 0
	}
	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}
	dot := 0.0
	for tag, w := range smaller {
		if v, ok := larger[tag]; ok {
			dot += w * v
		}
	}
	sim := dot / (aNorm * bNorm)
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}

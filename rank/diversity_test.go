package rank

import (
	"context"
	"testing"

	"github.com/rushteam/feedkit/core"
)

func exploreItem(id string, score float64, createdAt int64, tags ...string) *core.Item {
	item := core.NewItem(&core.Content{ID: id, CreatedAt: createdAt, Tags: tags})
	item.Metadata.Explore = &core.ExploreScore{Score: score}
	return item
}

func TestDiversity_PureScoreOrderAtLambdaOne(t *testing.T) {
	items := []*core.Item{
		exploreItem("low", 0.2, 100, "music"),
		exploreItem("high", 0.9, 100, "music"),
		exploreItem("mid", 0.5, 100, "music"),
	}

	out, err := NewDiversity(1).Process(context.Background(), rankContext(), items)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if got := ids(out); !equalIDs(got, "high", "mid", "low") {
		t.Errorf("order = %v, want pure score order at lambda 1", got)
	}
}

func TestDiversity_AvoidsSimilarTagsAtLambdaZero(t *testing.T) {
	// lambda 0 只看多样性：第二轮必须避开与已选内容同标签的候选
	items := []*core.Item{
		exploreItem("rock-a", 0.9, 100, "rock"),
		exploreItem("rock-b", 0.8, 100, "rock"),
		exploreItem("jazz", 0.1, 100, "jazz"),
	}

	out, err := NewDiversity(0).Process(context.Background(), rankContext(), items)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	got := ids(out)
	if got[0] != "rock-a" {
		t.Fatalf("first pick = %v, want the top raw score", got[0])
	}
	if got[1] != "jazz" {
		t.Errorf("second pick = %v, want the dissimilar candidate", got[1])
	}
}

func TestDiversity_DeviationWhyRecord(t *testing.T) {
	items := []*core.Item{
		exploreItem("rock-a", 0.9, 100, "rock"),
		exploreItem("rock-b", 0.8, 100, "rock"),
		exploreItem("jazz", 0.5, 100, "jazz"),
	}

	fctx := rankContext()
	if _, err := NewDiversity(0.3).Process(context.Background(), fctx, items); err != nil {
		t.Fatalf("process failed: %v", err)
	}

	var deviation *core.WhyRecord
	for _, rec := range fctx.Why() {
		if rec.Reason == "diversity-deviation" {
			found := rec
			deviation = &found
			break
		}
	}
	if deviation == nil {
		t.Fatal("expected a diversity-deviation why record")
	}
	if deviation.ContentID != "jazz" || deviation.Fields["overId"] != "rock-b" {
		t.Errorf("deviation = %v over %v, want jazz over rock-b",
			deviation.ContentID, deviation.Fields["overId"])
	}
}

func TestDiversity_UnrankedAppendedMostRecentFirst(t *testing.T) {
	items := []*core.Item{
		core.NewItem(&core.Content{ID: "plain-old", CreatedAt: 100}),
		exploreItem("scored", 0.5, 100, "music"),
		core.NewItem(&core.Content{ID: "plain-new", CreatedAt: 900}),
	}

	out, err := (&Diversity{}).Process(context.Background(), rankContext(), items)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if got := ids(out); !equalIDs(got, "scored", "plain-new", "plain-old") {
		t.Errorf("order = %v, want unranked appended newest first", got)
	}
}

func TestDiversity_AllUnrankedFallsBackToRecency(t *testing.T) {
	items := []*core.Item{
		core.NewItem(&core.Content{ID: "old", CreatedAt: 100}),
		core.NewItem(&core.Content{ID: "new", CreatedAt: 200}),
	}

	out, err := (&Diversity{}).Process(context.Background(), rankContext(), items)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if got := ids(out); !equalIDs(got, "new", "old") {
		t.Errorf("order = %v, want recency fallback", got)
	}
}

func TestDiversity_DegenerateScoreSpan(t *testing.T) {
	// 全部同分时归一为 1，退化为多样性决胜后仍然确定有序
	items := []*core.Item{
		exploreItem("b", 0.5, 100, "rock"),
		exploreItem("a", 0.5, 100, "rock"),
	}

	out, err := NewDiversity(1).Process(context.Background(), rankContext(), items)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if got := ids(out); !equalIDs(got, "a", "b") {
		t.Errorf("order = %v, want ID tie-break", got)
	}
}

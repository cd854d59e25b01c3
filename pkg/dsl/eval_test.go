package dsl

import (
	"testing"

	"github.com/rushteam/feedkit/core"
)

func evalContext() *core.FeedContext {
	return core.NewFeedContext("test", core.DefaultFeedConfig(), nil)
}

func TestCompile_EmptyExpressionAlwaysTrue(t *testing.T) {
	p, err := Compile("")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	ok, err := p.Evaluate(core.NewItem(nil), evalContext())
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !ok {
		t.Error("empty program must evaluate to true")
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	if _, err := Compile("content.duration >"); err == nil {
		t.Error("expected a compile error")
	}
}

func TestEvaluate_ContentFields(t *testing.T) {
	item := core.NewItem(&core.Content{
		ID:       "v1",
		Duration: 900,
		Tags:     []string{"music", "live"},
	})

	tests := []struct {
		expr string
		want bool
	}{
		{`content.duration > 600`, true},
		{`content.duration > 1000`, false},
		{`"music" in content.tags`, true},
		{`"gaming" in content.tags`, false},
		{`content.id == "v1" && content.duration >= 900`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("compile failed: %v", err)
			}
			got, err := p.Evaluate(item, evalContext())
			if err != nil {
				t.Fatalf("evaluate failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("result = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_RuntimeAndConfig(t *testing.T) {
	fctx := evalContext()
	fctx.Runtime = &core.Runtime{FeedVariant: "home"}
	fctx.Config.AgeGroup = "preschool"

	p, err := Compile(`runtime.feedVariant == "home" && config.ageGroup == "preschool"`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	got, err := p.Evaluate(core.NewItem(&core.Content{ID: "v1"}), fctx)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !got {
		t.Error("runtime and config variables must be visible to expressions")
	}
}

func TestEvaluate_ScoreVariables(t *testing.T) {
	item := core.NewItem(&core.Content{ID: "v1"})
	item.Metadata.Kids = &core.KidsScore{Score: 0.8}

	p, err := Compile(`item.kidsScore > 0.5`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	got, err := p.Evaluate(item, evalContext())
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !got {
		t.Error("kids score must be visible when present")
	}
}

func TestEvaluate_NonBooleanResult(t *testing.T) {
	p, err := Compile(`content.duration + 1`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if _, err := p.Evaluate(core.NewItem(&core.Content{ID: "v1"}), evalContext()); err == nil {
		t.Error("expected an error for a non-boolean expression")
	}
}

func TestEvaluate_MissingKeyIsError(t *testing.T) {
	p, err := Compile(`item.kidsScore > 0.5`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	// 未评分的候选没有 kidsScore 键，表达式求值报错而非隐式为 false
	if _, err := p.Evaluate(core.NewItem(&core.Content{ID: "v1"}), evalContext()); err == nil {
		t.Error("expected an error for a missing key")
	}
}

package moderation

import "github.com/rushteam/feedkit/core"

// 全局默认阈值。autoplay 与 blur 在单个受信信号出现时即生效，
// 硬隐藏需要更多信号才触发。
const (
	DefaultAutoplayBlockThreshold     = 1
	DefaultBlurThreshold              = 1
	DefaultTrustedMuteHideThreshold   = 3
	DefaultTrustedReportHideThreshold = 3
)

// thresholds 是一次运行解析完成的阈值集合。
// 解析顺序：Stage 配置 > 运行期覆盖 > 全局默认。
type thresholds struct {
	autoplayBlock      int
	blur               int
	trustedMuteHide    int
	trustedReportHide  int
	muteHideByCategory map[string]float64
}

func resolveThresholds(s *Stage, rt *core.Runtime) thresholds {
	t := thresholds{
		autoplayBlock:     DefaultAutoplayBlockThreshold,
		blur:              DefaultBlurThreshold,
		trustedMuteHide:   DefaultTrustedMuteHideThreshold,
		trustedReportHide: DefaultTrustedReportHideThreshold,
	}

	if ov := rt.ModerationThresholds; ov != nil {
		if ov.AutoplayBlock != nil {
			t.autoplayBlock = int(*ov.AutoplayBlock)
		}
		if ov.Blur != nil {
			t.blur = int(*ov.Blur)
		}
		if ov.TrustedMuteHide != nil {
			t.trustedMuteHide = int(*ov.TrustedMuteHide)
		}
		if ov.TrustedReportHide != nil {
			t.trustedReportHide = int(*ov.TrustedReportHide)
		}
		t.muteHideByCategory = ov.TrustedMuteHideByCategory
	}

	if s.AutoplayBlockThreshold > 0 {
		t.autoplayBlock = s.AutoplayBlockThreshold
	}
	if s.BlurThreshold > 0 {
		t.blur = s.BlurThreshold
	}
	if s.TrustedMuteHideThreshold > 0 {
		t.trustedMuteHide = s.TrustedMuteHideThreshold
	}
	if s.TrustedReportHideThreshold > 0 {
		t.trustedReportHide = s.TrustedReportHideThreshold
	}

	return t
}

// muteHideFor 返回指定 mute 分类的硬隐藏阈值，分类没有覆盖时
// 回退到通用阈值。
func (t thresholds) muteHideFor(category string) int {
	if category != "" {
		if v, ok := t.muteHideByCategory[category]; ok && v > 0 {
			return int(v)
		}
	}
	return t.trustedMuteHide
}

// Package moderation 实现受信社区信号驱动的审核 Stage。
package moderation

import (
	"context"
	"strings"

	"github.com/rushteam/feedkit/core"
	"github.com/rushteam/feedkit/pipeline"
)

// Stage 按受信举报/受信 mute 信号为每个候选计算完整的审核状态。
//
// 判定顺序（对每个候选）：
//  1. 观看者拉黑的作者直接剔除（viewer-block）
//  2. 管理员黑名单直接剔除（admin-blacklist），白名单身份不豁免
//  3. 其余信号来自审核服务，缺失按零值宽容处理
//  4. blockAutoplay：举报数达阈值、或受信 mute、或观看者 mute
//  5. blurThumbnail：举报数达阈值触发；隐藏触发、观看者 mute、
//     受信 mute 也会强制 blur，blurReason 取最具体的原因
//  6. 隐藏判定：mute 数达分类阈值（优先）或举报数达阈值；
//     viewer-override、feed-policy（home/recent 或 DisableHardHide）
//     可以豁免隐藏，但隐藏元数据仍然写入
//  7. 状态整体替换后双写到 Metadata.Moderation 与内容自身
//  8. hidden 为 true 的候选从输出剔除，被豁免的保留
//
// 同一批候选重复执行会收敛：每次都写入全新状态，上一轮的
// mute/report 字段不会残留。
type Stage struct {
	// Service 覆盖引擎注入的审核服务（可选）
	Service core.ModerationService

	// 阈值配置，0 表示使用默认值，运行期覆盖优先。
	AutoplayBlockThreshold     int
	BlurThreshold              int
	TrustedMuteHideThreshold   int
	TrustedReportHideThreshold int
}

func (s *Stage) Name() string        { return "moderation.stage" }
func (s *Stage) Kind() pipeline.Kind { return pipeline.KindAnnotate }

func (s *Stage) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	items []*core.Item,
) ([]*core.Item, error) {
	svc := s.Service
	if svc == nil {
		svc = fctx.Moderation
	}
	if svc == nil || len(items) == 0 {
		return items, nil
	}

	rt := fctx.RuntimeOrEmpty()
	t := resolveThresholds(s, rt)

	if err := svc.RefreshViewer(ctx, rt.Viewer); err != nil {
		fctx.Logger.Warn("moderation viewer refresh failed", "err", err)
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id := item.ContentID(); id != "" {
			ids = append(ids, id)
		}
	}
	if err := svc.SetActiveContentIDs(ctx, ids); err != nil {
		fctx.Logger.Warn("moderation prefetch failed", "err", err)
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		c := item.Content
		if c == nil {
			out = append(out, item)
			continue
		}
		author := strings.ToLower(c.Author)

		if rt.IsViewerBlocked != nil && author != "" && rt.IsViewerBlocked(author) {
			item.Metadata.DroppedByStage = s.Name()
			fctx.AddWhy(core.WhyRecord{
				Stage:     s.Name(),
				Type:      "moderation",
				Reason:    "viewer-block",
				ContentID: c.ID,
				Author:    author,
			})
			continue
		}

		acs := svc.AccessControlStatus(author)
		if acs.Blacklisted {
			item.Metadata.DroppedByStage = s.Name()
			fctx.AddWhy(core.WhyRecord{
				Stage:     s.Name(),
				Type:      "moderation",
				Reason:    "admin-blacklist",
				ContentID: c.ID,
				Author:    author,
			})
			continue
		}

		state, hideTriggered := s.evaluate(svc, rt, t, fctx, c, author, acs.Whitelisted)

		// 整体替换 + 双写
		item.Metadata.Moderation = state
		c.Moderation = state.Clone()

		s.explain(fctx, c, author, state, hideTriggered)

		if state.Hidden {
			item.Metadata.DroppedByStage = s.Name()
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

// evaluate 计算单个候选的完整审核状态。
func (s *Stage) evaluate(
	svc core.ModerationService,
	rt *core.Runtime,
	t thresholds,
	fctx *core.FeedContext,
	c *core.Content,
	author string,
	whitelisted bool,
) (*core.ModerationState, bool) {
	summary := svc.TrustedReportSummary(c.ID)
	muters, byCategory := svc.TrustedMutersForAuthor(author)
	viewerMuted := author != "" && svc.IsAuthorMutedByViewer(author)

	state := &core.ModerationState{
		ReportType:         summary.Type,
		TrustedReportCount: summary.Count,
		ViewerMuted:        viewerMuted,
		AdminWhitelist:     whitelisted,
	}
	if len(summary.Reporters) > 0 {
		state.TrustedReporters = append([]core.ReporterEntry(nil), summary.Reporters...)
	}
	if len(muters) > 0 {
		state.TrustedMuted = true
		state.TrustedMuters = append([]string(nil), muters...)
		state.TrustedMuteCount = len(muters)
		state.MuteCategory = dominantCategory(byCategory)
	}

	state.BlockAutoplay = state.TrustedReportCount >= t.autoplayBlock ||
		state.TrustedMuted || viewerMuted

	hideReason := ""
	if state.TrustedMuted && state.TrustedMuteCount >= t.muteHideFor(state.MuteCategory) {
		hideReason = "trusted-mute-hide"
	} else if state.TrustedReportCount >= t.trustedReportHide {
		hideReason = "trusted-report-hide"
	}
	hideTriggered := hideReason != ""

	if state.TrustedReportCount >= t.blur || viewerMuted || state.TrustedMuted || hideTriggered {
		state.BlurThumbnail = true
		switch {
		case hideTriggered:
			state.BlurReason = hideReason
		case viewerMuted:
			state.BlurReason = "viewer-mute"
		case state.TrustedMuted:
			state.BlurReason = "trusted-mute"
		default:
			state.BlurReason = "trusted-report"
		}
	}

	if hideTriggered {
		state.HideReason = hideReason
		state.HideCounts = &core.HideCounts{
			TrustedMuteCount:   state.TrustedMuteCount,
			TrustedReportCount: state.TrustedReportCount,
		}
		state.Hidden = true

		if rt.ViewerOverride != nil {
			if vo := rt.ViewerOverride(c.ID, author); vo != nil && vo.ShowHidden {
				state.Hidden = false
				state.HideBypass = "viewer-override"
				state.ViewerOverride = vo
			}
		}
		if state.Hidden && feedPolicyBypass(fctx, rt) {
			state.Hidden = false
			state.HideBypass = "feed-policy"
		}
	}

	return state, hideTriggered
}

// feedPolicyBypass 判断 feed 级策略是否豁免硬隐藏。
// 白名单身份不在豁免名单里。
func feedPolicyBypass(fctx *core.FeedContext, rt *core.Runtime) bool {
	if rt.DisableHardHide {
		return true
	}
	switch fctx.FeedName {
	case "home", "recent":
		return true
	}
	switch rt.FeedVariant {
	case "home", "recent":
		return true
	}
	return false
}

func (s *Stage) explain(fctx *core.FeedContext, c *core.Content, author string, state *core.ModerationState, hideTriggered bool) {
	if state.BlockAutoplay {
		fctx.AddWhy(core.WhyRecord{
			Stage: s.Name(), Type: "moderation", Reason: "autoplay-block",
			ContentID: c.ID, Author: author,
			Fields: map[string]any{"trustedReportCount": state.TrustedReportCount},
		})
	}
	if state.BlurThumbnail {
		fctx.AddWhy(core.WhyRecord{
			Stage: s.Name(), Type: "moderation", Reason: "blur",
			ContentID: c.ID, Author: author,
			Fields: map[string]any{"blurReason": state.BlurReason},
		})
	}
	if state.TrustedMuted {
		fctx.AddWhy(core.WhyRecord{
			Stage: s.Name(), Type: "moderation", Reason: "trusted-mute",
			ContentID: c.ID, Author: author,
			Fields: map[string]any{
				"trustedMuteCount": state.TrustedMuteCount,
				"muteCategory":     state.MuteCategory,
			},
		})
	}
	if state.ViewerMuted {
		fctx.AddWhy(core.WhyRecord{
			Stage: s.Name(), Type: "moderation", Reason: "viewer-mute",
			ContentID: c.ID, Author: author,
		})
	}
	if hideTriggered {
		fields := map[string]any{
			"hidden":             state.Hidden,
			"trustedMuteCount":   state.TrustedMuteCount,
			"trustedReportCount": state.TrustedReportCount,
		}
		if state.HideBypass != "" {
			fields["hideBypass"] = state.HideBypass
		}
		if state.AdminWhitelist {
			fields["adminWhitelist"] = true
		}
		fctx.AddWhy(core.WhyRecord{
			Stage: s.Name(), Type: "moderation", Reason: state.HideReason,
			ContentID: c.ID, Author: author, Fields: fields,
		})
	}
}

// dominantCategory 取计数最大的 mute 分类，计数相同取字典序靠前的。
func dominantCategory(byCategory map[string]int) string {
	best := ""
	bestCount := 0
	for cat, count := range byCategory {
		if count > bestCount || (count == bestCount && (best == "" || cat < best)) {
			best = cat
			bestCount = count
		}
	}
	return best
}

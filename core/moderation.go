package core

import "context"

// ReporterEntry 记录一个受信举报者及其举报类型。
type ReporterEntry struct {
	Pubkey string `json:"pubkey"`
	Type   string `json:"type,omitempty"`
}

// HideCounts 记录触发隐藏判定时的受信信号计数。
type HideCounts struct {
	TrustedMuteCount   int `json:"trustedMuteCount"`
	TrustedReportCount int `json:"trustedReportCount"`
}

// ViewerOverride 表示观看者对单条内容的手动放行。
type ViewerOverride struct {
	ShowHidden bool
	ShowBlur   bool
}

// ModerationState 是审核阶段写入的完整判定结果。每次运行整体替换，
// 不保留上一次的陈旧字段。
type ModerationState struct {
	ReportType         string          `json:"reportType,omitempty"`
	TrustedReportCount int             `json:"trustedReportCount"`
	TrustedReporters   []ReporterEntry `json:"trustedReporters,omitempty"`

	TrustedMuted     bool     `json:"trustedMuted"`
	TrustedMuters    []string `json:"trustedMuters,omitempty"`
	TrustedMuteCount int      `json:"trustedMuteCount"`
	MuteCategory     string   `json:"muteCategory,omitempty"`

	ViewerMuted bool `json:"viewerMuted"`

	BlockAutoplay bool   `json:"blockAutoplay"`
	BlurThumbnail bool   `json:"blurThumbnail"`
	BlurReason    string `json:"blurReason,omitempty"`

	Hidden     bool        `json:"hidden"`
	HideReason string      `json:"hideReason,omitempty"`
	HideBypass string      `json:"hideBypass,omitempty"`
	HideCounts *HideCounts `json:"hideCounts,omitempty"`

	AdminWhitelist bool `json:"adminWhitelist"`

	ViewerOverride *ViewerOverride `json:"-"`
}

// Clone 深拷贝审核状态，元数据与内容双写时各持一份。
func (m *ModerationState) Clone() *ModerationState {
	if m == nil {
		return nil
	}
	out := *m
	if m.TrustedReporters != nil {
		out.TrustedReporters = make([]ReporterEntry, len(m.TrustedReporters))
		copy(out.TrustedReporters, m.TrustedReporters)
	}
	if m.TrustedMuters != nil {
		out.TrustedMuters = make([]string, len(m.TrustedMuters))
		copy(out.TrustedMuters, m.TrustedMuters)
	}
	if m.HideCounts != nil {
		hc := *m.HideCounts
		out.HideCounts = &hc
	}
	if m.ViewerOverride != nil {
		vo := *m.ViewerOverride
		out.ViewerOverride = &vo
	}
	return &out
}

// TrustedReportSummary 某条内容的受信举报汇总。
type TrustedReportSummary struct {
	Count     int
	Type      string
	Reporters []ReporterEntry
}

// AccessControlEntry 管理员名单中的一项。
type AccessControlEntry struct {
	Whitelisted bool
	Blacklisted bool
}

// ModerationService 向审核阶段提供受信信号。所有方法在信号缺失时
// 返回零值而非错误，阶段据此宽容降级。
type ModerationService interface {
	// RefreshViewer 按当前观看者加载信任图与 mute 关系。
	RefreshViewer(ctx context.Context, viewer string) error
	// SetActiveContentIDs 告知服务当前 feed 涉及的内容集合，便于预取。
	SetActiveContentIDs(ctx context.Context, ids []string) error

	// AccessControlStatus 返回作者在管理员名单中的状态。
	AccessControlStatus(author string) AccessControlEntry

	// TrustedReportSummary 返回内容的受信举报汇总。
	TrustedReportSummary(contentID string) TrustedReportSummary

	// IsAuthorMutedByViewer 观看者本人是否 mute 了该作者。
	IsAuthorMutedByViewer(author string) bool
	// TrustedMutersForAuthor 返回 mute 该作者的受信用户及分类计数。
	TrustedMutersForAuthor(author string) (muters []string, byCategory map[string]int)
}

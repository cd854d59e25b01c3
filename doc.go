// Package feedkit 是一个内容 feed 排序工具包（Feed Kit）。
//
// 设计要点：
// - Registry-first: feed 注册后按名字运行，候选经 Source → Stage 链 → Sorter → Decorator 产出
// - Why-log: 过滤、审核、打分、排序全链路记录可解释事件，支持 explain / 审计 / 回放
// - Stage 可扩展: 自定义 Stage 即可插拔扩展（过滤、标注、打分、排序均可）
package feedkit

import "github.com/rushteam/feedkit/pipeline"

// 轻量 facade：便于用户直接 import "feedkit" 使用核心抽象。
type Engine = pipeline.Engine
type Stage = pipeline.Stage
type Source = pipeline.Source
type Kind = pipeline.Kind

const (
	KindSource   = pipeline.KindSource
	KindFilter   = pipeline.KindFilter
	KindAnnotate = pipeline.KindAnnotate
	KindScore    = pipeline.KindScore
	KindSort     = pipeline.KindSort
	KindDecorate = pipeline.KindDecorate
)

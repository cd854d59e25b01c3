// Package utils 提供标签归一化等跨模块的小工具。
package utils

import "strings"

// NormalizeHashtag 把标签归一化为可比较的形式：去掉前导 '#'、
// 去除首尾空白并转为小写。无效标签返回空串。
func NormalizeHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.TrimSpace(tag)
	return strings.ToLower(tag)
}

// NormalizeTagList 归一化标签列表，保持原顺序并去重。
func NormalizeTagList(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeHashtag(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// NormalizeTagSet 归一化标签列表为集合。
func NormalizeTagSet(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if n := NormalizeHashtag(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

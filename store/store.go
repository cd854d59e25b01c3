// Package store 提供 core.Store / core.KeyValueStore 的具体实现。
//
// 接口定义在 core 包，此包只包含实现。典型用途：黑名单集合、
// 观看历史、候选时间线与内容缓存。
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store

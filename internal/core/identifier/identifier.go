// Package identifier 提供实体标识分配器
//
// 路由核心中所有类型的实体（地址配置、链路路由等）共用同一个分配器，
// 标识严格递增、进程内永不复用。
package identifier

import "sync/atomic"

// Allocator 实体标识分配器
type Allocator struct {
	last atomic.Int64
}

// NewAllocator 创建分配器，第一个标识为 1
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next 分配下一个标识
func (a *Allocator) Next() int64 {
	return a.last.Add(1)
}

// Last 返回最近一次分配的标识，尚未分配时为 0
func (a *Allocator) Last() int64 {
	return a.last.Load()
}

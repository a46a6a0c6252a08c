package addrconfig

import "github.com/dep2p/go-dispatch/pkg/types"

// ============================================================================
//                              Executor 查询执行器
// ============================================================================

// Page 一次枚举的结果
//
// Entity 为 nil 表示 offset 处没有实体。
type Page struct {
	Entity     *AddressConfig
	NextOffset int
	More       bool
}

// Executor 地址配置的查询执行器
//
// 分页位置只是序数，每次调用都重新定位：两次调用之间的插入或删除
// 可能导致实体被跳过或重复返回。
type Executor struct {
	reg *Registry
}

// NewExecutor 创建查询执行器
func NewExecutor(reg *Registry) *Executor {
	return &Executor{reg: reg}
}

// First 从 offset 开始枚举；负的 offset 视为 0
func (x *Executor) First(offset int) Page {
	if offset < 0 {
		offset = 0
	}
	if offset >= x.reg.Size() {
		return Page{NextOffset: offset}
	}
	return x.at(offset)
}

// Next 从 next 继续枚举
func (x *Executor) Next(next int) Page {
	return x.at(next)
}

func (x *Executor) at(offset int) Page {
	e, ok := x.reg.At(offset)
	if !ok {
		return Page{NextOffset: offset}
	}
	_, more := x.reg.At(offset + 1)
	return Page{Entity: e, NextOffset: offset + 1, More: more}
}

// Get 按标识（优先）或名称读取单个实体
//
// 提供了标识时忽略名称，即使标识未命中。
func (x *Executor) Get(name, identity *string) Outcome {
	if name == nil && identity == nil {
		return failure(descNoKey)
	}

	var (
		e  *AddressConfig
		ok bool
	)
	if identity != nil {
		e, ok = x.reg.FindByIdentity(*identity)
	} else {
		e, ok = x.reg.FindByName(*name)
	}
	if !ok {
		return Outcome{Status: types.StatusNotFound}
	}
	return Outcome{Status: types.StatusOK, Entity: e}
}

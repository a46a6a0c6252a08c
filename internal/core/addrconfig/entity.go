// Package addrconfig 实现地址配置注册表及其管理管道
//
// 地址配置实体（AddressConfig）描述管理员配置的地址前缀、分发策略和相位。
// 注册表同时维护插入顺序的实体序列（用于确定性枚举）与共享地址哈希表中
// 以 'Z' 标签开头的键（用于数据面 O(1) 前缀查找）。
//
// 包内所有类型只在管理代理的核心协程中使用，不加锁。
package addrconfig

import (
	"github.com/dep2p/go-dispatch/internal/core/addrhash"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// 相位取值范围
const (
	MinPhase = 0
	MaxPhase = 9

	// phaseUnset 请求体未提供相位
	phaseUnset = -1
)

// ============================================================================
//                              AddressConfig 实体
// ============================================================================

// AddressConfig 地址配置实体
//
// 所有字段在构造时一次性设置，之后不再修改。
// 前缀不单独存储，而是从哈希句柄的键中还原。
type AddressConfig struct {
	identity  int64
	name      string
	hasName   bool
	treatment types.Treatment
	inPhase   int
	outPhase  int

	handle *addrhash.Handle
}

func newAddressConfig(identity int64, name *string, treatment types.Treatment, in, out int) *AddressConfig {
	e := &AddressConfig{
		identity:  identity,
		treatment: treatment,
		inPhase:   in,
		outPhase:  out,
	}
	if name != nil {
		e.name, e.hasName = *name, true
	}
	return e
}

// Identity 返回实体标识
func (e *AddressConfig) Identity() int64 {
	return e.identity
}

// Name 返回实体名称；未命名时 ok=false
func (e *AddressConfig) Name() (string, bool) {
	return e.name, e.hasName
}

// Treatment 返回分发策略
func (e *AddressConfig) Treatment() types.Treatment {
	return e.treatment
}

// InPhase 返回入向相位
func (e *AddressConfig) InPhase() int {
	return e.inPhase
}

// OutPhase 返回出向相位
func (e *AddressConfig) OutPhase() int {
	return e.outPhase
}

// Waypoint 当且仅当相位为 (0, 1) 时为 true
func (e *AddressConfig) Waypoint() bool {
	return e.inPhase == 0 && e.outPhase == 1
}

// Key 返回带标签的哈希键；实体未插入或已删除时为空
func (e *AddressConfig) Key() string {
	return e.handle.Key()
}

// Prefix 从哈希键中还原前缀
//
// 键的标签不是地址配置标签时 ok=false。
func (e *AddressConfig) Prefix() (string, bool) {
	tag, view, ok := addrhash.SplitKey(e.handle.Key())
	if !ok || tag != types.HashTagConfigAddress {
		return "", false
	}
	return view, true
}

// Info 返回实体的只读快照
func (e *AddressConfig) Info() types.AddressConfigInfo {
	prefix, _ := e.Prefix()
	return types.AddressConfigInfo{
		Identity:  e.identity,
		Name:      e.name,
		HasName:   e.hasName,
		Prefix:    prefix,
		Treatment: e.treatment,
		InPhase:   e.inPhase,
		OutPhase:  e.outPhase,
	}
}

// release 释放实体持有的字段，仅由 Registry.Remove 调用
func (e *AddressConfig) release() {
	e.name, e.hasName = "", false
	e.handle = nil
}

package config

import (
	"fmt"

	"github.com/dep2p/go-dispatch/pkg/types"
)

// AddressEntry 静态地址配置条目
//
// 字段含义与管理协议中 CREATE 请求体的同名属性一致。
// 相位为 nil 表示未设置，由核心按 waypoint 取缺省值。
type AddressEntry struct {
	// Name 实体名称（可选）
	Name string `json:"name,omitempty"`

	// Prefix 地址前缀（必填）
	Prefix string `json:"prefix"`

	// Distribution 分发策略 (multicast/closest/balanced)
	Distribution string `json:"distribution,omitempty"`

	// Waypoint 是否为 waypoint 地址
	Waypoint bool `json:"waypoint,omitempty"`

	// IngressPhase 入向相位
	IngressPhase *int `json:"ingress_phase,omitempty"`

	// EgressPhase 出向相位
	EgressPhase *int `json:"egress_phase,omitempty"`
}

// Validate 验证单个条目，idx 用于错误定位
//
// 名称/前缀唯一性由核心在创建时检查。
func (e AddressEntry) Validate(idx int) error {
	if e.Prefix == "" {
		return fmt.Errorf("addresses[%d]: prefix is mandatory", idx)
	}
	switch e.Distribution {
	case "", "multicast", "closest", "balanced":
	default:
		return fmt.Errorf("addresses[%d]: unknown distribution %q", idx, e.Distribution)
	}
	for _, p := range []*int{e.IngressPhase, e.EgressPhase} {
		if p != nil && (*p < 0 || *p > 9) {
			return fmt.Errorf("addresses[%d]: %w", idx, types.ErrInvalidPhase)
		}
	}
	return nil
}

// Attributes 转换为 CREATE 请求体属性（只包含已设置的字段）
func (e AddressEntry) Attributes() map[string]any {
	attrs := map[string]any{
		"prefix": e.Prefix,
	}
	if e.Distribution != "" {
		attrs["distribution"] = e.Distribution
	}
	if e.Waypoint {
		attrs["waypoint"] = true
	}
	if e.IngressPhase != nil {
		attrs["ingressPhase"] = *e.IngressPhase
	}
	if e.EgressPhase != nil {
		attrs["egressPhase"] = *e.EgressPhase
	}
	return attrs
}

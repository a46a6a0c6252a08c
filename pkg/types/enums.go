package types

import "strings"

// ============================================================================
//                              Treatment - 地址处理方式
// ============================================================================

// Treatment 发往匹配地址的消息的分发策略
type Treatment int

const (
	// TreatmentMulticastFlood 多播（洪泛）
	TreatmentMulticastFlood Treatment = iota
	// TreatmentMulticastOnce 多播（每个接收者一次）
	TreatmentMulticastOnce
	// TreatmentAnycastClosest 任播（最近）
	TreatmentAnycastClosest
	// TreatmentAnycastBalanced 任播（负载均衡），缺省值
	TreatmentAnycastBalanced
)

// 分发策略在管理协议中的名称
const (
	DistributionMulticast = "multicast"
	DistributionClosest   = "closest"
	DistributionBalanced  = "balanced"
)

// String 返回处理方式的字符串表示
func (t Treatment) String() string {
	switch t {
	case TreatmentMulticastFlood:
		return "multicast-flood"
	case TreatmentMulticastOnce:
		return "multicast-once"
	case TreatmentAnycastClosest:
		return "anycast-closest"
	case TreatmentAnycastBalanced:
		return "anycast-balanced"
	default:
		return "unknown"
	}
}

// Distribution 返回管理协议中的 distribution 名称
//
// 两种多播都映射为 "multicast"；未知值返回 ok=false（序列化为 null）。
func (t Treatment) Distribution() (string, bool) {
	switch t {
	case TreatmentMulticastFlood, TreatmentMulticastOnce:
		return DistributionMulticast, true
	case TreatmentAnycastClosest:
		return DistributionClosest, true
	case TreatmentAnycastBalanced:
		return DistributionBalanced, true
	default:
		return "", false
	}
}

// ParseDistribution 将 distribution 名称解析为处理方式
//
// 缺失或无法识别的值一律回落到 TreatmentAnycastBalanced。
func ParseDistribution(s string) Treatment {
	switch s {
	case DistributionMulticast:
		return TreatmentMulticastOnce
	case DistributionClosest:
		return TreatmentAnycastClosest
	case DistributionBalanced:
		return TreatmentAnycastBalanced
	default:
		return TreatmentAnycastBalanced
	}
}

// ============================================================================
//                              Operation - 管理操作
// ============================================================================

// Operation 管理请求的操作类型
type Operation int

const (
	// OpUnknown 未知操作
	OpUnknown Operation = iota
	// OpCreate 创建实体
	OpCreate
	// OpRead 按名称或标识读取单个实体
	OpRead
	// OpUpdate 更新实体
	OpUpdate
	// OpDelete 删除实体
	OpDelete
	// OpQuery 分页枚举实体
	OpQuery
)

// String 返回操作名（与日志格式 "Error performing <OP> of <type>" 一致）
func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "CREATE"
	case OpRead:
		return "READ"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	case OpQuery:
		return "QUERY"
	default:
		return "UNKNOWN"
	}
}

// ParseOperation 解析操作名（大小写不敏感）
func ParseOperation(s string) Operation {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREATE":
		return OpCreate
	case "READ":
		return OpRead
	case "UPDATE":
		return OpUpdate
	case "DELETE":
		return OpDelete
	case "QUERY":
		return OpQuery
	default:
		return OpUnknown
	}
}

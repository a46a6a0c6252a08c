package types

// ============================================================================
//                              可管理实体类型
// ============================================================================

// 实体类型名称，用于响应中的 "type" 列以及日志
const (
	// EntityTypeConfigAddress 地址配置实体
	EntityTypeConfigAddress = "org.apache.qpid.dispatch.router.config.address"
)

// ============================================================================
//                              地址哈希命名空间标签
// ============================================================================

// 地址哈希表由多种实体共享，每种实体的键以 1 字节类型标签开头，互不冲突。
const (
	// HashTagConfigAddress 地址配置前缀
	HashTagConfigAddress byte = 'Z'

	// HashTagLocal 本地地址
	HashTagLocal byte = 'L'

	// HashTagMobile 移动地址
	HashTagMobile byte = 'M'

	// HashTagRouter 路由器地址
	HashTagRouter byte = 'R'
)

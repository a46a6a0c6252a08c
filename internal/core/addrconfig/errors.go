package addrconfig

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrPrefixConflict 前缀已存在于地址哈希命名空间
	ErrPrefixConflict = errors.New("address prefix conflicts with an existing entity")

	// ErrNilEntity 实体为 nil
	ErrNilEntity = errors.New("nil address config")
)

// 管理协议中返回的状态描述
const (
	descNameConflict   = "Name conflicts with an existing entity"
	descBodyNotMap     = "Body of request must be a map"
	descPrefixRequired = "prefix field is mandatory"
	descPrefixConflict = "Address prefix conflicts with an existing entity"
	descPhaseRange     = "Phase values must be between 0 and 9"
	descNoKey          = "No name or identity provided"
)

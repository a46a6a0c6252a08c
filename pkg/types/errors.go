package types

import "errors"

// ============================================================================
//                              管理协议错误
// ============================================================================

var (
	// ErrUnknownOperation 未知的管理操作
	ErrUnknownOperation = errors.New("unknown management operation")

	// ErrEmptyEntityType 缺少实体类型
	ErrEmptyEntityType = errors.New("empty entity type")

	// ErrInvalidPhase 相位超出 [0,9]
	ErrInvalidPhase = errors.New("phase values must be between 0 and 9")
)

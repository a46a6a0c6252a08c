package agent

import "errors"

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrClosed 管理代理已关闭
	ErrClosed = errors.New("management agent closed")

	// ErrNotStarted 管理代理未启动
	ErrNotStarted = errors.New("management agent not started")

	// ErrNilQuery 提交了 nil 查询
	ErrNilQuery = errors.New("nil query")

	// ErrUnknownEntityType 没有处理该实体类型的处理器
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrDuplicateHandler 同一实体类型注册了多个处理器
	ErrDuplicateHandler = errors.New("duplicate management handler")
)

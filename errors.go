package dispatch

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 路由器生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 路由器未启动
	ErrNotStarted = errors.New("router not started")

	// ErrAlreadyStarted 路由器已启动
	ErrAlreadyStarted = errors.New("router already started")

	// ErrRouterClosed 路由器已关闭
	ErrRouterClosed = errors.New("router closed")
)

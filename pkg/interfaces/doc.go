// Package interfaces 定义 go-dispatch 的协作接口
//
// 核心只通过这些接口与外部协作方交互：
//   - management.go     - 管理消息体的组合（Composer）与解析（Field）
//   - eventbus.go       - 注册表变更事件的发布与订阅
//
// 实现分别位于 pkg/lib/field 与 internal/core/eventbus。
package interfaces

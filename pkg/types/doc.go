// Package types 定义 go-dispatch 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - status.go     - 管理协议状态码
//   - enums.go      - Treatment（分发策略）、Operation（管理操作）
//   - entity.go     - 实体类型名称、地址哈希标签
//   - events.go     - 注册表变更事件
//   - errors.go     - 公共错误定义
package types

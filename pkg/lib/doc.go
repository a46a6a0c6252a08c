// Package lib 包含基础设施工具库
//
// 本目录包含与具体实体无关的通用工具库：
//
//   - log: 日志封装
//   - field: 管理消息体的组合与解析（structpb / protojson）
//
// # 与 pkg/ 其他目录的关系
//
// pkg/ 目录包含三类内容：
//
//   - interfaces/: 协作接口（消息体、事件总线）
//   - types/: 公共类型定义
//   - lib/: 基础设施工具库（本目录）
package lib

package interfaces

// ============================================================================
//                              Composer 消息体组合
// ============================================================================

// Composer 消息体组合器
//
// 以流式方式构建嵌套的 list/map 结构。map 中键值按顺序交替写入：
// 先 InsertString(key)，再写入值。
type Composer interface {
	// StartList 开始一个列表
	StartList()

	// EndList 结束当前列表
	EndList()

	// StartMap 开始一个映射
	StartMap()

	// EndMap 结束当前映射
	EndMap()

	// InsertString 写入字符串
	InsertString(s string)

	// InsertInt 写入整数
	InsertInt(v int64)

	// InsertBool 写入布尔值
	InsertBool(v bool)

	// InsertNull 写入空值
	InsertNull()
}

// ============================================================================
//                              Field 消息体解析
// ============================================================================

// Field 已解析的消息体字段
type Field interface {
	// IsMap 是否为映射
	IsMap() bool

	// ValueByKey 按键查找映射中的值，不存在返回 nil
	ValueByKey(key string) Field

	// IsNull 是否为空值
	IsNull() bool

	// Raw 返回字段的原始文本
	Raw() string

	// AsBool 强制转换为布尔值
	AsBool() bool

	// AsInt 强制转换为整数
	AsInt() int64
}

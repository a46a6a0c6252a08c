// Package field 提供管理消息体的组合与解析实现
//
// 消息体以 protobuf 的 structpb.Value 表示（null/bool/number/string/list/map），
// 线路编码使用 protojson。
//
// 使用示例:
//
//	c := field.NewComposer()
//	c.StartMap()
//	c.InsertString("prefix")
//	c.InsertString("a.b.")
//	c.EndMap()
//	body := c.Value()
package field

import (
	"google.golang.org/protobuf/types/known/structpb"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
)

// 编译时检查
var _ pkgif.Composer = (*Composer)(nil)

// ============================================================================
//                              Composer 实现
// ============================================================================

// Composer 基于 structpb 的消息体组合器
//
// 非并发安全：一个 Composer 同一时刻只属于一个查询。
type Composer struct {
	stack []*frame
	roots []*structpb.Value
}

// frame 未闭合的 list 或 map
type frame struct {
	list *structpb.ListValue
	st   *structpb.Struct

	// map 中等待值的键
	key    string
	hasKey bool
}

// NewComposer 创建组合器
func NewComposer() *Composer {
	return &Composer{}
}

// StartList 开始一个列表
func (c *Composer) StartList() {
	c.stack = append(c.stack, &frame{list: &structpb.ListValue{}})
}

// EndList 结束当前列表
func (c *Composer) EndList() {
	f := c.pop()
	if f == nil || f.list == nil {
		return
	}
	c.insert(structpb.NewListValue(f.list))
}

// StartMap 开始一个映射
func (c *Composer) StartMap() {
	c.stack = append(c.stack, &frame{st: &structpb.Struct{Fields: make(map[string]*structpb.Value)}})
}

// EndMap 结束当前映射
func (c *Composer) EndMap() {
	f := c.pop()
	if f == nil || f.st == nil {
		return
	}
	c.insert(structpb.NewStructValue(f.st))
}

// InsertString 写入字符串
func (c *Composer) InsertString(s string) {
	if top := c.top(); top != nil && top.st != nil && !top.hasKey {
		top.key, top.hasKey = s, true
		return
	}
	c.insert(structpb.NewStringValue(s))
}

// InsertInt 写入整数
func (c *Composer) InsertInt(v int64) {
	c.insert(structpb.NewNumberValue(float64(v)))
}

// InsertBool 写入布尔值
func (c *Composer) InsertBool(v bool) {
	c.insert(structpb.NewBoolValue(v))
}

// InsertNull 写入空值
func (c *Composer) InsertNull() {
	c.insert(structpb.NewNullValue())
}

// Value 返回组合完成的第一个顶层值；尚未写入任何内容时返回 null
func (c *Composer) Value() *structpb.Value {
	if len(c.roots) == 0 {
		return structpb.NewNullValue()
	}
	return c.roots[0]
}

// Len 返回顶层值的数量
func (c *Composer) Len() int {
	return len(c.roots)
}

// Depth 返回未闭合的 list/map 层数
func (c *Composer) Depth() int {
	return len(c.stack)
}

// ============================================================================
//                              内部方法
// ============================================================================

func (c *Composer) top() *frame {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

func (c *Composer) pop() *frame {
	f := c.top()
	if f != nil {
		c.stack = c.stack[:len(c.stack)-1]
	}
	return f
}

// insert 把值挂到当前容器；没有容器时作为顶层值
func (c *Composer) insert(v *structpb.Value) {
	top := c.top()
	switch {
	case top == nil:
		c.roots = append(c.roots, v)
	case top.list != nil:
		top.list.Values = append(top.list.Values, v)
	case top.hasKey:
		top.st.Fields[top.key] = v
		top.key, top.hasKey = "", false
	default:
		// map 中缺少键的值无处安放，丢弃
	}
}

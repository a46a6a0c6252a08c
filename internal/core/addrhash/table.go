// Package addrhash 实现路由核心的地址哈希命名空间
//
// 多种实体共享同一张哈希表：键由 1 字节类型标签加地址的哈希视图组成，
// 不同标签之间互不冲突。表只由核心协程访问，不加锁。
package addrhash

import (
	"errors"
	"strings"
)

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrKeyExists 键已存在
	ErrKeyExists = errors.New("address hash key already exists")

	// ErrEmptyKey 空键
	ErrEmptyKey = errors.New("empty address hash key")
)

// ============================================================================
//                              Handle
// ============================================================================

// Handle 表项句柄
//
// 实体持有自己的句柄，用于取回键以及 O(1) 删除。
type Handle struct {
	key     string
	value   any
	removed bool
}

// Key 返回完整的带标签键
func (h *Handle) Key() string {
	if h == nil {
		return ""
	}
	return h.key
}

// Value 返回表项的值
func (h *Handle) Value() any {
	if h == nil {
		return nil
	}
	return h.value
}

// Removed 句柄是否已从表中删除
func (h *Handle) Removed() bool {
	return h == nil || h.removed
}

// ============================================================================
//                              Table
// ============================================================================

// Table 地址哈希表
type Table struct {
	entries map[string]*Handle
}

// New 创建地址哈希表
func New() *Table {
	return &Table{entries: make(map[string]*Handle)}
}

// Insert 插入表项；键已存在时返回 ErrKeyExists，表保持不变
func (t *Table) Insert(key string, value any) (*Handle, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if _, ok := t.entries[key]; ok {
		return nil, ErrKeyExists
	}
	h := &Handle{key: key, value: value}
	t.entries[key] = h
	return h, nil
}

// Retrieve 按键查找
func (t *Table) Retrieve(key string) (any, bool) {
	h, ok := t.entries[key]
	if !ok {
		return nil, false
	}
	return h.value, true
}

// Contains 键是否存在
func (t *Table) Contains(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// RemoveByHandle 按句柄删除；句柄已失效时返回 false
func (t *Table) RemoveByHandle(h *Handle) bool {
	if h.Removed() {
		return false
	}
	if cur, ok := t.entries[h.key]; !ok || cur != h {
		return false
	}
	delete(t.entries, h.key)
	h.removed = true
	h.value = nil
	return true
}

// Len 返回表项数量
func (t *Table) Len() int {
	return len(t.entries)
}

// ============================================================================
//                              键构造
// ============================================================================

// Key 由类型标签和地址构造哈希键
//
// 地址先取哈希视图：去掉 "amqp:" 方案、"//host" 部分以及开头的 "/"，
// 再以标签字节替换视图前缀。
func Key(tag byte, address string) string {
	return string(tag) + HashView(address)
}

// HashView 返回地址的哈希视图
func HashView(address string) string {
	view := address
	if rest, ok := strings.CutPrefix(view, "amqp:"); ok {
		view = rest
		if host, ok := strings.CutPrefix(view, "//"); ok {
			if i := strings.IndexByte(host, '/'); i >= 0 {
				view = host[i:]
			} else {
				view = ""
			}
		}
	}
	return strings.TrimPrefix(view, "/")
}

// SplitKey 拆分哈希键为标签和地址视图
func SplitKey(key string) (byte, string, bool) {
	if key == "" {
		return 0, "", false
	}
	return key[0], key[1:], true
}

package addrconfig

import (
	"errors"
	"strconv"

	"github.com/dep2p/go-dispatch/internal/core/addrhash"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ============================================================================
//                              Registry 注册表
// ============================================================================

// Registry 地址配置注册表
//
// entries 保持插入顺序；哈希表与路由核心的其他实体共享，
// 本注册表只插入和删除自己带 'Z' 标签的键。
// 一个实体要么同时出现在两者中，要么都不出现。
type Registry struct {
	entries []*AddressConfig
	hash    *addrhash.Table
}

// NewRegistry 创建注册表；hash 为 nil 时使用独立的哈希表
func NewRegistry(hash *addrhash.Table) *Registry {
	if hash == nil {
		hash = addrhash.New()
	}
	return &Registry{hash: hash}
}

// PrefixKey 返回前缀对应的带标签哈希键
func PrefixKey(prefix string) string {
	return addrhash.Key(types.HashTagConfigAddress, prefix)
}

// Insert 把实体追加到序列尾部并插入哈希表
//
// 键已存在时返回 ErrPrefixConflict，注册表保持不变。
func (r *Registry) Insert(e *AddressConfig, prefix string) error {
	if e == nil {
		return ErrNilEntity
	}

	h, err := r.hash.Insert(PrefixKey(prefix), e)
	if err != nil {
		if errors.Is(err, addrhash.ErrKeyExists) {
			return ErrPrefixConflict
		}
		return err
	}

	e.handle = h
	r.entries = append(r.entries, e)
	return nil
}

// LookupByPrefixKey 按带标签的键查找
//
// 键存在但属于其他实体类型时同样视为未找到。
func (r *Registry) LookupByPrefixKey(key string) (*AddressConfig, bool) {
	v, ok := r.hash.Retrieve(key)
	if !ok {
		return nil, false
	}
	e, ok := v.(*AddressConfig)
	return e, ok
}

// LookupPrefix 按原始前缀查找，供转发路径使用
func (r *Registry) LookupPrefix(prefix string) (*AddressConfig, bool) {
	return r.LookupByPrefixKey(PrefixKey(prefix))
}

// PrefixTaken 前缀对应的键是否已被占用（任何实体类型）
func (r *Registry) PrefixTaken(prefix string) bool {
	return r.hash.Contains(PrefixKey(prefix))
}

// FindByIdentity 按标识的十进制文本查找
func (r *Registry) FindByIdentity(identity string) (*AddressConfig, bool) {
	for _, e := range r.entries {
		if strconv.FormatInt(e.identity, 10) == identity {
			return e, true
		}
	}
	return nil, false
}

// FindByName 按名称查找；未命名实体不参与匹配
func (r *Registry) FindByName(name string) (*AddressConfig, bool) {
	for _, e := range r.entries {
		if e.hasName && e.name == name {
			return e, true
		}
	}
	return nil, false
}

// Remove 从序列和哈希表中删除实体并释放其字段
//
// 这是实体唯一的销毁路径。实体不在注册表中时返回 false。
func (r *Registry) Remove(e *AddressConfig) bool {
	for i, cur := range r.entries {
		if cur != e {
			continue
		}
		r.hash.RemoveByHandle(e.handle)
		copy(r.entries[i:], r.entries[i+1:])
		r.entries[len(r.entries)-1] = nil
		r.entries = r.entries[:len(r.entries)-1]
		e.release()
		return true
	}
	return false
}

// RemoveByIdentity 按标识删除
func (r *Registry) RemoveByIdentity(identity string) (*AddressConfig, bool) {
	e, ok := r.FindByIdentity(identity)
	if !ok {
		return nil, false
	}
	return e, r.Remove(e)
}

// RemoveByName 按名称删除
func (r *Registry) RemoveByName(name string) (*AddressConfig, bool) {
	e, ok := r.FindByName(name)
	if !ok {
		return nil, false
	}
	return e, r.Remove(e)
}

// At 返回序列中第 offset 个实体
//
// offset 只是序数位置，不是稳定游标。
func (r *Registry) At(offset int) (*AddressConfig, bool) {
	if offset < 0 || offset >= len(r.entries) {
		return nil, false
	}
	return r.entries[offset], true
}

// Size 返回实体数量
func (r *Registry) Size() int {
	return len(r.entries)
}

// Entries 返回实体序列的快照
func (r *Registry) Entries() []*AddressConfig {
	out := make([]*AddressConfig, len(r.entries))
	copy(out, r.entries)
	return out
}

package addrconfig

import (
	"github.com/dep2p/go-dispatch/internal/core/identifier"
	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ============================================================================
//                              Outcome 处理结果
// ============================================================================

// Outcome 管道操作的结果
//
// 成功时 Entity 指向需要投影的实体（DELETE 成功时为 nil）；
// Removed 为 DELETE 成功时被删实体删除前的快照。
type Outcome struct {
	Status  types.Status
	Entity  *AddressConfig
	Removed *types.AddressConfigInfo
}

// OK 是否成功
func (o Outcome) OK() bool {
	return o.Status.IsSuccess()
}

func failure(desc string) Outcome {
	return Outcome{Status: types.BadRequest(desc)}
}

// ============================================================================
//                              Lifecycle 创建/删除管道
// ============================================================================

// Lifecycle 地址配置的创建/删除管道
type Lifecycle struct {
	reg *Registry
	ids *identifier.Allocator
}

// NewLifecycle 创建管道
func NewLifecycle(reg *Registry, ids *identifier.Allocator) *Lifecycle {
	return &Lifecycle{reg: reg, ids: ids}
}

// Create 校验请求并创建实体
//
// 所有校验在分配标识和修改注册表之前完成，失败不会留下部分状态。
func (l *Lifecycle) Create(name *string, body pkgif.Field) Outcome {
	if name != nil {
		if _, exists := l.reg.FindByName(*name); exists {
			return failure(descNameConflict)
		}
	}

	if body == nil || !body.IsMap() {
		return failure(descBodyNotMap)
	}

	prefixField := present(body.ValueByKey("prefix"))
	if prefixField == nil {
		return failure(descPrefixRequired)
	}
	prefix := prefixField.Raw()

	if l.reg.PrefixTaken(prefix) {
		return failure(descPrefixConflict)
	}

	treatment := types.TreatmentAnycastBalanced
	if f := present(body.ValueByKey("distribution")); f != nil {
		treatment = types.ParseDistribution(f.Raw())
	}

	waypoint := false
	if f := present(body.ValueByKey("waypoint")); f != nil {
		waypoint = f.AsBool()
	}

	in := phaseOf(body, "ingressPhase")
	out := phaseOf(body, "egressPhase")

	// 只有两个相位都未提供时才取缺省值；只提供一个时另一个保持 -1
	if in == phaseUnset && out == phaseUnset {
		in = 0
		if waypoint {
			out = 1
		} else {
			out = 0
		}
	}

	if !validPhase(in) || !validPhase(out) {
		return failure(descPhaseRange)
	}

	e := newAddressConfig(l.ids.Next(), name, treatment, in, out)
	if err := l.reg.Insert(e, prefix); err != nil {
		// 核心串行执行，前面的检查之后不会再冲突
		return failure(descPrefixConflict)
	}

	return Outcome{Status: types.StatusCreated, Entity: e}
}

// Delete 按标识（优先）或名称删除实体
func (l *Lifecycle) Delete(name, identity *string) Outcome {
	if name == nil && identity == nil {
		return failure(descNoKey)
	}

	var (
		e  *AddressConfig
		ok bool
	)
	if identity != nil {
		e, ok = l.reg.FindByIdentity(*identity)
	} else {
		e, ok = l.reg.FindByName(*name)
	}
	if !ok || e == nil {
		return Outcome{Status: types.StatusNotFound}
	}

	info := e.Info()
	if !l.reg.Remove(e) {
		return Outcome{Status: types.StatusNotFound}
	}
	return Outcome{Status: types.StatusNoContent, Removed: &info}
}

// present 把缺失和 null 统一为 nil
func present(f pkgif.Field) pkgif.Field {
	if f == nil || f.IsNull() {
		return nil
	}
	return f
}

func phaseOf(body pkgif.Field, key string) int {
	f := present(body.ValueByKey(key))
	if f == nil {
		return phaseUnset
	}
	return int(f.AsInt())
}

func validPhase(p int) bool {
	return p >= MinPhase && p <= MaxPhase
}

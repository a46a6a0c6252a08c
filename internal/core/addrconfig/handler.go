package addrconfig

import (
	"fmt"

	"github.com/dep2p/go-dispatch/internal/core/agent"
	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("core/addrconfig")

// ============================================================================
//                              Handler 管理处理器
// ============================================================================

// Handler 把管理代理的请求接到地址配置的管道上
type Handler struct {
	reg  *Registry
	life *Lifecycle
	exec *Executor

	// 变更通知（可选）
	addedEm   pkgif.Emitter
	removedEm pkgif.Emitter
}

var (
	_ agent.EntityHandler = (*Handler)(nil)
	_ agent.Sizer         = (*Handler)(nil)
)

// NewHandler 创建处理器
func NewHandler(reg *Registry, life *Lifecycle, exec *Executor) *Handler {
	return &Handler{reg: reg, life: life, exec: exec}
}

// AttachEvents 在创建和删除成功后向事件总线发布变更
func (h *Handler) AttachEvents(bus pkgif.EventBus) error {
	added, err := bus.Emitter(new(types.EvtAddressConfigAdded))
	if err != nil {
		return fmt.Errorf("address added emitter: %w", err)
	}
	removed, err := bus.Emitter(new(types.EvtAddressConfigRemoved))
	if err != nil {
		_ = added.Close()
		return fmt.Errorf("address removed emitter: %w", err)
	}
	h.addedEm, h.removedEm = added, removed
	return nil
}

// EntityType 实现 agent.EntityHandler
func (h *Handler) EntityType() string {
	return types.EntityTypeConfigAddress
}

// Columns 实现 agent.EntityHandler
func (h *Handler) Columns() []string {
	return Columns()
}

// Size 实现 agent.Sizer
func (h *Handler) Size() int {
	return h.reg.Size()
}

// Create 实现 agent.EntityHandler
func (h *Handler) Create(q *agent.Query) {
	out := h.life.Create(q.Name, q.InBody)
	q.Status = out.Status

	if !out.OK() {
		h.logFailure(q)
		if q.HasBody() {
			q.Body.InsertNull()
		}
		return
	}

	prefix, _ := out.Entity.Prefix()
	logger.Debug("地址配置已创建",
		"identity", out.Entity.Identity(),
		"prefix", prefix,
		"treatment", out.Entity.Treatment().String())

	if h.addedEm != nil {
		h.emit(h.addedEm, types.EvtAddressConfigAdded{AddressConfigInfo: out.Entity.Info()})
	}
	if q.HasBody() {
		WriteMap(out.Entity, q.Body)
	}
}

// Read 实现 agent.EntityHandler
func (h *Handler) Read(q *agent.Query) {
	out := h.exec.Get(q.Name, q.Identity)
	q.Status = out.Status

	if !out.OK() {
		h.logFailure(q)
		return
	}
	if q.HasBody() {
		WriteMap(out.Entity, q.Body)
	}
}

// Delete 实现 agent.EntityHandler
func (h *Handler) Delete(q *agent.Query) {
	out := h.life.Delete(q.Name, q.Identity)
	q.Status = out.Status

	if !out.OK() {
		h.logFailure(q)
		return
	}
	logger.Debug("地址配置已删除", "query", q.ID, "identity", out.Removed.Identity)
	if h.removedEm != nil {
		h.emit(h.removedEm, types.EvtAddressConfigRemoved{AddressConfigInfo: *out.Removed})
	}
}

// GetFirst 实现 agent.EntityHandler
func (h *Handler) GetFirst(q *agent.Query, offset int) {
	h.writePage(q, h.exec.First(offset))
}

// GetNext 实现 agent.EntityHandler
func (h *Handler) GetNext(q *agent.Query) {
	h.writePage(q, h.exec.Next(q.NextOffset))
}

func (h *Handler) writePage(q *agent.Query, page Page) {
	q.Status = types.StatusOK

	if page.Entity == nil {
		q.More = false
		return
	}

	if q.HasBody() {
		WriteRow(page.Entity, q.Columns, q.Body)
	}
	q.Rows++
	q.NextOffset = page.NextOffset
	q.More = page.More
}

func (h *Handler) emit(em pkgif.Emitter, evt any) {
	if err := em.Emit(evt); err != nil {
		logger.Debug("变更通知发布失败", "error", err)
	}
}

// logFailure 记录失败；NotFound 是查找的正常结果，只记 debug
func (h *Handler) logFailure(q *agent.Query) {
	msg := agent.FailureMessage(q.Operation, types.EntityTypeConfigAddress, q.Status.Description)
	if q.Status.Code == types.StatusNotFound.Code {
		logger.Debug(msg, "query", q.ID)
		return
	}
	logger.Error(msg, "query", q.ID, "status", q.Status.Code)
}

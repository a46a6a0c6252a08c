// Package agent 实现路由核心的管理代理
//
// 管理代理是注册表的唯一串行化点：连接侧把请求（Query）提交到入站队列，
// 单个核心协程逐个取出并同步执行到底，再把完成的 Query 交给出站响应队列。
// 注册表与各实体管道因此无需加锁。
//
// 分页枚举的每次 get-first / get-next 都是独立的一轮核心处理；
// 是否继续 get-next 由响应队列的消费方根据 Query.NeedsNext 决定。
package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-dispatch/internal/core/metrics"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("core/agent")

// ============================================================================
//                              EntityHandler 接口
// ============================================================================

// EntityHandler 某一实体类型的管理处理器
//
// 所有方法都在核心协程中调用，只需设置 q.Status 并写入 q.Body，
// 入队响应由代理统一完成。
type EntityHandler interface {
	// EntityType 处理的实体类型名称
	EntityType() string

	// Columns 全部列名（按列序号排列）
	Columns() []string

	// Create 创建实体
	Create(q *Query)

	// Read 按名称或标识读取实体
	Read(q *Query)

	// Delete 删除实体
	Delete(q *Query)

	// GetFirst 从 offset 开始枚举
	GetFirst(q *Query, offset int)

	// GetNext 从 q.NextOffset 继续枚举
	GetNext(q *Query)
}

// Sizer 可选接口：报告实体数量，用于指标
type Sizer interface {
	Size() int
}

// FailureMessage 返回管理请求失败的日志文本
func FailureMessage(op types.Operation, entityType, desc string) string {
	return fmt.Sprintf("Error performing %s of %s: %s", op, entityType, desc)
}

// ============================================================================
//                              Agent 实现
// ============================================================================

type actionKind int

const (
	actionRequest actionKind = iota
	actionGetNext
)

// action 入站队列中的工作项
type action struct {
	kind actionKind
	q    *Query
	at   time.Time
}

// Agent 管理代理
type Agent struct {
	cfg       Config
	handlers  map[string]EntityHandler
	responses *ResponseQueue
	metrics   *metrics.Metrics
	clock     clock.Clock

	inbound chan action
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
}

// New 创建管理代理
//
// m 与 clk 可以为 nil。
func New(cfg Config, handlers []EntityHandler, m *metrics.Metrics, clk clock.Clock) (*Agent, error) {
	if cfg.InboundQueueSize <= 0 {
		cfg.InboundQueueSize = DefaultConfig().InboundQueueSize
	}
	if clk == nil {
		clk = clock.New()
	}

	byType := make(map[string]EntityHandler, len(handlers))
	for _, h := range handlers {
		if h == nil {
			continue
		}
		if _, dup := byType[h.EntityType()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHandler, h.EntityType())
		}
		byType[h.EntityType()] = h
	}

	return &Agent{
		cfg:       cfg,
		handlers:  byType,
		responses: NewResponseQueue(),
		metrics:   m,
		clock:     clk,
		inbound:   make(chan action, cfg.InboundQueueSize),
		done:      make(chan struct{}),
	}, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动核心协程
func (a *Agent) Start(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if a.started {
		return nil
	}
	a.started = true

	a.wg.Add(1)
	go a.run()

	logger.Info("管理代理已启动", "entityTypes", a.EntityTypes())
	return nil
}

// Stop 停止核心协程
//
// 已进入入站队列的请求会先处理完，随后关闭响应队列。
func (a *Agent) Stop(_ context.Context) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	started := a.started
	a.mu.Unlock()

	if started {
		close(a.done)
		a.wg.Wait()
	}
	a.responses.Close()

	logger.Info("管理代理已停止")
	return nil
}

// ============================================================================
//                              提交
// ============================================================================

// Submit 提交新请求
//
// 入站队列满时阻塞，直到核心取走请求或 ctx 结束。一旦提交成功，
// 请求必定被处理并产生一个响应（内部 CREATE 除外）。
func (a *Agent) Submit(ctx context.Context, q *Query) error {
	if q == nil {
		return ErrNilQuery
	}
	now := a.clock.Now()
	if q.ReceivedAt.IsZero() {
		q.ReceivedAt = now
	}
	if q.Operation == types.OpQuery && q.Count <= 0 {
		q.Count = a.cfg.DefaultQueryCount
	}
	return a.submit(ctx, action{kind: actionRequest, q: q, at: now})
}

// SubmitNext 为分页查询提交下一轮 get-next
func (a *Agent) SubmitNext(ctx context.Context, q *Query) error {
	if q == nil {
		return ErrNilQuery
	}
	return a.submit(ctx, action{kind: actionGetNext, q: q, at: a.clock.Now()})
}

func (a *Agent) submit(ctx context.Context, act action) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return ErrClosed
	}
	if !a.started {
		return ErrNotStarted
	}

	select {
	case a.inbound <- act:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handler 返回实体类型对应的处理器
func (a *Agent) Handler(entityType string) (EntityHandler, error) {
	h, ok := a.handlers[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityType, entityType)
	}
	return h, nil
}

// Responses 返回出站响应队列
func (a *Agent) Responses() *ResponseQueue {
	return a.responses
}

// EntityTypes 返回已注册的实体类型（有序）
func (a *Agent) EntityTypes() []string {
	names := make([]string, 0, len(a.handlers))
	for t := range a.handlers {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// ============================================================================
//                              核心协程
// ============================================================================

func (a *Agent) run() {
	defer a.wg.Done()

	for {
		select {
		case act := <-a.inbound:
			a.process(act)
		case <-a.done:
			for {
				select {
				case act := <-a.inbound:
					a.process(act)
				default:
					return
				}
			}
		}
	}
}

// process 执行一轮核心处理
func (a *Agent) process(act action) {
	q := act.q

	h, err := a.Handler(q.EntityType)
	if err != nil {
		q.Status = types.StatusNotImplemented.WithDescription("Unknown entity type: " + q.EntityType)
		logFailure(q)
		if q.HasBody() && q.Operation != types.OpQuery {
			q.Body.InsertNull()
		}
		a.complete(act, nil)
		return
	}

	switch q.Operation {
	case types.OpCreate:
		h.Create(q)
	case types.OpRead:
		h.Read(q)
	case types.OpDelete:
		h.Delete(q)
	case types.OpQuery:
		if act.kind == actionGetNext {
			h.GetNext(q)
		} else {
			resolveColumns(h, q)
			h.GetFirst(q, q.Offset)
		}
	case types.OpUpdate:
		q.Status = types.StatusNotImplemented.WithDescription("UPDATE is not supported for " + q.EntityType)
		logFailure(q)
		if q.HasBody() {
			q.Body.InsertNull()
		}
	default:
		q.Status = types.BadRequest("Unknown operation")
		logFailure(q)
		if q.HasBody() {
			q.Body.InsertNull()
		}
	}

	a.complete(act, h)
}

// complete 记录指标并把查询交给响应队列
//
// 没有响应体的 CREATE 由配置文件在内部生成，直接释放。
func (a *Agent) complete(act action, h EntityHandler) {
	q := act.q

	a.metrics.ObserveRequest(q.EntityType, q.Operation.String(), q.Status.Code, a.clock.Since(act.at))
	if s, ok := h.(Sizer); ok {
		a.metrics.SetEntities(q.EntityType, s.Size())
	}

	if q.Operation == types.OpCreate && !q.HasBody() {
		logger.Debug("内部请求处理完成", "type", q.EntityType, "status", q.Status.Code)
		return
	}

	if !a.responses.Push(q) {
		logger.Warn("响应队列已关闭，丢弃响应", "query", q.ID)
	}
}

func logFailure(q *Query) {
	logger.Error(FailureMessage(q.Operation, q.EntityType, q.Status.Description),
		"query", q.ID,
		"status", q.Status.Code)
}

// resolveColumns 把请求的列名映射为列序号
//
// 未指定列名时返回全部列；未知列名被忽略。
func resolveColumns(h EntityHandler, q *Query) {
	all := h.Columns()

	if len(q.AttributeNames) == 0 {
		q.Columns = make([]int, len(all))
		for i := range all {
			q.Columns[i] = i
		}
		q.AttributeNames = append([]string(nil), all...)
		return
	}

	cols := make([]int, 0, len(q.AttributeNames))
	names := make([]string, 0, len(q.AttributeNames))
	for _, name := range q.AttributeNames {
		for i, col := range all {
			if col == name {
				cols = append(cols, i)
				names = append(names, name)
				break
			}
		}
	}
	q.Columns, q.AttributeNames = cols, names
}

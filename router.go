package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/internal/core/agent"
	"github.com/dep2p/go-dispatch/internal/core/eventbus"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/lib/field"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
	"github.com/dep2p/go-dispatch/pkg/types"
)

var logger = log.Logger("dispatch")

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second
)

// ════════════════════════════════════════════════════════════════════════════
//                              Router
// ════════════════════════════════════════════════════════════════════════════

// Router 路由器管理门面
//
// Manage 可由任意协程并发调用；请求经管理代理串行执行。
type Router struct {
	opts *options
	app  *fx.App

	// 由 Fx 注入
	agent   *agent.Agent
	bus     *eventbus.Bus
	metrics *metrics.Metrics

	mu      sync.RWMutex
	started bool
	closed  bool

	waitMu  sync.Mutex
	waiters map[string]chan *agent.Query

	dispatchDone chan struct{}
}

// New 创建路由器（不启动）
func New(opts ...Option) (*Router, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}

	r := &Router{
		opts:         o,
		waiters:      make(map[string]chan *agent.Query),
		dispatchDone: make(chan struct{}),
	}

	app, err := buildFxApp(o, r)
	if err != nil {
		return nil, err
	}
	r.app = app
	return r, nil
}

// Start 创建并启动路由器
func Start(ctx context.Context, opts ...Option) (*Router, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 启动管理核心并应用静态地址配置
//
// 静态地址以内部 CREATE（无响应体）提交，失败只记录日志。
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRouterClosed
	}
	if r.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := r.app.Start(startCtx); err != nil {
		logger.Error("路由器启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}
	r.started = true

	go r.dispatch()

	if err := r.applyStaticAddresses(ctx); err != nil {
		logger.Warn("静态地址配置提交失败", "error", err)
		return err
	}

	logger.Info("路由器已启动",
		"staticAddresses", len(r.opts.config.Addresses),
		"entityTypes", r.agent.EntityTypes())
	return nil
}

// Stop 停止路由器
//
// 已提交的请求会先处理完并送达。
func (r *Router) Stop(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	started := r.started
	r.mu.Unlock()

	if !started {
		return nil
	}

	var errs error
	if err := r.app.Stop(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("stop fx app: %w", err))
	}

	select {
	case <-r.dispatchDone:
	case <-ctx.Done():
		errs = multierr.Append(errs, fmt.Errorf("wait dispatcher: %w", ctx.Err()))
	}

	r.failWaiters()

	logger.Info("路由器已停止")
	return errs
}

// applyStaticAddresses 把配置中的静态地址提交为内部 CREATE
func (r *Router) applyStaticAddresses(ctx context.Context) error {
	var errs error
	for i, entry := range r.opts.config.Addresses {
		body, err := field.FromMap(entry.Attributes())
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("addresses[%d]: %w", i, err))
			continue
		}

		q := agent.NewQuery(types.OpCreate, types.EntityTypeConfigAddress, nil)
		if entry.Name != "" {
			name := entry.Name
			q.Name = &name
		}
		q.InBody = body

		if err := r.agent.Submit(ctx, q); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("addresses[%d]: %w", i, err))
		}
	}
	return errs
}

// ════════════════════════════════════════════════════════════════════════════
//                              管理请求
// ════════════════════════════════════════════════════════════════════════════

// Manage 提交管理请求并等待其唯一的响应
//
// ctx 只约束调用方的等待；已提交的请求总会被核心执行完。
// 管理层面的失败（BadRequest、NotFound 等）体现在 Response.Status 中，
// 返回的 error 只表示请求未能提交或等待被取消。
func (r *Router) Manage(ctx context.Context, req Request) (*Response, error) {
	if req.EntityType == "" {
		return nil, types.ErrEmptyEntityType
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	started, closed := r.started, r.closed
	r.mu.RUnlock()
	if closed {
		return nil, ErrRouterClosed
	}
	if !started {
		return nil, ErrNotStarted
	}

	body := field.NewComposer()
	if req.Operation == types.OpQuery {
		body.StartList()
	}

	q := agent.NewQuery(req.Operation, req.EntityType, body)
	q.Name = req.Name
	q.Identity = req.Identity
	q.InBody = field.Parse(req.Body)
	q.AttributeNames = append([]string(nil), req.AttributeNames...)
	q.Offset = req.Offset
	q.Count = req.Count

	ch := r.addWaiter(q.ID)
	if err := r.agent.Submit(ctx, q); err != nil {
		r.removeWaiter(q.ID)
		if errors.Is(err, agent.ErrClosed) {
			return nil, ErrRouterClosed
		}
		return nil, err
	}

	select {
	case done, ok := <-ch:
		if !ok || done == nil {
			return nil, ErrRouterClosed
		}
		return buildResponse(done, body), nil
	case <-ctx.Done():
		r.removeWaiter(q.ID)
		return nil, ctx.Err()
	}
}

// buildResponse 由完成的查询生成响应
func buildResponse(q *agent.Query, body *field.Composer) *Response {
	resp := &Response{
		ID:     q.ID,
		Status: q.Status,
	}
	if q.Operation == types.OpQuery {
		body.EndList()
		resp.AttributeNames = q.AttributeNames
		resp.More = q.More
	}
	resp.Body = body.Value()
	return resp
}

// ════════════════════════════════════════════════════════════════════════════
//                              响应分发
// ════════════════════════════════════════════════════════════════════════════

// dispatch 消费响应队列
//
// 分页查询未取满时重新提交 get-next；否则交给等待的调用方。
func (r *Router) dispatch() {
	defer close(r.dispatchDone)

	responses := r.agent.Responses()
	for {
		q, err := responses.Pop(context.Background())
		if err != nil {
			return
		}

		if q.NeedsNext() {
			err := r.agent.SubmitNext(context.Background(), q)
			if err == nil {
				continue
			}
			logger.Debug("get-next 提交失败，返回已取得的行", "query", q.ID, "error", err)
		}
		r.deliver(q)
	}
}

func (r *Router) deliver(q *agent.Query) {
	r.waitMu.Lock()
	ch, ok := r.waiters[q.ID]
	delete(r.waiters, q.ID)
	r.waitMu.Unlock()

	if !ok {
		logger.Debug("响应无人等待，丢弃", "query", q.ID, "status", q.Status.Code)
		return
	}
	ch <- q
}

func (r *Router) addWaiter(id string) chan *agent.Query {
	ch := make(chan *agent.Query, 1)
	r.waitMu.Lock()
	r.waiters[id] = ch
	r.waitMu.Unlock()
	return ch
}

func (r *Router) removeWaiter(id string) {
	r.waitMu.Lock()
	delete(r.waiters, id)
	r.waitMu.Unlock()
}

// failWaiters 唤醒所有仍在等待的调用方
func (r *Router) failWaiters() {
	r.waitMu.Lock()
	defer r.waitMu.Unlock()

	for id, ch := range r.waiters {
		close(ch)
		delete(r.waiters, id)
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              访问器
// ════════════════════════════════════════════════════════════════════════════

// Config 返回生效的配置
func (r *Router) Config() *config.Config {
	return r.opts.config
}

// EntityTypes 返回可管理的实体类型
func (r *Router) EntityTypes() []string {
	return r.agent.EntityTypes()
}

// Subscribe 订阅注册表变更事件
//
// eventType 为 new(types.EvtAddressConfigAdded) 或
// new(types.EvtAddressConfigRemoved)。路由器停止时通道关闭。
func (r *Router) Subscribe(eventType any, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	return r.bus.Subscribe(eventType, opts...)
}

// MetricsHandler 返回 Prometheus 导出处理器；指标关闭时返回 nil
func (r *Router) MetricsHandler() http.Handler {
	g := r.metrics.Gatherer()
	if g == nil {
		return nil
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

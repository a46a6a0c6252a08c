package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// DefaultBuffer 订阅缺省缓冲区大小
const DefaultBuffer = 16

// ============================================================================
//                              错误定义
// ============================================================================

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus closed")
	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("invalid event type")
	// ErrNonPointerType 非指针类型
	ErrNonPointerType = errors.New("event type must be a pointer")
	// ErrEmitterClosed 发射器已关闭
	ErrEmitterClosed = errors.New("emitter closed")
)

// ============================================================================
//                              Bus 实现
// ============================================================================

// Bus 事件总线
type Bus struct {
	mu     sync.RWMutex
	nodes  map[reflect.Type]*node
	closed bool
}

var _ pkgif.EventBus = (*Bus)(nil)

// node 单一事件类型的订阅者集合
type node struct {
	lk        sync.Mutex
	typ       reflect.Type
	sinks     []*Subscription
	dropCount atomic.Int64
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{nodes: make(map[reflect.Type]*node)}
}

// Subscribe 订阅事件
//
// eventType 为事件类型的指针（如 new(types.EvtAddressConfigAdded)），
// 通道中收到的是事件值。
func (b *Bus) Subscribe(eventType any, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	typ, err := elemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := pkgif.SubscriptionSettings{Buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Buffer < 0 {
		settings.Buffer = 0
	}

	sub := &Subscription{
		bus: b,
		typ: typ,
		out: make(chan any, settings.Buffer),
	}

	n, err := b.node(typ)
	if err != nil {
		return nil, err
	}
	n.lk.Lock()
	n.sinks = append(n.sinks, sub)
	n.lk.Unlock()

	return sub, nil
}

// Emitter 获取发射器
func (b *Bus) Emitter(eventType any) (pkgif.Emitter, error) {
	typ, err := elemType(eventType)
	if err != nil {
		return nil, err
	}
	n, err := b.node(typ)
	if err != nil {
		return nil, err
	}
	return &Emitter{node: n}, nil
}

// EventTypes 返回已登记的事件类型（零值实例）
func (b *Bus) EventTypes() []any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]any, 0, len(b.nodes))
	for typ := range b.nodes {
		out = append(out, reflect.Zero(typ).Interface())
	}
	return out
}

// Close 关闭总线并关闭所有订阅通道
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	nodes := b.nodes
	b.nodes = make(map[reflect.Type]*node)
	b.mu.Unlock()

	for _, n := range nodes {
		n.lk.Lock()
		sinks := n.sinks
		n.sinks = nil
		n.lk.Unlock()

		for _, sub := range sinks {
			sub.closeOut()
		}
	}
	return nil
}

// ============================================================================
//                              内部方法
// ============================================================================

func elemType(eventType any) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}
	typ := reflect.TypeOf(eventType)
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}
	return typ.Elem(), nil
}

// node 返回事件类型的节点，不存在则创建
func (b *Bus) node(typ reflect.Type) (*node, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	n, ok := b.nodes[typ]
	if !ok {
		n = &node{typ: typ}
		b.nodes[typ] = n
	}
	return n, nil
}

// removeSub 从节点摘除订阅
func (b *Bus) removeSub(sub *Subscription) {
	b.mu.RLock()
	n, ok := b.nodes[sub.typ]
	b.mu.RUnlock()
	if !ok {
		return
	}

	n.lk.Lock()
	defer n.lk.Unlock()
	for i, s := range n.sinks {
		if s == sub {
			n.sinks = append(n.sinks[:i], n.sinks[i+1:]...)
			return
		}
	}
}

// emit 非阻塞地投递给所有订阅者
func (n *node) emit(event any) {
	n.lk.Lock()
	defer n.lk.Unlock()

	for _, sub := range n.sinks {
		select {
		case sub.out <- event:
		default:
			dropped := n.dropCount.Add(1)
			// 每 100 次告警一次
			if dropped%100 == 1 {
				logger.Warn("慢消费者检测",
					"dropped", dropped,
					"type", n.typ.String(),
					"reason", "subscriber buffer full")
			}
		}
	}
}

// Dropped 返回事件类型累计丢弃的事件数
func (b *Bus) Dropped(eventType any) int64 {
	typ, err := elemType(eventType)
	if err != nil {
		return 0
	}
	b.mu.RLock()
	n, ok := b.nodes[typ]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	return n.dropCount.Load()
}

package eventbus

import (
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
)

// ============================================================================
//                              Subscription 实现
// ============================================================================

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	out       chan any
	closeOnce sync.Once
}

var _ pkgif.Subscription = (*Subscription)(nil)

// Out 返回事件通道；订阅或总线关闭后通道关闭
func (s *Subscription) Out() <-chan any {
	return s.out
}

// Close 取消订阅，可重复调用
func (s *Subscription) Close() error {
	s.bus.removeSub(s)
	s.closeOut()
	return nil
}

// closeOut 关闭通道；调用前订阅必须已从节点摘除
func (s *Subscription) closeOut() {
	s.closeOnce.Do(func() {
		close(s.out)
	})
}

// ============================================================================
//                              Emitter 实现
// ============================================================================

// Emitter 事件发射器
type Emitter struct {
	node   *node
	closed atomic.Bool
}

var _ pkgif.Emitter = (*Emitter)(nil)

// Emit 发射事件，不阻塞
func (e *Emitter) Emit(event any) error {
	if e.closed.Load() {
		return ErrEmitterClosed
	}
	e.node.emit(event)
	return nil
}

// Close 关闭发射器
func (e *Emitter) Close() error {
	e.closed.Store(true)
	return nil
}

// BufSize 设置订阅缓冲区大小，与 pkg/interfaces.BufSize 等效
func BufSize(size int) pkgif.SubscriptionOpt {
	return pkgif.BufSize(size)
}

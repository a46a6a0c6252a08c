package agent

import (
	"context"
	"sync"
)

// ============================================================================
//                              ResponseQueue 响应队列
// ============================================================================

// ResponseQueue 出站响应队列
//
// 核心与连接侧之间唯一的跨协程边界：生产者为核心协程，消费者为连接侧。
// 队列无界，核心入队永不阻塞。
type ResponseQueue struct {
	mu     sync.Mutex
	items  []*Query
	closed bool

	notify chan struct{}
}

// NewResponseQueue 创建响应队列
func NewResponseQueue() *ResponseQueue {
	return &ResponseQueue{
		notify: make(chan struct{}, 1),
	}
}

// Push 入队；队列已关闭时返回 false
func (r *ResponseQueue) Push(q *Query) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.items = append(r.items, q)
	select {
	case r.notify <- struct{}{}:
	default:
	}
	r.mu.Unlock()
	return true
}

// Pop 出队，队列为空时阻塞
//
// 队列关闭后仍会先返回剩余响应，取空后返回 ErrClosed。
func (r *ResponseQueue) Pop(ctx context.Context) (*Query, error) {
	for {
		r.mu.Lock()
		if len(r.items) > 0 {
			q := r.items[0]
			r.items[0] = nil
			r.items = r.items[1:]
			r.mu.Unlock()
			return q, nil
		}
		closed := r.closed
		r.mu.Unlock()

		if closed {
			return nil, ErrClosed
		}

		select {
		case <-r.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Len 返回排队中的响应数
func (r *ResponseQueue) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Close 关闭队列并唤醒等待的消费者
func (r *ResponseQueue) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.notify)
	r.mu.Unlock()
}

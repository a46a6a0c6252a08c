package interfaces

// EventBus 事件总线
//
// 事件按类型分发；发射方不会被慢订阅者阻塞。
type EventBus interface {
	// Subscribe 订阅指定类型的事件，eventType 为事件类型的指针
	Subscribe(eventType any, opts ...SubscriptionOpt) (Subscription, error)

	// Emitter 获取指定事件类型的发射器
	Emitter(eventType any) (Emitter, error)
}

// Subscription 事件订阅
type Subscription interface {
	// Out 返回接收事件的通道
	Out() <-chan any

	// Close 取消订阅
	Close() error
}

// Emitter 事件发射器
type Emitter interface {
	// Emit 发射事件
	Emit(event any) error

	// Close 关闭发射器
	Close() error
}

// SubscriptionOpt 订阅选项函数类型
type SubscriptionOpt func(*SubscriptionSettings)

// SubscriptionSettings 订阅设置
type SubscriptionSettings struct {
	Buffer int
}

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Buffer = size
	}
}

// Package eventbus 实现进程内的注册表变更通知
//
// 地址配置等实体在核心协程中创建或删除后，以事件的形式发布给
// 数据面等观察者。发射永不阻塞核心协程：订阅者缓冲区满时事件被丢弃
// 并计数告警。
//
// # 快速开始
//
//	sub, _ := bus.Subscribe(new(types.EvtAddressConfigAdded), eventbus.BufSize(64))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        added := evt.(types.EvtAddressConfigAdded)
//	        // 更新转发表
//	    }
//	}()
//
// # 并发安全
//
//   - 订阅/取消订阅与发射通过节点锁串行化
//   - 通道只在从节点摘除后关闭，发射方不会写入已关闭的通道
//   - 总线关闭后 Emit 静默丢弃，Subscribe 返回 ErrClosed
package eventbus

// Package dispatch 提供消息路由器的地址配置注册表与管理接口
//
// 路由核心维护管理员配置的地址前缀（地址配置实体）及其分发策略和相位，
// 外部管理客户端通过请求/响应协议对其进行枚举、读取、创建和删除。
//
// # 快速开始
//
//	import "github.com/dep2p/go-dispatch"
//
//	cfg := config.NewConfig()
//	router, err := dispatch.New(dispatch.WithConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := router.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer router.Stop(context.Background())
//
//	resp, err := router.Manage(ctx, dispatch.Request{
//	    Operation:  types.OpCreate,
//	    EntityType: types.EntityTypeConfigAddress,
//	    Body:       body, // {"prefix": "queue.", "distribution": "closest"}
//	})
//
// # 结构
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│  Router.Manage                         连接侧（任意协程）        │
//	├─────────────────────────────────────────────────────────────────┤
//	│  agent: 入站队列 → 核心协程 → 响应队列   唯一的串行化点          │
//	├─────────────────────────────────────────────────────────────────┤
//	│  addrconfig: Lifecycle / Executor / Projector / Registry         │
//	├─────────────────────────────────────────────────────────────────┤
//	│  addrhash（共享哈希命名空间）  identifier（全局标识分配）        │
//	├─────────────────────────────────────────────────────────────────┤
//	│  eventbus: 创建/删除成功后发布变更事件   Router.Subscribe         │
//	└─────────────────────────────────────────────────────────────────┘
//
// 分页 QUERY 的每次 get-first / get-next 都是独立的一轮核心处理，
// Router 在收到响应后按 count 决定是否继续提交 get-next。
// 两轮之间的插入和删除可能导致实体被跳过或重复返回。
//
// # 变更通知
//
// 数据面通过订阅 types.EvtAddressConfigAdded / types.EvtAddressConfigRemoved
// 跟踪注册表，而不是直接读取核心协程独占的注册表：
//
//	sub, _ := router.Subscribe(new(types.EvtAddressConfigAdded))
//	for evt := range sub.Out() {
//	    added := evt.(types.EvtAddressConfigAdded)
//	    // ...
//	}
package dispatch

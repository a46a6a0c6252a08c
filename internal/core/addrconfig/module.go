package addrconfig

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-dispatch/internal/core/agent"
	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
)

// Module 返回 fx 模块配置
//
// 依赖 addrhash.Module 提供的共享哈希表和 identifier.Module 提供的标识分配器；
// 处理器以值组的形式注册到管理代理。存在事件总线时发布变更通知。
func Module() fx.Option {
	return fx.Module("addrconfig",
		fx.Provide(
			NewRegistry,
			NewLifecycle,
			NewExecutor,
			fx.Annotate(
				provideHandler,
				fx.As(new(agent.EntityHandler)),
				fx.ResultTags(agent.HandlerGroup),
			),
		),
	)
}

// handlerInput 处理器依赖
type handlerInput struct {
	fx.In

	Registry  *Registry
	Lifecycle *Lifecycle
	Executor  *Executor

	EventBus pkgif.EventBus `optional:"true"`
}

func provideHandler(in handlerInput) (*Handler, error) {
	h := NewHandler(in.Registry, in.Lifecycle, in.Executor)
	if in.EventBus != nil {
		if err := h.AttachEvents(in.EventBus); err != nil {
			return nil, err
		}
	}
	return h, nil
}

package identifier

import "go.uber.org/fx"

// Module 返回 fx 模块配置
//
// 提供进程级唯一的 *Allocator，供各实体管道注入使用。
func Module() fx.Option {
	return fx.Module("identifier",
		fx.Provide(NewAllocator),
	)
}

package addrhash

import "go.uber.org/fx"

// Module 返回 fx 模块配置
//
// 整个路由核心只有一张地址哈希表。
func Module() fx.Option {
	return fx.Module("addrhash",
		fx.Provide(New),
	)
}

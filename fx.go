package dispatch

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/internal/core/addrconfig"
	"github.com/dep2p/go-dispatch/internal/core/addrhash"
	"github.com/dep2p/go-dispatch/internal/core/agent"
	"github.com/dep2p/go-dispatch/internal/core/eventbus"
	"github.com/dep2p/go-dispatch/internal/core/identifier"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
)

var fxLogger = log.Logger("dispatch/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 共享组件: identifier → addrhash → metrics → eventbus
//  2. 实体管道: addrconfig（以值组注册处理器）
//  3. 管理代理: agent（收集所有处理器，启动核心协程）
func buildFxApp(o *options, r *Router) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := config.ValidateAll(o.config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(o.config),
	}

	if o.registerer != nil {
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return o.registerer }))
	}
	if o.clock != nil {
		modules = append(modules, fx.Provide(func() clock.Clock { return o.clock }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 共享组件（必须加载）
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		identifier.Module(), // 全局标识分配
		addrhash.Module(),   // 地址哈希命名空间
		metrics.Module(),    // 管理流量指标（关闭时提供 nil）
		eventbus.Module(),   // 注册表变更通知
	)

	// ════════════════════════════════════════════════════════════════════════
	// 3. 实体管道与管理代理
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		addrconfig.Module(),
		agent.Module(),
	)

	// ════════════════════════════════════════════════════════════════════════
	// 4. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
		fxLogger.Debug("已加载用户 Fx 选项", "count", len(o.userFxOptions))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 5. Router 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Invoke(injectRouterComponents(r)))

	// ════════════════════════════════════════════════════════════════════════
	// 6. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return app, nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              组件注入
// ════════════════════════════════════════════════════════════════════════════

// routerInjectParams Router 组件注入参数
type routerInjectParams struct {
	fx.In

	Agent    *agent.Agent
	EventBus *eventbus.Bus

	Metrics *metrics.Metrics `optional:"true"`
}

// injectRouterComponents 创建 Router 组件注入函数
func injectRouterComponents(r *Router) interface{} {
	return func(params routerInjectParams) {
		r.agent = params.Agent
		r.bus = params.EventBus
		r.metrics = params.Metrics
	}
}

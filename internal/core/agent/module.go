package agent

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/internal/core/metrics"
)

// HandlerGroup 实体处理器的 fx 值组名称
const HandlerGroup = `group:"management_handlers"`

// ============================================================================
//                              配置
// ============================================================================

// Config 管理代理配置
type Config struct {
	// InboundQueueSize 入站队列容量
	InboundQueueSize int

	// DefaultQueryCount QUERY 未指定 count 时的最大行数，0 表示不限
	DefaultQueryCount int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	d := config.DefaultAgentConfig()
	return Config{
		InboundQueueSize:  d.InboundQueueSize,
		DefaultQueryCount: d.DefaultQueryCount,
	}
}

// ConfigFromUnified 从统一配置创建代理配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		InboundQueueSize:  cfg.Agent.InboundQueueSize,
		DefaultQueryCount: cfg.Agent.DefaultQueryCount,
	}
}

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// UnifiedCfg 统一配置（可选）
	UnifiedCfg *config.Config `optional:"true"`

	// Handlers 各实体类型的处理器
	Handlers []EntityHandler `group:"management_handlers"`

	// Metrics 指标（可选，关闭时为 nil）
	Metrics *metrics.Metrics `optional:"true"`

	// Clock 时钟（可选，测试时注入 mock）
	Clock clock.Clock `optional:"true"`
}

// ProvideAgent 提供管理代理
func ProvideAgent(input ModuleInput) (*Agent, error) {
	return New(ConfigFromUnified(input.UnifiedCfg), input.Handlers, input.Metrics, input.Clock)
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 返回 fx 模块配置
func Module() fx.Option {
	return fx.Module("agent",
		fx.Provide(ProvideAgent),
		fx.Invoke(registerLifecycle),
	)
}

// registerLifecycle 注册生命周期
func registerLifecycle(lc fx.Lifecycle, a *Agent) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return a.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return a.Stop(ctx)
		},
	})
}

package dispatch

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-dispatch/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 统一配置
	config *config.Config

	// 指标注册器（可选，默认使用独立 Registry）
	registerer prometheus.Registerer

	// 时钟（可选，测试时注入 mock）
	clock clock.Clock

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// apply 依次应用选项并补齐缺省配置
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	if o.config == nil {
		o.config = config.NewConfig()
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              选项函数
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用给定的统一配置
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 或 HCL 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
		o.config = cfg
		return nil
	}
}

// WithStaticAddress 追加一条静态地址配置
func WithStaticAddress(entry config.AddressEntry) Option {
	return func(o *options) error {
		if o.config == nil {
			o.config = config.NewConfig()
		}
		o.config.Addresses = append(o.config.Addresses, entry)
		return nil
	}
}

// WithRegisterer 指定 Prometheus 注册器
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithClock 指定时钟
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		o.clock = clk
		return nil
	}
}

// WithFxOptions 追加用户自定义 Fx 选项（例如注册新的实体处理器）
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}

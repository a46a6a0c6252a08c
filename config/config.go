// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 或 HCL 加载配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Log.Level = "debug"
//
//	// 从文件加载（按扩展名选择 JSON/HCL）
//	cfg, err := config.LoadFile("router.hcl")
package config

import "go.uber.org/multierr"

// Config 是路由核心的完整配置结构
//
// 配置按照功能模块组织：
//   - Log: 日志
//   - Agent: 管理代理（核心协程与队列）
//   - Metrics: 指标
//   - Addresses: 启动时创建的静态地址配置
type Config struct {
	// Log 日志配置
	Log LogConfig `json:"log"`

	// Agent 管理代理配置
	Agent AgentConfig `json:"agent"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Addresses 静态地址配置
	//
	// 启动时逐条转换为内部 CREATE 请求，不产生响应。
	Addresses []AddressEntry `json:"addresses,omitempty"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Log:     DefaultLogConfig(),
		Agent:   DefaultAgentConfig(),
		Metrics: DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 汇总所有子配置的错误一并返回。
func (c *Config) Validate() error {
	var err error
	err = multierr.Append(err, c.Log.Validate())
	err = multierr.Append(err, c.Agent.Validate())
	err = multierr.Append(err, c.Metrics.Validate())
	for i := range c.Addresses {
		err = multierr.Append(err, c.Addresses[i].Validate(i))
	}
	return err
}

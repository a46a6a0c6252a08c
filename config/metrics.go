package config

import (
	"errors"
	"net"
)

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enabled 是否启用指标收集
	Enabled bool `json:"enabled"`

	// Namespace 指标命名空间
	Namespace string `json:"namespace"`

	// ListenAddr Prometheus 导出地址（host:port），为空则不导出
	ListenAddr string `json:"listen_addr,omitempty"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "dispatch",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if c.ListenAddr == "" {
		return nil
	}
	if !c.Enabled {
		return errors.New("metrics: listen_addr set but metrics disabled")
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return errors.New("metrics: invalid listen_addr: " + err.Error())
	}
	return nil
}

package config

import "errors"

// AgentConfig 管理代理配置
type AgentConfig struct {
	// InboundQueueSize 入站请求队列容量
	//
	// 队列满时提交方阻塞，直到核心取走请求或提交方的 context 结束。
	InboundQueueSize int `json:"inbound_queue_size"`

	// DefaultQueryCount QUERY 未指定 count 时的最大行数，0 表示不限
	DefaultQueryCount int `json:"default_query_count"`
}

// DefaultAgentConfig 返回默认管理代理配置
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		InboundQueueSize:  256,
		DefaultQueryCount: 0,
	}
}

// Validate 验证管理代理配置
func (c AgentConfig) Validate() error {
	if c.InboundQueueSize <= 0 {
		return errors.New("agent: inbound queue size must be positive")
	}
	if c.DefaultQueryCount < 0 {
		return errors.New("agent: default query count must not be negative")
	}
	return nil
}

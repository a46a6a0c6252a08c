// Package metrics 提供管理流量的 Prometheus 指标
//
// 所有方法对 nil 接收者安全：指标关闭时模块提供 nil *Metrics，
// 调用方无需判断。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace 默认指标命名空间
const DefaultNamespace = "dispatch"

// Metrics 管理代理指标
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	entities *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New 创建指标并注册到 reg
//
// reg 为 nil 时使用独立的新 Registry。
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	var gatherer prometheus.Gatherer
	if reg == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "management",
			Name:      "requests_total",
			Help:      "Management requests processed by the router core.",
		}, []string{"entity_type", "operation", "status"}),

		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "management",
			Name:      "request_duration_seconds",
			Help:      "Time from submission to completion of a core turn.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"entity_type", "operation"}),

		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "entities",
			Help:      "Live entities per managed entity type.",
		}, []string{"entity_type"}),

		gatherer: gatherer,
	}

	for _, c := range []prometheus.Collector{m.requests, m.latency, m.entities} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveRequest 记录一次完成的管理请求
func (m *Metrics) ObserveRequest(entityType, operation string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(entityType, operation, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(entityType, operation).Observe(d.Seconds())
}

// SetEntities 更新实体数量
func (m *Metrics) SetEntities(entityType string, n int) {
	if m == nil {
		return
	}
	m.entities.WithLabelValues(entityType).Set(float64(n))
}

// Gatherer 返回用于导出的 Gatherer，可能为 nil
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile HCL 配置文件的顶层结构
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
//
//	address "queue" {
//	  prefix       = "queue."
//	  distribution = "balanced"
//	  waypoint     = true
//	}
type hclFile struct {
	Log       *hclLog       `hcl:"log,block"`
	Agent     *hclAgent     `hcl:"agent,block"`
	Metrics   *hclMetrics   `hcl:"metrics,block"`
	Addresses []*hclAddress `hcl:"address,block"`
}

type hclLog struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type hclAgent struct {
	InboundQueueSize  *int `hcl:"inbound_queue_size,optional"`
	DefaultQueryCount *int `hcl:"default_query_count,optional"`
}

type hclMetrics struct {
	Enabled    *bool   `hcl:"enabled,optional"`
	Namespace  *string `hcl:"namespace,optional"`
	ListenAddr *string `hcl:"listen_addr,optional"`
}

// hclAddress 标签为实体名称，空标签表示无名实体
type hclAddress struct {
	Name         string  `hcl:"name,label"`
	Prefix       string  `hcl:"prefix"`
	Distribution *string `hcl:"distribution,optional"`
	Waypoint     *bool   `hcl:"waypoint,optional"`
	IngressPhase *int    `hcl:"ingress_phase,optional"`
	EgressPhase  *int    `hcl:"egress_phase,optional"`
}

// FromHCL 从 HCL 数据创建配置
//
// filename 仅用于诊断信息。未出现的块和属性保留默认值。
func FromHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL config %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL config %s: %w", filename, diags)
	}

	cfg := NewConfig()
	if l := parsed.Log; l != nil {
		setIfPresent(&cfg.Log.Level, l.Level)
		setIfPresent(&cfg.Log.Format, l.Format)
	}
	if a := parsed.Agent; a != nil {
		setIfPresent(&cfg.Agent.InboundQueueSize, a.InboundQueueSize)
		setIfPresent(&cfg.Agent.DefaultQueryCount, a.DefaultQueryCount)
	}
	if m := parsed.Metrics; m != nil {
		setIfPresent(&cfg.Metrics.Enabled, m.Enabled)
		setIfPresent(&cfg.Metrics.Namespace, m.Namespace)
		setIfPresent(&cfg.Metrics.ListenAddr, m.ListenAddr)
	}

	for _, a := range parsed.Addresses {
		entry := AddressEntry{
			Name:         a.Name,
			Prefix:       a.Prefix,
			IngressPhase: a.IngressPhase,
			EgressPhase:  a.EgressPhase,
		}
		setIfPresent(&entry.Distribution, a.Distribution)
		setIfPresent(&entry.Waypoint, a.Waypoint)
		cfg.Addresses = append(cfg.Addresses, entry)
	}

	return cfg, nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

package types

// ============================================================================
//                              注册表变更事件
// ============================================================================

// AddressConfigInfo 地址配置实体的只读快照
type AddressConfigInfo struct {
	// Identity 实体标识
	Identity int64

	// Name 实体名称；HasName=false 时为空
	Name    string
	HasName bool

	// Prefix 地址前缀
	Prefix string

	// Treatment 分发策略
	Treatment Treatment

	// InPhase / OutPhase 入向与出向相位
	InPhase  int
	OutPhase int
}

// Waypoint 当且仅当相位为 (0, 1) 时为 true
func (i AddressConfigInfo) Waypoint() bool {
	return i.InPhase == 0 && i.OutPhase == 1
}

// EvtAddressConfigAdded 地址配置已创建
type EvtAddressConfigAdded struct {
	AddressConfigInfo
}

// EvtAddressConfigRemoved 地址配置已删除
type EvtAddressConfigRemoved struct {
	AddressConfigInfo
}

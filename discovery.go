// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

// ════════════════════════════════════════════════════════════════════════════
// 主机发现
// ════════════════════════════════════════════════════════════════════════════

// Hosts 返回当前活跃的主机记录（排除本机，按发现顺序）
func (n *Node) Hosts() []HostRecord {
	return n.registry.ListActive(n.LocalID())
}

// BestHost 返回最适合加入的主机身份
//
// preferred 非空且活跃时优先；无可选主机时返回 EmptyIdentity。
func (n *Node) BestHost(preferred Identity) Identity {
	return n.registry.SelectBest(n.LocalID(), preferred)
}

// ════════════════════════════════════════════════════════════════════════════
// 流量统计
// ════════════════════════════════════════════════════════════════════════════

// Stats 返回流量统计快照
func (n *Node) Stats() StatsSnapshot {
	return n.stats.Snapshot()
}

// StatsForPeer 返回指定对端的进出流量计数
func (n *Node) StatsForPeer(id Identity) Flow {
	return n.stats.GetFlowForPeer(id)
}

// StatsForType 返回指定报文类型的进出流量计数
func (n *Node) StatsForType(pt PacketType) Flow {
	return n.stats.GetFlowForType(pt)
}

// StatsByPeer 返回全部对端的进出流量计数
func (n *Node) StatsByPeer() map[Identity]Flow {
	return n.stats.GetFlowByPeer()
}

// StatsByType 返回全部报文类型的进出流量计数
func (n *Node) StatsByType() map[PacketType]Flow {
	return n.stats.GetFlowByType()
}

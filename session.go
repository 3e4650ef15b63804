// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

// ════════════════════════════════════════════════════════════════════════════
// 会话控制
// ════════════════════════════════════════════════════════════════════════════

// StartHosting 开始主持会话
//
// 注册自身、创建平台大厅并设置富状态广告，此后其他玩家
// 可经好友扫描发现本机并发起加入。仅允许从空闲状态发起。
func (n *Node) StartHosting() error {
	if err := n.requireRunning(); err != nil {
		return err
	}
	return n.controller.StartHosting()
}

// JoinHost 向指定主机发起加入
//
// 发送握手并进入连接中状态，主机应答后转为已连接。
// lobby 非空时同时加入对应平台大厅。
func (n *Node) JoinHost(target Identity, lobby LobbyToken) error {
	if err := n.requireRunning(); err != nil {
		return err
	}
	return n.controller.StartJoining(target, lobby)
}

// JoinBest 加入最适合的活跃主机
//
// preferred 非空且活跃时优先选它；没有任何可加入的主机时
// 返回 ErrNoHosts。
func (n *Node) JoinBest(preferred Identity) error {
	if err := n.requireRunning(); err != nil {
		return err
	}
	target := n.registry.SelectBest(n.LocalID(), preferred)
	if target.IsEmpty() {
		return ErrNoHosts
	}
	return n.controller.StartJoining(target, "")
}

// StopSession 结束当前会话并回到空闲状态（空闲时为无操作）
func (n *Node) StopSession() error {
	if err := n.requireRunning(); err != nil {
		return err
	}
	return n.controller.StopSession()
}

// SessionState 返回会话状态机状态
func (n *Node) SessionState() SessionState {
	return n.controller.State()
}

// Host 返回已连接会话的主机身份（非已连接状态时为 EmptyIdentity）
func (n *Node) Host() Identity {
	return n.controller.Host()
}

// Peers 返回当前会话成员
//
// 主机视角返回全部客户端（按加入顺序），客户端视角仅返回主机。
func (n *Node) Peers() []Identity {
	return n.controller.Peers()
}

// PeerName 返回会话成员的展示名（未知成员返回空串）
func (n *Node) PeerName(id Identity) string {
	return n.controller.PeerName(id)
}

// SetProfile 更新本地玩家档案
//
// 主持中的会话会在后续握手应答中携带新档案。
func (n *Node) SetProfile(p Profile) {
	n.controller.SetProfile(p)
}

// ════════════════════════════════════════════════════════════════════════════
// 会话数据面
// ════════════════════════════════════════════════════════════════════════════

// SendTo 编码并向单个会话成员发送业务载荷
//
// dest 必须是当前会话成员，否则静默丢弃并返回 false。
func (n *Node) SendTo(dest Identity, pt PacketType, payload any) bool {
	return n.controller.SendTo(dest, pt, payload)
}

// Broadcast 编码并向全部会话成员发送业务载荷
//
// 返回提交成功的份数；空闲时恒为 0。
func (n *Node) Broadcast(pt PacketType, payload any) int {
	return n.controller.Broadcast(pt, payload)
}

// HandlePacket 注册业务报文回调
//
// 同类型覆盖语义，h 为 nil 时注销。回调在协作周期内同步
// 执行，不得阻塞；回调内可安全调用 SendTo 与 Broadcast。
func (n *Node) HandlePacket(pt PacketType, h PacketHandler) {
	n.controller.Handle(pt, h)
}

// ════════════════════════════════════════════════════════════════════════════
// 平台回调入口
// ════════════════════════════════════════════════════════════════════════════

// DeliverInvite 投递一条平台邀请
//
// 平台 overlay 的邀请送达回调由宿主转发到这里，
// 下一个协作周期经信号聚合转为加入意图。
func (n *Node) DeliverInvite(from Identity, lobby LobbyToken) {
	n.invites.Deliver(from, lobby)
}

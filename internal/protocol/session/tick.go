// Package session 实现会话控制器
package session

import (
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// Tick 推进一个协作周期
//
// 依次：接收排水、状态机定时器。now 由调用方传入，
// 同一 tick 内的所有判定共享同一时刻。
func (c *Controller) Tick(now time.Time) {
	c.drainReceive(now)

	switch c.State() {
	case types.SessionHosting:
		c.tickHost(now)
	case types.SessionConnecting:
		c.tickConnecting(now)
	case types.SessionConnected:
		c.tickClient(now)
	}
}

// drainReceive 按接收预算取出并处理入站报文
//
// 超出预算的报文留在平台队列中，下一个 tick 继续处理。
func (c *Controller) drainReceive(now time.Time) {
	if c.provider == nil {
		return
	}

	for i := 0; i < c.cfg.ReceiveBudget; i++ {
		from, data, ok := c.provider.PollReceive()
		if !ok {
			return
		}
		c.handleInbound(now, from, data)
	}
}

// handleInbound 处理一条入站报文
//
// 授权依据是传输层报告的来源身份；信封里的发送者字段
// 仅作观测，不参与任何判定。
func (c *Controller) handleInbound(now time.Time, from types.Identity, data []byte) {
	pkt, err := c.codec.Decode(data)
	if err != nil {
		if c.stats != nil {
			c.stats.LogDecodeError()
		}
		logger.Debug("入站报文解码失败", "from", from, "error", err)
		return
	}
	if c.stats != nil {
		c.stats.LogRecvPacket(int64(len(data)), pkt.Type, from)
	}

	switch c.State() {
	case types.SessionHosting:
		c.handleHosting(now, from, pkt)
	case types.SessionConnecting:
		c.handleConnecting(now, from, pkt)
	case types.SessionConnected:
		c.handleConnected(now, from, pkt)
	default:
		// Idle 期间的残留流量直接丢弃
		if c.stats != nil {
			c.stats.LogDroppedPacket()
		}
	}
}

// handleHosting 处理托管期间的入站报文
func (c *Controller) handleHosting(now time.Time, from types.Identity, pkt types.Packet) {
	c.mu.Lock()
	p, known := c.peers[from]
	if known {
		p.lastSeen = now
	}
	c.mu.Unlock()

	if !known {
		if pkt.Type == types.PacketHandshake {
			v, err := c.codec.UnmarshalPayload(pkt)
			if err != nil {
				if c.stats != nil {
					c.stats.LogDecodeError()
				}
				logger.Debug("握手负载解码失败", "from", from, "error", err)
				return
			}
			hs := v.(types.HandshakeData)
			if hs.Version != types.Version {
				logger.Warn("对端协议版本不一致",
					"peer", from, "peer_version", hs.Version, "local_version", types.Version)
			}
			c.admitPeer(now, from, hs.Name)
			return
		}

		// 未经握手的来源交给被动通道，按加入意图走完整接纳流程
		if c.stats != nil {
			c.stats.LogDroppedPacket()
		}
		if c.passiveCh != nil {
			c.passiveCh.Offer(from)
		}
		logger.Debug("丢弃未知来源报文", "from", from, "type", pkt.Type)
		return
	}

	switch pkt.Type {
	case types.PacketHandshake:
		// 应答可能丢失，重复握手幂等地重发
		c.send(from, types.PacketWelcome, c.welcomeData())
	case types.PacketHeartbeat:
		v, err := c.codec.UnmarshalPayload(pkt)
		if err != nil {
			if c.stats != nil {
				c.stats.LogDecodeError()
			}
			return
		}
		hb := v.(types.HeartbeatData)
		c.send(from, types.PacketHeartbeatAck, types.HeartbeatData{Seq: hb.Seq})
	case types.PacketHeartbeatAck:
		// 触活已在上方完成
	case types.PacketPlayerJoin:
		v, err := c.codec.UnmarshalPayload(pkt)
		if err != nil {
			if c.stats != nil {
				c.stats.LogDecodeError()
			}
			return
		}
		join := v.(types.PlayerJoinData)
		if join.Name != "" {
			c.mu.Lock()
			if p, ok := c.peers[from]; ok {
				p.name = join.Name
			}
			c.mu.Unlock()
		}
		c.dispatch(from, pkt.Type, v)
	default:
		c.dispatchPayload(from, pkt)
	}
}

// handleConnecting 处理握手期间的入站报文
//
// 只接受目标主机的握手应答，其余一律丢弃。
func (c *Controller) handleConnecting(now time.Time, from types.Identity, pkt types.Packet) {
	c.mu.Lock()
	target := c.pendingTarget
	c.mu.Unlock()

	if from != target || pkt.Type != types.PacketWelcome {
		if c.stats != nil {
			c.stats.LogDroppedPacket()
		}
		logger.Debug("握手期间丢弃报文", "from", from, "type", pkt.Type)
		return
	}

	v, err := c.codec.UnmarshalPayload(pkt)
	if err != nil {
		if c.stats != nil {
			c.stats.LogDecodeError()
		}
		logger.Debug("应答负载解码失败", "from", from, "error", err)
		return
	}
	c.completeJoin(now, from, v.(types.WelcomeData))
}

// completeJoin 收到握手应答，完成加入
func (c *Controller) completeJoin(now time.Time, host types.Identity, welcome types.WelcomeData) {
	if welcome.Version != types.Version {
		logger.Warn("主机协议版本不一致",
			"host", host, "host_version", welcome.Version, "local_version", types.Version)
	}

	c.mu.Lock()
	if c.state != types.SessionConnecting {
		c.mu.Unlock()
		return
	}
	c.state = types.SessionConnected
	c.host = host
	c.hostName = welcome.HostName
	c.lastHostSeen = now
	c.lastHeartbeat = now
	c.pendingTarget = types.EmptyIdentity
	profile := c.profile
	c.mu.Unlock()

	c.registry.Register(host, welcome.HostName)
	c.registry.Touch(host)
	if c.provider != nil {
		c.advertisePlaying(host)
	}
	c.send(host, types.PacketPlayerJoin, types.PlayerJoinData{
		Name:    profile.Name,
		SceneID: profile.Scene,
		SpawnX:  profile.SpawnX,
		SpawnY:  profile.SpawnY,
	})
	if c.stats != nil {
		c.stats.LogHandshake()
	}
	logger.Info("加入完成", "host", host, "host_name", welcome.HostName, "scene", welcome.SceneID)
	c.publishPlayerJoined(host, welcome.HostName)
	c.publishStateChanged(types.SessionConnecting, types.SessionConnected)
}

// handleConnected 处理已连接会话的入站报文（客户端视角）
//
// 只信任主机的流量；其他来源一律丢弃。
func (c *Controller) handleConnected(now time.Time, from types.Identity, pkt types.Packet) {
	c.mu.Lock()
	host := c.host
	if from == host {
		c.lastHostSeen = now
	}
	c.mu.Unlock()

	if from != host {
		if c.stats != nil {
			c.stats.LogDroppedPacket()
		}
		logger.Debug("丢弃非主机来源报文", "from", from, "type", pkt.Type)
		return
	}
	c.registry.Touch(host)

	switch pkt.Type {
	case types.PacketHeartbeat:
		v, err := c.codec.UnmarshalPayload(pkt)
		if err != nil {
			if c.stats != nil {
				c.stats.LogDecodeError()
			}
			return
		}
		hb := v.(types.HeartbeatData)
		c.send(host, types.PacketHeartbeatAck, types.HeartbeatData{Seq: hb.Seq})
	case types.PacketHeartbeatAck, types.PacketWelcome:
		// 回执只用于触活；重复应答是主机重发的残留
	default:
		c.dispatchPayload(from, pkt)
	}
}

// tickHost 托管期间的定时逻辑：周期广播与成员存活判定
func (c *Controller) tickHost(now time.Time) {
	c.mu.Lock()
	if c.state != types.SessionHosting {
		c.mu.Unlock()
		return
	}
	var due bool
	if now.Sub(c.lastBroadcast) >= c.cfg.HostBroadcastInterval {
		c.lastBroadcast = now
		c.hostSeq++
		due = true
	}
	seq := c.hostSeq
	self := c.self
	members := append([]types.Identity(nil), c.order...)

	var silent []types.Identity
	if c.cfg.LivenessWindow > 0 {
		for _, id := range c.order {
			if p := c.peers[id]; p != nil && now.Sub(p.lastSeen) > c.cfg.LivenessWindow {
				silent = append(silent, id)
			}
		}
	}
	c.mu.Unlock()

	if due {
		c.registry.Touch(self)
		for _, id := range members {
			c.send(id, types.PacketHeartbeat, types.HeartbeatData{Seq: seq})
		}
	}
	for _, id := range silent {
		logger.Warn("成员心跳静默，移除", "peer", id, "window", c.cfg.LivenessWindow)
		c.dropPeer(id, types.LeaveReasonTimeout)
	}
}

// tickConnecting 握手期间的定时逻辑：按心跳间隔重发握手，超时放弃
func (c *Controller) tickConnecting(now time.Time) {
	c.mu.Lock()
	if c.state != types.SessionConnecting {
		c.mu.Unlock()
		return
	}
	target := c.pendingTarget
	name := c.profile.Name
	timedOut := c.cfg.HandshakeTimeout > 0 && now.Sub(c.handshakeAt) > c.cfg.HandshakeTimeout
	var resend bool
	if !timedOut && now.Sub(c.lastHandshake) >= c.cfg.HeartbeatInterval {
		c.lastHandshake = now
		resend = true
	}
	c.mu.Unlock()

	if timedOut {
		logger.Warn("握手超时，放弃加入", "target", target, "timeout", c.cfg.HandshakeTimeout)
		c.teardown(types.LeaveReasonTimeout)
		return
	}
	if resend {
		// 握手可能丢失，Connecting 期间按心跳间隔重发
		c.send(target, types.PacketHandshake, types.HandshakeData{Name: name, Version: types.Version})
	}
}

// tickClient 已连接会话的定时逻辑：客户端心跳与主机存活判定
func (c *Controller) tickClient(now time.Time) {
	c.mu.Lock()
	if c.state != types.SessionConnected {
		c.mu.Unlock()
		return
	}
	host := c.host
	silent := c.cfg.LivenessWindow > 0 && now.Sub(c.lastHostSeen) > c.cfg.LivenessWindow
	var beat bool
	var seq uint32
	if !silent && now.Sub(c.lastHeartbeat) >= c.cfg.HeartbeatInterval {
		c.lastHeartbeat = now
		c.clientSeq++
		seq = c.clientSeq
		beat = true
	}
	c.mu.Unlock()

	if silent {
		logger.Warn("主机心跳静默，放弃会话", "host", host, "window", c.cfg.LivenessWindow)
		c.teardown(types.LeaveReasonTimeout)
		return
	}
	if beat {
		c.send(host, types.PacketHeartbeat, types.HeartbeatData{Seq: seq})
	}
}

// dispatch 调用已注册的处理函数
func (c *Controller) dispatch(from types.Identity, pt types.PacketType, payload any) {
	c.hmu.RLock()
	h, ok := c.handlers[pt]
	c.hmu.RUnlock()

	if !ok {
		if c.stats != nil {
			c.stats.LogDroppedPacket()
		}
		logger.Debug("无处理函数，丢弃负载", "type", pt)
		return
	}
	h(from, payload)
}

// dispatchPayload 解码负载并调用处理函数
func (c *Controller) dispatchPayload(from types.Identity, pkt types.Packet) {
	v, err := c.codec.UnmarshalPayload(pkt)
	if err != nil {
		if c.stats != nil {
			c.stats.LogDecodeError()
		}
		logger.Debug("负载解码失败", "from", from, "type", pkt.Type, "error", err)
		return
	}
	c.dispatch(from, pkt.Type, v)
}

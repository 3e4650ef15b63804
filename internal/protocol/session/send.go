// Package session 实现会话控制器
package session

import (
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// send 编码并发送单个负载（内部路径，不做成员校验）
//
// 提供者缺席、编码失败或提交失败时返回 false。
// 发送失败不计入统计，只降级记录。
func (c *Controller) send(dest types.Identity, pt types.PacketType, payload any) bool {
	if c.provider == nil || dest.IsEmpty() {
		return false
	}

	raw, err := c.codec.MarshalPayload(pt, payload)
	if err != nil {
		logger.Warn("负载编码失败", "type", pt, "error", err)
		return false
	}

	sender, ts := c.stamp()
	data, err := c.codec.Encode(types.Packet{
		Type:      pt,
		Sender:    sender,
		Timestamp: ts,
		Payload:   raw,
	})
	if err != nil {
		logger.Warn("报文编码失败", "type", pt, "error", err)
		return false
	}

	if !c.provider.SendPacket(dest, data) {
		logger.Debug("报文提交失败", "dest", dest, "type", pt)
		return false
	}
	if c.stats != nil {
		c.stats.LogSentPacket(int64(len(data)), pt, dest)
	}
	return true
}

// stamp 返回发送者身份与会话时钟时间戳（秒）
func (c *Controller) stamp() (types.Identity, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionStart.IsZero() {
		return c.self, 0
	}
	return c.self, float32(c.clk.Now().Sub(c.sessionStart).Seconds())
}

// SendTo 编码并向单个成员发送负载
//
// 仅允许发往当前成员（主机视角：已接纳的客户端；
// 客户端视角：主机）。非成员目标拒绝发送。
func (c *Controller) SendTo(dest types.Identity, pt types.PacketType, payload any) bool {
	if !c.isMember(dest) {
		logger.Debug("目标不是会话成员，拒绝发送", "dest", dest, "type", pt)
		return false
	}
	return c.send(dest, pt, payload)
}

// Broadcast 编码并向全部成员发送负载，返回提交成功的数量
func (c *Controller) Broadcast(pt types.PacketType, payload any) int {
	c.mu.Lock()
	var targets []types.Identity
	switch c.state {
	case types.SessionHosting:
		targets = append([]types.Identity(nil), c.order...)
	case types.SessionConnected:
		targets = []types.Identity{c.host}
	}
	c.mu.Unlock()

	sent := 0
	for _, id := range targets {
		if c.send(id, pt, payload) {
			sent++
		}
	}
	return sent
}

// Handle 注册某包类型的处理函数
//
// 覆盖语义：同类型后注册的覆盖先注册的；h 为 nil 时注销。
func (c *Controller) Handle(pt types.PacketType, h interfaces.PacketHandler) {
	c.hmu.Lock()
	defer c.hmu.Unlock()

	if h == nil {
		delete(c.handlers, pt)
		return
	}
	c.handlers[pt] = h
}

// isMember 判断目标是否为当前会话成员
func (c *Controller) isMember(id types.Identity) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case types.SessionHosting:
		_, ok := c.peers[id]
		return ok
	case types.SessionConnected:
		return id == c.host
	default:
		return false
	}
}

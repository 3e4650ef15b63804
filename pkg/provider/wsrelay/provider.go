// Package wsrelay 提供经 WebSocket 中继的平台实现
package wsrelay

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("wsrelay")

var _ interfaces.Provider = (*Provider)(nil)

// Provider 经中继服务器工作的平台提供者
//
// 连接在 Dial 时建立，断开即终态：所有方法转入降级契约，
// 重连需要重新 Dial 出一个新的提供者。
type Provider struct {
	cfg  Config
	conn *websocket.Conn

	// writeMu 串行化数据帧与控制帧的写出（gorilla 单写者约束）
	writeMu sync.Mutex

	mu        sync.Mutex
	connected bool
	closed    bool
	inbox     []inbound
	dropped   uint64
	roster    []types.FriendInfo
	lastPull  time.Time
}

// inbound 收件箱里的一条入站报文
type inbound struct {
	from types.Identity
	data []byte
}

// Dial 连接中继服务器并注册身份
//
// 返回时注册帧已写入连接，服务器的确认异步到达。
// 连接的读取循环随 Dial 启动，调用方负责在结束时 Close。
func Dial(cfg Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.DialTimeout}
	conn, _, err := dialer.Dial(cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(cfg.MaxFrameBytes)

	p := &Provider{
		cfg:       cfg,
		conn:      conn,
		connected: true,
	}

	if !p.sendControl(Control{Op: OpHello, ID: cfg.Identity, Name: cfg.Name}) {
		_ = conn.Close()
		return nil, ErrClosed
	}

	go p.readLoop()

	logger.Info("已接入中继",
		"url", cfg.URL,
		"id", log.TruncateID(cfg.Identity.String(), 12),
		"name", cfg.Name)
	return p, nil
}

// Close 关闭连接并释放读取循环
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.connected = false
	p.mu.Unlock()

	// 尽力发出关闭帧，失败也不影响本地释放
	deadline := time.Now().Add(time.Second)
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return p.conn.Close()
}

// ════════════════════════════════════════════════════════════════════════
// Provider 接口实现
// ════════════════════════════════════════════════════════════════════════

// GetLocalIdentity 返回拨号时声明的身份，断开后返回空身份
func (p *Provider) GetLocalIdentity() types.Identity {
	if !p.isConnected() {
		return types.EmptyIdentity
	}
	return p.cfg.Identity
}

// SendPacket 把报文经中继发往目标身份
//
// 写入成功即返回 true，目标是否在线由中继裁决，不在线的帧被丢弃。
func (p *Provider) SendPacket(dest types.Identity, data []byte) bool {
	if dest.IsEmpty() {
		return false
	}
	return p.writeMessage(websocket.BinaryMessage, EncodeFrame(dest, data))
}

// PollReceive 取出收件箱中最早的一条报文
func (p *Provider) PollReceive() (types.Identity, []byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected || len(p.inbox) == 0 {
		return types.EmptyIdentity, nil, false
	}
	d := p.inbox[0]
	p.inbox = p.inbox[1:]
	return d.from, d.data, true
}

// AcceptIncoming 确认来访会话
//
// 中继传输没有握手前的连接放行步骤，连接在线即视为接受。
func (p *Provider) AcceptIncoming(peer types.Identity) bool {
	return p.isConnected() && !peer.IsEmpty()
}

// CloseSession 结束与对端的会话
//
// 中继侧没有需要拆除的链路状态，连接在线即返回 true。
func (p *Provider) CloseSession(peer types.Identity) bool {
	return p.isConnected() && !peer.IsEmpty()
}

// SetPresence 设置一个富状态键值
func (p *Provider) SetPresence(key, value string) bool {
	if key == "" {
		return false
	}
	return p.sendControl(Control{Op: OpPresenceSet, Key: key, Value: value})
}

// ClearPresence 清空全部富状态
func (p *Provider) ClearPresence() bool {
	return p.sendControl(Control{Op: OpPresenceClear})
}

// CreateLobby 创建大厅并返回令牌
//
// 令牌在客户端生成并随创建帧上报，返回的 true 表示提交成功，
// 服务器端的登记异步完成。
func (p *Provider) CreateLobby(max int) (types.LobbyToken, bool) {
	if max <= 0 {
		return "", false
	}
	token := types.LobbyToken(uuid.NewString())
	if !p.sendControl(Control{Op: OpLobbyCreate, Token: token, Max: max}) {
		return "", false
	}
	return token, true
}

// JoinLobby 按令牌加入大厅，返回的 true 表示提交成功
func (p *Provider) JoinLobby(token types.LobbyToken) bool {
	if token.IsEmpty() {
		return false
	}
	return p.sendControl(Control{Op: OpLobbyJoin, Token: token})
}

// LeaveLobby 按令牌离开大厅
func (p *Provider) LeaveLobby(token types.LobbyToken) bool {
	if token.IsEmpty() {
		return false
	}
	return p.sendControl(Control{Op: OpLobbyLeave, Token: token})
}

// ListFriendsInGame 返回中继网络里其余在线客户端
//
// 花名册来自服务器的异步下发，调用按 RosterInterval 节流：
// 高频调用返回缓存副本，更新最多滞后一个节流间隔。
func (p *Provider) ListFriendsInGame() []types.FriendInfo {
	p.mu.Lock()
	if !p.connected {
		p.mu.Unlock()
		return nil
	}
	now := time.Now()
	pull := now.Sub(p.lastPull) >= p.cfg.RosterInterval
	if pull {
		p.lastPull = now
	}
	out := make([]types.FriendInfo, len(p.roster))
	copy(out, p.roster)
	p.mu.Unlock()

	if pull {
		p.sendControl(Control{Op: OpRosterPull})
	}
	return out
}

// ════════════════════════════════════════════════════════════════════════
// 辅助方法
// ════════════════════════════════════════════════════════════════════════

// ID 返回拨号时声明的身份，不随连接状态退化
func (p *Provider) ID() types.Identity { return p.cfg.Identity }

// Bound 报告连接是否仍然在线
func (p *Provider) Bound() bool { return p.isConnected() }

// InboxLen 返回收件箱中的帧数
func (p *Provider) InboxLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inbox)
}

// ════════════════════════════════════════════════════════════════════════
// 内部实现
// ════════════════════════════════════════════════════════════════════════

func (p *Provider) isConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// markDisconnected 把提供者转入降级状态，幂等
func (p *Provider) markDisconnected(reason string) {
	p.mu.Lock()
	wasConnected := p.connected
	p.connected = false
	p.mu.Unlock()
	if wasConnected {
		logger.Warn("中继连接断开", "reason", reason,
			"id", log.TruncateID(p.cfg.Identity.String(), 12))
	}
}

// writeMessage 在单写者约束下写出一帧，失败即判定连接失效
func (p *Provider) writeMessage(msgType int, data []byte) bool {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if !p.isConnected() {
		return false
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(p.cfg.WriteTimeout))
	if err := p.conn.WriteMessage(msgType, data); err != nil {
		p.markDisconnected("write: " + err.Error())
		return false
	}
	return true
}

func (p *Provider) sendControl(c Control) bool {
	data, err := EncodeControl(c)
	if err != nil {
		logger.Error("控制帧编码失败", "op", c.Op, "err", err)
		return false
	}
	return p.writeMessage(websocket.TextMessage, data)
}

// readLoop 消费服务器下行帧，连接出错即退出
func (p *Provider) readLoop() {
	for {
		msgType, data, err := p.conn.ReadMessage()
		if err != nil {
			p.markDisconnected("read: " + err.Error())
			return
		}
		switch msgType {
		case websocket.BinaryMessage:
			sender, payload, err := DecodeFrame(data)
			if err != nil {
				logger.Debug("丢弃畸形数据帧", "len", len(data))
				continue
			}
			p.pushInbound(sender, payload)
		case websocket.TextMessage:
			ctrl, err := DecodeControl(data)
			if err != nil {
				logger.Debug("丢弃畸形控制帧", "err", err)
				continue
			}
			p.handleControl(ctrl)
		}
	}
}

// pushInbound 入队一条报文，收件箱写满时丢弃最旧的帧
func (p *Provider) pushInbound(from types.Identity, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.inbox) >= p.cfg.InboxLimit {
		p.inbox = p.inbox[1:]
		p.dropped++
		if p.dropped%100 == 1 {
			logger.Warn("收件箱溢出，正在丢帧",
				"dropped", p.dropped, "limit", p.cfg.InboxLimit)
		}
	}
	p.inbox = append(p.inbox, inbound{from: from, data: payload})
}

func (p *Provider) handleControl(c Control) {
	switch c.Op {
	case OpWelcome:
		logger.Debug("中继注册确认", "id", log.TruncateID(c.ID.String(), 12))
	case OpRoster:
		p.storeRoster(c.Users)
	case OpError:
		logger.Warn("中继报告错误", "reason", c.Reason)
	default:
		logger.Debug("忽略未知控制帧", "op", c.Op)
	}
}

// storeRoster 把服务器下发的花名册换算成好友视图
func (p *Provider) storeRoster(users []RosterUser) {
	roster := make([]types.FriendInfo, 0, len(users))
	for _, u := range users {
		if u.ID.IsEmpty() || u.ID.Equal(p.cfg.Identity) {
			continue
		}
		presence := make(map[string]string, len(u.Presence))
		for k, v := range u.Presence {
			presence[k] = v
		}
		roster = append(roster, types.FriendInfo{
			ID:       u.ID,
			Name:     u.Name,
			Online:   true,
			Presence: presence,
		})
	}
	p.mu.Lock()
	p.roster = roster
	p.mu.Unlock()
}

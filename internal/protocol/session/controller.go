// Package session 实现会话控制器
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gungeon-together/go-gtnet/internal/protocol/codec"
	"github.com/gungeon-together/go-gtnet/internal/signals/passive"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("protocol/session")

// 确保实现了接口
var _ interfaces.Session = (*Controller)(nil)

// 富状态展示文案
const (
	presenceStatusHosting = "Hosting a GungeonTogether run"
	presenceStatusPlaying = "In a GungeonTogether run"
	presenceDisplayToken  = "#Status_GungeonTogether"
)

// Profile 本机玩家的会话档案
//
// 握手、握手应答与加入信息携带的展示数据。
// 宿主在场景切换时通过 SetProfile 更新。
type Profile struct {
	// Name 展示名
	Name string

	// Scene 当前场景
	Scene string

	// SpawnX, SpawnY 出生点坐标
	SpawnX float32
	SpawnY float32
}

// peerInfo 成员记录（主机视角）
type peerInfo struct {
	id       types.Identity
	name     string
	joinedAt time.Time

	// lastSeen 最近一次收到该成员报文的时刻（存活判定依据）
	lastSeen time.Time
}

// Controller 会话控制器
//
// 独占持有会话状态机与成员集合。状态字段由 mu 保护，
// 处理函数注册表由 hmu 单独保护（分发时不占用状态锁，
// 处理函数里可以安全回调 SendTo/Broadcast）。
type Controller struct {
	cfg      Config
	codec    *codec.Codec
	registry interfaces.HostRegistry

	// provider 平台提供者（可为 nil，所有平台操作降级为无操作）
	provider interfaces.Provider

	// identity 本机身份解析器（可为 nil，身份视为未就绪）
	identity interfaces.LocalIdentity

	// passiveCh 被动连接通道（可选，托管期间投入未知来源）
	passiveCh *passive.Channel

	// eventBus 事件总线（可选，未注入时静默跳过发布）
	eventBus interfaces.EventBus

	// stats 统计报告器（可选）
	stats interfaces.StatsReporter

	clk clock.Clock

	hmu      sync.RWMutex
	handlers map[types.PacketType]interfaces.PacketHandler

	mu sync.Mutex

	state   types.SessionState
	profile Profile

	// self 会话期间缓存的本机身份（Idle 时为哨兵值）
	self types.Identity

	// sessionStart 会话时钟起点（包时间戳的基准）
	sessionStart time.Time

	// lobby 持有的大厅令牌（创建或加入提交成功时记录）
	lobby types.LobbyToken

	// peers/order 成员集合与接纳顺序（主机视角）
	peers map[types.Identity]*peerInfo
	order []types.Identity

	// lastBroadcast 最近一次主机广播时刻
	lastBroadcast time.Time
	hostSeq       uint32

	// host 已连接会话的主机（客户端视角）
	host         types.Identity
	hostName     string
	lastHostSeen time.Time

	// lastHeartbeat 最近一次客户端心跳时刻
	lastHeartbeat time.Time
	clientSeq     uint32

	// pendingTarget 握手中的目标（Connecting 视角）
	pendingTarget types.Identity
	handshakeAt   time.Time

	// lastHandshake 最近一次握手发送时刻（Connecting 期间按心跳间隔重发）
	lastHandshake time.Time
}

// New 创建会话控制器
//
// provider 与 identity 可为 nil：平台操作降级为无操作，
// 身份视为未就绪（StartHosting/StartJoining 返回
// ErrIdentityUnavailable）。codec 与 registry 必须存在。
func New(cfg Config, cdc *codec.Codec, registry interfaces.HostRegistry, provider interfaces.Provider, identity interfaces.LocalIdentity) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cdc == nil {
		return nil, ErrNilCodec
	}
	if registry == nil {
		return nil, ErrNilRegistry
	}
	return &Controller{
		cfg:      cfg,
		codec:    cdc,
		registry: registry,
		provider: provider,
		identity: identity,
		clk:      clock.New(),
		handlers: make(map[types.PacketType]interfaces.PacketHandler),
		state:    types.SessionIdle,
		peers:    make(map[types.Identity]*peerInfo),
	}, nil
}

// SetClock 设置时钟（用于测试，须在并发使用前调用）
func (c *Controller) SetClock(clk clock.Clock) {
	c.clk = clk
}

// SetEventBus 设置事件总线（须在并发使用前调用）
func (c *Controller) SetEventBus(bus interfaces.EventBus) {
	c.eventBus = bus
}

// SetStats 设置统计报告器（须在并发使用前调用）
func (c *Controller) SetStats(stats interfaces.StatsReporter) {
	c.stats = stats
}

// SetPassiveChannel 设置被动连接通道（须在并发使用前调用）
func (c *Controller) SetPassiveChannel(ch *passive.Channel) {
	c.passiveCh = ch
}

// SetProfile 更新本机会话档案
//
// 可在会话期间调用（场景切换、改名）；后续发出的握手、
// 应答与加入信息使用新档案。
func (c *Controller) SetProfile(p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = p
}

// State 返回当前会话状态
func (c *Controller) State() types.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Host 返回已连接会话的主机身份（非 Connected 时为哨兵值）
func (c *Controller) Host() types.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.host
}

// Peers 返回当前会话成员
//
// 主机视角：全部已接纳的客户端（按接纳顺序）；
// 客户端视角：仅主机；Idle/Connecting 时为空。
func (c *Controller) Peers() []types.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case types.SessionHosting:
		return append([]types.Identity(nil), c.order...)
	case types.SessionConnected:
		return []types.Identity{c.host}
	default:
		return nil
	}
}

// PeerName 返回成员的展示名（未知成员返回空串）
func (c *Controller) PeerName(id types.Identity) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.SessionConnected && id == c.host {
		return c.hostName
	}
	if p, ok := c.peers[id]; ok {
		return p.name
	}
	return ""
}

// StartHosting 开始托管会话
//
// 仅允许从 Idle 发起。注册自身并声明托管、提交大厅创建
// （异步，不等待）、设置富状态广告、启动周期性自触活广播。
// 大厅与富状态的提交失败只降级记录，不阻止托管。
func (c *Controller) StartHosting() error {
	self := c.localID()

	c.mu.Lock()
	if c.state != types.SessionIdle {
		c.mu.Unlock()
		return fmt.Errorf("%w: state=%s", ErrNotIdle, c.state)
	}
	if self.IsEmpty() {
		c.mu.Unlock()
		return ErrIdentityUnavailable
	}
	now := c.clk.Now()
	c.state = types.SessionHosting
	c.self = self
	c.sessionStart = now
	c.lastBroadcast = now
	name := c.profile.Name
	c.mu.Unlock()

	c.registry.Register(self, name)
	c.registry.SetHosting(self)

	if c.provider != nil {
		if token, ok := c.provider.CreateLobby(c.cfg.MaxLobbyMembers); ok {
			c.mu.Lock()
			c.lobby = token
			c.mu.Unlock()
			logger.Debug("大厅创建已提交", "token", log.TruncateID(token.String(), 12))
		} else {
			logger.Debug("大厅创建未就绪")
		}
		c.advertiseHosting(self)
	}

	logger.Info("开始托管会话", "self", self)
	c.publishStateChanged(types.SessionIdle, types.SessionHosting)
	return nil
}

// StartJoining 向目标主机发起加入
//
// 仅允许从 Idle 发起。发送握手包并进入 Connecting；
// lobby 非空时同时提交平台大厅加入（异步，不等待）。
// Connecting 期间按心跳间隔重发握手，直至收到应答或超时。
func (c *Controller) StartJoining(target types.Identity, lobby types.LobbyToken) error {
	if target.IsEmpty() {
		return ErrInvalidTarget
	}
	self := c.localID()

	c.mu.Lock()
	if c.state != types.SessionIdle {
		c.mu.Unlock()
		return fmt.Errorf("%w: state=%s", ErrNotIdle, c.state)
	}
	if self.IsEmpty() {
		c.mu.Unlock()
		return ErrIdentityUnavailable
	}
	if target == self {
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot join self", ErrInvalidTarget)
	}
	now := c.clk.Now()
	c.state = types.SessionConnecting
	c.self = self
	c.sessionStart = now
	c.pendingTarget = target
	c.handshakeAt = now
	c.lastHandshake = now
	name := c.profile.Name
	c.mu.Unlock()

	if lobby != "" && c.provider != nil {
		if c.provider.JoinLobby(lobby) {
			c.mu.Lock()
			c.lobby = lobby
			c.mu.Unlock()
		} else {
			logger.Debug("大厅加入未就绪", "token", log.TruncateID(lobby.String(), 12))
		}
	}

	c.send(target, types.PacketHandshake, types.HandshakeData{Name: name, Version: types.Version})

	logger.Info("发起加入", "target", target)
	c.publishStateChanged(types.SessionIdle, types.SessionConnecting)
	return nil
}

// StopSession 停止当前会话并回到 Idle
//
// 同步且无条件：注销自身、清空富状态、离开大厅、关闭全部
// 对端会话。不与对端协商，对端经由心跳静默自行察觉。
// Idle 时为无操作。
func (c *Controller) StopSession() error {
	return c.teardown(types.LeaveReasonLocal)
}

// OnJoinSignal 处理一条去重后的加入意图
//
// Hosting：接纳目标的入站会话；Idle：自动发起加入；
// Connecting/Connected：忽略并记录。
func (c *Controller) OnJoinSignal(sig types.JoinSignal) {
	if sig.Target.IsEmpty() {
		return
	}
	now := sig.At
	if now.IsZero() {
		now = c.clk.Now()
	}

	switch c.State() {
	case types.SessionHosting:
		c.admitPeer(now, sig.Target, "")
	case types.SessionIdle:
		if err := c.StartJoining(sig.Target, sig.Lobby); err != nil {
			logger.Warn("自动加入失败", "target", sig.Target, "error", err)
		}
	default:
		logger.Debug("会话进行中，忽略加入意图", "target", sig.Target, "source", sig.Source)
	}
}

// admitPeer 接纳一个加入方（托管期间）
//
// 幂等：已是成员时只触活并重发应答（应答可能丢失）。
// 成员已满或接受入站会话失败时拒绝；拒绝不发送任何应答，
// 对方经由握手超时自行放弃。
func (c *Controller) admitPeer(now time.Time, id types.Identity, name string) {
	c.mu.Lock()
	if c.state != types.SessionHosting || id.IsEmpty() || id == c.self {
		c.mu.Unlock()
		return
	}
	if p, ok := c.peers[id]; ok {
		p.lastSeen = now
		if name != "" {
			p.name = name
		}
		c.mu.Unlock()
		c.send(id, types.PacketWelcome, c.welcomeData())
		return
	}
	if len(c.peers) >= c.cfg.MaxPeers {
		c.mu.Unlock()
		logger.Warn("成员已满，拒绝加入方", "peer", id, "max", c.cfg.MaxPeers)
		return
	}
	c.mu.Unlock()

	if c.provider != nil && !c.provider.AcceptIncoming(id) {
		logger.Warn("接受入站会话失败", "peer", id)
		return
	}

	c.mu.Lock()
	if c.state != types.SessionHosting {
		c.mu.Unlock()
		return
	}
	if p, ok := c.peers[id]; ok {
		p.lastSeen = now
		c.mu.Unlock()
		return
	}
	c.peers[id] = &peerInfo{id: id, name: name, joinedAt: now, lastSeen: now}
	c.order = append(c.order, id)
	self := c.self
	count := len(c.peers) + 1
	c.mu.Unlock()

	c.registry.UpdatePlayerCount(self, count)
	c.send(id, types.PacketWelcome, c.welcomeData())
	if c.stats != nil {
		c.stats.LogHandshake()
	}
	logger.Info("接纳加入方", "peer", id, "name", name, "count", count)
	c.publishPlayerJoined(id, name)
}

// dropPeer 移除一个成员（托管期间）
func (c *Controller) dropPeer(id types.Identity, reason types.LeaveReason) {
	c.mu.Lock()
	p, ok := c.peers[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.peers, id)
	c.removeOrderLocked(id)
	name := p.name
	self := c.self
	count := len(c.peers) + 1
	c.mu.Unlock()

	if c.provider != nil {
		c.provider.CloseSession(id)
	}
	c.registry.UpdatePlayerCount(self, count)
	if c.stats != nil {
		c.stats.Forget(id)
	}
	logger.Info("成员离开", "peer", id, "name", name, "reason", reason, "count", count)
	c.publishPlayerLeft(id, reason)
}

// teardown 结束当前会话并回到 Idle
func (c *Controller) teardown(reason types.LeaveReason) error {
	c.mu.Lock()
	old := c.state
	if old == types.SessionIdle {
		c.mu.Unlock()
		return nil
	}
	self := c.self
	host := c.host
	target := c.pendingTarget
	lobby := c.lobby
	members := append([]types.Identity(nil), c.order...)
	c.state = types.SessionIdle
	c.resetLocked()
	c.mu.Unlock()

	switch old {
	case types.SessionHosting:
		for _, id := range members {
			if c.provider != nil {
				c.provider.CloseSession(id)
			}
			if c.stats != nil {
				c.stats.Forget(id)
			}
			c.publishPlayerLeft(id, reason)
		}
		c.registry.Unregister(self)
		c.registry.ClearHosting()
	case types.SessionConnecting:
		if c.provider != nil {
			c.provider.CloseSession(target)
		}
	case types.SessionConnected:
		if c.provider != nil {
			c.provider.CloseSession(host)
		}
		if c.stats != nil {
			c.stats.Forget(host)
		}
		c.publishPlayerLeft(host, reason)
	}

	if c.provider != nil {
		if lobby != "" {
			c.provider.LeaveLobby(lobby)
		}
		c.provider.ClearPresence()
	}

	logger.Info("会话已停止", "previous", old, "reason", reason)
	c.publishStateChanged(old, types.SessionIdle)
	return nil
}

// resetLocked 清空会话字段（须持有锁；state 由调用方设置）
func (c *Controller) resetLocked() {
	c.self = types.EmptyIdentity
	c.sessionStart = time.Time{}
	c.lobby = ""
	c.peers = make(map[types.Identity]*peerInfo)
	c.order = nil
	c.lastBroadcast = time.Time{}
	c.hostSeq = 0
	c.host = types.EmptyIdentity
	c.hostName = ""
	c.lastHostSeen = time.Time{}
	c.lastHeartbeat = time.Time{}
	c.clientSeq = 0
	c.pendingTarget = types.EmptyIdentity
	c.handshakeAt = time.Time{}
	c.lastHandshake = time.Time{}
}

// removeOrderLocked 从接纳顺序中删除成员（须持有锁）
func (c *Controller) removeOrderLocked(id types.Identity) {
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// localID 返回本机身份（解析器缺席或未绑定时为哨兵值）
func (c *Controller) localID() types.Identity {
	if c.identity == nil {
		return types.EmptyIdentity
	}
	return c.identity.Local()
}

// welcomeData 构造握手应答负载
func (c *Controller) welcomeData() types.WelcomeData {
	c.mu.Lock()
	p := c.profile
	c.mu.Unlock()
	return types.WelcomeData{HostName: p.Name, SceneID: p.Scene, Version: types.Version}
}

// advertiseHosting 发布托管方的富状态广告
func (c *Controller) advertiseHosting(self types.Identity) {
	ok := c.provider.SetPresence(types.PresenceKeyStatus, presenceStatusHosting)
	ok = c.provider.SetPresence(types.PresenceKeySteamDisplay, presenceDisplayToken) && ok
	ok = c.provider.SetPresence(types.PresenceKeyConnect, self.String()) && ok
	ok = c.provider.SetPresence(types.PresenceKeyMode, types.PresenceModeHosting) && ok
	ok = c.provider.SetPresence(types.PresenceKeyVersion, types.Version) && ok
	if !ok {
		logger.Debug("富状态广告未完全生效")
	}
}

// advertisePlaying 发布加入方的富状态（connect 指向主机，支撑链式发现）
func (c *Controller) advertisePlaying(host types.Identity) {
	ok := c.provider.SetPresence(types.PresenceKeyStatus, presenceStatusPlaying)
	ok = c.provider.SetPresence(types.PresenceKeySteamDisplay, presenceDisplayToken) && ok
	ok = c.provider.SetPresence(types.PresenceKeyConnect, host.String()) && ok
	ok = c.provider.SetPresence(types.PresenceKeyMode, types.PresenceModePlaying) && ok
	ok = c.provider.SetPresence(types.PresenceKeyVersion, types.Version) && ok
	if !ok {
		logger.Debug("富状态广告未完全生效")
	}
}

// publishStateChanged 发布会话状态变更事件
func (c *Controller) publishStateChanged(old, next types.SessionState) {
	if c.eventBus == nil {
		return
	}

	emitter, err := c.eventBus.Emitter(&types.EvtSessionStateChanged{})
	if err != nil {
		logger.Warn("创建事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	evt := &types.EvtSessionStateChanged{
		BaseEvent: types.NewBaseEvent(types.EventTypeSessionStateChanged),
		Old:       old,
		New:       next,
	}

	if err := emitter.Emit(evt); err != nil {
		logger.Warn("发布状态变更事件失败", "error", err)
	}
}

// publishPlayerJoined 发布成员加入事件
func (c *Controller) publishPlayerJoined(id types.Identity, name string) {
	if c.eventBus == nil {
		return
	}

	emitter, err := c.eventBus.Emitter(&types.EvtPlayerJoined{})
	if err != nil {
		logger.Warn("创建事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	evt := &types.EvtPlayerJoined{
		BaseEvent: types.NewBaseEvent(types.EventTypePlayerJoined),
		Player:    id,
		Name:      name,
	}

	if err := emitter.Emit(evt); err != nil {
		logger.Warn("发布成员加入事件失败", "error", err)
	}
}

// publishPlayerLeft 发布成员离开事件
func (c *Controller) publishPlayerLeft(id types.Identity, reason types.LeaveReason) {
	if c.eventBus == nil {
		return
	}

	emitter, err := c.eventBus.Emitter(&types.EvtPlayerLeft{})
	if err != nil {
		logger.Warn("创建事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	evt := &types.EvtPlayerLeft{
		BaseEvent: types.NewBaseEvent(types.EventTypePlayerLeft),
		Player:    id,
		Reason:    reason,
	}

	if err := emitter.Emit(evt); err != nil {
		logger.Warn("发布成员离开事件失败", "error", err)
	}
}

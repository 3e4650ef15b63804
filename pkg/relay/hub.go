// Package relay 实现 wsrelay 客户端对接的中继服务器
package relay

import (
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/provider/wsrelay"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("relay")

// Hub 中继枢纽，维护在线客户端表并转发数据帧
//
// 两张表都带 TTL：客户端靠入站帧续期，大厅靠创建与加入续期。
// 到期条目由表在后台逐出，逐出回调负责断开对应连接。
type Hub struct {
	cfg     Config
	metrics *Metrics

	upgrader websocket.Upgrader
	clients  *expirable.LRU[types.Identity, *client]
	lobbies  *expirable.LRU[types.LobbyToken, *lobby]

	closed atomic.Bool
}

// New 创建中继枢纽
func New(cfg Config) (*Hub, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 客户端是游戏进程而非浏览器，来源检查交给部署层
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	h.clients = expirable.NewLRU[types.Identity, *client](cfg.MaxClients, h.onClientEvict, cfg.ClientTTL)
	h.lobbies = expirable.NewLRU[types.LobbyToken, *lobby](cfg.MaxLobbies, nil, cfg.LobbyTTL)
	return h, nil
}

// SetMetrics 挂接指标集，传 nil 关闭观测
func (h *Hub) SetMetrics(m *Metrics) {
	h.metrics = m
}

// Handler 返回 WebSocket 接入点的 HTTP 处理器
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(h.serveWS)
}

// Close 断开全部客户端并拒绝新连接
func (h *Hub) Close() {
	if h.closed.Swap(true) {
		return
	}
	for _, c := range h.clients.Values() {
		c.departed.Store(true)
	}
	h.clients.Purge()
	h.lobbies.Purge()
	h.syncGauges()
	logger.Info("中继枢纽已关闭")
}

// ════════════════════════════════════════════════════════════════════════
// 状态查询
// ════════════════════════════════════════════════════════════════════════

// HubStats 枢纽的瞬时状态
type HubStats struct {
	Clients int
	Lobbies int
}

// Stats 返回瞬时状态并顺带刷新量规
func (h *Hub) Stats() HubStats {
	s := HubStats{Clients: h.clients.Len(), Lobbies: h.lobbies.Len()}
	h.metrics.SetClients(s.Clients)
	h.metrics.SetLobbies(s.Lobbies)
	return s
}

// ClientIDs 返回排序后的在线客户端身份
func (h *Hub) ClientIDs() []types.Identity {
	ids := h.clients.Keys()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LobbyMembers 返回指定大厅排序后的成员，不存在返回 nil
func (h *Hub) LobbyMembers(token types.LobbyToken) []types.Identity {
	l, ok := h.lobbies.Peek(token)
	if !ok {
		return nil
	}
	return l.memberList()
}

// ════════════════════════════════════════════════════════════════════════
// 连接生命周期
// ════════════════════════════════════════════════════════════════════════

// serveWS 升级连接、完成注册握手并进入读循环
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, ErrHubClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("连接升级失败", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn.SetReadLimit(h.cfg.MaxFrameBytes)

	c, err := h.handshake(conn)
	if err != nil {
		logger.Debug("注册握手失败", "remote", r.RemoteAddr, "err", err)
		_ = conn.Close()
		return
	}

	h.register(c)
	go c.writePump(h.cfg)
	c.enqueueControl(wsrelay.Control{Op: wsrelay.OpWelcome, ID: c.id})

	logger.Info("客户端注册",
		"id", log.TruncateID(c.id.String(), 12),
		"name", c.name,
		"remote", r.RemoteAddr)

	h.readPump(c)
	h.deregister(c)
}

// handshake 等待并校验连接上的第一帧注册控制帧
func (h *Hub) handshake(conn *websocket.Conn) (*client, error) {
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.HelloTimeout))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if msgType != websocket.TextMessage {
		return nil, ErrBadHello
	}
	ctrl, err := wsrelay.DecodeControl(data)
	if err != nil {
		return nil, err
	}
	if ctrl.Op != wsrelay.OpHello || ctrl.ID.IsEmpty() {
		return nil, ErrBadHello
	}
	return newClient(ctrl.ID, ctrl.Name, conn, h.cfg.SendBuffer), nil
}

// register 把客户端写入在线表，身份重复时断开旧连接
func (h *Hub) register(c *client) {
	if old, ok := h.clients.Peek(c.id); ok && old != c {
		logger.Info("身份重复注册，断开旧连接",
			"id", log.TruncateID(c.id.String(), 12))
		old.departed.Store(true)
		h.clients.Remove(c.id)
	}
	h.clients.Add(c.id, c)
	h.metrics.ObserveConnect()
	h.syncGauges()
}

// deregister 把客户端移出在线表并清理大厅成员关系
func (h *Hub) deregister(c *client) {
	if cur, ok := h.clients.Peek(c.id); ok && cur == c {
		c.departed.Store(true)
		h.clients.Remove(c.id)
	}
	for _, token := range h.lobbies.Keys() {
		l, ok := h.lobbies.Peek(token)
		if !ok {
			continue
		}
		if l.leave(c.id) && l.size() == 0 {
			h.lobbies.Remove(token)
		}
	}
	c.close()
	h.syncGauges()
	logger.Info("客户端下线",
		"id", log.TruncateID(c.id.String(), 12),
		"name", c.name)
}

// onClientEvict 表逐出回调，在表的内部锁下执行，只许断开连接
func (h *Hub) onClientEvict(id types.Identity, c *client) {
	if !c.departed.Load() {
		h.metrics.ObserveEviction()
		logger.Info("客户端静默过期，逐出",
			"id", log.TruncateID(id.String(), 12))
	}
	c.close()
}

// touch 以一帧入站活动为客户端续期
func (h *Hub) touch(id types.Identity) {
	if c, ok := h.clients.Peek(id); ok {
		h.clients.Add(id, c)
	}
}

func (h *Hub) syncGauges() {
	h.metrics.SetClients(h.clients.Len())
	h.metrics.SetLobbies(h.lobbies.Len())
}

// ════════════════════════════════════════════════════════════════════════
// 帧处理
// ════════════════════════════════════════════════════════════════════════

// readPump 消费一条连接上的全部入站帧
func (h *Hub) readPump(c *client) {
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		h.touch(c.id)
		switch msgType {
		case websocket.BinaryMessage:
			h.routeFrame(c, data)
		case websocket.TextMessage:
			h.handleControl(c, data)
		}
	}
}

// routeFrame 把数据帧转发给目标客户端
//
// 上行帧的身份前缀是目标，转发前改写为来源。目标不在线或
// 写不进其发送缓冲时丢帧，慢消费者连同其连接一起断开。
func (h *Hub) routeFrame(from *client, raw []byte) {
	dest, payload, err := wsrelay.DecodeFrame(raw)
	if err != nil || dest.IsEmpty() {
		h.metrics.ObserveDropped(DropMalformed)
		return
	}

	dst, ok := h.clients.Get(dest)
	if !ok {
		h.metrics.ObserveDropped(DropUnknownDest)
		return
	}

	out := wsrelay.EncodeFrame(from.id, payload)
	if !dst.enqueue(websocket.BinaryMessage, out) {
		h.metrics.ObserveDropped(DropSlowConsumer)
		logger.Warn("慢消费者，断开连接",
			"id", log.TruncateID(dst.id.String(), 12),
			"buffer", h.cfg.SendBuffer)
		dst.close()
		return
	}
	h.metrics.ObserveRelayed(len(payload))
}

// handleControl 处理一帧入站控制帧
func (h *Hub) handleControl(c *client, raw []byte) {
	ctrl, err := wsrelay.DecodeControl(raw)
	if err != nil {
		h.metrics.ObserveDropped(DropMalformed)
		return
	}
	h.metrics.ObserveControl(ctrl.Op)

	switch ctrl.Op {
	case wsrelay.OpHello:
		// 连接早已注册，重复的注册帧没有意义

	case wsrelay.OpPresenceSet:
		if ctrl.Key == "" {
			return
		}
		c.setPresence(ctrl.Key, ctrl.Value)

	case wsrelay.OpPresenceClear:
		c.clearPresence()

	case wsrelay.OpLobbyCreate:
		h.createLobby(c, ctrl.Token, ctrl.Max)

	case wsrelay.OpLobbyJoin:
		h.joinLobby(c, ctrl.Token)

	case wsrelay.OpLobbyLeave:
		h.leaveLobby(c, ctrl.Token)

	case wsrelay.OpRosterPull:
		c.enqueueControl(wsrelay.Control{Op: wsrelay.OpRoster, Users: h.buildRoster(c.id)})

	default:
		c.enqueueControl(wsrelay.Control{Op: wsrelay.OpError,
			Reason: "unknown op: " + ctrl.Op})
	}
}

// ════════════════════════════════════════════════════════════════════════
// 大厅与花名册
// ════════════════════════════════════════════════════════════════════════

// createLobby 登记一间客户端创建的大厅，令牌重复时忽略
func (h *Hub) createLobby(c *client, token types.LobbyToken, max int) {
	if token.IsEmpty() || max <= 0 {
		c.enqueueControl(wsrelay.Control{Op: wsrelay.OpError,
			Reason: "lobby_create: invalid token or capacity"})
		return
	}
	if _, ok := h.lobbies.Peek(token); ok {
		return
	}
	h.lobbies.Add(token, newLobby(c.id, max))
	h.syncGauges()
	logger.Debug("大厅创建",
		"owner", log.TruncateID(c.id.String(), 12),
		"max", max)
}

func (h *Hub) joinLobby(c *client, token types.LobbyToken) {
	l, ok := h.lobbies.Get(token)
	if !ok {
		c.enqueueControl(wsrelay.Control{Op: wsrelay.OpError,
			Reason: "lobby_join: no such lobby"})
		return
	}
	if !l.join(c.id) {
		c.enqueueControl(wsrelay.Control{Op: wsrelay.OpError,
			Reason: "lobby_join: lobby full"})
		return
	}
	// 加入视为一次访问，为大厅续期
	h.lobbies.Add(token, l)
}

func (h *Hub) leaveLobby(c *client, token types.LobbyToken) {
	l, ok := h.lobbies.Peek(token)
	if !ok {
		return
	}
	if l.leave(c.id) && l.size() == 0 {
		h.lobbies.Remove(token)
		h.syncGauges()
	}
}

// buildRoster 汇总除 exclude 外全部在线客户端的快照
func (h *Hub) buildRoster(exclude types.Identity) []wsrelay.RosterUser {
	values := h.clients.Values()
	users := make([]wsrelay.RosterUser, 0, len(values))
	for _, other := range values {
		if other.id.Equal(exclude) {
			continue
		}
		users = append(users, wsrelay.RosterUser{
			ID:       other.id,
			Name:     other.name,
			Presence: other.presenceSnapshot(),
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

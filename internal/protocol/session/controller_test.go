package session

import (
	"sync"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungeon-together/go-gtnet/internal/core/registry"
	"github.com/gungeon-together/go-gtnet/internal/protocol/codec"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

const (
	localID  types.Identity = 100
	remoteID types.Identity = 200
	peerOne  types.Identity = 301
	peerTwo  types.Identity = 302
	peerTri  types.Identity = 303
)

// stubProvider 可脚本化的平台提供者
//
// 记录全部平台调用，测试按需预置入站队列与失败开关。
type stubProvider struct {
	mu    sync.Mutex
	local types.Identity

	inbox []inbound
	sent  []outbound

	presence map[string]string

	acceptFail bool
	sendFail   bool
	lobbyFail  bool

	accepted        []types.Identity
	closed          []types.Identity
	lobbiesCreated  int
	lobbiesJoined   []types.LobbyToken
	lobbiesLeft     []types.LobbyToken
	presenceCleared int
}

type inbound struct {
	from types.Identity
	data []byte
}

type outbound struct {
	dest types.Identity
	data []byte
}

func newStubProvider(local types.Identity) *stubProvider {
	return &stubProvider{local: local, presence: make(map[string]string)}
}

func (s *stubProvider) GetLocalIdentity() types.Identity { return s.local }

func (s *stubProvider) SendPacket(dest types.Identity, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendFail {
		return false
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.sent = append(s.sent, outbound{dest: dest, data: buf})
	return true
}

func (s *stubProvider) PollReceive() (types.Identity, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inbox) == 0 {
		return types.EmptyIdentity, nil, false
	}
	in := s.inbox[0]
	s.inbox = s.inbox[1:]
	return in.from, in.data, true
}

func (s *stubProvider) AcceptIncoming(peer types.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepted = append(s.accepted, peer)
	return !s.acceptFail
}

func (s *stubProvider) CloseSession(peer types.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, peer)
	return true
}

func (s *stubProvider) SetPresence(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence[key] = value
	return true
}

func (s *stubProvider) ClearPresence() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence = make(map[string]string)
	s.presenceCleared++
	return true
}

func (s *stubProvider) CreateLobby(maxMembers int) (types.LobbyToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lobbyFail {
		return "", false
	}
	s.lobbiesCreated++
	return "lobby-test", true
}

func (s *stubProvider) JoinLobby(token types.LobbyToken) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lobbyFail {
		return false
	}
	s.lobbiesJoined = append(s.lobbiesJoined, token)
	return true
}

func (s *stubProvider) LeaveLobby(token types.LobbyToken) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbiesLeft = append(s.lobbiesLeft, token)
	return true
}

func (s *stubProvider) ListFriendsInGame() []types.FriendInfo { return nil }

func (s *stubProvider) sentPackets() []outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]outbound, len(s.sent))
	copy(out, s.sent)
	return out
}

func (s *stubProvider) drainSent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}

func (s *stubProvider) inboxLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inbox)
}

func (s *stubProvider) closedSessions() []types.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Identity, len(s.closed))
	copy(out, s.closed)
	return out
}

func (s *stubProvider) presenceValue(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presence[key]
}

type stubIdentity struct {
	id types.Identity
}

func (s *stubIdentity) Local() types.Identity { return s.id }
func (s *stubIdentity) Bound() bool           { return !s.id.IsEmpty() }

// captureBus 捕获发布事件的测试总线
type captureBus struct {
	mu     sync.Mutex
	events []interface{}
}

func (b *captureBus) Subscribe(_ interface{}, _ ...interfaces.SubscriptionOpt) (interfaces.Subscription, error) {
	return nil, nil
}

func (b *captureBus) Emitter(_ interface{}, _ ...interfaces.EmitterOpt) (interfaces.Emitter, error) {
	return &captureEmitter{bus: b}, nil
}

func (b *captureBus) Events() []interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]interface{}, len(b.events))
	copy(out, b.events)
	return out
}

type captureEmitter struct {
	bus *captureBus
}

func (e *captureEmitter) Emit(evt interface{}) error {
	e.bus.mu.Lock()
	defer e.bus.mu.Unlock()
	e.bus.events = append(e.bus.events, evt)
	return nil
}

func (e *captureEmitter) Close() error { return nil }

func stateChanges(bus *captureBus) []*types.EvtSessionStateChanged {
	var out []*types.EvtSessionStateChanged
	for _, e := range bus.Events() {
		if evt, ok := e.(*types.EvtSessionStateChanged); ok {
			out = append(out, evt)
		}
	}
	return out
}

func joinedEvents(bus *captureBus) []*types.EvtPlayerJoined {
	var out []*types.EvtPlayerJoined
	for _, e := range bus.Events() {
		if evt, ok := e.(*types.EvtPlayerJoined); ok {
			out = append(out, evt)
		}
	}
	return out
}

func leftEvents(bus *captureBus) []*types.EvtPlayerLeft {
	var out []*types.EvtPlayerLeft
	for _, e := range bus.Events() {
		if evt, ok := e.(*types.EvtPlayerLeft); ok {
			out = append(out, evt)
		}
	}
	return out
}

// rig 组装一个完整的测试控制器
type rig struct {
	t    *testing.T
	ctrl *Controller
	prov *stubProvider
	reg  *registry.Registry
	clk  *clock.Mock
	cdc  *codec.Codec
	bus  *captureBus
}

func newRig(t *testing.T, mutate ...func(*Config)) *rig {
	t.Helper()

	cfg := NewConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	cdc := codec.NewCodec()
	reg, err := registry.New(registry.NewConfig())
	require.NoError(t, err)
	clk := clock.NewMock()
	reg.SetClock(clk)

	prov := newStubProvider(localID)
	ctrl, err := New(cfg, cdc, reg, prov, &stubIdentity{id: localID})
	require.NoError(t, err)

	bus := &captureBus{}
	ctrl.SetClock(clk)
	ctrl.SetEventBus(bus)
	ctrl.SetProfile(Profile{Name: "Gunslinger", Scene: "tt_foyer"})

	return &rig{t: t, ctrl: ctrl, prov: prov, reg: reg, clk: clk, cdc: cdc, bus: bus}
}

// deliver 把一条对端报文放入接收队列
func (r *rig) deliver(from types.Identity, pt types.PacketType, payload any) {
	r.t.Helper()

	raw, err := r.cdc.MarshalPayload(pt, payload)
	require.NoError(r.t, err)
	data, err := r.cdc.Encode(types.Packet{Type: pt, Sender: from, Payload: raw})
	require.NoError(r.t, err)

	r.prov.mu.Lock()
	r.prov.inbox = append(r.prov.inbox, inbound{from: from, data: data})
	r.prov.mu.Unlock()
}

// typesFor 返回发往 dest 的出站包类型序列
func (r *rig) typesFor(dest types.Identity) []types.PacketType {
	r.t.Helper()

	var out []types.PacketType
	for _, o := range r.prov.sentPackets() {
		if o.dest != dest {
			continue
		}
		pkt, err := r.cdc.Decode(o.data)
		require.NoError(r.t, err)
		out = append(out, pkt.Type)
	}
	return out
}

// lastPayloadFor 解码发往 dest 的最后一个 pt 类型负载
func (r *rig) lastPayloadFor(dest types.Identity, pt types.PacketType) any {
	r.t.Helper()

	var found any
	for _, o := range r.prov.sentPackets() {
		if o.dest != dest {
			continue
		}
		pkt, err := r.cdc.Decode(o.data)
		require.NoError(r.t, err)
		if pkt.Type != pt {
			continue
		}
		v, err := r.cdc.UnmarshalPayload(pkt)
		require.NoError(r.t, err)
		found = v
	}
	require.NotNil(r.t, found, "no %v packet sent to %v", pt, dest)
	return found
}

// hosting 把控制器推进到托管状态
func (r *rig) hosting() {
	r.t.Helper()
	require.NoError(r.t, r.ctrl.StartHosting())
}

// admit 托管期间接纳一个对端（送达握手并 tick）
func (r *rig) admit(peer types.Identity, name string) {
	r.t.Helper()
	r.deliver(peer, types.PacketHandshake, types.HandshakeData{Name: name, Version: types.Version})
	r.ctrl.Tick(r.clk.Now())
	require.Contains(r.t, r.ctrl.Peers(), peer)
}

// connected 把控制器推进到已连接状态
func (r *rig) connected(host types.Identity) {
	r.t.Helper()
	require.NoError(r.t, r.ctrl.StartJoining(host, ""))
	r.deliver(host, types.PacketWelcome, types.WelcomeData{
		HostName: "Boss", SceneID: "tt_castle", Version: types.Version,
	})
	r.ctrl.Tick(r.clk.Now())
	require.Equal(r.t, types.SessionConnected, r.ctrl.State())
}

// ════════════════════════════════════════════════════════════════════════════
//                                  构造
// ════════════════════════════════════════════════════════════════════════════

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		reg, err := registry.New(registry.NewConfig())
		require.NoError(t, err)

		ctrl, err := New(NewConfig(), codec.NewCodec(), reg, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, types.SessionIdle, ctrl.State())
		assert.True(t, ctrl.Host().IsEmpty())
		assert.Empty(t, ctrl.Peers())
	})

	t.Run("NilCodec", func(t *testing.T) {
		reg, err := registry.New(registry.NewConfig())
		require.NoError(t, err)

		_, err = New(NewConfig(), nil, reg, nil, nil)
		assert.ErrorIs(t, err, ErrNilCodec)
	})

	t.Run("NilRegistry", func(t *testing.T) {
		_, err := New(NewConfig(), codec.NewCodec(), nil, nil, nil)
		assert.ErrorIs(t, err, ErrNilRegistry)
	})

	t.Run("InvalidConfig", func(t *testing.T) {
		reg, err := registry.New(registry.NewConfig())
		require.NoError(t, err)

		cfg := NewConfig()
		cfg.MaxPeers = 0
		_, err = New(cfg, codec.NewCodec(), reg, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                开始托管
// ════════════════════════════════════════════════════════════════════════════

func TestController_StartHosting(t *testing.T) {
	t.Run("FromIdle", func(t *testing.T) {
		r := newRig(t)

		require.NoError(t, r.ctrl.StartHosting())

		assert.Equal(t, types.SessionHosting, r.ctrl.State())
		assert.Equal(t, 1, r.reg.Len())
		assert.Equal(t, 1, r.prov.lobbiesCreated)
		assert.Equal(t, types.PresenceModeHosting, r.prov.presenceValue(types.PresenceKeyMode))
		assert.Equal(t, localID.String(), r.prov.presenceValue(types.PresenceKeyConnect))
		assert.Equal(t, types.Version, r.prov.presenceValue(types.PresenceKeyVersion))

		changes := stateChanges(r.bus)
		require.Len(t, changes, 1)
		assert.Equal(t, types.SessionIdle, changes[0].Old)
		assert.Equal(t, types.SessionHosting, changes[0].New)
	})

	t.Run("NotIdle", func(t *testing.T) {
		r := newRig(t)
		r.hosting()

		assert.ErrorIs(t, r.ctrl.StartHosting(), ErrNotIdle)
	})

	t.Run("IdentityUnavailable", func(t *testing.T) {
		reg, err := registry.New(registry.NewConfig())
		require.NoError(t, err)

		ctrl, err := New(NewConfig(), codec.NewCodec(), reg, newStubProvider(types.EmptyIdentity), &stubIdentity{})
		require.NoError(t, err)

		assert.ErrorIs(t, ctrl.StartHosting(), ErrIdentityUnavailable)
		assert.Equal(t, types.SessionIdle, ctrl.State())
	})

	t.Run("LobbyFailureDegrades", func(t *testing.T) {
		r := newRig(t)
		r.prov.lobbyFail = true

		require.NoError(t, r.ctrl.StartHosting())
		assert.Equal(t, types.SessionHosting, r.ctrl.State())
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                发起加入
// ════════════════════════════════════════════════════════════════════════════

func TestController_StartJoining(t *testing.T) {
	t.Run("SendsHandshake", func(t *testing.T) {
		r := newRig(t)

		require.NoError(t, r.ctrl.StartJoining(remoteID, ""))

		assert.Equal(t, types.SessionConnecting, r.ctrl.State())
		assert.Equal(t, []types.PacketType{types.PacketHandshake}, r.typesFor(remoteID))

		hs := r.lastPayloadFor(remoteID, types.PacketHandshake).(types.HandshakeData)
		assert.Equal(t, "Gunslinger", hs.Name)
		assert.Equal(t, types.Version, hs.Version)
	})

	t.Run("WithLobbyToken", func(t *testing.T) {
		r := newRig(t)

		require.NoError(t, r.ctrl.StartJoining(remoteID, "lobby-7"))
		assert.Equal(t, []types.LobbyToken{"lobby-7"}, r.prov.lobbiesJoined)
	})

	t.Run("EmptyTarget", func(t *testing.T) {
		r := newRig(t)
		assert.ErrorIs(t, r.ctrl.StartJoining(types.EmptyIdentity, ""), ErrInvalidTarget)
	})

	t.Run("SelfTarget", func(t *testing.T) {
		r := newRig(t)
		assert.ErrorIs(t, r.ctrl.StartJoining(localID, ""), ErrInvalidTarget)
	})

	t.Run("NotIdle", func(t *testing.T) {
		r := newRig(t)
		r.hosting()

		assert.ErrorIs(t, r.ctrl.StartJoining(remoteID, ""), ErrNotIdle)
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                停止会话
// ════════════════════════════════════════════════════════════════════════════

func TestController_StopSession(t *testing.T) {
	t.Run("WhileHosting", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.admit(peerOne, "Pilot")
		r.admit(peerTwo, "Marine")

		require.NoError(t, r.ctrl.StopSession())

		assert.Equal(t, types.SessionIdle, r.ctrl.State())
		assert.Empty(t, r.ctrl.Peers())
		assert.Equal(t, 0, r.reg.Len())
		assert.ElementsMatch(t, []types.Identity{peerOne, peerTwo}, r.prov.closedSessions())
		assert.Equal(t, []types.LobbyToken{"lobby-test"}, r.prov.lobbiesLeft)
		assert.Equal(t, 1, r.prov.presenceCleared)

		left := leftEvents(r.bus)
		require.Len(t, left, 2)
		for _, evt := range left {
			assert.Equal(t, types.LeaveReasonLocal, evt.Reason)
		}
	})

	t.Run("WhileConnected", func(t *testing.T) {
		r := newRig(t)
		r.connected(remoteID)

		require.NoError(t, r.ctrl.StopSession())

		assert.Equal(t, types.SessionIdle, r.ctrl.State())
		assert.True(t, r.ctrl.Host().IsEmpty())
		assert.Contains(t, r.prov.closedSessions(), remoteID)
		assert.Equal(t, 1, r.prov.presenceCleared)

		left := leftEvents(r.bus)
		require.Len(t, left, 1)
		assert.Equal(t, remoteID, left[0].Player)
		assert.Equal(t, types.LeaveReasonLocal, left[0].Reason)
	})

	t.Run("WhileIdle", func(t *testing.T) {
		r := newRig(t)

		require.NoError(t, r.ctrl.StopSession())
		assert.Empty(t, r.bus.Events())
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                加入意图
// ════════════════════════════════════════════════════════════════════════════

func TestController_OnJoinSignal(t *testing.T) {
	t.Run("WhileHostingAdmits", func(t *testing.T) {
		r := newRig(t)
		r.hosting()

		r.ctrl.OnJoinSignal(types.JoinSignal{
			Target: peerOne,
			Source: types.SignalSourcePassive,
			At:     r.clk.Now(),
		})

		assert.Equal(t, []types.Identity{peerOne}, r.ctrl.Peers())
		assert.Equal(t, []types.PacketType{types.PacketWelcome}, r.typesFor(peerOne))

		joined := joinedEvents(r.bus)
		require.Len(t, joined, 1)
		assert.Equal(t, peerOne, joined[0].Player)
	})

	t.Run("WhileIdleAutoJoins", func(t *testing.T) {
		r := newRig(t)

		r.ctrl.OnJoinSignal(types.JoinSignal{
			Target: remoteID,
			Source: types.SignalSourceInvite,
			Lobby:  "lobby-9",
			At:     r.clk.Now(),
		})

		assert.Equal(t, types.SessionConnecting, r.ctrl.State())
		assert.Equal(t, []types.PacketType{types.PacketHandshake}, r.typesFor(remoteID))
		assert.Equal(t, []types.LobbyToken{"lobby-9"}, r.prov.lobbiesJoined)
	})

	t.Run("WhileConnectingIgnored", func(t *testing.T) {
		r := newRig(t)
		require.NoError(t, r.ctrl.StartJoining(remoteID, ""))

		r.ctrl.OnJoinSignal(types.JoinSignal{Target: peerOne, Source: types.SignalSourceInvite})

		assert.Equal(t, types.SessionConnecting, r.ctrl.State())
		assert.Empty(t, r.typesFor(peerOne))
	})

	t.Run("EmptyTargetIgnored", func(t *testing.T) {
		r := newRig(t)

		r.ctrl.OnJoinSignal(types.JoinSignal{})
		assert.Equal(t, types.SessionIdle, r.ctrl.State())
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                成员接纳
// ════════════════════════════════════════════════════════════════════════════

func TestController_AdmitPeer(t *testing.T) {
	t.Run("OrderPreserved", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.admit(peerOne, "Pilot")
		r.admit(peerTwo, "Marine")
		r.admit(peerTri, "Hunter")

		assert.Equal(t, []types.Identity{peerOne, peerTwo, peerTri}, r.ctrl.Peers())
		assert.Equal(t, "Pilot", r.ctrl.PeerName(peerOne))
		assert.Equal(t, "Marine", r.ctrl.PeerName(peerTwo))
	})

	t.Run("RespectsMaxPeers", func(t *testing.T) {
		r := newRig(t, func(c *Config) { c.MaxPeers = 2 })
		r.hosting()
		r.admit(peerOne, "Pilot")
		r.admit(peerTwo, "Marine")

		r.deliver(peerTri, types.PacketHandshake, types.HandshakeData{Name: "Hunter", Version: types.Version})
		r.ctrl.Tick(r.clk.Now())

		assert.NotContains(t, r.ctrl.Peers(), peerTri)
		assert.Empty(t, r.typesFor(peerTri))
	})

	t.Run("IdempotentReWelcome", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.admit(peerOne, "Pilot")

		// 应答可能丢失，重复握手只重发应答
		r.deliver(peerOne, types.PacketHandshake, types.HandshakeData{Name: "Pilot", Version: types.Version})
		r.ctrl.Tick(r.clk.Now())

		assert.Len(t, r.ctrl.Peers(), 1)
		assert.Equal(t, []types.PacketType{types.PacketWelcome, types.PacketWelcome}, r.typesFor(peerOne))
		assert.Len(t, joinedEvents(r.bus), 1)
	})

	t.Run("AcceptFailureRejects", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.prov.acceptFail = true

		r.deliver(peerOne, types.PacketHandshake, types.HandshakeData{Name: "Pilot", Version: types.Version})
		r.ctrl.Tick(r.clk.Now())

		assert.Empty(t, r.ctrl.Peers())
		assert.Empty(t, r.typesFor(peerOne))
	})

	t.Run("PlayerCountTracksMembers", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.admit(peerOne, "Pilot")

		recs := r.reg.ListActive(types.EmptyIdentity)
		require.Len(t, recs, 1)
		assert.Equal(t, 2, recs[0].PlayerCount)
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                定向发送
// ════════════════════════════════════════════════════════════════════════════

func TestController_SendTo(t *testing.T) {
	t.Run("ToAdmittedPeer", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.admit(peerOne, "Pilot")
		r.prov.drainSent()

		ok := r.ctrl.SendTo(peerOne, types.PacketPlayerState, types.PlayerState{X: 3, Y: 4})
		assert.True(t, ok)
		assert.Equal(t, []types.PacketType{types.PacketPlayerState}, r.typesFor(peerOne))
	})

	t.Run("ToHost", func(t *testing.T) {
		r := newRig(t)
		r.connected(remoteID)
		r.prov.drainSent()

		ok := r.ctrl.SendTo(remoteID, types.PacketPlayerAim, types.PlayerAim{AimX: 1})
		assert.True(t, ok)
		assert.Equal(t, []types.PacketType{types.PacketPlayerAim}, r.typesFor(remoteID))
	})

	t.Run("NonMemberRejected", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.prov.drainSent()

		assert.False(t, r.ctrl.SendTo(peerOne, types.PacketPlayerState, types.PlayerState{}))
		assert.Empty(t, r.prov.sentPackets())
	})

	t.Run("IdleRejected", func(t *testing.T) {
		r := newRig(t)

		assert.False(t, r.ctrl.SendTo(remoteID, types.PacketPlayerState, types.PlayerState{}))
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                  广播
// ════════════════════════════════════════════════════════════════════════════

func TestController_Broadcast(t *testing.T) {
	t.Run("HostingReachesAllPeers", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.admit(peerOne, "Pilot")
		r.admit(peerTwo, "Marine")
		r.prov.drainSent()

		sent := r.ctrl.Broadcast(types.PacketPlayerState, types.PlayerState{X: 1})
		assert.Equal(t, 2, sent)
		assert.Equal(t, []types.PacketType{types.PacketPlayerState}, r.typesFor(peerOne))
		assert.Equal(t, []types.PacketType{types.PacketPlayerState}, r.typesFor(peerTwo))
	})

	t.Run("ConnectedReachesHost", func(t *testing.T) {
		r := newRig(t)
		r.connected(remoteID)
		r.prov.drainSent()

		sent := r.ctrl.Broadcast(types.PacketPlayerState, types.PlayerState{X: 1})
		assert.Equal(t, 1, sent)
		assert.Equal(t, []types.PacketType{types.PacketPlayerState}, r.typesFor(remoteID))
	})

	t.Run("IdleSendsNothing", func(t *testing.T) {
		r := newRig(t)

		assert.Zero(t, r.ctrl.Broadcast(types.PacketPlayerState, types.PlayerState{}))
		assert.Empty(t, r.prov.sentPackets())
	})

	t.Run("SubmitFailureNotCounted", func(t *testing.T) {
		r := newRig(t)
		r.hosting()
		r.admit(peerOne, "Pilot")
		r.prov.sendFail = true

		assert.Zero(t, r.ctrl.Broadcast(types.PacketPlayerState, types.PlayerState{}))
	})
}

// ════════════════════════════════════════════════════════════════════════════
//                                会话档案
// ════════════════════════════════════════════════════════════════════════════

func TestController_SetProfile(t *testing.T) {
	r := newRig(t)
	r.hosting()
	r.admit(peerOne, "Pilot")

	r.ctrl.SetProfile(Profile{Name: "Robot", Scene: "tt_forge"})

	// 档案变更后的重复握手拿到新应答
	r.deliver(peerOne, types.PacketHandshake, types.HandshakeData{Name: "Pilot", Version: types.Version})
	r.ctrl.Tick(r.clk.Now())

	welcome := r.lastPayloadFor(peerOne, types.PacketWelcome).(types.WelcomeData)
	assert.Equal(t, "Robot", welcome.HostName)
	assert.Equal(t, "tt_forge", welcome.SceneID)
}

// ════════════════════════════════════════════════════════════════════════════
//                              完整生命周期
// ════════════════════════════════════════════════════════════════════════════

func TestController_HostLifecycle(t *testing.T) {
	r := newRig(t)

	require.NoError(t, r.ctrl.StartHosting())
	r.admit(peerOne, "Pilot")
	r.admit(peerTwo, "Marine")
	require.NoError(t, r.ctrl.StopSession())

	assert.Equal(t, types.SessionIdle, r.ctrl.State())
	assert.Empty(t, r.ctrl.Peers())
	assert.Equal(t, 0, r.reg.Len())

	changes := stateChanges(r.bus)
	require.Len(t, changes, 2)
	assert.Equal(t, types.SessionHosting, changes[0].New)
	assert.Equal(t, types.SessionIdle, changes[1].New)

	// 停止后允许立即再次托管
	require.NoError(t, r.ctrl.StartHosting())
	assert.Equal(t, types.SessionHosting, r.ctrl.State())
}

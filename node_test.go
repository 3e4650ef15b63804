package gtnet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/pkg/provider/fakenet"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

const (
	hostID Identity = 76561198000000001
	joinID Identity = 76561198000000002
)

// duo 一对经由 fakenet 互为好友的节点（外部驱动）
type duo struct {
	hub      *fakenet.Hub
	hostProv *fakenet.Provider
	joinProv *fakenet.Provider
	host     *Node
	join     *Node
	now      time.Time
}

func newDuo(t *testing.T) *duo {
	t.Helper()

	hub := fakenet.NewHub()
	hp, err := hub.NewUser(hostID, "Boss")
	require.NoError(t, err)
	jp, err := hub.NewUser(joinID, "Gunslinger")
	require.NoError(t, err)
	require.NoError(t, hub.Befriend(hostID, joinID))

	return &duo{
		hub:      hub,
		hostProv: hp,
		joinProv: jp,
		host:     newTestNode(t, hp, WithProfile(Profile{Name: "Boss", Scene: "tt_castle"})),
		join:     newTestNode(t, jp, WithProfile(Profile{Name: "Gunslinger", Scene: "tt_foyer"})),
		now:      time.Now(),
	}
}

func newTestNode(t *testing.T, p *fakenet.Provider, opts ...Option) *Node {
	t.Helper()

	base := []Option{WithProvider(p), WithAutoTick(false)}
	node, err := New(append(base, opts...)...)
	require.NoError(t, err)
	require.NoError(t, node.Start(context.Background()))
	t.Cleanup(func() { _ = node.Close() })
	return node
}

// pump 交替推进两个节点若干周期
func (d *duo) pump(steps int) {
	for i := 0; i < steps; i++ {
		d.now = d.now.Add(100 * time.Millisecond)
		d.host.Tick(d.now)
		d.join.Tick(d.now)
	}
}

// connect 完成主持、发现与加入，返回时两端进入稳定会话
func (d *duo) connect(t *testing.T) {
	t.Helper()

	require.NoError(t, d.host.StartHosting())
	d.pump(1)
	require.Equal(t, hostID, d.join.BestHost(EmptyIdentity))
	require.NoError(t, d.join.JoinBest(EmptyIdentity))
	d.pump(2)
	require.Equal(t, SessionConnected, d.join.SessionState())
}

func waitEvent(t *testing.T, sub Subscription) interface{} {
	t.Helper()
	select {
	case ev := <-sub.Out():
		return ev
	case <-time.After(time.Second):
		t.Fatal("等待事件超时")
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
// 构造与选项
// ════════════════════════════════════════════════════════════════════════════

func TestNew_Defaults(t *testing.T) {
	node, err := New()
	require.NoError(t, err)

	assert.Equal(t, StateIdle, node.State())
	assert.False(t, node.IsRunning())
	assert.Equal(t, SessionIdle, node.SessionState())
	assert.Equal(t, EmptyIdentity, node.LocalID())

	require.NoError(t, node.Close())
	assert.Equal(t, StateStopped, node.State())
}

func TestNew_OptionErrors(t *testing.T) {
	cases := []struct {
		name string
		opt  Option
		want error
	}{
		{"nil config", WithConfig(nil), ErrNilOption},
		{"nil provider", WithProvider(nil), ErrNilOption},
		{"zero tick interval", WithTickInterval(0), ErrInvalidOption},
		{"zero max peers", WithMaxPeers(0), ErrInvalidOption},
		{"zero host ttl", WithHostTTL(0), ErrInvalidOption},
		{"zero dedup window", WithDedupWindow(0), ErrInvalidOption},
		{"unknown preset", WithPreset("turbo"), ErrUnknownPreset},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opt)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNew_InvalidConfigRejected(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Session.MaxPeers = 0

	_, err := New(WithConfig(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNew_PresetApplied(t *testing.T) {
	node, err := New(WithPreset(PresetNameMinimal))
	require.NoError(t, err)
	t.Cleanup(func() { _ = node.Close() })

	cfg := node.Config()
	assert.False(t, cfg.Node.AutoTick)
	assert.False(t, cfg.Discovery.EnableFriendScan)
	assert.False(t, cfg.Signals.EnableLaunchArgs)
}

func TestNode_ConfigIsolated(t *testing.T) {
	node, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = node.Close() })

	cfg := node.Config()
	cfg.Session.MaxPeers = 99
	assert.NotEqual(t, 99, node.Config().Session.MaxPeers, "返回的配置是副本")
}

// ════════════════════════════════════════════════════════════════════════════
// 生命周期
// ════════════════════════════════════════════════════════════════════════════

func TestNode_Lifecycle(t *testing.T) {
	hub := fakenet.NewHub()
	p, err := hub.NewUser(hostID, "Boss")
	require.NoError(t, err)

	node, err := New(WithProvider(p), WithAutoTick(false))
	require.NoError(t, err)

	require.ErrorIs(t, node.StartHosting(), ErrNotStarted)

	ctx := context.Background()
	require.NoError(t, node.Start(ctx))
	assert.True(t, node.IsRunning())
	assert.Equal(t, hostID, node.LocalID())
	require.ErrorIs(t, node.Start(ctx), ErrAlreadyStarted)

	require.NoError(t, node.Close())
	require.NoError(t, node.Close(), "重复关闭幂等")
	assert.Equal(t, StateStopped, node.State())
	require.ErrorIs(t, node.Start(ctx), ErrNodeClosed)
	require.ErrorIs(t, node.StartHosting(), ErrNodeClosed)
}

func TestNode_CloseStopsSession(t *testing.T) {
	d := newDuo(t)
	d.connect(t)

	require.NoError(t, d.host.Close())

	assert.Empty(t, d.hostProv.Presence(), "关闭清空富状态")
	assert.Equal(t, 0, d.hub.Lobbies(), "关闭退出大厅")
}

// ════════════════════════════════════════════════════════════════════════════
// 发现与加入
// ════════════════════════════════════════════════════════════════════════════

func TestNode_HostingAdvertises(t *testing.T) {
	d := newDuo(t)

	require.NoError(t, d.host.StartHosting())
	assert.Equal(t, SessionHosting, d.host.SessionState())

	presence := d.hostProv.Presence()
	assert.Equal(t, types.PresenceModeHosting, presence[types.PresenceKeyMode])
	assert.Equal(t, hostID.String(), presence[types.PresenceKeyConnect])
	assert.Equal(t, types.Version, presence[types.PresenceKeyVersion])
	assert.Equal(t, 1, d.hub.Lobbies(), "托管随即提交建厅")
}

func TestNode_FriendDiscovery(t *testing.T) {
	d := newDuo(t)

	require.NoError(t, d.host.StartHosting())
	d.pump(1)

	hosts := d.join.Hosts()
	require.Len(t, hosts, 1)
	assert.Equal(t, hostID, hosts[0].ID)
	assert.Equal(t, "Boss", hosts[0].DisplayName)
	assert.Equal(t, hostID, d.join.BestHost(EmptyIdentity))

	assert.Empty(t, d.host.Hosts(), "本机不出现在自己的发现列表里")
}

func TestNode_JoinBestNoHosts(t *testing.T) {
	d := newDuo(t)
	assert.ErrorIs(t, d.join.JoinBest(EmptyIdentity), ErrNoHosts)
}

func TestNode_JoinBestConnects(t *testing.T) {
	d := newDuo(t)
	d.connect(t)

	assert.Equal(t, SessionConnected, d.join.SessionState())
	assert.Equal(t, hostID, d.join.Host())
	assert.Equal(t, []Identity{hostID}, d.join.Peers())
	assert.Equal(t, "Boss", d.join.PeerName(hostID))

	assert.Equal(t, SessionHosting, d.host.SessionState())
	assert.Equal(t, []Identity{joinID}, d.host.Peers())
	assert.Equal(t, "Gunslinger", d.host.PeerName(joinID))

	presence := d.joinProv.Presence()
	assert.Equal(t, types.PresenceModePlaying, presence[types.PresenceKeyMode])
	assert.Equal(t, hostID.String(), presence[types.PresenceKeyConnect])
}

func TestNode_JoinHostDirect(t *testing.T) {
	d := newDuo(t)

	require.NoError(t, d.host.StartHosting())
	require.NoError(t, d.join.JoinHost(hostID, ""))
	assert.Equal(t, SessionConnecting, d.join.SessionState())

	d.pump(2)
	assert.Equal(t, SessionConnected, d.join.SessionState())
}

func TestNode_InviteAutoJoin(t *testing.T) {
	d := newDuo(t)
	require.NoError(t, d.host.StartHosting())

	tokens := d.hub.LobbyTokens()
	require.Len(t, tokens, 1)

	d.join.DeliverInvite(hostID, tokens[0])
	d.pump(1)
	assert.Equal(t, SessionConnecting, d.join.SessionState(), "邀请自动转为加入")

	d.pump(2)
	assert.Equal(t, SessionConnected, d.join.SessionState())
	assert.Equal(t, []Identity{hostID, joinID}, d.hub.LobbyMembers(tokens[0]),
		"携带令牌的邀请同时入厅")
}

// ════════════════════════════════════════════════════════════════════════════
// 数据面
// ════════════════════════════════════════════════════════════════════════════

func TestNode_DataExchange(t *testing.T) {
	d := newDuo(t)
	d.connect(t)

	var states []PlayerState
	d.join.HandlePacket(PacketPlayerState, func(sender Identity, payload any) {
		assert.Equal(t, hostID, sender)
		states = append(states, payload.(PlayerState))
	})

	require.Equal(t, 1, d.host.Broadcast(PacketPlayerState, PlayerState{X: 3, Y: 4, Flags: PlayerFlagFiring}))
	d.pump(1)
	require.Len(t, states, 1)
	assert.Equal(t, float32(3), states[0].X)
	assert.Equal(t, uint32(PlayerFlagFiring), states[0].Flags)

	var aims int
	d.host.HandlePacket(PacketPlayerAim, func(sender Identity, payload any) {
		assert.Equal(t, joinID, sender)
		aims++
	})

	require.True(t, d.join.SendTo(hostID, PacketPlayerAim, PlayerAim{AimX: 1, WeaponID: 7}))
	d.pump(1)
	assert.Equal(t, 1, aims)
}

func TestNode_SendToNonMember(t *testing.T) {
	d := newDuo(t)
	d.connect(t)

	assert.False(t, d.join.SendTo(999, PacketPlayerAim, PlayerAim{}), "非会话成员拒绝")
	assert.False(t, d.host.SendTo(hostID, PacketPlayerAim, PlayerAim{}), "本机不是自己的成员")
}

// ════════════════════════════════════════════════════════════════════════════
// 事件与统计
// ════════════════════════════════════════════════════════════════════════════

func TestNode_Events(t *testing.T) {
	d := newDuo(t)

	joined, err := d.host.Subscribe(new(EvtPlayerJoined))
	require.NoError(t, err)
	defer joined.Close()

	changes, err := d.join.Subscribe(new(EvtSessionStateChanged), BufSize(8))
	require.NoError(t, err)
	defer changes.Close()

	d.connect(t)

	pj := waitEvent(t, joined).(*EvtPlayerJoined)
	assert.Equal(t, joinID, pj.Player)
	assert.Equal(t, "Gunslinger", pj.Name)

	first := waitEvent(t, changes).(*EvtSessionStateChanged)
	assert.Equal(t, SessionIdle, first.Old)
	assert.Equal(t, SessionConnecting, first.New)

	second := waitEvent(t, changes).(*EvtSessionStateChanged)
	assert.Equal(t, SessionConnecting, second.Old)
	assert.Equal(t, SessionConnected, second.New)
}

func TestNode_StatsTracksTraffic(t *testing.T) {
	d := newDuo(t)
	d.connect(t)

	hostStats := d.host.Stats()
	assert.EqualValues(t, 1, hostStats.Handshakes)
	assert.NotZero(t, hostStats.PacketsSent)
	assert.NotZero(t, hostStats.PacketsRecv)
	assert.NotZero(t, hostStats.BytesRecv)

	flow := d.host.StatsForPeer(joinID)
	assert.NotZero(t, flow.PacketsIn)
	assert.NotZero(t, flow.PacketsOut)

	byType := d.host.StatsByType()
	assert.NotZero(t, byType[PacketHandshake].PacketsIn)

	typeFlow := d.join.StatsForType(PacketWelcome)
	assert.NotZero(t, typeFlow.PacketsIn)
}

// ════════════════════════════════════════════════════════════════════════════
// 会话终止传播
// ════════════════════════════════════════════════════════════════════════════

func TestNode_PeerSilenceDropsOnHost(t *testing.T) {
	d := newDuo(t)
	d.connect(t)

	require.NoError(t, d.join.StopSession())
	assert.Equal(t, SessionIdle, d.join.SessionState())

	// 客户端不辞而别，主机经心跳静默在存活窗口后剔除
	d.now = d.now.Add(16 * time.Second)
	d.host.Tick(d.now)
	assert.Empty(t, d.host.Peers())
	assert.Equal(t, SessionHosting, d.host.SessionState(), "主机继续托管")
}

// ════════════════════════════════════════════════════════════════════════════
// 自动周期与便捷入口
// ════════════════════════════════════════════════════════════════════════════

func TestNode_AutoTick(t *testing.T) {
	hub := fakenet.NewHub()
	hp, err := hub.NewUser(hostID, "Boss")
	require.NoError(t, err)
	jp, err := hub.NewUser(joinID, "Gunslinger")
	require.NoError(t, err)
	require.NoError(t, hub.Befriend(hostID, joinID))

	ctx := context.Background()

	host, err := New(WithProvider(hp), WithTickInterval(5*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, host.Start(ctx))
	t.Cleanup(func() { _ = host.Close() })

	join, err := New(WithProvider(jp), WithTickInterval(5*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, join.Start(ctx))
	t.Cleanup(func() { _ = join.Close() })

	require.NoError(t, host.StartHosting())

	require.Eventually(t, func() bool {
		return join.BestHost(EmptyIdentity) == hostID
	}, 2*time.Second, 10*time.Millisecond, "内部定时应驱动好友发现")

	require.NoError(t, join.JoinBest(EmptyIdentity))
	require.Eventually(t, func() bool {
		return join.SessionState() == SessionConnected
	}, 2*time.Second, 10*time.Millisecond, "内部定时应完成握手")
}

func TestHelpers_HostAndJoin(t *testing.T) {
	hub := fakenet.NewHub()
	hp, err := hub.NewUser(hostID, "Boss")
	require.NoError(t, err)
	jp, err := hub.NewUser(joinID, "Gunslinger")
	require.NoError(t, err)

	ctx := context.Background()

	host, err := Host(ctx, hp, WithAutoTick(false), WithProfile(Profile{Name: "Boss"}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Close() })
	assert.Equal(t, SessionHosting, host.SessionState())

	join, err := Join(ctx, jp, hostID, WithAutoTick(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = join.Close() })
	assert.Equal(t, SessionConnecting, join.SessionState())
}

// ════════════════════════════════════════════════════════════════════════════
// 预设与版本
// ════════════════════════════════════════════════════════════════════════════

func TestPresets(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{PresetNameLAN, PresetNameRelaxed, PresetNameMinimal},
		AvailablePresets())

	assert.True(t, IsValidPreset(""))
	assert.True(t, IsValidPreset(PresetNameLAN))
	assert.False(t, IsValidPreset("turbo"))

	info := PresetInfo()
	for _, name := range AvailablePresets() {
		cfg, err := GetConfigByPreset(name)
		require.NoError(t, err, name)
		require.NoError(t, cfg.Validate(), name)
		assert.NotEmpty(t, info[name], name)
	}

	_, err := GetConfigByPreset("turbo")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	def, err := GetConfigByPreset("")
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), def)
}

func TestVersionInfo(t *testing.T) {
	assert.Contains(t, VersionInfo(), Version)
	assert.Equal(t, types.Version, Version)
}

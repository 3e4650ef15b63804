package invitechan

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

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

func (e *captureEmitter) Close() error {
	return nil
}

// TestChannel_Identity 测试通道元信息
func TestChannel_Identity(t *testing.T) {
	ch := New()

	assert.Equal(t, "invite", ch.Name())
	assert.Equal(t, types.SignalSourceInvite, ch.Source())

	t.Log("✅ 通道元信息测试通过")
}

// TestChannel_Deliver 测试邀请送达
func TestChannel_Deliver(t *testing.T) {
	t.Run("SingleInvite", func(t *testing.T) {
		ch := New()
		ch.SetClock(clock.NewMock())

		ch.Deliver(types.Identity(100), types.LobbyToken("lobby-1"))
		require.True(t, ch.Pending())

		sig, ok := ch.Poll(time.Now())
		require.True(t, ok)
		assert.Equal(t, types.Identity(100), sig.Target)
		assert.Equal(t, types.SignalSourceInvite, sig.Source)
		assert.Equal(t, types.LobbyToken("lobby-1"), sig.Lobby)
	})

	t.Run("LatestWins", func(t *testing.T) {
		ch := New()
		ch.SetClock(clock.NewMock())

		// 单槽语义：后到的邀请覆盖先到的
		ch.Deliver(types.Identity(100), "lobby-1")
		ch.Deliver(types.Identity(200), "lobby-2")

		sig, ok := ch.Poll(time.Now())
		require.True(t, ok)
		assert.Equal(t, types.Identity(200), sig.Target)
		assert.Equal(t, types.LobbyToken("lobby-2"), sig.Lobby)

		// 槽已清空，没有第二条信号
		_, ok = ch.Poll(time.Now())
		assert.False(t, ok)
	})

	t.Run("EmptyIdentityIgnored", func(t *testing.T) {
		ch := New()

		ch.Deliver(types.EmptyIdentity, "lobby-1")

		assert.False(t, ch.Pending())
		_, ok := ch.Poll(time.Now())
		assert.False(t, ok)
	})

	t.Run("EmptyLobbyAllowed", func(t *testing.T) {
		ch := New()

		// 不带大厅令牌的邀请同样有效
		ch.Deliver(types.Identity(100), "")

		sig, ok := ch.Poll(time.Now())
		require.True(t, ok)
		assert.Equal(t, types.Identity(100), sig.Target)
		assert.True(t, sig.Lobby.IsEmpty())
	})

	t.Log("✅ 邀请送达测试通过")
}

// TestChannel_Poll 测试消费语义
func TestChannel_Poll(t *testing.T) {
	t.Run("EmptySlot", func(t *testing.T) {
		ch := New()

		sig, ok := ch.Poll(time.Now())
		assert.False(t, ok)
		assert.True(t, sig.Target.IsEmpty())
	})

	t.Run("ConsumedOnce", func(t *testing.T) {
		ch := New()

		ch.Deliver(types.Identity(100), "")

		_, ok := ch.Poll(time.Now())
		require.True(t, ok)

		// 第二次轮询槽已清空
		_, ok = ch.Poll(time.Now())
		assert.False(t, ok)
		assert.False(t, ch.Pending())
	})

	t.Run("RedeliverAfterConsume", func(t *testing.T) {
		ch := New()

		ch.Deliver(types.Identity(100), "")
		_, ok := ch.Poll(time.Now())
		require.True(t, ok)

		// 消费后新邀请可再次写入
		ch.Deliver(types.Identity(100), "")
		sig, ok := ch.Poll(time.Now())
		require.True(t, ok)
		assert.Equal(t, types.Identity(100), sig.Target)
	})

	t.Run("SignalCarriesPollTime", func(t *testing.T) {
		ch := New()

		ch.Deliver(types.Identity(100), "")

		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		sig, ok := ch.Poll(at)
		require.True(t, ok)
		assert.Equal(t, at, sig.At)
	})

	t.Log("✅ 消费语义测试通过")
}

// TestChannel_Events 测试邀请事件发布
func TestChannel_Events(t *testing.T) {
	ch := New()
	bus := &captureBus{}
	ch.SetEventBus(bus)

	ch.Deliver(types.Identity(100), types.LobbyToken("lobby-1"))

	events := bus.Events()
	require.Len(t, events, 1)

	evt, ok := events[0].(*types.EvtInviteReceived)
	require.True(t, ok)
	assert.Equal(t, types.Identity(100), evt.From)
	assert.Equal(t, types.LobbyToken("lobby-1"), evt.Lobby)
	assert.Equal(t, types.EventTypeInviteReceived, evt.Type())

	// 消费不发布事件
	_, polled := ch.Poll(time.Now())
	require.True(t, polled)
	assert.Len(t, bus.Events(), 1)

	t.Log("✅ 邀请事件测试通过")
}

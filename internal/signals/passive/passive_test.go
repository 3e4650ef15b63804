package passive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// newTestChannel 创建小容量测试通道
func newTestChannel(t *testing.T, buffer int) *Channel {
	t.Helper()

	ch, err := New(NewConfig().WithBuffer(buffer))
	require.NoError(t, err)
	return ch
}

// TestNew 测试创建通道
func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		ch, err := New(NewConfig())
		require.NoError(t, err)
		require.NotNil(t, ch)
	})

	t.Run("InvalidBuffer", func(t *testing.T) {
		_, err := New(Config{Buffer: 0})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Log("✅ New 测试通过")
}

// TestChannel_Identity 测试通道元信息
func TestChannel_Identity(t *testing.T) {
	ch := newTestChannel(t, 8)

	assert.Equal(t, "passive", ch.Name())
	assert.Equal(t, types.SignalSourcePassive, ch.Source())

	t.Log("✅ 通道元信息测试通过")
}

// TestChannel_OfferPoll 测试投入与消费
func TestChannel_OfferPoll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("FIFO", func(t *testing.T) {
		ch := newTestChannel(t, 8)

		ch.Offer(types.Identity(100))
		ch.Offer(types.Identity(200))
		ch.Offer(types.Identity(300))
		require.Equal(t, 3, ch.Len())

		// 按投入顺序逐个取出
		for _, want := range []types.Identity{100, 200, 300} {
			sig, ok := ch.Poll(now)
			require.True(t, ok)
			assert.Equal(t, want, sig.Target)
			assert.Equal(t, types.SignalSourcePassive, sig.Source)
		}

		_, ok := ch.Poll(now)
		assert.False(t, ok)
	})

	t.Run("EmptyQueue", func(t *testing.T) {
		ch := newTestChannel(t, 8)

		sig, ok := ch.Poll(now)
		assert.False(t, ok)
		assert.True(t, sig.Target.IsEmpty())
	})

	t.Run("EmptyIdentityIgnored", func(t *testing.T) {
		ch := newTestChannel(t, 8)

		ch.Offer(types.EmptyIdentity)

		assert.Equal(t, 0, ch.Len())
	})

	t.Log("✅ 投入消费测试通过")
}

// TestChannel_Dedup 测试缓冲内去重
func TestChannel_Dedup(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ch := newTestChannel(t, 8)

	// 同一身份连续发包只占一个槽位
	ch.Offer(types.Identity(100))
	ch.Offer(types.Identity(100))
	ch.Offer(types.Identity(100))

	assert.Equal(t, 1, ch.Len())

	// 消费后同一身份可再次投入
	_, ok := ch.Poll(now)
	require.True(t, ok)

	ch.Offer(types.Identity(100))
	assert.Equal(t, 1, ch.Len())

	t.Log("✅ 缓冲去重测试通过")
}

// TestChannel_OverflowDropsOldest 测试缓冲溢出丢弃最旧
func TestChannel_OverflowDropsOldest(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ch := newTestChannel(t, 2)

	ch.Offer(types.Identity(100))
	ch.Offer(types.Identity(200))
	ch.Offer(types.Identity(300)) // 挤掉 100

	require.Equal(t, 2, ch.Len())

	sig, ok := ch.Poll(now)
	require.True(t, ok)
	assert.Equal(t, types.Identity(200), sig.Target)

	sig, ok = ch.Poll(now)
	require.True(t, ok)
	assert.Equal(t, types.Identity(300), sig.Target)

	t.Log("✅ 溢出丢弃测试通过")
}

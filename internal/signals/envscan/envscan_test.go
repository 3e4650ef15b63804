package envscan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// newTestScanner 创建注入环境的扫描器
func newTestScanner(t *testing.T, environ map[string]string) *Scanner {
	t.Helper()

	sc, err := New(NewConfig())
	require.NoError(t, err)
	if environ == nil {
		environ = map[string]string{}
	}
	sc.SetEnviron(environ)
	return sc
}

// TestNew 测试创建扫描器
func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		sc, err := New(NewConfig())
		require.NoError(t, err)
		require.NotNil(t, sc)
	})

	t.Run("InvalidInterval", func(t *testing.T) {
		_, err := New(NewConfig().WithInterval(0))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Log("✅ New 测试通过")
}

// TestScanner_Identity 测试通道元信息
func TestScanner_Identity(t *testing.T) {
	sc := newTestScanner(t, nil)

	assert.Equal(t, "envscan", sc.Name())
	assert.Equal(t, types.SignalSourceEnvironment, sc.Source())

	t.Log("✅ 通道元信息测试通过")
}

// TestScanner_Poll 测试环境提示识别
func TestScanner_Poll(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ConnectOnly", func(t *testing.T) {
		sc := newTestScanner(t, map[string]string{
			"GT_CONNECT": "76561198000000001",
		})

		sig, ok := sc.Poll(now)
		require.True(t, ok)
		assert.Equal(t, types.Identity(76561198000000001), sig.Target)
		assert.Equal(t, types.SignalSourceEnvironment, sig.Source)
		assert.True(t, sig.Lobby.IsEmpty())
	})

	t.Run("ConnectWithLobbyToken", func(t *testing.T) {
		sc := newTestScanner(t, map[string]string{
			"GT_CONNECT":     "76561198000000001",
			"GT_LOBBY_TOKEN": "lobby-abc",
		})

		sig, ok := sc.Poll(now)
		require.True(t, ok)
		assert.Equal(t, types.Identity(76561198000000001), sig.Target)
		assert.Equal(t, types.LobbyToken("lobby-abc"), sig.Lobby)
	})

	t.Run("NoHints", func(t *testing.T) {
		sc := newTestScanner(t, map[string]string{})

		_, ok := sc.Poll(now)
		assert.False(t, ok)
	})

	t.Run("LobbyTokenAloneNotASignal", func(t *testing.T) {
		// 只有令牌没有目标身份，无法构成加入信号
		sc := newTestScanner(t, map[string]string{
			"GT_LOBBY_TOKEN": "lobby-abc",
		})

		_, ok := sc.Poll(now)
		assert.False(t, ok)
	})

	t.Run("InvalidIdentityIgnored", func(t *testing.T) {
		sc := newTestScanner(t, map[string]string{
			"GT_CONNECT": "not-a-number",
		})

		_, ok := sc.Poll(now)
		assert.False(t, ok)
	})

	t.Log("✅ 环境提示测试通过")
}

// TestScanner_EmitOncePerValue 测试相同取值只上抛一次
func TestScanner_EmitOncePerValue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	environ := map[string]string{
		"GT_CONNECT": "100",
	}
	sc := newTestScanner(t, environ)

	_, ok := sc.Poll(now)
	require.True(t, ok)

	// 取值未变，不再上抛
	_, ok = sc.Poll(now.Add(2 * time.Second))
	assert.False(t, ok)

	// 目标变化，再次上抛
	environ["GT_CONNECT"] = "200"
	sig, ok := sc.Poll(now.Add(4 * time.Second))
	require.True(t, ok)
	assert.Equal(t, types.Identity(200), sig.Target)

	// 目标不变但令牌变化，同样视为新取值
	environ["GT_LOBBY_TOKEN"] = "lobby-xyz"
	sig, ok = sc.Poll(now.Add(6 * time.Second))
	require.True(t, ok)
	assert.Equal(t, types.LobbyToken("lobby-xyz"), sig.Lobby)

	t.Log("✅ 取值去重测试通过")
}

// TestScanner_Throttle 测试扫描节流
func TestScanner_Throttle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	environ := map[string]string{
		"GT_CONNECT": "100",
	}
	sc := newTestScanner(t, environ)

	_, ok := sc.Poll(now)
	require.True(t, ok)

	// 取值已变化，但间隔不足一秒，不扫描
	environ["GT_CONNECT"] = "200"
	_, ok = sc.Poll(now.Add(500 * time.Millisecond))
	assert.False(t, ok)

	// 间隔满一秒后扫描到新取值
	sig, ok := sc.Poll(now.Add(time.Second))
	require.True(t, ok)
	assert.Equal(t, types.Identity(200), sig.Target)

	t.Log("✅ 扫描节流测试通过")
}

// TestScanner_ProcessEnvironment 测试读取进程环境
func TestScanner_ProcessEnvironment(t *testing.T) {
	t.Setenv("GT_CONNECT", "76561198000000002")

	sc, err := New(NewConfig())
	require.NoError(t, err)

	sig, ok := sc.Poll(time.Now())
	require.True(t, ok)
	assert.Equal(t, types.Identity(76561198000000002), sig.Target)

	t.Log("✅ 进程环境测试通过")
}

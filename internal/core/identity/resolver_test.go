package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// stubProvider 身份查询计数的最小提供者桩
type stubProvider struct {
	id    types.Identity
	calls int
}

func (p *stubProvider) GetLocalIdentity() types.Identity {
	p.calls++
	return p.id
}

func (p *stubProvider) SendPacket(types.Identity, []byte) bool            { return false }
func (p *stubProvider) PollReceive() (types.Identity, []byte, bool)       { return types.EmptyIdentity, nil, false }
func (p *stubProvider) AcceptIncoming(types.Identity) bool                { return false }
func (p *stubProvider) CloseSession(types.Identity) bool                  { return false }
func (p *stubProvider) SetPresence(string, string) bool                   { return false }
func (p *stubProvider) ClearPresence() bool                               { return false }
func (p *stubProvider) CreateLobby(int) (types.LobbyToken, bool)          { return "", false }
func (p *stubProvider) JoinLobby(types.LobbyToken) bool                   { return false }
func (p *stubProvider) LeaveLobby(types.LobbyToken) bool                  { return false }
func (p *stubProvider) ListFriendsInGame() []types.FriendInfo             { return nil }

// TestResolver_Bound 测试绑定后缓存
func TestResolver_Bound(t *testing.T) {
	stub := &stubProvider{id: types.Identity(76561198000000001)}
	r := NewResolver(stub)

	assert.Equal(t, types.Identity(76561198000000001), r.Local())
	assert.True(t, r.Bound())

	// 绑定成功后不再触达提供者
	r.Local()
	r.Local()
	assert.Equal(t, 1, stub.calls)
}

// TestResolver_LazyRetry 测试未绑定时惰性重查
func TestResolver_LazyRetry(t *testing.T) {
	stub := &stubProvider{}
	r := NewResolver(stub)

	assert.Equal(t, types.EmptyIdentity, r.Local())
	assert.False(t, r.Bound())

	// 每次读取都重查
	r.Local()
	assert.Equal(t, 3, stub.calls) // Local + Bound 里的 Local + Local

	// 提供者绑定后下一次读取即固定
	stub.id = types.Identity(42)
	assert.Equal(t, types.Identity(42), r.Local())
	assert.True(t, r.Bound())
	callsAfterBind := stub.calls
	r.Local()
	assert.Equal(t, callsAfterBind, stub.calls)
}

// TestResolver_NilProvider 测试无提供者
func TestResolver_NilProvider(t *testing.T) {
	r := NewResolver(nil)

	assert.Equal(t, types.EmptyIdentity, r.Local())
	assert.False(t, r.Bound())
}

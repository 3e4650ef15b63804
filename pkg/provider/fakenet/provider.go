// Package fakenet 提供进程内的平台实现
package fakenet

import (
	"sort"
	"sync"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var _ interfaces.Provider = (*Provider)(nil)

// Provider 单个玩家在枢纽上的平台提供者
//
// 所有方法遵循降级契约：未绑定时布尔方法返回 false、
// 列表方法返回空、身份方法返回哨兵值，绝不恐慌。
type Provider struct {
	hub  *Hub
	id   types.Identity
	name string

	mu       sync.Mutex
	bound    bool
	inbox    []delivery
	presence map[string]string
	sessions map[types.Identity]bool
}

// delivery 收件箱里的一条入站报文
type delivery struct {
	from types.Identity
	data []byte
}

// ════════════════════════════════════════════════════════════════════════════
// interfaces.Provider 实现
// ════════════════════════════════════════════════════════════════════════════

// GetLocalIdentity 返回本机玩家身份（未绑定时为 EmptyIdentity）
func (p *Provider) GetLocalIdentity() types.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.bound {
		return types.EmptyIdentity
	}
	return p.id
}

// SendPacket 向目标玩家发送一段已编码的报文
func (p *Provider) SendPacket(dest types.Identity, data []byte) bool {
	if !p.isBound() || dest.IsEmpty() {
		return false
	}
	return p.hub.route(p.id, dest, data)
}

// PollReceive 非阻塞地取出至多一条入站报文
func (p *Provider) PollReceive() (types.Identity, []byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.bound || len(p.inbox) == 0 {
		return types.EmptyIdentity, nil, false
	}
	d := p.inbox[0]
	p.inbox = p.inbox[1:]
	return d.from, d.data, true
}

// AcceptIncoming 接受来自指定玩家的入站 P2P 会话
func (p *Provider) AcceptIncoming(peer types.Identity) bool {
	if !p.isBound() || !p.hub.knows(peer) {
		return false
	}
	p.mu.Lock()
	p.sessions[peer] = true
	p.mu.Unlock()
	return true
}

// CloseSession 关闭与指定玩家的 P2P 会话（幂等）
func (p *Provider) CloseSession(peer types.Identity) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.bound {
		return false
	}
	delete(p.sessions, peer)
	return true
}

// SetPresence 设置一个富状态键值
func (p *Provider) SetPresence(key, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.bound || key == "" {
		return false
	}
	p.presence[key] = value
	return true
}

// ClearPresence 清空本机全部富状态
func (p *Provider) ClearPresence() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.bound {
		return false
	}
	p.presence = make(map[string]string)
	return true
}

// CreateLobby 创建平台大厅
func (p *Provider) CreateLobby(maxMembers int) (types.LobbyToken, bool) {
	if !p.isBound() {
		return "", false
	}
	return p.hub.createLobby(p.id, maxMembers)
}

// JoinLobby 按令牌加入大厅
func (p *Provider) JoinLobby(token types.LobbyToken) bool {
	if !p.isBound() || token.IsEmpty() {
		return false
	}
	return p.hub.joinLobby(p.id, token)
}

// LeaveLobby 离开大厅
func (p *Provider) LeaveLobby(token types.LobbyToken) bool {
	if !p.isBound() || token.IsEmpty() {
		return false
	}
	return p.hub.leaveLobby(p.id, token)
}

// ListFriendsInGame 返回正在运行本游戏的好友列表（升序）
func (p *Provider) ListFriendsInGame() []types.FriendInfo {
	if !p.isBound() {
		return nil
	}

	var out []types.FriendInfo
	for _, fid := range p.hub.friendsOf(p.id) {
		if info, ok := p.hub.snapshotUser(fid); ok {
			out = append(out, info)
		}
	}
	return out
}

// ════════════════════════════════════════════════════════════════════════════
// 测试与检视辅助
// ════════════════════════════════════════════════════════════════════════════

// ID 返回注册时的身份（不随绑定状态变化）
func (p *Provider) ID() types.Identity {
	return p.id
}

// Name 返回注册时的展示名
func (p *Provider) Name() string {
	return p.name
}

// SetBound 切换绑定状态
//
// 未绑定时全部平台操作降级，用于模拟平台未就绪或掉线。
// 收件箱与富状态在未绑定期间保留，重新绑定后继续可用。
func (p *Provider) SetBound(bound bool) {
	p.mu.Lock()
	p.bound = bound
	p.mu.Unlock()
}

// Bound 报告当前绑定状态
func (p *Provider) Bound() bool {
	return p.isBound()
}

// Presence 返回当前富状态的副本
func (p *Provider) Presence() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]string, len(p.presence))
	for k, v := range p.presence {
		out[k] = v
	}
	return out
}

// Sessions 返回已接受的 P2P 会话对端（升序）
func (p *Provider) Sessions() []types.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]types.Identity, 0, len(p.sessions))
	for id := range p.sessions {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InboxLen 返回收件箱里待取报文数
func (p *Provider) InboxLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inbox)
}

// ════════════════════════════════════════════════════════════════════════════
// 枢纽回调的内部操作
// ════════════════════════════════════════════════════════════════════════════

// isBound 读取绑定状态
func (p *Provider) isBound() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bound
}

// enqueue 入队一条入站报文（复制数据，避免与发送方共享底层数组）
func (p *Provider) enqueue(from types.Identity, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)

	p.mu.Lock()
	p.inbox = append(p.inbox, delivery{from: from, data: buf})
	p.mu.Unlock()
}

// friendView 构造本玩家的好友视图
func (p *Provider) friendView() types.FriendInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	presence := make(map[string]string, len(p.presence))
	for k, v := range p.presence {
		presence[k] = v
	}
	return types.FriendInfo{
		ID:       p.id,
		Name:     p.name,
		Online:   true,
		Presence: presence,
	}
}

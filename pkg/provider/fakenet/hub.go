// Package fakenet 提供进程内的平台实现
package fakenet

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// Hub 进程内平台枢纽
//
// 枢纽持有全部玩家、大厅与好友关系，充当报文交换机。
// 并发安全：多个节点可在各自的 goroutine 里驱动自己的提供者。
type Hub struct {
	mu      sync.Mutex
	users   map[types.Identity]*Provider
	lobbies map[types.LobbyToken]*lobby
	friends map[types.Identity]map[types.Identity]bool
}

// lobby 平台大厅
type lobby struct {
	owner   types.Identity
	max     int
	members map[types.Identity]bool
}

// NewHub 创建平台枢纽
func NewHub() *Hub {
	return &Hub{
		users:   make(map[types.Identity]*Provider),
		lobbies: make(map[types.LobbyToken]*lobby),
		friends: make(map[types.Identity]map[types.Identity]bool),
	}
}

// NewUser 在枢纽上注册一个玩家并返回其提供者
//
// 返回的提供者已绑定，可直接注入节点。
func (h *Hub) NewUser(id types.Identity, name string) (*Provider, error) {
	if id.IsEmpty() {
		return nil, ErrEmptyIdentity
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.users[id]; exists {
		return nil, ErrDuplicateUser
	}

	p := &Provider{
		hub:      h,
		id:       id,
		name:     name,
		bound:    true,
		presence: make(map[string]string),
		sessions: make(map[types.Identity]bool),
	}
	h.users[id] = p
	return p, nil
}

// Befriend 建立双向好友关系（幂等）
func (h *Hub) Befriend(a, b types.Identity) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[a]; !ok {
		return ErrUnknownUser
	}
	if _, ok := h.users[b]; !ok {
		return ErrUnknownUser
	}

	if h.friends[a] == nil {
		h.friends[a] = make(map[types.Identity]bool)
	}
	if h.friends[b] == nil {
		h.friends[b] = make(map[types.Identity]bool)
	}
	h.friends[a][b] = true
	h.friends[b][a] = true
	return nil
}

// Remove 将玩家从枢纽移除（模拟下线）
//
// 其提供者转为未绑定，并退出全部大厅与好友关系。
func (h *Hub) Remove(id types.Identity) {
	h.mu.Lock()
	p := h.users[id]
	delete(h.users, id)
	delete(h.friends, id)
	for _, set := range h.friends {
		delete(set, id)
	}
	for token, lb := range h.lobbies {
		delete(lb.members, id)
		if len(lb.members) == 0 {
			delete(h.lobbies, token)
		}
	}
	h.mu.Unlock()

	if p != nil {
		p.SetBound(false)
	}
}

// Users 返回在枢纽上注册的玩家数
func (h *Hub) Users() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.users)
}

// Lobbies 返回存续中的大厅数
func (h *Hub) Lobbies() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lobbies)
}

// LobbyTokens 返回存续中的大厅令牌（字典序）
func (h *Hub) LobbyTokens() []types.LobbyToken {
	h.mu.Lock()
	defer h.mu.Unlock()

	tokens := make([]types.LobbyToken, 0, len(h.lobbies))
	for token := range h.lobbies {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// LobbyMembers 返回大厅成员（升序；大厅不存在时为 nil）
func (h *Hub) LobbyMembers(token types.LobbyToken) []types.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()

	lb, ok := h.lobbies[token]
	if !ok {
		return nil
	}
	members := make([]types.Identity, 0, len(lb.members))
	for id := range lb.members {
		members = append(members, id)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members
}

// ════════════════════════════════════════════════════════════════════════════
// 提供者回调的内部操作
// ════════════════════════════════════════════════════════════════════════════

// route 把报文投递到目标玩家的收件箱
func (h *Hub) route(from, dest types.Identity, data []byte) bool {
	h.mu.Lock()
	dst := h.users[dest]
	h.mu.Unlock()

	if dst == nil || !dst.isBound() {
		return false
	}
	dst.enqueue(from, data)
	return true
}

// knows 报告玩家是否在枢纽上
func (h *Hub) knows(id types.Identity) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.users[id]
	return ok
}

// createLobby 创建大厅，owner 自动入厅
func (h *Hub) createLobby(owner types.Identity, max int) (types.LobbyToken, bool) {
	if max <= 0 {
		return "", false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	token := types.LobbyToken(uuid.NewString())
	h.lobbies[token] = &lobby{
		owner:   owner,
		max:     max,
		members: map[types.Identity]bool{owner: true},
	}
	return token, true
}

// joinLobby 加入大厅（已是成员时幂等成功）
func (h *Hub) joinLobby(id types.Identity, token types.LobbyToken) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	lb, ok := h.lobbies[token]
	if !ok {
		return false
	}
	if lb.members[id] {
		return true
	}
	if len(lb.members) >= lb.max {
		return false
	}
	lb.members[id] = true
	return true
}

// leaveLobby 离开大厅，空厅随即销毁
func (h *Hub) leaveLobby(id types.Identity, token types.LobbyToken) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	lb, ok := h.lobbies[token]
	if !ok || !lb.members[id] {
		return false
	}
	delete(lb.members, id)
	if len(lb.members) == 0 {
		delete(h.lobbies, token)
	}
	return true
}

// friendsOf 返回玩家的好友身份（升序）
func (h *Hub) friendsOf(id types.Identity) []types.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.friends[id]
	if len(set) == 0 {
		return nil
	}
	ids := make([]types.Identity, 0, len(set))
	for fid := range set {
		ids = append(ids, fid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// snapshotUser 返回玩家的好友视图（不在枢纽或未绑定时 ok 为 false）
func (h *Hub) snapshotUser(id types.Identity) (types.FriendInfo, bool) {
	h.mu.Lock()
	p := h.users[id]
	h.mu.Unlock()

	if p == nil || !p.isBound() {
		return types.FriendInfo{}, false
	}
	return p.friendView(), true
}

// Package relay 实现 wsrelay 客户端对接的中继服务器
package relay

import (
	"sort"
	"sync"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// lobby 一间大厅的服务器侧状态
type lobby struct {
	owner types.Identity
	max   int

	mu      sync.Mutex
	members map[types.Identity]bool
}

func newLobby(owner types.Identity, max int) *lobby {
	return &lobby{
		owner:   owner,
		max:     max,
		members: map[types.Identity]bool{owner: true},
	}
}

// join 尝试把 id 纳入成员，满员返回 false，已是成员视为成功
func (l *lobby) join(id types.Identity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.members[id] {
		return true
	}
	if len(l.members) >= l.max {
		return false
	}
	l.members[id] = true
	return true
}

// leave 移除成员，返回 id 此前是否在内
func (l *lobby) leave(id types.Identity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.members[id] {
		return false
	}
	delete(l.members, id)
	return true
}

// size 返回当前成员数
func (l *lobby) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.members)
}

// memberList 返回排序后的成员清单
func (l *lobby) memberList() []types.Identity {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.Identity, 0, len(l.members))
	for id := range l.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

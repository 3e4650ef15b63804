// Package friendscan 实现好友状态扫描
package friendscan

import (
	"sync"
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("signals/friendscan")

// Scanner 好友状态扫描器
//
// 每次扫描读取提供者好友列表，按富状态登记主机记录：
// 托管中的好友直接登记，加入方好友的 connect 键链式登记其主机。
// 上一轮可见、本轮消失的托管好友转为不活跃，交由 TTL 决定去留。
type Scanner struct {
	mu sync.Mutex

	cfg      Config
	provider interfaces.Provider
	registry interfaces.HostRegistry
	local    interfaces.LocalIdentity

	// lastScan 上一次实际执行扫描的时刻（节流依据）
	lastScan time.Time

	// hosting 上一轮直接观察到的托管好友
	// 只收直接观察：链式登记的主机不参与托管延续判定
	hosting map[types.Identity]bool
}

// New 创建好友状态扫描器
//
// provider 与 local 可为 nil：提供者缺席时扫描为无操作，
// 身份缺席时不做自我过滤。registry 必须存在。
func New(cfg Config, provider interfaces.Provider, registry interfaces.HostRegistry, local interfaces.LocalIdentity) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, ErrNilRegistry
	}
	return &Scanner{
		cfg:      cfg,
		provider: provider,
		registry: registry,
		local:    local,
		hosting:  make(map[types.Identity]bool),
	}, nil
}

// Scan 执行一次好友状态扫描
//
// 自带节流：距上次扫描不足 Interval 的调用为无操作，
// 因此可以安全地由高频 tick 驱动。
func (s *Scanner) Scan(now time.Time) {
	s.mu.Lock()
	if now.Sub(s.lastScan) < s.cfg.Interval {
		s.mu.Unlock()
		return
	}
	s.lastScan = now
	prev := s.hosting
	s.mu.Unlock()

	if s.provider == nil {
		return
	}

	local := types.EmptyIdentity
	if s.local != nil {
		local = s.local.Local()
	}

	current := make(map[types.Identity]bool)
	for _, f := range s.provider.ListFriendsInGame() {
		if f.ID.IsEmpty() || f.ID == local || !f.Online {
			continue
		}
		switch f.PresenceValue(types.PresenceKeyMode) {
		case types.PresenceModeHosting:
			s.registry.Register(f.ID, f.Name)
			if !prev[f.ID] {
				logger.Debug("发现托管好友", "host", f.ID, "name", f.Name)
			}
			current[f.ID] = true
		case types.PresenceModePlaying:
			s.registerChained(f, local)
		}
	}

	s.mu.Lock()
	s.hosting = current
	s.mu.Unlock()

	for id := range prev {
		if !current[id] {
			s.registry.Deactivate(id)
			logger.Debug("好友不再托管", "host", id)
		}
	}
}

// registerChained 链式登记加入方好友富状态透露的主机
//
// 主机展示名未知，传空串以保留注册表里已知的名字。
func (s *Scanner) registerChained(f types.FriendInfo, local types.Identity) {
	raw := f.PresenceValue(types.PresenceKeyConnect)
	if raw == "" {
		return
	}
	host, err := types.ParseIdentity(raw)
	if err != nil {
		logger.Debug("好友 connect 键无法解析", "friend", f.ID, "raw", raw)
		return
	}
	if host == local {
		return
	}
	s.registry.Register(host, "")
}

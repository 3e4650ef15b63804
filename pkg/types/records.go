package types

import "time"

// ============================================================================
//                              HostRecord - 主机记录
// ============================================================================

// HostRecord 主机记录
// 主机注册表持有的发现结果；每个身份至多一条
type HostRecord struct {
	// ID 主机身份
	ID Identity

	// DisplayName 主机展示名（可为空；后续注册不以空名覆盖已知名）
	DisplayName string

	// PlayerCount 会话当前玩家数（含主机）
	PlayerCount int

	// LastSeen 最近一次注册或触活时间
	LastSeen time.Time

	// Active 是否活跃（未被显式注销）
	Active bool
}

// IsExpired 检查记录是否过期（基于最近触活时间和 TTL）
func (r HostRecord) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.LastSeen) > ttl
}

// ============================================================================
//                              InviteRecord - 邀请记录
// ============================================================================

// InviteRecord 定向邀请记录
//
// 单槽语义：并发到达的多个邀请只保留最新一个，
// 被消费后立即清空。不存在邀请队列。
type InviteRecord struct {
	// From 邀请方身份
	From Identity

	// Lobby 附带的大厅令牌（可为空）
	Lobby LobbyToken

	// ReceivedAt 邀请送达时间
	ReceivedAt time.Time
}

// IsEmpty 检查邀请记录是否为空槽
func (r InviteRecord) IsEmpty() bool {
	return r.From.IsEmpty()
}

// ============================================================================
//                              FriendInfo - 好友信息
// ============================================================================

// FriendInfo 平台好友信息
// 提供者好友列表项；Presence 为平台富状态键值对
type FriendInfo struct {
	// ID 好友身份
	ID Identity

	// Name 好友展示名
	Name string

	// Online 是否在线且正在运行本游戏
	Online bool

	// Presence 富状态键值对（键见 presence.go）
	Presence map[string]string
}

// PresenceValue 返回指定富状态键的取值（键不存在时返回空串）
func (f FriendInfo) PresenceValue(key string) string {
	if f.Presence == nil {
		return ""
	}
	return f.Presence[key]
}

// ============================================================================
//                              JoinSignal - 加入信号
// ============================================================================

// JoinSignal 加入信号
// 由单个信号通道产出；经聚合器自过滤与去重后成为加入意图
type JoinSignal struct {
	// Target 目标主机身份
	Target Identity

	// Source 信号来源通道
	Source SignalSource

	// Lobby 可选的大厅令牌（邀请与环境通道可携带，其余来源置空）
	Lobby LobbyToken

	// At 信号产生时间
	At time.Time
}

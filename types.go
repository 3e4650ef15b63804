// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"github.com/gungeon-together/go-gtnet/internal/protocol/session"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
// 类型别名 - 使用方只需导入本包
// ════════════════════════════════════════════════════════════════════════════

// 标识与记录
type (
	// Identity 平台玩家标识
	Identity = types.Identity
	// LobbyToken 平台大厅令牌
	LobbyToken = types.LobbyToken
	// HostRecord 已发现主机的注册表记录
	HostRecord = types.HostRecord
	// InviteRecord 待处理的定向邀请
	InviteRecord = types.InviteRecord
	// FriendInfo 在线好友及其富状态
	FriendInfo = types.FriendInfo
	// JoinSignal 聚合后的加入信号
	JoinSignal = types.JoinSignal
)

// 会话档案与平台接口
type (
	// Profile 本地玩家档案（展示名/场景/出生点）
	Profile = session.Profile
	// Provider 平台适配接口，见 pkg/provider 下的内置实现
	Provider = interfaces.Provider
	// PacketHandler 业务报文回调
	PacketHandler = interfaces.PacketHandler
	// Subscription 事件订阅句柄
	Subscription = interfaces.Subscription
	// StatsSnapshot 流量统计快照
	StatsSnapshot = interfaces.StatsSnapshot
	// Flow 单一维度的进出流量计数
	Flow = interfaces.Flow
)

// 线缆报文
type (
	// Packet 解码后的线缆报文
	Packet = types.Packet
	// PacketType 报文类型字节
	PacketType = types.PacketType
	// HandshakeData 握手请求载荷
	HandshakeData = types.HandshakeData
	// WelcomeData 握手应答载荷
	WelcomeData = types.WelcomeData
	// PlayerJoinData 玩家加入信息载荷
	PlayerJoinData = types.PlayerJoinData
	// HeartbeatData 心跳载荷
	HeartbeatData = types.HeartbeatData
	// PlayerState 玩家状态载荷
	PlayerState = types.PlayerState
	// PlayerAim 玩家瞄准载荷
	PlayerAim = types.PlayerAim
	// ActorState 角色状态载荷
	ActorState = types.ActorState
	// ActorPath 角色路径载荷
	ActorPath = types.ActorPath
	// Waypoint 路径点
	Waypoint = types.Waypoint
	// Projectile 弹体生成载荷
	Projectile = types.Projectile
)

// 枚举
type (
	// SessionState 会话状态机状态
	SessionState = types.SessionState
	// SignalSource 加入信号来源
	SignalSource = types.SignalSource
	// LeaveReason 成员离开原因
	LeaveReason = types.LeaveReason
)

// 事件（经 Subscribe 订阅，载荷为指针）
type (
	// EvtSessionStateChanged 会话状态变更
	EvtSessionStateChanged = types.EvtSessionStateChanged
	// EvtPlayerJoined 成员加入
	EvtPlayerJoined = types.EvtPlayerJoined
	// EvtPlayerLeft 成员离开
	EvtPlayerLeft = types.EvtPlayerLeft
	// EvtHostDiscovered 发现新主机
	EvtHostDiscovered = types.EvtHostDiscovered
	// EvtHostLost 主机失联
	EvtHostLost = types.EvtHostLost
	// EvtInviteReceived 收到定向邀请
	EvtInviteReceived = types.EvtInviteReceived
	// EvtJoinIntent 聚合器产出加入意图
	EvtJoinIntent = types.EvtJoinIntent
)

// ════════════════════════════════════════════════════════════════════════════
// 常量转发
// ════════════════════════════════════════════════════════════════════════════

// EmptyIdentity 空玩家标识
const EmptyIdentity = types.EmptyIdentity

// 会话状态
const (
	SessionIdle       = types.SessionIdle
	SessionHosting    = types.SessionHosting
	SessionConnecting = types.SessionConnecting
	SessionConnected  = types.SessionConnected
)

// 报文类型
const (
	PacketHandshake    = types.PacketHandshake
	PacketWelcome      = types.PacketWelcome
	PacketPlayerJoin   = types.PacketPlayerJoin
	PacketHeartbeat    = types.PacketHeartbeat
	PacketHeartbeatAck = types.PacketHeartbeatAck
	PacketPlayerState  = types.PacketPlayerState
	PacketPlayerAim    = types.PacketPlayerAim
	PacketActorState   = types.PacketActorState
	PacketActorPath    = types.PacketActorPath
	PacketProjectile   = types.PacketProjectile
)

// 玩家状态位标志
const (
	PlayerFlagGrounded = types.PlayerFlagGrounded
	PlayerFlagRolling  = types.PlayerFlagRolling
	PlayerFlagFiring   = types.PlayerFlagFiring
	PlayerFlagDowned   = types.PlayerFlagDowned
)

// 信号来源
const (
	SignalSourceInvite      = types.SignalSourceInvite
	SignalSourceLaunchArgs  = types.SignalSourceLaunchArgs
	SignalSourceEnvironment = types.SignalSourceEnvironment
	SignalSourcePassive     = types.SignalSourcePassive
)

// 离开原因
const (
	LeaveReasonTimeout = types.LeaveReasonTimeout
	LeaveReasonLocal   = types.LeaveReasonLocal
)

// ParseIdentity 解析十进制字符串形式的玩家标识。
func ParseIdentity(s string) (Identity, error) {
	return types.ParseIdentity(s)
}

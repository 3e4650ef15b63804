// Package types 定义 GTNet 公共类型
//
// 本文件定义事件相关类型。
package types

import (
	"time"
)

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              会话事件
// ============================================================================

// EvtSessionStateChanged 会话状态变更事件
type EvtSessionStateChanged struct {
	BaseEvent
	Old SessionState
	New SessionState
}

// EvtPlayerJoined 成员加入事件
// 主机侧：接纳加入方时发射；客户端侧：收到握手应答时发射（Player 为主机）
type EvtPlayerJoined struct {
	BaseEvent
	Player Identity
	Name   string
}

// EvtPlayerLeft 成员离开事件
//
// 扩展字段：
// - Reason: 离开原因，用于区分心跳静默超时与本地主动停止
type EvtPlayerLeft struct {
	BaseEvent
	Player Identity
	Reason LeaveReason
}

// ============================================================================
//                              发现事件
// ============================================================================

// EvtHostDiscovered 发现主机事件
type EvtHostDiscovered struct {
	BaseEvent
	Host HostRecord
}

// EvtHostLost 主机失联事件（TTL 过期或显式注销）
type EvtHostLost struct {
	BaseEvent
	Host Identity
}

// ============================================================================
//                              信号事件
// ============================================================================

// EvtInviteReceived 邀请送达事件
type EvtInviteReceived struct {
	BaseEvent
	From  Identity
	Lobby LobbyToken
}

// EvtJoinIntent 加入意图事件
// 聚合器每个 tick 至多发射一次
type EvtJoinIntent struct {
	BaseEvent
	Target Identity
	Source SignalSource
}

// ============================================================================
//                              事件类型常量
// ============================================================================

// 事件类型常量
const (
	EventTypeSessionStateChanged = "session_state_changed"
	EventTypePlayerJoined        = "player_joined"
	EventTypePlayerLeft          = "player_left"
	EventTypeHostDiscovered      = "host_discovered"
	EventTypeHostLost            = "host_lost"
	EventTypeInviteReceived      = "invite_received"
	EventTypeJoinIntent          = "join_intent"
)

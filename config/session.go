package config

import (
	"errors"
	"time"
)

// SessionConfig 会话配置
//
// 配置会话控制器的握手、心跳与成员管理：
//   - 心跳: 客户端 → 主机的周期心跳与主机广播
//   - 存活: 心跳静默的判离窗口
//   - 接收: 每个 tick 的接收排水预算
type SessionConfig struct {
	// HeartbeatInterval 客户端心跳间隔
	HeartbeatInterval Duration `json:"heartbeat_interval" env:"HEARTBEAT_INTERVAL"`

	// HostBroadcastInterval 主机自触活广播间隔
	// 广播同时充当主机方向的心跳
	HostBroadcastInterval Duration `json:"host_broadcast_interval" env:"HOST_BROADCAST_INTERVAL"`

	// HandshakeTimeout 握手超时
	// Connecting 状态停留超过该窗口即放弃并回到 Idle；0 表示不超时
	HandshakeTimeout Duration `json:"handshake_timeout" env:"HANDSHAKE_TIMEOUT"`

	// LivenessWindow 存活窗口
	// 对端心跳静默超过该窗口即判离；0 表示不判离
	LivenessWindow Duration `json:"liveness_window" env:"LIVENESS_WINDOW"`

	// ReceiveBudget 每个 tick 的接收排水上限（报文条数）
	ReceiveBudget int `json:"receive_budget" env:"RECEIVE_BUDGET"`

	// MaxPeers 主机接纳的最大客户端数
	MaxPeers int `json:"max_peers" env:"MAX_PEERS"`

	// MaxLobbyMembers 平台大厅的成员上限（含主机）
	MaxLobbyMembers int `json:"max_lobby_members" env:"MAX_LOBBY_MEMBERS"`
}

// DefaultSessionConfig 返回默认会话配置
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		HeartbeatInterval:     Duration(2 * time.Second),  // 客户端心跳：2 秒
		HostBroadcastInterval: Duration(5 * time.Second),  // 主机广播：5 秒
		HandshakeTimeout:      Duration(15 * time.Second), // 握手超时：15 秒
		LivenessWindow:        Duration(10 * time.Second), // 存活窗口：10 秒
		ReceiveBudget:         64,                         // 接收预算：64 条/tick
		MaxPeers:              3,                          // 最大客户端数：3
		MaxLobbyMembers:       4,                          // 大厅上限：4（含主机）
	}
}

// Validate 验证会话配置
func (c SessionConfig) Validate() error {
	if c.HeartbeatInterval <= 0 {
		return errors.New("heartbeat interval must be positive")
	}
	if c.HostBroadcastInterval <= 0 {
		return errors.New("host broadcast interval must be positive")
	}
	if c.HandshakeTimeout < 0 {
		return errors.New("handshake timeout must be non-negative")
	}
	if c.LivenessWindow < 0 {
		return errors.New("liveness window must be non-negative")
	}
	if c.LivenessWindow > 0 && c.LivenessWindow.Duration() <= c.HeartbeatInterval.Duration() {
		return errors.New("liveness window must exceed heartbeat interval")
	}
	if c.ReceiveBudget <= 0 {
		return errors.New("receive budget must be positive")
	}
	if c.MaxPeers <= 0 {
		return errors.New("max peers must be positive")
	}
	if c.MaxLobbyMembers <= c.MaxPeers {
		return errors.New("max lobby members must exceed max peers")
	}
	return nil
}

// WithMaxPeers 设置主机接纳的最大客户端数
//
// 大厅上限（含主机）随之抬升到 n+1，已配置的更大上限保留。
func (c SessionConfig) WithMaxPeers(n int) SessionConfig {
	c.MaxPeers = n
	if c.MaxLobbyMembers <= n {
		c.MaxLobbyMembers = n + 1
	}
	return c
}

package session

import (
	"fmt"
	"time"

	"github.com/gungeon-together/go-gtnet/config"
)

// Config 会话控制器配置
type Config struct {
	// HeartbeatInterval 客户端心跳间隔
	HeartbeatInterval time.Duration

	// HostBroadcastInterval 主机自触活广播间隔
	// 广播同时充当主机方向的心跳
	HostBroadcastInterval time.Duration

	// HandshakeTimeout 握手超时（0 表示不超时）
	HandshakeTimeout time.Duration

	// LivenessWindow 心跳静默的判离窗口（0 表示不判离）
	LivenessWindow time.Duration

	// ReceiveBudget 每个 tick 的接收排水上限（报文条数）
	ReceiveBudget int

	// MaxPeers 主机接纳的最大客户端数
	MaxPeers int

	// MaxLobbyMembers 平台大厅的成员上限（含主机）
	MaxLobbyMembers int
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		HeartbeatInterval:     2 * time.Second,  // 客户端心跳
		HostBroadcastInterval: 5 * time.Second,  // 主机广播
		HandshakeTimeout:      15 * time.Second, // 握手超时
		LivenessWindow:        10 * time.Second, // 存活窗口
		ReceiveBudget:         64,               // 接收预算
		MaxPeers:              3,                // 最大客户端数
		MaxLobbyMembers:       4,                // 大厅上限（含主机）
	}
}

// ConfigFromUnified 从统一配置创建会话配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg == nil {
		return c
	}
	s := cfg.Session
	if s.HeartbeatInterval > 0 {
		c.HeartbeatInterval = s.HeartbeatInterval.Duration()
	}
	if s.HostBroadcastInterval > 0 {
		c.HostBroadcastInterval = s.HostBroadcastInterval.Duration()
	}
	c.HandshakeTimeout = s.HandshakeTimeout.Duration()
	c.LivenessWindow = s.LivenessWindow.Duration()
	if s.ReceiveBudget > 0 {
		c.ReceiveBudget = s.ReceiveBudget
	}
	if s.MaxPeers > 0 {
		c.MaxPeers = s.MaxPeers
	}
	if s.MaxLobbyMembers > 0 {
		c.MaxLobbyMembers = s.MaxLobbyMembers
	}
	return c
}

// WithHandshakeTimeout 设置握手超时
func (c Config) WithHandshakeTimeout(d time.Duration) Config {
	c.HandshakeTimeout = d
	return c
}

// WithLivenessWindow 设置存活窗口
func (c Config) WithLivenessWindow(d time.Duration) Config {
	c.LivenessWindow = d
	return c
}

// WithMaxPeers 设置主机接纳的最大客户端数
//
// 大厅上限（含主机）随之抬升到 n+1，已配置的更大上限保留。
func (c Config) WithMaxPeers(n int) Config {
	c.MaxPeers = n
	if c.MaxLobbyMembers <= n {
		c.MaxLobbyMembers = n + 1
	}
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeat interval must be positive", ErrInvalidConfig)
	}
	if c.HostBroadcastInterval <= 0 {
		return fmt.Errorf("%w: host broadcast interval must be positive", ErrInvalidConfig)
	}
	if c.HandshakeTimeout < 0 {
		return fmt.Errorf("%w: handshake timeout must be non-negative", ErrInvalidConfig)
	}
	if c.LivenessWindow < 0 {
		return fmt.Errorf("%w: liveness window must be non-negative", ErrInvalidConfig)
	}
	if c.LivenessWindow > 0 && c.LivenessWindow <= c.HeartbeatInterval {
		return fmt.Errorf("%w: liveness window must exceed heartbeat interval", ErrInvalidConfig)
	}
	if c.ReceiveBudget <= 0 {
		return fmt.Errorf("%w: receive budget must be positive", ErrInvalidConfig)
	}
	if c.MaxPeers <= 0 {
		return fmt.Errorf("%w: max peers must be positive", ErrInvalidConfig)
	}
	if c.MaxLobbyMembers <= c.MaxPeers {
		return fmt.Errorf("%w: max lobby members must exceed max peers", ErrInvalidConfig)
	}
	return nil
}

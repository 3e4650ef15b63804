package config

import (
	"errors"
	"time"
)

// DiscoveryConfig 主机发现配置
//
// 配置主机注册表与好友状态扫描：
//   - 注册表: 已发现主机的短时记录与 TTL 清理
//   - 好友扫描: 周期性读取好友富状态，换取主机记录
type DiscoveryConfig struct {
	// HostTTL 主机记录存活窗口
	// 超过该窗口未触活的记录在下一次清理中移除
	HostTTL Duration `json:"host_ttl" env:"HOST_TTL"`

	// EnableFriendScan 是否启用好友状态扫描
	EnableFriendScan bool `json:"enable_friend_scan" env:"ENABLE_FRIEND_SCAN"`

	// FriendScanInterval 好友状态扫描间隔
	// 扫描读取提供者好友列表，代价较高，不宜低于 1 秒
	FriendScanInterval Duration `json:"friend_scan_interval" env:"FRIEND_SCAN_INTERVAL"`
}

// DefaultDiscoveryConfig 返回默认发现配置
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		HostTTL:            Duration(30 * time.Second), // 记录存活窗口：30 秒
		EnableFriendScan:   true,                       // 启用好友扫描：主要发现途径
		FriendScanInterval: Duration(1 * time.Second),  // 扫描间隔：1 秒
	}
}

// Validate 验证发现配置
func (c DiscoveryConfig) Validate() error {
	if c.HostTTL <= 0 {
		return errors.New("host TTL must be positive")
	}
	if c.EnableFriendScan && c.FriendScanInterval <= 0 {
		return errors.New("friend scan interval must be positive")
	}
	return nil
}

// WithFriendScan 设置是否启用好友状态扫描
func (c DiscoveryConfig) WithFriendScan(enabled bool) DiscoveryConfig {
	c.EnableFriendScan = enabled
	return c
}

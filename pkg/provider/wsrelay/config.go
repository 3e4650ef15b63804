// Package wsrelay 提供经 WebSocket 中继的平台实现
package wsrelay

import (
	"fmt"
	"strings"
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// 默认参数
const (
	// DefaultDialTimeout 默认拨号超时
	DefaultDialTimeout = 5 * time.Second
	// DefaultWriteTimeout 默认单帧写超时
	DefaultWriteTimeout = 5 * time.Second
	// DefaultRosterInterval 默认花名册拉取节流间隔
	DefaultRosterInterval = 1 * time.Second
	// DefaultInboxLimit 默认收件箱容量，超限丢弃最旧帧
	DefaultInboxLimit = 256
	// DefaultMaxFrameBytes 默认单帧上限
	DefaultMaxFrameBytes = 64 * 1024
)

// Config wsrelay 提供者配置
type Config struct {
	// URL 中继服务器地址，ws:// 或 wss://，含 WebSocket 路径
	URL string

	// Identity 本机身份，中继网络内必须唯一
	Identity types.Identity

	// Name 展示名，进入其他客户端的花名册
	Name string

	// DialTimeout 建立连接（含 WebSocket 握手）的超时
	DialTimeout time.Duration

	// WriteTimeout 单帧写超时，超时视为连接失效
	WriteTimeout time.Duration

	// RosterInterval 花名册拉取的节流间隔，
	// ListFriendsInGame 的调用频率高于它时返回缓存
	RosterInterval time.Duration

	// InboxLimit 收件箱最大帧数，写满后丢弃最旧的帧
	InboxLimit int

	// MaxFrameBytes 允许接收的最大帧长
	MaxFrameBytes int64
}

// NewConfig 以默认参数构造配置
func NewConfig(url string, id types.Identity, name string) Config {
	return Config{
		URL:            url,
		Identity:       id,
		Name:           name,
		DialTimeout:    DefaultDialTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		RosterInterval: DefaultRosterInterval,
		InboxLimit:     DefaultInboxLimit,
		MaxFrameBytes:  DefaultMaxFrameBytes,
	}
}

// WithDialTimeout 设置拨号超时
func (c Config) WithDialTimeout(d time.Duration) Config {
	c.DialTimeout = d
	return c
}

// WithWriteTimeout 设置单帧写超时
func (c Config) WithWriteTimeout(d time.Duration) Config {
	c.WriteTimeout = d
	return c
}

// WithRosterInterval 设置花名册拉取节流间隔
func (c Config) WithRosterInterval(d time.Duration) Config {
	c.RosterInterval = d
	return c
}

// WithInboxLimit 设置收件箱容量
func (c Config) WithInboxLimit(n int) Config {
	c.InboxLimit = n
	return c
}

// Validate 校验配置
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.URL, "ws://") && !strings.HasPrefix(c.URL, "wss://") {
		return fmt.Errorf("%w: url %q must use ws:// or wss://", ErrInvalidConfig, c.URL)
	}
	if c.Identity.IsEmpty() {
		return fmt.Errorf("%w: empty identity", ErrInvalidConfig)
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("%w: dial timeout must be positive", ErrInvalidConfig)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
	}
	if c.RosterInterval < 0 {
		return fmt.Errorf("%w: roster interval must not be negative", ErrInvalidConfig)
	}
	if c.InboxLimit <= 0 {
		return fmt.Errorf("%w: inbox limit must be positive", ErrInvalidConfig)
	}
	if c.MaxFrameBytes <= FramePrefixSize {
		return fmt.Errorf("%w: max frame bytes must exceed the identity prefix", ErrInvalidConfig)
	}
	return nil
}

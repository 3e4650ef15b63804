// Package relay 实现 wsrelay 客户端对接的中继服务器
package relay

import (
	"fmt"
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/provider/wsrelay"
)

// 默认参数
const (
	// DefaultMaxClients 客户端表容量，超出后逐出最久未活动者
	DefaultMaxClients = 1024
	// DefaultClientTTL 客户端静默过期时长，任何入站帧都会刷新
	DefaultClientTTL = 5 * time.Minute
	// DefaultMaxLobbies 大厅表容量
	DefaultMaxLobbies = 256
	// DefaultLobbyTTL 大厅无人访问后的回收时长
	DefaultLobbyTTL = 30 * time.Minute
	// DefaultSendBuffer 每客户端的下行发送缓冲（帧数）
	DefaultSendBuffer = 256
	// DefaultWriteTimeout 单帧写超时
	DefaultWriteTimeout = 10 * time.Second
	// DefaultPongWait 等待客户端心跳回应的时长
	DefaultPongWait = 60 * time.Second
	// DefaultHelloTimeout 连接建立后等待注册帧的时长
	DefaultHelloTimeout = 10 * time.Second
	// DefaultMaxFrameBytes 允许接收的最大帧长
	DefaultMaxFrameBytes = 64 * 1024
)

// Config 中继服务器配置
type Config struct {
	// MaxClients 客户端表容量
	MaxClients int

	// ClientTTL 客户端静默过期时长
	ClientTTL time.Duration

	// MaxLobbies 大厅表容量
	MaxLobbies int

	// LobbyTTL 大厅无人访问后的回收时长
	LobbyTTL time.Duration

	// SendBuffer 每客户端的下行发送缓冲，写满判定为慢消费者
	SendBuffer int

	// WriteTimeout 单帧写超时
	WriteTimeout time.Duration

	// PongWait 等待心跳回应的时长，超时断开；
	// 服务器按其九成的间隔主动发 ping
	PongWait time.Duration

	// HelloTimeout 等待注册帧的时长
	HelloTimeout time.Duration

	// MaxFrameBytes 允许接收的最大帧长
	MaxFrameBytes int64
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxClients:    DefaultMaxClients,
		ClientTTL:     DefaultClientTTL,
		MaxLobbies:    DefaultMaxLobbies,
		LobbyTTL:      DefaultLobbyTTL,
		SendBuffer:    DefaultSendBuffer,
		WriteTimeout:  DefaultWriteTimeout,
		PongWait:      DefaultPongWait,
		HelloTimeout:  DefaultHelloTimeout,
		MaxFrameBytes: DefaultMaxFrameBytes,
	}
}

// WithMaxClients 设置客户端表容量
func (c Config) WithMaxClients(n int) Config {
	c.MaxClients = n
	return c
}

// WithClientTTL 设置客户端静默过期时长
func (c Config) WithClientTTL(d time.Duration) Config {
	c.ClientTTL = d
	return c
}

// WithLobbyTTL 设置大厅回收时长
func (c Config) WithLobbyTTL(d time.Duration) Config {
	c.LobbyTTL = d
	return c
}

// Validate 校验配置
func (c Config) Validate() error {
	if c.MaxClients <= 0 {
		return fmt.Errorf("%w: max clients must be positive", ErrInvalidConfig)
	}
	if c.ClientTTL <= 0 {
		return fmt.Errorf("%w: client ttl must be positive", ErrInvalidConfig)
	}
	if c.MaxLobbies <= 0 {
		return fmt.Errorf("%w: max lobbies must be positive", ErrInvalidConfig)
	}
	if c.LobbyTTL <= 0 {
		return fmt.Errorf("%w: lobby ttl must be positive", ErrInvalidConfig)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("%w: send buffer must be positive", ErrInvalidConfig)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
	}
	if c.PongWait <= 0 {
		return fmt.Errorf("%w: pong wait must be positive", ErrInvalidConfig)
	}
	if c.HelloTimeout <= 0 {
		return fmt.Errorf("%w: hello timeout must be positive", ErrInvalidConfig)
	}
	if c.MaxFrameBytes <= wsrelay.FramePrefixSize {
		return fmt.Errorf("%w: max frame bytes must exceed the identity prefix", ErrInvalidConfig)
	}
	return nil
}

// pingPeriod 主动 ping 的间隔，取 PongWait 的九成
func (c Config) pingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

package passive

import (
	"fmt"

	"github.com/gungeon-together/go-gtnet/config"
)

// Config 被动连接通道配置
type Config struct {
	// Buffer 环形缓冲大小
	Buffer int
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		Buffer: 8, // 缓冲大小
	}
}

// ConfigFromUnified 从统一配置创建通道配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg != nil && cfg.Signals.PassiveBuffer > 0 {
		c.Buffer = cfg.Signals.PassiveBuffer
	}
	return c
}

// WithBuffer 设置缓冲大小
func (c Config) WithBuffer(n int) Config {
	c.Buffer = n
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Buffer <= 0 {
		return fmt.Errorf("%w: buffer must be positive", ErrInvalidConfig)
	}
	return nil
}

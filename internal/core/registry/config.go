package registry

import (
	"fmt"
	"time"

	"github.com/gungeon-together/go-gtnet/config"
)

// Config 注册表配置
type Config struct {
	// TTL 记录存活窗口
	// 超过该窗口未触活的记录在清理中移除
	TTL time.Duration
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		TTL: 30 * time.Second, // 记录存活窗口
	}
}

// ConfigFromUnified 从统一配置创建注册表配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg != nil && cfg.Discovery.HostTTL > 0 {
		c.TTL = cfg.Discovery.HostTTL.Duration()
	}
	return c
}

// WithTTL 设置记录存活窗口
func (c Config) WithTTL(ttl time.Duration) Config {
	c.TTL = ttl
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("%w: TTL must be positive", ErrInvalidConfig)
	}
	return nil
}

package friendscan

import (
	"fmt"
	"time"

	"github.com/gungeon-together/go-gtnet/config"
)

// Config 好友扫描配置
type Config struct {
	// Interval 两次扫描的最小间隔
	Interval time.Duration
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		Interval: time.Second, // 扫描间隔
	}
}

// ConfigFromUnified 从统一配置创建扫描配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg != nil && cfg.Discovery.FriendScanInterval > 0 {
		c.Interval = cfg.Discovery.FriendScanInterval.Duration()
	}
	return c
}

// WithInterval 设置扫描间隔
func (c Config) WithInterval(interval time.Duration) Config {
	c.Interval = interval
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	return nil
}

package argscan

import (
	"fmt"
	"time"

	"github.com/gungeon-together/go-gtnet/config"
)

// Config 启动参数扫描配置
type Config struct {
	// Interval 两次扫描的最小间隔
	Interval time.Duration

	// MinPlatformID 裸数字判定为平台身份的下限
	// 低于该值的数字参数视为普通参数而非加入目标
	MinPlatformID uint64
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		Interval:      time.Second,       // 扫描间隔
		MinPlatformID: 76561197960265728, // 平台个人账号 ID 下限
	}
}

// ConfigFromUnified 从统一配置创建扫描配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg == nil {
		return c
	}
	if cfg.Signals.ScanInterval > 0 {
		c.Interval = cfg.Signals.ScanInterval.Duration()
	}
	if cfg.Signals.MinPlatformID > 0 {
		c.MinPlatformID = cfg.Signals.MinPlatformID
	}
	return c
}

// WithInterval 设置扫描间隔
func (c Config) WithInterval(interval time.Duration) Config {
	c.Interval = interval
	return c
}

// WithMinPlatformID 设置平台身份下限
func (c Config) WithMinPlatformID(min uint64) Config {
	c.MinPlatformID = min
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	if c.MinPlatformID == 0 {
		return fmt.Errorf("%w: min platform id must be positive", ErrInvalidConfig)
	}
	return nil
}

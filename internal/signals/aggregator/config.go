package aggregator

import (
	"fmt"
	"time"

	"github.com/gungeon-together/go-gtnet/config"
)

// Config 聚合器配置
type Config struct {
	// DedupWindow 冷却窗口
	// 放行一个目标后，窗口内同一目标的后续信号被抑制
	DedupWindow time.Duration
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return Config{
		DedupWindow: 5 * time.Second, // 冷却窗口
	}
}

// ConfigFromUnified 从统一配置创建聚合器配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := NewConfig()
	if cfg != nil && cfg.Signals.DedupWindow > 0 {
		c.DedupWindow = cfg.Signals.DedupWindow.Duration()
	}
	return c
}

// WithDedupWindow 设置冷却窗口
func (c Config) WithDedupWindow(window time.Duration) Config {
	c.DedupWindow = window
	return c
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.DedupWindow <= 0 {
		return fmt.Errorf("%w: dedup window must be positive", ErrInvalidConfig)
	}
	return nil
}

package config

import (
	"errors"
	"time"
)

// SignalsConfig 加入信号配置
//
// 配置四条信号通道与聚合器：
//   - 邀请: 定向邀请单槽（始终启用）
//   - 启动参数 / 环境变量: 周期性扫描
//   - 被动连接: 未经协商的入站包
//   - 聚合器: 冷却窗口去重
type SignalsConfig struct {
	// ScanInterval 启动参数与环境变量的扫描间隔
	ScanInterval Duration `json:"scan_interval" env:"SCAN_INTERVAL"`

	// DedupWindow 聚合器冷却窗口
	// 同一目标身份在窗口内的重复信号被静默吞掉
	DedupWindow Duration `json:"dedup_window" env:"DEDUP_WINDOW"`

	// MinPlatformID 裸数字参数判定为平台身份的下限
	// 低于该值的数字参数视为普通参数而非加入目标
	MinPlatformID uint64 `json:"min_platform_id" env:"MIN_PLATFORM_ID"`

	// EnableLaunchArgs 是否启用启动参数通道
	EnableLaunchArgs bool `json:"enable_launch_args" env:"ENABLE_LAUNCH_ARGS"`

	// EnableEnvironment 是否启用环境变量通道
	EnableEnvironment bool `json:"enable_environment" env:"ENABLE_ENVIRONMENT"`

	// EnablePassive 是否启用被动连接通道
	EnablePassive bool `json:"enable_passive" env:"ENABLE_PASSIVE"`

	// PassiveBuffer 被动连接通道的环形缓冲大小
	PassiveBuffer int `json:"passive_buffer" env:"PASSIVE_BUFFER"`
}

// DefaultSignalsConfig 返回默认加入信号配置
func DefaultSignalsConfig() SignalsConfig {
	return SignalsConfig{
		ScanInterval:      Duration(1 * time.Second), // 扫描间隔：每秒至多一次
		DedupWindow:       Duration(5 * time.Second), // 冷却窗口：5 秒
		MinPlatformID:     76561197960265728,         // 平台个人账号 ID 下限
		EnableLaunchArgs:  true,                      // 启用启动参数通道
		EnableEnvironment: true,                      // 启用环境变量通道
		EnablePassive:     true,                      // 启用被动连接通道
		PassiveBuffer:     8,                         // 被动缓冲：8 个身份
	}
}

// Validate 验证加入信号配置
func (c SignalsConfig) Validate() error {
	if c.ScanInterval <= 0 {
		return errors.New("signal scan interval must be positive")
	}
	if c.DedupWindow <= 0 {
		return errors.New("signal dedup window must be positive")
	}
	if c.MinPlatformID == 0 {
		return errors.New("min platform id must be positive")
	}
	if c.EnablePassive && c.PassiveBuffer <= 0 {
		return errors.New("passive buffer must be positive")
	}
	return nil
}

// WithLaunchArgs 设置是否启用启动参数通道
func (c SignalsConfig) WithLaunchArgs(enabled bool) SignalsConfig {
	c.EnableLaunchArgs = enabled
	return c
}

// WithEnvironment 设置是否启用环境变量通道
func (c SignalsConfig) WithEnvironment(enabled bool) SignalsConfig {
	c.EnableEnvironment = enabled
	return c
}

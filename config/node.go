package config

import (
	"errors"
	"time"
)

// NodeConfig 节点运行配置
//
// 配置协作周期的驱动方式：
//   - 内部定时: 节点自带 ticker，按固定间隔推进
//   - 外部驱动: 宿主在帧循环里调用 Tick()
type NodeConfig struct {
	// AutoTick 是否由节点内部定时推进
	// 关闭后宿主必须自行调用 Node.Tick()
	AutoTick bool `json:"auto_tick" env:"AUTO_TICK"`

	// TickInterval 内部定时的推进间隔（仅 AutoTick 时生效）
	TickInterval Duration `json:"tick_interval" env:"TICK_INTERVAL"`
}

// DefaultNodeConfig 返回默认节点配置
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		AutoTick:     true,                            // 内部定时推进
		TickInterval: Duration(50 * time.Millisecond), // 推进间隔：50 毫秒
	}
}

// Validate 验证节点配置
func (c NodeConfig) Validate() error {
	if c.AutoTick && c.TickInterval <= 0 {
		return errors.New("tick interval must be positive when auto tick is enabled")
	}
	return nil
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FromJSON 从 JSON 数据创建配置
//
// 支持从 JSON 文件或字符串加载配置。
// JSON 格式与 Config 结构体一一对应，未出现的字段保持默认值。
//
// 示例 JSON:
//
//	{
//	  "discovery": {"host_ttl": "30s"},
//	  "session": {"max_peers": 3, "heartbeat_interval": "2s"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为 JSON
//
// 输出带缩进的 JSON，适合写入配置文件供用户编辑。
func ToJSON(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// ApplyPreset 应用预设配置
//
// Preset 提供了针对不同场景优化的配置组合。
// 该函数将预设应用到配置上。
//
// 支持的预设：
//   - "lan": 局域网低延迟
//   - "relaxed": 高延迟/不稳定链路
//   - "minimal": 仅被动信号，外部驱动
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "lan":
		return applyLANPreset(cfg)
	case "relaxed":
		return applyRelaxedPreset(cfg)
	case "minimal":
		return applyMinimalPreset(cfg)
	case "":
		// 空预设，不做任何操作
		return nil
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
}

// applyLANPreset 应用局域网预设
//
// 局域网配置优化：
//   - 更短的扫描与心跳间隔（低延迟链路）
//   - 更紧的握手与存活窗口（快速失败）
//   - 更高的协作频率
func applyLANPreset(cfg *Config) error {
	// 发现：快速扫描
	cfg.Discovery.FriendScanInterval = Duration(500 * time.Millisecond)

	// 信号：快速扫描，短冷却
	cfg.Signals.ScanInterval = Duration(500 * time.Millisecond)
	cfg.Signals.DedupWindow = Duration(2 * time.Second)

	// 会话：紧凑的心跳与判离窗口
	cfg.Session.HeartbeatInterval = Duration(1 * time.Second)
	cfg.Session.HostBroadcastInterval = Duration(2 * time.Second)
	cfg.Session.HandshakeTimeout = Duration(5 * time.Second)
	cfg.Session.LivenessWindow = Duration(4 * time.Second)

	// 节点：更高的协作频率
	cfg.Node.TickInterval = Duration(20 * time.Millisecond)

	return nil
}

// applyRelaxedPreset 应用宽松预设
//
// 宽松配置优化：
//   - 更长的存活与握手窗口（容忍抖动）
//   - 更长的记录存活窗口
//   - 适合中继叠加网络等高延迟链路
func applyRelaxedPreset(cfg *Config) error {
	// 发现：更长的记录存活窗口
	cfg.Discovery.HostTTL = Duration(60 * time.Second)

	// 信号：更长的冷却窗口，避免抖动重复触发
	cfg.Signals.DedupWindow = Duration(10 * time.Second)

	// 会话：宽松的心跳与判离窗口
	cfg.Session.HeartbeatInterval = Duration(4 * time.Second)
	cfg.Session.HostBroadcastInterval = Duration(8 * time.Second)
	cfg.Session.HandshakeTimeout = Duration(30 * time.Second)
	cfg.Session.LivenessWindow = Duration(20 * time.Second)

	return nil
}

// applyMinimalPreset 应用最小预设
//
// 最小配置优化：
//   - 仅保留邀请与被动信号通道
//   - 禁用好友扫描
//   - 外部驱动协作周期
//   - 适合测试和嵌入式宿主
func applyMinimalPreset(cfg *Config) error {
	// 发现：禁用好友扫描，仅靠邀请与被动信号
	cfg.Discovery.EnableFriendScan = false

	// 信号：关闭扫描类通道
	cfg.Signals.EnableLaunchArgs = false
	cfg.Signals.EnableEnvironment = false

	// 节点：外部驱动
	cfg.Node.AutoTick = false

	return nil
}

// NewLANConfig 创建局域网预设配置
func NewLANConfig() *Config {
	cfg := NewConfig()
	_ = applyLANPreset(cfg)
	return cfg
}

// NewRelaxedConfig 创建宽松预设配置
func NewRelaxedConfig() *Config {
	cfg := NewConfig()
	_ = applyRelaxedPreset(cfg)
	return cfg
}

// NewMinimalConfig 创建最小预设配置
func NewMinimalConfig() *Config {
	cfg := NewConfig()
	_ = applyMinimalPreset(cfg)
	return cfg
}

// CloneConfig 克隆配置
//
// 创建配置的深拷贝，用于安全地修改配置而不影响原始配置。
// 所有子配置均为值类型，直接复制即为深拷贝。
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}

	cloned := &Config{
		Discovery: cfg.Discovery,
		Signals:   cfg.Signals,
		Session:   cfg.Session,
		Node:      cfg.Node,
	}

	return cloned
}

// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持环境变量覆盖（GTNET_ 前缀）
//   - 支持预设配置（lan/relaxed/minimal）
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Session.MaxPeers = 7
//	cfg.Signals.EnableEnvironment = false
//
//	// 使用预设配置
//	cfg := config.NewLANConfig()
//
//	// 应用预设到现有配置
//	config.ApplyPreset(cfg, "lan")
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
//
//	// 应用环境变量覆盖
//	err := config.ApplyEnv(cfg)
package config

// Config 是 GTNet 的完整配置结构
//
// 该结构体嵌入了所有组件的子配置，提供统一的配置接口。
// 配置按照功能模块组织：
//   - Discovery: 主机发现（注册表 TTL / 好友状态扫描）
//   - Signals: 加入信号（邀请/启动参数/环境变量/被动连接）
//   - Session: 会话控制（握手/心跳/成员管理）
//   - Node: 节点运行（协作周期驱动）
type Config struct {
	// Discovery 主机发现配置
	Discovery DiscoveryConfig `json:"discovery" envPrefix:"DISCOVERY_"`

	// Signals 加入信号配置
	Signals SignalsConfig `json:"signals" envPrefix:"SIGNALS_"`

	// Session 会话控制配置
	Session SessionConfig `json:"session" envPrefix:"SESSION_"`

	// Node 节点运行配置
	Node NodeConfig `json:"node" envPrefix:"NODE_"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
// 可以通过修改字段或使用 Option 函数来定制配置。
func NewConfig() *Config {
	return &Config{
		Discovery: DefaultDiscoveryConfig(),
		Signals:   DefaultSignalsConfig(),
		Session:   DefaultSessionConfig(),
		Node:      DefaultNodeConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
// 建议在使用配置前调用此方法。
func (c *Config) Validate() error {
	if err := c.Discovery.Validate(); err != nil {
		return err
	}
	if err := c.Signals.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	if err := c.Node.Validate(); err != nil {
		return err
	}
	return nil
}

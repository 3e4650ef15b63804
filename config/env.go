package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv 应用环境变量覆盖
//
// 从环境变量读取配置并覆盖到现有配置上，变量名使用 GTNET_ 前缀
// 加节段前缀，例如：
//
//	GTNET_DISCOVERY_HOST_TTL=60s
//	GTNET_SESSION_MAX_PEERS=7
//	GTNET_SIGNALS_ENABLE_ENVIRONMENT=false
//	GTNET_NODE_AUTO_TICK=false
//
// 未设置的变量保持原值不变。时长字段接受 Go 时长格式（"30s"、"2m"）。
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "GTNET_"}); err != nil {
		return fmt.Errorf("failed to parse env: %w", err)
	}
	return nil
}

// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"github.com/gungeon-together/go-gtnet/config"
)

// 预设名称常量
const (
	// PresetNameLAN 局域网低延迟预设
	PresetNameLAN = "lan"
	// PresetNameRelaxed 高延迟/不稳定链路预设
	PresetNameRelaxed = "relaxed"
	// PresetNameMinimal 仅被动信号、外部驱动预设
	PresetNameMinimal = "minimal"
)

// GetDefaultConfig 返回默认配置。
func GetDefaultConfig() *config.Config {
	return config.NewConfig()
}

// GetLANConfig 返回局域网预设配置。
// 更短的扫描与心跳间隔，更紧的握手与存活窗口。
func GetLANConfig() *config.Config {
	return config.NewLANConfig()
}

// GetRelaxedConfig 返回宽松预设配置。
// 针对高延迟或不稳定链路放宽全部超时窗口。
func GetRelaxedConfig() *config.Config {
	return config.NewRelaxedConfig()
}

// GetMinimalConfig 返回最小预设配置。
// 关闭主动扫描通道，仅保留邀请与被动信号，由宿主外部驱动。
func GetMinimalConfig() *config.Config {
	return config.NewMinimalConfig()
}

// GetConfigByPreset 根据预设名返回配置。
// 空名返回默认配置，未知名返回 ErrUnknownPreset。
func GetConfigByPreset(name string) (*config.Config, error) {
	switch name {
	case "":
		return GetDefaultConfig(), nil
	case PresetNameLAN:
		return GetLANConfig(), nil
	case PresetNameRelaxed:
		return GetRelaxedConfig(), nil
	case PresetNameMinimal:
		return GetMinimalConfig(), nil
	default:
		return nil, ErrUnknownPreset
	}
}

// AvailablePresets 返回全部可用预设名。
func AvailablePresets() []string {
	return []string{PresetNameLAN, PresetNameRelaxed, PresetNameMinimal}
}

// IsValidPreset 判断预设名是否可用（空名视为默认配置，同样有效）。
func IsValidPreset(name string) bool {
	switch name {
	case "", PresetNameLAN, PresetNameRelaxed, PresetNameMinimal:
		return true
	default:
		return false
	}
}

// PresetInfo 返回各预设的一句话说明。
func PresetInfo() map[string]string {
	return map[string]string{
		PresetNameLAN:     "局域网低延迟：快扫描、紧超时、高协作频率",
		PresetNameRelaxed: "宽松链路：放宽心跳与存活窗口，适合高延迟网络",
		PresetNameMinimal: "最小模式：仅邀请与被动信号，宿主外部驱动",
	}
}

// Package registry 实现主机注册表
package registry

import (
	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 注册表依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config      `optional:"true"`
	EventBus   interfaces.EventBus `optional:"true"`
}

// Result 注册表模块输出
type Result struct {
	fx.Out

	Registry interfaces.HostRegistry
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("core_registry",
		fx.Provide(
			ProvideConfig,
			provideRegistry,
		),
	)
}

// ProvideConfig 从统一配置提供注册表配置
func ProvideConfig(p Params) Config {
	return ConfigFromUnified(p.UnifiedCfg)
}

// provideRegistry 提供注册表实例
func provideRegistry(cfg Config, p Params) (Result, error) {
	reg, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	if p.EventBus != nil {
		reg.SetEventBus(p.EventBus)
	}
	return Result{Registry: reg}, nil
}

// Package envscan 实现环境变量信号通道
package envscan

import (
	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 扫描器依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result 扫描器模块输出
type Result struct {
	fx.Out

	Signal interfaces.SignalChannel `group:"signal_channels"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("signals_envscan",
		fx.Provide(provideScanner),
	)
}

// provideScanner 提供扫描器实例
//
// 通道被配置禁用时产出 nil，聚合器收集时跳过。
func provideScanner(p Params) (Result, error) {
	if p.UnifiedCfg != nil && !p.UnifiedCfg.Signals.EnableEnvironment {
		return Result{}, nil
	}

	sc, err := New(ConfigFromUnified(p.UnifiedCfg))
	if err != nil {
		return Result{}, err
	}
	return Result{Signal: sc}, nil
}

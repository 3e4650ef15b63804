// Package aggregator 实现加入信号聚合
package aggregator

import (
	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 聚合器依赖参数
//
// Channels 收集信号通道组：被禁用的通道以 nil 入组，
// 构造时剔除。组内顺序由 Fx 决定，不承载优先级。
type Params struct {
	fx.In

	UnifiedCfg *config.Config             `optional:"true"`
	Channels   []interfaces.SignalChannel `group:"signal_channels"`
	Identity   interfaces.LocalIdentity   `optional:"true"`
	EventBus   interfaces.EventBus        `optional:"true"`
	Stats      interfaces.StatsReporter   `optional:"true"`
}

// Result 聚合器模块输出
type Result struct {
	fx.Out

	Aggregator interfaces.Aggregator
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("signals_aggregator",
		fx.Provide(provideAggregator),
	)
}

// provideAggregator 提供聚合器实例
func provideAggregator(p Params) (Result, error) {
	agg, err := New(ConfigFromUnified(p.UnifiedCfg), p.Channels)
	if err != nil {
		return Result{}, err
	}
	if p.Identity != nil {
		agg.SetLocalIdentity(p.Identity)
	}
	if p.EventBus != nil {
		agg.SetEventBus(p.EventBus)
	}
	if p.Stats != nil {
		agg.SetStats(p.Stats)
	}
	return Result{Aggregator: agg}, nil
}

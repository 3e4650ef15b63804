// Package passive 实现被动连接信号通道
package passive

import (
	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 通道依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result 通道模块输出
//
// 具体类型供会话控制器投入隐式加入尝试，
// 接口值进入信号通道组供聚合器收集。
type Result struct {
	fx.Out

	Channel *Channel
	Signal  interfaces.SignalChannel `group:"signal_channels"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("signals_passive",
		fx.Provide(provideChannel),
	)
}

// provideChannel 提供通道实例
//
// 通道被配置禁用时产出 nil：聚合器跳过收集，
// 控制器对 nil 通道不投入尝试。
func provideChannel(p Params) (Result, error) {
	if p.UnifiedCfg != nil && !p.UnifiedCfg.Signals.EnablePassive {
		return Result{}, nil
	}

	ch, err := New(ConfigFromUnified(p.UnifiedCfg))
	if err != nil {
		return Result{}, err
	}
	return Result{
		Channel: ch,
		Signal:  ch,
	}, nil
}

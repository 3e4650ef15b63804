// Package invitechan 实现定向邀请信号通道
package invitechan

import (
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 邀请通道依赖参数
type Params struct {
	fx.In

	EventBus interfaces.EventBus `optional:"true"`
}

// Result 邀请通道模块输出
//
// 具体类型供节点转发 Deliver 调用，
// 接口值进入信号通道组供聚合器收集。
type Result struct {
	fx.Out

	Channel *Channel
	Signal  interfaces.SignalChannel `group:"signal_channels"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("signals_invite",
		fx.Provide(provideChannel),
	)
}

// provideChannel 提供邀请通道实例
func provideChannel(p Params) Result {
	ch := New()
	if p.EventBus != nil {
		ch.SetEventBus(p.EventBus)
	}
	return Result{
		Channel: ch,
		Signal:  ch,
	}
}

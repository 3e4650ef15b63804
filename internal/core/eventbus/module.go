// Package eventbus 实现事件总线
package eventbus

import (
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	EventBus interfaces.EventBus
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("core_eventbus",
		fx.Provide(ProvideEventBus),
	)
}

// ProvideEventBus 提供 EventBus 实例
func ProvideEventBus() Result {
	return Result{
		EventBus: NewBus(),
	}
}

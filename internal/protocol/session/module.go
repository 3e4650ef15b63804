// Package session 实现会话控制器
package session

import (
	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/internal/protocol/codec"
	"github.com/gungeon-together/go-gtnet/internal/signals/passive"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 会话控制器依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config           `optional:"true"`
	Codec      *codec.Codec
	Registry   interfaces.HostRegistry
	Provider   interfaces.Provider      `optional:"true"`
	Identity   interfaces.LocalIdentity `optional:"true"`
	Passive    *passive.Channel         `optional:"true"`
	EventBus   interfaces.EventBus      `optional:"true"`
	Stats      interfaces.StatsReporter `optional:"true"`
}

// Result 会话模块输出
//
// 接口值供节点与上层使用，具体类型供根门面暴露
// SetProfile 等控制器专有操作。
type Result struct {
	fx.Out

	Session    interfaces.Session
	Controller *Controller
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("protocol_session",
		fx.Provide(provideSession),
	)
}

// provideSession 提供会话控制器实例
func provideSession(p Params) (Result, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)

	ctrl, err := New(cfg, p.Codec, p.Registry, p.Provider, p.Identity)
	if err != nil {
		return Result{}, err
	}

	if p.Passive != nil {
		ctrl.SetPassiveChannel(p.Passive)
	}
	if p.EventBus != nil {
		ctrl.SetEventBus(p.EventBus)
	}
	if p.Stats != nil {
		ctrl.SetStats(p.Stats)
	}

	return Result{
		Session:    ctrl,
		Controller: ctrl,
	}, nil
}

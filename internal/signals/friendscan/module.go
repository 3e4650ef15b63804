// Package friendscan 实现好友状态扫描
package friendscan

import (
	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 扫描器依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config           `optional:"true"`
	Provider   interfaces.Provider      `optional:"true"`
	Identity   interfaces.LocalIdentity `optional:"true"`
	Registry   interfaces.HostRegistry
}

// Result 扫描器模块输出
type Result struct {
	fx.Out

	Scanner *Scanner
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("signals_friendscan",
		fx.Provide(provideScanner),
	)
}

// provideScanner 提供扫描器实例
//
// 扫描被配置禁用时产出 nil，节点 tick 对 nil 扫描器不调度。
func provideScanner(p Params) (Result, error) {
	if p.UnifiedCfg != nil && !p.UnifiedCfg.Discovery.EnableFriendScan {
		return Result{}, nil
	}

	sc, err := New(ConfigFromUnified(p.UnifiedCfg), p.Provider, p.Registry, p.Identity)
	if err != nil {
		return Result{}, err
	}
	return Result{Scanner: sc}, nil
}

// Package identity 实现本机身份解析
package identity

import (
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Params 身份解析依赖参数
type Params struct {
	fx.In

	Provider interfaces.Provider `optional:"true"`
}

// Result 身份模块输出
type Result struct {
	fx.Out

	Identity interfaces.LocalIdentity
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("core_identity",
		fx.Provide(provideResolver),
	)
}

// provideResolver 提供身份解析器实例
func provideResolver(p Params) Result {
	return Result{
		Identity: NewResolver(p.Provider),
	}
}

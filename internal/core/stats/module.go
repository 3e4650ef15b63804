// Package stats 提供数据包计数收集
package stats

import (
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Stats interfaces.StatsReporter
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("core_stats",
		fx.Provide(ProvideTracker),
	)
}

// ProvideTracker 提供 Tracker 实例
func ProvideTracker() Result {
	return Result{
		Stats: NewTracker(),
	}
}

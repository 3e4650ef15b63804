// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/gungeon-together/go-gtnet/internal/core/eventbus"
	"github.com/gungeon-together/go-gtnet/internal/core/identity"
	"github.com/gungeon-together/go-gtnet/internal/core/registry"
	"github.com/gungeon-together/go-gtnet/internal/core/stats"
	"github.com/gungeon-together/go-gtnet/internal/protocol/codec"
	"github.com/gungeon-together/go-gtnet/internal/protocol/session"
	"github.com/gungeon-together/go-gtnet/internal/signals/aggregator"
	"github.com/gungeon-together/go-gtnet/internal/signals/argscan"
	"github.com/gungeon-together/go-gtnet/internal/signals/envscan"
	"github.com/gungeon-together/go-gtnet/internal/signals/friendscan"
	"github.com/gungeon-together/go-gtnet/internal/signals/invitechan"
	"github.com/gungeon-together/go-gtnet/internal/signals/passive"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
)

// buildFxApp 组装依赖注入容器
//
// 组装次序：统一配置 → 基础设施（事件总线/身份/统计）→
// 发现与编解码 → 信号通道与聚合 → 会话控制。
// 被禁用的组件在各自模块内降级为 nil，消费方按可选依赖处理。
func buildFxApp(opts *options, node *Node) (*fx.App, error) {
	if err := opts.config.Validate(); err != nil {
		return nil, fmt.Errorf("gtnet: invalid config: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(opts.config),

		// 基础设施
		eventbus.Module(),
		identity.Module(),
		stats.Module(),

		// 发现与编解码
		registry.Module(),
		codec.Module,

		// 加入信号
		invitechan.Module(),
		argscan.Module(),
		envscan.Module(),
		passive.Module(),
		friendscan.Module(),
		aggregator.Module(),

		// 会话控制
		session.Module(),
	}

	// 平台适配由使用方注入，未注入时各组件按可选依赖降级
	if opts.provider != nil {
		provider := opts.provider
		modules = append(modules, fx.Provide(
			func() interfaces.Provider { return provider },
		))
	}

	if len(opts.fxOptions) > 0 {
		modules = append(modules, opts.fxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectNodeComponents(node)),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("gtnet: assemble components: %w", err)
	}
	return app, nil
}

// nodeComponents 从容器提取节点持有的组件引用
type nodeComponents struct {
	fx.In

	Identity   interfaces.LocalIdentity
	EventBus   interfaces.EventBus
	Stats      interfaces.StatsReporter
	Registry   interfaces.HostRegistry
	Aggregator interfaces.Aggregator
	Session    interfaces.Session
	Controller *session.Controller
	Invites    *invitechan.Channel
	Scanner    *friendscan.Scanner `optional:"true"`
}

// injectNodeComponents 把容器内的组件引用回填到节点
//
// fx.Invoke 在容器构建期执行，New 返回后组件即可用，
// Start 只负责生命周期钩子与定时器。
func injectNodeComponents(node *Node) func(nodeComponents) {
	return func(c nodeComponents) {
		node.identity = c.Identity
		node.bus = c.EventBus
		node.stats = c.Stats
		node.registry = c.Registry
		node.aggregator = c.Aggregator
		node.session = c.Session
		node.controller = c.Controller
		node.invites = c.Invites
		node.scanner = c.Scanner
	}
}

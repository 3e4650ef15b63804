// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
)

// Option 节点构造选项。
// 选项按传入顺序应用，后应用的覆盖先应用的。
type Option func(*options) error

// options 汇总 New 收集的全部可选项
type options struct {
	config    *config.Config
	provider  interfaces.Provider
	profile   Profile
	fxOptions []fx.Option
}

func defaultOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
// 配置选项
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置对象。
// 配置会被深拷贝，之后对 cfg 的修改不影响节点。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: config", ErrNilOption)
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigJSON 从 JSON 数据加载完整配置。
func WithConfigJSON(data []byte) Option {
	return func(o *options) error {
		cfg, err := config.FromJSON(data)
		if err != nil {
			return fmt.Errorf("gtnet: parse config: %w", err)
		}
		o.config = cfg
		return nil
	}
}

// WithPreset 应用命名预设，可用预设见 AvailablePresets。
func WithPreset(name string) Option {
	return func(o *options) error {
		if err := config.ApplyPreset(o.config, name); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		return nil
	}
}

// WithEnvOverrides 应用环境变量覆盖（GTNET_ 前缀）。
// 放在其他配置选项之后可让部署环境拥有最终决定权。
func WithEnvOverrides() Option {
	return func(o *options) error {
		if err := config.ApplyEnv(o.config); err != nil {
			return fmt.Errorf("gtnet: apply env: %w", err)
		}
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
// 平台与档案选项
// ════════════════════════════════════════════════════════════════════════════

// WithProvider 注入平台适配实现。
// 未注入时节点以离线降级模式运行：状态机照常推进，但不收发报文。
func WithProvider(p interfaces.Provider) Option {
	return func(o *options) error {
		if p == nil {
			return fmt.Errorf("%w: provider", ErrNilOption)
		}
		o.provider = p
		return nil
	}
}

// WithProfile 设置本地玩家档案（展示名/场景/出生点）。
func WithProfile(p Profile) Option {
	return func(o *options) error {
		o.profile = p
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
// 运行与会话选项
// ════════════════════════════════════════════════════════════════════════════

// WithAutoTick 设置是否由节点内部定时推进协作周期。
// 关闭后宿主必须在帧循环中调用 Node.Tick。
func WithAutoTick(enabled bool) Option {
	return func(o *options) error {
		o.config.Node.AutoTick = enabled
		return nil
	}
}

// WithTickInterval 设置内部定时的推进间隔。
func WithTickInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("%w: tick interval %v", ErrInvalidOption, d)
		}
		o.config.Node.TickInterval = config.Duration(d)
		return nil
	}
}

// WithMaxPeers 设置主持会话时可接纳的最大成员数。
func WithMaxPeers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("%w: max peers %d", ErrInvalidOption, n)
		}
		o.config.Session = o.config.Session.WithMaxPeers(n)
		return nil
	}
}

// WithHostTTL 设置主机记录的存活窗口。
func WithHostTTL(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("%w: host TTL %v", ErrInvalidOption, d)
		}
		o.config.Discovery.HostTTL = config.Duration(d)
		return nil
	}
}

// WithFriendScan 设置是否启用好友状态扫描。
func WithFriendScan(enabled bool) Option {
	return func(o *options) error {
		o.config.Discovery = o.config.Discovery.WithFriendScan(enabled)
		return nil
	}
}

// WithLaunchArgs 设置是否启用启动参数信号通道。
func WithLaunchArgs(enabled bool) Option {
	return func(o *options) error {
		o.config.Signals = o.config.Signals.WithLaunchArgs(enabled)
		return nil
	}
}

// WithEnvironment 设置是否启用环境变量信号通道。
func WithEnvironment(enabled bool) Option {
	return func(o *options) error {
		o.config.Signals = o.config.Signals.WithEnvironment(enabled)
		return nil
	}
}

// WithPassive 设置是否启用被动连接信号通道。
func WithPassive(enabled bool) Option {
	return func(o *options) error {
		o.config.Signals.EnablePassive = enabled
		return nil
	}
}

// WithDedupWindow 设置加入信号聚合器的冷却窗口。
func WithDedupWindow(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("%w: dedup window %v", ErrInvalidOption, d)
		}
		o.config.Signals.DedupWindow = config.Duration(d)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
// 扩展选项
// ════════════════════════════════════════════════════════════════════════════

// WithFxOption 透传额外的 fx 选项。
// 高级用法，主要面向测试替身注入与组件扩展。
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}

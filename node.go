// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/internal/protocol/session"
	"github.com/gungeon-together/go-gtnet/internal/signals/friendscan"
	"github.com/gungeon-together/go-gtnet/internal/signals/invitechan"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
)

var logger = log.Logger("gtnet")

// ════════════════════════════════════════════════════════════════════════════
// 节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点生命周期状态
type NodeState int32

const (
	// StateIdle 已创建未启动
	StateIdle NodeState = iota
	// StateInitializing 正在启动
	StateInitializing
	// StateRunning 运行中
	StateRunning
	// StateStopping 正在关闭
	StateStopping
	// StateStopped 已关闭
	StateStopped
)

// String 返回状态的字符串表示
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// 生命周期超时
const (
	startTimeout = 15 * time.Second
	stopTimeout  = 10 * time.Second
)

// ════════════════════════════════════════════════════════════════════════════
// Node - 统一门面
// ════════════════════════════════════════════════════════════════════════════

// Node 是 GTNet 的顶层入口
//
// 节点聚合主机发现、加入信号与会话控制三层组件，
// 以协作周期（Tick）驱动全部推进。组件经依赖注入容器
// 组装，节点仅持有引用并转发门面调用。
type Node struct {
	opts *options
	app  *fx.App
	clk  clock.Clock

	// 容器注入的组件引用
	identity   interfaces.LocalIdentity
	bus        interfaces.EventBus
	stats      interfaces.StatsReporter
	registry   interfaces.HostRegistry
	aggregator interfaces.Aggregator
	session    interfaces.Session
	controller *session.Controller
	invites    *invitechan.Channel
	scanner    *friendscan.Scanner

	mu      sync.Mutex
	state   NodeState
	started bool
	closed  bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New 创建节点
//
// 组件在 New 内完成组装与校验，失败即返回错误；
// Start 之前节点不产生任何平台交互。
func New(opts ...Option) (*Node, error) {
	o := defaultOptions()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}

	node := &Node{
		opts:  o,
		clk:   clock.New(),
		state: StateIdle,
	}

	app, err := buildFxApp(o, node)
	if err != nil {
		return nil, err
	}
	node.app = app

	node.controller.SetProfile(o.profile)

	return node, nil
}

// Start 启动节点
//
// 执行容器生命周期钩子；AutoTick 开启时同时启动内部定时器。
// 已启动返回 ErrAlreadyStarted，已关闭返回 ErrNodeClosed。
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	n.state = StateInitializing

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()

	if err := n.app.Start(startCtx); err != nil {
		n.state = StateIdle
		return fmt.Errorf("gtnet: start: %w", err)
	}

	if n.opts.config.Node.AutoTick {
		n.stopCh = make(chan struct{})
		n.wg.Add(1)
		go n.tickLoop(n.opts.config.Node.TickInterval.Duration(), n.stopCh)
	}

	n.started = true
	n.state = StateRunning

	logger.Info("节点已启动",
		"identity", log.TruncateID(n.identity.Local().String(), 12),
		"autoTick", n.opts.config.Node.AutoTick)
	return nil
}

// Close 关闭节点并释放资源（幂等）
//
// 先停内部定时器，再结束当前会话（对端经心跳静默自行察觉），
// 最后执行容器关闭钩子。
func (n *Node) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	wasStarted := n.started
	n.started = false
	n.state = StateStopping
	stop := n.stopCh
	n.stopCh = nil
	n.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	n.wg.Wait()

	if n.session.State() != SessionIdle {
		if err := n.session.StopSession(); err != nil {
			logger.Warn("关闭时停止会话失败", "err", err)
		}
	}

	var stopErr error
	if wasStarted {
		stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		stopErr = n.app.Stop(stopCtx)
	}

	n.mu.Lock()
	n.state = StateStopped
	n.mu.Unlock()

	if stopErr != nil {
		return fmt.Errorf("gtnet: stop: %w", stopErr)
	}
	logger.Info("节点已关闭")
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
// 协作周期
// ════════════════════════════════════════════════════════════════════════════

// tickLoop 内部定时推进协作周期
func (n *Node) tickLoop(interval time.Duration, stop <-chan struct{}) {
	defer n.wg.Done()

	ticker := n.clk.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			n.Tick(now)
		}
	}
}

// Tick 推进一次协作周期
//
// 周期次序固定：好友扫描 → 信号聚合 → 会话状态机 → 注册表清扫。
// AutoTick 关闭时由宿主在帧循环中调用；开启时由内部定时器调用。
// 未启动或已关闭时为无操作。
func (n *Node) Tick(now time.Time) {
	n.mu.Lock()
	running := n.started && !n.closed
	n.mu.Unlock()
	if !running {
		return
	}

	if n.scanner != nil {
		n.scanner.Scan(now)
	}

	if sig, ok := n.aggregator.Poll(now); ok {
		n.session.OnJoinSignal(sig)
	}

	n.session.Tick(now)
	n.registry.Sweep(now)
}

// ════════════════════════════════════════════════════════════════════════════
// 节点信息
// ════════════════════════════════════════════════════════════════════════════

// State 返回节点生命周期状态
func (n *Node) State() NodeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// IsRunning 报告节点是否处于运行态
func (n *Node) IsRunning() bool {
	return n.State() == StateRunning
}

// LocalID 返回平台上的本机身份（平台未就绪时为 EmptyIdentity）
func (n *Node) LocalID() Identity {
	return n.identity.Local()
}

// Config 返回节点配置的副本
func (n *Node) Config() *config.Config {
	return config.CloneConfig(n.opts.config)
}

// requireRunning 校验节点处于可用状态
func (n *Node) requireRunning() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrNodeClosed
	}
	if !n.started {
		return ErrNotStarted
	}
	return nil
}

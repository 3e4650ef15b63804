// Package aggregator 实现加入信号聚合
package aggregator

import (
	"sort"
	"sync"
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("signals/aggregator")

// 确保实现了接口
var _ interfaces.Aggregator = (*Aggregator)(nil)

// Aggregator 加入信号聚合器
//
// 按可信度顺序轮询通道，对产出做本机过滤与冷却去重，
// 每次轮询至多放行一条加入意图。
type Aggregator struct {
	mu sync.Mutex

	cfg Config

	// channels 按来源信任序排定的通道（构造时剔除 nil 并排序）
	channels []interfaces.SignalChannel

	// local 本机身份（可选，未注入时不做本机过滤）
	local interfaces.LocalIdentity

	// eventBus 事件总线（可选，未注入时静默跳过发布）
	eventBus interfaces.EventBus

	// stats 统计报告器（可选）
	stats interfaces.StatsReporter

	// lastSeen 目标 → 最近放行时刻（冷却表）
	lastSeen map[types.Identity]time.Time
}

// New 创建聚合器
//
// channels 里的 nil 槽位（被配置禁用的通道）被剔除，
// 其余按来源信任序排定，与传入顺序无关。
func New(cfg Config, channels []interfaces.SignalChannel) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	active := make([]interfaces.SignalChannel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			active = append(active, ch)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return sourceRank(active[i].Source()) < sourceRank(active[j].Source())
	})

	return &Aggregator{
		cfg:      cfg,
		channels: active,
		lastSeen: make(map[types.Identity]time.Time),
	}, nil
}

// SetLocalIdentity 设置本机身份（须在并发使用前调用）
func (a *Aggregator) SetLocalIdentity(local interfaces.LocalIdentity) {
	a.local = local
}

// SetEventBus 设置事件总线（须在并发使用前调用）
func (a *Aggregator) SetEventBus(bus interfaces.EventBus) {
	a.eventBus = bus
}

// SetStats 设置统计报告器（须在并发使用前调用）
func (a *Aggregator) SetStats(stats interfaces.StatsReporter) {
	a.stats = stats
}

// Channels 返回按优先级排序的通道名列表
func (a *Aggregator) Channels() []string {
	names := make([]string, len(a.channels))
	for i, ch := range a.channels {
		names[i] = ch.Name()
	}
	return names
}

// Poll 轮询全部通道，返回至多一条去重后的加入意图
func (a *Aggregator) Poll(now time.Time) (types.JoinSignal, bool) {
	a.prune(now)

	local := types.EmptyIdentity
	if a.local != nil {
		local = a.local.Local()
	}

	for _, ch := range a.channels {
		sig, ok := ch.Poll(now)
		if !ok {
			continue
		}
		if !local.IsEmpty() && sig.Target == local {
			logger.Debug("丢弃指向本机的加入信号", "channel", ch.Name())
			continue
		}
		if a.inCooldown(sig.Target) {
			if a.stats != nil {
				a.stats.LogIntentSuppressed()
			}
			logger.Debug("冷却窗口内的重复目标", "channel", ch.Name(), "target", sig.Target)
			continue
		}

		a.mu.Lock()
		a.lastSeen[sig.Target] = now
		a.mu.Unlock()

		if a.stats != nil {
			a.stats.LogIntentEmitted()
		}
		logger.Info("放行加入意图",
			"channel", ch.Name(),
			"target", sig.Target,
			"source", sig.Source,
		)
		a.publishIntent(sig)
		return sig, true
	}
	return types.JoinSignal{}, false
}

// prune 清理冷却表里已出窗的条目
func (a *Aggregator) prune(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, t := range a.lastSeen {
		if now.Sub(t) > a.cfg.DedupWindow {
			delete(a.lastSeen, id)
		}
	}
}

// inCooldown 检查目标是否仍在冷却窗口内
func (a *Aggregator) inCooldown(target types.Identity) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.lastSeen[target]
	return ok
}

// publishIntent 发布加入意图事件
func (a *Aggregator) publishIntent(sig types.JoinSignal) {
	if a.eventBus == nil {
		return
	}

	emitter, err := a.eventBus.Emitter(&types.EvtJoinIntent{})
	if err != nil {
		logger.Warn("创建事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	evt := &types.EvtJoinIntent{
		BaseEvent: types.NewBaseEvent(types.EventTypeJoinIntent),
		Target:    sig.Target,
		Source:    sig.Source,
	}

	if err := emitter.Emit(evt); err != nil {
		logger.Warn("发布加入意图事件失败", "error", err)
	}
}

// sourceRank 返回来源的信任序（越小越可信）
func sourceRank(s types.SignalSource) int {
	switch s {
	case types.SignalSourceInvite:
		return 0
	case types.SignalSourceLaunchArgs:
		return 1
	case types.SignalSourceEnvironment:
		return 2
	case types.SignalSourcePassive:
		return 3
	default:
		return 4
	}
}

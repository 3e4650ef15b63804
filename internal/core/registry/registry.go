// Package registry 实现主机注册表
package registry

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("core/registry")

// 确保实现了接口
var _ interfaces.HostRegistry = (*Registry)(nil)

// Registry 主机注册表
//
// 维护已发现主机的短时记录：身份 → 记录，每个身份至多一条。
// 记录按发现顺序排列，清理与选择都遵循该顺序保证确定性。
type Registry struct {
	mu  sync.RWMutex
	cfg Config
	clk clock.Clock

	// records 身份到记录的映射
	records map[types.Identity]*types.HostRecord

	// order 记录的发现顺序（与 records 同步维护）
	order []types.Identity

	// hosting 本机正在托管的身份（SelectBest 永不返回它）
	hosting types.Identity

	// eventBus 事件总线（可选，未注入时静默跳过发布）
	eventBus interfaces.EventBus
}

// New 创建主机注册表
func New(cfg Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Registry{
		cfg:     cfg,
		clk:     clock.New(),
		records: make(map[types.Identity]*types.HostRecord),
	}, nil
}

// SetClock 设置时钟（用于测试，须在并发使用前调用）
func (r *Registry) SetClock(clk clock.Clock) {
	r.clk = clk
}

// SetEventBus 设置事件总线（须在并发使用前调用）
func (r *Registry) SetEventBus(bus interfaces.EventBus) {
	r.eventBus = bus
}

// Register 注册或更新主机记录（幂等）
//
// 新身份创建记录并发布 EvtHostDiscovered；
// 已有身份刷新 LastSeen 并标记活跃，从不活跃恢复时再次发布发现事件。
// 空展示名不会覆盖已知的展示名；空身份为无操作。
func (r *Registry) Register(id types.Identity, name string) {
	if id.IsEmpty() {
		return
	}

	now := r.clk.Now()

	r.mu.Lock()
	rec, ok := r.records[id]
	var discovered bool
	if !ok {
		rec = &types.HostRecord{
			ID:          id,
			DisplayName: name,
			PlayerCount: 1,
			LastSeen:    now,
			Active:      true,
		}
		r.records[id] = rec
		r.order = append(r.order, id)
		discovered = true
	} else {
		discovered = !rec.Active
		rec.LastSeen = now
		rec.Active = true
		if name != "" {
			rec.DisplayName = name
		}
	}
	snapshot := *rec
	r.mu.Unlock()

	if discovered {
		logger.Debug("发现主机", "host", id, "name", snapshot.DisplayName)
		r.publishDiscovered(snapshot)
	}
}

// Unregister 显式注销主机记录
//
// 记录立即删除并发布 EvtHostLost；不存在时为无操作。
func (r *Registry) Unregister(id types.Identity) {
	r.mu.Lock()
	_, ok := r.records[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	r.removeLocked(id)
	r.mu.Unlock()

	logger.Debug("主机已注销", "host", id)
	r.publishLost(id)
}

// Deactivate 将主机记录标记为不活跃
//
// 记录保留至 TTL 过期，期间再次 Register 即恢复活跃。
// 用于容忍富状态短暂消失等瞬时抖动；不存在或已不活跃时为无操作。
func (r *Registry) Deactivate(id types.Identity) {
	r.mu.Lock()
	rec, ok := r.records[id]
	if !ok || !rec.Active {
		r.mu.Unlock()
		return
	}
	rec.Active = false
	r.mu.Unlock()

	logger.Debug("主机转入不活跃", "host", id)
	r.publishLost(id)
}

// Touch 刷新主机记录的 LastSeen（记录不存在时为无操作）
func (r *Registry) Touch(id types.Identity) {
	now := r.clk.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[id]; ok {
		rec.LastSeen = now
	}
}

// UpdatePlayerCount 更新主机记录的玩家数（记录不存在时为无操作）
func (r *Registry) UpdatePlayerCount(id types.Identity, count int) {
	if count < 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[id]; ok {
		rec.PlayerCount = count
	}
}

// Sweep 按给定时刻清理过期记录
//
// 对仍处于活跃状态的过期记录发布 EvtHostLost；
// 已不活跃的记录在 Deactivate 时发布过，过期时静默移除。
func (r *Registry) Sweep(now time.Time) {
	var expired []types.Identity
	var lost []types.Identity

	r.mu.Lock()
	for _, id := range r.order {
		rec := r.records[id]
		if rec.IsExpired(now, r.cfg.TTL) {
			expired = append(expired, id)
			if rec.Active {
				lost = append(lost, id)
			}
		}
	}
	for _, id := range expired {
		r.removeLocked(id)
	}
	r.mu.Unlock()

	for _, id := range expired {
		logger.Debug("过期主机记录已清理", "host", id)
	}
	for _, id := range lost {
		r.publishLost(id)
	}
}

// ListActive 按发现顺序返回活跃主机记录
//
// 先按当前时刻隐式清理，因此返回值中不含过期记录。
// excluding 指定要排除的身份（通常为本机）。
func (r *Registry) ListActive(excluding types.Identity) []types.HostRecord {
	r.Sweep(r.clk.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.HostRecord, 0, len(r.order))
	for _, id := range r.order {
		rec := r.records[id]
		if !rec.Active || id == excluding {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

// SelectBest 选择最适合加入的主机
//
// 优先返回 preferred（若其活跃且可选）；否则返回最近触活的活跃主机，
// 并列时按发现顺序取最早者。永不返回 excluding 或本机托管的身份。
// 无可选主机时返回 types.EmptyIdentity。
func (r *Registry) SelectBest(excluding, preferred types.Identity) types.Identity {
	r.Sweep(r.clk.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !preferred.IsEmpty() && r.eligibleLocked(preferred, excluding) {
		return preferred
	}

	best := types.EmptyIdentity
	var bestSeen time.Time
	for _, id := range r.order {
		if !r.eligibleLocked(id, excluding) {
			continue
		}
		rec := r.records[id]
		// 严格晚于才替换：并列保持发现顺序最早者
		if best.IsEmpty() || rec.LastSeen.After(bestSeen) {
			best = id
			bestSeen = rec.LastSeen
		}
	}
	return best
}

// SetHosting 声明本机正在托管的身份
func (r *Registry) SetHosting(id types.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosting = id
}

// ClearHosting 清除托管声明
func (r *Registry) ClearHosting() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosting = types.EmptyIdentity
}

// Len 返回当前记录数（含未清理的过期记录）
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// eligibleLocked 判断身份是否可作为加入目标（须持有读锁）
func (r *Registry) eligibleLocked(id, excluding types.Identity) bool {
	rec, ok := r.records[id]
	if !ok || !rec.Active {
		return false
	}
	if id == excluding {
		return false
	}
	if !r.hosting.IsEmpty() && id == r.hosting {
		return false
	}
	return true
}

// removeLocked 删除记录并维护发现顺序（须持有写锁）
func (r *Registry) removeLocked(id types.Identity) {
	delete(r.records, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// publishDiscovered 发布发现主机事件
func (r *Registry) publishDiscovered(rec types.HostRecord) {
	if r.eventBus == nil {
		return
	}

	emitter, err := r.eventBus.Emitter(&types.EvtHostDiscovered{})
	if err != nil {
		logger.Warn("创建事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	evt := &types.EvtHostDiscovered{
		BaseEvent: types.NewBaseEvent(types.EventTypeHostDiscovered),
		Host:      rec,
	}

	if err := emitter.Emit(evt); err != nil {
		logger.Warn("发布发现主机事件失败", "error", err)
	}
}

// publishLost 发布主机失联事件
func (r *Registry) publishLost(id types.Identity) {
	if r.eventBus == nil {
		return
	}

	emitter, err := r.eventBus.Emitter(&types.EvtHostLost{})
	if err != nil {
		logger.Warn("创建事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	evt := &types.EvtHostLost{
		BaseEvent: types.NewBaseEvent(types.EventTypeHostLost),
		Host:      id,
	}

	if err := emitter.Emit(evt); err != nil {
		logger.Warn("发布主机失联事件失败", "error", err)
	}
}

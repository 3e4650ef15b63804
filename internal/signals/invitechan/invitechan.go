// Package invitechan 实现定向邀请信号通道
package invitechan

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("signals/invite")

// 确保实现了接口
var _ interfaces.SignalChannel = (*Channel)(nil)

// ChannelName 通道名
const ChannelName = "invite"

// Channel 定向邀请通道
//
// 持有唯一的邀请槽：并发到达的多个邀请只保留最新一个，
// 被消费后立即清空。不存在邀请队列。
// 邀请是可信度最高的加入信号来源。
type Channel struct {
	mu   sync.Mutex
	slot types.InviteRecord
	clk  clock.Clock

	// eventBus 事件总线（可选，未注入时静默跳过发布）
	eventBus interfaces.EventBus
}

// New 创建邀请通道
func New() *Channel {
	return &Channel{
		clk: clock.New(),
	}
}

// SetClock 设置时钟（用于测试，须在并发使用前调用）
func (c *Channel) SetClock(clk clock.Clock) {
	c.clk = clk
}

// SetEventBus 设置事件总线（须在并发使用前调用）
func (c *Channel) SetEventBus(bus interfaces.EventBus) {
	c.eventBus = bus
}

// Name 返回通道名
func (c *Channel) Name() string {
	return ChannelName
}

// Source 返回信号来源类别
func (c *Channel) Source() types.SignalSource {
	return types.SignalSourceInvite
}

// Deliver 送达一条定向邀请
//
// 覆盖写入唯一邀请槽：后到的邀请替换先到的。
// 空邀请方身份为无操作。
func (c *Channel) Deliver(from types.Identity, lobby types.LobbyToken) {
	if from.IsEmpty() {
		return
	}

	now := c.clk.Now()

	c.mu.Lock()
	c.slot = types.InviteRecord{
		From:       from,
		Lobby:      lobby,
		ReceivedAt: now,
	}
	c.mu.Unlock()

	logger.Info("收到加入邀请", "from", from, "lobby", log.TruncateID(lobby.String(), 12))
	c.publishInvite(from, lobby)
}

// Pending 检查邀请槽是否有未消费的邀请
func (c *Channel) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.slot.IsEmpty()
}

// Poll 消费邀请槽，产出至多一条加入信号
func (c *Channel) Poll(now time.Time) (types.JoinSignal, bool) {
	c.mu.Lock()
	rec := c.slot
	if rec.IsEmpty() {
		c.mu.Unlock()
		return types.JoinSignal{}, false
	}
	c.slot = types.InviteRecord{}
	c.mu.Unlock()

	return types.JoinSignal{
		Target: rec.From,
		Source: types.SignalSourceInvite,
		Lobby:  rec.Lobby,
		At:     now,
	}, true
}

// publishInvite 发布邀请送达事件
func (c *Channel) publishInvite(from types.Identity, lobby types.LobbyToken) {
	if c.eventBus == nil {
		return
	}

	emitter, err := c.eventBus.Emitter(&types.EvtInviteReceived{})
	if err != nil {
		logger.Warn("创建事件发射器失败", "error", err)
		return
	}
	defer emitter.Close()

	evt := &types.EvtInviteReceived{
		BaseEvent: types.NewBaseEvent(types.EventTypeInviteReceived),
		From:      from,
		Lobby:     lobby,
	}

	if err := emitter.Emit(evt); err != nil {
		logger.Warn("发布邀请送达事件失败", "error", err)
	}
}

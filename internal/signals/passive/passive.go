// Package passive 实现被动连接信号通道
package passive

import (
	"sync"
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("signals/passive")

// 确保实现了接口
var _ interfaces.SignalChannel = (*Channel)(nil)

// ChannelName 通道名
const ChannelName = "passive"

// Channel 被动连接通道
//
// 托管期间，来自未知身份的入站包被视为隐式加入尝试：
// 对方可能已经开始发包，而常规信号渠道一条都没送到。
// 会话控制器把这类身份投入环形缓冲，聚合器逐个取出。
type Channel struct {
	mu sync.Mutex

	cfg Config

	// queue 待消费的身份（FIFO，容量 cfg.Buffer）
	queue []types.Identity
}

// New 创建被动连接通道
func New(cfg Config) (*Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Channel{cfg: cfg}, nil
}

// Name 返回通道名
func (c *Channel) Name() string {
	return ChannelName
}

// Source 返回信号来源类别
func (c *Channel) Source() types.SignalSource {
	return types.SignalSourcePassive
}

// Offer 投入一个隐式加入尝试
//
// 已在缓冲中的身份不重复投入；缓冲满时丢弃最旧的，
// 最新的尝试总是保留。空身份为无操作。
func (c *Channel) Offer(id types.Identity) {
	if id.IsEmpty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, queued := range c.queue {
		if queued == id {
			return
		}
	}

	if len(c.queue) >= c.cfg.Buffer {
		dropped := c.queue[0]
		c.queue = c.queue[1:]
		logger.Debug("被动缓冲已满，丢弃最旧尝试", "dropped", dropped)
	}
	c.queue = append(c.queue, id)
}

// Len 返回缓冲中待消费的身份数
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Poll 取出最早投入的身份，产出至多一条加入信号
func (c *Channel) Poll(now time.Time) (types.JoinSignal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return types.JoinSignal{}, false
	}

	id := c.queue[0]
	c.queue = c.queue[1:]

	return types.JoinSignal{
		Target: id,
		Source: types.SignalSourcePassive,
		At:     now,
	}, true
}

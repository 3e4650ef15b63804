// Package stats 提供数据包计数收集
package stats

import (
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// Tracker 数据包计数器
//
// Tracker 跟踪会话层发送和接收的数据包。
// 使用原子操作实现并发安全的计数器。
type Tracker struct {
	// 全局计数器（使用 atomic）
	packetsSent       atomic.Int64
	packetsRecv       atomic.Int64
	packetsDropped    atomic.Int64
	bytesSent         atomic.Int64
	bytesRecv         atomic.Int64
	decodeErrors      atomic.Int64
	handshakes        atomic.Int64
	intentsEmitted    atomic.Int64
	intentsSuppressed atomic.Int64

	// 类型级计数器
	typeMu  sync.RWMutex
	typeIn  map[types.PacketType]*atomic.Int64
	typeOut map[types.PacketType]*atomic.Int64

	// 对端级计数器
	peerMu  sync.RWMutex
	peerIn  map[types.Identity]*atomic.Int64
	peerOut map[types.Identity]*atomic.Int64

	// 速率计算器
	sendRate *RateMeter
	recvRate *RateMeter
}

// NewTracker 创建新的 Tracker
func NewTracker() *Tracker {
	return &Tracker{
		typeIn:  make(map[types.PacketType]*atomic.Int64),
		typeOut: make(map[types.PacketType]*atomic.Int64),
		peerIn:  make(map[types.Identity]*atomic.Int64),
		peerOut: make(map[types.Identity]*atomic.Int64),

		// 初始化速率计算器
		sendRate: NewRateMeter(),
		recvRate: NewRateMeter(),
	}
}

// SetClock 注入时间源，须在并发使用前调用
func (tk *Tracker) SetClock(clk clock.Clock) {
	tk.sendRate.SetClock(clk)
	tk.recvRate.SetClock(clk)
}

// LogSentPacket 记录出站数据包
func (tk *Tracker) LogSentPacket(size int64, typ types.PacketType, dest types.Identity) {
	tk.packetsSent.Add(1)
	tk.bytesSent.Add(size)
	tk.sendRate.Add(1)

	// 类型统计
	tk.typeMu.Lock()
	counter := tk.typeOut[typ]
	if counter == nil {
		counter = &atomic.Int64{}
		tk.typeOut[typ] = counter
	}
	tk.typeMu.Unlock()
	counter.Add(1)

	// 对端统计
	tk.peerMu.Lock()
	peerCounter := tk.peerOut[dest]
	if peerCounter == nil {
		peerCounter = &atomic.Int64{}
		tk.peerOut[dest] = peerCounter
	}
	tk.peerMu.Unlock()
	peerCounter.Add(1)
}

// LogRecvPacket 记录入站数据包
func (tk *Tracker) LogRecvPacket(size int64, typ types.PacketType, from types.Identity) {
	tk.packetsRecv.Add(1)
	tk.bytesRecv.Add(size)
	tk.recvRate.Add(1)

	// 类型统计
	tk.typeMu.Lock()
	counter := tk.typeIn[typ]
	if counter == nil {
		counter = &atomic.Int64{}
		tk.typeIn[typ] = counter
	}
	tk.typeMu.Unlock()
	counter.Add(1)

	// 对端统计
	tk.peerMu.Lock()
	peerCounter := tk.peerIn[from]
	if peerCounter == nil {
		peerCounter = &atomic.Int64{}
		tk.peerIn[from] = peerCounter
	}
	tk.peerMu.Unlock()
	peerCounter.Add(1)
}

// LogDroppedPacket 记录被丢弃的入站数据包
func (tk *Tracker) LogDroppedPacket() {
	tk.packetsDropped.Add(1)
}

// LogDecodeError 记录解码失败
func (tk *Tracker) LogDecodeError() {
	tk.decodeErrors.Add(1)
}

// LogHandshake 记录完成的握手
func (tk *Tracker) LogHandshake() {
	tk.handshakes.Add(1)
}

// LogIntentEmitted 记录上抛的加入意向
func (tk *Tracker) LogIntentEmitted() {
	tk.intentsEmitted.Add(1)
}

// LogIntentSuppressed 记录被抑制的加入意向
func (tk *Tracker) LogIntentSuppressed() {
	tk.intentsSuppressed.Add(1)
}

// Snapshot 返回当前计数快照
func (tk *Tracker) Snapshot() interfaces.StatsSnapshot {
	return interfaces.StatsSnapshot{
		PacketsSent:       tk.packetsSent.Load(),
		PacketsRecv:       tk.packetsRecv.Load(),
		PacketsDropped:    tk.packetsDropped.Load(),
		BytesSent:         tk.bytesSent.Load(),
		BytesRecv:         tk.bytesRecv.Load(),
		DecodeErrors:      tk.decodeErrors.Load(),
		Handshakes:        tk.handshakes.Load(),
		IntentsEmitted:    tk.intentsEmitted.Load(),
		IntentsSuppressed: tk.intentsSuppressed.Load(),
		SendRate:          tk.sendRate.Rate(),
		RecvRate:          tk.recvRate.Rate(),
	}
}

// GetFlowForPeer 返回对端包计数
func (tk *Tracker) GetFlowForPeer(id types.Identity) interfaces.Flow {
	tk.peerMu.RLock()
	inCounter := tk.peerIn[id]
	outCounter := tk.peerOut[id]
	tk.peerMu.RUnlock()

	var in, out int64
	if inCounter != nil {
		in = inCounter.Load()
	}
	if outCounter != nil {
		out = outCounter.Load()
	}

	return interfaces.Flow{
		PacketsIn:  in,
		PacketsOut: out,
	}
}

// GetFlowForType 返回包类型计数
func (tk *Tracker) GetFlowForType(typ types.PacketType) interfaces.Flow {
	tk.typeMu.RLock()
	inCounter := tk.typeIn[typ]
	outCounter := tk.typeOut[typ]
	tk.typeMu.RUnlock()

	var in, out int64
	if inCounter != nil {
		in = inCounter.Load()
	}
	if outCounter != nil {
		out = outCounter.Load()
	}

	return interfaces.Flow{
		PacketsIn:  in,
		PacketsOut: out,
	}
}

// GetFlowByPeer 返回所有对端包计数
func (tk *Tracker) GetFlowByPeer() map[types.Identity]interfaces.Flow {
	tk.peerMu.RLock()
	defer tk.peerMu.RUnlock()

	result := make(map[types.Identity]interfaces.Flow, len(tk.peerIn))

	// 入站
	for id, counter := range tk.peerIn {
		flow := result[id]
		flow.PacketsIn = counter.Load()
		result[id] = flow
	}

	// 出站
	for id, counter := range tk.peerOut {
		flow := result[id]
		flow.PacketsOut = counter.Load()
		result[id] = flow
	}

	return result
}

// GetFlowByType 返回所有包类型计数
func (tk *Tracker) GetFlowByType() map[types.PacketType]interfaces.Flow {
	tk.typeMu.RLock()
	defer tk.typeMu.RUnlock()

	result := make(map[types.PacketType]interfaces.Flow, len(tk.typeIn))

	// 入站
	for typ, counter := range tk.typeIn {
		flow := result[typ]
		flow.PacketsIn = counter.Load()
		result[typ] = flow
	}

	// 出站
	for typ, counter := range tk.typeOut {
		flow := result[typ]
		flow.PacketsOut = counter.Load()
		result[typ] = flow
	}

	return result
}

// Forget 删除指定对端的计数
//
// 对端离开会话或主机记录过期后调用，防止计数表无界增长。
func (tk *Tracker) Forget(id types.Identity) {
	tk.peerMu.Lock()
	delete(tk.peerIn, id)
	delete(tk.peerOut, id)
	tk.peerMu.Unlock()
}

// Reset 清除所有计数
func (tk *Tracker) Reset() {
	tk.packetsSent.Store(0)
	tk.packetsRecv.Store(0)
	tk.packetsDropped.Store(0)
	tk.bytesSent.Store(0)
	tk.bytesRecv.Store(0)
	tk.decodeErrors.Store(0)
	tk.handshakes.Store(0)
	tk.intentsEmitted.Store(0)
	tk.intentsSuppressed.Store(0)

	tk.typeMu.Lock()
	tk.typeIn = make(map[types.PacketType]*atomic.Int64)
	tk.typeOut = make(map[types.PacketType]*atomic.Int64)
	tk.typeMu.Unlock()

	tk.peerMu.Lock()
	tk.peerIn = make(map[types.Identity]*atomic.Int64)
	tk.peerOut = make(map[types.Identity]*atomic.Int64)
	tk.peerMu.Unlock()

	tk.sendRate.Reset()
	tk.recvRate.Reset()
}

// 确保 Tracker 实现 StatsReporter 接口
var _ interfaces.StatsReporter = (*Tracker)(nil)

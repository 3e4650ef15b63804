// Package interfaces 定义 GTNet 公共接口
//
// 本文件定义 StatsReporter 接口，提供数据包计数服务。
package interfaces

import (
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// StatsReporter 定义数据包计数服务接口
//
// 会话层在发送、接收、丢弃数据包时记录计数，
// 聚合器在上抛或抑制加入意向时记录计数。
// 所有记录方法不阻塞、不失败。
type StatsReporter interface {
	// LogSentPacket 记录出站数据包
	LogSentPacket(size int64, typ types.PacketType, dest types.Identity)

	// LogRecvPacket 记录入站数据包
	LogRecvPacket(size int64, typ types.PacketType, from types.Identity)

	// LogDroppedPacket 记录被丢弃的入站数据包（超出接收预算或来源未知）
	LogDroppedPacket()

	// LogDecodeError 记录解码失败
	LogDecodeError()

	// LogHandshake 记录完成的握手
	LogHandshake()

	// LogIntentEmitted 记录上抛的加入意向
	LogIntentEmitted()

	// LogIntentSuppressed 记录被抑制的加入意向（冷却窗口内重复或指向本机）
	LogIntentSuppressed()

	// Snapshot 获取计数快照
	Snapshot() StatsSnapshot

	// GetFlowForPeer 获取对端包计数
	GetFlowForPeer(id types.Identity) Flow

	// GetFlowForType 获取包类型计数
	GetFlowForType(typ types.PacketType) Flow

	// GetFlowByPeer 获取所有对端包计数
	GetFlowByPeer() map[types.Identity]Flow

	// GetFlowByType 获取所有包类型计数
	GetFlowByType() map[types.PacketType]Flow

	// Forget 删除指定对端的计数
	Forget(id types.Identity)

	// Reset 重置所有计数
	Reset()
}

// StatsSnapshot 数据包计数快照
type StatsSnapshot struct {
	// PacketsSent 总发送包数
	PacketsSent int64

	// PacketsRecv 总接收包数
	PacketsRecv int64

	// PacketsDropped 总丢弃包数
	PacketsDropped int64

	// BytesSent 总发送字节数（含包头）
	BytesSent int64

	// BytesRecv 总接收字节数（含包头）
	BytesRecv int64

	// DecodeErrors 解码失败次数
	DecodeErrors int64

	// Handshakes 完成握手次数
	Handshakes int64

	// IntentsEmitted 上抛加入意向次数
	IntentsEmitted int64

	// IntentsSuppressed 抑制加入意向次数
	IntentsSuppressed int64

	// SendRate 发送速率（包/秒）
	SendRate float64

	// RecvRate 接收速率（包/秒）
	RecvRate float64
}

// Flow 单个维度（对端或包类型）的包计数
type Flow struct {
	// PacketsIn 入站包数
	PacketsIn int64

	// PacketsOut 出站包数
	PacketsOut int64
}

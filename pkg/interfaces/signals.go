// Package interfaces 定义 GTNet 公共接口
//
// 本文件定义 SignalChannel 与 Aggregator 接口，
// 对应 internal/signals/ 下的各实现。
package interfaces

import (
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// SignalChannel 定义加入信号通道契约接口
//
// 每条通道封装一种不可靠的信号来源（邀请、启动参数、
// 环境变量、被动连接）。通道自身不去重、不过滤本机，
// 这些由聚合器统一处理。
type SignalChannel interface {
	// Name 返回通道名（日志与统计用）
	Name() string

	// Source 返回通道的信号来源类别
	Source() types.SignalSource

	// Poll 非阻塞地产出至多一条加入信号
	//
	// 无信号时 ok 为 false。通道内部的节流（如每秒至多
	// 扫描一次）以 now 为基准。
	Poll(now time.Time) (sig types.JoinSignal, ok bool)
}

// Aggregator 定义加入信号聚合器契约接口
//
// 聚合器按可信度顺序轮询全部通道，对产出做本机过滤与
// 冷却窗口去重，每次调用至多放行一条加入意图。
type Aggregator interface {
	// Poll 轮询全部通道，返回至多一条去重后的加入意图
	Poll(now time.Time) (sig types.JoinSignal, ok bool)

	// Channels 返回按优先级排序的通道名列表
	Channels() []string
}

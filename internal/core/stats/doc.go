// Package stats 提供数据包计数收集
//
// stats 模块实现会话层的数据包统计功能，提供：
//   - 数据包计数（全局/按包类型/按对端）
//   - 发送接收速率计算（60 秒滑动窗口）
//   - 加入意向与握手计数
//   - 并发安全（原子计数器 + 读写锁）
//
// # 快速开始
//
//	tracker := stats.NewTracker()
//
//	// 记录收发包
//	tracker.LogSentPacket(17, types.PacketHeartbeat, dest)
//	tracker.LogRecvPacket(17, types.PacketHeartbeatAck, from)
//
//	// 记录协议事件
//	tracker.LogHandshake()
//	tracker.LogDecodeError()
//
//	// 获取快照
//	snap := tracker.Snapshot()
//	fmt.Printf("Sent: %d, Recv: %d\n", snap.PacketsSent, snap.PacketsRecv)
//	fmt.Printf("SendRate: %.2f pkt/s\n", snap.SendRate)
//
// # 分层统计
//
// stats 支持三层包计数：
//
//	// 1. 全局计数（所有流量）
//	snap := tracker.Snapshot()
//
//	// 2. 按包类型计数
//	flow := tracker.GetFlowForType(types.PacketHeartbeat)
//
//	// 3. 按对端计数
//	flow := tracker.GetFlowForPeer(peer)
//
// # 速率计算
//
// SendRate 和 RecvRate 基于 60 个 1 秒桶的滑动窗口，
// 返回最近 60 秒的平均包速率。时间源可通过 SetClock 注入，
// 便于测试中使用模拟时钟。
//
// # Fx 模块
//
//	import "go.uber.org/fx"
//
//	app := fx.New(
//	    stats.Module,
//	    fx.Invoke(func(reporter interfaces.StatsReporter) {
//	        reporter.LogHandshake()
//	    }),
//	)
//
// # 内存管理
//
// 对端计数表随发现的主机增长。对端离开会话或记录过期后
// 调用 Forget 删除其计数，防止长时间运行时无界增长：
//
//	tracker.Forget(peer)
//
// # 并发安全
//
// 所有方法都是并发安全的：
//   - 全局计数使用 atomic.Int64
//   - 对端/类型计数表由读写锁保护，计数本身仍为原子操作
//   - Snapshot 返回值拷贝，调用方可自由持有
package stats

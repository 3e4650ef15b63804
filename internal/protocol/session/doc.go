// Package session 实现会话控制器
//
// 控制器独占持有会话状态机，负责托管与加入的完整生命周期：
// 握手、心跳、成员集合、数据包收发与分发。
//
// # 状态机
//
//	Idle ──StartHosting──→ Hosting
//	Idle ──StartJoining──→ Connecting ──收到 Welcome──→ Connected
//	Hosting/Connecting/Connected ──StopSession──→ Idle
//
// 托管侧接纳加入方后停留在 Hosting；Connecting 超过握手
// 超时未收到应答即放弃回到 Idle；心跳静默超过存活窗口时，
// 主机剔除对端、客户端整体回到 Idle。
//
// # 协作周期
//
// 所有逻辑由 Tick 驱动：先按预算排空入站队列，再走状态机
// 定时器（握手超时、心跳、存活窗口、主机广播）。发送即发
// 即忘，接收非阻塞，任何调用都不挂起。
//
// # 提供者降级
//
// 提供者调用失败（未绑定或平台异常）一律降级为无操作并在
// 下一个 tick 惰性重试，控制器永不因此终止宿主进程。
//
// # 并发安全
//
// 转换方法与 Tick 预期从同一 tick 路径调用；全部可变状态
// 仍由互斥锁保护，多线程宿主的偶发并发调用不会破坏状态机。
// 提供者调用都在锁外发生。
package session

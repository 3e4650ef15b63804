// Package types 定义 GTNet 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 gtnet 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 职能
//
// pkg/types 的职能是定义 **Go 内部数据结构**：
//   - 模块间数据传递
//   - API 参数/返回值
//   - 事件类型、线缆负载的内存表示
//
// # 与 internal/protocol/codec 的区别
//
// pkg/types 定义 Go 内部数据结构（内存结构），
// internal/protocol/codec 负责这些结构与线缆字节布局之间的转换。
//
// # 文件组织
//
// 基础类型:
//   - ids.go       - Identity, LobbyToken
//   - enums.go     - SessionState, SignalSource, LeaveReason
//   - presence.go  - 平台富状态键值常量
//
// 会话类型:
//   - packet.go    - PacketType, Packet
//   - payloads.go  - PlayerState, PlayerAim, ActorState 等负载结构
//   - records.go   - HostRecord, InviteRecord, FriendInfo, JoinSignal
//
// 事件类型:
//   - events.go    - Event 接口与 Evt* 事件
package types

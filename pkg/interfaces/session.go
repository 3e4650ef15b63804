// Package interfaces 定义 GTNet 公共接口
//
// 本文件定义 Session 接口，对应 internal/protocol/session/ 实现。
package interfaces

import (
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// PacketHandler 数据包处理函数
//
// payload 为已解码的负载结构（如 types.PlayerState），
// 处理函数按包类型做类型断言。在 tick 内同步调用，
// 不得阻塞。
type PacketHandler func(sender types.Identity, payload any)

// Session 定义会话控制器契约接口
//
// 控制器独占持有会话状态机（Idle/Hosting/Connecting/Connected），
// 负责握手、心跳、成员集合与数据包分发。
type Session interface {
	// State 返回当前会话状态
	State() types.SessionState

	// StartHosting 开始托管会话
	//
	// 仅允许从 Idle 发起：注册自身、创建大厅（异步）、
	// 设置富状态广告、启动周期性自触活广播。
	StartHosting() error

	// StartJoining 向目标主机发起加入
	//
	// 仅允许从 Idle 发起：发送握手包并进入 Connecting；
	// lobby 非空时同时加入平台大厅（即发即忘）。
	StartJoining(target types.Identity, lobby types.LobbyToken) error

	// StopSession 停止当前会话并回到 Idle
	//
	// 同步且无条件：注销自身、清空富状态、关闭全部对端
	// 会话。不与对端协商，对端经由心跳静默自行察觉。
	// Idle 时为无操作。
	StopSession() error

	// Tick 推进一个协作周期
	//
	// 依次：接收排水、状态机定时器（握手超时、心跳、
	// 存活窗口）、周期性广播。
	Tick(now time.Time)

	// OnJoinSignal 处理一条去重后的加入意图
	//
	// Hosting：接纳对端入站；Idle：自动发起加入；
	// Connecting/Connected：忽略并记录。
	OnJoinSignal(sig types.JoinSignal)

	// Host 返回已连接会话的主机身份（非 Connected 时为哨兵值）
	Host() types.Identity

	// Peers 返回当前会话成员（主机视角：全部客户端；
	// 客户端视角：仅主机）
	Peers() []types.Identity

	// SendTo 编码并向单个成员发送负载
	SendTo(dest types.Identity, pt types.PacketType, payload any) bool

	// Broadcast 编码并向全部成员发送负载，返回提交成功的数量
	Broadcast(pt types.PacketType, payload any) int

	// Handle 注册某包类型的处理函数（覆盖语义）
	Handle(pt types.PacketType, h PacketHandler)
}

package types

// ============================================================================
//                              SessionState - 会话状态
// ============================================================================

// SessionState 会话状态
// 由 SessionController 独占持有与变更，其余组件只读
type SessionState int

const (
	// SessionIdle 空闲（既未托管也未加入会话）
	SessionIdle SessionState = iota
	// SessionHosting 托管中（本机为主机，接受加入）
	SessionHosting
	// SessionConnecting 连接中（已发送握手，等待主机应答）
	SessionConnecting
	// SessionConnected 已连接（作为客户端加入远端会话）
	SessionConnected
)

// String 返回会话状态的字符串表示
func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionHosting:
		return "hosting"
	case SessionConnecting:
		return "connecting"
	case SessionConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              SignalSource - 信号来源
// ============================================================================

// SignalSource 加入信号来源
// 聚合器按此顺序的可信度轮询各通道：邀请 > 启动参数 > 环境变量 > 被动连接
type SignalSource int

const (
	// SignalSourceUnknown 未知来源
	SignalSourceUnknown SignalSource = iota
	// SignalSourceInvite 定向邀请（好友邀请送达）
	SignalSourceInvite
	// SignalSourceLaunchArgs 启动参数（平台以参数重启进程）
	SignalSourceLaunchArgs
	// SignalSourceEnvironment 环境变量（外部工具注入的提示）
	SignalSourceEnvironment
	// SignalSourcePassive 被动连接（远端未经协商直接发包）
	SignalSourcePassive
)

// String 返回信号来源的字符串表示
func (s SignalSource) String() string {
	switch s {
	case SignalSourceInvite:
		return "invite"
	case SignalSourceLaunchArgs:
		return "launch_args"
	case SignalSourceEnvironment:
		return "environment"
	case SignalSourcePassive:
		return "passive"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              LeaveReason - 离开原因
// ============================================================================

// LeaveReason 成员离开原因类型
//
// 用于区分不同的离开场景：
// - 超时离开（Timeout）：心跳静默超过存活窗口
// - 本地离开（Local）：本端主动停止会话
type LeaveReason int

const (
	// LeaveReasonUnknown 未知原因
	LeaveReasonUnknown LeaveReason = iota
	// LeaveReasonTimeout 心跳静默超时
	LeaveReasonTimeout
	// LeaveReasonLocal 本地主动停止会话
	LeaveReasonLocal
)

// String 返回离开原因的字符串表示
func (r LeaveReason) String() string {
	switch r {
	case LeaveReasonTimeout:
		return "timeout"
	case LeaveReasonLocal:
		return "local"
	default:
		return "unknown"
	}
}

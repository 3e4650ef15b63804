// Package interfaces 定义 GTNet 公共接口
//
// 本文件定义 Provider 接口——身份与传输提供者，即平台绑定层。
package interfaces

import (
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// Provider 定义身份与传输提供者契约接口
//
// Provider 把平台能力（身份、P2P 报文、富状态、大厅、好友列表）
// 抽象为编译期契约，平台适配器在 pkg/provider 下实现。
//
// 所有方法都可能因平台尚未绑定而失败，失败以降级值表示：
// 布尔方法返回 false，列表方法返回空，身份方法返回哨兵值。
// 调用方在下一个 tick 惰性重试，绝不因此终止宿主进程。
type Provider interface {
	// GetLocalIdentity 返回本机玩家身份
	//
	// 平台未绑定时返回 types.EmptyIdentity。
	GetLocalIdentity() types.Identity

	// SendPacket 向目标玩家发送一段已编码的报文
	//
	// 即发即忘：返回 false 仅表示本端提交失败，
	// 返回 true 不构成任何送达保证。
	SendPacket(dest types.Identity, data []byte) bool

	// PollReceive 非阻塞地取出至多一条入站报文
	//
	// 队列为空或平台未绑定时 ok 为 false。
	PollReceive() (from types.Identity, data []byte, ok bool)

	// AcceptIncoming 接受来自指定玩家的入站 P2P 会话
	AcceptIncoming(peer types.Identity) bool

	// CloseSession 关闭与指定玩家的 P2P 会话
	CloseSession(peer types.Identity) bool

	// SetPresence 设置一个富状态键值
	SetPresence(key, value string) bool

	// ClearPresence 清空本机全部富状态
	ClearPresence() bool

	// CreateLobby 创建平台大厅，返回大厅令牌
	//
	// 异步语义：令牌返回即视为提交成功，大厅就绪与否
	// 由后续流量推断。平台未绑定或失败时 ok 为 false。
	CreateLobby(maxMembers int) (token types.LobbyToken, ok bool)

	// JoinLobby 按令牌加入大厅
	JoinLobby(token types.LobbyToken) bool

	// LeaveLobby 离开大厅
	LeaveLobby(token types.LobbyToken) bool

	// ListFriendsInGame 返回正在运行本游戏的好友列表
	//
	// 平台未绑定时返回空切片。
	ListFriendsInGame() []types.FriendInfo
}

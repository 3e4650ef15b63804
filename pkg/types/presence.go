package types

// ============================================================================
//                              富状态键值
// ============================================================================

// 平台富状态键
// 各端实现之间按字节比较这些键，不可改动拼写
const (
	// PresenceKeyStatus 可读状态文案
	PresenceKeyStatus = "status"

	// PresenceKeySteamDisplay 平台展示模板键
	PresenceKeySteamDisplay = "steam_display"

	// PresenceKeyConnect 连接目标（主机身份的十进制字符串）
	PresenceKeyConnect = "connect"

	// PresenceKeyMode 会话模式（取值见 PresenceMode*）
	PresenceKeyMode = "gungeon_together"

	// PresenceKeyVersion 协议版本（语义化版本串）
	PresenceKeyVersion = "gt_version"
)

// PresenceKeyMode 键的取值
const (
	// PresenceModeHosting 正在托管会话
	PresenceModeHosting = "hosting"

	// PresenceModePlaying 已加入他人会话
	PresenceModePlaying = "playing"
)

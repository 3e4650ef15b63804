package types

// ============================================================================
//                              PacketType - 包类型
// ============================================================================

// PacketType 数据包类型
// 线缆包头的首字节；取值属于线缆格式，不可重排
type PacketType byte

const (
	// PacketInvalid 无效类型（保留值，不得出现在线缆上）
	PacketInvalid PacketType = 0x00
	// PacketHandshake 握手请求（加入方 → 主机）
	PacketHandshake PacketType = 0x01
	// PacketWelcome 握手应答（主机 → 加入方）
	PacketWelcome PacketType = 0x02
	// PacketPlayerJoin 玩家加入信息（加入方 → 主机，携带展示名/场景/出生点）
	PacketPlayerJoin PacketType = 0x03
	// PacketHeartbeat 心跳
	PacketHeartbeat PacketType = 0x04
	// PacketHeartbeatAck 心跳应答
	PacketHeartbeatAck PacketType = 0x05
	// PacketPlayerState 玩家状态（位置/速度/朝向/位标志）
	PacketPlayerState PacketType = 0x06
	// PacketPlayerAim 玩家瞄准（方向/武器/蓄力）
	PacketPlayerAim PacketType = 0x07
	// PacketActorState 角色状态（敌人与 NPC）
	PacketActorState PacketType = 0x08
	// PacketActorPath 角色路径点序列
	PacketActorPath PacketType = 0x09
	// PacketProjectile 弹体生成
	PacketProjectile PacketType = 0x0A
)

// String 返回包类型的字符串表示
func (t PacketType) String() string {
	switch t {
	case PacketHandshake:
		return "handshake"
	case PacketWelcome:
		return "welcome"
	case PacketPlayerJoin:
		return "player_join"
	case PacketHeartbeat:
		return "heartbeat"
	case PacketHeartbeatAck:
		return "heartbeat_ack"
	case PacketPlayerState:
		return "player_state"
	case PacketPlayerAim:
		return "player_aim"
	case PacketActorState:
		return "actor_state"
	case PacketActorPath:
		return "actor_path"
	case PacketProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Packet - 线缆数据包
// ============================================================================

// Packet 线缆数据包的内存表示
//
// 线缆布局（均为小端）：
//
//	[1B 类型][8B 发送者ID][4B float32 时间戳][4B int32 负载长度][负载]
//
// 包头共 17 字节。编码后负载长度恒等于包头声明的长度；
// 两者不一致的入站包在解码时被整包丢弃。
type Packet struct {
	// Type 包类型
	Type PacketType

	// Sender 发送者身份
	Sender Identity

	// Timestamp 发送方会话时钟的秒数（单精度）
	// 仅作观测用途，接收方不据此排序或丢包
	Timestamp float32

	// Payload 负载字节
	Payload []byte
}

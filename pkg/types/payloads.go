package types

// ============================================================================
//                              玩家负载
// ============================================================================

// 玩家状态位标志（PlayerState.Flags）
const (
	// PlayerFlagGrounded 站立于地面
	PlayerFlagGrounded uint32 = 1 << iota
	// PlayerFlagRolling 翻滚中
	PlayerFlagRolling
	// PlayerFlagFiring 开火中
	PlayerFlagFiring
	// PlayerFlagDowned 倒地待救
	PlayerFlagDowned
)

// PlayerState 玩家状态快照
// 高频负载：位置、速度、朝向与动作位标志
type PlayerState struct {
	// X, Y 世界坐标
	X float32
	Y float32

	// VelX, VelY 速度分量
	VelX float32
	VelY float32

	// Rotation 朝向（弧度）
	Rotation float32

	// Flags 动作位标志（PlayerFlag* 组合）
	Flags uint32
}

// PlayerAim 玩家瞄准状态
type PlayerAim struct {
	// AimX, AimY 瞄准方向（归一化向量）
	AimX float32
	AimY float32

	// WeaponID 当前武器
	WeaponID int32

	// Charge 蓄力进度（0~1）
	Charge float32
}

// PlayerJoinData 玩家加入信息
// 加入方在收到握手应答后发送，携带进入会话所需的展示信息
type PlayerJoinData struct {
	// Name 展示名
	Name string

	// SceneID 当前场景
	SceneID string

	// SpawnX, SpawnY 出生点坐标
	SpawnX float32
	SpawnY float32
}

// ============================================================================
//                              角色负载
// ============================================================================

// ActorState 角色状态（敌人与 NPC）
// 主机权威：仅主机发送，客户端照单全收
type ActorState struct {
	// ActorID 会话内角色编号
	ActorID int32

	// Health 当前生命值
	Health float32

	// AnimationID 当前动画
	AnimationID int32

	// Active 是否存活/激活
	Active bool
}

// Waypoint 路径点
type Waypoint struct {
	X float32
	Y float32
}

// ActorPath 角色路径点序列
type ActorPath struct {
	// ActorID 会话内角色编号
	ActorID int32

	// Waypoints 路径点（按行进顺序）
	Waypoints []Waypoint
}

// Projectile 弹体生成
type Projectile struct {
	// Owner 弹体归属者
	Owner Identity

	// X, Y 生成坐标
	X float32
	Y float32

	// VelX, VelY 初速度分量
	VelX float32
	VelY float32

	// Damage 伤害值
	Damage float32

	// Kind 弹体种类
	Kind byte
}

// ============================================================================
//                              控制负载
// ============================================================================

// HandshakeData 握手请求负载
type HandshakeData struct {
	// Name 加入方展示名
	Name string

	// Version 加入方协议版本（语义化版本串）
	Version string
}

// WelcomeData 握手应答负载
type WelcomeData struct {
	// HostName 主机展示名
	HostName string

	// SceneID 主机当前场景
	SceneID string

	// Version 主机协议版本（语义化版本串）
	Version string
}

// HeartbeatData 心跳负载
type HeartbeatData struct {
	// Seq 单调递增序号（应答原样回传）
	Seq uint32
}

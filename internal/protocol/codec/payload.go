package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// PayloadCodec 负载编解码器
//
// 每种包类型一个实现，负责该类型负载结构与固定字节布局的
// 互转。Marshal 只接受对应的值类型（非指针）；Unmarshal
// 对任意入参字节不 panic，布局不符时返回哨兵错误。
//
// 往返恒等：对任意合法值 v，Unmarshal(Marshal(v)) 逐字段
// 等于 v。
type PayloadCodec interface {
	// Kind 返回负责的包类型
	Kind() types.PacketType

	// Marshal 编码负载结构为字节
	Marshal(v any) ([]byte, error)

	// Unmarshal 解码字节为负载结构
	Unmarshal(data []byte) (any, error)
}

// 字符串字段上限（展示名、场景、版本串）
const maxStringLen = 256

// 单条路径的路径点上限
const maxWaypoints = 64

// ============================================================================
//                              读写辅助
// ============================================================================

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func getF32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func putI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

func getI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}

func getU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func putU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:], v)
}

func getU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off:])
}

// appendString 追加变长字符串（2 字节小端长度前缀 + UTF-8 字节）
func appendString(b []byte, s string) ([]byte, error) {
	if len(s) > maxStringLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
	}
	b = append(b, byte(len(s)), byte(len(s)>>8))
	return append(b, s...), nil
}

// readString 从 off 处读取变长字符串，返回值与新偏移
func readString(b []byte, off int) (string, int, error) {
	if off+2 > len(b) {
		return "", off, fmt.Errorf("%w: truncated string length", ErrPayloadSize)
	}
	n := int(binary.LittleEndian.Uint16(b[off:]))
	off += 2
	if n > maxStringLen {
		return "", off, fmt.Errorf("%w: string length %d", ErrStringTooLong, n)
	}
	if off+n > len(b) {
		return "", off, fmt.Errorf("%w: truncated string body", ErrPayloadSize)
	}
	return string(b[off : off+n]), off + n, nil
}

// wantSize 校验定长负载的字节数
func wantSize(pt types.PacketType, data []byte, want int) error {
	if len(data) != want {
		return fmt.Errorf("%w: %s wants %d bytes, got %d", ErrPayloadSize, pt, want, len(data))
	}
	return nil
}

// wantValue 构造负载值类型不匹配错误
func wantValue(pt types.PacketType, v any) error {
	return fmt.Errorf("%w: type=%s got %T", ErrPayloadType, pt, v)
}

// ============================================================================
//                              控制负载
// ============================================================================

type handshakeCodec struct{}

func (handshakeCodec) Kind() types.PacketType { return types.PacketHandshake }

func (handshakeCodec) Marshal(v any) ([]byte, error) {
	hs, ok := v.(types.HandshakeData)
	if !ok {
		return nil, wantValue(types.PacketHandshake, v)
	}
	buf, err := appendString(nil, hs.Name)
	if err != nil {
		return nil, err
	}
	return appendString(buf, hs.Version)
}

func (handshakeCodec) Unmarshal(data []byte) (any, error) {
	name, off, err := readString(data, 0)
	if err != nil {
		return nil, err
	}
	version, off, err := readString(data, off)
	if err != nil {
		return nil, err
	}
	if off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrPayloadSize, len(data)-off)
	}
	return types.HandshakeData{Name: name, Version: version}, nil
}

type welcomeCodec struct{}

func (welcomeCodec) Kind() types.PacketType { return types.PacketWelcome }

func (welcomeCodec) Marshal(v any) ([]byte, error) {
	w, ok := v.(types.WelcomeData)
	if !ok {
		return nil, wantValue(types.PacketWelcome, v)
	}
	buf, err := appendString(nil, w.HostName)
	if err != nil {
		return nil, err
	}
	if buf, err = appendString(buf, w.SceneID); err != nil {
		return nil, err
	}
	return appendString(buf, w.Version)
}

func (welcomeCodec) Unmarshal(data []byte) (any, error) {
	hostName, off, err := readString(data, 0)
	if err != nil {
		return nil, err
	}
	sceneID, off, err := readString(data, off)
	if err != nil {
		return nil, err
	}
	version, off, err := readString(data, off)
	if err != nil {
		return nil, err
	}
	if off != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrPayloadSize, len(data)-off)
	}
	return types.WelcomeData{HostName: hostName, SceneID: sceneID, Version: version}, nil
}

type playerJoinCodec struct{}

func (playerJoinCodec) Kind() types.PacketType { return types.PacketPlayerJoin }

func (playerJoinCodec) Marshal(v any) ([]byte, error) {
	pj, ok := v.(types.PlayerJoinData)
	if !ok {
		return nil, wantValue(types.PacketPlayerJoin, v)
	}
	buf, err := appendString(nil, pj.Name)
	if err != nil {
		return nil, err
	}
	if buf, err = appendString(buf, pj.SceneID); err != nil {
		return nil, err
	}
	tail := make([]byte, 8)
	putF32(tail, 0, pj.SpawnX)
	putF32(tail, 4, pj.SpawnY)
	return append(buf, tail...), nil
}

func (playerJoinCodec) Unmarshal(data []byte) (any, error) {
	name, off, err := readString(data, 0)
	if err != nil {
		return nil, err
	}
	sceneID, off, err := readString(data, off)
	if err != nil {
		return nil, err
	}
	if off+8 != len(data) {
		return nil, fmt.Errorf("%w: player_join spawn wants 8 bytes, got %d",
			ErrPayloadSize, len(data)-off)
	}
	return types.PlayerJoinData{
		Name:    name,
		SceneID: sceneID,
		SpawnX:  getF32(data, off),
		SpawnY:  getF32(data, off+4),
	}, nil
}

type heartbeatCodec struct{}

func (heartbeatCodec) Kind() types.PacketType { return types.PacketHeartbeat }

func (heartbeatCodec) Marshal(v any) ([]byte, error) {
	hb, ok := v.(types.HeartbeatData)
	if !ok {
		return nil, wantValue(types.PacketHeartbeat, v)
	}
	buf := make([]byte, 4)
	putU32(buf, 0, hb.Seq)
	return buf, nil
}

func (heartbeatCodec) Unmarshal(data []byte) (any, error) {
	if err := wantSize(types.PacketHeartbeat, data, 4); err != nil {
		return nil, err
	}
	return types.HeartbeatData{Seq: getU32(data, 0)}, nil
}

type heartbeatAckCodec struct{}

func (heartbeatAckCodec) Kind() types.PacketType { return types.PacketHeartbeatAck }

func (heartbeatAckCodec) Marshal(v any) ([]byte, error) {
	hb, ok := v.(types.HeartbeatData)
	if !ok {
		return nil, wantValue(types.PacketHeartbeatAck, v)
	}
	buf := make([]byte, 4)
	putU32(buf, 0, hb.Seq)
	return buf, nil
}

func (heartbeatAckCodec) Unmarshal(data []byte) (any, error) {
	if err := wantSize(types.PacketHeartbeatAck, data, 4); err != nil {
		return nil, err
	}
	return types.HeartbeatData{Seq: getU32(data, 0)}, nil
}

// ============================================================================
//                              玩家负载
// ============================================================================

type playerStateCodec struct{}

func (playerStateCodec) Kind() types.PacketType { return types.PacketPlayerState }

func (playerStateCodec) Marshal(v any) ([]byte, error) {
	ps, ok := v.(types.PlayerState)
	if !ok {
		return nil, wantValue(types.PacketPlayerState, v)
	}
	buf := make([]byte, 24)
	putF32(buf, 0, ps.X)
	putF32(buf, 4, ps.Y)
	putF32(buf, 8, ps.VelX)
	putF32(buf, 12, ps.VelY)
	putF32(buf, 16, ps.Rotation)
	putU32(buf, 20, ps.Flags)
	return buf, nil
}

func (playerStateCodec) Unmarshal(data []byte) (any, error) {
	if err := wantSize(types.PacketPlayerState, data, 24); err != nil {
		return nil, err
	}
	return types.PlayerState{
		X:        getF32(data, 0),
		Y:        getF32(data, 4),
		VelX:     getF32(data, 8),
		VelY:     getF32(data, 12),
		Rotation: getF32(data, 16),
		Flags:    getU32(data, 20),
	}, nil
}

type playerAimCodec struct{}

func (playerAimCodec) Kind() types.PacketType { return types.PacketPlayerAim }

func (playerAimCodec) Marshal(v any) ([]byte, error) {
	pa, ok := v.(types.PlayerAim)
	if !ok {
		return nil, wantValue(types.PacketPlayerAim, v)
	}
	buf := make([]byte, 16)
	putF32(buf, 0, pa.AimX)
	putF32(buf, 4, pa.AimY)
	putI32(buf, 8, pa.WeaponID)
	putF32(buf, 12, pa.Charge)
	return buf, nil
}

func (playerAimCodec) Unmarshal(data []byte) (any, error) {
	if err := wantSize(types.PacketPlayerAim, data, 16); err != nil {
		return nil, err
	}
	return types.PlayerAim{
		AimX:     getF32(data, 0),
		AimY:     getF32(data, 4),
		WeaponID: getI32(data, 8),
		Charge:   getF32(data, 12),
	}, nil
}

// ============================================================================
//                              角色负载
// ============================================================================

type actorStateCodec struct{}

func (actorStateCodec) Kind() types.PacketType { return types.PacketActorState }

func (actorStateCodec) Marshal(v any) ([]byte, error) {
	as, ok := v.(types.ActorState)
	if !ok {
		return nil, wantValue(types.PacketActorState, v)
	}
	buf := make([]byte, 13)
	putI32(buf, 0, as.ActorID)
	putF32(buf, 4, as.Health)
	putI32(buf, 8, as.AnimationID)
	if as.Active {
		buf[12] = 1
	}
	return buf, nil
}

func (actorStateCodec) Unmarshal(data []byte) (any, error) {
	if err := wantSize(types.PacketActorState, data, 13); err != nil {
		return nil, err
	}
	return types.ActorState{
		ActorID:     getI32(data, 0),
		Health:      getF32(data, 4),
		AnimationID: getI32(data, 8),
		Active:      data[12] != 0,
	}, nil
}

type actorPathCodec struct{}

func (actorPathCodec) Kind() types.PacketType { return types.PacketActorPath }

func (actorPathCodec) Marshal(v any) ([]byte, error) {
	ap, ok := v.(types.ActorPath)
	if !ok {
		return nil, wantValue(types.PacketActorPath, v)
	}
	if len(ap.Waypoints) > maxWaypoints {
		return nil, fmt.Errorf("%w: %d waypoints", ErrPayloadTooLarge, len(ap.Waypoints))
	}
	buf := make([]byte, 8+len(ap.Waypoints)*8)
	putI32(buf, 0, ap.ActorID)
	putI32(buf, 4, int32(len(ap.Waypoints)))
	for i, wp := range ap.Waypoints {
		putF32(buf, 8+i*8, wp.X)
		putF32(buf, 12+i*8, wp.Y)
	}
	return buf, nil
}

func (actorPathCodec) Unmarshal(data []byte) (any, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: actor_path wants at least 8 bytes, got %d",
			ErrPayloadSize, len(data))
	}
	count := getI32(data, 4)
	if count < 0 || count > maxWaypoints {
		return nil, fmt.Errorf("%w: waypoint count %d", ErrPayloadSize, count)
	}
	if err := wantSize(types.PacketActorPath, data, 8+int(count)*8); err != nil {
		return nil, err
	}
	wps := make([]types.Waypoint, count)
	for i := range wps {
		wps[i] = types.Waypoint{
			X: getF32(data, 8+i*8),
			Y: getF32(data, 12+i*8),
		}
	}
	return types.ActorPath{ActorID: getI32(data, 0), Waypoints: wps}, nil
}

type projectileCodec struct{}

func (projectileCodec) Kind() types.PacketType { return types.PacketProjectile }

func (projectileCodec) Marshal(v any) ([]byte, error) {
	pr, ok := v.(types.Projectile)
	if !ok {
		return nil, wantValue(types.PacketProjectile, v)
	}
	buf := make([]byte, 29)
	putU64(buf, 0, uint64(pr.Owner))
	putF32(buf, 8, pr.X)
	putF32(buf, 12, pr.Y)
	putF32(buf, 16, pr.VelX)
	putF32(buf, 20, pr.VelY)
	putF32(buf, 24, pr.Damage)
	buf[28] = pr.Kind
	return buf, nil
}

func (projectileCodec) Unmarshal(data []byte) (any, error) {
	if err := wantSize(types.PacketProjectile, data, 29); err != nil {
		return nil, err
	}
	return types.Projectile{
		Owner:  types.Identity(getU64(data, 0)),
		X:      getF32(data, 8),
		Y:      getF32(data, 12),
		VelX:   getF32(data, 16),
		VelY:   getF32(data, 20),
		Damage: getF32(data, 24),
		Kind:   data[28],
	}, nil
}

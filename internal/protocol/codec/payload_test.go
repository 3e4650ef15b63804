package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

func TestPayloadCodecs_RoundTrip(t *testing.T) {
	c := NewCodec()

	// 每种负载一个代表值，覆盖负数、零值与空字符串
	tests := []struct {
		name string
		pt   types.PacketType
		v    any
	}{
		{"handshake", types.PacketHandshake, types.HandshakeData{Name: "gunner", Version: "1.2.0"}},
		{"handshake_empty_name", types.PacketHandshake, types.HandshakeData{Name: "", Version: "0.1.0"}},
		{"welcome", types.PacketWelcome, types.WelcomeData{HostName: "主机", SceneID: "tt_castle", Version: "1.2.0"}},
		{"player_join", types.PacketPlayerJoin, types.PlayerJoinData{Name: "p2", SceneID: "tt_forge", SpawnX: -3.25, SpawnY: 0}},
		{"heartbeat", types.PacketHeartbeat, types.HeartbeatData{Seq: 41}},
		{"heartbeat_ack", types.PacketHeartbeatAck, types.HeartbeatData{Seq: 41}},
		{"player_state", types.PacketPlayerState, types.PlayerState{
			X: 10.5, Y: -2.25, VelX: 0.5, VelY: -0.5, Rotation: 3.14,
			Flags: types.PlayerFlagGrounded | types.PlayerFlagFiring,
		}},
		{"player_aim", types.PacketPlayerAim, types.PlayerAim{AimX: 0.707, AimY: -0.707, WeaponID: 15, Charge: 0.8}},
		{"actor_state", types.PacketActorState, types.ActorState{ActorID: 9, Health: 37.5, AnimationID: -1, Active: true}},
		{"actor_path", types.PacketActorPath, types.ActorPath{
			ActorID:   9,
			Waypoints: []types.Waypoint{{X: 1, Y: 2}, {X: -3.5, Y: 4.25}},
		}},
		{"actor_path_empty", types.PacketActorPath, types.ActorPath{ActorID: 3, Waypoints: []types.Waypoint{}}},
		{"projectile", types.PacketProjectile, types.Projectile{
			Owner: types.Identity(76561198012345678),
			X:     1, Y: 2, VelX: -20, VelY: 0.25, Damage: 5.5, Kind: 3,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := c.MarshalPayload(tt.pt, tt.v)
			require.NoError(t, err)

			got, err := c.UnmarshalPayload(types.Packet{Type: tt.pt, Payload: data})
			require.NoError(t, err)
			assert.Equal(t, tt.v, got)
		})
	}
}

func TestPayloadCodecs_FullPacketRoundTrip(t *testing.T) {
	c := NewCodec()

	ps := types.PlayerState{X: 4, Y: 8, VelX: -1, VelY: 1, Rotation: 0.5, Flags: types.PlayerFlagRolling}

	payload, err := c.MarshalPayload(types.PacketPlayerState, ps)
	require.NoError(t, err)

	wire, err := c.Encode(types.Packet{
		Type:      types.PacketPlayerState,
		Sender:    types.Identity(100),
		Timestamp: 60.25,
		Payload:   payload,
	})
	require.NoError(t, err)

	pkt, err := c.Decode(wire)
	require.NoError(t, err)

	got, err := c.UnmarshalPayload(pkt)
	require.NoError(t, err)
	assert.Equal(t, ps, got)
}

func TestPayloadCodecs_WrongValueType(t *testing.T) {
	c := NewCodec()

	// PlayerState 的值交给 PlayerAim 编解码器
	_, err := c.MarshalPayload(types.PacketPlayerAim, types.PlayerState{})
	assert.ErrorIs(t, err, ErrPayloadType)

	// 指针不被接受
	_, err = c.MarshalPayload(types.PacketPlayerState, &types.PlayerState{})
	assert.ErrorIs(t, err, ErrPayloadType)
}

func TestPayloadCodecs_SizeMismatch(t *testing.T) {
	c := NewCodec()

	tests := []struct {
		name string
		pt   types.PacketType
		data []byte
	}{
		{"heartbeat_short", types.PacketHeartbeat, []byte{1, 2}},
		{"heartbeat_long", types.PacketHeartbeat, make([]byte, 8)},
		{"player_state_short", types.PacketPlayerState, make([]byte, 23)},
		{"player_state_long", types.PacketPlayerState, make([]byte, 25)},
		{"player_aim_empty", types.PacketPlayerAim, []byte{}},
		{"actor_state_short", types.PacketActorState, make([]byte, 12)},
		{"projectile_short", types.PacketProjectile, make([]byte, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.UnmarshalPayload(types.Packet{Type: tt.pt, Payload: tt.data})
			assert.ErrorIs(t, err, ErrPayloadSize)
		})
	}
}

func TestActorPathCodec_WaypointBounds(t *testing.T) {
	c := NewCodec()

	t.Run("marshal_too_many", func(t *testing.T) {
		wps := make([]types.Waypoint, maxWaypoints+1)
		_, err := c.MarshalPayload(types.PacketActorPath, types.ActorPath{ActorID: 1, Waypoints: wps})
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("unmarshal_negative_count", func(t *testing.T) {
		data := make([]byte, 8)
		putI32(data, 4, -1)
		_, err := c.UnmarshalPayload(types.Packet{Type: types.PacketActorPath, Payload: data})
		assert.ErrorIs(t, err, ErrPayloadSize)
	})

	t.Run("unmarshal_count_beyond_buffer", func(t *testing.T) {
		// 声明 10 个路径点但只给 1 个的字节数
		data := make([]byte, 16)
		putI32(data, 4, 10)
		_, err := c.UnmarshalPayload(types.Packet{Type: types.PacketActorPath, Payload: data})
		assert.ErrorIs(t, err, ErrPayloadSize)
	})
}

func TestStringFields_Bounds(t *testing.T) {
	c := NewCodec()

	t.Run("marshal_name_too_long", func(t *testing.T) {
		long := strings.Repeat("g", maxStringLen+1)
		_, err := c.MarshalPayload(types.PacketHandshake, types.HandshakeData{Name: long})
		assert.ErrorIs(t, err, ErrStringTooLong)
	})

	t.Run("unmarshal_truncated_string", func(t *testing.T) {
		// 声明 100 字节字符串但缓冲只剩 3 字节
		data := []byte{100, 0, 'a', 'b', 'c'}
		_, err := c.UnmarshalPayload(types.Packet{Type: types.PacketHandshake, Payload: data})
		assert.ErrorIs(t, err, ErrPayloadSize)
	})

	t.Run("unmarshal_trailing_bytes", func(t *testing.T) {
		data, err := c.MarshalPayload(types.PacketHandshake, types.HandshakeData{Name: "a", Version: "b"})
		require.NoError(t, err)
		data = append(data, 0xFF)
		_, err = c.UnmarshalPayload(types.Packet{Type: types.PacketHandshake, Payload: data})
		assert.ErrorIs(t, err, ErrPayloadSize)
	})
}

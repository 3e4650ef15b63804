package codec

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

func TestCodec_EncodeDecode(t *testing.T) {
	c := NewCodec()

	pkt := types.Packet{
		Type:      types.PacketPlayerState,
		Sender:    types.Identity(76561198012345678),
		Timestamp: 123.5,
		Payload:   []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24},
	}

	// 编码
	data, err := c.Encode(pkt)
	require.NoError(t, err)
	require.Len(t, data, HeaderSize+len(pkt.Payload))

	// 解码
	decoded, err := c.Decode(data)
	require.NoError(t, err)

	// 验证
	assert.Equal(t, pkt.Type, decoded.Type)
	assert.Equal(t, pkt.Sender, decoded.Sender)
	assert.Equal(t, pkt.Timestamp, decoded.Timestamp)
	assert.Equal(t, pkt.Payload, decoded.Payload)
}

func TestCodec_Encode_WireLayout(t *testing.T) {
	c := NewCodec()

	pkt := types.Packet{
		Type:      types.PacketHeartbeat,
		Sender:    types.Identity(0x1122334455667788),
		Timestamp: 2.0,
		Payload:   []byte{0xAA, 0xBB, 0xCC, 0xDD},
	}

	data, err := c.Encode(pkt)
	require.NoError(t, err)
	require.Len(t, data, 21)

	// 各端实现按字节比较同一布局
	assert.Equal(t, byte(types.PacketHeartbeat), data[0])
	assert.Equal(t, uint64(0x1122334455667788), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, float32(2.0), math.Float32frombits(binary.LittleEndian.Uint32(data[9:13])))
	assert.Equal(t, int32(4), int32(binary.LittleEndian.Uint32(data[13:17])))
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, data[17:21])
}

func TestCodec_Encode_NilPayload(t *testing.T) {
	c := NewCodec()

	_, err := c.Encode(types.Packet{Type: types.PacketHeartbeat, Sender: 1})
	assert.ErrorIs(t, err, ErrNilPayload)

	// 空但非 nil 的负载是合法的
	data, err := c.Encode(types.Packet{Type: types.PacketHeartbeat, Sender: 1, Payload: []byte{}})
	require.NoError(t, err)
	assert.Len(t, data, HeaderSize)
}

func TestCodec_Encode_UnknownType(t *testing.T) {
	c := NewCodec()

	_, err := c.Encode(types.Packet{Type: types.PacketType(0xEE), Sender: 1, Payload: []byte{}})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = c.Encode(types.Packet{Type: types.PacketInvalid, Sender: 1, Payload: []byte{}})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestCodec_Encode_PayloadTooLarge(t *testing.T) {
	c := NewCodec()

	_, err := c.Encode(types.Packet{
		Type:    types.PacketActorPath,
		Sender:  1,
		Payload: make([]byte, MaxPayloadSize+1),
	})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestCodec_Decode_ShortBuffer(t *testing.T) {
	c := NewCodec()

	// 任何短于包头的输入都不触发越界访问
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"one_byte", []byte{byte(types.PacketHeartbeat)}},
		{"header_minus_one", make([]byte, HeaderSize-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.data)
			assert.ErrorIs(t, err, ErrShortPacket)
		})
	}
}

func TestCodec_Decode_LengthMismatch(t *testing.T) {
	c := NewCodec()

	valid, err := c.Encode(types.Packet{
		Type:    types.PacketHeartbeat,
		Sender:  7,
		Payload: []byte{1, 2, 3, 4},
	})
	require.NoError(t, err)

	t.Run("declared_more_than_actual", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint32(data[13:17], 8)
		_, err := c.Decode(data)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("declared_less_than_actual", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint32(data[13:17], 2)
		_, err := c.Decode(data)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("negative_declared", func(t *testing.T) {
		data := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint32(data[13:17], 0xFFFFFFFF)
		_, err := c.Decode(data)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("truncated_payload", func(t *testing.T) {
		_, err := c.Decode(valid[:HeaderSize+2])
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestCodec_Decode_UnknownType(t *testing.T) {
	c := NewCodec()

	data := make([]byte, HeaderSize)
	data[0] = 0xEE
	_, err := c.Decode(data)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestCodec_Decode_CopiesPayload(t *testing.T) {
	c := NewCodec()

	data, err := c.Encode(types.Packet{
		Type:    types.PacketHeartbeat,
		Sender:  1,
		Payload: []byte{1, 2, 3, 4},
	})
	require.NoError(t, err)

	decoded, err := c.Decode(data)
	require.NoError(t, err)

	// 复用入参缓冲不得影响已解码的包
	for i := range data {
		data[i] = 0xFF
	}
	assert.Equal(t, []byte{1, 2, 3, 4}, decoded.Payload)
}

// fakePayloadCodec 自定义负载编解码器
type fakePayloadCodec struct {
	kind types.PacketType
}

func (f fakePayloadCodec) Kind() types.PacketType        { return f.kind }
func (f fakePayloadCodec) Marshal(v any) ([]byte, error) { return []byte{0x42}, nil }
func (f fakePayloadCodec) Unmarshal(data []byte) (any, error) {
	return byte(0x42), nil
}

func TestCodec_RegisterPayload(t *testing.T) {
	c := NewCodec()

	custom := fakePayloadCodec{kind: types.PacketType(0x40)}
	require.NoError(t, c.RegisterPayload(custom))

	// 注册后该类型可过信封校验
	data, err := c.Encode(types.Packet{Type: custom.kind, Sender: 1, Payload: []byte{0x42}})
	require.NoError(t, err)
	_, err = c.Decode(data)
	require.NoError(t, err)

	// 重复注册被拒绝
	err = c.RegisterPayload(custom)
	assert.ErrorIs(t, err, ErrPayloadRegistered)

	// 内置类型不可被覆盖
	err = c.RegisterPayload(fakePayloadCodec{kind: types.PacketHeartbeat})
	assert.ErrorIs(t, err, ErrPayloadRegistered)
}

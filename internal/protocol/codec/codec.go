// Package codec 实现会话线缆协议
//
// 线缆布局（均为小端）：
//
//	[1B 类型][8B 发送者ID][4B float32 时间戳][4B int32 负载长度][负载]
//
// 包头共 17 字节。负载按包类型用注册的负载编解码器转换成
// 固定布局字节；对端实现必须按字节一致地解读同一布局。
//
// 所有失败都以哨兵错误返回：编码失败丢弃出站包，解码失败
// 丢弃入站包，双向都不会 panic，也不会中断会话。
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

const (
	// HeaderSize 包头字节数
	HeaderSize = 17

	// MaxPayloadSize 单包负载上限
	// 平台 P2P 通道对报文大小有硬限制，超限的包在编码期拒绝
	MaxPayloadSize = 16 * 1024
)

// Codec 线缆编解码器
//
// 持有包类型到负载编解码器的注册表。内置类型在 NewCodec
// 时注册，宿主可通过 RegisterPayload 扩展自定义类型。
type Codec struct {
	mu       sync.RWMutex
	payloads map[types.PacketType]PayloadCodec
}

// NewCodec 创建编解码器并注册全部内置负载类型
func NewCodec() *Codec {
	c := &Codec{
		payloads: make(map[types.PacketType]PayloadCodec),
	}

	// 内置负载类型
	for _, pc := range []PayloadCodec{
		handshakeCodec{},
		welcomeCodec{},
		playerJoinCodec{},
		heartbeatCodec{},
		heartbeatAckCodec{},
		playerStateCodec{},
		playerAimCodec{},
		actorStateCodec{},
		actorPathCodec{},
		projectileCodec{},
	} {
		c.payloads[pc.Kind()] = pc
	}
	return c
}

// RegisterPayload 注册自定义负载编解码器
//
// 包类型已被占用时返回 ErrPayloadRegistered。
func (c *Codec) RegisterPayload(pc PayloadCodec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.payloads[pc.Kind()]; exists {
		return fmt.Errorf("%w: type=%s", ErrPayloadRegistered, pc.Kind())
	}
	c.payloads[pc.Kind()] = pc
	return nil
}

// lookup 返回包类型对应的负载编解码器
func (c *Codec) lookup(pt types.PacketType) (PayloadCodec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pc, ok := c.payloads[pt]
	return pc, ok
}

// ============================================================================
//                              信封编解码
// ============================================================================

// Encode 编码数据包为线缆字节
//
// 负载为 nil 时返回 ErrNilPayload（零长度负载用非 nil
// 空切片表示）；未注册的包类型返回 ErrUnknownType。
func (c *Codec) Encode(pkt types.Packet) ([]byte, error) {
	if pkt.Payload == nil {
		return nil, fmt.Errorf("%w: type=%s", ErrNilPayload, pkt.Type)
	}
	if _, ok := c.lookup(pkt.Type); !ok {
		return nil, fmt.Errorf("%w: type=0x%02X", ErrUnknownType, byte(pkt.Type))
	}
	if len(pkt.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(pkt.Payload))
	}

	buf := make([]byte, HeaderSize+len(pkt.Payload))
	buf[0] = byte(pkt.Type)
	binary.LittleEndian.PutUint64(buf[1:9], uint64(pkt.Sender))
	binary.LittleEndian.PutUint32(buf[9:13], math.Float32bits(pkt.Timestamp))
	binary.LittleEndian.PutUint32(buf[13:17], uint32(int32(len(pkt.Payload))))
	copy(buf[HeaderSize:], pkt.Payload)
	return buf, nil
}

// Decode 解码线缆字节为数据包
//
// 校验顺序：长度不足包头 → ErrShortPacket；未注册的包类型
// → ErrUnknownType；声明长度为负或与剩余字节不符 →
// ErrLengthMismatch。任何入参切片都不会触发越界访问。
//
// 返回的负载是独立副本，调用方可安全复用入参缓冲。
func (c *Codec) Decode(data []byte) (types.Packet, error) {
	if len(data) < HeaderSize {
		return types.Packet{}, fmt.Errorf("%w: %d bytes", ErrShortPacket, len(data))
	}

	pt := types.PacketType(data[0])
	if _, ok := c.lookup(pt); !ok {
		return types.Packet{}, fmt.Errorf("%w: type=0x%02X", ErrUnknownType, data[0])
	}

	declared := int32(binary.LittleEndian.Uint32(data[13:17]))
	if declared < 0 {
		return types.Packet{}, fmt.Errorf("%w: declared=%d", ErrLengthMismatch, declared)
	}
	if int(declared) > MaxPayloadSize {
		return types.Packet{}, fmt.Errorf("%w: declared=%d", ErrPayloadTooLarge, declared)
	}
	if int(declared) != len(data)-HeaderSize {
		return types.Packet{}, fmt.Errorf("%w: declared=%d actual=%d",
			ErrLengthMismatch, declared, len(data)-HeaderSize)
	}

	payload := make([]byte, declared)
	copy(payload, data[HeaderSize:])

	return types.Packet{
		Type:      pt,
		Sender:    types.Identity(binary.LittleEndian.Uint64(data[1:9])),
		Timestamp: math.Float32frombits(binary.LittleEndian.Uint32(data[9:13])),
		Payload:   payload,
	}, nil
}

// ============================================================================
//                              负载编解码
// ============================================================================

// MarshalPayload 按包类型编码负载结构为字节
func (c *Codec) MarshalPayload(pt types.PacketType, v any) ([]byte, error) {
	pc, ok := c.lookup(pt)
	if !ok {
		return nil, fmt.Errorf("%w: type=0x%02X", ErrUnknownType, byte(pt))
	}
	return pc.Marshal(v)
}

// UnmarshalPayload 解码数据包负载为类型化结构
//
// 入参应为 Decode 的产物；负载字节与该类型的布局不符时
// 返回 ErrPayloadSize。
func (c *Codec) UnmarshalPayload(pkt types.Packet) (any, error) {
	pc, ok := c.lookup(pkt.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type=0x%02X", ErrUnknownType, byte(pkt.Type))
	}
	return pc.Unmarshal(pkt.Payload)
}

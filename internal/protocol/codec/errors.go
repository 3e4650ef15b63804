// Package codec 实现会话线缆协议
package codec

import "errors"

// 错误定义
var (
	// ErrNilPayload 负载为 nil（零长度负载用非 nil 空切片表示）
	ErrNilPayload = errors.New("codec: nil payload")

	// ErrShortPacket 数据不足以容纳包头
	ErrShortPacket = errors.New("codec: packet shorter than header")

	// ErrLengthMismatch 包头声明长度与实际负载长度不一致
	ErrLengthMismatch = errors.New("codec: declared length mismatch")

	// ErrUnknownType 未注册的包类型
	ErrUnknownType = errors.New("codec: unknown packet type")

	// ErrPayloadTooLarge 负载超过上限
	ErrPayloadTooLarge = errors.New("codec: payload too large")

	// ErrPayloadType 负载值类型与包类型不匹配
	ErrPayloadType = errors.New("codec: payload value type mismatch")

	// ErrPayloadSize 负载字节数与该类型布局不符
	ErrPayloadSize = errors.New("codec: payload size mismatch")

	// ErrPayloadRegistered 包类型已注册负载编解码器
	ErrPayloadRegistered = errors.New("codec: payload codec already registered")

	// ErrStringTooLong 字符串字段超过上限
	ErrStringTooLong = errors.New("codec: string field too long")
)

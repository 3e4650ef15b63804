// Package wsrelay 提供经 WebSocket 中继的平台实现
package wsrelay

import "errors"

var (
	// ErrInvalidConfig 配置校验失败
	ErrInvalidConfig = errors.New("wsrelay: invalid config")

	// ErrShortFrame 数据帧短于身份前缀
	ErrShortFrame = errors.New("wsrelay: frame shorter than identity prefix")

	// ErrMissingOp 控制帧缺少操作码
	ErrMissingOp = errors.New("wsrelay: control frame missing op")

	// ErrClosed 提供者已关闭
	ErrClosed = errors.New("wsrelay: provider closed")
)

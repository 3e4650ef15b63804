// Package relay 实现 wsrelay 客户端对接的中继服务器
package relay

import "errors"

var (
	// ErrInvalidConfig 配置校验失败
	ErrInvalidConfig = errors.New("relay: invalid config")

	// ErrHubClosed 枢纽已关闭，不再接受新连接
	ErrHubClosed = errors.New("relay: hub closed")

	// ErrBadHello 连接的第一帧不是合法的注册帧
	ErrBadHello = errors.New("relay: first frame must be a hello control frame")
)

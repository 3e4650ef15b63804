package session

import "errors"

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("session: invalid config")

	// ErrNilCodec 编解码器缺失
	ErrNilCodec = errors.New("session: codec is required")

	// ErrNilRegistry 注册表缺失
	ErrNilRegistry = errors.New("session: registry is required")

	// ErrNotIdle 当前状态不允许发起新会话
	ErrNotIdle = errors.New("session: not idle")

	// ErrIdentityUnavailable 本机身份尚未就绪
	//
	// 提供者未绑定时身份降级为哨兵值，无法托管或加入；
	// 可重试，身份就绪后即可发起。
	ErrIdentityUnavailable = errors.New("session: local identity unavailable")

	// ErrInvalidTarget 加入目标无效
	ErrInvalidTarget = errors.New("session: invalid join target")
)

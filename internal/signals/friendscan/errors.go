package friendscan

import "errors"

var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("friendscan: invalid config")

	// ErrNilRegistry 注册表缺失
	ErrNilRegistry = errors.New("friendscan: registry is required")
)

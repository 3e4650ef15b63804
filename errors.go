// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import "errors"

// ════════════════════════════════════════════════════════════════════════════
// 节点生命周期错误
// ════════════════════════════════════════════════════════════════════════════

var (
	// ErrNotStarted 节点尚未启动
	ErrNotStarted = errors.New("gtnet: node not started")

	// ErrAlreadyStarted 节点已经启动
	ErrAlreadyStarted = errors.New("gtnet: node already started")

	// ErrNodeClosed 节点已关闭，不可再使用
	ErrNodeClosed = errors.New("gtnet: node closed")
)

// ════════════════════════════════════════════════════════════════════════════
// 选项与配置错误
// ════════════════════════════════════════════════════════════════════════════

var (
	// ErrNilOption 传入了空的配置对象
	ErrNilOption = errors.New("gtnet: nil option value")

	// ErrInvalidOption 选项取值越界
	ErrInvalidOption = errors.New("gtnet: invalid option value")

	// ErrUnknownPreset 未知的配置预设名
	ErrUnknownPreset = errors.New("gtnet: unknown preset")
)

// ════════════════════════════════════════════════════════════════════════════
// 会话与发现错误
// ════════════════════════════════════════════════════════════════════════════

var (
	// ErrNoHosts 当前没有任何活跃主机可加入
	ErrNoHosts = errors.New("gtnet: no active hosts")
)

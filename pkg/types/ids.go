// Package types 定义 GTNet 的基础类型
//
// 这是整个系统的最底层包，不依赖任何其他 gtnet 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
package types

import (
	"errors"
	"strconv"
)

// ============================================================================
//                              Identity - 玩家标识
// ============================================================================

// Identity 平台玩家标识符
// 由身份与传输提供者分配（通常是 64 位平台账号 ID）
//
// 标识符是不透明的：除相等比较与十进制字符串表示外，
// 不得对其内部结构做任何假设。
//
// 外部表示格式：
//   - String(): 十进制字符串（用于富状态 connect 键、日志、配置）
type Identity uint64

// EmptyIdentity 空身份
// 哨兵值，表示"身份不可用/未知"（提供者尚未完成绑定）
const EmptyIdentity Identity = 0

// ErrInvalidIdentity 无效的身份错误
var ErrInvalidIdentity = errors.New("invalid identity: must be a decimal uint64")

// String 返回 Identity 的十进制字符串表示
//
// 这是 Identity 的规范外部表示，用于：
//   - 富状态 connect 键的取值
//   - 启动参数与环境变量中的目标主机
//   - 日志与配置文件
func (id Identity) String() string {
	if id.IsEmpty() {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}

// Equal 比较两个 Identity 是否相等
func (id Identity) Equal(other Identity) bool {
	return id == other
}

// IsEmpty 检查 Identity 是否为空（哨兵值）
func (id Identity) IsEmpty() bool {
	return id == EmptyIdentity
}

// ParseIdentity 从字符串解析 Identity
//
// 仅支持十进制编码（用于启动参数、环境变量和配置）。
// 空串与 "0" 均解析失败：空身份不出现在外部输入中。
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return EmptyIdentity, ErrInvalidIdentity
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return EmptyIdentity, ErrInvalidIdentity
	}
	if v == 0 {
		return EmptyIdentity, ErrInvalidIdentity
	}
	return Identity(v), nil
}

// ============================================================================
//                              LobbyToken - 大厅令牌
// ============================================================================

// LobbyToken 大厅令牌
// 提供者创建大厅后返回的不透明令牌，随邀请经带外渠道传递
type LobbyToken string

// String 返回大厅令牌字符串
func (t LobbyToken) String() string {
	return string(t)
}

// IsEmpty 检查大厅令牌是否为空
func (t LobbyToken) IsEmpty() bool {
	return t == ""
}

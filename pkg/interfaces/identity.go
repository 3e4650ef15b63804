// Package interfaces 定义 GTNet 公共接口
//
// 本文件定义 LocalIdentity 接口，对应 internal/core/identity/ 实现。
package interfaces

import (
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// LocalIdentity 定义本机身份契约接口
//
// 对提供者身份查询做缓存：绑定成功前返回哨兵值并在每次
// 读取时惰性重查，绑定成功后结果固定。永不阻塞。
type LocalIdentity interface {
	// Local 返回本机身份（提供者未绑定时为 types.EmptyIdentity）
	Local() types.Identity

	// Bound 报告身份是否已成功取得
	Bound() bool
}

// Package interfaces 定义 GTNet 公共接口
//
// 本文件定义 HostRegistry 接口，对应 internal/core/registry/ 实现。
package interfaces

import (
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// HostRegistry 定义主机注册表契约接口
//
// 注册表维护已发现主机的短时记录：每个身份至多一条，
// 超过 TTL 未触活即被清理。所有读取方法先隐式清理再返回，
// 因此调用方永远看不到过期记录。
type HostRegistry interface {
	// Register 注册或更新主机记录（幂等）
	//
	// 已存在时刷新 LastSeen 并标记活跃；
	// 空展示名不会覆盖已知的展示名。
	Register(id types.Identity, name string)

	// Unregister 显式注销主机记录
	Unregister(id types.Identity)

	// Deactivate 将主机记录标记为不活跃（记录不存在时为无操作）
	//
	// 记录保留在注册表中直至 TTL 过期，期间再次 Register 即恢复活跃。
	// 用于容忍富状态短暂消失等瞬时抖动。
	Deactivate(id types.Identity)

	// Touch 刷新主机记录的 LastSeen（记录不存在时为无操作）
	Touch(id types.Identity)

	// UpdatePlayerCount 更新主机记录的玩家数（记录不存在时为无操作）
	UpdatePlayerCount(id types.Identity, count int)

	// Sweep 按给定时刻清理过期记录
	Sweep(now time.Time)

	// ListActive 按插入顺序返回活跃主机记录
	//
	// excluding 指定要排除的身份（通常为本机）。
	ListActive(excluding types.Identity) []types.HostRecord

	// SelectBest 选择最适合加入的主机
	//
	// 优先返回 preferred（若其活跃且不等于 excluding）；
	// 否则返回最近触活的活跃主机；并列时按插入顺序。
	// 永不返回 excluding，也永不返回本机正在托管的身份。
	// 无可选主机时返回 types.EmptyIdentity。
	SelectBest(excluding, preferred types.Identity) types.Identity

	// SetHosting 声明本机正在托管的身份（SelectBest 永不返回它）
	SetHosting(id types.Identity)

	// ClearHosting 清除托管声明
	ClearHosting()

	// Len 返回当前记录数（含未清理的过期记录）
	Len() int
}

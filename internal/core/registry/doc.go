// Package registry 实现主机注册表。
//
// registry 维护已发现主机的短时记录，是加入决策的数据底座。
// 好友扫描、邀请与被动信号把看到的主机写入注册表，
// 会话控制器通过 SelectBest 取出最适合加入的主机。
//
// # 核心职责
//
// 1. 记录管理: 每个身份至多一条记录，注册幂等，显式注销即删除
//
// 2. TTL 清理: 超过存活窗口未触活的记录在清理中移除
//
// 3. 活跃标记: 富状态短暂消失仅降级为不活跃，再次注册即恢复
//
// 4. 加入选择: 优先指定主机，否则取最近触活者，并列按发现顺序
//
// # 使用示例
//
//	import "github.com/gungeon-together/go-gtnet/internal/core/registry"
//
//	reg, err := registry.New(registry.NewConfig())
//	if err != nil {
//	    return err
//	}
//
//	// 记录一台主机（好友扫描看到 hosting 状态）
//	reg.Register(hostID, "PlayerOne")
//
//	// 周期性清理过期记录
//	reg.Sweep(time.Now())
//
//	// 选择加入目标
//	target := reg.SelectBest(localID, preferredID)
//
// # 并发安全
//
// Registry 的所有方法都是并发安全的，可以在多协程中安全使用。
// 事件在锁外发布，订阅回调中再次调用注册表不会死锁。
//
// # Fx 模块集成
//
//	app := fx.New(
//	    registry.Module(),
//	    fx.Invoke(func(reg interfaces.HostRegistry) {
//	        // 使用注册表
//	    }),
//	)
package registry

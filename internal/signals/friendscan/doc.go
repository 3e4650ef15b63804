// Package friendscan 实现好友状态扫描
//
// friendscan 周期性读取提供者好友列表，把富状态换成主机注册表记录，
// 是主机发现的主要途径：
//   - 声明托管（gungeon_together=hosting）的好友 → 登记为主机
//   - 在别人会话里（playing）的好友 → connect 键透露其主机，链式保鲜
//   - 不再托管的好友 → 记录转入不活跃，容忍富状态短暂抖动
//
// # 链式发现
//
// 加入方好友的 connect 键携带其主机的身份。即使主机本人不是
// 本机好友，只要有共同好友在其会话中，主机记录就能保持新鲜。
// 链式登记的主机不参与托管延续判定，无新鲜证据时按 TTL 自然衰减。
//
// # 扫描节奏
//
// 读取好友列表要穿越平台边界，代价较高，默认每秒至多一次。
// 扫描由节点 tick 驱动，Scan(now) 自带节流，多余调用为无操作。
//
// # 并发安全
//
// Scan 预期只从 tick 路径调用；内部状态仍由互斥锁保护，
// 多线程宿主偶发的并发调用不会破坏登记表。
package friendscan

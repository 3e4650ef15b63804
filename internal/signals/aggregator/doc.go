// Package aggregator 实现加入信号聚合
//
// 四条信号通道各自封装一种不可靠来源，聚合器把它们合并成
// 会话控制器能直接消费的加入意图流：
//   - 按可信度轮询: invite > argscan > envscan > passive
//   - 本机过滤: 指向本机身份的信号直接丢弃
//   - 冷却去重: 同一目标在冷却窗口内只放行一次
//   - 每次轮询至多放行一条
//
// # 可信度顺序
//
// 通道在构造时按来源信任序排定，与注入顺序无关。
// 定向邀请最可信（平台替邀请方背书），被动连接最不可信
// （仅凭未知身份发来的报文推断）。
//
// # 冷却窗口
//
// 放行一个目标后，同一目标在 DedupWindow 内的后续信号被抑制，
// 防止多条通道同时观察到同一主机时重复触发加入流程。
// 抑制不刷新窗口：窗口从放行时刻起算。
//
// # 信号消费
//
// 被本机过滤或冷却抑制的信号已从通道消费，不会重新入队。
// 通道每次轮询至多让出一条，积压的信号等待后续 tick。
//
// # 并发安全
//
// Poll 预期只从 tick 路径调用；冷却表由互斥锁保护。
package aggregator

// Package fakenet 提供进程内的平台实现
//
// fakenet 在单进程内模拟平台的全部能力：身份、P2P 报文、
// 富状态、大厅与好友列表。中央枢纽（Hub）充当交换机，
// 每个玩家持有一个提供者（Provider）。
//
// 主要用于测试与示例：
//
//	hub := fakenet.NewHub()
//	alice, _ := hub.NewUser(100, "Alice")
//	bob, _ := hub.NewUser(200, "Bob")
//	hub.Befriend(100, 200)
//
//	host, _ := gtnet.New(gtnet.WithProvider(alice))
//	join, _ := gtnet.New(gtnet.WithProvider(bob))
//
// 报文路由同步且可靠：SendPacket 直接入队对端收件箱，
// 无丢包、无乱序、无延迟。需要模拟平台未就绪或网络故障时，
// 使用 Provider.SetBound 或 Hub.Remove。
package fakenet

// Package gtnet 提供多人联机会话层的统一入口。
//
// gtnet 面向平台化的 P2P 联机场景：底层平台（如 Steamworks）负责
// 身份、好友、大厅与可靠报文投递，gtnet 在其上实现主机发现、
// 加入信号聚合、会话状态机与二进制报文协议。
//
// 快速开始：
//
//	node, err := gtnet.New(
//		gtnet.WithProvider(provider),
//		gtnet.WithProfile(gtnet.Profile{Name: "Gunslinger", Scene: "tt_foyer"}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer node.Close()
//
//	if err := node.Start(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//
//	// 开始主持会话，等待其他玩家加入
//	if err := node.StartHosting(); err != nil {
//		log.Fatal(err)
//	}
//
// 架构分层：
//
//	┌─────────────────────────────────────┐
//	│        应用层（游戏逻辑）            │
//	├─────────────────────────────────────┤
//	│  gtnet.Node（本包，统一门面）        │
//	├─────────────────────────────────────┤
//	│  discovery   signals    protocol    │
//	│  主机注册表   信号通道    会话与编解码 │
//	├─────────────────────────────────────┤
//	│  interfaces.Provider（平台适配）     │
//	└─────────────────────────────────────┘
//
// 驱动模型：
//
// gtnet 是时钟驱动的。默认情况下 Start 会启动内部节拍器
// （AutoTick），按固定间隔依次执行好友扫描、信号聚合、会话状态机
// 推进与注册表清扫。嵌入游戏帧循环时可通过 WithAutoTick(false)
// 关闭节拍器，改由宿主每帧调用 Tick。
//
// 平台适配：
//
// pkg/provider/fakenet 提供进程内的内存平台实现，适合测试与示例；
// pkg/provider/wsrelay 通过 WebSocket 中继服务器桥接真实网络。
// 实现 interfaces.Provider 即可接入其他平台。
package gtnet

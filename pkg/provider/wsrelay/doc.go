// Package wsrelay 提供经 WebSocket 中继的平台实现
//
// wsrelay 把平台能力桥接到一台中继服务器（见 cmd/gtnet-relay）：
// 身份在拨号时声明，报文经中继转发，富状态、大厅与花名册
// 由服务器代管。中继网络里的全部在线客户端互为"好友"。
//
//	provider, err := wsrelay.Dial(wsrelay.NewConfig(
//		"ws://relay.example.com:7430/ws", 76561198000000001, "Gunslinger"))
//	if err != nil {
//		return err
//	}
//	defer provider.Close()
//
//	node, err := gtnet.New(gtnet.WithProvider(provider))
//
// 线缆格式：
//
//   - 二进制帧为数据帧：8 字节小端身份前缀 + 不透明报文。
//     客户端到服务器时前缀是目标身份，服务器到客户端时是来源身份。
//   - 文本帧为控制帧：JSON 编码的 Control（注册、富状态、大厅、花名册）。
//
// 连接断开后提供者按降级契约工作：布尔方法返回 false、
// 列表方法返回空、身份方法返回哨兵值。不做自动重连，
// 由宿主决定何时重新 Dial。
package wsrelay

// Package relay 实现 wsrelay 客户端对接的中继服务器
//
// 中继维护一张以身份为键的在线客户端表，负责三件事：
//
//   - 转发：把数据帧按目标身份递送，帧内容对中继不透明
//   - 代管：保存各客户端的富状态与大厅成员关系
//   - 花名册：应客户端请求下发全部在线客户端的快照
//
// 客户端表与大厅表都是带 TTL 的 LRU：静默超过 TTL 的客户端
// 被逐出并断开，无人访问的大厅到期自动回收。任何入站帧都会
// 刷新发送方的 TTL。
//
// Hub 通过 Handler 挂载到任意 http.ServeMux 上，指标经
// NewMetrics 注册进调用方提供的 Prometheus 注册表：
//
//	hub, err := relay.New(relay.DefaultConfig())
//	reg := prometheus.NewRegistry()
//	hub.SetMetrics(relay.NewMetrics(reg))
//
//	mux := http.NewServeMux()
//	mux.Handle("/ws", hub.Handler())
//	mux.Handle("/metrics", relay.MetricsHandler(reg))
//
// 线缆格式与降级语义见 pkg/provider/wsrelay 的包文档。
package relay

// Package interfaces 定义 GTNet 公共接口
//
// 本包只含契约，不含实现。internal/ 下的各组件实现这些接口，
// 并通过根包 gtnet 的门面对外暴露。
//
// # 文件组织
//
//   - provider.go  - Provider：身份与传输提供者（平台绑定）
//   - registry.go  - HostRegistry：主机注册表
//   - signals.go   - SignalChannel / Aggregator：加入信号
//   - session.go   - Session：会话控制器
//   - identity.go  - LocalIdentity：本机身份
//   - eventbus.go  - EventBus：事件总线
//
// # 依赖规则
//
// 本包只依赖 pkg/types，不依赖任何 internal 包。
package interfaces

package types

// Version GTNet 协议版本（语义化版本串）
//
// 随握手、握手应答与富状态 gt_version 键对外公布。
// 版本不一致的对端互相告警但不拒绝连接。
const Version = "0.4.0"

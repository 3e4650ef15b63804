// Package identity 实现本机身份解析。
//
// GTNet 的身份由平台提供者持有：本机玩家在平台上的 64 位账号。
// 平台初始化是异步的，进程启动时身份查询往往尚不可用。
// 本包对提供者身份查询做缓存封装：
//
//   - 绑定成功前每次读取都惰性重查，返回哨兵值 types.EmptyIdentity
//   - 绑定成功后结果固定，后续读取不再触达提供者
//
// 所有组件通过 interfaces.LocalIdentity 读取本机身份，
// 永不自行缓存提供者的返回值。
package identity

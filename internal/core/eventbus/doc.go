// Package eventbus 实现事件总线。
//
// eventbus 是 GTNet 内部的类型安全发布/订阅机制。发现、信号与会话组件
// 通过它向宿主递送状态变化，宿主据此驱动界面与游戏逻辑。
//
// # 使用示例
//
//	bus := eventbus.NewBus()
//
//	// 订阅发现主机事件
//	sub, err := bus.Subscribe(new(types.EvtHostDiscovered))
//	if err != nil {
//	    return err
//	}
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(*types.EvtHostDiscovered)
//	        fmt.Println("发现主机:", e.Host.ID)
//	    }
//	}()
//
//	// 发射事件
//	emitter, err := bus.Emitter(new(types.EvtHostDiscovered))
//	if err != nil {
//	    return err
//	}
//	defer emitter.Close()
//	emitter.Emit(&types.EvtHostDiscovered{...})
//
// # 投递语义
//
// 每个订阅者持有带缓冲的通道（默认 16，可用 BufSize 调整）。
// 缓冲区满时事件被丢弃而非阻塞发射者：协作周期永不因慢消费者停摆。
// 有状态发射器（Stateful）会把最近一次事件立即送达新订阅者，
// 适合会话状态这类"迟到订阅者也需要当前值"的事件。
//
// # 并发安全
//
// Bus、Subscription、Emitter 的所有方法都是并发安全的。
package eventbus

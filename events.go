// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
)

// SubscriptionOpt 事件订阅选项
type SubscriptionOpt = interfaces.SubscriptionOpt

// BufSize 设置订阅通道的缓冲大小
func BufSize(size int) SubscriptionOpt {
	return interfaces.BufSize(size)
}

// Subscribe 订阅节点事件
//
// eventType 传事件类型的指针值，订阅通道送出的也是事件指针：
//
//	sub, err := node.Subscribe(new(gtnet.EvtPlayerJoined))
//	if err != nil {
//		return err
//	}
//	defer sub.Close()
//
//	for ev := range sub.Out() {
//		joined := ev.(*gtnet.EvtPlayerJoined)
//		fmt.Println("joined:", joined.ID, joined.Name)
//	}
//
// 可订阅的事件见 types.go 中的 Evt* 别名。
func (n *Node) Subscribe(eventType any, opts ...SubscriptionOpt) (Subscription, error) {
	return n.bus.Subscribe(eventType, opts...)
}

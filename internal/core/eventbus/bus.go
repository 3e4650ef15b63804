// Package eventbus 实现事件总线
package eventbus

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// 确保实现了接口
var _ interfaces.EventBus = (*Bus)(nil)

// Bus 事件总线
//
// 按事件类型维护主题：每个类型一个 topic，订阅者与发射器
// 挂在对应 topic 上。类型由传入事件的指针元素类型决定。
type Bus struct {
	mu sync.RWMutex

	// topics 事件类型到主题的映射
	topics map[reflect.Type]*topic
}

// topic 单一事件类型的投递主题
type topic struct {
	lk        sync.Mutex
	typ       reflect.Type
	subs      []*Subscription // 订阅者列表
	nEmitters atomic.Int32    // 发射器引用计数
	keepLast  bool            // 是否保留最近事件（Stateful）
	last      interface{}     // 最近一次事件
	dropCount atomic.Int64    // 丢弃事件计数（慢消费者警告用）
}

// NewBus 创建新的事件总线
func NewBus() *Bus {
	return &Bus{
		topics: make(map[reflect.Type]*topic),
	}
}

// Subscribe 订阅事件
//
// eventType 以指针形式传入事件类型，例如 new(types.EvtHostDiscovered)。
// 返回的订阅通过 Out() 接收事件，用毕须 Close。
func (b *Bus) Subscribe(eventType interface{}, opts ...interfaces.SubscriptionOpt) (interfaces.Subscription, error) {
	elemType, err := elemTypeOf(eventType)
	if err != nil {
		return nil, err
	}

	settings := &interfaces.SubscriptionSettings{
		Buffer: 16, // 默认缓冲区大小
	}
	for _, opt := range opts {
		opt(settings)
	}

	sub := &Subscription{
		bus: b,
		typ: elemType,
		out: make(chan interface{}, settings.Buffer),
	}

	b.withTopic(elemType, func(t *topic) {
		t.subs = append(t.subs, sub)

		// 有状态主题把最近事件立即送达新订阅者
		if t.keepLast && t.last != nil {
			select {
			case sub.out <- t.last:
			default:
				// 缓冲区满，跳过
			}
		}
	})

	return sub, nil
}

// Emitter 获取发射器
//
// eventType 以指针形式传入事件类型。发射器用毕须 Close，
// 引用计数归零且无订阅者时主题被回收。
func (b *Bus) Emitter(eventType interface{}, opts ...interfaces.EmitterOpt) (interfaces.Emitter, error) {
	elemType, err := elemTypeOf(eventType)
	if err != nil {
		return nil, err
	}

	settings := &interfaces.EmitterSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	var t *topic
	b.withTopic(elemType, func(topic *topic) {
		t = topic
		t.nEmitters.Add(1)

		if settings.Stateful {
			t.keepLast = true
		}
	})

	return &Emitter{
		bus:   b,
		topic: t,
		typ:   elemType,
	}, nil
}

// elemTypeOf 解析事件类型参数，要求为非空指针
func elemTypeOf(eventType interface{}) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}

	typ := reflect.TypeOf(eventType)
	if typ == nil {
		return nil, ErrInvalidEventType
	}
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}

	return typ.Elem(), nil
}

// withTopic 在主题上执行操作（不存在时创建）
func (b *Bus) withTopic(typ reflect.Type, cb func(*topic)) {
	b.mu.Lock()

	t, ok := b.topics[typ]
	if !ok {
		t = &topic{
			typ:  typ,
			subs: make([]*Subscription, 0),
		}
		b.topics[typ] = t
	}

	t.lk.Lock()
	b.mu.Unlock()

	cb(t)
	t.lk.Unlock()
}

// tryDropTopic 在无订阅者且无发射器时回收主题
func (b *Bus) tryDropTopic(typ reflect.Type) {
	b.mu.Lock()
	t, ok := b.topics[typ]
	if !ok {
		b.mu.Unlock()
		return
	}

	t.lk.Lock()
	if len(t.subs) > 0 || t.nEmitters.Load() > 0 {
		t.lk.Unlock()
		b.mu.Unlock()
		return
	}
	t.lk.Unlock()

	delete(b.topics, typ)
	b.mu.Unlock()
}

// removeSub 移除订阅
func (b *Bus) removeSub(sub *Subscription) {
	b.mu.Lock()
	t, ok := b.topics[sub.typ]
	if !ok {
		b.mu.Unlock()
		return
	}

	t.lk.Lock()
	b.mu.Unlock()

	for i, s := range t.subs {
		if s == sub {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			break
		}
	}

	shouldDrop := len(t.subs) == 0 && t.nEmitters.Load() == 0
	t.lk.Unlock()

	if shouldDrop {
		b.tryDropTopic(sub.typ)
	}
}

// emit 把事件投递到主题的所有订阅者
//
// 订阅者缓冲区满时丢弃事件，发射者永不阻塞。
func (t *topic) emit(event interface{}) {
	t.lk.Lock()
	defer t.lk.Unlock()

	if t.keepLast {
		t.last = event
	}

	for _, sub := range t.subs {
		select {
		case sub.out <- event:
			// 成功投递
		default:
			dropped := t.dropCount.Add(1)

			// 每丢弃 100 个事件警告一次，避免日志泛滥
			if dropped%100 == 1 {
				logger.Warn("慢消费者检测",
					"dropped", dropped,
					"type", t.typ,
					"reason", "subscriber buffer full")
			}
		}
	}
}

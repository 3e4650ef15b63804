package eventbus

import (
	"testing"
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// ============================================================================
// 订阅语义测试
// ============================================================================

// TestSubscription_Close 测试取消订阅
func TestSubscription_Close(t *testing.T) {
	bus := NewBus()

	sub, _ := bus.Subscribe(new(types.EvtHostLost))

	if err := sub.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// 重复关闭安全
	if err := sub.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}

	// 关闭后通道最终关闭，range 能退出
	select {
	case _, ok := <-sub.Out():
		if ok {
			t.Error("channel should be closed after Close()")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after Close()")
	}
}

// TestSubscription_BufSize 测试缓冲区大小选项
func TestSubscription_BufSize(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(types.EvtPlayerJoined), BufSize(2))
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	defer sub.Close()

	em, _ := bus.Emitter(new(types.EvtPlayerJoined))
	defer em.Close()

	// 缓冲 2：发 3 个，第 3 个被丢弃而不阻塞
	for i := 0; i < 3; i++ {
		em.Emit(&types.EvtPlayerJoined{
			BaseEvent: types.NewBaseEvent(types.EventTypePlayerJoined),
			Player:    types.Identity(uint64(i + 1)),
		})
	}

	got := 0
	for {
		select {
		case <-sub.Out():
			got++
		default:
			if got != 2 {
				t.Errorf("received = %d, want 2 (third dropped)", got)
			}
			return
		}
	}
}

// TestSubscription_DropDoesNotBlock 测试慢消费者不阻塞发射
func TestSubscription_DropDoesNotBlock(t *testing.T) {
	bus := NewBus()

	sub, _ := bus.Subscribe(new(types.EvtHostLost), BufSize(1))
	defer sub.Close()

	em, _ := bus.Emitter(new(types.EvtHostLost))
	defer em.Close()

	// 无人排水也能持续发射
	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			em.Emit(&types.EvtHostLost{
				BaseEvent: types.NewBaseEvent(types.EventTypeHostLost),
				Host:      types.Identity(uint64(i)),
			})
		}
		close(done)
	}()

	select {
	case <-done:
		// 发射者未被阻塞
	case <-time.After(5 * time.Second):
		t.Fatal("emitter blocked by slow subscriber")
	}
}

// ============================================================================
// 发射器语义测试
// ============================================================================

// TestEmitter_Stateful 测试有状态发射器
func TestEmitter_Stateful(t *testing.T) {
	bus := NewBus()

	em, err := bus.Emitter(new(types.EvtSessionStateChanged), Stateful())
	if err != nil {
		t.Fatalf("Emitter() failed: %v", err)
	}
	defer em.Close()

	em.Emit(&types.EvtSessionStateChanged{
		BaseEvent: types.NewBaseEvent(types.EventTypeSessionStateChanged),
		Old:       types.SessionIdle,
		New:       types.SessionHosting,
	})

	// 迟到的订阅者立即收到最近一次事件
	sub, _ := bus.Subscribe(new(types.EvtSessionStateChanged))
	defer sub.Close()

	select {
	case evt := <-sub.Out():
		e := evt.(*types.EvtSessionStateChanged)
		if e.New != types.SessionHosting {
			t.Errorf("stateful replay New = %v, want hosting", e.New)
		}
	case <-time.After(time.Second):
		t.Error("late subscriber did not receive last event")
	}
}

// TestEmitter_EmitAfterClose 测试关闭后发射
func TestEmitter_EmitAfterClose(t *testing.T) {
	bus := NewBus()

	em, _ := bus.Emitter(new(types.EvtHostLost))
	em.Close()

	err := em.Emit(&types.EvtHostLost{
		BaseEvent: types.NewBaseEvent(types.EventTypeHostLost),
		Host:      types.Identity(1),
	})
	if err != ErrEmitterClosed {
		t.Errorf("Emit() after close error = %v, want ErrEmitterClosed", err)
	}
}

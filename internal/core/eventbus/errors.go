package eventbus

import "errors"

var (
	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("eventbus: invalid event type")

	// ErrNonPointerType 事件类型必须以指针传入
	ErrNonPointerType = errors.New("eventbus: event type must be a pointer")

	// ErrEmitterClosed 发射器已关闭
	ErrEmitterClosed = errors.New("eventbus: emitter closed")
)

package eventbus

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-social-feed/domain"
)

// Bus is an in-process, synchronous fan-out event bus. Publish invokes every
// subscribed handler in the caller's goroutine; a failing or panicking handler
// is logged and skipped, it can never undo the writes that triggered the
// event or starve the remaining subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]domain.EventHandler
}

var _ domain.EventBus = (*Bus)(nil)

func New() *Bus {
	return &Bus{
		handlers: make(map[string][]domain.EventHandler),
	}
}

func (b *Bus) Subscribe(name string, h domain.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

func (b *Bus) Publish(ctx context.Context, name string, payload any) {
	b.mu.RLock()
	handlers := b.handlers[name]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(ctx, name, h, payload)
	}
}

func (b *Bus) dispatch(ctx context.Context, name string, h domain.EventHandler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("event", name).Errorf("event handler panicked: %v", r)
		}
	}()

	if err := h(ctx, payload); err != nil {
		logrus.WithField("event", name).Errorf("event handler failed: %v", err)
	}
}

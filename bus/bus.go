// Package bus implements the same-document broadcast channel as an explicit
// in-process publish/subscribe registry. Delivery is synchronous and in
// registration order; a panicking handler is isolated and reported without
// blocking the handlers after it. Subscriptions last for the lifetime of the
// bus — there is no unsubscribe.
//
// A topic may have any number of independent senders and listeners; the bus
// makes no assumption about who publishes on it.
package bus

import (
	"context"
	"log/slog"
	"sync"
)

// Handler receives the payload of every event published on a subscribed topic.
type Handler func(ctx context.Context, payload any)

// Bus is a synchronous, document-scoped broadcast channel.
type Bus interface {
	// Subscribe registers handler for topic. Handlers are never deduplicated
	// and cannot be removed.
	Subscribe(topic string, handler Handler)
	// Publish delivers payload to every handler subscribed to topic, in
	// registration order, before returning.
	Publish(ctx context.Context, topic string, payload any)
}

type memoryBus struct {
	subscriptions map[string][]Handler
	subsMutex     sync.RWMutex

	logger *slog.Logger
}

// New creates an in-process Bus. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &memoryBus{
		subscriptions: make(map[string][]Handler),
		logger:        logger,
	}
}

func (b *memoryBus) Subscribe(topic string, handler Handler) {
	if handler == nil {
		return
	}

	b.subsMutex.Lock()
	b.subscriptions[topic] = append(b.subscriptions[topic], handler)
	b.subsMutex.Unlock()

	b.logger.Debug(
		"handler subscribed to topic",
		slog.String("topic", topic),
	)
}

func (b *memoryBus) Publish(ctx context.Context, topic string, payload any) {
	b.subsMutex.RLock()
	// Snapshot under the read lock so handlers may themselves publish or
	// subscribe without deadlocking, and so handlers added mid-dispatch do
	// not see the event that was already in flight.
	handlers := make([]Handler, len(b.subscriptions[topic]))
	copy(handlers, b.subscriptions[topic])
	b.subsMutex.RUnlock()

	for _, handler := range handlers {
		b.invoke(ctx, topic, handler, payload)
	}
}

// invoke runs one handler, converting a panic into a log record so the
// remaining handlers and the publisher are unaffected.
func (b *memoryBus) invoke(ctx context.Context, topic string, handler Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(
				ctx,
				"topic handler panicked",
				slog.String("topic", topic),
				slog.Any("panic", r),
			)
		}
	}()

	handler(ctx, payload)
}

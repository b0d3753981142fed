package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"bundle-configurator/models"
)

// CartNotifier receives one CartChanged per successful submission
type CartNotifier interface {
	Publish(ctx context.Context, evt models.CartChanged) error
}

// CartBus fans CartChanged events out to subscriber channels.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type CartBus struct {
	mu     sync.RWMutex
	subs   map[int]chan models.CartChanged
	next   int
	closed bool
	logger *zap.Logger
}

// Ensure CartBus implements CartNotifier
var _ CartNotifier = (*CartBus)(nil)

// NewCartBus creates an empty bus
func NewCartBus(logger *zap.Logger) *CartBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartBus{subs: map[int]chan models.CartChanged{}, logger: logger}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// cancel func unregisters it and closes the channel.
func (b *CartBus) Subscribe(buffer int) (<-chan models.CartChanged, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan models.CartChanged, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

func (b *CartBus) Publish(ctx context.Context, evt models.CartChanged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.logger.Warn("cart event dropped", zap.Int("subscriber", id), zap.String("widget_id", evt.WidgetID))
		}
	}
	return nil
}

// Close unregisters and closes every subscriber
func (b *CartBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

package eventbus

import (
	"context"
	"sync"

	"github.com/xzdarcy/rete/internal/ctxlog"
)

// Event names emitted by the engine.
const (
	EventError = "error"
	EventWarn  = "warn"
)

// ErrorPayload is the payload of an EventError event.
type ErrorPayload struct {
	Message string
	Data    any
}

// Emitter receives named events.
type Emitter interface {
	Emit(ctx context.Context, name string, payload any)
}

// EmitterFunc adapts an ordinary function to the Emitter interface.
type EmitterFunc func(ctx context.Context, name string, payload any)

// Emit calls f.
func (f EmitterFunc) Emit(ctx context.Context, name string, payload any) {
	f(ctx, name, payload)
}

// Handler is a Bus subscriber.
type Handler func(ctx context.Context, payload any)

type subscription struct {
	id uint64
	fn Handler
}

// Bus is an in-process, synchronous fan-out of events to subscribers.
// Handlers run on the emitting goroutine, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers fn for events named name. The returned function
// removes the subscription.
func (b *Bus) Subscribe(name string, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.subs[name]
			for i, s := range subs {
				if s.id == id {
					b.subs[name] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit implements Emitter.
func (b *Bus) Emit(ctx context.Context, name string, payload any) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[name]...)
	b.mu.RUnlock()

	ctxlog.FromContext(ctx).Debug("Dispatching event.", "event", name, "subscribers", len(subs))
	for _, s := range subs {
		s.fn(ctx, payload)
	}
}

// Multi fans an event out to several emitters in order.
type Multi []Emitter

// Emit implements Emitter.
func (m Multi) Emit(ctx context.Context, name string, payload any) {
	for _, e := range m {
		if e != nil {
			e.Emit(ctx, name, payload)
		}
	}
}

package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster. Safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. It is closed after Close.
	Receive(ctx context.Context) <-chan Message[T]

	// Close releases the subscription. It is idempotent.
	Close() error
}

// Broadcaster sends messages to every active subscriber.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that lives until ctx is done or it is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers msg without blocking on slow subscribers.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close closes all subscribers. Later calls are no-ops.
	Close() error
}

// Listen calls fn for each message until ctx is done or the subscription is
// closed. It returns ctx.Err() on cancellation and nil on close.
func Listen[T any](ctx context.Context, sub Subscriber[T], fn func(T)) error {
	ch := sub.Receive(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			fn(msg.Data)
		}
	}
}

type subscriber[T any] struct {
	ch     chan Message[T]
	done   chan struct{}
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch:   make(chan Message[T], bufferSize),
		done: make(chan struct{}),
	}
}

func (s *subscriber[T]) Receive(context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		close(s.done)
		s.closed = true
	}
	return nil
}

// send reports false when the subscriber is closed or its buffer is full.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// Package oneshot provides a single-assignment value shared between a
// producer and a consumer goroutine.
package oneshot

import (
	"context"
	"errors"
	"sync"
)

// ErrAbandoned is returned when the producer gave up without delivering.
var ErrAbandoned = errors.New("oneshot: abandoned without a value")

// Value is fulfilled at most once, either by Deliver or by Abandon.
// The zero value is not usable; create one with New.
type Value[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	delivered bool
	v         T
}

// New returns an unsettled Value.
func New[T any]() *Value[T] {
	return &Value[T]{done: make(chan struct{})}
}

// Deliver stores v and wakes waiters. It reports whether v was accepted:
// only the first Deliver on an unsettled Value succeeds. It never blocks.
func (o *Value[T]) Deliver(v T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.settled {
		return false
	}
	o.v = v
	o.delivered = true
	o.settled = true
	close(o.done)
	return true
}

// Abandon settles the Value without a result. It is a no-op if a value
// was already delivered.
func (o *Value[T]) Abandon() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.settled {
		return
	}
	o.settled = true
	close(o.done)
}

// Done is closed once the Value is settled.
func (o *Value[T]) Done() <-chan struct{} {
	return o.done
}

// Result returns the delivered value, or ErrAbandoned.
// It must only be called after Done is closed.
func (o *Value[T]) Result() (T, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.delivered {
		var zero T
		return zero, ErrAbandoned
	}
	return o.v, nil
}

// Wait blocks until the Value is settled or ctx is done.
func (o *Value[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-o.done:
		return o.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

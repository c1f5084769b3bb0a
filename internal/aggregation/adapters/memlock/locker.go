// Package memlock serializes aggregation runs inside one process.
package memlock

import (
	"context"
	"sync"

	"marketing-analytics-service/internal/aggregation/core/ports"
)

// Locker is a keyed mutex whose waits honour context cancellation.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func New() *Locker {
	return &Locker{held: map[string]chan struct{}{}}
}

var _ ports.WindowLocker = (*Locker)(nil)

// Lock acquires keys in order. If ctx ends first, keys already taken are
// given back.
func (l *Locker) Lock(ctx context.Context, keys []string) (ports.Release, error) {
	taken := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := l.acquire(ctx, k); err != nil {
			l.release(taken)
			return nil, err
		}
		taken = append(taken, k)
	}

	var once sync.Once
	return func() { once.Do(func() { l.release(taken) }) }, nil
}

func (l *Locker) acquire(ctx context.Context, key string) error {
	for {
		l.mu.Lock()
		wait, busy := l.held[key]
		if !busy {
			l.held[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Locker) release(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		if ch, ok := l.held[k]; ok {
			delete(l.held, k)
			close(ch)
		}
	}
}

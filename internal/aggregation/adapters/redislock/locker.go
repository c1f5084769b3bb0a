// Package redislock serializes aggregation runs across processes with
// Redis keys set by SET NX PX and released only by their owner.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/core/ports"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`)

// Client is the subset of *redis.Client the locker uses.
type Client interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

type Options struct {
	Prefix string
	TTL    time.Duration
	Retry  time.Duration
}

type Locker struct {
	cli  Client
	opts Options
	log  *zap.Logger
}

// New wraps a client. TTL must outlive the longest run.
func New(cli Client, opts Options, log *zap.Logger) *Locker {
	if opts.Retry <= 0 {
		opts.Retry = 250 * time.Millisecond
	}
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	return &Locker{cli: cli, opts: opts, log: log}
}

var _ ports.WindowLocker = (*Locker)(nil)

func (l *Locker) Lock(ctx context.Context, keys []string) (ports.Release, error) {
	token := uuid.NewString()
	taken := make([]string, 0, len(keys))

	for _, k := range keys {
		if err := l.acquire(ctx, l.opts.Prefix+k, token); err != nil {
			l.release(taken, token)
			return nil, fmt.Errorf("lock %s: %w", k, err)
		}
		taken = append(taken, l.opts.Prefix+k)
	}

	return func() { l.release(taken, token) }, nil
}

func (l *Locker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.opts.Retry)
	defer ticker.Stop()

	for {
		ok, err := l.cli.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Locker) release(keys []string, token string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.cli, []string{keys[i]}, token).Err(); err != nil {
			l.log.Warn("failed to release window lock", zap.String("key", keys[i]), zap.Error(err))
		}
	}
}

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/core/domain"
)

// Runner is the aggregation entry point the triggers call.
type Runner interface {
	HourlyIncremental(ctx context.Context, w domain.Window) (*domain.RunReport, error)
	DailyArchive(ctx context.Context, day time.Time) (*domain.RunReport, error)
}

type Options struct {
	HourlySpec string
	DailySpec  string
	RunTimeout time.Duration
	Retries    int
	RetryDelay time.Duration
}

type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	opts   Options
	log    *zap.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New registers the hourly and daily triggers. Specs use the standard
// five-field cron syntax, evaluated in UTC. A trigger that is still running
// when its next tick fires is skipped.
func New(runner Runner, opts Options, log *zap.Logger, options ...Option) (*Scheduler, error) {
	clog := cronLogger{log: log.Named("cron")}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
		),
		runner: runner,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	for _, o := range options {
		o(s)
	}

	if _, err := s.cron.AddFunc(opts.HourlySpec, func() { _ = s.RunHourly(s.ctx) }); err != nil {
		return nil, fmt.Errorf("invalid hourly spec %q: %w", opts.HourlySpec, err)
	}
	if _, err := s.cron.AddFunc(opts.DailySpec, func() { _ = s.RunDaily(s.ctx) }); err != nil {
		return nil, fmt.Errorf("invalid daily spec %q: %w", opts.DailySpec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started",
		zap.String("hourly_spec", s.opts.HourlySpec),
		zap.String("daily_spec", s.opts.DailySpec))
}

// Stop cancels in-flight runs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// RunHourly aggregates the last full hour.
func (s *Scheduler) RunHourly(ctx context.Context) error {
	w := domain.LastFullHour(s.now())
	return s.retry(ctx, "hourly", func(ctx context.Context) error {
		_, err := s.runner.HourlyIncremental(ctx, w)
		return err
	})
}

// RunDaily recomputes and archives the previous UTC day.
func (s *Scheduler) RunDaily(ctx context.Context) error {
	day := domain.PreviousDay(s.now())
	return s.retry(ctx, "daily", func(ctx context.Context) error {
		_, err := s.runner.DailyArchive(ctx, day)
		return err
	})
}

// retry runs fn up to Retries+1 times, each attempt bounded by RunTimeout.
func (s *Scheduler) retry(ctx context.Context, job string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= s.opts.Retries; attempt++ {
		if attempt > 0 {
			if werr := wait(ctx, s.opts.RetryDelay); werr != nil {
				break
			}
		}

		err = s.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrInvalidWindow) || ctx.Err() != nil {
			break
		}
		if attempt < s.opts.Retries {
			s.log.Warn("scheduled run failed, retrying",
				zap.String("job", job),
				zap.Int("attempt", attempt+1),
				zap.Duration("retry_delay", s.opts.RetryDelay),
				zap.Error(err))
		}
	}

	s.log.Error("scheduled run gave up", zap.String("job", job), zap.Error(err))
	return fmt.Errorf("%s run: %w", job, err)
}

func (s *Scheduler) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RunTimeout)
		defer cancel()
	}
	return fn(ctx)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

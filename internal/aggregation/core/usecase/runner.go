package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	"marketing-analytics-service/internal/platform/telemetry"
)

const (
	TriggerManual = "manual"
	TriggerHourly = "hourly"
	TriggerDaily  = "daily"
)

// Runner executes aggregation runs: it serializes writers per (metric, date)
// key, computes metric types concurrently and replaces their rows.
type Runner struct {
	agg     *Aggregator
	writer  ports.AggregateWriter
	locker  ports.WindowLocker
	metrics *telemetry.Metrics
	log     *zap.Logger

	assigner *SegmentAssigner
	statuses ports.StatusRefresher
	archiver ports.Archiver
	exporter ports.FactExporter
	now      func() time.Time
}

type RunnerOption func(*Runner)

// WithSegmentAssigner assigns rule-based segments before hourly and daily runs.
func WithSegmentAssigner(a *SegmentAssigner) RunnerOption {
	return func(r *Runner) { r.assigner = a }
}

func WithStatusRefresher(s ports.StatusRefresher) RunnerOption {
	return func(r *Runner) { r.statuses = s }
}

func WithArchiver(a ports.Archiver) RunnerOption {
	return func(r *Runner) { r.archiver = a }
}

func WithExporter(e ports.FactExporter) RunnerOption {
	return func(r *Runner) { r.exporter = e }
}

func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

func NewRunner(agg *Aggregator, writer ports.AggregateWriter, locker ports.WindowLocker, metrics *telemetry.Metrics, log *zap.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		agg:     agg,
		writer:  writer,
		locker:  locker,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run recomputes channel, campaign and segment rows for every date
// partition the window touches.
func (r *Runner) Run(ctx context.Context, trigger string, w domain.Window) (*domain.RunReport, error) {
	report := r.newReport(trigger, w)
	err := r.recompute(ctx, report, w)
	r.finish(report, err)
	return report, err
}

// HourlyIncremental is the hourly trigger; w is normally the last full hour.
func (r *Runner) HourlyIncremental(ctx context.Context, w domain.Window) (*domain.RunReport, error) {
	report := r.newReport(TriggerHourly, w)
	err := r.assign(ctx, report, w)
	if err == nil {
		err = r.recompute(ctx, report, w)
	}
	r.finish(report, err)
	return report, err
}

// DailyArchive recomputes the full day, refreshes CLV as of its end, applies
// campaign status transitions and snapshots the day's facts.
func (r *Runner) DailyArchive(ctx context.Context, day time.Time) (*domain.RunReport, error) {
	w := domain.DayWindow(day)
	report := r.newReport(TriggerDaily, w)
	err := r.daily(ctx, report, w)
	r.finish(report, err)
	return report, err
}

// RefreshCLV recomputes user and segment CLV as of the end of asOf's day.
func (r *Runner) RefreshCLV(ctx context.Context, asOf time.Time) (domain.MetricResult, error) {
	day := domain.StartOfDay(asOf)
	release, err := r.locker.Lock(ctx, LockKeys([]time.Time{day}, domain.MetricCLV))
	if err != nil {
		return domain.MetricResult{}, fmt.Errorf("acquire clv lock: %w", err)
	}
	defer release()

	users, segments, err := r.agg.ComputeCLV(ctx, day)
	if err != nil {
		return domain.MetricResult{}, fmt.Errorf("%s: %w", domain.MetricCLV, err)
	}
	if err := r.writer.ReplaceCLV(ctx, day, users, segments); err != nil {
		return domain.MetricResult{}, fmt.Errorf("%s: %w", domain.MetricCLV, storeErr("replace rows", err))
	}
	return domain.MetricResult{Metric: domain.MetricCLV, Rows: len(users) + len(segments)}, nil
}

func (r *Runner) daily(ctx context.Context, report *domain.RunReport, w domain.Window) error {
	if err := r.assign(ctx, report, w); err != nil {
		return err
	}
	if err := r.recompute(ctx, report, w); err != nil {
		return err
	}

	clv, err := r.RefreshCLV(ctx, w.Start)
	if err != nil {
		return err
	}
	report.Metrics = append(report.Metrics, clv)

	if r.statuses != nil {
		n, err := r.statuses.RefreshCampaignStatuses(ctx, w.End)
		if err != nil {
			return storeErr("refresh campaign statuses", err)
		}
		report.StatusChanges = n
	}

	if r.archiver != nil {
		res, err := r.archiver.ArchiveDay(ctx, w.Start)
		if err != nil {
			return fmt.Errorf("archive day: %w", err)
		}
		report.Archived = true
		r.log.Info("daily facts archived",
			zap.String("run_id", report.RunID),
			zap.String("day", res.Day.Format(domain.DateLayout)),
			zap.Int64("events", res.Events),
			zap.Int64("conversions", res.Conversions),
			zap.String("location", res.Location))
	}

	if r.exporter != nil {
		evs, err := r.agg.facts.EventsBetween(ctx, w.Start, w.End)
		if err != nil {
			return storeErr("read events for export", err)
		}
		convs, err := r.agg.facts.ConversionsBetween(ctx, w.Start, w.End)
		if err != nil {
			return storeErr("read conversions for export", err)
		}
		if err := r.exporter.ExportDay(ctx, w.Start, evs, convs); err != nil {
			return fmt.Errorf("export day: %w", err)
		}
	}

	return nil
}

func (r *Runner) assign(ctx context.Context, report *domain.RunReport, w domain.Window) error {
	if r.assigner == nil {
		return nil
	}
	n, err := r.assigner.AssignSegments(ctx, w)
	if err != nil {
		return fmt.Errorf("assign segments: %w", err)
	}
	report.SegmentsAssigned = n
	return nil
}

func (r *Runner) recompute(ctx context.Context, report *domain.RunReport, w domain.Window) error {
	if err := w.Validate(); err != nil {
		return err
	}
	days := report.Days

	release, err := r.locker.Lock(ctx, LockKeys(days, domain.MetricChannel, domain.MetricCampaign, domain.MetricSegment))
	if err != nil {
		return fmt.Errorf("acquire window locks: %w", err)
	}
	defer release()

	results := make([]domain.MetricResult, 3)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, excl, err := r.agg.ComputeChannelPerformance(gctx, w)
		if err != nil {
			return fmt.Errorf("%s: %w", domain.MetricChannel, err)
		}
		if err := r.writer.ReplaceChannelPerformance(gctx, days, rows); err != nil {
			return fmt.Errorf("%s: %w", domain.MetricChannel, storeErr("replace rows", err))
		}
		results[0] = domain.MetricResult{Metric: domain.MetricChannel, Rows: len(rows), Excluded: excl}
		return nil
	})

	g.Go(func() error {
		rows, excl, err := r.agg.ComputeCampaignPerformance(gctx, w)
		if err != nil {
			return fmt.Errorf("%s: %w", domain.MetricCampaign, err)
		}
		if err := r.writer.ReplaceCampaignPerformance(gctx, days, rows); err != nil {
			return fmt.Errorf("%s: %w", domain.MetricCampaign, storeErr("replace rows", err))
		}
		results[1] = domain.MetricResult{Metric: domain.MetricCampaign, Rows: len(rows), Excluded: excl}
		return nil
	})

	g.Go(func() error {
		rows, excl, err := r.agg.ComputeSegmentPerformance(gctx, w)
		if err != nil {
			return fmt.Errorf("%s: %w", domain.MetricSegment, err)
		}
		if err := r.writer.ReplaceSegmentPerformance(gctx, days, rows); err != nil {
			return fmt.Errorf("%s: %w", domain.MetricSegment, storeErr("replace rows", err))
		}
		results[2] = domain.MetricResult{Metric: domain.MetricSegment, Rows: len(rows), Excluded: excl}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	report.Metrics = append(report.Metrics, results...)
	return nil
}

func (r *Runner) newReport(trigger string, w domain.Window) *domain.RunReport {
	return &domain.RunReport{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		Window:    w,
		Days:      w.Days(),
		StartedAt: r.now().UTC(),
	}
}

func (r *Runner) finish(report *domain.RunReport, err error) {
	report.Duration = r.now().Sub(report.StartedAt)
	excluded := report.Excluded()

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	if r.metrics != nil {
		r.metrics.RunDuration.WithLabelValues(report.Trigger).Observe(report.Duration.Seconds())
		r.metrics.RunsTotal.WithLabelValues(report.Trigger, outcome).Inc()
		for _, m := range report.Metrics {
			r.metrics.RowsWritten.WithLabelValues(m.Metric).Add(float64(m.Rows))
		}
		r.metrics.ExcludedFacts.WithLabelValues("event").Add(float64(excluded.Events))
		r.metrics.ExcludedFacts.WithLabelValues("conversion").Add(float64(excluded.Conversions))
	}

	fields := []zap.Field{
		zap.String("run_id", report.RunID),
		zap.String("trigger", report.Trigger),
		zap.Stringer("window", report.Window),
		zap.Int("days", len(report.Days)),
		zap.Int("rows", report.Rows()),
		zap.Int("excluded_events", excluded.Events),
		zap.Int("excluded_conversions", excluded.Conversions),
		zap.Int("segments_assigned", report.SegmentsAssigned),
		zap.Duration("duration", report.Duration),
	}
	if err != nil {
		r.log.Error("aggregation run failed", append(fields, zap.Error(err))...)
		return
	}
	r.log.Info("aggregation run completed", fields...)
}

// LockKeys builds the sorted "<metric>:<date>" keys a run must hold.
func LockKeys(days []time.Time, metrics ...string) []string {
	keys := make([]string, 0, len(days)*len(metrics))
	for _, m := range metrics {
		for _, d := range days {
			keys = append(keys, domain.LockKey(m, d))
		}
	}
	slices.Sort(keys)
	return keys
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	agg "marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/metrics/core/domain"
	"marketing-analytics-service/internal/metrics/core/ports"
)

var (
	ErrInvalidMetricsQuery = errors.New("invalid metrics query")
	ErrInvalidDateRange    = errors.New("invalid date range")
)

// GetMetricsInput carries raw query values. Dates are YYYY-MM-DD and both
// ends are inclusive; empty dates default to the last 30 days.
type GetMetricsInput struct {
	StartDate string
	EndDate   string

	CampaignID *int64
	ChannelID  *int64
	SegmentID  *int64
}

type GetMetricsUseCase struct {
	reader ports.MetricsReaderPort
	now    func() time.Time
}

func NewGetMetricsUseCase(reader ports.MetricsReaderPort) *GetMetricsUseCase {
	return &GetMetricsUseCase{reader: reader, now: time.Now}
}

// WithClock replaces the clock used for default date ranges.
func (uc *GetMetricsUseCase) WithClock(now func() time.Time) *GetMetricsUseCase {
	uc.now = now
	return uc
}

// Execute reads every section concurrently.
func (uc *GetMetricsUseCase) Execute(ctx context.Context, in GetMetricsInput) (*domain.Report, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{Range: f.Range}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.CampaignPerformance, err = uc.reader.CampaignPerformance(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		report.ChannelPerformance, err = uc.reader.ChannelPerformance(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		report.SegmentPerformance, err = uc.reader.SegmentPerformance(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		report.SegmentCLV, err = uc.reader.SegmentCLV(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (uc *GetMetricsUseCase) Campaigns(ctx context.Context, in GetMetricsInput) (domain.DateRange, []agg.CampaignPerformance, error) {
	f, err := uc.filter(in)
	if err != nil {
		return domain.DateRange{}, nil, err
	}
	rows, err := uc.reader.CampaignPerformance(ctx, f)
	return f.Range, rows, err
}

func (uc *GetMetricsUseCase) Channels(ctx context.Context, in GetMetricsInput) (domain.DateRange, []agg.ChannelPerformance, error) {
	f, err := uc.filter(in)
	if err != nil {
		return domain.DateRange{}, nil, err
	}
	rows, err := uc.reader.ChannelPerformance(ctx, f)
	return f.Range, rows, err
}

func (uc *GetMetricsUseCase) Segments(ctx context.Context, in GetMetricsInput) (domain.DateRange, []agg.SegmentPerformance, error) {
	f, err := uc.filter(in)
	if err != nil {
		return domain.DateRange{}, nil, err
	}
	rows, err := uc.reader.SegmentPerformance(ctx, f)
	return f.Range, rows, err
}

func (uc *GetMetricsUseCase) CLV(ctx context.Context, in GetMetricsInput) (domain.DateRange, []agg.SegmentCLV, error) {
	f, err := uc.filter(in)
	if err != nil {
		return domain.DateRange{}, nil, err
	}
	rows, err := uc.reader.SegmentCLV(ctx, f)
	return f.Range, rows, err
}

func (uc *GetMetricsUseCase) filter(in GetMetricsInput) (ports.MetricsFilter, error) {
	for name, id := range map[string]*int64{"campaign_id": in.CampaignID, "channel_id": in.ChannelID, "segment_id": in.SegmentID} {
		if id != nil && *id <= 0 {
			return ports.MetricsFilter{}, fmt.Errorf("%w: %s must be positive", ErrInvalidMetricsQuery, name)
		}
	}

	end := agg.StartOfDay(uc.now())
	if in.EndDate != "" {
		d, err := parseDate("end_date", in.EndDate)
		if err != nil {
			return ports.MetricsFilter{}, err
		}
		end = d
	}

	start := end.AddDate(0, 0, -domain.DefaultRangeDays)
	if in.StartDate != "" {
		d, err := parseDate("start_date", in.StartDate)
		if err != nil {
			return ports.MetricsFilter{}, err
		}
		start = d
	}

	if start.After(end) {
		return ports.MetricsFilter{}, fmt.Errorf("%w: start_date %s is after end_date %s",
			ErrInvalidDateRange, start.Format(agg.DateLayout), end.Format(agg.DateLayout))
	}

	return ports.MetricsFilter{
		Range:      domain.DateRange{Start: start, End: end},
		CampaignID: in.CampaignID,
		ChannelID:  in.ChannelID,
		SegmentID:  in.SegmentID,
	}, nil
}

func parseDate(name, v string) (time.Time, error) {
	d, err := time.ParseInLocation(agg.DateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidMetricsQuery, name)
	}
	return d, nil
}

package ports

import (
	"context"

	agg "marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/metrics/core/domain"
)

// MetricsFilter narrows aggregate reads. Each reader applies only the ids
// that exist on its table.
type MetricsFilter struct {
	Range      domain.DateRange
	CampaignID *int64
	ChannelID  *int64
	SegmentID  *int64
}

type MetricsReaderPort interface {
	CampaignPerformance(ctx context.Context, f MetricsFilter) ([]agg.CampaignPerformance, error)
	ChannelPerformance(ctx context.Context, f MetricsFilter) ([]agg.ChannelPerformance, error)
	SegmentPerformance(ctx context.Context, f MetricsFilter) ([]agg.SegmentPerformance, error)
	SegmentCLV(ctx context.Context, f MetricsFilter) ([]agg.SegmentCLV, error)
}

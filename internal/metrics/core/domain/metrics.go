package domain

import (
	"time"

	agg "marketing-analytics-service/internal/aggregation/core/domain"
)

// DefaultRangeDays is the look-back used when no start date is given.
const DefaultRangeDays = 30

// DateRange is an inclusive range of UTC calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Report holds every metric section for one date range.
type Report struct {
	Range               DateRange
	CampaignPerformance []agg.CampaignPerformance
	ChannelPerformance  []agg.ChannelPerformance
	SegmentPerformance  []agg.SegmentPerformance
	SegmentCLV          []agg.SegmentCLV
}

package ports

import (
	"context"
	"time"

	"marketing-analytics-service/internal/aggregation/core/domain"
	catalog "marketing-analytics-service/internal/catalog/core/domain"
	events "marketing-analytics-service/internal/events/core/domain"
)

// FactReader reads append-only facts. Intervals are half-open [from, to).
type FactReader interface {
	EventsBetween(ctx context.Context, from, to time.Time) ([]events.UserEvent, error)
	ConversionsBetween(ctx context.Context, from, to time.Time) ([]events.Conversion, error)
	SpendBetween(ctx context.Context, from, to time.Time) ([]catalog.SpendEntry, error)
	// UserTotals sums conversions per user before until, and not before
	// since when since is non-nil.
	UserTotals(ctx context.Context, since *time.Time, until time.Time) ([]domain.UserTotal, error)
	Memberships(ctx context.Context) ([]domain.Membership, error)
}

// DimensionReader lists reference data. The catalog repository satisfies it.
type DimensionReader interface {
	ListChannels(ctx context.Context) ([]catalog.Channel, error)
	ListCampaigns(ctx context.Context, channelID *int64) ([]catalog.Campaign, error)
	ListSegments(ctx context.Context) ([]catalog.Segment, error)
}

// AggregateWriter replaces every row of the given date partitions with rows.
// Each call is atomic; days with no rows end up empty.
type AggregateWriter interface {
	ReplaceChannelPerformance(ctx context.Context, days []time.Time, rows []domain.ChannelPerformance) error
	ReplaceCampaignPerformance(ctx context.Context, days []time.Time, rows []domain.CampaignPerformance) error
	ReplaceSegmentPerformance(ctx context.Context, days []time.Time, rows []domain.SegmentPerformance) error
	ReplaceCLV(ctx context.Context, asOf time.Time, users []domain.UserCLV, segments []domain.SegmentCLV) error
}

// AssignmentWriter persists new segment memberships. Existing active
// memberships are left untouched; the return value counts inserted rows.
type AssignmentWriter interface {
	InsertMemberships(ctx context.Context, ms []domain.Membership) (int, error)
}

// Release gives back locks obtained from a WindowLocker.
type Release func()

// WindowLocker serializes runs per (metric, date) key. Keys are acquired in
// the order given; callers sort them.
type WindowLocker interface {
	Lock(ctx context.Context, keys []string) (Release, error)
}

// Archiver snapshots one day of raw facts into cold storage.
type Archiver interface {
	ArchiveDay(ctx context.Context, day time.Time) (domain.ArchiveResult, error)
}

// FactExporter writes one day of facts to an external object store.
type FactExporter interface {
	ExportDay(ctx context.Context, day time.Time, evs []events.UserEvent, convs []events.Conversion) error
}

// StatusRefresher applies date-driven campaign status transitions.
type StatusRefresher interface {
	RefreshCampaignStatuses(ctx context.Context, today time.Time) (int, error)
}

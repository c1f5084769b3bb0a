package ports

import (
	"context"

	"marketing-analytics-service/internal/catalog/core/domain"
)

// CatalogReaderPort reads dimension rows. Get* return (nil, nil) when the
// row does not exist.
type CatalogReaderPort interface {
	ListChannels(ctx context.Context) ([]domain.Channel, error)
	GetChannel(ctx context.Context, id int64) (*domain.Channel, error)
	ListCampaigns(ctx context.Context, channelID *int64) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	ListSegments(ctx context.Context) ([]domain.Segment, error)
	GetSegment(ctx context.Context, id int64) (*domain.Segment, error)
}

type CatalogWriterPort interface {
	// UpsertSpend replaces the spend of (campaign, date) and returns the
	// campaign's recomputed spend_to_date.
	UpsertSpend(ctx context.Context, e domain.SpendEntry) (float64, error)
	UpdateCampaignStatus(ctx context.Context, id int64, status domain.CampaignStatus) error
}

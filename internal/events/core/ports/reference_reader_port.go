package ports

import (
	"context"

	catalog "marketing-analytics-service/internal/catalog/core/domain"
)

// ReferenceReaderPort resolves the dimension rows a fact may reference.
// Get* return (nil, nil) when the row does not exist. The catalog
// repository satisfies it.
type ReferenceReaderPort interface {
	GetChannel(ctx context.Context, id int64) (*catalog.Channel, error)
	GetCampaign(ctx context.Context, id int64) (*catalog.Campaign, error)
}

package ports

import (
	"context"

	"marketing-analytics-service/internal/events/core/domain"
)

type EventRepositoryPort interface {
	// InsertEvent:
	//   created = true,  err = nil  -> new record
	//   created = false, err = nil  -> duplicate (idempotent)
	//   created = false, err != nil -> DB error
	InsertEvent(ctx context.Context, e *domain.UserEvent) (created bool, err error)

	// InsertConversion follows the same contract as InsertEvent.
	InsertConversion(ctx context.Context, c *domain.Conversion) (created bool, err error)
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"marketing-analytics-service/internal/events/core/domain"
	"marketing-analytics-service/internal/events/core/ports"
	"marketing-analytics-service/internal/platform/database"
)

// DB is the write-only slice of the database the ingestion path needs.
type DB = database.Execer

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

const insertEventSQL = `
INSERT INTO raw.user_events (
    user_id,
    event_name,
    event_time,
    campaign_id,
    channel_id,
    referrer,
    device_type,
    browser,
    location,
    properties,
    dedupe_key
) VALUES (
    $1, $2, $3, $4, $5, $6,
    $7, $8, $9, $10, $11
)
ON CONFLICT (dedupe_key) DO NOTHING;
`

const insertConversionSQL = `
INSERT INTO analytics.conversions (
    user_id,
    conversion_type,
    value,
    campaign_id,
    channel_id,
    conversion_time,
    dedupe_key
) VALUES (
    $1, $2, $3, $4, $5, $6, $7
)
ON CONFLICT (dedupe_key) DO NOTHING;
`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.UserEvent) (bool, error) {
	props, err := json.Marshal(e.Properties)
	if err != nil {
		return false, fmt.Errorf("encode properties: %w", err)
	}

	return r.insert(ctx, insertEventSQL,
		e.UserID,
		e.EventName,
		e.EventTime,
		nullableID(e.CampaignID),
		nullableID(e.ChannelID),
		e.Referrer,
		e.DeviceType,
		e.Browser,
		e.Location,
		props,
		e.DedupeKey,
	)
}

func (r *EventRepository) InsertConversion(ctx context.Context, c *domain.Conversion) (bool, error) {
	return r.insert(ctx, insertConversionSQL,
		c.UserID,
		c.ConversionType,
		c.Value,
		nullableID(c.CampaignID),
		nullableID(c.ChannelID),
		c.ConversionTime,
		c.DedupeKey,
	)
}

func (r *EventRepository) insert(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new record
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

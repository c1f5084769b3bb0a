package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	catalog "marketing-analytics-service/internal/catalog/core/domain"
	events "marketing-analytics-service/internal/events/core/domain"
	"marketing-analytics-service/internal/platform/database"
)

// DB is satisfied by *database.SQLDB.
type DB interface {
	database.Querier
	database.TxBeginner
}

// FactReader reads raw events, conversions, spend and segment memberships.
type FactReader struct {
	db database.Querier
}

func NewFactReader(db database.Querier) *FactReader {
	return &FactReader{db: db}
}

var _ ports.FactReader = (*FactReader)(nil)

const selectEventsSQL = `
SELECT id, user_id, event_name, event_time, campaign_id, channel_id,
       referrer, device_type, browser, location, properties
FROM raw.user_events
WHERE event_time >= $1 AND event_time < $2
ORDER BY event_time, id`

const selectConversionsSQL = `
SELECT id, user_id, conversion_type, value, campaign_id, channel_id, conversion_time
FROM analytics.conversions
WHERE conversion_time >= $1 AND conversion_time < $2
ORDER BY conversion_time, id`

const selectSpendSQL = `
SELECT campaign_id, date, amount
FROM analytics.campaign_spend
WHERE date >= $1 AND date < $2
ORDER BY date, campaign_id`

const selectUserTotalsSQL = `
SELECT user_id, COUNT(*), COALESCE(SUM(value), 0)
FROM analytics.conversions
WHERE conversion_time < $1
  AND ($2::timestamptz IS NULL OR conversion_time >= $2)
GROUP BY user_id
ORDER BY user_id`

const selectMembershipsSQL = `
SELECT user_id, segment_id, assigned_at, unassigned_at
FROM analytics.user_segments
ORDER BY user_id, segment_id, assigned_at`

func (r *FactReader) EventsBetween(ctx context.Context, from, to time.Time) ([]events.UserEvent, error) {
	rows, err := r.db.QueryContext(ctx, selectEventsSQL, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.UserEvent
	for rows.Next() {
		var (
			e                 events.UserEvent
			campaign, channel sql.NullInt64
			props             []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.EventName, &e.EventTime, &campaign, &channel,
			&e.Referrer, &e.DeviceType, &e.Browser, &e.Location, &props); err != nil {
			return nil, err
		}
		if len(props) > 0 {
			if err := json.Unmarshal(props, &e.Properties); err != nil {
				return nil, fmt.Errorf("decode properties of event %d: %w", e.ID, err)
			}
		}
		e.EventTime = e.EventTime.UTC()
		e.CampaignID = idPtr(campaign)
		e.ChannelID = idPtr(channel)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *FactReader) ConversionsBetween(ctx context.Context, from, to time.Time) ([]events.Conversion, error) {
	rows, err := r.db.QueryContext(ctx, selectConversionsSQL, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.Conversion
	for rows.Next() {
		var (
			c                 events.Conversion
			campaign, channel sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.ConversionType, &c.Value, &campaign, &channel, &c.ConversionTime); err != nil {
			return nil, err
		}
		c.ConversionTime = c.ConversionTime.UTC()
		c.CampaignID = idPtr(campaign)
		c.ChannelID = idPtr(channel)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *FactReader) SpendBetween(ctx context.Context, from, to time.Time) ([]catalog.SpendEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectSpendSQL, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.SpendEntry
	for rows.Next() {
		var s catalog.SpendEntry
		if err := rows.Scan(&s.CampaignID, &s.Date, &s.Amount); err != nil {
			return nil, err
		}
		s.Date = catalog.TruncateDay(s.Date)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *FactReader) UserTotals(ctx context.Context, since *time.Time, until time.Time) ([]domain.UserTotal, error) {
	var from sql.NullTime
	if since != nil {
		from = sql.NullTime{Time: since.UTC(), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, selectUserTotalsSQL, until.UTC(), from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserTotal
	for rows.Next() {
		var t domain.UserTotal
		if err := rows.Scan(&t.UserID, &t.Conversions, &t.Value); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *FactReader) Memberships(ctx context.Context) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, selectMembershipsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		var (
			m    domain.Membership
			left sql.NullTime
		)
		if err := rows.Scan(&m.UserID, &m.SegmentID, &m.AssignedAt, &left); err != nil {
			return nil, err
		}
		m.AssignedAt = m.AssignedAt.UTC()
		if left.Valid {
			t := left.Time.UTC()
			m.UnassignedAt = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func idPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

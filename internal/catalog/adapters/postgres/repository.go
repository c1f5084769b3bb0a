package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"marketing-analytics-service/internal/catalog/core/domain"
	"marketing-analytics-service/internal/catalog/core/ports"
	"marketing-analytics-service/internal/platform/database"
)

type RowScanner = database.RowScanner

// DB is satisfied by *database.SQLDB.
type DB = database.Querier

type CatalogRepository struct {
	db DB
}

func NewCatalogRepository(db DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var (
	_ ports.CatalogReaderPort = (*CatalogRepository)(nil)
	_ ports.CatalogWriterPort = (*CatalogRepository)(nil)
)

const selectChannelsSQL = `
SELECT id, name, type, cost_model
FROM analytics.channels`

const selectCampaignsSQL = `
SELECT id, name, channel_id, start_date, end_date, budget, spend_to_date, status
FROM analytics.campaigns`

const selectSegmentsSQL = `
SELECT id, name, description, rules
FROM analytics.segments`

// spend_to_date is rebuilt from the other days plus the new amount because
// the CTE's insert is not visible to the sub-select in the same statement.
const upsertSpendSQL = `
WITH upsert AS (
    INSERT INTO analytics.campaign_spend (campaign_id, date, amount)
    VALUES ($1, $2, $3)
    ON CONFLICT (campaign_id, date) DO UPDATE SET amount = EXCLUDED.amount
    RETURNING campaign_id
)
UPDATE analytics.campaigns c
SET spend_to_date = $3 + COALESCE((
        SELECT SUM(s.amount)
        FROM analytics.campaign_spend s
        WHERE s.campaign_id = $1 AND s.date <> $2
    ), 0),
    updated_at = now()
FROM upsert
WHERE c.id = upsert.campaign_id
RETURNING c.spend_to_date`

const updateStatusSQL = `
UPDATE analytics.campaigns
SET status = $2, updated_at = now()
WHERE id = $1`

func (r *CatalogRepository) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return r.queryChannels(ctx, selectChannelsSQL+" ORDER BY id")
}

func (r *CatalogRepository) GetChannel(ctx context.Context, id int64) (*domain.Channel, error) {
	out, err := r.queryChannels(ctx, selectChannelsSQL+" WHERE id = $1", id)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *CatalogRepository) queryChannels(ctx context.Context, query string, args ...any) ([]domain.Channel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Channel
	for rows.Next() {
		var c domain.Channel
		var costModel string
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &costModel); err != nil {
			return nil, err
		}
		c.CostModel = domain.CostModel(costModel)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) ListCampaigns(ctx context.Context, channelID *int64) ([]domain.Campaign, error) {
	if channelID != nil {
		return r.queryCampaigns(ctx, selectCampaignsSQL+" WHERE channel_id = $1 ORDER BY id", *channelID)
	}
	return r.queryCampaigns(ctx, selectCampaignsSQL+" ORDER BY id")
}

func (r *CatalogRepository) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	out, err := r.queryCampaigns(ctx, selectCampaignsSQL+" WHERE id = $1", id)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *CatalogRepository) queryCampaigns(ctx context.Context, query string, args ...any) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		var start time.Time
		var end sql.NullTime
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &c.ChannelID, &start, &end, &c.Budget, &c.SpendToDate, &status); err != nil {
			return nil, err
		}
		c.StartDate = start.UTC()
		if end.Valid {
			e := end.Time.UTC()
			c.EndDate = &e
		}
		c.Status = domain.CampaignStatus(status)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) ListSegments(ctx context.Context) ([]domain.Segment, error) {
	return r.querySegments(ctx, selectSegmentsSQL+" ORDER BY id")
}

func (r *CatalogRepository) GetSegment(ctx context.Context, id int64) (*domain.Segment, error) {
	out, err := r.querySegments(ctx, selectSegmentsSQL+" WHERE id = $1", id)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return &out[0], nil
}

func (r *CatalogRepository) querySegments(ctx context.Context, query string, args ...any) ([]domain.Segment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Segment
	for rows.Next() {
		var s domain.Segment
		var rules []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &rules); err != nil {
			return nil, err
		}
		rule, err := domain.ParseRule(rules)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", s.ID, err)
		}
		s.Rules = rule
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) UpsertSpend(ctx context.Context, e domain.SpendEntry) (float64, error) {
	rows, err := r.db.QueryContext(ctx, upsertSpendSQL, e.CampaignID, e.Date, e.Amount)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var total float64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}

	if err := rows.Err(); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *CatalogRepository) UpdateCampaignStatus(ctx context.Context, id int64, status domain.CampaignStatus) error {
	_, err := r.db.ExecContext(ctx, updateStatusSQL, id, string(status))
	return err
}

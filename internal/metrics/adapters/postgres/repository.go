package postgres

import (
	"context"
	"database/sql"
	"fmt"

	agg "marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/metrics/core/ports"
	"marketing-analytics-service/internal/platform/database"
)

type RowScanner = database.RowScanner

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type MetricsRepository struct {
	db DB
}

func NewMetricsRepository(db DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

var _ ports.MetricsReaderPort = (*MetricsRepository)(nil)

// where builds "<dateCol> BETWEEN $1 AND $2" plus one equality per set id.
func where(dateCol string, f ports.MetricsFilter, ids ...idFilter) (string, []any) {
	clause := dateCol + " BETWEEN $1 AND $2"
	args := []any{f.Range.Start, f.Range.End}
	argIndex := 3

	for _, id := range ids {
		if id.value == nil {
			continue
		}
		clause += fmt.Sprintf(" AND %s = $%d", id.column, argIndex)
		args = append(args, *id.value)
		argIndex++
	}
	return clause, args
}

type idFilter struct {
	column string
	value  *int64
}

func (r *MetricsRepository) CampaignPerformance(ctx context.Context, f ports.MetricsFilter) ([]agg.CampaignPerformance, error) {
	clause, args := where("date", f,
		idFilter{"campaign_id", f.CampaignID},
		idFilter{"channel_id", f.ChannelID})

	query := `
SELECT
    date, campaign_id, campaign_name, channel_id, channel_name, conversions,
    total_conversion_value, avg_conversion_value, spend, cac, roas
FROM analytics.daily_campaign_performance
WHERE ` + clause + `
ORDER BY date, campaign_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []agg.CampaignPerformance{}
	for rows.Next() {
		var (
			p         agg.CampaignPerformance
			cac, roas sql.NullFloat64
		)
		if err := rows.Scan(&p.Date, &p.CampaignID, &p.CampaignName, &p.ChannelID, &p.ChannelName,
			&p.Conversions, &p.TotalConversionValue, &p.AvgConversionValue, &p.Spend, &cac, &roas); err != nil {
			return nil, err
		}
		p.CAC = ratio(cac)
		p.ROAS = ratio(roas)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MetricsRepository) ChannelPerformance(ctx context.Context, f ports.MetricsFilter) ([]agg.ChannelPerformance, error) {
	clause, args := where("date", f, idFilter{"channel_id", f.ChannelID})

	query := `
SELECT
    date, channel_id, channel_name, events, unique_users, clicks, impressions,
    ctr, spend, revenue, roas
FROM analytics.daily_channel_performance
WHERE ` + clause + `
ORDER BY date, channel_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []agg.ChannelPerformance{}
	for rows.Next() {
		var (
			p    agg.ChannelPerformance
			roas sql.NullFloat64
		)
		if err := rows.Scan(&p.Date, &p.ChannelID, &p.ChannelName, &p.Events, &p.UniqueUsers,
			&p.Clicks, &p.Impressions, &p.CTR, &p.Spend, &p.Revenue, &roas); err != nil {
			return nil, err
		}
		p.ROAS = ratio(roas)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MetricsRepository) SegmentPerformance(ctx context.Context, f ports.MetricsFilter) ([]agg.SegmentPerformance, error) {
	clause, args := where("date", f, idFilter{"segment_id", f.SegmentID})

	query := `
SELECT
    date, segment_id, segment_name, conversions, unique_users,
    total_conversion_value, avg_conversion_value
FROM analytics.daily_segment_performance
WHERE ` + clause + `
ORDER BY date, segment_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []agg.SegmentPerformance{}
	for rows.Next() {
		var p agg.SegmentPerformance
		if err := rows.Scan(&p.Date, &p.SegmentID, &p.SegmentName, &p.Conversions, &p.UniqueUsers,
			&p.TotalConversionValue, &p.AvgConversionValue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MetricsRepository) SegmentCLV(ctx context.Context, f ports.MetricsFilter) ([]agg.SegmentCLV, error) {
	clause, args := where("as_of_date", f, idFilter{"segment_id", f.SegmentID})

	query := `
SELECT as_of_date, segment_id, segment_name, users, total_clv, avg_clv
FROM analytics.segment_clv
WHERE ` + clause + `
ORDER BY as_of_date, segment_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []agg.SegmentCLV{}
	for rows.Next() {
		var s agg.SegmentCLV
		if err := rows.Scan(&s.AsOf, &s.SegmentID, &s.SegmentName, &s.Users, &s.TotalCLV, &s.AvgCLV); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func ratio(v sql.NullFloat64) agg.Ratio {
	if !v.Valid {
		return agg.Ratio{}
	}
	return agg.Ratio{Value: v.Float64, Valid: true}
}

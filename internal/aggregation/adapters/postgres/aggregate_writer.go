package postgres

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/lib/pq"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	"marketing-analytics-service/internal/platform/database"
)

// AggregateWriter replaces daily aggregate partitions. Each call is one
// transaction that first takes pg_advisory_xact_lock on every
// (metric, date) key it touches.
type AggregateWriter struct {
	db database.TxBeginner
}

func NewAggregateWriter(db database.TxBeginner) *AggregateWriter {
	return &AggregateWriter{db: db}
}

var _ ports.AggregateWriter = (*AggregateWriter)(nil)

const advisoryLockSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

const insertChannelPerformanceSQL = `
INSERT INTO analytics.daily_channel_performance (
    date, channel_id, channel_name, events, unique_users, clicks, impressions,
    ctr, spend, revenue, roas
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const insertCampaignPerformanceSQL = `
INSERT INTO analytics.daily_campaign_performance (
    date, campaign_id, campaign_name, channel_id, channel_name, conversions,
    total_conversion_value, avg_conversion_value, spend, cac, roas
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const insertSegmentPerformanceSQL = `
INSERT INTO analytics.daily_segment_performance (
    date, segment_id, segment_name, conversions, unique_users,
    total_conversion_value, avg_conversion_value
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

const insertUserCLVSQL = `
INSERT INTO analytics.user_clv (as_of_date, user_id, conversions, clv)
VALUES ($1, $2, $3, $4)`

const insertSegmentCLVSQL = `
INSERT INTO analytics.segment_clv (as_of_date, segment_id, segment_name, users, total_clv, avg_clv)
VALUES ($1, $2, $3, $4, $5, $6)`

// partition is one table's slice of a replace: the dates to clear and the
// rows to insert in their place.
type partition struct {
	table  string
	column string
	insert string
	rows   [][]any
}

func (w *AggregateWriter) ReplaceChannelPerformance(ctx context.Context, days []time.Time, rows []domain.ChannelPerformance) error {
	p := partition{table: "analytics.daily_channel_performance", column: "date", insert: insertChannelPerformanceSQL}
	for _, r := range rows {
		p.rows = append(p.rows, []any{
			dateArg(r.Date), r.ChannelID, r.ChannelName, r.Events, r.UniqueUsers, r.Clicks, r.Impressions,
			r.CTR, r.Spend, r.Revenue, r.ROAS.Ptr(),
		})
	}
	return w.replace(ctx, domain.MetricChannel, days, p)
}

func (w *AggregateWriter) ReplaceCampaignPerformance(ctx context.Context, days []time.Time, rows []domain.CampaignPerformance) error {
	p := partition{table: "analytics.daily_campaign_performance", column: "date", insert: insertCampaignPerformanceSQL}
	for _, r := range rows {
		p.rows = append(p.rows, []any{
			dateArg(r.Date), r.CampaignID, r.CampaignName, r.ChannelID, r.ChannelName, r.Conversions,
			r.TotalConversionValue, r.AvgConversionValue, r.Spend, r.CAC.Ptr(), r.ROAS.Ptr(),
		})
	}
	return w.replace(ctx, domain.MetricCampaign, days, p)
}

func (w *AggregateWriter) ReplaceSegmentPerformance(ctx context.Context, days []time.Time, rows []domain.SegmentPerformance) error {
	p := partition{table: "analytics.daily_segment_performance", column: "date", insert: insertSegmentPerformanceSQL}
	for _, r := range rows {
		p.rows = append(p.rows, []any{
			dateArg(r.Date), r.SegmentID, r.SegmentName, r.Conversions, r.UniqueUsers,
			r.TotalConversionValue, r.AvgConversionValue,
		})
	}
	return w.replace(ctx, domain.MetricSegment, days, p)
}

func (w *AggregateWriter) ReplaceCLV(ctx context.Context, asOf time.Time, users []domain.UserCLV, segments []domain.SegmentCLV) error {
	day := domain.StartOfDay(asOf)

	up := partition{table: "analytics.user_clv", column: "as_of_date", insert: insertUserCLVSQL}
	for _, u := range users {
		up.rows = append(up.rows, []any{dateArg(day), u.UserID, u.Conversions, u.CLV})
	}
	sp := partition{table: "analytics.segment_clv", column: "as_of_date", insert: insertSegmentCLVSQL}
	for _, s := range segments {
		sp.rows = append(sp.rows, []any{dateArg(day), s.SegmentID, s.SegmentName, s.Users, s.TotalCLV, s.AvgCLV})
	}
	return w.replace(ctx, domain.MetricCLV, []time.Time{day}, up, sp)
}

func (w *AggregateWriter) replace(ctx context.Context, metric string, days []time.Time, parts ...partition) error {
	if len(days) == 0 {
		return nil
	}

	keys := make([]string, 0, len(days))
	dates := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, domain.LockKey(metric, d))
		dates = append(dates, dateArg(d))
	}
	slices.Sort(keys)

	return database.WithTx(ctx, w.db, func(tx database.Tx) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, advisoryLockSQL, k); err != nil {
				return fmt.Errorf("advisory lock %s: %w", k, err)
			}
		}
		for _, p := range parts {
			del := fmt.Sprintf("DELETE FROM %s WHERE %s = ANY($1::date[])", p.table, p.column)
			if _, err := tx.ExecContext(ctx, del, pq.Array(dates)); err != nil {
				return fmt.Errorf("clear %s: %w", p.table, err)
			}
			for _, args := range p.rows {
				if _, err := tx.ExecContext(ctx, p.insert, args...); err != nil {
					return fmt.Errorf("insert into %s: %w", p.table, err)
				}
			}
		}
		return nil
	})
}

func dateArg(t time.Time) string {
	return t.UTC().Format(domain.DateLayout)
}

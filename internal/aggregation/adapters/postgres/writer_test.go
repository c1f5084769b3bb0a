package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"marketing-analytics-service/internal/aggregation/core/domain"
)

func TestAggregateWriter_ReplaceCampaignPerformance(t *testing.T) {
	db := &fakeDB{}
	w := NewAggregateWriter(db)
	jan2 := jan1.AddDate(0, 0, 1)

	rows := []domain.CampaignPerformance{
		{Date: jan1, CampaignID: 10, CampaignName: "Spring Sale", ChannelID: 1, ChannelName: "Search",
			Conversions: 10, TotalConversionValue: 2000, AvgConversionValue: 200, Spend: 500,
			CAC: domain.SafeRatio(500, 10), ROAS: domain.SafeRatio(2000, 500)},
		{Date: jan1, CampaignID: 20, CampaignName: "Newsletter", ChannelID: 2, ChannelName: "Email Marketing"},
	}
	if err := w.ReplaceCampaignPerformance(context.Background(), []time.Time{jan2, jan1}, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if db.begun != 1 || db.committed != 1 || db.rolledBack != 0 {
		t.Fatalf("expected one committed tx, got begun=%d committed=%d rolled_back=%d", db.begun, db.committed, db.rolledBack)
	}
	if len(db.execs) != 5 {
		t.Fatalf("expected 2 locks, 1 delete and 2 inserts, got %d statements", len(db.execs))
	}

	if db.execs[0].args[0] != "campaign_performance:2023-01-01" || db.execs[1].args[0] != "campaign_performance:2023-01-02" {
		t.Fatalf("advisory locks not in sorted order: %v, %v", db.execs[0].args, db.execs[1].args)
	}
	if !strings.Contains(db.execs[0].query, "pg_advisory_xact_lock") {
		t.Fatalf("expected advisory lock, got: %s", db.execs[0].query)
	}

	del := db.execs[2]
	if !strings.Contains(del.query, "DELETE FROM analytics.daily_campaign_performance WHERE date = ANY") {
		t.Fatalf("unexpected delete: %s", del.query)
	}
	dates, ok := del.args[0].(*pq.StringArray)
	if !ok || len(*dates) != 2 {
		t.Fatalf("expected date array arg, got %T", del.args[0])
	}

	first := db.execs[3].args
	if first[0] != "2023-01-01" || first[1] != int64(10) {
		t.Fatalf("unexpected insert args: %v", first)
	}
	if cac := first[9].(*float64); cac == nil || *cac != 50 {
		t.Fatalf("expected cac 50, got %v", cac)
	}
	second := db.execs[4].args
	if cac := second[9].(*float64); cac != nil {
		t.Fatalf("expected NULL cac for a campaign without conversions, got %v", *cac)
	}
}

func TestAggregateWriter_EmptyPartitionStillCleared(t *testing.T) {
	db := &fakeDB{}
	if err := NewAggregateWriter(db).ReplaceChannelPerformance(context.Background(), []time.Time{jan1}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.execs) != 2 || !strings.Contains(db.execs[1].query, "DELETE FROM analytics.daily_channel_performance") {
		t.Fatalf("expected lock and delete, got %+v", db.execs)
	}
}

func TestAggregateWriter_NoDaysIsNoop(t *testing.T) {
	db := &fakeDB{}
	if err := NewAggregateWriter(db).ReplaceSegmentPerformance(context.Background(), nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.begun != 0 {
		t.Fatalf("expected no transaction")
	}
}

func TestAggregateWriter_InsertFailureRollsBack(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(query string, args ...any) (int64, error) {
			if strings.Contains(query, "INSERT") {
				return 0, errors.New("unique violation")
			}
			return 1, nil
		},
	}
	rows := []domain.SegmentPerformance{{Date: jan1, SegmentID: 3, SegmentName: "High-Value Customers"}}

	err := NewAggregateWriter(db).ReplaceSegmentPerformance(context.Background(), []time.Time{jan1}, rows)
	if err == nil || !strings.Contains(err.Error(), "insert into analytics.daily_segment_performance") {
		t.Fatalf("expected insert error, got %v", err)
	}
	if db.rolledBack != 1 || db.committed != 0 {
		t.Fatalf("expected rollback, got committed=%d rolled_back=%d", db.committed, db.rolledBack)
	}
}

func TestAggregateWriter_ReplaceCLV(t *testing.T) {
	db := &fakeDB{}
	users := []domain.UserCLV{{AsOf: jan1, UserID: "u1", Conversions: 2, CLV: 1300}}
	segments := []domain.SegmentCLV{{AsOf: jan1, SegmentID: 3, SegmentName: "High-Value Customers", Users: 1, TotalCLV: 1300, AvgCLV: 1300}}

	if err := NewAggregateWriter(db).ReplaceCLV(context.Background(), jan1.Add(15*time.Hour), users, segments); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"pg_advisory_xact_lock",
		"DELETE FROM analytics.user_clv WHERE as_of_date",
		"INSERT INTO analytics.user_clv",
		"DELETE FROM analytics.segment_clv WHERE as_of_date",
		"INSERT INTO analytics.segment_clv",
	}
	if len(db.execs) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(db.execs))
	}
	for i, w := range want {
		if !strings.Contains(db.execs[i].query, w) {
			t.Fatalf("statement %d: expected %q, got %s", i, w, db.execs[i].query)
		}
	}
	if db.execs[0].args[0] != "clv:2023-01-01" {
		t.Fatalf("unexpected lock key: %v", db.execs[0].args[0])
	}
}

func TestMembershipWriter_CountsInsertedRows(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(query string, args ...any) (int64, error) {
			if args[0] == "already-member" {
				return 0, nil
			}
			return 1, nil
		},
	}
	ms := []domain.Membership{
		{UserID: "u1", SegmentID: 4, AssignedAt: jan1},
		{UserID: "already-member", SegmentID: 4, AssignedAt: jan1},
	}

	n, err := NewMembershipWriter(db).InsertMemberships(context.Background(), ms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 inserted, got %d", n)
	}
	if !strings.Contains(db.execs[0].query, "ON CONFLICT (user_id, segment_id) WHERE unassigned_at IS NULL DO NOTHING") {
		t.Fatalf("unexpected insert: %s", db.execs[0].query)
	}
}

func TestArchiver_ArchiveDay(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(query string, args ...any) (int64, error) {
			switch {
			case strings.Contains(query, "FROM raw.user_events WHERE"):
				return 120, nil
			case strings.Contains(query, "FROM analytics.conversions WHERE"):
				return 7, nil
			}
			return 0, nil
		},
	}

	res, err := NewArchiver(db).ArchiveDay(context.Background(), jan1.Add(9*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Events != 120 || res.Conversions != 7 || !res.Day.Equal(jan1) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if db.committed != 1 {
		t.Fatalf("expected committed tx")
	}

	create := db.execs[0].query
	if !strings.Contains(create, `"archive"."daily_events_2023_01_01"`) || !strings.Contains(create, "LIKE raw.user_events") {
		t.Fatalf("unexpected create: %s", create)
	}
	copyEvents := db.execs[2]
	if !copyEvents.args[0].(time.Time).Equal(jan1) || !copyEvents.args[1].(time.Time).Equal(jan1.AddDate(0, 0, 1)) {
		t.Fatalf("expected full-day bounds, got %v", copyEvents.args)
	}
}

func TestArchiveTable(t *testing.T) {
	got := ArchiveTable("daily_conversions_", time.Date(2023, 3, 9, 23, 0, 0, 0, time.UTC))
	if got != `"archive"."daily_conversions_2023_03_09"` {
		t.Fatalf("unexpected table name: %s", got)
	}
}

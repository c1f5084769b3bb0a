package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"marketing-analytics-service/internal/events/core/domain"
)

// fakeResult implements sql.Result for tests.
type fakeResult struct {
	rowsAffected int64
}

func (f *fakeResult) LastInsertId() (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResult) RowsAffected() (int64, error) {
	return f.rowsAffected, nil
}

// fakeDB implements DB interface for tests.
type fakeDB struct {
	ExecFn     func(ctx context.Context, query string, args ...any) (sql.Result, error)
	lastQuery  string
	lastArgs   []any
	execCalled bool
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execCalled = true
	f.lastQuery = query
	f.lastArgs = args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

// ------------------------------------------------------------
// EVENTS
// ------------------------------------------------------------

func TestEventRepository_InsertEvent_Created(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO raw.user_events") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeResult{rowsAffected: 1}, nil
		},
	}

	repo := NewEventRepository(db)

	campaign := int64(10)
	e := &domain.UserEvent{
		UserID:     "user_1",
		EventName:  "ad_click",
		EventTime:  time.Now().UTC(),
		CampaignID: &campaign,
		DeviceType: "Mobile",
		Properties: map[string]any{"sku": "p1"},
		DedupeKey:  "dk",
	}

	created, err := repo.InsertEvent(context.Background(), e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true, got false")
	}
	if len(db.lastArgs) != 11 {
		t.Fatalf("expected 11 args, got %d", len(db.lastArgs))
	}
	if db.lastArgs[3] != int64(10) {
		t.Fatalf("expected campaign_id arg 10, got %v", db.lastArgs[3])
	}
	if db.lastArgs[4] != nil {
		t.Fatalf("expected NULL channel_id, got %v", db.lastArgs[4])
	}
	if string(db.lastArgs[9].([]byte)) != `{"sku":"p1"}` {
		t.Fatalf("unexpected properties: %s", db.lastArgs[9])
	}
}

func TestEventRepository_InsertEvent_Duplicate(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return &fakeResult{rowsAffected: 0}, nil
		},
	}

	created, err := NewEventRepository(db).InsertEvent(context.Background(), &domain.UserEvent{
		UserID:     "user_1",
		EventName:  "page_view",
		EventTime:  time.Now().UTC(),
		Properties: map[string]any{},
		DedupeKey:  "dk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for duplicate")
	}
}

func TestEventRepository_InsertEvent_Error(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return nil, errors.New("db error")
		},
	}

	created, err := NewEventRepository(db).InsertEvent(context.Background(), &domain.UserEvent{
		UserID:    "user_1",
		EventName: "page_view",
		EventTime: time.Now().UTC(),
		DedupeKey: "dk",
	})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if created {
		t.Fatalf("expected created=false on error")
	}
}

// ------------------------------------------------------------
// CONVERSIONS
// ------------------------------------------------------------

func TestEventRepository_InsertConversion(t *testing.T) {
	db := &fakeDB{}
	channel := int64(1)

	created, err := NewEventRepository(db).InsertConversion(context.Background(), &domain.Conversion{
		UserID:         "user_1",
		ConversionType: "purchase",
		Value:          200,
		ChannelID:      &channel,
		ConversionTime: time.Now().UTC(),
		DedupeKey:      "ck",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if !strings.Contains(db.lastQuery, "INSERT INTO analytics.conversions") {
		t.Fatalf("unexpected query: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 7 || db.lastArgs[3] != nil || db.lastArgs[4] != int64(1) {
		t.Fatalf("unexpected args: %v", db.lastArgs)
	}
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	catalog "marketing-analytics-service/internal/catalog/core/domain"
	"marketing-analytics-service/internal/events/core/domain"
	"marketing-analytics-service/internal/events/core/usecase"
)

// Fake repository implementing EventRepositoryPort
type fakeEventRepo struct {
	InsertFn           func(ctx context.Context, e *domain.UserEvent) (bool, error)
	InsertConversionFn func(ctx context.Context, c *domain.Conversion) (bool, error)
}

func (f *fakeEventRepo) InsertEvent(ctx context.Context, e *domain.UserEvent) (bool, error) {
	return f.InsertFn(ctx, e)
}

func (f *fakeEventRepo) InsertConversion(ctx context.Context, c *domain.Conversion) (bool, error) {
	return f.InsertConversionFn(ctx, c)
}

// Fake dimension lookup implementing ReferenceReaderPort
type fakeRefs struct {
	Channels  map[int64]bool
	Campaigns map[int64]bool
	Err       error
	Lookups   int
}

func knownRefs() *fakeRefs {
	return &fakeRefs{
		Channels:  map[int64]bool{1: true, 2: true},
		Campaigns: map[int64]bool{10: true},
	}
}

func (f *fakeRefs) GetChannel(ctx context.Context, id int64) (*catalog.Channel, error) {
	f.Lookups++
	if f.Err != nil {
		return nil, f.Err
	}
	if !f.Channels[id] {
		return nil, nil
	}
	return &catalog.Channel{ID: id}, nil
}

func (f *fakeRefs) GetCampaign(ctx context.Context, id int64) (*catalog.Campaign, error) {
	f.Lookups++
	if f.Err != nil {
		return nil, f.Err
	}
	if !f.Campaigns[id] {
		return nil, nil
	}
	return &catalog.Campaign{ID: id}, nil
}

func ptr(v int64) *int64 { return &v }

// ------------------------------------------------------------
// SUCCESS TEST
// ------------------------------------------------------------
func TestStoreEvent_Success(t *testing.T) {
	called := false

	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.UserEvent) (bool, error) {
			called = true

			if e.EventName != "ad_click" {
				t.Fatalf("expected event_name 'ad_click', got %s", e.EventName)
			}
			if e.ChannelID == nil || *e.ChannelID != 1 {
				t.Fatalf("expected channel 1, got %v", e.ChannelID)
			}
			if e.DeviceType != "Mobile" {
				t.Fatalf("expected device 'Mobile', got %s", e.DeviceType)
			}
			if e.DedupeKey == "" {
				t.Fatalf("expected dedupe key, got empty")
			}
			if e.Properties == nil {
				t.Fatalf("expected non-nil properties")
			}

			return true, nil
		},
	}

	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	input := usecase.StoreEventInput{
		EventName:  "ad_click",
		UserID:     "user_123",
		ChannelID:  ptr(1),
		CampaignID: ptr(10),
		DeviceType: "Mobile",
		Timestamp:  time.Now().Unix(),
	}

	created, err := uc.Execute(context.Background(), input)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true, got false")
	}
	if !called {
		t.Fatalf("repository InsertEvent was not called")
	}
}

// ------------------------------------------------------------
// DEDUPE KEY
// ------------------------------------------------------------
func TestStoreEvent_DedupeKeyDeterministic(t *testing.T) {
	var keys []string
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.UserEvent) (bool, error) {
			keys = append(keys, e.DedupeKey)
			return true, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	ts := time.Now().Add(-time.Hour).Unix()
	in := usecase.StoreEventInput{EventName: "page_view", UserID: "u1", ChannelID: ptr(2), Timestamp: ts}

	for i := 0; i < 2; i++ {
		if _, err := uc.Execute(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	in.UserID = "u2"
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in.EventID = "client-key-1"
	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if keys[0] != keys[1] {
		t.Fatalf("expected identical keys for identical events, got %s and %s", keys[0], keys[1])
	}
	if keys[0] == keys[2] {
		t.Fatalf("expected different keys for different users")
	}
	if keys[3] != "client-key-1" {
		t.Fatalf("expected client key to win, got %s", keys[3])
	}
}

// ------------------------------------------------------------
// INVALID INPUT
// ------------------------------------------------------------
func TestStoreEvent_InvalidInput(t *testing.T) {
	repo := &fakeEventRepo{}
	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	now := time.Now().Unix()
	tests := []usecase.StoreEventInput{
		{EventName: "", UserID: "user_123", Timestamp: now},
		{EventName: "page_view", UserID: "", Timestamp: now},
		{EventName: "page_view", UserID: "user_123", Timestamp: 0},
		{EventName: "page_view", UserID: "user_123", Timestamp: now, CampaignID: ptr(0)},
	}

	for _, in := range tests {
		created, err := uc.Execute(context.Background(), in)

		if created {
			t.Fatalf("expected created=false")
		}
		if !errors.Is(err, usecase.ErrInvalidEvent) {
			t.Fatalf("expected ErrInvalidEvent, got %v", err)
		}
	}
}

// ------------------------------------------------------------
// FUTURE TIMESTAMP
// ------------------------------------------------------------
func TestStoreEvent_FutureTimestamp(t *testing.T) {
	repo := &fakeEventRepo{}
	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	input := usecase.StoreEventInput{
		EventName: "page_view",
		UserID:    "user_123",
		Timestamp: time.Now().Add(5 * time.Minute).Unix(), // future
	}

	created, err := uc.Execute(context.Background(), input)

	if created {
		t.Fatalf("expected created=false")
	}
	if !errors.Is(err, usecase.ErrFutureTime) {
		t.Fatalf("expected ErrFutureTime, got %v", err)
	}
}

// ------------------------------------------------------------
// REPOSITORY ERROR
// ------------------------------------------------------------
func TestStoreEvent_RepositoryError(t *testing.T) {
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.UserEvent) (bool, error) {
			return false, errors.New("db failure")
		},
	}

	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	input := usecase.StoreEventInput{
		EventName: "page_view",
		UserID:    "user_123",
		Timestamp: time.Now().Unix(),
	}

	created, err := uc.Execute(context.Background(), input)

	if created {
		t.Fatalf("expected created=false")
	}
	if err == nil || err.Error() != "db failure" {
		t.Fatalf("expected 'db failure', got %v", err)
	}
}

// ------------------------------------------------------------
// CONVERSIONS
// ------------------------------------------------------------
func TestStoreConversion_Success(t *testing.T) {
	var got *domain.Conversion
	repo := &fakeEventRepo{
		InsertConversionFn: func(ctx context.Context, c *domain.Conversion) (bool, error) {
			got = c
			return true, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	ts := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC).Unix()
	created, err := uc.StoreConversion(context.Background(), usecase.StoreConversionInput{
		UserID:         "user_1",
		ConversionType: "purchase",
		Value:          200,
		CampaignID:     ptr(10),
		Timestamp:      ts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
	if got.Value != 200 || got.ConversionTime.Unix() != ts || got.DedupeKey == "" {
		t.Fatalf("unexpected conversion: %+v", got)
	}
}

func TestStoreConversion_Invalid(t *testing.T) {
	uc := usecase.NewStoreEventUseCase(&fakeEventRepo{}, knownRefs())
	now := time.Now().Unix()

	tests := []struct {
		name string
		in   usecase.StoreConversionInput
		want error
	}{
		{"missing user", usecase.StoreConversionInput{ConversionType: "purchase", Value: 1, Timestamp: now}, usecase.ErrInvalidConversion},
		{"missing type", usecase.StoreConversionInput{UserID: "u", Value: 1, Timestamp: now}, usecase.ErrInvalidConversion},
		{"negative value", usecase.StoreConversionInput{UserID: "u", ConversionType: "purchase", Value: -1, Timestamp: now}, usecase.ErrInvalidConversion},
		{"future", usecase.StoreConversionInput{UserID: "u", ConversionType: "purchase", Value: 1, Timestamp: now + 600}, usecase.ErrFutureTime},
		{"zero channel", usecase.StoreConversionInput{UserID: "u", ConversionType: "purchase", Value: 1, Timestamp: now, ChannelID: ptr(0)}, usecase.ErrInvalidConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.StoreConversion(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// ------------------------------------------------------------
// UNKNOWN REFERENCES
// ------------------------------------------------------------
func TestStoreEvent_UnknownReference(t *testing.T) {
	repo := &fakeEventRepo{
		InsertFn: func(ctx context.Context, e *domain.UserEvent) (bool, error) {
			t.Fatalf("InsertEvent must not be called for an unknown reference")
			return false, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	now := time.Now().Add(-time.Minute).Unix()
	tests := []usecase.StoreEventInput{
		{EventName: "ad_click", UserID: "u1", Timestamp: now, ChannelID: ptr(99)},
		{EventName: "ad_click", UserID: "u1", Timestamp: now, ChannelID: ptr(1), CampaignID: ptr(77)},
	}

	for _, in := range tests {
		created, err := uc.Execute(context.Background(), in)
		if created {
			t.Fatalf("expected created=false")
		}
		if !errors.Is(err, usecase.ErrUnknownReference) {
			t.Fatalf("expected ErrUnknownReference, got %v", err)
		}
	}
}

func TestStoreEvent_ReferenceLookupError(t *testing.T) {
	refs := knownRefs()
	refs.Err = errors.New("catalog unavailable")
	uc := usecase.NewStoreEventUseCase(&fakeEventRepo{}, refs)

	_, err := uc.Execute(context.Background(), usecase.StoreEventInput{
		EventName: "ad_click",
		UserID:    "u1",
		ChannelID: ptr(1),
		Timestamp: time.Now().Unix(),
	})
	if err == nil || errors.Is(err, usecase.ErrUnknownReference) {
		t.Fatalf("expected a lookup failure, got %v", err)
	}
	if !errors.Is(err, refs.Err) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}

func TestStoreConversion_UnknownReference(t *testing.T) {
	repo := &fakeEventRepo{
		InsertConversionFn: func(ctx context.Context, c *domain.Conversion) (bool, error) {
			t.Fatalf("InsertConversion must not be called for an unknown reference")
			return false, nil
		},
	}
	uc := usecase.NewStoreEventUseCase(repo, knownRefs())

	_, err := uc.StoreConversion(context.Background(), usecase.StoreConversionInput{
		UserID:         "u1",
		ConversionType: "purchase",
		Value:          10,
		CampaignID:     ptr(11),
		Timestamp:      time.Now().Add(-time.Minute).Unix(),
	})
	if !errors.Is(err, usecase.ErrUnknownReference) {
		t.Fatalf("expected ErrUnknownReference, got %v", err)
	}
}

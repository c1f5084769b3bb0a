// Package blobarchive exports a day of raw facts as JSON Lines objects to a
// gocloud bucket (file://, s3:// or mem://).
package blobarchive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	events "marketing-analytics-service/internal/events/core/domain"
)

const contentType = "application/x-ndjson"

type Exporter struct {
	bucket *blob.Bucket
	prefix string
	log    *zap.Logger
}

// Open opens the bucket at url. The caller closes the exporter.
func Open(ctx context.Context, url, prefix string, log *zap.Logger) (*Exporter, error) {
	bk, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", url, err)
	}
	return New(bk, prefix, log), nil
}

func New(bucket *blob.Bucket, prefix string, log *zap.Logger) *Exporter {
	return &Exporter{bucket: bucket, prefix: prefix, log: log}
}

var _ ports.FactExporter = (*Exporter)(nil)

func (e *Exporter) Close() error {
	return e.bucket.Close()
}

// Key returns the object key of one fact kind for day.
func (e *Exporter) Key(day time.Time, kind string) string {
	return path.Join(e.prefix, "dt="+day.UTC().Format(domain.DateLayout), kind+".jsonl")
}

// ExportDay overwrites the day's events.jsonl and conversions.jsonl.
func (e *Exporter) ExportDay(ctx context.Context, day time.Time, evs []events.UserEvent, convs []events.Conversion) error {
	day = domain.StartOfDay(day)

	eventLines := make([]any, 0, len(evs))
	for _, ev := range evs {
		eventLines = append(eventLines, eventRecordFrom(ev))
	}
	if err := e.write(ctx, e.Key(day, "events"), eventLines); err != nil {
		return err
	}

	convLines := make([]any, 0, len(convs))
	for _, c := range convs {
		convLines = append(convLines, conversionRecordFrom(c))
	}
	if err := e.write(ctx, e.Key(day, "conversions"), convLines); err != nil {
		return err
	}

	e.log.Info("daily facts exported",
		zap.String("day", day.Format(domain.DateLayout)),
		zap.Int("events", len(evs)),
		zap.Int("conversions", len(convs)))
	return nil
}

func (e *Exporter) write(ctx context.Context, key string, lines []any) error {
	w, err := e.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}

	enc := json.NewEncoder(w)
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			_ = w.Close()
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}

type eventRecord struct {
	ID         int64          `json:"id"`
	UserID     string         `json:"user_id"`
	EventName  string         `json:"event_name"`
	EventTime  time.Time      `json:"event_time"`
	CampaignID *int64         `json:"campaign_id"`
	ChannelID  *int64         `json:"channel_id"`
	Referrer   string         `json:"referrer,omitempty"`
	DeviceType string         `json:"device_type,omitempty"`
	Browser    string         `json:"browser,omitempty"`
	Location   string         `json:"location,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

func eventRecordFrom(e events.UserEvent) eventRecord {
	return eventRecord{
		ID:         e.ID,
		UserID:     e.UserID,
		EventName:  e.EventName,
		EventTime:  e.EventTime.UTC(),
		CampaignID: e.CampaignID,
		ChannelID:  e.ChannelID,
		Referrer:   e.Referrer,
		DeviceType: e.DeviceType,
		Browser:    e.Browser,
		Location:   e.Location,
		Properties: e.Properties,
	}
}

type conversionRecord struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	ConversionType string    `json:"conversion_type"`
	Value          float64   `json:"value"`
	CampaignID     *int64    `json:"campaign_id"`
	ChannelID      *int64    `json:"channel_id"`
	ConversionTime time.Time `json:"conversion_time"`
}

func conversionRecordFrom(c events.Conversion) conversionRecord {
	return conversionRecord{
		ID:             c.ID,
		UserID:         c.UserID,
		ConversionType: c.ConversionType,
		Value:          c.Value,
		CampaignID:     c.CampaignID,
		ChannelID:      c.ChannelID,
		ConversionTime: c.ConversionTime.UTC(),
	}
}

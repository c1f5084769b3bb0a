package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketing-analytics-service/internal/events/core/domain"
	"marketing-analytics-service/internal/events/core/ports"
)

var (
	ErrInvalidEvent      = errors.New("invalid event")
	ErrInvalidConversion = errors.New("invalid conversion")
	ErrFutureTime        = errors.New("timestamp cannot be in the future")
	ErrUnknownReference  = errors.New("unknown campaign or channel")
)

// dedupeNamespace scopes the name-based UUIDs used as dedupe keys.
var dedupeNamespace = uuid.MustParse("6f1c3b0e-54c4-4d0a-9a53-7f0e2b8a1d42")

type StoreEventUseCase struct {
	repo ports.EventRepositoryPort
	refs ports.ReferenceReaderPort
}

func NewStoreEventUseCase(repo ports.EventRepositoryPort, refs ports.ReferenceReaderPort) *StoreEventUseCase {
	return &StoreEventUseCase{repo: repo, refs: refs}
}

type StoreEventInput struct {
	// EventID is an optional client idempotency key. When empty the key is
	// derived from the event content.
	EventID    string
	UserID     string
	EventName  string
	Timestamp  int64
	CampaignID *int64
	ChannelID  *int64
	Referrer   string
	DeviceType string
	Browser    string
	Location   string
	Properties map[string]any
}

func (uc *StoreEventUseCase) Execute(ctx context.Context, in StoreEventInput) (bool, error) {
	if err := validateEvent(in); err != nil {
		return false, err
	}
	if err := uc.checkReferences(ctx, knownRefs{}, in.CampaignID, in.ChannelID); err != nil {
		return false, err
	}
	return uc.storeEvent(ctx, in)
}

func (uc *StoreEventUseCase) storeEvent(ctx context.Context, in StoreEventInput) (bool, error) {
	eventTime := time.Unix(in.Timestamp, 0).UTC()

	if in.Properties == nil {
		in.Properties = map[string]any{}
	}

	e := &domain.UserEvent{
		UserID:     in.UserID,
		EventName:  in.EventName,
		EventTime:  eventTime,
		CampaignID: in.CampaignID,
		ChannelID:  in.ChannelID,
		Referrer:   in.Referrer,
		DeviceType: in.DeviceType,
		Browser:    in.Browser,
		Location:   in.Location,
		Properties: in.Properties,
		DedupeKey:  eventDedupeKey(in, eventTime),
	}

	return uc.repo.InsertEvent(ctx, e)
}

type BulkCreateEventsInput struct {
	Events []StoreEventInput
}

type BulkCreateEventsResult struct {
	Created    int
	Duplicates int
}

// BulkCreateEvents validates the whole batch, references included, before
// writing any of it.
func (uc *StoreEventUseCase) BulkCreateEvents(ctx context.Context, in BulkCreateEventsInput) (BulkCreateEventsResult, error) {
	var res BulkCreateEventsResult

	for i, ev := range in.Events {
		if err := validateEvent(ev); err != nil {
			return res, fmt.Errorf("event %d: %w", i, err)
		}
	}

	known := knownRefs{}
	for i, ev := range in.Events {
		if err := uc.checkReferences(ctx, known, ev.CampaignID, ev.ChannelID); err != nil {
			return res, fmt.Errorf("event %d: %w", i, err)
		}
	}

	for _, ev := range in.Events {
		ok, err := uc.storeEvent(ctx, ev)
		if err != nil {
			return res, err
		}

		if ok {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

type StoreConversionInput struct {
	ConversionID   string
	UserID         string
	ConversionType string
	Value          float64
	Timestamp      int64
	CampaignID     *int64
	ChannelID      *int64
}

func (uc *StoreEventUseCase) StoreConversion(ctx context.Context, in StoreConversionInput) (bool, error) {
	if in.UserID == "" || in.ConversionType == "" || in.Value < 0 || in.Timestamp <= 0 {
		return false, ErrInvalidConversion
	}
	if !positive(in.CampaignID) || !positive(in.ChannelID) {
		return false, fmt.Errorf("%w: references must be positive", ErrInvalidConversion)
	}
	if in.Timestamp > time.Now().Unix() {
		return false, ErrFutureTime
	}
	if err := uc.checkReferences(ctx, knownRefs{}, in.CampaignID, in.ChannelID); err != nil {
		return false, err
	}

	t := time.Unix(in.Timestamp, 0).UTC()
	key := in.ConversionID
	if key == "" {
		key = nameKey("conversion", in.ConversionType, in.UserID, refKey(in.CampaignID), refKey(in.ChannelID),
			fmt.Sprintf("%d", t.Unix()))
	}

	return uc.repo.InsertConversion(ctx, &domain.Conversion{
		UserID:         in.UserID,
		ConversionType: in.ConversionType,
		Value:          in.Value,
		CampaignID:     in.CampaignID,
		ChannelID:      in.ChannelID,
		ConversionTime: t,
		DedupeKey:      key,
	})
}

func eventDedupeKey(in StoreEventInput, t time.Time) string {
	if in.EventID != "" {
		return in.EventID
	}
	// event_name + user_id + channel_id + campaign_id + unix_timestamp
	return nameKey("event", in.EventName, in.UserID, refKey(in.ChannelID), refKey(in.CampaignID),
		fmt.Sprintf("%d", t.Unix()))
}

func nameKey(parts ...string) string {
	return uuid.NewSHA1(dedupeNamespace, []byte(strings.Join(parts, "|"))).String()
}

func refKey(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}

func validateEvent(in StoreEventInput) error {
	if in.EventName == "" || in.UserID == "" || in.Timestamp <= 0 {
		return ErrInvalidEvent
	}
	if !positive(in.CampaignID) || !positive(in.ChannelID) {
		return fmt.Errorf("%w: references must be positive", ErrInvalidEvent)
	}

	if in.Timestamp > time.Now().Unix() {
		return ErrFutureTime
	}

	return nil
}

func positive(id *int64) bool {
	return id == nil || *id > 0
}

// knownRefs remembers references already resolved within one request.
type knownRefs map[string]struct{}

// checkReferences rejects facts naming a campaign or channel that does not
// exist. Rows deleted after ingestion are handled by the aggregator.
func (uc *StoreEventUseCase) checkReferences(ctx context.Context, known knownRefs, campaignID, channelID *int64) error {
	if campaignID != nil {
		key := "campaign:" + refKey(campaignID)
		if _, ok := known[key]; !ok {
			c, err := uc.refs.GetCampaign(ctx, *campaignID)
			if err != nil {
				return fmt.Errorf("lookup campaign %d: %w", *campaignID, err)
			}
			if c == nil {
				return fmt.Errorf("%w: campaign %d", ErrUnknownReference, *campaignID)
			}
			known[key] = struct{}{}
		}
	}
	if channelID != nil {
		key := "channel:" + refKey(channelID)
		if _, ok := known[key]; !ok {
			ch, err := uc.refs.GetChannel(ctx, *channelID)
			if err != nil {
				return fmt.Errorf("lookup channel %d: %w", *channelID, err)
			}
			if ch == nil {
				return fmt.Errorf("%w: channel %d", ErrUnknownReference, *channelID)
			}
			known[key] = struct{}{}
		}
	}
	return nil
}

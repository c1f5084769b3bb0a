package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"marketing-analytics-service/internal/catalog/core/domain"
	"marketing-analytics-service/internal/catalog/core/ports"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidSpend = errors.New("invalid spend")
)

type CatalogUseCase struct {
	reader ports.CatalogReaderPort
	writer ports.CatalogWriterPort
	log    *zap.Logger
}

func NewCatalogUseCase(reader ports.CatalogReaderPort, writer ports.CatalogWriterPort, log *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{reader: reader, writer: writer, log: log}
}

func (uc *CatalogUseCase) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return uc.reader.ListChannels(ctx)
}

func (uc *CatalogUseCase) GetChannel(ctx context.Context, id int64) (*domain.Channel, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	ch, err := uc.reader.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrNotFound
	}
	return ch, nil
}

func (uc *CatalogUseCase) ListCampaigns(ctx context.Context, channelID *int64) ([]domain.Campaign, error) {
	if channelID != nil && *channelID <= 0 {
		return nil, ErrInvalidID
	}
	return uc.reader.ListCampaigns(ctx, channelID)
}

func (uc *CatalogUseCase) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	c, err := uc.reader.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (uc *CatalogUseCase) ListSegments(ctx context.Context) ([]domain.Segment, error) {
	return uc.reader.ListSegments(ctx)
}

func (uc *CatalogUseCase) GetSegment(ctx context.Context, id int64) (*domain.Segment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	s, err := uc.reader.GetSegment(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

type RecordSpendInput struct {
	CampaignID int64
	Date       time.Time
	Amount     float64
}

// RecordSpend sets the spend of one campaign day and returns the new
// spend_to_date. Re-recording the same day replaces the previous amount.
func (uc *CatalogUseCase) RecordSpend(ctx context.Context, in RecordSpendInput) (float64, error) {
	if in.CampaignID <= 0 {
		return 0, ErrInvalidID
	}
	if in.Amount < 0 || in.Date.IsZero() {
		return 0, ErrInvalidSpend
	}

	c, err := uc.reader.GetCampaign(ctx, in.CampaignID)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return 0, ErrNotFound
	}

	total, err := uc.writer.UpsertSpend(ctx, domain.SpendEntry{
		CampaignID: in.CampaignID,
		Date:       domain.TruncateDay(in.Date),
		Amount:     in.Amount,
	})
	if err != nil {
		return 0, err
	}

	if total > c.Budget && c.Budget > 0 {
		uc.log.Warn("campaign spend exceeds budget",
			zap.Int64("campaign_id", c.ID),
			zap.Float64("spend_to_date", total),
			zap.Float64("budget", c.Budget))
	}

	return total, nil
}

// RefreshCampaignStatuses applies date-boundary transitions for the given day
// and returns how many campaigns changed.
func (uc *CatalogUseCase) RefreshCampaignStatuses(ctx context.Context, today time.Time) (int, error) {
	campaigns, err := uc.reader.ListCampaigns(ctx, nil)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, c := range campaigns {
		next := c.StatusOn(today)
		if next == c.Status {
			continue
		}
		if err := uc.writer.UpdateCampaignStatus(ctx, c.ID, next); err != nil {
			return changed, err
		}
		uc.log.Info("campaign status changed",
			zap.Int64("campaign_id", c.ID),
			zap.String("from", string(c.Status)),
			zap.String("to", string(next)))
		changed++
	}

	return changed, nil
}

package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"marketing-analytics-service/internal/catalog/core/domain"
	"marketing-analytics-service/internal/catalog/core/usecase"
)

type CatalogUseCase interface {
	ListChannels(ctx context.Context) ([]domain.Channel, error)
	GetChannel(ctx context.Context, id int64) (*domain.Channel, error)
	ListCampaigns(ctx context.Context, channelID *int64) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	ListSegments(ctx context.Context) ([]domain.Segment, error)
	GetSegment(ctx context.Context, id int64) (*domain.Segment, error)
	RecordSpend(ctx context.Context, in usecase.RecordSpendInput) (float64, error)
}

type CatalogHandler struct {
	uc  CatalogUseCase
	log *zap.Logger
}

func NewCatalogHandler(uc CatalogUseCase, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: log}
}

// Register mounts the catalog routes on r.
func (h *CatalogHandler) Register(r fiber.Router) {
	r.Get("/channels", h.ListChannels)
	r.Get("/channels/:id", h.GetChannel)
	r.Get("/campaigns", h.ListCampaigns)
	r.Get("/campaigns/:id", h.GetCampaign)
	r.Post("/campaigns/:id/spend", h.RecordSpend)
	r.Get("/segments", h.ListSegments)
	r.Get("/segments/:id", h.GetSegment)
}

// ListChannels godoc
// @Summary List marketing channels
// @Tags Catalog
// @Produce json
// @Success 200 {array} ChannelResponse
// @Failure 500 {object} ErrorResponse
// @Router /channels [get]
func (h *CatalogHandler) ListChannels(c *fiber.Ctx) error {
	channels, err := h.uc.ListChannels(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]ChannelResponse, 0, len(channels))
	for _, ch := range channels {
		out = append(out, toChannelResponse(ch))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// GetChannel godoc
// @Summary Get a channel
// @Tags Catalog
// @Produce json
// @Param id path int true "Channel ID"
// @Success 200 {object} ChannelResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /channels/{id} [get]
func (h *CatalogHandler) GetChannel(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	ch, err := h.uc.GetChannel(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(toChannelResponse(*ch))
}

// ListCampaigns godoc
// @Summary List campaigns
// @Tags Catalog
// @Produce json
// @Param channel_id query int false "Channel ID"
// @Success 200 {array} CampaignResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /campaigns [get]
func (h *CatalogHandler) ListCampaigns(c *fiber.Ctx) error {
	var channelID *int64
	if raw := c.Query("channel_id", ""); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return h.fail(c, fmt.Errorf("%w: channel_id must be an integer", usecase.ErrInvalidID))
		}
		channelID = &id
	}

	campaigns, err := h.uc.ListCampaigns(c.UserContext(), channelID)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]CampaignResponse, 0, len(campaigns))
	for _, cp := range campaigns {
		out = append(out, toCampaignResponse(cp))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// GetCampaign godoc
// @Summary Get a campaign
// @Tags Catalog
// @Produce json
// @Param id path int true "Campaign ID"
// @Success 200 {object} CampaignResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /campaigns/{id} [get]
func (h *CatalogHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	cp, err := h.uc.GetCampaign(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(toCampaignResponse(*cp))
}

// RecordSpend godoc
// @Summary Record daily campaign spend
// @Description Sets the spend of one campaign day; re-posting a day replaces it
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Campaign ID"
// @Param request body RecordSpendRequest true "Spend payload"
// @Success 200 {object} RecordSpendResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /campaigns/{id}/spend [post]
func (h *CatalogHandler) RecordSpend(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}

	var req RecordSpendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return h.fail(c, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidSpend))
	}

	total, err := h.uc.RecordSpend(c.UserContext(), usecase.RecordSpendInput{
		CampaignID: id,
		Date:       day,
		Amount:     req.Amount,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(RecordSpendResponse{
		CampaignID:  id,
		Date:        req.Date,
		Amount:      req.Amount,
		SpendToDate: total,
	})
}

// ListSegments godoc
// @Summary List user segments
// @Tags Catalog
// @Produce json
// @Success 200 {array} SegmentResponse
// @Failure 500 {object} ErrorResponse
// @Router /segments [get]
func (h *CatalogHandler) ListSegments(c *fiber.Ctx) error {
	segments, err := h.uc.ListSegments(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]SegmentResponse, 0, len(segments))
	for _, s := range segments {
		resp, err := toSegmentResponse(s)
		if err != nil {
			return h.fail(c, err)
		}
		out = append(out, resp)
	}
	return c.Status(http.StatusOK).JSON(out)
}

// GetSegment godoc
// @Summary Get a user segment
// @Tags Catalog
// @Produce json
// @Param id path int true "Segment ID"
// @Success 200 {object} SegmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /segments/{id} [get]
func (h *CatalogHandler) GetSegment(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.uc.GetSegment(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	resp, err := toSegmentResponse(*s)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", usecase.ErrInvalidID)
	}
	return id, nil
}

func (h *CatalogHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrInvalidID),
		errors.Is(err, usecase.ErrInvalidSpend):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	default:
		h.log.Error("catalog request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

package fiber

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"marketing-analytics-service/internal/events/core/usecase"
)

type StoreEventUseCase interface {
	Execute(ctx context.Context, in usecase.StoreEventInput) (bool, error)
	BulkCreateEvents(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error)
	StoreConversion(ctx context.Context, in usecase.StoreConversionInput) (bool, error)
}

type EventHandler struct {
	storeUC StoreEventUseCase
}

func NewEventHandler(storeUC StoreEventUseCase) *EventHandler {
	return &EventHandler{storeUC: storeUC}
}

func (h *EventHandler) Register(r fiber.Router) {
	r.Post("/events", h.CreateEvent)
	r.Post("/events/bulk", h.BulkCreateEvents)
	r.Post("/conversions", h.CreateConversion)
}

// CreateEvent godoc
// @Summary Ingest a user event
// @Description Stores a single raw event with idempotency handling
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event payload"
// @Success 201 {object} CreateEventResponse
// @Success 200 {object} CreateEventResponse "Duplicate event"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}

	created, err := h.storeUC.Execute(c.UserContext(), req.toInput())
	if err != nil {
		return writeStoreError(c, err)
	}

	return writeStored(c, created)
}

// BulkCreateEvents godoc
// @Summary Bulk ingest events
// @Description Validates the whole batch, then stores events individually
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param request body BulkCreateEventsRequest true "Bulk event payload"
// @Success 201 {object} BulkCreateEventsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /events/bulk [post]
func (h *EventHandler) BulkCreateEvents(c *fiber.Ctx) error {
	var req BulkCreateEventsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}

	if len(req.Events) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "events_list_required"})
	}

	inputs := make([]usecase.StoreEventInput, len(req.Events))
	for i, e := range req.Events {
		inputs[i] = e.toInput()
	}

	result, err := h.storeUC.BulkCreateEvents(
		c.UserContext(),
		usecase.BulkCreateEventsInput{Events: inputs},
	)
	if err != nil {
		return writeStoreError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(BulkCreateEventsResponse{
		Created:    result.Created,
		Duplicates: result.Duplicates,
	})
}

// CreateConversion godoc
// @Summary Ingest a conversion
// @Description Stores a conversion with idempotency handling
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param request body CreateConversionRequest true "Conversion payload"
// @Success 201 {object} CreateEventResponse
// @Success 200 {object} CreateEventResponse "Duplicate conversion"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /conversions [post]
func (h *EventHandler) CreateConversion(c *fiber.Ctx) error {
	var req CreateConversionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid_json"})
	}

	created, err := h.storeUC.StoreConversion(c.UserContext(), usecase.StoreConversionInput{
		ConversionID:   req.ConversionID,
		UserID:         req.UserID,
		ConversionType: req.ConversionType,
		Value:          req.Value,
		Timestamp:      req.Timestamp,
		CampaignID:     req.CampaignID,
		ChannelID:      req.ChannelID,
	})
	if err != nil {
		return writeStoreError(c, err)
	}

	return writeStored(c, created)
}

func writeStored(c *fiber.Ctx, created bool) error {
	if !created {
		return c.Status(http.StatusOK).JSON(CreateEventResponse{Status: "duplicate"})
	}
	return c.Status(http.StatusCreated).JSON(CreateEventResponse{Status: "created"})
}

func writeStoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidEvent),
		errors.Is(err, usecase.ErrInvalidConversion),
		errors.Is(err, usecase.ErrFutureTime):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_event",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrUnknownReference):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "unknown_reference",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

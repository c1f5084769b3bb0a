package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	agg "marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/metrics/core/domain"
	"marketing-analytics-service/internal/metrics/core/usecase"
)

type GetMetricsUseCase interface {
	Execute(ctx context.Context, in usecase.GetMetricsInput) (*domain.Report, error)
	Campaigns(ctx context.Context, in usecase.GetMetricsInput) (domain.DateRange, []agg.CampaignPerformance, error)
	Channels(ctx context.Context, in usecase.GetMetricsInput) (domain.DateRange, []agg.ChannelPerformance, error)
	Segments(ctx context.Context, in usecase.GetMetricsInput) (domain.DateRange, []agg.SegmentPerformance, error)
	CLV(ctx context.Context, in usecase.GetMetricsInput) (domain.DateRange, []agg.SegmentCLV, error)
}

type MetricsHandler struct {
	uc  GetMetricsUseCase
	log *zap.Logger
}

func NewMetricsHandler(uc GetMetricsUseCase, log *zap.Logger) *MetricsHandler {
	return &MetricsHandler{uc: uc, log: log}
}

// Register mounts the read API on r.
func (h *MetricsHandler) Register(r fiber.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/campaigns", h.GetCampaignMetrics)
	r.Get("/metrics/channels", h.GetChannelMetrics)
	r.Get("/metrics/segments", h.GetSegmentMetrics)
	r.Get("/metrics/clv", h.GetCLVMetrics)
}

// GetMetrics godoc
// @Summary Query all aggregated metrics
// @Description Campaign, channel and segment performance plus segment CLV for an inclusive date range (default: last 30 days)
// @Tags Metrics
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param campaign_id query int false "Campaign ID"
// @Param channel_id query int false "Channel ID"
// @Param segment_id query int false "Segment ID"
// @Success 200 {object} MetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics [get]
func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	in, err := parseInput(c, "campaign_id", "channel_id", "segment_id")
	if err != nil {
		return h.fail(c, err)
	}

	res, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}

	start, end := rangeStrings(res.Range)
	return c.Status(http.StatusOK).JSON(MetricsResponse{
		StartDate:           start,
		EndDate:             end,
		CampaignPerformance: toCampaignResponses(res.CampaignPerformance),
		ChannelPerformance:  toChannelResponses(res.ChannelPerformance),
		SegmentPerformance:  toSegmentResponses(res.SegmentPerformance),
		SegmentCLV:          toCLVResponses(res.SegmentCLV),
	})
}

// GetCampaignMetrics godoc
// @Summary Query daily campaign performance
// @Tags Metrics
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param campaign_id query int false "Campaign ID"
// @Param channel_id query int false "Channel ID"
// @Success 200 {object} CampaignMetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/campaigns [get]
func (h *MetricsHandler) GetCampaignMetrics(c *fiber.Ctx) error {
	in, err := parseInput(c, "campaign_id", "channel_id")
	if err != nil {
		return h.fail(c, err)
	}
	rng, rows, err := h.uc.Campaigns(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	start, end := rangeStrings(rng)
	return c.Status(http.StatusOK).JSON(CampaignMetricsResponse{
		StartDate:           start,
		EndDate:             end,
		CampaignPerformance: toCampaignResponses(rows),
	})
}

// GetChannelMetrics godoc
// @Summary Query daily channel performance
// @Tags Metrics
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param channel_id query int false "Channel ID"
// @Success 200 {object} ChannelMetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/channels [get]
func (h *MetricsHandler) GetChannelMetrics(c *fiber.Ctx) error {
	in, err := parseInput(c, "channel_id")
	if err != nil {
		return h.fail(c, err)
	}
	rng, rows, err := h.uc.Channels(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	start, end := rangeStrings(rng)
	return c.Status(http.StatusOK).JSON(ChannelMetricsResponse{
		StartDate:          start,
		EndDate:            end,
		ChannelPerformance: toChannelResponses(rows),
	})
}

// GetSegmentMetrics godoc
// @Summary Query daily segment performance
// @Tags Metrics
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param segment_id query int false "Segment ID"
// @Success 200 {object} SegmentMetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/segments [get]
func (h *MetricsHandler) GetSegmentMetrics(c *fiber.Ctx) error {
	in, err := parseInput(c, "segment_id")
	if err != nil {
		return h.fail(c, err)
	}
	rng, rows, err := h.uc.Segments(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	start, end := rangeStrings(rng)
	return c.Status(http.StatusOK).JSON(SegmentMetricsResponse{
		StartDate:          start,
		EndDate:            end,
		SegmentPerformance: toSegmentResponses(rows),
	})
}

// GetCLVMetrics godoc
// @Summary Query segment customer lifetime value
// @Tags Metrics
// @Produce json
// @Param start_date query string false "Start as-of date (YYYY-MM-DD)"
// @Param end_date query string false "End as-of date (YYYY-MM-DD)"
// @Param segment_id query int false "Segment ID"
// @Success 200 {object} CLVMetricsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/clv [get]
func (h *MetricsHandler) GetCLVMetrics(c *fiber.Ctx) error {
	in, err := parseInput(c, "segment_id")
	if err != nil {
		return h.fail(c, err)
	}
	rng, rows, err := h.uc.CLV(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	start, end := rangeStrings(rng)
	return c.Status(http.StatusOK).JSON(CLVMetricsResponse{
		StartDate:  start,
		EndDate:    end,
		SegmentCLV: toCLVResponses(rows),
	})
}

// parseInput reads the date range and the id filters the endpoint accepts.
// Other id parameters are ignored.
func parseInput(c *fiber.Ctx, ids ...string) (usecase.GetMetricsInput, error) {
	in := usecase.GetMetricsInput{
		StartDate: c.Query("start_date", ""),
		EndDate:   c.Query("end_date", ""),
	}
	for _, name := range ids {
		raw := c.Query(name, "")
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return in, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidMetricsQuery, name)
		}
		switch name {
		case "campaign_id":
			in.CampaignID = &v
		case "channel_id":
			in.ChannelID = &v
		case "segment_id":
			in.SegmentID = &v
		}
	}
	return in, nil
}

func (h *MetricsHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidMetricsQuery),
		errors.Is(err, usecase.ErrInvalidDateRange):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	default:
		h.log.Error("metrics query failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

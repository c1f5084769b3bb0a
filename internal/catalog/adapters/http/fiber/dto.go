package fiber

import (
	"encoding/json"
	"time"

	"marketing-analytics-service/internal/catalog/core/domain"
)

type ChannelResponse struct {
	ID        int64  `json:"id" example:"1"`
	Name      string `json:"name" example:"Search"`
	Type      string `json:"type" example:"Search"`
	CostModel string `json:"cost_model" example:"CPC"`
}

type CampaignResponse struct {
	ID          int64   `json:"id" example:"10"`
	Name        string  `json:"name" example:"Spring Sale"`
	ChannelID   int64   `json:"channel_id" example:"1"`
	StartDate   string  `json:"start_date" example:"2023-01-01"`
	EndDate     *string `json:"end_date" example:"2023-01-31"`
	Budget      float64 `json:"budget" example:"5000"`
	SpendToDate float64 `json:"spend_to_date" example:"500"`
	Status      string  `json:"status" example:"active"`
}

type SegmentResponse struct {
	ID          int64           `json:"id" example:"3"`
	Name        string          `json:"name" example:"High-Value Customers"`
	Description string          `json:"description"`
	Rules       json.RawMessage `json:"rules" swaggertype:"object"`
}

// RecordSpendRequest carries one day of campaign spend.
// @Description Campaign spend DTO
type RecordSpendRequest struct {
	Date   string  `json:"date" example:"2023-01-01"`
	Amount float64 `json:"amount" example:"500"`
}

type RecordSpendResponse struct {
	CampaignID  int64   `json:"campaign_id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	SpendToDate float64 `json:"spend_to_date"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message" example:"campaign 42 not found"`
}

const dateLayout = "2006-01-02"

func toChannelResponse(c domain.Channel) ChannelResponse {
	return ChannelResponse{ID: c.ID, Name: c.Name, Type: c.Type, CostModel: string(c.CostModel)}
}

func toCampaignResponse(c domain.Campaign) CampaignResponse {
	resp := CampaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		ChannelID:   c.ChannelID,
		StartDate:   formatDate(c.StartDate),
		Budget:      c.Budget,
		SpendToDate: c.SpendToDate,
		Status:      string(c.Status),
	}
	if c.EndDate != nil {
		end := formatDate(*c.EndDate)
		resp.EndDate = &end
	}
	return resp
}

func toSegmentResponse(s domain.Segment) (SegmentResponse, error) {
	rules, err := domain.MarshalRule(s.Rules)
	if err != nil {
		return SegmentResponse{}, err
	}
	return SegmentResponse{ID: s.ID, Name: s.Name, Description: s.Description, Rules: rules}, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

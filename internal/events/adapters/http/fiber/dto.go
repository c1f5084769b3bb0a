package fiber

import "marketing-analytics-service/internal/events/core/usecase"

// CreateEventRequest represents event ingestion payload
// @Description Raw user event DTO
type CreateEventRequest struct {
	EventID    string         `json:"event_id,omitempty"`
	UserID     string         `json:"user_id" example:"user_123"`
	EventName  string         `json:"event_name" example:"ad_click"`
	Timestamp  int64          `json:"timestamp" example:"1672574400"`
	CampaignID *int64         `json:"campaign_id,omitempty" example:"10"`
	ChannelID  *int64         `json:"channel_id,omitempty" example:"1"`
	Referrer   string         `json:"referrer,omitempty"`
	DeviceType string         `json:"device_type,omitempty" example:"Mobile"`
	Browser    string         `json:"browser,omitempty" example:"Chrome"`
	Location   string         `json:"location,omitempty" example:"Germany"`
	Properties map[string]any `json:"properties,omitempty"`
}

func (r CreateEventRequest) toInput() usecase.StoreEventInput {
	return usecase.StoreEventInput{
		EventID:    r.EventID,
		UserID:     r.UserID,
		EventName:  r.EventName,
		Timestamp:  r.Timestamp,
		CampaignID: r.CampaignID,
		ChannelID:  r.ChannelID,
		Referrer:   r.Referrer,
		DeviceType: r.DeviceType,
		Browser:    r.Browser,
		Location:   r.Location,
		Properties: r.Properties,
	}
}

type CreateEventResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type BulkCreateEventsRequest struct {
	Events []CreateEventRequest `json:"events"`
}

type BulkCreateEventsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

// CreateConversionRequest represents conversion ingestion payload
// @Description Conversion DTO
type CreateConversionRequest struct {
	ConversionID   string  `json:"conversion_id,omitempty"`
	UserID         string  `json:"user_id" example:"user_123"`
	ConversionType string  `json:"conversion_type" example:"purchase"`
	Value          float64 `json:"value" example:"200"`
	Timestamp      int64   `json:"timestamp" example:"1672574400"`
	CampaignID     *int64  `json:"campaign_id,omitempty" example:"10"`
	ChannelID      *int64  `json:"channel_id,omitempty" example:"1"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message" example:"Event payload is invalid"`
}

package fiber

import (
	agg "marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/metrics/core/domain"
)

// Nullable ratios (cac, roas) serialize as null when their denominator was 0.

type CampaignPerformanceResponse struct {
	Date                 string   `json:"date" example:"2023-01-01"`
	CampaignID           int64    `json:"campaign_id"`
	CampaignName         string   `json:"campaign_name"`
	ChannelID            int64    `json:"channel_id"`
	ChannelName          string   `json:"channel_name"`
	Conversions          int64    `json:"conversions"`
	TotalConversionValue float64  `json:"total_conversion_value"`
	AvgConversionValue   float64  `json:"avg_conversion_value"`
	Spend                float64  `json:"spend"`
	CAC                  *float64 `json:"cac"`
	ROAS                 *float64 `json:"roas"`
}

type ChannelPerformanceResponse struct {
	Date        string   `json:"date" example:"2023-01-01"`
	ChannelID   int64    `json:"channel_id"`
	ChannelName string   `json:"channel_name"`
	Events      int64    `json:"events"`
	UniqueUsers int64    `json:"unique_users"`
	Clicks      int64    `json:"clicks"`
	Impressions int64    `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Spend       float64  `json:"spend"`
	Revenue     float64  `json:"revenue"`
	ROAS        *float64 `json:"roas"`
}

type SegmentPerformanceResponse struct {
	Date                 string  `json:"date" example:"2023-01-01"`
	SegmentID            int64   `json:"segment_id"`
	SegmentName          string  `json:"segment_name"`
	Conversions          float64 `json:"conversions"`
	UniqueUsers          int64   `json:"unique_users"`
	TotalConversionValue float64 `json:"total_conversion_value"`
	AvgConversionValue   float64 `json:"avg_conversion_value"`
}

type SegmentCLVResponse struct {
	AsOfDate    string  `json:"as_of_date" example:"2023-01-01"`
	SegmentID   int64   `json:"segment_id"`
	SegmentName string  `json:"segment_name"`
	Users       int64   `json:"users"`
	TotalCLV    float64 `json:"total_clv"`
	AvgCLV      float64 `json:"avg_clv"`
}

type MetricsResponse struct {
	StartDate           string                        `json:"start_date"`
	EndDate             string                        `json:"end_date"`
	CampaignPerformance []CampaignPerformanceResponse `json:"campaign_performance"`
	ChannelPerformance  []ChannelPerformanceResponse  `json:"channel_performance"`
	SegmentPerformance  []SegmentPerformanceResponse  `json:"segment_performance"`
	SegmentCLV          []SegmentCLVResponse          `json:"segment_clv"`
}

type CampaignMetricsResponse struct {
	StartDate           string                        `json:"start_date"`
	EndDate             string                        `json:"end_date"`
	CampaignPerformance []CampaignPerformanceResponse `json:"campaign_performance"`
}

type ChannelMetricsResponse struct {
	StartDate          string                       `json:"start_date"`
	EndDate            string                       `json:"end_date"`
	ChannelPerformance []ChannelPerformanceResponse `json:"channel_performance"`
}

type SegmentMetricsResponse struct {
	StartDate          string                       `json:"start_date"`
	EndDate            string                       `json:"end_date"`
	SegmentPerformance []SegmentPerformanceResponse `json:"segment_performance"`
}

type CLVMetricsResponse struct {
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	SegmentCLV []SegmentCLVResponse `json:"segment_clv"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"start_date must be YYYY-MM-DD"`
}

func rangeStrings(r domain.DateRange) (string, string) {
	return r.Start.Format(agg.DateLayout), r.End.Format(agg.DateLayout)
}

func toCampaignResponses(rows []agg.CampaignPerformance) []CampaignPerformanceResponse {
	out := make([]CampaignPerformanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, CampaignPerformanceResponse{
			Date:                 r.Date.Format(agg.DateLayout),
			CampaignID:           r.CampaignID,
			CampaignName:         r.CampaignName,
			ChannelID:            r.ChannelID,
			ChannelName:          r.ChannelName,
			Conversions:          r.Conversions,
			TotalConversionValue: r.TotalConversionValue,
			AvgConversionValue:   r.AvgConversionValue,
			Spend:                r.Spend,
			CAC:                  r.CAC.Ptr(),
			ROAS:                 r.ROAS.Ptr(),
		})
	}
	return out
}

func toChannelResponses(rows []agg.ChannelPerformance) []ChannelPerformanceResponse {
	out := make([]ChannelPerformanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ChannelPerformanceResponse{
			Date:        r.Date.Format(agg.DateLayout),
			ChannelID:   r.ChannelID,
			ChannelName: r.ChannelName,
			Events:      r.Events,
			UniqueUsers: r.UniqueUsers,
			Clicks:      r.Clicks,
			Impressions: r.Impressions,
			CTR:         r.CTR,
			Spend:       r.Spend,
			Revenue:     r.Revenue,
			ROAS:        r.ROAS.Ptr(),
		})
	}
	return out
}

func toSegmentResponses(rows []agg.SegmentPerformance) []SegmentPerformanceResponse {
	out := make([]SegmentPerformanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, SegmentPerformanceResponse{
			Date:                 r.Date.Format(agg.DateLayout),
			SegmentID:            r.SegmentID,
			SegmentName:          r.SegmentName,
			Conversions:          r.Conversions,
			UniqueUsers:          r.UniqueUsers,
			TotalConversionValue: r.TotalConversionValue,
			AvgConversionValue:   r.AvgConversionValue,
		})
	}
	return out
}

func toCLVResponses(rows []agg.SegmentCLV) []SegmentCLVResponse {
	out := make([]SegmentCLVResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, SegmentCLVResponse{
			AsOfDate:    r.AsOf.Format(agg.DateLayout),
			SegmentID:   r.SegmentID,
			SegmentName: r.SegmentName,
			Users:       r.Users,
			TotalCLV:    r.TotalCLV,
			AvgCLV:      r.AvgCLV,
		})
	}
	return out
}

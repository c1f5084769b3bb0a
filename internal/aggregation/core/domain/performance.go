package domain

import "time"

type ChannelPerformance struct {
	Date        time.Time
	ChannelID   int64
	ChannelName string
	Events      int64
	UniqueUsers int64
	Clicks      int64
	Impressions int64
	CTR         float64
	Spend       float64
	Revenue     float64
	ROAS        Ratio
}

type CampaignPerformance struct {
	Date                 time.Time
	CampaignID           int64
	CampaignName         string
	ChannelID            int64
	ChannelName          string
	Conversions          int64
	TotalConversionValue float64
	AvgConversionValue   float64
	Spend                float64
	CAC                  Ratio
	ROAS                 Ratio
}

// SegmentPerformance.Conversions is fractional under split attribution.
type SegmentPerformance struct {
	Date                 time.Time
	SegmentID            int64
	SegmentName          string
	Conversions          float64
	UniqueUsers          int64
	TotalConversionValue float64
	AvgConversionValue   float64
}

type UserCLV struct {
	AsOf        time.Time
	UserID      string
	Conversions int64
	CLV         float64
}

type SegmentCLV struct {
	AsOf        time.Time
	SegmentID   int64
	SegmentName string
	Users       int64
	TotalCLV    float64
	AvgCLV      float64
}

// UserTotal is a user's conversion count and value over some interval.
type UserTotal struct {
	UserID      string
	Conversions int64
	Value       float64
}

package domain

import "time"

// UserEvent is one raw interaction. Campaign and channel references are
// optional; unattributed traffic carries neither.
type UserEvent struct {
	ID         int64
	UserID     string
	EventName  string
	EventTime  time.Time
	CampaignID *int64
	ChannelID  *int64
	Referrer   string
	DeviceType string
	Browser    string
	Location   string
	Properties map[string]any
	DedupeKey  string
}

type Conversion struct {
	ID             int64
	UserID         string
	ConversionType string
	Value          float64
	CampaignID     *int64
	ChannelID      *int64
	ConversionTime time.Time
	DedupeKey      string
}

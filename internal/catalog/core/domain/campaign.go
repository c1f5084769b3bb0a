package domain

import "time"

type CampaignStatus string

const (
	CampaignActive CampaignStatus = "active"
	CampaignPaused CampaignStatus = "paused"
	CampaignEnded  CampaignStatus = "ended"
)

type Campaign struct {
	ID          int64
	Name        string
	ChannelID   int64
	StartDate   time.Time
	EndDate     *time.Time // open-ended when nil
	Budget      float64
	SpendToDate float64
	Status      CampaignStatus
}

// StatusOn returns the status the campaign should have on the given day.
// Only the ended transition is date driven; pausing is a manual action.
func (c Campaign) StatusOn(day time.Time) CampaignStatus {
	if c.Status == CampaignEnded {
		return CampaignEnded
	}
	if c.EndDate != nil && TruncateDay(*c.EndDate).Before(TruncateDay(day)) {
		return CampaignEnded
	}
	return c.Status
}

// SpendEntry is one day of spend for a campaign.
type SpendEntry struct {
	CampaignID int64
	Date       time.Time
	Amount     float64
}

// TruncateDay returns the UTC midnight of t.
func TruncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package domain

import "time"

const (
	MetricChannel  = "channel_performance"
	MetricCampaign = "campaign_performance"
	MetricSegment  = "segment_performance"
	MetricCLV      = "clv"
)

// LockKey names the single-writer key of one metric's date partition.
func LockKey(metric string, day time.Time) string {
	return metric + ":" + day.UTC().Format(DateLayout)
}

// Exclusions counts facts dropped for referencing missing dimension rows.
type Exclusions struct {
	Events      int
	Conversions int
}

type MetricResult struct {
	Metric   string
	Rows     int
	Excluded Exclusions
}

// RunReport summarizes one aggregation run.
type RunReport struct {
	RunID            string
	Trigger          string
	Window           Window
	Days             []time.Time
	Metrics          []MetricResult
	SegmentsAssigned int
	StatusChanges    int
	Archived         bool
	StartedAt        time.Time
	Duration         time.Duration
}

// Excluded returns the number of distinct facts dropped by the run. Every
// metric applies the same reference filter, so per-metric counts agree for
// the facts they read.
func (r *RunReport) Excluded() Exclusions {
	var total Exclusions
	for _, m := range r.Metrics {
		total.Events = max(total.Events, m.Excluded.Events)
		total.Conversions = max(total.Conversions, m.Excluded.Conversions)
	}
	return total
}

func (r *RunReport) Rows() int {
	n := 0
	for _, m := range r.Metrics {
		n += m.Rows
	}
	return n
}

// ArchiveResult reports what a daily snapshot copied.
type ArchiveResult struct {
	Day         time.Time
	Events      int64
	Conversions int64
	Location    string
}

package domain

import "fmt"

// Attribution decides how a conversion by a user in several segments is
// credited to those segments.
type Attribution string

const (
	// AttributionFull credits the whole conversion to every segment.
	AttributionFull Attribution = "full"
	// AttributionSplit divides the conversion evenly across segments.
	AttributionSplit Attribution = "split"
)

func ParseAttribution(s string) (Attribution, error) {
	switch Attribution(s) {
	case AttributionFull, "":
		return AttributionFull, nil
	case AttributionSplit:
		return AttributionSplit, nil
	default:
		return "", fmt.Errorf("unknown segment attribution %q", s)
	}
}

// Weight is the share of one conversion credited to each of n segments.
func (a Attribution) Weight(n int) float64 {
	if n == 0 {
		return 0
	}
	if a == AttributionSplit {
		return 1 / float64(n)
	}
	return 1
}

// Policy holds the product decisions the aggregator is parameterized by.
type Policy struct {
	SegmentAttribution Attribution
	// CLVHorizonDays bounds CLV to the trailing N days; 0 means lifetime.
	CLVHorizonDays  int
	ClickEvent      string
	ImpressionEvent string
}

func DefaultPolicy() Policy {
	return Policy{
		SegmentAttribution: AttributionFull,
		ClickEvent:         "ad_click",
		ImpressionEvent:    "ad_impression",
	}
}

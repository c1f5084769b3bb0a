package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWindow = errors.New("invalid window")

const DateLayout = "2006-01-02"

// Window is the half-open interval [Start, End) a run aggregates.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow validates and normalizes a window to UTC.
func NewWindow(start, end time.Time) (Window, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return Window{}, fmt.Errorf("%w: end %s must be after start %s",
			ErrInvalidWindow, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

func (w Window) Validate() error {
	_, err := NewWindow(w.Start, w.End)
	return err
}

// Days lists the UTC date partitions the window touches, in order.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := StartOfDay(w.Start); d.Before(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Partitions widens the window to whole UTC days.
func (w Window) Partitions() Window {
	days := w.Days()
	if len(days) == 0 {
		return w
	}
	return Window{Start: days[0], End: days[len(days)-1].AddDate(0, 0, 1)}
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// DayWindow is the full UTC day containing t.
func DayWindow(t time.Time) Window {
	d := StartOfDay(t)
	return Window{Start: d, End: d.AddDate(0, 0, 1)}
}

// LastFullHour is the most recent complete hour before now.
func LastFullHour(now time.Time) Window {
	end := now.UTC().Truncate(time.Hour)
	return Window{Start: end.Add(-time.Hour), End: end}
}

// PreviousDay is the full UTC day before the one containing now.
func PreviousDay(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, -1)
}

func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

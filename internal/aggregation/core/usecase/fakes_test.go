package usecase_test

import (
	"context"
	"sync"
	"time"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	catalog "marketing-analytics-service/internal/catalog/core/domain"
	events "marketing-analytics-service/internal/events/core/domain"
)

// ------------------------------------------------------------
// fake fact store
// ------------------------------------------------------------

type fakeFacts struct {
	mu          sync.Mutex
	events      []events.UserEvent
	conversions []events.Conversion
	spend       []catalog.SpendEntry
	memberships []domain.Membership
	err         error
	calls       int
}

func between(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (f *fakeFacts) touch() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeFacts) EventsBetween(ctx context.Context, from, to time.Time) ([]events.UserEvent, error) {
	if err := f.touch(); err != nil {
		return nil, err
	}
	var out []events.UserEvent
	for _, e := range f.events {
		if between(e.EventTime, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeFacts) ConversionsBetween(ctx context.Context, from, to time.Time) ([]events.Conversion, error) {
	if err := f.touch(); err != nil {
		return nil, err
	}
	var out []events.Conversion
	for _, c := range f.conversions {
		if between(c.ConversionTime, from, to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeFacts) SpendBetween(ctx context.Context, from, to time.Time) ([]catalog.SpendEntry, error) {
	if err := f.touch(); err != nil {
		return nil, err
	}
	var out []catalog.SpendEntry
	for _, s := range f.spend {
		if between(s.Date, from, to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeFacts) UserTotals(ctx context.Context, since *time.Time, until time.Time) ([]domain.UserTotal, error) {
	if err := f.touch(); err != nil {
		return nil, err
	}
	acc := map[string]*domain.UserTotal{}
	var order []string
	for _, c := range f.conversions {
		if !c.ConversionTime.Before(until) {
			continue
		}
		if since != nil && c.ConversionTime.Before(*since) {
			continue
		}
		t, ok := acc[c.UserID]
		if !ok {
			t = &domain.UserTotal{UserID: c.UserID}
			acc[c.UserID] = t
			order = append(order, c.UserID)
		}
		t.Conversions++
		t.Value += c.Value
	}
	// reverse order so callers cannot rely on store ordering
	out := make([]domain.UserTotal, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, *acc[order[i]])
	}
	return out, nil
}

func (f *fakeFacts) Memberships(ctx context.Context) ([]domain.Membership, error) {
	if err := f.touch(); err != nil {
		return nil, err
	}
	return append([]domain.Membership(nil), f.memberships...), nil
}

// ------------------------------------------------------------
// fake dimensions
// ------------------------------------------------------------

type fakeDims struct {
	channels  []catalog.Channel
	campaigns []catalog.Campaign
	segments  []catalog.Segment
}

func (f *fakeDims) ListChannels(ctx context.Context) ([]catalog.Channel, error) {
	return f.channels, nil
}

func (f *fakeDims) ListCampaigns(ctx context.Context, channelID *int64) ([]catalog.Campaign, error) {
	return f.campaigns, nil
}

func (f *fakeDims) ListSegments(ctx context.Context) ([]catalog.Segment, error) {
	return f.segments, nil
}

// ------------------------------------------------------------
// fake writer: keeps one table per metric, replaced by date
// ------------------------------------------------------------

type fakeWriter struct {
	mu        sync.Mutex
	channels  map[string][]domain.ChannelPerformance
	campaigns map[string][]domain.CampaignPerformance
	segments  map[string][]domain.SegmentPerformance
	userCLV   map[string][]domain.UserCLV
	segCLV    map[string][]domain.SegmentCLV
	err       error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		channels:  map[string][]domain.ChannelPerformance{},
		campaigns: map[string][]domain.CampaignPerformance{},
		segments:  map[string][]domain.SegmentPerformance{},
		userCLV:   map[string][]domain.UserCLV{},
		segCLV:    map[string][]domain.SegmentCLV{},
	}
}

func key(t time.Time) string { return t.Format(domain.DateLayout) }

func (f *fakeWriter) ReplaceChannelPerformance(ctx context.Context, days []time.Time, rows []domain.ChannelPerformance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, d := range days {
		delete(f.channels, key(d))
	}
	for _, r := range rows {
		f.channels[key(r.Date)] = append(f.channels[key(r.Date)], r)
	}
	return nil
}

func (f *fakeWriter) ReplaceCampaignPerformance(ctx context.Context, days []time.Time, rows []domain.CampaignPerformance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, d := range days {
		delete(f.campaigns, key(d))
	}
	for _, r := range rows {
		f.campaigns[key(r.Date)] = append(f.campaigns[key(r.Date)], r)
	}
	return nil
}

func (f *fakeWriter) ReplaceSegmentPerformance(ctx context.Context, days []time.Time, rows []domain.SegmentPerformance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, d := range days {
		delete(f.segments, key(d))
	}
	for _, r := range rows {
		f.segments[key(r.Date)] = append(f.segments[key(r.Date)], r)
	}
	return nil
}

func (f *fakeWriter) ReplaceCLV(ctx context.Context, asOf time.Time, users []domain.UserCLV, segments []domain.SegmentCLV) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.userCLV[key(asOf)] = users
	f.segCLV[key(asOf)] = segments
	return nil
}

// ------------------------------------------------------------
// fake locker, archiver, exporter, status refresher, assignments
// ------------------------------------------------------------

type fakeLocker struct {
	mu       sync.Mutex
	acquired [][]string
	released int
	err      error
}

func (f *fakeLocker) Lock(ctx context.Context, keys []string) (ports.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.acquired = append(f.acquired, keys)
	return func() {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
	}, nil
}

type fakeArchiver struct {
	days []time.Time
}

func (f *fakeArchiver) ArchiveDay(ctx context.Context, day time.Time) (domain.ArchiveResult, error) {
	f.days = append(f.days, day)
	return domain.ArchiveResult{Day: day, Location: "archive"}, nil
}

type fakeExporter struct {
	day         time.Time
	events      int
	conversions int
}

func (f *fakeExporter) ExportDay(ctx context.Context, day time.Time, evs []events.UserEvent, convs []events.Conversion) error {
	f.day = day
	f.events = len(evs)
	f.conversions = len(convs)
	return nil
}

type fakeStatuses struct {
	today time.Time
}

func (f *fakeStatuses) RefreshCampaignStatuses(ctx context.Context, today time.Time) (int, error) {
	f.today = today
	return 1, nil
}

type fakeAssignments struct {
	inserted []domain.Membership
}

func (f *fakeAssignments) InsertMemberships(ctx context.Context, ms []domain.Membership) (int, error) {
	f.inserted = append(f.inserted, ms...)
	return len(ms), nil
}

// ------------------------------------------------------------
// fixtures
// ------------------------------------------------------------

var jan1 = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return jan1.Add(time.Duration(h) * time.Hour) }

func ref(v int64) *int64 { return &v }

func dayWindow() domain.Window {
	return domain.Window{Start: jan1, End: jan1.AddDate(0, 0, 1)}
}

// marketingDims is a Search channel (1) with the Spring Sale campaign (10),
// an Email channel (2) with one campaign (20), and two segments.
func marketingDims() *fakeDims {
	end := jan1.AddDate(0, 0, 30)
	return &fakeDims{
		channels: []catalog.Channel{
			{ID: 2, Name: "Email Marketing", Type: "Email", CostModel: catalog.CostModelCPM},
			{ID: 1, Name: "Search", Type: "Search", CostModel: catalog.CostModelCPC},
		},
		campaigns: []catalog.Campaign{
			{ID: 10, Name: "Spring Sale", ChannelID: 1, StartDate: jan1, EndDate: &end, Budget: 5000, Status: catalog.CampaignActive},
			{ID: 20, Name: "Newsletter", ChannelID: 2, StartDate: jan1, Status: catalog.CampaignActive},
		},
		segments: []catalog.Segment{
			{ID: 3, Name: "High-Value Customers"},
			{ID: 4, Name: "Mobile Users", Rules: catalog.Equals{Attr: "device_type", Value: catalog.String("Mobile")}},
		},
	}
}

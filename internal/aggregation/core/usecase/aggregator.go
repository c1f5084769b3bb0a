package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	catalog "marketing-analytics-service/internal/catalog/core/domain"
	events "marketing-analytics-service/internal/events/core/domain"
)

var ErrStoreUnavailable = errors.New("store unavailable")

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// Aggregator computes daily performance rows and CLV. It holds no run state:
// every call receives its window and reads the facts it needs.
type Aggregator struct {
	facts  ports.FactReader
	dims   ports.DimensionReader
	policy domain.Policy
	log    *zap.Logger
}

func NewAggregator(facts ports.FactReader, dims ports.DimensionReader, policy domain.Policy, log *zap.Logger) *Aggregator {
	if policy.SegmentAttribution == "" {
		policy.SegmentAttribution = domain.AttributionFull
	}
	return &Aggregator{facts: facts, dims: dims, policy: policy, log: log}
}

func (a *Aggregator) Policy() domain.Policy { return a.policy }

// ------------------------------------------------------------
// CHANNEL
// ------------------------------------------------------------

type channelAcc struct {
	events      int64
	clicks      int64
	impressions int64
	users       map[string]struct{}
	spend       float64
	revenue     float64
}

// ComputeChannelPerformance returns one row per (date, channel) for every
// channel and every date partition the window touches.
func (a *Aggregator) ComputeChannelPerformance(ctx context.Context, w domain.Window) ([]domain.ChannelPerformance, domain.Exclusions, error) {
	var excl domain.Exclusions
	if err := w.Validate(); err != nil {
		return nil, excl, err
	}
	p := w.Partitions()

	dims, err := a.loadDimensions(ctx)
	if err != nil {
		return nil, excl, err
	}
	evs, err := a.facts.EventsBetween(ctx, p.Start, p.End)
	if err != nil {
		return nil, excl, storeErr("read events", err)
	}
	convs, err := a.facts.ConversionsBetween(ctx, p.Start, p.End)
	if err != nil {
		return nil, excl, storeErr("read conversions", err)
	}
	spend, err := a.facts.SpendBetween(ctx, p.Start, p.End)
	if err != nil {
		return nil, excl, storeErr("read spend", err)
	}

	acc := map[cellKey]*channelAcc{}
	get := func(day time.Time, id int64) *channelAcc {
		k := cellKey{day: dayKey(day), id: id}
		c, ok := acc[k]
		if !ok {
			c = &channelAcc{users: map[string]struct{}{}}
			acc[k] = c
		}
		return c
	}

	for _, e := range evs {
		ref, ok := dims.resolve(e.CampaignID, e.ChannelID)
		if !ok {
			excl.Events++
			a.warnEvent(domain.MetricChannel, e)
			continue
		}
		// no campaign or channel: unattributed, not missing
		if ref.channel == 0 {
			continue
		}
		c := get(e.EventTime, ref.channel)
		c.events++
		c.users[e.UserID] = struct{}{}
		switch e.EventName {
		case a.policy.ClickEvent:
			c.clicks++
		case a.policy.ImpressionEvent:
			c.impressions++
		}
	}

	for _, cv := range convs {
		ref, ok := dims.resolve(cv.CampaignID, cv.ChannelID)
		if !ok {
			excl.Conversions++
			a.warnConversion(domain.MetricChannel, cv)
			continue
		}
		if ref.channel == 0 {
			continue
		}
		get(cv.ConversionTime, ref.channel).revenue += cv.Value
	}

	for _, s := range spend {
		cp, ok := dims.campaigns[s.CampaignID]
		if !ok {
			continue
		}
		if _, ok := dims.channels[cp.ChannelID]; !ok {
			continue
		}
		get(s.Date, cp.ChannelID).spend += s.Amount
	}

	var rows []domain.ChannelPerformance
	for _, day := range w.Days() {
		for _, id := range dims.channelIDs {
			c := acc[cellKey{day: dayKey(day), id: id}]
			if c == nil {
				c = &channelAcc{}
			}
			rows = append(rows, domain.ChannelPerformance{
				Date:        day,
				ChannelID:   id,
				ChannelName: dims.channels[id].Name,
				Events:      c.events,
				UniqueUsers: int64(len(c.users)),
				Clicks:      c.clicks,
				Impressions: c.impressions,
				CTR:         domain.SafeRatio(float64(c.clicks), float64(c.impressions)).OrZero(),
				Spend:       c.spend,
				Revenue:     c.revenue,
				ROAS:        domain.SafeRatio(c.revenue, c.spend),
			})
		}
	}

	return rows, excl, nil
}

// ------------------------------------------------------------
// CAMPAIGN
// ------------------------------------------------------------

type campaignAcc struct {
	conversions int64
	value       float64
	spend       float64
}

// ComputeCampaignPerformance returns one row per (date, campaign) for every
// campaign in flight on that date or with facts on it.
func (a *Aggregator) ComputeCampaignPerformance(ctx context.Context, w domain.Window) ([]domain.CampaignPerformance, domain.Exclusions, error) {
	var excl domain.Exclusions
	if err := w.Validate(); err != nil {
		return nil, excl, err
	}
	p := w.Partitions()

	dims, err := a.loadDimensions(ctx)
	if err != nil {
		return nil, excl, err
	}
	convs, err := a.facts.ConversionsBetween(ctx, p.Start, p.End)
	if err != nil {
		return nil, excl, storeErr("read conversions", err)
	}
	spend, err := a.facts.SpendBetween(ctx, p.Start, p.End)
	if err != nil {
		return nil, excl, storeErr("read spend", err)
	}

	acc := map[cellKey]*campaignAcc{}
	get := func(day time.Time, id int64) *campaignAcc {
		k := cellKey{day: dayKey(day), id: id}
		c, ok := acc[k]
		if !ok {
			c = &campaignAcc{}
			acc[k] = c
		}
		return c
	}

	for _, cv := range convs {
		ref, ok := dims.resolve(cv.CampaignID, cv.ChannelID)
		if !ok {
			excl.Conversions++
			a.warnConversion(domain.MetricCampaign, cv)
			continue
		}
		if ref.campaign == 0 {
			continue
		}
		c := get(cv.ConversionTime, ref.campaign)
		c.conversions++
		c.value += cv.Value
	}

	for _, s := range spend {
		if _, ok := dims.campaigns[s.CampaignID]; !ok {
			continue
		}
		get(s.Date, s.CampaignID).spend += s.Amount
	}

	var rows []domain.CampaignPerformance
	for _, day := range w.Days() {
		for _, id := range dims.campaignIDs {
			cp := dims.campaigns[id]
			c := acc[cellKey{day: dayKey(day), id: id}]
			if c == nil {
				if !inFlight(cp, day) {
					continue
				}
				c = &campaignAcc{}
			}
			conv := float64(c.conversions)
			rows = append(rows, domain.CampaignPerformance{
				Date:                 day,
				CampaignID:           id,
				CampaignName:         cp.Name,
				ChannelID:            cp.ChannelID,
				ChannelName:          dims.channels[cp.ChannelID].Name,
				Conversions:          c.conversions,
				TotalConversionValue: c.value,
				AvgConversionValue:   domain.SafeRatio(c.value, conv).OrZero(),
				Spend:                c.spend,
				CAC:                  domain.SafeRatio(c.spend, conv),
				ROAS:                 domain.SafeRatio(c.value, c.spend),
			})
		}
	}

	return rows, excl, nil
}

func inFlight(c catalog.Campaign, day time.Time) bool {
	if !c.StartDate.IsZero() && day.Before(domain.StartOfDay(c.StartDate)) {
		return false
	}
	if c.EndDate != nil && day.After(domain.StartOfDay(*c.EndDate)) {
		return false
	}
	return true
}

// ------------------------------------------------------------
// SEGMENT
// ------------------------------------------------------------

type segmentAcc struct {
	conversions float64
	value       float64
	users       map[string]struct{}
}

// ComputeSegmentPerformance credits each conversion to the segments its user
// belonged to at conversion time, weighted by the attribution policy.
func (a *Aggregator) ComputeSegmentPerformance(ctx context.Context, w domain.Window) ([]domain.SegmentPerformance, domain.Exclusions, error) {
	var excl domain.Exclusions
	if err := w.Validate(); err != nil {
		return nil, excl, err
	}
	p := w.Partitions()

	dims, err := a.loadDimensions(ctx)
	if err != nil {
		return nil, excl, err
	}
	convs, err := a.facts.ConversionsBetween(ctx, p.Start, p.End)
	if err != nil {
		return nil, excl, storeErr("read conversions", err)
	}
	ms, err := a.facts.Memberships(ctx)
	if err != nil {
		return nil, excl, storeErr("read memberships", err)
	}
	idx := domain.IndexMemberships(ms)

	acc := map[cellKey]*segmentAcc{}
	for _, cv := range convs {
		if _, ok := dims.resolve(cv.CampaignID, cv.ChannelID); !ok {
			excl.Conversions++
			a.warnConversion(domain.MetricSegment, cv)
			continue
		}
		segs := dims.knownSegments(idx.SegmentsAt(cv.UserID, cv.ConversionTime))
		weight := a.policy.SegmentAttribution.Weight(len(segs))
		for _, id := range segs {
			k := cellKey{day: dayKey(cv.ConversionTime), id: id}
			c, ok := acc[k]
			if !ok {
				c = &segmentAcc{users: map[string]struct{}{}}
				acc[k] = c
			}
			c.conversions += weight
			c.value += cv.Value * weight
			c.users[cv.UserID] = struct{}{}
		}
	}

	var rows []domain.SegmentPerformance
	for _, day := range w.Days() {
		for _, id := range dims.segmentIDs {
			c := acc[cellKey{day: dayKey(day), id: id}]
			if c == nil {
				c = &segmentAcc{}
			}
			rows = append(rows, domain.SegmentPerformance{
				Date:                 day,
				SegmentID:            id,
				SegmentName:          dims.segments[id].Name,
				Conversions:          c.conversions,
				UniqueUsers:          int64(len(c.users)),
				TotalConversionValue: c.value,
				AvgConversionValue:   domain.SafeRatio(c.value, c.conversions).OrZero(),
			})
		}
	}

	return rows, excl, nil
}

// ------------------------------------------------------------
// CLV
// ------------------------------------------------------------

// ComputeCLV returns per-user cumulative conversion value as of the end of
// the asOf day, and a rollup over each user's segments at that instant.
// Segment rollups count converting members only.
func (a *Aggregator) ComputeCLV(ctx context.Context, asOf time.Time) ([]domain.UserCLV, []domain.SegmentCLV, error) {
	day := domain.StartOfDay(asOf)
	until := day.AddDate(0, 0, 1)
	var since *time.Time
	if a.policy.CLVHorizonDays > 0 {
		s := until.AddDate(0, 0, -a.policy.CLVHorizonDays)
		since = &s
	}

	dims, err := a.loadDimensions(ctx)
	if err != nil {
		return nil, nil, err
	}
	totals, err := a.facts.UserTotals(ctx, since, until)
	if err != nil {
		return nil, nil, storeErr("read user totals", err)
	}
	ms, err := a.facts.Memberships(ctx)
	if err != nil {
		return nil, nil, storeErr("read memberships", err)
	}
	idx := domain.IndexMemberships(ms)

	slices.SortFunc(totals, func(x, y domain.UserTotal) int {
		return strings.Compare(x.UserID, y.UserID)
	})

	type segAcc struct {
		users int64
		total float64
	}
	segAccs := map[int64]*segAcc{}

	users := make([]domain.UserCLV, 0, len(totals))
	for _, t := range totals {
		users = append(users, domain.UserCLV{
			AsOf:        day,
			UserID:      t.UserID,
			Conversions: t.Conversions,
			CLV:         t.Value,
		})

		segs := dims.knownSegments(idx.SegmentsAt(t.UserID, until))
		weight := a.policy.SegmentAttribution.Weight(len(segs))
		for _, id := range segs {
			s, ok := segAccs[id]
			if !ok {
				s = &segAcc{}
				segAccs[id] = s
			}
			s.users++
			s.total += t.Value * weight
		}
	}

	segments := make([]domain.SegmentCLV, 0, len(dims.segmentIDs))
	for _, id := range dims.segmentIDs {
		s := segAccs[id]
		if s == nil {
			s = &segAcc{}
		}
		segments = append(segments, domain.SegmentCLV{
			AsOf:        day,
			SegmentID:   id,
			SegmentName: dims.segments[id].Name,
			Users:       s.users,
			TotalCLV:    s.total,
			AvgCLV:      domain.SafeRatio(s.total, float64(s.users)).OrZero(),
		})
	}

	return users, segments, nil
}

// ------------------------------------------------------------
// helpers
// ------------------------------------------------------------

type cellKey struct {
	day string
	id  int64
}

func dayKey(t time.Time) string {
	return t.UTC().Format(domain.DateLayout)
}

type dimensions struct {
	channels    map[int64]catalog.Channel
	campaigns   map[int64]catalog.Campaign
	segments    map[int64]catalog.Segment
	channelIDs  []int64
	campaignIDs []int64
	segmentIDs  []int64
}

func (a *Aggregator) loadDimensions(ctx context.Context) (*dimensions, error) {
	channels, err := a.dims.ListChannels(ctx)
	if err != nil {
		return nil, storeErr("read channels", err)
	}
	campaigns, err := a.dims.ListCampaigns(ctx, nil)
	if err != nil {
		return nil, storeErr("read campaigns", err)
	}
	segments, err := a.dims.ListSegments(ctx)
	if err != nil {
		return nil, storeErr("read segments", err)
	}

	d := &dimensions{
		channels:  make(map[int64]catalog.Channel, len(channels)),
		campaigns: make(map[int64]catalog.Campaign, len(campaigns)),
		segments:  make(map[int64]catalog.Segment, len(segments)),
	}
	for _, c := range channels {
		d.channels[c.ID] = c
		d.channelIDs = append(d.channelIDs, c.ID)
	}
	// A campaign whose channel is gone is itself a missing reference: facts
	// naming it are excluded and it gets no rows.
	for _, c := range campaigns {
		if _, ok := d.channels[c.ChannelID]; !ok {
			a.log.Warn("ignoring campaign with missing channel",
				zap.Int64("campaign_id", c.ID),
				zap.Int64("channel_id", c.ChannelID))
			continue
		}
		d.campaigns[c.ID] = c
		d.campaignIDs = append(d.campaignIDs, c.ID)
	}
	for _, s := range segments {
		d.segments[s.ID] = s
		d.segmentIDs = append(d.segmentIDs, s.ID)
	}
	slices.Sort(d.channelIDs)
	slices.Sort(d.campaignIDs)
	slices.Sort(d.segmentIDs)
	return d, nil
}

type factRef struct {
	channel  int64
	campaign int64
}

// resolve maps a fact's optional references to dimension ids. ok is false
// when a set reference points at a missing row. A campaign reference without
// an explicit channel inherits the campaign's channel.
func (d *dimensions) resolve(campaignID, channelID *int64) (factRef, bool) {
	var ref factRef
	if channelID != nil {
		if _, ok := d.channels[*channelID]; !ok {
			return ref, false
		}
		ref.channel = *channelID
	}
	if campaignID != nil {
		cp, ok := d.campaigns[*campaignID]
		if !ok {
			return ref, false
		}
		ref.campaign = cp.ID
		if ref.channel == 0 {
			ref.channel = cp.ChannelID
		}
	}
	return ref, true
}

func (d *dimensions) knownSegments(ids []int64) []int64 {
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := d.segments[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (a *Aggregator) warnEvent(metric string, e events.UserEvent) {
	a.log.Warn("excluding event with missing reference",
		zap.String("metric", metric),
		zap.Int64("event_id", e.ID),
		zap.String("user_id", e.UserID),
		zap.Int64p("campaign_id", e.CampaignID),
		zap.Int64p("channel_id", e.ChannelID))
}

func (a *Aggregator) warnConversion(metric string, c events.Conversion) {
	a.log.Warn("excluding conversion with missing reference",
		zap.String("metric", metric),
		zap.Int64("conversion_id", c.ID),
		zap.String("user_id", c.UserID),
		zap.Int64p("campaign_id", c.CampaignID),
		zap.Int64p("channel_id", c.ChannelID))
}

package usecase

import (
	"context"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	catalog "marketing-analytics-service/internal/catalog/core/domain"
)

// Profile attribute names rule trees can reference.
const (
	AttrDeviceType    = "device_type"
	AttrBrowser       = "browser"
	AttrLocation      = "location"
	AttrReferrer      = "referrer"
	AttrEvent         = "event"
	AttrLifetimeValue = "lifetime_value"
	AttrConversions   = "conversions"
	// AttrPropertyPrefix namespaces top-level scalar event properties.
	AttrPropertyPrefix = "properties."
)

// SegmentAssigner evaluates rule-bearing segments against profiles of users
// active in a window and records new memberships. It never unassigns.
type SegmentAssigner struct {
	facts  ports.FactReader
	dims   ports.DimensionReader
	writer ports.AssignmentWriter
	log    *zap.Logger
}

func NewSegmentAssigner(facts ports.FactReader, dims ports.DimensionReader, writer ports.AssignmentWriter, log *zap.Logger) *SegmentAssigner {
	return &SegmentAssigner{facts: facts, dims: dims, writer: writer, log: log}
}

// AssignSegments returns the number of memberships created. New memberships
// are stamped with the window end.
func (s *SegmentAssigner) AssignSegments(ctx context.Context, w domain.Window) (int, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}

	segments, err := s.dims.ListSegments(ctx)
	if err != nil {
		return 0, storeErr("read segments", err)
	}
	ruled := segments[:0:0]
	for _, seg := range segments {
		if seg.Rules != nil {
			ruled = append(ruled, seg)
		}
	}
	if len(ruled) == 0 {
		return 0, nil
	}

	profiles, err := s.BuildProfiles(ctx, w)
	if err != nil {
		return 0, err
	}
	if len(profiles) == 0 {
		return 0, nil
	}

	ms, err := s.facts.Memberships(ctx)
	if err != nil {
		return 0, storeErr("read memberships", err)
	}
	idx := domain.IndexMemberships(ms)

	users := make([]string, 0, len(profiles))
	for u := range profiles {
		users = append(users, u)
	}
	slices.Sort(users)

	var created []domain.Membership
	for _, u := range users {
		active := idx.SegmentsAt(u, w.End)
		for _, seg := range ruled {
			if slices.Contains(active, seg.ID) || !seg.Rules.Match(profiles[u]) {
				continue
			}
			created = append(created, domain.Membership{
				UserID:     u,
				SegmentID:  seg.ID,
				AssignedAt: w.End,
			})
		}
	}
	if len(created) == 0 {
		return 0, nil
	}

	n, err := s.writer.InsertMemberships(ctx, created)
	if err != nil {
		return 0, storeErr("insert memberships", err)
	}

	s.log.Info("segments assigned",
		zap.Stringer("window", w),
		zap.Int("candidates", len(created)),
		zap.Int("inserted", n))
	return n, nil
}

// BuildProfiles assembles the attribute bag of every user with an event in
// the window. Lifetime figures cover all conversions before the window end.
func (s *SegmentAssigner) BuildProfiles(ctx context.Context, w domain.Window) (map[string]catalog.Profile, error) {
	evs, err := s.facts.EventsBetween(ctx, w.Start, w.End)
	if err != nil {
		return nil, storeErr("read events", err)
	}

	profiles := map[string]catalog.Profile{}
	for _, e := range evs {
		p, ok := profiles[e.UserID]
		if !ok {
			p = catalog.Profile{}
			profiles[e.UserID] = p
		}
		p.Add(AttrEvent, catalog.String(e.EventName))
		addNonEmpty(p, AttrDeviceType, e.DeviceType)
		addNonEmpty(p, AttrBrowser, e.Browser)
		addNonEmpty(p, AttrLocation, e.Location)
		addNonEmpty(p, AttrReferrer, e.Referrer)
		for k, v := range e.Properties {
			if sc, ok := scalarOf(v); ok {
				p.Add(AttrPropertyPrefix+k, sc)
			}
		}
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	totals, err := s.facts.UserTotals(ctx, nil, w.End)
	if err != nil {
		return nil, storeErr("read user totals", err)
	}
	byUser := make(map[string]domain.UserTotal, len(totals))
	for _, t := range totals {
		byUser[t.UserID] = t
	}
	for u, p := range profiles {
		t := byUser[u]
		p.Set(AttrLifetimeValue, catalog.Number(t.Value))
		p.Set(AttrConversions, catalog.Number(float64(t.Conversions)))
	}

	return profiles, nil
}

func addNonEmpty(p catalog.Profile, attr, v string) {
	if v != "" {
		p.Add(attr, catalog.String(v))
	}
}

func scalarOf(v any) (catalog.Scalar, bool) {
	switch t := v.(type) {
	case string:
		return catalog.String(t), true
	case float64:
		return catalog.Number(t), true
	case int:
		return catalog.Number(float64(t)), true
	case int64:
		return catalog.Number(float64(t)), true
	case bool:
		return catalog.String(strconv.FormatBool(t)), true
	default:
		return catalog.Scalar{}, false
	}
}

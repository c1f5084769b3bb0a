package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/usecase"
	catalog "marketing-analytics-service/internal/catalog/core/domain"
	events "marketing-analytics-service/internal/events/core/domain"
)

func TestAssignSegments_MatchesRulesAndStampsWindowEnd(t *testing.T) {
	facts := &fakeFacts{
		events: []events.UserEvent{
			{UserID: "mobile", EventName: "page_view", EventTime: at(1), DeviceType: "Mobile"},
			{UserID: "desktop", EventName: "page_view", EventTime: at(1), DeviceType: "Desktop"},
		},
	}
	writer := &fakeAssignments{}
	s := usecase.NewSegmentAssigner(facts, marketingDims(), writer, zap.NewNop())

	n, err := s.AssignSegments(context.Background(), dayWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, writer.inserted, 1)
	m := writer.inserted[0]
	assert.Equal(t, "mobile", m.UserID)
	assert.Equal(t, int64(4), m.SegmentID, "manual segment 3 is never assigned by rules")
	assert.Equal(t, dayWindow().End, m.AssignedAt)
	assert.Nil(t, m.UnassignedAt)
}

func TestAssignSegments_SkipsActiveMemberships(t *testing.T) {
	facts := &fakeFacts{
		events: []events.UserEvent{
			{UserID: "mobile", EventName: "page_view", EventTime: at(1), DeviceType: "Mobile"},
		},
		memberships: []domain.Membership{
			{UserID: "mobile", SegmentID: 4, AssignedAt: jan1.AddDate(0, 0, -7)},
		},
	}
	writer := &fakeAssignments{}
	s := usecase.NewSegmentAssigner(facts, marketingDims(), writer, zap.NewNop())

	n, err := s.AssignSegments(context.Background(), dayWindow())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, writer.inserted)
}

func TestAssignSegments_ReassignsAfterUnassignment(t *testing.T) {
	left := jan1.AddDate(0, 0, -1)
	facts := &fakeFacts{
		events: []events.UserEvent{
			{UserID: "mobile", EventName: "page_view", EventTime: at(1), DeviceType: "Mobile"},
		},
		memberships: []domain.Membership{
			{UserID: "mobile", SegmentID: 4, AssignedAt: jan1.AddDate(0, 0, -7), UnassignedAt: &left},
		},
	}
	writer := &fakeAssignments{}
	s := usecase.NewSegmentAssigner(facts, marketingDims(), writer, zap.NewNop())

	n, err := s.AssignSegments(context.Background(), dayWindow())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAssignSegments_NoRuleSegmentsReadsNoFacts(t *testing.T) {
	facts := &fakeFacts{}
	dims := marketingDims()
	dims.segments = []catalog.Segment{{ID: 3, Name: "High-Value Customers"}}
	s := usecase.NewSegmentAssigner(facts, dims, &fakeAssignments{}, zap.NewNop())

	n, err := s.AssignSegments(context.Background(), dayWindow())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, facts.calls)
}

func TestAssignSegments_InvalidWindow(t *testing.T) {
	s := usecase.NewSegmentAssigner(&fakeFacts{}, marketingDims(), &fakeAssignments{}, zap.NewNop())

	_, err := s.AssignSegments(context.Background(), domain.Window{Start: at(2), End: at(2)})
	assert.True(t, errors.Is(err, domain.ErrInvalidWindow))
}

func TestAssignSegments_StoreUnavailable(t *testing.T) {
	facts := &fakeFacts{err: errors.New("connection refused")}
	s := usecase.NewSegmentAssigner(facts, marketingDims(), &fakeAssignments{}, zap.NewNop())

	_, err := s.AssignSegments(context.Background(), dayWindow())
	assert.True(t, errors.Is(err, usecase.ErrStoreUnavailable))
}

func TestBuildProfiles_Attributes(t *testing.T) {
	facts := &fakeFacts{
		events: []events.UserEvent{
			{
				UserID: "u1", EventName: "page_view", EventTime: at(1),
				DeviceType: "Mobile", Browser: "Safari", Location: "Germany", Referrer: "google.com",
				Properties: map[string]any{
					"plan":    "pro",
					"items":   float64(3),
					"trial":   true,
					"address": map[string]any{"city": "Berlin"},
				},
			},
			{UserID: "u1", EventName: "add_to_cart", EventTime: at(2)},
			{UserID: "u1", EventName: "page_view", EventTime: at(3)},
		},
		conversions: []events.Conversion{
			{UserID: "u1", Value: 700, ConversionTime: jan1.AddDate(0, 0, -3)},
			{UserID: "u1", Value: 600, ConversionTime: at(4)},
			{UserID: "u1", Value: 999, ConversionTime: jan1.AddDate(0, 0, 2)},
		},
	}
	s := usecase.NewSegmentAssigner(facts, marketingDims(), &fakeAssignments{}, zap.NewNop())

	profiles, err := s.BuildProfiles(context.Background(), dayWindow())
	require.NoError(t, err)
	require.Contains(t, profiles, "u1")
	p := profiles["u1"]

	assert.Equal(t, []catalog.Scalar{catalog.String("Mobile")}, p[usecase.AttrDeviceType])
	assert.Equal(t, []catalog.Scalar{catalog.String("Safari")}, p[usecase.AttrBrowser])
	assert.Equal(t, []catalog.Scalar{catalog.String("Germany")}, p[usecase.AttrLocation])
	assert.Equal(t, []catalog.Scalar{catalog.String("google.com")}, p[usecase.AttrReferrer])
	assert.Equal(t, []catalog.Scalar{catalog.String("page_view"), catalog.String("add_to_cart")}, p[usecase.AttrEvent])

	assert.Equal(t, []catalog.Scalar{catalog.String("pro")}, p["properties.plan"])
	assert.Equal(t, []catalog.Scalar{catalog.Number(3)}, p["properties.items"])
	assert.Equal(t, []catalog.Scalar{catalog.String("true")}, p["properties.trial"])
	assert.NotContains(t, p, "properties.address", "nested objects are not profile attributes")

	assert.Equal(t, []catalog.Scalar{catalog.Number(1300)}, p[usecase.AttrLifetimeValue])
	assert.Equal(t, []catalog.Scalar{catalog.Number(2)}, p[usecase.AttrConversions])
}

func TestBuildProfiles_UserWithoutConversions(t *testing.T) {
	facts := &fakeFacts{
		events: []events.UserEvent{{UserID: "new", EventName: "signup", EventTime: at(5)}},
	}
	s := usecase.NewSegmentAssigner(facts, marketingDims(), &fakeAssignments{}, zap.NewNop())

	profiles, err := s.BuildProfiles(context.Background(), dayWindow())
	require.NoError(t, err)

	high := catalog.Range{Attr: usecase.AttrLifetimeValue, Min: ptr(1000)}
	assert.False(t, high.Match(profiles["new"]))
	assert.Equal(t, []catalog.Scalar{catalog.Number(0)}, profiles["new"][usecase.AttrConversions])
}

func ptr(v float64) *float64 { return &v }

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/usecase"
	catalog "marketing-analytics-service/internal/catalog/core/domain"
	events "marketing-analytics-service/internal/events/core/domain"
	"marketing-analytics-service/internal/platform/telemetry"
)

type runnerFixture struct {
	facts       *fakeFacts
	writer      *fakeWriter
	locker      *fakeLocker
	assignments *fakeAssignments
	metrics     *telemetry.Metrics
	runner      *usecase.Runner
}

// newRunnerFixture wires a runner over one Mobile user converting on
// Spring Sale and one conversion pointing at a deleted campaign. withAssigner
// adds rule-based segment assignment.
func newRunnerFixture(withAssigner bool, opts ...usecase.RunnerOption) *runnerFixture {
	f := &runnerFixture{
		facts: &fakeFacts{
			events: []events.UserEvent{
				{UserID: "a", EventName: "ad_impression", EventTime: at(1), ChannelID: ref(1)},
				{UserID: "a", EventName: "ad_click", EventTime: at(1), CampaignID: ref(10), DeviceType: "Mobile"},
			},
			conversions: []events.Conversion{
				{UserID: "a", Value: 200, CampaignID: ref(10), ConversionTime: at(2)},
				{UserID: "ghost", Value: 10, CampaignID: ref(404), ConversionTime: at(3)},
			},
			spend: []catalog.SpendEntry{{CampaignID: 10, Date: jan1, Amount: 50}},
		},
		writer:      newFakeWriter(),
		locker:      &fakeLocker{},
		assignments: &fakeAssignments{},
		metrics:     telemetry.New(),
	}
	agg := usecase.NewAggregator(f.facts, marketingDims(), domain.DefaultPolicy(), zap.NewNop())
	if withAssigner {
		assigner := usecase.NewSegmentAssigner(f.facts, marketingDims(), f.assignments, zap.NewNop())
		opts = append(opts, usecase.WithSegmentAssigner(assigner))
	}
	f.runner = usecase.NewRunner(agg, f.writer, f.locker, f.metrics, zap.NewNop(), opts...)
	return f
}

func TestRunner_Run_WritesAllMetricsUnderSortedLocks(t *testing.T) {
	f := newRunnerFixture(false)
	w := domain.Window{Start: at(22), End: at(26)}

	report, err := f.runner.Run(context.Background(), usecase.TriggerManual, w)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, []time.Time{jan1, jan1.AddDate(0, 0, 1)}, report.Days)
	require.Len(t, report.Metrics, 3)
	assert.Equal(t, domain.Exclusions{Conversions: 1}, report.Excluded())

	require.Len(t, f.locker.acquired, 1)
	assert.Equal(t, []string{
		"campaign_performance:2023-01-01",
		"campaign_performance:2023-01-02",
		"channel_performance:2023-01-01",
		"channel_performance:2023-01-02",
		"segment_performance:2023-01-01",
		"segment_performance:2023-01-02",
	}, f.locker.acquired[0])
	assert.Equal(t, 1, f.locker.released)

	rows := f.writer.campaigns["2023-01-01"]
	require.Len(t, rows, 2)
	assert.Equal(t, domain.Ratio{Value: 50, Valid: true}, rows[0].CAC)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("manual", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExcludedFacts.WithLabelValues("conversion")))
}

func TestRunner_Run_IdempotentReplacement(t *testing.T) {
	f := newRunnerFixture(false)

	_, err := f.runner.Run(context.Background(), usecase.TriggerManual, dayWindow())
	require.NoError(t, err)
	first := f.writer.channels["2023-01-01"]

	_, err = f.runner.Run(context.Background(), usecase.TriggerManual, dayWindow())
	require.NoError(t, err)
	assert.Equal(t, first, f.writer.channels["2023-01-01"])
	assert.Len(t, f.writer.channels["2023-01-01"], 2, "rows replaced, not appended")
}

func TestRunner_Run_InvalidWindow(t *testing.T) {
	f := newRunnerFixture(false)

	_, err := f.runner.Run(context.Background(), usecase.TriggerManual, domain.Window{Start: at(3), End: at(1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidWindow))
	assert.Empty(t, f.locker.acquired)
	assert.Zero(t, f.facts.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RunsTotal.WithLabelValues("manual", "failure")))
}

func TestRunner_Run_WriterFailureIsStoreUnavailable(t *testing.T) {
	f := newRunnerFixture(false)
	f.writer.err = errors.New("tx aborted")

	_, err := f.runner.Run(context.Background(), usecase.TriggerManual, dayWindow())
	assert.True(t, errors.Is(err, usecase.ErrStoreUnavailable))
	assert.Equal(t, 1, f.locker.released, "locks released on failure")
}

func TestRunner_Run_LockFailure(t *testing.T) {
	f := newRunnerFixture(false)
	f.locker.err = errors.New("lock held")

	_, err := f.runner.Run(context.Background(), usecase.TriggerManual, dayWindow())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock held")
	assert.Empty(t, f.writer.channels)
}

func TestRunner_DailyArchive(t *testing.T) {
	archiver := &fakeArchiver{}
	exporter := &fakeExporter{}
	statuses := &fakeStatuses{}

	f := newRunnerFixture(true,
		usecase.WithArchiver(archiver),
		usecase.WithExporter(exporter),
		usecase.WithStatusRefresher(statuses),
	)

	report, err := f.runner.DailyArchive(context.Background(), at(15))
	require.NoError(t, err)

	assert.Equal(t, usecase.TriggerDaily, report.Trigger)
	assert.Equal(t, dayWindow(), report.Window)
	require.Len(t, report.Metrics, 4)
	assert.Equal(t, domain.MetricCLV, report.Metrics[3].Metric)
	assert.True(t, report.Archived)
	assert.Equal(t, 1, report.StatusChanges)
	assert.Equal(t, 1, report.SegmentsAssigned)

	assert.Equal(t, []time.Time{jan1}, archiver.days)
	assert.Equal(t, jan1, exporter.day)
	assert.Equal(t, 2, exporter.events)
	assert.Equal(t, 2, exporter.conversions)
	assert.Equal(t, jan1.AddDate(0, 0, 1), statuses.today)

	require.Len(t, f.writer.userCLV["2023-01-01"], 2)
	require.Len(t, f.assignments.inserted, 1)
	assert.Equal(t, int64(4), f.assignments.inserted[0].SegmentID)
	assert.Equal(t, jan1.AddDate(0, 0, 1), f.assignments.inserted[0].AssignedAt)

	require.Len(t, f.locker.acquired, 2)
	assert.Equal(t, []string{"clv:2023-01-01"}, f.locker.acquired[1])
}

func TestRunner_HourlyIncremental(t *testing.T) {
	f := newRunnerFixture(true)

	w := domain.LastFullHour(at(2).Add(5 * time.Minute))
	report, err := f.runner.HourlyIncremental(context.Background(), w)
	require.NoError(t, err)

	assert.Equal(t, usecase.TriggerHourly, report.Trigger)
	assert.Len(t, report.Metrics, 3)
	assert.Equal(t, 1, report.SegmentsAssigned)
	assert.Equal(t, at(2), f.assignments.inserted[0].AssignedAt)
	assert.Len(t, f.writer.channels["2023-01-01"], 2)
}

func TestLockKeys(t *testing.T) {
	keys := usecase.LockKeys([]time.Time{jan1.AddDate(0, 0, 1), jan1}, domain.MetricSegment, domain.MetricCLV)
	assert.Equal(t, []string{
		"clv:2023-01-01",
		"clv:2023-01-02",
		"segment_performance:2023-01-01",
		"segment_performance:2023-01-02",
	}, keys)
}

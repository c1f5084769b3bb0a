package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecer struct {
	query string
	err   error
}

func (f *fakeExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.query = query
	return nil, f.err
}

func TestMigrate_AppliesEmbeddedSchema(t *testing.T) {
	db := &fakeExecer{}
	require.NoError(t, Migrate(context.Background(), db))

	for _, table := range []string{
		"raw.user_events",
		"analytics.conversions",
		"analytics.daily_channel_performance",
		"analytics.daily_campaign_performance",
		"analytics.daily_segment_performance",
		"analytics.segment_clv",
		"CREATE SCHEMA IF NOT EXISTS archive",
	} {
		assert.True(t, strings.Contains(db.query, table), "schema missing %s", table)
	}
}

func TestMigrate_WrapsError(t *testing.T) {
	cause := errors.New("connection refused")
	err := Migrate(context.Background(), &fakeExecer{err: cause})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

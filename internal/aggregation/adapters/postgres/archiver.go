package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	"marketing-analytics-service/internal/platform/database"
)

const archiveSchema = "archive"

// Archiver copies one day of raw facts into per-day tables of the archive
// schema (archive.daily_events_YYYY_MM_DD, archive.daily_conversions_...).
// Re-archiving a day replaces its snapshot.
type Archiver struct {
	db database.TxBeginner
}

func NewArchiver(db database.TxBeginner) *Archiver {
	return &Archiver{db: db}
}

var _ ports.Archiver = (*Archiver)(nil)

type snapshot struct {
	prefix string
	source string
	column string
}

var snapshots = []snapshot{
	{prefix: "daily_events_", source: "raw.user_events", column: "event_time"},
	{prefix: "daily_conversions_", source: "analytics.conversions", column: "conversion_time"},
}

func (a *Archiver) ArchiveDay(ctx context.Context, day time.Time) (domain.ArchiveResult, error) {
	w := domain.DayWindow(day)
	res := domain.ArchiveResult{Day: w.Start, Location: archiveSchema}
	counts := make([]int64, len(snapshots))

	err := database.WithTx(ctx, a.db, func(tx database.Tx) error {
		for i, s := range snapshots {
			n, err := copyDay(ctx, tx, s, w)
			if err != nil {
				return err
			}
			counts[i] = n
		}
		return nil
	})
	if err != nil {
		return domain.ArchiveResult{}, fmt.Errorf("archive %s: %w", w.Start.Format(domain.DateLayout), err)
	}

	res.Events, res.Conversions = counts[0], counts[1]
	return res, nil
}

// ArchiveTable returns the quoted snapshot table name for prefix and day.
func ArchiveTable(prefix string, day time.Time) string {
	suffix := strings.ReplaceAll(day.UTC().Format(domain.DateLayout), "-", "_")
	return pq.QuoteIdentifier(archiveSchema) + "." + pq.QuoteIdentifier(prefix+suffix)
}

func copyDay(ctx context.Context, tx database.Tx, s snapshot, w domain.Window) (int64, error) {
	table := ArchiveTable(s.prefix, w.Start)

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (LIKE %s INCLUDING DEFAULTS)", table, s.source),
		fmt.Sprintf("DELETE FROM %s", table),
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return 0, fmt.Errorf("prepare %s: %w", table, err)
		}
	}

	insert := fmt.Sprintf("INSERT INTO %s SELECT * FROM %s WHERE %s >= $1 AND %s < $2",
		table, s.source, s.column, s.column)
	r, err := tx.ExecContext(ctx, insert, w.Start, w.End)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return r.RowsAffected()
}

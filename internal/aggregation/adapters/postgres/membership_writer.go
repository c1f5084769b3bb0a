package postgres

import (
	"context"
	"fmt"

	"marketing-analytics-service/internal/aggregation/core/domain"
	"marketing-analytics-service/internal/aggregation/core/ports"
	"marketing-analytics-service/internal/platform/database"
)

type MembershipWriter struct {
	db database.TxBeginner
}

func NewMembershipWriter(db database.TxBeginner) *MembershipWriter {
	return &MembershipWriter{db: db}
}

var _ ports.AssignmentWriter = (*MembershipWriter)(nil)

// The partial unique index on active memberships makes a concurrent
// assignment of the same (user, segment) a no-op.
const insertMembershipSQL = `
INSERT INTO analytics.user_segments (user_id, segment_id, assigned_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, segment_id) WHERE unassigned_at IS NULL DO NOTHING`

func (w *MembershipWriter) InsertMemberships(ctx context.Context, ms []domain.Membership) (int, error) {
	if len(ms) == 0 {
		return 0, nil
	}

	inserted := 0
	err := database.WithTx(ctx, w.db, func(tx database.Tx) error {
		for _, m := range ms {
			res, err := tx.ExecContext(ctx, insertMembershipSQL, m.UserID, m.SegmentID, m.AssignedAt.UTC())
			if err != nil {
				return fmt.Errorf("insert membership %s/%d: %w", m.UserID, m.SegmentID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

package domain

import (
	"slices"
	"time"
)

// Membership is one user-to-segment assignment interval.
type Membership struct {
	UserID       string
	SegmentID    int64
	AssignedAt   time.Time
	UnassignedAt *time.Time
}

// ActiveAt reports whether t falls in [AssignedAt, UnassignedAt).
func (m Membership) ActiveAt(t time.Time) bool {
	if t.Before(m.AssignedAt) {
		return false
	}
	return m.UnassignedAt == nil || t.Before(*m.UnassignedAt)
}

// MembershipIndex groups memberships by user.
type MembershipIndex map[string][]Membership

func IndexMemberships(ms []Membership) MembershipIndex {
	idx := make(MembershipIndex, len(ms))
	for _, m := range ms {
		idx[m.UserID] = append(idx[m.UserID], m)
	}
	return idx
}

// SegmentsAt returns the distinct segments the user belongs to at t, in
// ascending id order.
func (idx MembershipIndex) SegmentsAt(userID string, t time.Time) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, m := range idx[userID] {
		if m.ActiveAt(t) && !seen[m.SegmentID] {
			seen[m.SegmentID] = true
			out = append(out, m.SegmentID)
		}
	}
	slices.Sort(out)
	return out
}


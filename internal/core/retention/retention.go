// Package retention decides which snapshots are old enough to delete.
// It is purely functional; the lifecycle service applies its decisions.
package retention

import (
	"time"

	"github.com/ewout/snapvault/internal/core/domain"
)

// IsExpired reports whether snap has reached the retention window at the
// given moment. The boundary is inclusive: a snapshot exactly window old
// is expired.
func IsExpired(snap domain.Snapshot, now time.Time, window time.Duration) bool {
	return now.Sub(snap.CreatedAt) >= window
}

// SelectExpired returns the snapshots from snaps that are expired at now.
// Input order is preserved and snaps is not modified.
func SelectExpired(snaps []domain.Snapshot, now time.Time, window time.Duration) []domain.Snapshot {
	var expired []domain.Snapshot
	for _, snap := range snaps {
		if IsExpired(snap, now, window) {
			expired = append(expired, snap)
		}
	}
	return expired
}
